// Package jsonresp is the runtime half of jsonerr.
//
// Code generated by `jsonerr gen` implements Responder for every declared
// error case and converts values into an *Error with Request or Internal.
// Everything a handler needs at the HTTP boundary lives here:
//
//   - Error is the wire object: {"status", "code", "hint", "content"}.
//   - From turns any Go error into an *Error. Errors that are not Responders
//     become an anonymous internal error and are logged.
//   - Write serialises an error onto an http.ResponseWriter. The Gin adapter
//     lives in package ginresp.
//   - LogInternal is the logging sink for internal cases. It writes through a
//     zerolog.Logger that SetLogger can replace (zerolog.Nop() disables it).
//   - RegisterMetrics exposes a Prometheus counter of emitted errors.
//   - Response is the success envelope {"status", "content", "meta"}.
//
// Example:
//
//	func getUser(w http.ResponseWriter, r *http.Request) {
//		u, err := store.User(r.Context(), id)
//		if err != nil {
//			jsonresp.Write(w, err) // NotFound{} -> 404 {"code":"not-found",...}
//			return
//		}
//		jsonresp.WriteOK(w, u)
//	}
package jsonresp
