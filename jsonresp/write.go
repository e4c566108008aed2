package jsonresp

import (
	"encoding/json"
	"net/http"
)

// Write serialises From(err) as the JSON body of w with its status code and
// records it in the metrics counter.
func Write(w http.ResponseWriter, err error) {
	e := From(err)
	if e == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	Observe(e)
	writeJSON(w, e.Status, e)
}

// WriteOK writes content wrapped in a 200 Response envelope.
func WriteOK[T any](w http.ResponseWriter, content T) {
	writeJSON(w, http.StatusOK, OK(content))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		Logger().Warn().Err(err).Msg("write response body")
	}
}
