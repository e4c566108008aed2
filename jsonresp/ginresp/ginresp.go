// Package ginresp adapts jsonresp to the Gin router.
//
// Abort is the Gin counterpart of jsonresp.Write: it converts an error with
// jsonresp.From, counts it, logs 5xx responses with request context and
// aborts the handler chain with the JSON body.
//
// Example:
//
//	r.GET("/users/:id", func(c *gin.Context) {
//		u, err := svc.User(c, c.Param("id"))
//		if err != nil {
//			ginresp.Abort(c, err)
//			return
//		}
//		ginresp.OK(c, u)
//	})
package ginresp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jsonerr/jsonresp"
)

// Abort writes the structured error for err and stops further processing.
//
// Server errors (>=500) are logged with method and path. The payload of
// internal cases was already logged by the generated JSONError method and is
// never part of the body.
func Abort(c *gin.Context, err error) {
	e := jsonresp.From(err)
	if e == nil {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	jsonresp.Observe(e)

	if e.Status >= http.StatusInternalServerError {
		jsonresp.Logger().Error().
			Int("status", e.Status).
			Str("code", e.Code).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("api error")
	}

	c.AbortWithStatusJSON(e.Status, e)
}

// OK writes content in a 200 jsonresp.Response envelope.
func OK[T any](c *gin.Context, content T) {
	c.JSON(http.StatusOK, jsonresp.OK(content))
}

// Middleware turns the last error attached with c.Error into a response when
// the handler did not write one itself.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		Abort(c, c.Errors.Last().Err)
	}
}
