package ginresp

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jsonerr/jsonresp"
)

type badRequest struct{ Field string }

func (b badRequest) Error() string { return "Errors::BadRequest " + b.Field }
func (b badRequest) JSONError() *jsonresp.Error {
	return jsonresp.Request(http.StatusBadRequest, "bad-request", "check the input", b.Field)
}

func newRouter(h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/x", h)
	return r
}

func do(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestAbortClientError(t *testing.T) {
	w := do(newRouter(func(c *gin.Context) {
		Abort(c, badRequest{Field: "email"})
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var got jsonresp.Error
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != 400 || got.Code != "bad-request" || got.Hint != "check the input" || got.Content != "email" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestAbortPlainErrorLogsAndHidesDetail(t *testing.T) {
	var buf bytes.Buffer
	prev := *jsonresp.Logger()
	jsonresp.SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { jsonresp.SetLogger(prev) })

	w := do(newRouter(func(c *gin.Context) {
		Abort(c, errors.New("secret dsn"))
	}))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret dsn") {
		t.Fatalf("internal detail leaked: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"code":"internal-error"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if !strings.Contains(buf.String(), `"message":"api error"`) {
		t.Fatalf("5xx not logged: %q", buf.String())
	}
}

func TestMiddlewareUsesAttachedError(t *testing.T) {
	w := do(newRouter(func(c *gin.Context) {
		_ = c.Error(badRequest{Field: "name"})
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestOKEnvelope(t *testing.T) {
	w := do(newRouter(func(c *gin.Context) {
		OK(c, []string{"a"})
	}))
	if w.Code != http.StatusOK || w.Body.String() != `{"status":200,"content":["a"]}` {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}
