package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tagging(name string, trace *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*trace = append(*trace, name+">")
			next.ServeHTTP(w, r)
			*trace = append(*trace, "<"+name)
		})
	}
}

func TestChain_FirstMiddlewareIsOutermost(t *testing.T) {
	var trace []string

	h := Chain(tagging("recovery", &trace), tagging("logger", &trace))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			trace = append(trace, "handler")
		}),
	)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/state", nil))

	assert.Equal(t, []string{"recovery>", "logger>", "handler", "<logger", "<recovery"}, trace)
}

func TestChain_NoMiddleware(t *testing.T) {
	h := Chain()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/error/clear", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMiddleware_Wrap(t *testing.T) {
	var trace []string

	h := tagging("limit", &trace).Wrap(func(w http.ResponseWriter, r *http.Request) {
		trace = append(trace, "generate")
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"limit>", "generate", "<limit"}, trace)
}
