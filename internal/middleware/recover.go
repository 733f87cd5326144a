package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/ayush/movie-collection/backend/internal/logging"
	"github.com/ayush/movie-collection/backend/internal/response"
)

// Recover turns a handler panic into a 500 failure envelope. It must run
// after logging.Middleware so the panic is logged with the request fields.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logging.FromRequest(r).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			response.Fail(w, http.StatusInternalServerError, "Internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
