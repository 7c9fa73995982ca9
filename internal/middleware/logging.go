// middleware/logging.go
package middleware

import (
	"net/http"
	"runtime/debug"

	reqctx "textile-qc/inspections/internal/context"
	"textile-qc/inspections/internal/logging"
)

// Recoverer turns a handler panic into a logged 500 response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logging.Error("Handler panic",
				"request_id", reqctx.GetRequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Server error"}` + "\n"))
		}()

		next.ServeHTTP(w, r)
	})
}
