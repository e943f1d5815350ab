package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/shopql/pkg/logger"
)

// panicBody mirrors the GraphQL error envelope so clients see one shape.
const panicBody = `{"errors":[{"message":"Unexpected error.","extensions":{"code":"INTERNAL"}}]}`

// Recovery turns a panic in any downstream handler into a logged stack trace
// and a 500 response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.WithCtx(r.Context()).Error("panic recovered",
				"error", fmt.Sprintf("%v", rec),
				"stack", string(debug.Stack()),
				"method", r.Method,
				"path", r.URL.Path,
			)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(panicBody))
		}()
		next.ServeHTTP(w, r)
	})
}
