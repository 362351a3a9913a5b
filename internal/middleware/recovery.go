package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/taxfiler/backend/internal/logging"
	"github.com/taxfiler/backend/pkg/utils"
)

// Recovery turns a handler panic into a generic 500 response. The panic value
// and stack go to the log only; the caller never sees internal detail.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			logging.FromContext(r.Context()).Error("panic while handling request",
				zap.String("path", r.URL.Path),
				zap.Any("panic", rvr),
				zap.ByteString("stack", debug.Stack()),
			)
			utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{
				"message": "An internal server error occurred.",
			})
		}()

		next.ServeHTTP(w, r)
	})
}
