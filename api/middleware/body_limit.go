package middleware

import (
	"net/http"

	"github.com/angelmondragon/castcall-backend/api/responses"
	pkgerrors "github.com/angelmondragon/castcall-backend/pkg/errors"
	"github.com/angelmondragon/castcall-backend/pkg/logger"
)

// MaxBytes caps request bodies. Reads past the limit fail with *http.MaxBytesError,
// which the JSON decoder and form parser surface as 413.
func MaxBytes(limit int64, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				err := pkgerrors.New(pkgerrors.CodePayloadTooLarge, "request body too large").
					WithDetails(map[string]any{"limit_bytes": limit})
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
