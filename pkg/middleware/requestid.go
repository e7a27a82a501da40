package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDs tags every request with an identifier, reusing a valid
// X-Request-ID sent by the caller. The identifier is echoed in the response.
func RequestIDs() Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, id)

			ctx := context.WithValue(r.Context(), ContextKeyRequestID, id)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}
