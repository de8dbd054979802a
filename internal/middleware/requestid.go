package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID assigns every request a UUID, exposed via the X-Request-Id
// response header. Incoming ids from trusted proxies are kept.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}
