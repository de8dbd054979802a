package middleware

import (
	"net/http"

	"docbase/internal/httputil"
)

// Identity copies the caller identity header into the request context so
// handlers can attribute uploads. The gateway in front of this service is
// responsible for authenticating the header.
func Identity(header string) func(http.Handler) http.Handler {
	if header == "" {
		header = "X-User-Id"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID := r.Header.Get(header); userID != "" {
				r = httputil.WithUserID(r, userID)
			}
			next.ServeHTTP(w, r)
		})
	}
}
