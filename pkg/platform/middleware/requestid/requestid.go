// Package requestid assigns each request an ID for log correlation.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"comercio/pkg/requestcontext"
)

const Header = "X-Request-Id"

// Middleware reuses an inbound request ID when present, otherwise mints one,
// and reflects it in the response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(Header, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
