package middleware

import (
	"net/http"
	"time"

	pkghttp "github.com/BradenHooton/tourexpress/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitByIP limits requests per client IP per minute. A limit of zero
// or less disables limiting, which is the default: elevation attempts are
// deliberately unthrottled unless an operator opts in.
func RateLimitByIP(requestsPerMinute int, ipConfig *pkghttp.IPConfig) func(next http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return pkghttp.ExtractClientIP(r, ipConfig), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "Too many requests, try again later")
		}),
	)
}
