package middleware

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/cmlabs-hris/membership-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/ratelimit"
)

// RateLimit throttles requests per client address within scope. A nil
// limiter disables throttling. Limiter failures let the request through.
//
// The key is taken from r.RemoteAddr, which only reflects forwarding
// headers when the router runs RealIP (TRUST_PROXY).
func RateLimit(limiter ratelimit.Limiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}

		hfn := func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + clientIP(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				slog.WarnContext(r.Context(), "Rate limiter unavailable, allowing request",
					"scope", scope,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				response.TooManyRequests(w, "Too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
