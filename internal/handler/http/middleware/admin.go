package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/membership-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

const (
	HeaderAdminKey   = "X-Admin-Key"
	HeaderReviewerID = "X-Reviewer-ID"

	DefaultReviewerID = "admin"
)

type reviewerKey struct{}

// WithReviewerID stores the authenticated reviewer on ctx
func WithReviewerID(ctx context.Context, reviewerID string) context.Context {
	return context.WithValue(ctx, reviewerKey{}, reviewerID)
}

// ReviewerIDFromContext returns the reviewer set by AdminRequired
func ReviewerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(reviewerKey{}).(string)
	return id, ok && id != ""
}

// AdminRequired accepts either the shared X-Admin-Key or a bearer token
// minted by jwtService. An empty adminKey disables key authentication and a
// nil jwtService disables bearer tokens.
func AdminRequired(adminKey string, jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			if key := r.Header.Get(HeaderAdminKey); key != "" {
				if adminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) != 1 {
					response.Unauthorized(w, "Invalid admin key")
					return
				}

				reviewerID := strings.TrimSpace(r.Header.Get(HeaderReviewerID))
				if reviewerID == "" {
					reviewerID = DefaultReviewerID
				}
				next.ServeHTTP(w, r.WithContext(WithReviewerID(r.Context(), reviewerID)))
				return
			}

			if jwtService == nil || jwtauth.TokenFromHeader(r) == "" {
				response.Unauthorized(w, "Admin credentials required")
				return
			}

			token, err := jwtauth.VerifyRequest(jwtService.JWTAuth(), r, jwtauth.TokenFromHeader)
			if err != nil {
				response.Unauthorized(w, "Invalid admin token")
				return
			}

			reviewerID, err := jwtService.ReviewerFromToken(token)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithReviewerID(r.Context(), reviewerID)))
		}
		return http.HandlerFunc(hfn)
	}
}
