package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/membership-backend-go/internal/config"
	"github.com/cmlabs-hris/membership-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/membership-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	jwtService jwt.Service,
	limiter ratelimit.Limiter,
	intentHandler IntentHandler,
	inviteHandler InviteHandler,
	adminIntentHandler AdminIntentHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.HeaderAdminKey, middleware.HeaderReviewerID},
		MaxAge:           300,
	}))

	if cfg.App.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.RateLimit(limiter, "intents")).Post("/intents", intentHandler.Create)

		r.Route("/invites/{token}", func(r chi.Router) {
			r.Get("/", inviteHandler.Validate)
			r.With(middleware.RateLimit(limiter, "register")).Post("/register", inviteHandler.Register)
		})

		// Requires admin credentials
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminRequired(cfg.Admin.Key, jwtService))

			r.Route("/intents", func(r chi.Router) {
				r.Get("/", adminIntentHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", adminIntentHandler.GetByID)
					r.Post("/approve", adminIntentHandler.Approve)
					r.Post("/reject", adminIntentHandler.Reject)
				})
			})
		})
	})
	return r
}
