package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/membership-backend-go/internal/config"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/intent"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/invite"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/tx"
	appHTTP "github.com/cmlabs-hris/membership-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/hash"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/ratelimit"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/token"
	"github.com/cmlabs-hris/membership-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/membership-backend-go/internal/repository/postgresql"
	intentService "github.com/cmlabs-hris/membership-backend-go/internal/service/intent"
	inviteService "github.com/cmlabs-hris/membership-backend-go/internal/service/invite"
	"github.com/go-chi/httplog/v3"
)

type repositories struct {
	intents intent.IntentRepository
	invites invite.InviteRepository
	members member.MemberRepository
	tx      tx.Manager
	close   func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "membership-backend"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := newRepositories(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer repos.close()

	hasher, err := hash.New(cfg.Hash.Algorithm)
	if err != nil {
		return fmt.Errorf("initialize password hasher: %w", err)
	}

	emailService, err := email.NewEmailService(cfg.Email)
	if err != nil {
		return fmt.Errorf("initialize email service: %w", err)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.RedisURL != "" {
		client, err := ratelimit.NewRedisClient(ctx, cfg.RateLimit.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to Redis: %w", err)
		}
		defer client.Close()
		limiter = ratelimit.NewRedisLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	var jwtService jwt.Service
	if cfg.Admin.JWTSecret != "" {
		jwtService = jwt.NewJWTService(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	}

	intentSvc := intentService.NewIntentService(
		repos.intents,
		repos.invites,
		repos.tx,
		token.NewGenerator(),
		emailService,
		publisher,
		intentService.InviteSettings{
			TTL:         cfg.Invite.TTL(),
			FrontendURL: cfg.App.FrontendURL,
		},
	)
	inviteSvc := inviteService.NewInviteService(
		repos.invites,
		repos.intents,
		repos.members,
		repos.tx,
		hasher,
		publisher,
	)

	scheduler := cron.NewScheduler()
	cron.NewInviteJobs(inviteSvc).RegisterJobs(scheduler, cfg.Invite.SweepInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		cfg,
		logger,
		jwtService,
		limiter,
		appHTTP.NewIntentHandler(intentSvc),
		appHTTP.NewInviteHandler(inviteSvc),
		appHTTP.NewAdminIntentHandler(intentSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Type)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}

func newRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Type {
	case config.StorageTypeMemory:
		store := memory.NewStore()
		return &repositories{
			intents: memory.NewIntentRepository(store),
			invites: memory.NewInviteRepository(store),
			members: memory.NewMemberRepository(store),
			tx:      memory.NewTransactor(store),
			close:   func() {},
		}, nil
	case config.StorageTypePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("migrate database: %w", err)
			}
		}
		return &repositories{
			intents: postgresql.NewIntentRepository(db),
			invites: postgresql.NewInviteRepository(db),
			members: postgresql.NewMemberRepository(db),
			tx:      postgresql.NewTransactor(db),
			close:   db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
}
