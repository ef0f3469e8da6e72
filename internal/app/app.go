package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/creerlio/talentbank/internal/config"
	"github.com/creerlio/talentbank/internal/db"
	"github.com/creerlio/talentbank/internal/hashing"
	"github.com/creerlio/talentbank/internal/middleware"
	"github.com/creerlio/talentbank/internal/qr"
	"github.com/creerlio/talentbank/internal/repository"
	"github.com/creerlio/talentbank/internal/service"
	"github.com/creerlio/talentbank/internal/storage"
	"github.com/jmoiron/sqlx"
)

// App holds every long-lived dependency. It is built once in main and
// passed down explicitly.
type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	Storage             storage.Storage
	ArtifactService     *service.ArtifactService
	VerificationService *service.VerificationService
	VerifyLimiter       middleware.Limiter

	closers []io.Closer
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	artifactStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Assemble(ctx, cfg, database, artifactStorage)
}

// Assemble wires services on top of an open database and a storage backend
func Assemble(ctx context.Context, cfg *config.Config, database *sqlx.DB, artifactStorage storage.Storage) (*App, error) {
	renderer, err := qr.NewRenderer(qr.Options{
		Level:  cfg.QRLevel,
		Width:  cfg.QRWidth,
		Margin: cfg.QRMargin,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize qr renderer: %w", err)
	}

	// Repositories
	artifactRepository := repository.NewArtifactRepository(database, cfg.NetworkTimeout)

	// Services
	hasher := hashing.NewHasher(&http.Client{}, cfg.NetworkTimeout)
	artifactService := service.NewArtifactService(artifactRepository, artifactStorage, cfg.SignedURLTTL, cfg.MaxUploadSize, cfg.NetworkTimeout)
	verificationService := service.NewVerificationService(
		artifactRepository,
		artifactStorage,
		hasher,
		renderer,
		artifactService,
		cfg.AppURL,
		cfg.SignedURLTTL,
	)

	a := &App{
		Cfg:                 cfg,
		DB:                  database,
		Storage:             artifactStorage,
		ArtifactService:     artifactService,
		VerificationService: verificationService,
	}
	a.VerifyLimiter = a.verifyLimiter(ctx)

	return a, nil
}

// verifyLimiter shares counters through Redis when configured and
// reachable, otherwise counts per process.
func (a *App) verifyLimiter(ctx context.Context) middleware.Limiter {
	if a.Cfg.RedisURL != "" {
		rl, err := middleware.NewRedisRateLimiter(a.Cfg.RedisURL, "verify", a.Cfg.VerifyRateLimit, a.Cfg.VerifyRateWindow)
		if err == nil {
			err = rl.Ping(ctx)
			if err == nil {
				slog.Info("verify rate limiter using redis")
				a.closers = append(a.closers, rl)
				return rl
			}
			_ = rl.Close()
		}
		slog.Warn("redis unavailable, using in-memory rate limiter", "error", err)
	}

	rl := middleware.NewRateLimiter(a.Cfg.VerifyRateLimit, a.Cfg.VerifyRateWindow)
	a.closers = append(a.closers, rl)
	return rl
}

func (a *App) Close() error {
	for _, c := range a.closers {
		err := c.Close()
		if err != nil {
			slog.Warn("failed to close resource", "error", err)
		}
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
