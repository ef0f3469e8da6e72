package routes

import (
	"net/http"

	"github.com/creerlio/talentbank/internal/app"
	"github.com/creerlio/talentbank/internal/handler"
	"github.com/creerlio/talentbank/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	artifact := handler.NewArtifactHandler(app.ArtifactService, app.VerificationService, app.Cfg.MaxUploadSize)
	verify := handler.NewVerifyHandler(app.VerificationService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	// Verification (rate limited, token is the only credential)
	rateLimiter := middleware.RateLimit(app.VerifyLimiter)
	mux.HandleFunc("GET /api/verify/{token}", rateLimiter(verify.Verify))

	// ============================================================================
	// PROTECTED ROUTES (/api/talent-bank/*)
	// ============================================================================

	mux.HandleFunc("POST /api/talent-bank/items", middleware.RequireAuth(artifact.Upload))
	mux.HandleFunc("GET /api/talent-bank/items", middleware.RequireAuth(artifact.List))
	mux.HandleFunc("GET /api/talent-bank/items/{id}/download", middleware.RequireAuth(artifact.Download))
	mux.HandleFunc("GET /api/talent-bank/items/{id}/verification-link", middleware.RequireAuth(artifact.VerificationLink))
	mux.HandleFunc("GET /api/talent-bank/items/{id}/qr", middleware.RequireAuth(artifact.QR))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		middleware.BearerAuth(app.Cfg.JWTSecret, app.Cfg.JWTAudience),
	)
}
