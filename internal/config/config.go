package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string // Base URL for verification links; request origin is used when empty
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Auth (bearer tokens are issued by the hosted auth provider, we only verify them)
	JWTSecret   string
	JWTAudience string

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, Supabase storage S3 gateway, etc.)
	S3Region     string
	S3Bucket     string
	S3AccessKey  string
	S3SecretKey  string
	S3Endpoint   string        // Optional: for S3-compatible services
	SignedURLTTL time.Duration // Expiry for signed download URLs - default: 60 seconds

	// Upload / verification pipeline
	NetworkTimeout time.Duration // Bound for each storage write, record insert and remote fetch
	MaxUploadSize  int64
	QRLevel        string // L, M, Q or H
	QRWidth        int    // Pixel width of raster QR codes
	QRMargin       int    // Quiet zone in modules

	// Rate limiting for public verification lookups
	RedisURL         string // Optional: shared limiter across instances
	VerifyRateLimit  int
	VerifyRateWindow time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Creerlio"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envString("APP_URL", ""),
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/talentbank.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Auth
		JWTSecret:   envRequired("JWT_SECRET"),
		JWTAudience: envString("JWT_AUDIENCE", "authenticated"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:     envRequired("S3_REGION"),
		S3Bucket:     envString("S3_BUCKET", "talent-bank"),
		S3AccessKey:  envRequired("S3_ACCESS_KEY"),
		S3SecretKey:  envRequired("S3_SECRET_KEY"),
		S3Endpoint:   envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
		SignedURLTTL: envDuration("SIGNED_URL_TTL", 60*time.Second),

		// Pipeline
		NetworkTimeout: envDuration("NETWORK_TIMEOUT", 30*time.Second),
		MaxUploadSize:  int64(envInt("MAX_UPLOAD_SIZE", 25<<20)), // 25MB
		QRLevel:        envString("QR_LEVEL", "M"),
		QRWidth:        envInt("QR_WIDTH", 300),
		QRMargin:       envInt("QR_MARGIN", 1),

		// Rate limiting
		RedisURL:         envString("REDIS_URL", ""),
		VerifyRateLimit:  envInt("VERIFY_RATE_LIMIT", 30),
		VerifyRateWindow: envDuration("VERIFY_RATE_WINDOW", time.Minute),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures production deployments do not rely on request-derived origins.
// Development falls back to the request Host header for verification links.
func validateProduction(cfg *Config) {
	if cfg.AppURL == "" {
		slog.Error("production deployment requires APP_URL",
			"hint", "verification links must not be derived from the request Host header")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets, credentials, and sensitive data are excluded.
// Safe to expose in ctx and client-facing contexts.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		AppURL:  c.AppURL,
		Port:    c.Port,

		SignedURLTTL:  c.SignedURLTTL,
		MaxUploadSize: c.MaxUploadSize,
	}
}
