// Package main initializes and starts the tiered data-sharing server,
// setting up configuration, logging, the database connection,
// repositories, services, the clearance gate, and HTTP routes.
package main

import (
	"cmp"
	"fmt"

	nethttp "net/http"

	"securedata/internal/auth"
	"securedata/internal/config"
	"securedata/internal/db"
	"securedata/internal/logger"
	"securedata/internal/middleware"
	"securedata/internal/repository"
	"securedata/internal/server/handler/http"
	"securedata/internal/service"

	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init("Info"); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	// The signing secret is mandatory: without it every issued token
	// would be forgeable by anyone who reads the default.
	if options.JWTSecret == "" {
		zapLogger.Fatal("token signing secret is not configured")
	}

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories for users and records.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	recordRepo := repository.NewPostgresRecordRepository(postgresDB)

	// Initialize password hashing and token issuance.
	hasher := auth.NewHasher(options.BcryptCost)
	issuer := auth.NewTokenIssuer([]byte(options.JWTSecret), options.TokenTTL)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, hasher, issuer)
	recordService := service.NewRecordService(recordRepo, userRepo)

	// The clearance gate verifies tokens and re-resolves users per request.
	gate := middleware.NewGate(issuer, userRepo, options.TrustTokenClearance, zapLogger)

	// Create HTTP handlers for auth and data endpoints.
	authHandler := &http.AuthHandler{AuthService: authService, Log: zapLogger}
	dataHandler := &http.DataHandler{RecordService: recordService, Log: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, dataHandler, gate, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server",
		zap.String("addr", options.Addr),
		zap.Duration("token_ttl", options.TokenTTL),
		zap.Bool("trust_token_clearance", options.TrustTokenClearance),
	)
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
