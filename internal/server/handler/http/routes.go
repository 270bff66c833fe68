package http

import (
	"net/http"

	"securedata/internal/middleware"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// tiered data-sharing API. It applies JSON content-type enforcement and
// request logging globally, and wraps each /data route in the clearance
// gate at that operation's declared floor.
//
// Routes:
//
//	POST   /auth/register                      → authHandler.Register (public)
//	POST   /auth/login                         → authHandler.Login (public)
//	GET    /data                               → dataHandler.List (floor 0)
//	POST   /data                               → dataHandler.Create (floor 0)
//	PUT    /data                               → dataHandler.Save (floor 0)
//	GET    /data/saved/{userId}                → dataHandler.ListSaved (floor 0)
//	DELETE /data/saved/{userId}/{recordId}     → dataHandler.Unsave (floor 2)
//	DELETE /data/{recordId}                    → dataHandler.Delete (floor 3)
func NewRouter(
	authHandler *AuthHandler,
	dataHandler *DataHandler,
	gate *middleware.Gate,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Public endpoints
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Protected endpoints: each route passes the gate at its own floor
	r.Route("/data", func(r chi.Router) {
		r.With(gate.Require(ClearanceList)).Get("/", dataHandler.List)
		r.With(gate.Require(ClearanceCreate)).Post("/", dataHandler.Create)
		r.With(gate.Require(ClearanceSave)).Put("/", dataHandler.Save)
		r.With(gate.Require(ClearanceSavedList)).Get("/saved/{userId}", dataHandler.ListSaved)
		r.With(gate.Require(ClearanceUnsave)).Delete("/saved/{userId}/{recordId}", dataHandler.Unsave)
		r.With(gate.Require(ClearanceDelete)).Delete("/{recordId}", dataHandler.Delete)
	})

	return r
}
