// Package middleware provides HTTP middlewares for clearance enforcement
// and request logging.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"securedata/internal/auth"
	"securedata/internal/models"
	"securedata/internal/repository"

	"go.uber.org/zap"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenVerifier validates a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// UserResolver re-resolves an authenticated identity against the
// credential store.
type UserResolver interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
}

// Gate enforces a minimum-clearance precondition before a handler runs.
//
// Each request is checked independently: the bearer token is verified, the
// user is re-resolved from the store (so deleted accounts are rejected even
// while their tokens are still signature-valid), and the clearance floor is
// compared. A failed check is terminal for the request.
type Gate struct {
	verifier TokenVerifier
	users    UserResolver
	// trustTokenClearance selects the clearance source: the token's
	// embedded claim (stale until expiry) or the stored value.
	trustTokenClearance bool
	log                 *zap.Logger
}

// NewGate constructs a Gate. When trustTokenClearance is true the gate
// compares against the clearance embedded in the token; otherwise it uses
// the clearance re-read from the store on every request.
func NewGate(verifier TokenVerifier, users UserResolver, trustTokenClearance bool, log *zap.Logger) *Gate {
	return &Gate{
		verifier:            verifier,
		users:               users,
		trustTokenClearance: trustTokenClearance,
		log:                 log,
	}
}

// Require returns a middleware enforcing the given clearance floor.
//
// On success the resolved user is stored in the request context for the
// wrapped handler; on failure the request is answered directly:
//
//	401 — missing/malformed bearer token, invalid signature, elapsed TTL
//	403 — account no longer exists, or clearance below the floor
func (g *Gate) Require(minClearance int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "authentication required")
				return
			}

			claims, err := g.verifier.Verify(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					writeMessage(w, http.StatusUnauthorized, "token expired")
					return
				}
				writeMessage(w, http.StatusUnauthorized, "invalid token")
				return
			}

			user, err := g.users.UserByID(r.Context(), claims.UserID)
			if errors.Is(err, repository.ErrNotFound) {
				writeMessage(w, http.StatusForbidden, "invalid user")
				return
			}
			if err != nil {
				g.log.Error("failed to resolve user", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal error")
				return
			}

			clearance := user.Clearance
			if g.trustTokenClearance {
				clearance = claims.Clearance
			}
			if clearance < minClearance {
				writeMessage(w, http.StatusForbidden, "insufficient clearance")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// ContextWithUser returns a context carrying the authenticated user, as
// attached by the gate after a successful check.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext extracts the authenticated user placed into the request
// context by the gate. Returns nil if the request did not pass a gate.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The token is never read from any other header or the body.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) || len(header) == len(prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

// writeMessage answers the request with a JSON message envelope.
func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
