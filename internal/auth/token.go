package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned when a token's signature is valid but its
	// TTL has elapsed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for malformed tokens, bad signatures, or
	// unexpected signing methods.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the set of assertions carried by a session token: the standard
// registered claims plus the user's identity and clearance tier.
//
// Embedding the clearance avoids a store round-trip on every authorization
// check at the cost of staleness until the token expires; the gate decides
// whether to trust it.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"uid"`
	Clearance int    `json:"clr"`
}

// TokenIssuer mints and verifies HS256-signed session tokens. The signing
// secret is injected once at construction and never changes.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer returns a TokenIssuer signing with secret and issuing
// tokens valid for ttl.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue produces a signed token asserting the given identity and clearance,
// valid from now until the issuer's TTL elapses.
func (i *TokenIssuer) Issue(userID string, clearance int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID:    userID,
		Clearance: clearance,
	})
	return token.SignedString(i.secret)
}

// Verify checks the token's signature and expiry and returns its claims.
// It performs no I/O. Returns ErrTokenExpired for an elapsed TTL and
// ErrTokenInvalid for any other verification failure.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
