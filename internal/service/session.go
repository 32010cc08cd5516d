package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the validity window of an admin session token. Sessions are
// stateless: all state lives in the signed token held by the client.
const SessionTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidToken covers malformed tokens and signature mismatches.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrTokenExpired is returned when a token's embedded expiry has passed.
	ErrTokenExpired = errors.New("session token expired")
)

// SessionPrincipal is the identity reconstructed from a verified session token.
type SessionPrincipal struct {
	AdminID  string
	Username string
}

// SessionTokens issues and verifies signed, time-limited session tokens.
// Tokens are HS256 JWTs; no server-side session table exists.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionTokens creates a token service signing with secret. The ttl is
// embedded in every issued token.
func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issue creates a signed session token for the given admin identity.
func (s *SessionTokens) Issue(adminID, username string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		AdminID:  adminID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    "bigdeal",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the token's signature and expiry and returns the embedded
// identity. Expired tokens fail with ErrTokenExpired; anything else that
// does not verify fails with ErrInvalidToken. Callers present both to the
// client as a generic unauthorized outcome.
func (s *SessionTokens) Verify(tokenStr string) (*SessionPrincipal, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return &SessionPrincipal{
		AdminID:  claims.AdminID,
		Username: claims.Username,
	}, nil
}

// TTL returns the session validity window, used by the HTTP boundary to set
// a matching cookie max-age.
func (s *SessionTokens) TTL() time.Duration {
	return s.ttl
}
