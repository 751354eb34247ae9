package sessions

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the signed payload embedded in a session token: the user ID
// as subject, a random session identifier, and the expiry timestamp.
type TokenClaims struct {
	jwt.RegisteredClaims
}

func (c *TokenClaims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	return uint(id), err
}

// TokenSigner issues and verifies HS256 session tokens. Signature validity
// alone never authenticates a request; the session record is always checked
// as well so revocation takes effect before token expiry.
type TokenSigner struct {
	secret   []byte
	lifetime time.Duration
}

func (s *TokenSigner) Sign(userID uint) (token string, sessionID string, expiresAt time.Time, err error) {
	now := time.Now()
	expiresAt = now.Add(s.lifetime)
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(s.secret)
	return token, claims.ID, expiresAt, err
}

func (s *TokenSigner) Verify(token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrUnauthenticated
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthenticated
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

func NewTokenSigner(secret string, lifetime time.Duration) *TokenSigner {
	return &TokenSigner{
		secret:   []byte(secret),
		lifetime: lifetime,
	}
}
