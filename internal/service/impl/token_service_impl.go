package impl

import (
	"errors"
	"time"

	"streamhaven/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenServiceHS256 signs and verifies the stateless user tokens carried by
// every authenticated request.
type TokenServiceHS256 struct {
	signingKey []byte
	issuer     string
}

func NewTokenServiceHS256(signingKey []byte, issuer string) *TokenServiceHS256 {
	return &TokenServiceHS256{signingKey: signingKey, issuer: issuer}
}

func (t *TokenServiceHS256) Issue(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    t.issuer,
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.signingKey)
}

func (t *TokenServiceHS256) Verify(tokenStr string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, domain.ErrTokenExpired
		}
		return uuid.Nil, domain.ErrTokenInvalid
	}
	if !tok.Valid {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	if t.issuer != "" && claims.Issuer != t.issuer {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return id, nil
}
