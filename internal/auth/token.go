package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSigningKeyLen is the shortest signing key the token service
// accepts. Anything shorter is a deployment mistake and must abort
// startup instead of issuing weakly-signed tokens.
const MinSigningKeyLen = 32

const tokenTypeAccess = "access"

// Claims is the verified payload of an identity token.
type Claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies self-signed HS256 identity tokens.
// The signing key is process-wide configuration, loaded once at
// startup and passed in here by the caller.
type TokenService struct {
	issuer     string
	signingKey []byte
	tokenTTL   time.Duration
}

func NewTokenService(issuer, signingKey string, tokenTTL time.Duration) (*TokenService, error) {
	if len(signingKey) < MinSigningKeyLen {
		return nil, fmt.Errorf("signing key must be at least %d characters, got %d",
			MinSigningKeyLen, len(signingKey))
	}
	return &TokenService{
		issuer:     issuer,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
	}, nil
}

// Issue signs a token for the given subject, valid for the configured
// TTL from now.
func (s *TokenService) Issue(subject string) (string, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Type: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenUUID.String(),
			Issuer:    s.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry, purpose tag and subject of the
// token. Every failure collapses to ok=false so callers cannot tell
// why verification failed from the return value alone.
func (s *TokenService) Verify(tokenString string) (*Claims, bool) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, false
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Type != tokenTypeAccess || claims.Subject == "" {
		return nil, false
	}
	return claims, true
}
