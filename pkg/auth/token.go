package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTokenTTL is the validity window of an issued token.
	DefaultTokenTTL = 24 * time.Hour

	signingAlgorithm = "HS256"
)

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// TokenService issues and validates signed session tokens
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// sessionClaims is the wire form of a token payload.
// UserID is a pointer so an absent claim can be told apart from zero.
type sessionClaims struct {
	UserID *int64 `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// NewTokenService creates a token service. An empty secret is accepted here
// and reported by every Issue and Validate call.
func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &TokenService{
		secret: secret,
		ttl:    cfg.TTL,
		now:    cfg.Now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{signingAlgorithm}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(cfg.Now),
		),
	}
}

// TTL returns the validity window applied to new tokens
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a token for the given identity, valid for the configured TTL.
func (s *TokenService) Issue(userID int64, email string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrConfig
	}

	now := s.now()
	id := userID
	claims := sessionClaims{
		UserID: &id,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, algorithm and expiry, then returns the claims.
func (s *TokenService) Validate(token string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrConfig
	}

	var parsed sessionClaims
	_, err := s.parser.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, mapJWTError(err)
	}

	if parsed.UserID == nil {
		return nil, ErrMissingClaim
	}

	claims := &Claims{
		UserID: *parsed.UserID,
		Email:  parsed.Email,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time
	}
	if parsed.ExpiresAt != nil {
		claims.ExpiresAt = parsed.ExpiresAt.Time
	}
	return claims, nil
}

func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenExpired)
	}
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return fmt.Errorf("%w: signature is invalid", ErrInvalidToken)
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return fmt.Errorf("%w: algorithm is not accepted", ErrInvalidToken)
	}
	return fmt.Errorf("%w: %v", ErrInvalidToken, err)
}
