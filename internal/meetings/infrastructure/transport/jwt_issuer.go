package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/huddle/internal/meetings/application/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is how long a room token stays valid.
const DefaultTTL = 2 * time.Hour

var (
	ErrMissingSecret = errors.New("room token secret is required")
	ErrInvalidToken  = errors.New("invalid room token")
)

// Config configures room token signing.
type Config struct {
	// Issuer identifies the application to the video transport.
	Issuer string
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// RoomClaims are the claims carried by a room token.
type RoomClaims struct {
	jwt.RegisteredClaims
	Room     string `json:"room"`
	Name     string `json:"name"`
	MaxUsers int    `json:"max_users,omitempty"`
}

// JWTIssuer signs HS256 room grants for the video transport.
type JWTIssuer struct {
	config Config
}

// NewJWTIssuer creates an issuer. The secret is mandatory.
func NewJWTIssuer(config Config) (*JWTIssuer, error) {
	if len(config.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	if config.Issuer == "" {
		config.Issuer = "huddle"
	}
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &JWTIssuer{config: config}, nil
}

// Issue signs a token that admits grant.Identity to grant.Room.
func (i *JWTIssuer) Issue(_ context.Context, grant services.RoomGrant) (string, error) {
	now := i.config.Now()
	claims := RoomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.config.Issuer,
			Subject:   grant.Identity,
			Audience:  jwt.ClaimStrings{grant.Room},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.config.TTL)),
			ID:        uuid.NewString(),
		},
		Room:     grant.Room,
		Name:     grant.DisplayName,
		MaxUsers: grant.MaxUsers,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.config.Secret)
	if err != nil {
		return "", fmt.Errorf("sign room token: %w", err)
	}
	return token, nil
}

// Verify parses a token signed by this issuer and checks its time claims
// against the configured clock.
func (i *JWTIssuer) Verify(token string) (*RoomClaims, error) {
	var claims RoomClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.config.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.config.Issuer),
		jwt.WithTimeFunc(i.config.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &claims, nil
}
