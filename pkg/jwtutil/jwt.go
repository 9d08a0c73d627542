package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Config holds JWT configuration
type Config struct {
	SigningKey string
	TTL        time.Duration
}

// AccessClaims represents the JWT claims carried by an access token. The
// claims are the only identity information downstream authorization looks at;
// no storage lookup happens when a token is verified.
type AccessClaims struct {
	AccountID   uint     `json:"account_id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name,omitempty"`
	TenantID    *uint    `json:"tenant_id,omitempty"`
	Superuser   bool     `json:"superuser,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *Config
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config *Config) *JWTUtil {
	return &JWTUtil{
		config: config,
	}
}

// GenerateToken signs an access token for the given claims and returns the
// token along with its expiry timestamp.
func (j *JWTUtil) GenerateToken(claims *AccessClaims) (string, time.Time, error) {
	if j.config == nil {
		return "", time.Time{}, errors.New("JWT configuration not provided")
	}

	now := time.Now()
	expiresAt := now.Add(j.config.TTL)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.config.SigningKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*AccessClaims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&AccessClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AccessClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
