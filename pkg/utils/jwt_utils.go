package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtSecretKey signs and verifies staff tokens. Set JWT_SECRET in any
// deployed environment; the fallback exists only for local development.
var jwtSecretKey = []byte(Getenv("JWT_SECRET", "local-dev-only-gym-crm-secret"))

// AccessTokenTTL is how long an issued staff token stays valid.
const AccessTokenTTL = 12 * time.Hour

// Claims defines the JWT claims structure
type Claims struct {
	StaffID int64  `json:"staff_id"`
	Email   string `json:"email"`
	Role    string `json:"role"` // Staff role for authorization
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a new JWT access token for a staff member.
func GenerateAccessToken(staffID int64, email string, role string) (string, error) {
	expirationTime := time.Now().Add(AccessTokenTTL)
	claims := &Claims{
		StaffID: staffID,
		Email:   email,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "gym-crm-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token string.
// It returns the claims if the token is valid, otherwise an error.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
