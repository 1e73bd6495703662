package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is fixed so every stored hash costs the same to verify.
const bcryptCost = 10

var ErrBadSessionCookie = errors.New("invalid session cookie")

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

func GenerateToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// SignSessionToken wraps the opaque session token in an HS256 JWT so the
// cookie cannot be forged without the server secret.
func SignSessionToken(token string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:       token,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseSessionToken verifies a cookie value and returns the session token inside it.
func ParseSessionToken(raw string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadSessionCookie
		}
		return secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadSessionCookie, err)
	}
	if !tok.Valid || claims.ID == "" {
		return "", ErrBadSessionCookie
	}
	return claims.ID, nil
}
