package utils

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

const issuer = "postflow-studio"

// GenerateToken signs a session token for userID. The upstream API token is
// sealed with the same secret before it goes into the claims.
func GenerateToken(secretKey, userID, upstreamToken string, tokenDuration time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user id is empty")
	}

	sealed, err := Encrypt([]byte(upstreamToken), []byte(secretKey))
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := transfer.CustomClaims{
		UserID:   userID,
		Upstream: sealed,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(secretKey))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return signedToken, nil
}

func ValidateToken(secretKey, tokenString string) (*transfer.CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &transfer.CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if claims, ok := token.Claims.(*transfer.CustomClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// UpstreamToken unseals the API token carried by claims.
func UpstreamToken(secretKey string, claims *transfer.CustomClaims) (string, error) {
	if claims == nil || claims.Upstream == "" {
		return "", errors.New("session carries no upstream token")
	}
	return Decrypt(claims.Upstream, []byte(secretKey))
}
