package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	UserID string `json:"user_id"`
	// Upstream is the identity provider's access token, sealed with the
	// server secret.
	Upstream string `json:"upstream"`
	jwt.RegisteredClaims
}
