package types

import "github.com/golang-jwt/jwt/v5"

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}
