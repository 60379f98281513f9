package models

import (
	"github.com/golang-jwt/jwt/v5"
)

type JWTClaims struct {
	ClientID string `json:"client_id"`
	Scope    string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}
