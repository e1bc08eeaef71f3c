package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of an issued session token.
const TokenTTL = 24 * time.Hour

// SessionClaims is the token payload contract. Subject carries the user id
// as a decimal string; username and role_name feed downstream authorization
// checks without a storage round-trip.
type SessionClaims struct {
	Username string `json:"username"`
	RoleName string `json:"role_name"`
	jwt.RegisteredClaims
}
