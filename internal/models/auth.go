package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the access-token payload minted by the main EduHub
// backend. The moderation capability flags are carried verbatim; this service
// never derives them.
type JWTClaims struct {
	UserID     string `json:"user_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	CanApprove bool   `json:"can_approve"`
	CanCreate  bool   `json:"can_create"`
	jwt.RegisteredClaims
}
