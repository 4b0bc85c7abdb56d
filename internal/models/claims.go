package models

import "github.com/golang-jwt/jwt/v5"

// UserRole enumerates the caller roles recognised by the API.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
	RoleAdvisor UserRole = "ADVISOR"
)

// JWTClaims carries identity and authorization data from access tokens minted
// by the identity service.
type JWTClaims struct {
	UserID   string   `json:"uid"`
	SchoolID string   `json:"sid"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}
