package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin  = 1
	RoleViewer = 2
)

type Claims struct {
	UserName   string `json:"user_name"`
	UserRoleID int    `json:"user_role_id"`
	jwt.RegisteredClaims
}
