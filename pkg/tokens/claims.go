package tokens

import "github.com/golang-jwt/jwt/v5"

type UserInfo struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type AccessClaims struct {
	UserInfo UserInfo `json:"UserInfo"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
