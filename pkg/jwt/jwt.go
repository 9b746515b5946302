package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenData identidad que viaja dentro del token: quién es el usuario, a qué
// tienda pertenece y qué rol tiene. Role permite al middleware RBAC decidir
// sin consultar la DB en cada petición.
type TokenData struct {
	UserID  string
	StoreID string
	Role    string // "admin" | "inventario" | "vendedor"
}

type appClaims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id"`
	StoreID string `json:"store_id"`
	Role    string `json:"role"`
}

// Generate firma un token HS256 con los claims de la aplicación.
// Un ttl negativo produce un token ya expirado (útil en tests).
func Generate(secret, issuer string, data TokenData, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := appClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   data.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:  data.UserID,
		StoreID: data.StoreID,
		Role:    data.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve la identidad del token.
// Solo se acepta HMAC: un token firmado con otro método es inválido aunque
// la firma verifique.
func Parse(secret, tokenString string) (TokenData, error) {
	if secret == "" {
		return TokenData{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &appClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return TokenData{}, err
	}
	claims, ok := token.Claims.(*appClaims)
	if !ok || !token.Valid {
		return TokenData{}, fmt.Errorf("claims inválidos")
	}
	return TokenData{UserID: claims.UserID, StoreID: claims.StoreID, Role: claims.Role}, nil
}
