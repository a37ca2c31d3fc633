package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims are issued by the hosted auth backend. Owners are matched to
// their barbershop by subject; staff tokens carry the barbershop they work at.
type AuthClaims struct {
	Role         string `json:"role"`
	BarbershopID int64  `json:"barbershopID,omitempty"`
	jwt.RegisteredClaims
}

var errMissingToken = errors.New("missing bearer token")

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", errMissingToken
	}
	return strings.TrimSpace(token), nil
}

func (h *Handler) parseToken(tokenString string) (*AuthClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if h.config.Auth.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(h.config.Auth.Issuer))
	}

	claims := &AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(h.config.Auth.JWTSecret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}
