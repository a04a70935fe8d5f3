// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

// Package adminauth secures the administration surface of the API.
//
// # Architecture
//
// Lectoria is operated by a single administrator, so there is no user table
// behind this package: the credential is a bcrypt hash supplied through
// configuration, and a successful login mints a short-lived HMAC-signed JWT
// that travels in an HttpOnly cookie. The [RequireAdmin] middleware guards
// every /admin route by verifying that cookie.
//
// This package isolates security-sensitive code (hash comparison, token
// signing) from the domain logic.
package adminauth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/velmoras/lectoria/internal/platform/constants"
)

// SessionClaims represents the payload embedded inside an admin session token.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Admin marks the token as an administrative session. Kept explicit so a
	// token minted for any future audience cannot be replayed here.
	Admin bool `json:"adm"`
}

// Service handles admin credential verification and session token lifecycle.
type Service struct {
	passwordHash  string
	sessionSecret []byte
	issuer        string
	sessionTTL    time.Duration
}

// NewService creates the admin authentication service.
//
// # Parameters
//   - passwordHash: bcrypt hash of the admin password (from configuration).
//   - sessionSecret: HMAC key used to sign session tokens.
func NewService(passwordHash, sessionSecret string) *Service {
	return &Service{
		passwordHash:  passwordHash,
		sessionSecret: []byte(sessionSecret),
		issuer:        constants.AuthIssuer,
		sessionTTL:    constants.AdminSessionTTL,
	}
}

// VerifyPassword compares a plain-text password against the configured hash.
func (service *Service) VerifyPassword(plainTextPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(service.passwordHash), []byte(plainTextPassword))
	return err == nil
}

// GenerateSessionToken creates a new signed admin session token.
func (service *Service) GenerateSessionToken() (string, time.Time, error) {
	currentTime := time.Now()
	expiresAt := currentTime.Add(service.sessionTTL)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Admin: true,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.sessionSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("adminauth: failed to sign session token: %w", err)
	}

	return signedToken, expiresAt, nil
}

// VerifySessionToken checks the signature and validity of a session token.
func (service *Service) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("adminauth: unexpected signing method: %v", token.Header["alg"])
		}
		return service.sessionSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("adminauth: invalid session token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || !claims.Admin {
		return nil, fmt.Errorf("adminauth: invalid session claims")
	}

	return claims, nil
}

// SessionCookie builds the HttpOnly cookie carrying the session token.
func (service *Service) SessionCookie(token string, expiresAt time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     constants.AdminSessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ExpiredSessionCookie builds a cookie that clears the admin session.
func (service *Service) ExpiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     constants.AdminSessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
