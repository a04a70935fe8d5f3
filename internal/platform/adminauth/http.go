// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package adminauth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velmoras/lectoria/internal/platform/apperr"
	requestutil "github.com/velmoras/lectoria/internal/platform/request"
	"github.com/velmoras/lectoria/internal/platform/respond"
	"github.com/velmoras/lectoria/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the admin session HTTP endpoints.
type Handler struct {
	authService *Service
	secure      bool
}

// NewHandler constructs a new [Handler].
//
// # Parameters
//   - service: The admin authentication service.
//   - secureCookies: Whether session cookies require HTTPS (true in production).
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secure: secureCookies}
}

// RegisterRoutes mounts the session endpoints on the admin router. They sit
// outside the session guard so a logged-out administrator can reach them.
//
// # Endpoints
//   - POST /login  : Verifies the admin password and sets the session cookie.
//   - POST /logout : Clears the session cookie.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
}

// # Request Payloads

type loginRequest struct {
	Password string `json:"password"`
}

/*
Login establishes an administrative session.

POST /api/v1/admin/login

Description: Verifies the configured admin password and injects a signed
session cookie into the response.

Request:
  - Body: loginRequest (Password)

Response:
  - 200: Session expiry timestamp
  - 401: ErrUnauthorized: Invalid password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("password", input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !handler.authService.VerifyPassword(input.Password) {
		respond.Error(writer, request, apperr.Unauthorized("Invalid credentials"))
		return
	}

	token, expiresAt, err := handler.authService.GenerateSessionToken()
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	http.SetCookie(writer, handler.authService.SessionCookie(token, expiresAt, handler.secure))

	respond.OK(writer, map[string]any{
		"expires_at": expiresAt,
	})
}

/*
Logout terminates the administrative session.

POST /api/v1/admin/logout

Response:
  - 204: No Content: Session cookie cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	http.SetCookie(writer, handler.authService.ExpiredSessionCookie(handler.secure))
	respond.NoContent(writer)
}
