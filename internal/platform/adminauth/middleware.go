// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package adminauth

import (
	"net/http"

	"github.com/velmoras/lectoria/internal/platform/apperr"
	"github.com/velmoras/lectoria/internal/platform/constants"
	"github.com/velmoras/lectoria/internal/platform/ctxutil"
	"github.com/velmoras/lectoria/internal/platform/respond"
)

// RequireAdmin rejects requests that do not carry a valid admin session cookie.
//
// On success the request context is flagged as administrative so downstream
// handlers and the access log can see it.
func RequireAdmin(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			cookie, err := request.Cookie(constants.AdminSessionCookieName)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Admin session required"))
				return
			}

			if _, err := service.VerifySessionToken(cookie.Value); err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Admin session is invalid or expired"))
				return
			}

			ctx := ctxutil.WithAdmin(request.Context())
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
