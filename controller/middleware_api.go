// controller/middleware_api.go
package controller

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type ctxKey string

const (
	ctxOwnerID ctxKey = "api_owner_id"
	ctxScopes  ctxKey = "api_scopes"
)

// apiToken pulls the raw token from the request: an Authorization header
// carrying a Bearer or Api-Key scheme, or a bare X-Api-Key header.
func apiToken(c echo.Context) (string, bool) {
	if auth := c.Request().Header.Get(echo.HeaderAuthorization); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if !ok || token == "" {
			return "", false
		}
		if strings.EqualFold(scheme, "Bearer") || strings.EqualFold(scheme, "Api-Key") {
			return token, true
		}
		return "", false
	}
	if key := c.Request().Header.Get("X-Api-Key"); key != "" {
		return key, true
	}
	return "", false
}

func (ctrl *controller) APIKeyAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := apiToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized,
					apiError("missing_token", "Provide a Bearer, Api-Key or X-Api-Key credential"))
			}
			rec, err := ctrl.model.ValidateAPIToken(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, apiError("unauthorized", "Unauthorized"))
			}

			c.Set(string(ctxOwnerID), rec.OwnerID)
			c.Set(string(ctxScopes), rec.Scope)
			return next(c)
		}
	}
}

func apiOwnerID(c echo.Context) uint {
	if v, ok := c.Get(string(ctxOwnerID)).(uint); ok {
		return v
	}
	return 0
}
