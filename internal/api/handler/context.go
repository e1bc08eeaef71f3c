package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the claims injected by the Auth middleware and performs
// a fast-fail check before any service call: a non-empty role_name proves
// the middleware ran on this route.
func ctxClaims(c echo.Context) (username, roleName string, err error) {
	roleName, _ = c.Get("role_name").(string)
	if roleName == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	username, _ = c.Get("username").(string)
	return username, roleName, nil
}
