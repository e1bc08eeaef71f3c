package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/rolecall/identity-service/internal/core/domain"
)

// RBAC enforces role-based access control against the role_name claim set
// by Auth. Mount it after Auth only; without claims every request fails.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role_name").(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
