package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-schedule-api/internal/models"
	appErrors "github.com/noah-isme/academy-schedule-api/pkg/errors"
	"github.com/noah-isme/academy-schedule-api/pkg/response"
)

// SelfProfessor lets a PROFESSOR through when :professorId is the caller.
const SelfProfessor = "SELF"

// RBAC enforces academy roles for routes mounted behind AcademyMembership.
// SUPERADMIN always passes.
func RBAC(allowed ...string) gin.HandlerFunc {
	allowSelf := false
	allowedRoles := make(map[models.AcademyRole]struct{})
	for _, a := range allowed {
		if a == SelfProfessor {
			allowSelf = true
			continue
		}
		allowedRoles[models.AcademyRole(a)] = struct{}{}
	}

	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if claims.Role == models.RoleSuperAdmin {
			c.Next()
			return
		}

		roles := AcademyRoles(c)
		for _, role := range roles {
			if _, ok := allowedRoles[role]; ok {
				c.Next()
				return
			}
		}

		if allowSelf {
			for _, role := range roles {
				if role == models.AcademyRoleProfessor && c.Param("professorId") == claims.UserID {
					c.Next()
					return
				}
			}
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

// RequireRoles is a helper that accepts a list of academy roles.
func RequireRoles(roles ...models.AcademyRole) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return RBAC(allowed...)
}
