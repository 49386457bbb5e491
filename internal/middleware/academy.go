package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-schedule-api/internal/models"
	appErrors "github.com/noah-isme/academy-schedule-api/pkg/errors"
	"github.com/noah-isme/academy-schedule-api/pkg/response"
)

// ContextAcademyRolesKey stores the caller's roles in the academy named by :academyId.
const ContextAcademyRolesKey = "academyRoles"

type membershipReader interface {
	Roles(ctx context.Context, academyID, userID string) ([]models.AcademyRole, error)
}

// AcademyMembership loads the caller's roles for :academyId and rejects non-members.
// SUPERADMIN passes without a membership row.
func AcademyMembership(members membershipReader, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
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

		academyID := c.Param("academyId")
		roles, err := members.Roles(c.Request.Context(), academyID, claims.UserID)
		if err != nil {
			logger.Error("load academy membership", zap.String("academy_id", academyID), zap.String("user_id", claims.UserID), zap.Error(err))
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academy membership"))
			c.Abort()
			return
		}
		if len(roles) == 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "not a member of this academy"))
			c.Abort()
			return
		}

		c.Set(ContextAcademyRolesKey, roles)
		c.Next()
	}
}

// AcademyRoles returns the roles loaded by AcademyMembership.
func AcademyRoles(c *gin.Context) []models.AcademyRole {
	value, exists := c.Get(ContextAcademyRolesKey)
	if !exists {
		return nil
	}
	roles, _ := value.([]models.AcademyRole)
	return roles
}
