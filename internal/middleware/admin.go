package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/models"
)

const (
	adminIDKey   = "adminID"
	adminRoleKey = "adminRole"
)

// AdminAuthorizer resolves a wallet to an admin holding at least a role.
type AdminAuthorizer interface {
	Authorize(ctx context.Context, wallet string, required models.AdminRole) (*models.Admin, error)
}

// RequireAdmin admits callers whose wallet belongs to an active admin ranked
// at least minRole. It must run after WalletAuth.
func RequireAdmin(admins AdminAuthorizer, minRole models.AdminRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		wallet, ok := GetWallet(c)
		if !ok {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}

		admin, err := admins.Authorize(c.Request.Context(), wallet, minRole)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(adminIDKey, admin.ID)
		c.Set(adminRoleKey, admin.Role)
		c.Next()
	}
}

// GetAdmin returns the admin id and role set by RequireAdmin.
func GetAdmin(c *gin.Context) (string, models.AdminRole, bool) {
	id, ok := c.Get(adminIDKey)
	if !ok {
		return "", "", false
	}
	role, _ := c.Get(adminRoleKey)
	adminID, _ := id.(string)
	adminRole, _ := role.(models.AdminRole)
	return adminID, adminRole, adminID != ""
}
