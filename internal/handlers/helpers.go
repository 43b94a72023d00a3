package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/logger"
	"rwaconsole/internal/middleware"
	"rwaconsole/internal/services"
)

// getWallet extracts the caller wallet set by the wallet middleware.
// Returns ErrUnauthorized if not present.
func getWallet(c *gin.Context) (string, error) {
	wallet, ok := middleware.GetWallet(c)
	if !ok {
		return "", apperrors.ErrUnauthorized
	}
	return wallet, nil
}

// getActor builds the audit actor from the admin set by RequireAdmin.
func getActor(c *gin.Context) (services.Actor, error) {
	id, role, ok := middleware.GetAdmin(c)
	if !ok {
		return services.Actor{}, apperrors.ErrUnauthorized
	}
	return services.Actor{AdminID: id, Role: role, IPAddress: c.ClientIP()}, nil
}

// bindError converts a binding failure into an INVALID_INPUT error.
func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
