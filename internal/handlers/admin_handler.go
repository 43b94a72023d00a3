package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
	"rwaconsole/internal/repository"
	"rwaconsole/internal/services"
)

// AdminHandler handles the admin console endpoints other than assets.
type AdminHandler struct {
	adminService services.AdminServicer
	userService  services.UserServicer
	statsService services.StatsServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService services.AdminServicer, userService services.UserServicer, statsService services.StatsServicer) *AdminHandler {
	return &AdminHandler{adminService: adminService, userService: userService, statsService: statsService}
}

// ListUsersQuery holds the admin user listing filters.
type ListUsersQuery struct {
	KYCStatus string `form:"kyc_status" binding:"omitempty,kyc_status"`
	Frozen    *bool  `form:"frozen"`
}

// FreezeUserRequest represents the request payload for freezing a user.
type FreezeUserRequest struct {
	Frozen *bool `json:"frozen" binding:"required"`
}

// UpdateKYCRequest represents the request payload for a KYC decision.
type UpdateKYCRequest struct {
	Status models.KYCStatus `json:"status" binding:"required,kyc_status"`
}

// ListLogsQuery holds the audit log filters.
type ListLogsQuery struct {
	Action     string `form:"action" binding:"max=50"`
	TargetType string `form:"target_type" binding:"max=50"`
}

// Verify reports whether a wallet belongs to an active admin
// @Summary     Verify admin wallet
// @Description Report whether a wallet belongs to an active admin and its role. Non-admins get isAdmin=false.
// @Tags        admin
// @Produce     json
// @Param       wallet query string true "Wallet address"
// @Success     200 {object} services.AdminVerification "Verification result"
// @Failure     400 {object} ErrorResponse "Missing or malformed wallet"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/verify [get]
func (h *AdminHandler) Verify(c *gin.Context) {
	wallet := c.Query("wallet")
	if wallet == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet is required"))
		return
	}

	result, err := h.adminService.Verify(c.Request.Context(), wallet)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStats returns dashboard aggregates
// @Summary     Dashboard statistics
// @Description Platform-wide aggregates recomputed on every call
// @Tags        admin
// @Produce     json
// @Security    WalletAddress
// @Success     200 {object} services.DashboardStats "Dashboard statistics"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an admin"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// ListUsers returns a page of platform users
// @Summary     List users
// @Description Paginated user listing filtered by KYC status or frozen flag
// @Tags        admin
// @Produce     json
// @Security    WalletAddress
// @Param       kyc_status query string false "pending, verified or rejected"
// @Param       frozen     query bool   false "Frozen flag"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.User] "Paginated users"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an admin"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var q ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	filter := repository.UserFilter{Frozen: q.Frozen}
	if q.KYCStatus != "" {
		status := models.KYCStatus(q.KYCStatus)
		filter.KYCStatus = &status
	}

	result, err := h.userService.ListUsers(c.Request.Context(), filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// FreezeUser freezes or unfreezes a user
// @Summary     Freeze user
// @Description Freeze or unfreeze a user. Frozen users cannot record transactions or move credit.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    WalletAddress
// @Param       id      path string            true "User ID"
// @Param       request body FreezeUserRequest true "Freeze flag"
// @Success     200 {object} models.User "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users/{id}/freeze [post]
func (h *AdminHandler) FreezeUser(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req FreezeUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.SetFrozen(c.Request.Context(), actor, c.Param("id"), *req.Frozen)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateKYC records a KYC decision
// @Summary     Update KYC status
// @Description Set a user's KYC status
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    WalletAddress
// @Param       id      path string           true "User ID"
// @Param       request body UpdateKYCRequest true "KYC status"
// @Success     200 {object} models.User "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users/{id}/kyc [post]
func (h *AdminHandler) UpdateKYC(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateKYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.SetKYCStatus(c.Request.Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListLogs returns a page of audit log entries
// @Summary     List audit logs
// @Description Paginated admin audit log, newest first by default
// @Tags        admin
// @Produce     json
// @Security    WalletAddress
// @Param       action      query string false "Action, e.g. delete_asset"
// @Param       target_type query string false "Target type, e.g. asset"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AdminLog] "Paginated audit log"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/logs [get]
func (h *AdminHandler) ListLogs(c *gin.Context) {
	var q ListLogsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	filter := repository.AdminLogFilter{Action: q.Action, TargetType: q.TargetType}
	result, err := h.adminService.ListLogs(c.Request.Context(), filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
