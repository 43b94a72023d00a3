package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rwaconsole/internal/services"
)

// AuthHandler handles wallet sign-in.
type AuthHandler struct {
	authService services.AuthServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService services.AuthServicer) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SessionRequest represents a signed sign-in message.
type SessionRequest struct {
	Address   string `json:"address" binding:"required,wallet_address"`
	Message   string `json:"message" binding:"required,max=2000"`
	Signature string `json:"signature" binding:"required"`
}

// CreateSession exchanges a signed sign-in message for a session token
// @Summary     Create wallet session
// @Description Verify an EIP-191 signed sign-in message and issue a session token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SessionRequest true "Signed sign-in message"
// @Success     201 {object} services.Session "Session created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid signature"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/session [post]
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	session, err := h.authService.CreateSession(c.Request.Context(), req.Address, req.Message, req.Signature)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}
