package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"rwaconsole/internal/models"
	"rwaconsole/internal/services"
)

// BalanceHandler handles platform credit requests.
type BalanceHandler struct {
	balanceService services.BalanceServicer
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceService services.BalanceServicer) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// RechargeRequest represents the request payload for topping up credit.
type RechargeRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// BalanceChangeRequest represents the request payload for moving credit.
type BalanceChangeRequest struct {
	Type   models.BalanceTransactionType `json:"type" binding:"required,balance_tx_type"`
	Amount *decimal.Decimal              `json:"amount" binding:"required"`
	Note   string                        `json:"note" binding:"max=500"`
}

// GetBalance returns the caller's credit balance
// @Summary     Get balance
// @Description Caller's platform credit and the 20 most recent movements. Zero for unknown wallets.
// @Tags        balance
// @Produce     json
// @Security    WalletAddress
// @Success     200 {object} services.BalanceSummary "Balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /balance [get]
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	wallet, err := getWallet(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.balanceService.GetBalance(c.Request.Context(), wallet)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Recharge tops up the caller's credit
// @Summary     Recharge balance
// @Description Add credit to the caller's balance, creating it on first use
// @Tags        balance
// @Accept      json
// @Produce     json
// @Security    WalletAddress
// @Param       request body RechargeRequest true "Amount"
// @Success     200 {object} services.BalanceChange "Updated balance"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "User frozen"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /balance/recharge [post]
func (h *BalanceHandler) Recharge(c *gin.Context) {
	wallet, err := getWallet(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	change, err := h.balanceService.Recharge(c.Request.Context(), wallet, *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, change)
}

// ApplyChange moves credit for an investment, redemption or yield
// @Summary     Move credit
// @Description invest debits the balance; redeem and yield credit it
// @Tags        balance
// @Accept      json
// @Produce     json
// @Security    WalletAddress
// @Param       request body BalanceChangeRequest true "Movement"
// @Success     200 {object} services.BalanceChange "Updated balance"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "User frozen"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /balance [post]
func (h *BalanceHandler) ApplyChange(c *gin.Context) {
	wallet, err := getWallet(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BalanceChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	change, err := h.balanceService.ApplyChange(c.Request.Context(), wallet, req.Type, *req.Amount, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, change)
}
