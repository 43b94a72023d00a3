package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
	"rwaconsole/internal/repository"
	"rwaconsole/internal/services"
)

// TransactionHandler handles investment ledger requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for recording a transaction.
type CreateTransactionRequest struct {
	AssetID      string                 `json:"assetId" binding:"required"`
	Type         models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount       *decimal.Decimal       `json:"amount" binding:"required"`
	ValueUSD     *decimal.Decimal       `json:"valueUsd" binding:"required"`
	PricePerUnit *decimal.Decimal       `json:"pricePerUnit"`
	TxHash       *string                `json:"txHash" binding:"omitempty,tx_hash"`
	ChainID      *int64                 `json:"chainId" binding:"omitempty,gt=0"`
}

// UpdateTransactionRequest represents a settlement update.
type UpdateTransactionRequest struct {
	Status      models.TransactionStatus `json:"status" binding:"required,transaction_status"`
	BlockNumber *int64                   `json:"blockNumber" binding:"omitempty,gte=0"`
	TxHash      *string                  `json:"txHash" binding:"omitempty,tx_hash"`
}

// ListTransactionsQuery holds ledger listing filters.
type ListTransactionsQuery struct {
	AssetID string `form:"asset_id"`
	Type    string `form:"type" binding:"omitempty,transaction_type"`
	Status  string `form:"status" binding:"omitempty,transaction_status"`
}

// CreateTransaction records a pending ledger entry
// @Summary     Record transaction
// @Description Record an invest, redeem or yield_payout entry. Always created as pending; pricePerUnit defaults to valueUsd / amount.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    WalletAddress
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "User frozen"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     409 {object} ErrorResponse "Duplicate transaction hash"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	wallet, err := getWallet(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), wallet, services.CreateTransactionInput{
		AssetID:      req.AssetID,
		Type:         req.Type,
		Amount:       *req.Amount,
		ValueUSD:     *req.ValueUSD,
		PricePerUnit: req.PricePerUnit,
		TxHash:       req.TxHash,
		ChainID:      req.ChainID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": txn})
}

// ListTransactions returns the caller's ledger
// @Summary     List transactions
// @Description Paginated list of the caller's transactions
// @Tags        transactions
// @Produce     json
// @Security    WalletAddress
// @Param       asset_id  query string false "Asset ID"
// @Param       type      query string false "invest, redeem or yield_payout"
// @Param       status    query string false "pending, confirmed or failed"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	wallet, err := getWallet(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	filter := repository.TransactionFilter{AssetID: q.AssetID}
	if q.Type != "" {
		t := models.TransactionType(q.Type)
		filter.Type = &t
	}
	if q.Status != "" {
		s := models.TransactionStatus(q.Status)
		filter.Status = &s
	}

	result, err := h.transactionService.ListTransactions(c.Request.Context(), wallet, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTransaction returns one of the caller's transactions
// @Summary     Get transaction
// @Tags        transactions
// @Produce     json
// @Security    WalletAddress
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	wallet, err := getWallet(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), wallet, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// UpdateTransaction settles a transaction by id
// @Summary     Update transaction
// @Description Move a pending transaction to confirmed or failed. Confirmed and failed are terminal.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    WalletAddress
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Settlement"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Invalid status transition"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	h.update(c, func(wallet string, input services.UpdateTransactionInput) (*models.Transaction, error) {
		return h.transactionService.UpdateTransaction(c.Request.Context(), wallet, c.Param("id"), input)
	})
}

// UpdateTransactionByHash settles a transaction by on-chain hash
// @Summary     Update transaction by hash
// @Description Move a pending transaction, addressed by its tx hash, to confirmed or failed
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    WalletAddress
// @Param       hash    path string                   true "Transaction hash"
// @Param       request body UpdateTransactionRequest true "Settlement"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Invalid status transition"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{hash} [put]
func (h *TransactionHandler) UpdateTransactionByHash(c *gin.Context) {
	h.update(c, func(wallet string, input services.UpdateTransactionInput) (*models.Transaction, error) {
		return h.transactionService.UpdateTransactionByHash(c.Request.Context(), wallet, c.Param("hash"), input)
	})
}

func (h *TransactionHandler) update(c *gin.Context, apply func(string, services.UpdateTransactionInput) (*models.Transaction, error)) {
	wallet, err := getWallet(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	txn, err := apply(wallet, services.UpdateTransactionInput{
		Status:      req.Status,
		BlockNumber: req.BlockNumber,
		TxHash:      req.TxHash,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}
