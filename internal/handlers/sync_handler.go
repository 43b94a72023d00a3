package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rwaconsole/internal/services"
)

// SyncHandler handles on-chain balance reconciliation requests.
type SyncHandler struct {
	syncService services.SyncServicer
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncService services.SyncServicer) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Sync reconciles the caller's holdings with the chain
// @Summary     Sync holdings
// @Description Read balanceOf for every on-chain asset and upsert or delete the caller's holdings
// @Tags        sync
// @Produce     json
// @Security    WalletAddress
// @Success     200 {object} services.SyncResult "Reconciliation result"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     503 {object} ErrorResponse "Chain unavailable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sync [post]
func (h *SyncHandler) Sync(c *gin.Context) {
	wallet, err := getWallet(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.syncService.SyncWallet(c.Request.Context(), wallet)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetStatus returns the persisted reconciliation state
// @Summary     Sync status
// @Description Caller's holdings with their last sync timestamps. Does not read the chain.
// @Tags        sync
// @Produce     json
// @Security    WalletAddress
// @Success     200 {array}  services.HoldingSyncStatus "Holdings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sync [get]
func (h *SyncHandler) GetStatus(c *gin.Context) {
	wallet, err := getWallet(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := h.syncService.GetSyncStatus(c.Request.Context(), wallet)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"holdings": holdings})
}

// SyncAll reconciles every user
// @Summary     Sync all wallets
// @Description Reconcile every user's holdings. Requires the service API key.
// @Tags        internal
// @Produce     json
// @Security    ServiceKey
// @Success     200 {object} services.SyncAllResult "Pass summary"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Chain unavailable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /internal/sync-all [post]
func (h *SyncHandler) SyncAll(c *gin.Context) {
	result, err := h.syncService.SyncAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
