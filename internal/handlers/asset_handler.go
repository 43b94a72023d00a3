package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"rwaconsole/internal/middleware"
	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
	"rwaconsole/internal/repository"
	"rwaconsole/internal/services"
)

// AssetHandler handles investor asset reads and admin asset mutations.
type AssetHandler struct {
	assetService services.AssetServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// ListAssetsQuery holds asset listing filters.
type ListAssetsQuery struct {
	Type   string `form:"type" binding:"omitempty,asset_type"`
	Status string `form:"status" binding:"omitempty,asset_status"`
}

// CreateAssetRequest represents the request payload for creating an asset.
type CreateAssetRequest struct {
	Name               string             `json:"name" binding:"required,min=1,max=200"`
	Description        string             `json:"description" binding:"max=2000"`
	Type               models.AssetType   `json:"type" binding:"required,asset_type"`
	APY                float64            `json:"apy" binding:"gte=0"`
	Price              decimal.Decimal    `json:"price"`
	RiskScore          int                `json:"risk_score" binding:"gte=0,lte=100"`
	YieldConfidence    int                `json:"yield_confidence" binding:"gte=0,lte=100"`
	AUM                decimal.Decimal    `json:"aum"`
	Status             models.AssetStatus `json:"status" binding:"omitempty,asset_status"`
	TokenAddress       *string            `json:"token_address" binding:"omitempty,wallet_address"`
	DistributorAddress *string            `json:"distributor_address" binding:"omitempty,wallet_address"`
	NextPayoutDate     *time.Time         `json:"next_payout_date"`
}

// ListAssets returns the investable catalogue
// @Summary     List assets
// @Description Paginated list of Active and Maturing assets
// @Tags        assets
// @Produce     json
// @Param       type      query string false "Asset type"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Asset] "Paginated assets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	h.list(c, []models.AssetStatus{models.AssetStatusActive, models.AssetStatusMaturing})
}

// AdminListAssets returns every asset
// @Summary     List all assets
// @Description Paginated list of assets in any status
// @Tags        admin
// @Produce     json
// @Security    WalletAddress
// @Param       type      query string false "Asset type"
// @Param       status    query string false "Asset status"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Asset] "Paginated assets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not an admin"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/assets [get]
func (h *AssetHandler) AdminListAssets(c *gin.Context) {
	h.list(c, nil)
}

func (h *AssetHandler) list(c *gin.Context, statuses []models.AssetStatus) {
	var q ListAssetsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	filter := repository.AssetFilter{Statuses: statuses}
	if q.Type != "" {
		t := models.AssetType(q.Type)
		filter.Type = &t
	}
	if q.Status != "" && statuses == nil {
		filter.Statuses = []models.AssetStatus{models.AssetStatus(q.Status)}
	}

	result, err := h.assetService.ListAssets(c.Request.Context(), filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAsset returns an asset with the caller's position when a wallet is given
// @Summary     Get asset
// @Description Asset detail. With X-Wallet-Address the caller's position and recent transactions are included.
// @Tags        assets
// @Produce     json
// @Param       id               path   string true  "Asset ID"
// @Param       X-Wallet-Address header string false "Caller wallet"
// @Success     200 {object} services.AssetDetail "Asset detail"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	wallet, _ := middleware.GetWallet(c)

	detail, err := h.assetService.GetAssetDetail(c.Request.Context(), c.Param("id"), wallet)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// AdminGetAsset returns an asset with its holder count
// @Summary     Get asset (admin)
// @Description Asset with the number of wallets holding positive shares
// @Tags        admin
// @Produce     json
// @Security    WalletAddress
// @Param       id path string true "Asset ID"
// @Success     200 {object} services.AdminAssetDetail "Asset detail"
// @Failure     403 {object} ErrorResponse "Not an admin"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/assets/{id} [get]
func (h *AssetHandler) AdminGetAsset(c *gin.Context) {
	detail, err := h.assetService.GetAdminAsset(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateAsset adds an asset to the catalogue
// @Summary     Create asset
// @Description Create an asset. Status defaults to Active.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    WalletAddress
// @Param       request body CreateAssetRequest true "Asset details"
// @Success     201 {object} models.Asset "Asset created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), actor, services.CreateAssetInput{
		Name:               req.Name,
		Description:        req.Description,
		Type:               req.Type,
		APY:                req.APY,
		Price:              req.Price,
		RiskScore:          req.RiskScore,
		YieldConfidence:    req.YieldConfidence,
		AUM:                req.AUM,
		Status:             req.Status,
		TokenAddress:       req.TokenAddress,
		DistributorAddress: req.DistributorAddress,
		NextPayoutDate:     req.NextPayoutDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// UpdateAsset applies a partial update to an asset
// @Summary     Update asset
// @Description Apply allow-listed fields (name, description, apy, price, status, risk_score, yield_confidence, token_address, distributor_address, next_payout_date). Other keys are ignored.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    WalletAddress
// @Param       id      path string true "Asset ID"
// @Param       request body object true "Fields to update"
// @Success     200 {object} models.Asset "Updated asset"
// @Failure     400 {object} ErrorResponse "Invalid input or no valid fields"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/assets/{id} [patch]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	asset, err := h.assetService.UpdateAsset(c.Request.Context(), actor, c.Param("id"), updates)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// DeleteAsset removes an asset nobody holds
// @Summary     Delete asset
// @Description Delete an asset. Refused while any wallet holds positive shares.
// @Tags        admin
// @Produce     json
// @Security    WalletAddress
// @Param       id path string true "Asset ID"
// @Success     200 {object} map[string]string "Asset deleted"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     409 {object} ErrorResponse "Asset has holdings"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	if err := h.assetService.DeleteAsset(c.Request.Context(), actor, id); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully", "id": id})
}
