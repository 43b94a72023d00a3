package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"rwaconsole/internal/chain"
	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/logger"
	"rwaconsole/internal/metrics"
	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
	"rwaconsole/internal/repository"
)

// recentAssetTransactions bounds the ledger entries shown on asset detail.
const recentAssetTransactions = 10

// TokenReader reads asset token metadata and distributor positions.
type TokenReader interface {
	Decimals(ctx context.Context, token string) (uint8, error)
	TotalSupply(ctx context.Context, token string) (*big.Int, error)
	ClaimableYield(ctx context.Context, distributor, holder string) (*big.Int, error)
}

// assetService handles asset reads and admin mutations.
type assetService struct {
	store   repository.Store
	audit   AuditServicer
	tokens  TokenReader
	metrics *metrics.Metrics
}

// NewAssetService creates a new AssetServicer. tokens and m may be nil;
// without tokens the on-chain checks and reads are skipped.
func NewAssetService(store repository.Store, audit AuditServicer, tokens TokenReader, m *metrics.Metrics) AssetServicer {
	return &assetService{store: store, audit: audit, tokens: tokens, metrics: m}
}

// ListAssets returns a page of assets.
func (s *assetService) ListAssets(ctx context.Context, filter repository.AssetFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	page.Defaults()
	assets, total, err := s.store.ListAssets(ctx, filter, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	resp := pagination.NewPageResponse(assets, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetAdminAsset returns an asset with the number of positive holdings.
func (s *assetService) GetAdminAsset(ctx context.Context, id string) (*AdminAssetDetail, error) {
	asset, err := s.getAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	holders, err := s.store.CountActiveHoldings(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	detail := &AdminAssetDetail{Asset: asset, HolderCount: holders}
	if supply, ok := s.totalSupply(ctx, asset); ok {
		detail.TotalSupply = &supply
	}
	return detail, nil
}

// totalSupply reads the token's circulating shares. A failed read is logged
// and reported as absent.
func (s *assetService) totalSupply(ctx context.Context, asset *models.Asset) (decimal.Decimal, bool) {
	if s.tokens == nil || !asset.IsOnChain() {
		return decimal.Zero, false
	}
	raw, err := s.tokens.TotalSupply(ctx, *asset.TokenAddress)
	s.observe("totalSupply", err)
	if err != nil {
		logger.Get().Warnw("total supply read failed", "asset_id", asset.ID, "token", *asset.TokenAddress, "error", err)
		return decimal.Zero, false
	}
	return chain.ToShares(raw, chain.ShareDecimals), true
}

// checkTokenDecimals rejects tokens whose precision differs from the fixed
// share precision used by reconciliation.
func (s *assetService) checkTokenDecimals(ctx context.Context, token string) error {
	if s.tokens == nil {
		return nil
	}
	d, err := s.tokens.Decimals(ctx, token)
	s.observe("decimals", err)
	if err != nil {
		unavailable := apperrors.WithMessage(apperrors.ErrChainUnavailable, "Could not read token decimals")
		return apperrors.Wrap(unavailable, err)
	}
	if int(d) != chain.ShareDecimals {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("token %s uses %d decimals, expected %d", token, d, chain.ShareDecimals))
	}
	return nil
}

func (s *assetService) observe(method string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveChainRead(method, err)
	}
}

// GetAssetDetail returns an asset and, when wallet resolves to a user, the
// caller's position and recent transactions in it.
func (s *assetService) GetAssetDetail(ctx context.Context, id, wallet string) (*AssetDetail, error) {
	asset, err := s.getAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &AssetDetail{Asset: asset}
	if wallet == "" {
		return detail, nil
	}

	user, err := s.store.GetUserByWallet(ctx, wallet)
	if errors.Is(err, repository.ErrNotFound) {
		return detail, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	position := &Position{Shares: decimal.Zero, Value: decimal.Zero, LastSyncedAt: asset.LastSyncedAt}
	holding, err := s.store.GetHolding(ctx, user.ID, asset.ID)
	switch {
	case err == nil:
		position.Shares = holding.Shares
		position.Value = holding.Shares.Mul(asset.Price)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if claimable, ok := s.claimableYield(ctx, asset, wallet); ok {
		position.ClaimableYield = &claimable
	}
	detail.Position = position

	page := pagination.PageRequest{Page: 1, PageSize: recentAssetTransactions}
	page.Defaults()
	txns, _, err := s.store.ListTransactions(ctx, repository.TransactionFilter{UserID: user.ID, AssetID: asset.ID}, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	detail.Transactions = txns
	return detail, nil
}

// claimableYield reads the distributor position. A failed read is logged
// and reported as absent.
func (s *assetService) claimableYield(ctx context.Context, asset *models.Asset, wallet string) (decimal.Decimal, bool) {
	if s.tokens == nil || asset.DistributorAddress == nil || *asset.DistributorAddress == "" {
		return decimal.Zero, false
	}
	raw, err := s.tokens.ClaimableYield(ctx, *asset.DistributorAddress, wallet)
	s.observe("claimable", err)
	if err != nil {
		logger.Get().Warnw("claimable yield read failed",
			"asset_id", asset.ID,
			"distributor", *asset.DistributorAddress,
			"error", err,
		)
		return decimal.Zero, false
	}
	return chain.ToShares(raw, chain.ShareDecimals), true
}

// CreateAsset inserts a new asset and logs create_asset.
func (s *assetService) CreateAsset(ctx context.Context, actor Actor, input CreateAssetInput) (*models.Asset, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset name is required")
	}
	if !input.Type.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid asset type")
	}
	if input.Status == "" {
		input.Status = models.AssetStatusActive
	}
	if !input.Status.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid asset status")
	}
	if input.APY < 0 || input.Price.IsNegative() || input.AUM.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "apy, price and aum must not be negative")
	}
	if !validScore(input.RiskScore) || !validScore(input.YieldConfidence) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "scores must be between 0 and 100")
	}

	asset := &models.Asset{
		Name:               name,
		Description:        input.Description,
		Type:               input.Type,
		APY:                input.APY,
		Price:              input.Price,
		RiskScore:          input.RiskScore,
		YieldConfidence:    input.YieldConfidence,
		AUM:                input.AUM,
		Status:             input.Status,
		TokenAddress:       lowerPtr(input.TokenAddress),
		DistributorAddress: lowerPtr(input.DistributorAddress),
		NextPayoutDate:     input.NextPayoutDate,
	}
	if asset.IsOnChain() {
		if err := s.checkTokenDecimals(ctx, *asset.TokenAddress); err != nil {
			return nil, err
		}
	}
	if err := s.store.CreateAsset(ctx, asset); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(ctx, actor, "create_asset", "asset", asset.ID, map[string]interface{}{
		"name":   asset.Name,
		"type":   asset.Type,
		"status": asset.Status,
	})
	return asset, nil
}

// UpdateAsset applies the allow-listed subset of updates. Validation runs
// before the asset is looked up or written.
func (s *assetService) UpdateAsset(ctx context.Context, actor Actor, id string, updates map[string]interface{}) (*models.Asset, error) {
	fields, err := sanitizeAssetUpdates(updates)
	if err != nil {
		return nil, err
	}
	if token, ok := fields["token_address"].(string); ok {
		if err := s.checkTokenDecimals(ctx, token); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateAsset(ctx, id, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(ctx, actor, auditActionForUpdate(fields), "asset", id, fields)

	return s.getAsset(ctx, id)
}

// DeleteAsset removes an asset that nobody holds.
func (s *assetService) DeleteAsset(ctx context.Context, actor Actor, id string) error {
	if !models.HasPermission(actor.Role, models.AdminRoleSuperAdmin) {
		return apperrors.ErrInsufficientRole
	}

	asset, err := s.getAsset(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteAsset(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrAssetInUse):
			return apperrors.ErrAssetHasHoldings
		case errors.Is(err, repository.ErrNotFound):
			return apperrors.ErrAssetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(ctx, actor, "delete_asset", "asset", id, map[string]interface{}{"name": asset.Name})
	return nil
}

func (s *assetService) getAsset(ctx context.Context, id string) (*models.Asset, error) {
	asset, err := s.store.GetAsset(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrAssetNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return asset, nil
}

func validScore(v int) bool {
	return v >= 0 && v <= 100
}

func lowerPtr(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := strings.ToLower(*s)
	return &v
}
