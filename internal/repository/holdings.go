package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"

	"rwaconsole/internal/models"
)

// GetHolding returns the (user, asset) position.
func (s *GormStore) GetHolding(ctx context.Context, userID, assetID string) (*models.Holding, error) {
	var holding models.Holding
	if err := s.conn(ctx).
		Where("user_id = ? AND asset_id = ?", userID, assetID).
		First(&holding).Error; err != nil {
		return nil, translate(err)
	}
	return &holding, nil
}

// ListHoldingsByUser returns every position of a user with its asset loaded.
func (s *GormStore) ListHoldingsByUser(ctx context.Context, userID string) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.conn(ctx).Preload("Asset").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

// UpsertHolding inserts the (user, asset) position or overwrites its shares.
func (s *GormStore) UpsertHolding(ctx context.Context, userID, assetID string, shares decimal.Decimal, at time.Time) error {
	holding := &models.Holding{UserID: userID, AssetID: assetID, Shares: shares}
	holding.UpdatedAt = at
	return s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "asset_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"shares", "updated_at"}),
	}).Create(holding).Error
}

// DeleteHolding removes the (user, asset) position if present.
func (s *GormStore) DeleteHolding(ctx context.Context, userID, assetID string) error {
	return s.conn(ctx).
		Where("user_id = ? AND asset_id = ?", userID, assetID).
		Delete(&models.Holding{}).Error
}

// CountActiveHoldings counts positions in an asset with positive shares.
func (s *GormStore) CountActiveHoldings(ctx context.Context, assetID string) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Holding{}).
		Where("asset_id = ? AND shares > 0", assetID).
		Count(&n).Error
	return n, err
}
