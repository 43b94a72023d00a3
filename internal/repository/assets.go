package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
)

// GetAsset returns an asset by id.
func (s *GormStore) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.conn(ctx).Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, translate(err)
	}
	return &asset, nil
}

// ListAssets returns a page of assets matching filter.
func (s *GormStore) ListAssets(ctx context.Context, filter AssetFilter, page pagination.PageRequest) ([]models.Asset, int64, error) {
	base := s.conn(ctx).Model(&models.Asset{})
	if len(filter.Statuses) > 0 {
		base = base.Where("status IN ?", filter.Statuses)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assets []models.Asset
	if err := base.Scopes(pagination.Paginate(page)).Find(&assets).Error; err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

// ListOnChainAssets returns every asset carrying a token address.
func (s *GormStore) ListOnChainAssets(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.conn(ctx).
		Where("token_address IS NOT NULL AND token_address <> ''").
		Order("created_at ASC").
		Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// CreateAsset inserts a new asset.
func (s *GormStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	return translate(s.conn(ctx).Create(asset).Error)
}

// UpdateAsset applies column updates to an asset.
func (s *GormStore) UpdateAsset(ctx context.Context, id string, fields map[string]interface{}) error {
	res := s.conn(ctx).Model(&models.Asset{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAsset removes an asset together with any zero-share holding rows.
// It refuses with ErrAssetInUse while any holding has positive shares.
func (s *GormStore) DeleteAsset(ctx context.Context, id string) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.Holding{}).
			Where("asset_id = ? AND shares > 0", id).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrAssetInUse
		}

		if err := tx.Where("asset_id = ?", id).Delete(&models.Holding{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Asset{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// MarkAssetsSynced stamps last_synced_at on every attempted asset and
// last_sync_ok_at on the subset whose balance read succeeded.
func (s *GormStore) MarkAssetsSynced(ctx context.Context, attempted, succeeded []string, at time.Time) error {
	if len(attempted) > 0 {
		if err := s.conn(ctx).Model(&models.Asset{}).
			Where("id IN ?", attempted).
			Update("last_synced_at", at).Error; err != nil {
			return err
		}
	}
	if len(succeeded) > 0 {
		if err := s.conn(ctx).Model(&models.Asset{}).
			Where("id IN ?", succeeded).
			Update("last_sync_ok_at", at).Error; err != nil {
			return err
		}
	}
	return nil
}
