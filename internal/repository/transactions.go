package repository

import (
	"context"

	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
)

// CreateTransaction appends a ledger entry.
func (s *GormStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return translate(s.conn(ctx).Create(txn).Error)
}

// GetTransaction returns a ledger entry by id with its asset loaded.
func (s *GormStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.conn(ctx).Preload("Asset").Where("id = ?", id).First(&txn).Error; err != nil {
		return nil, translate(err)
	}
	return &txn, nil
}

// GetTransactionByHash returns a ledger entry by on-chain hash.
func (s *GormStore) GetTransactionByHash(ctx context.Context, hash string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.conn(ctx).Preload("Asset").Where("tx_hash = ?", hash).First(&txn).Error; err != nil {
		return nil, translate(err)
	}
	return &txn, nil
}

// ListTransactions returns a page of ledger entries matching filter.
func (s *GormStore) ListTransactions(ctx context.Context, filter TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error) {
	base := s.conn(ctx).Model(&models.Transaction{})
	if filter.UserID != "" {
		base = base.Where("user_id = ?", filter.UserID)
	}
	if filter.AssetID != "" {
		base = base.Where("asset_id = ?", filter.AssetID)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []models.Transaction
	if err := base.Preload("Asset").Scopes(pagination.Paginate(page)).Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// UpdateTransaction applies column updates to a ledger entry.
func (s *GormStore) UpdateTransaction(ctx context.Context, id string, fields map[string]interface{}) error {
	res := s.conn(ctx).Model(&models.Transaction{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
