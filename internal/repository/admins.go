package repository

import (
	"context"

	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
)

// GetAdminByWallet returns the active admin for wallet. Inactive rows are
// reported as ErrNotFound.
func (s *GormStore) GetAdminByWallet(ctx context.Context, wallet string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.conn(ctx).
		Where("wallet_address = ? AND is_active = ?", wallet, true).
		First(&admin).Error; err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

// CreateAdminLog appends an audit entry.
func (s *GormStore) CreateAdminLog(ctx context.Context, entry *models.AdminLog) error {
	return s.conn(ctx).Create(entry).Error
}

// ListAdminLogs returns a page of audit entries with the acting admin loaded.
func (s *GormStore) ListAdminLogs(ctx context.Context, filter AdminLogFilter, page pagination.PageRequest) ([]models.AdminLog, int64, error) {
	base := s.conn(ctx).Model(&models.AdminLog{})
	if filter.Action != "" {
		base = base.Where("action = ?", filter.Action)
	}
	if filter.TargetType != "" {
		base = base.Where("target_type = ?", filter.TargetType)
	}
	if filter.AdminID != "" {
		base = base.Where("admin_id = ?", filter.AdminID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AdminLog
	if err := base.Preload("Admin").Scopes(pagination.Paginate(page)).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
