package repository

import (
	"context"
	"errors"

	"gorm.io/gorm/clause"

	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
)

// GetUserByID returns a user by primary key.
func (s *GormStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByWallet returns the user owning a (lower-case) wallet address.
func (s *GormStore) GetUserByWallet(ctx context.Context, wallet string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("wallet_address = ?", wallet).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// EnsureUser returns the user for wallet, creating a pending-KYC user on
// first contact. Concurrent first contacts converge on the same row.
func (s *GormStore) EnsureUser(ctx context.Context, wallet string) (*models.User, error) {
	user, err := s.GetUserByWallet(ctx, wallet)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user = &models.User{WalletAddress: wallet, KYCStatus: models.KYCStatusPending}
	if err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet_address"}},
		DoNothing: true,
	}).Create(user).Error; err != nil {
		return nil, translate(err)
	}
	return s.GetUserByWallet(ctx, wallet)
}

// ListUsers returns a page of users matching filter.
func (s *GormStore) ListUsers(ctx context.Context, filter UserFilter, page pagination.PageRequest) ([]models.User, int64, error) {
	base := s.conn(ctx).Model(&models.User{})
	if filter.KYCStatus != nil {
		base = base.Where("kyc_status = ?", *filter.KYCStatus)
	}
	if filter.Frozen != nil {
		base = base.Where("is_frozen = ?", *filter.Frozen)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := base.Scopes(pagination.Paginate(page)).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ListUsersAfter returns up to limit users with ids greater than afterID,
// in id order. Ids are UUIDv7, so this walks users by creation time.
func (s *GormStore) ListUsersAfter(ctx context.Context, afterID string, limit int) ([]models.User, error) {
	q := s.conn(ctx).Order("id ASC").Limit(limit)
	if afterID != "" {
		q = q.Where("id > ?", afterID)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser applies column updates to a user.
func (s *GormStore) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) error {
	res := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
