package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rwaconsole/internal/models"
)

// GetBalance returns the user's credit balance, or a zero balance if the
// user has never had one.
func (s *GormStore) GetBalance(ctx context.Context, userID string) (*models.Balance, error) {
	var balance models.Balance
	err := s.conn(ctx).Where("user_id = ?", userID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Balance{UserID: userID, RWABalance: decimal.Zero}, nil
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// ApplyBalanceChange moves amount in or out of the user's balance and
// appends the matching ledger entry in one transaction. The balance row is
// locked for the duration, so concurrent changes for one user serialize and
// every ledger entry chains from the previous balance. A debit that would
// take the balance below zero fails with ErrInsufficientFunds.
func (s *GormStore) ApplyBalanceChange(
	ctx context.Context,
	userID string,
	txType models.BalanceTransactionType,
	amount decimal.Decimal,
	note string,
) (*models.Balance, *models.BalanceTransaction, error) {
	var (
		balance models.Balance
		entry   models.BalanceTransaction
	)

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		// First contact races resolve on the unique user_id.
		seed := models.Balance{UserID: userID, RWABalance: decimal.Zero}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&seed).Error; err != nil {
			return translate(err)
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&balance).Error; err != nil {
			return translate(err)
		}

		before := balance.RWABalance
		after := before.Add(amount)
		delta := gorm.Expr("rwa_balance + ?", amount)
		if txType.IsDebit() {
			after = before.Sub(amount)
			delta = gorm.Expr("rwa_balance - ?", amount)
		}
		if after.IsNegative() {
			return ErrInsufficientFunds
		}

		q := tx.Model(&models.Balance{}).Where("id = ?", balance.ID)
		if txType.IsDebit() {
			q = q.Where("rwa_balance >= ?", amount)
		}
		res := q.Update("rwa_balance", delta)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}
		balance.RWABalance = after

		entry = models.BalanceTransaction{
			BalanceID:     balance.ID,
			UserID:        userID,
			Type:          txType,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  after,
			Note:          note,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &balance, &entry, nil
}

// ListBalanceTransactions returns the newest balance movements for a user.
func (s *GormStore) ListBalanceTransactions(ctx context.Context, userID string, limit int) ([]models.BalanceTransaction, error) {
	var entries []models.BalanceTransaction
	if err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
