package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rwaconsole/internal/models"
)

// DashboardStats computes platform aggregates. Counters prefixed New or
// Recent only consider rows created at or after since.
func (s *GormStore) DashboardStats(ctx context.Context, since time.Time) (*DashboardStats, error) {
	db := s.conn(ctx)
	st := &DashboardStats{}

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&st.TotalAssets, db.Model(&models.Asset{})},
		{&st.ActiveAssets, db.Model(&models.Asset{}).Where("status = ?", models.AssetStatusActive)},
		{&st.TotalUsers, db.Model(&models.User{})},
		{&st.NewUsers, db.Model(&models.User{}).Where("created_at >= ?", since)},
		{&st.FrozenUsers, db.Model(&models.User{}).Where("is_frozen = ?", true)},
		{&st.PendingKYC, db.Model(&models.User{}).Where("kyc_status = ?", models.KYCStatusPending)},
		{&st.ActiveHoldings, db.Model(&models.Holding{}).Where("shares > 0")},
		{&st.RecentInvestments, db.Model(&models.Transaction{}).
			Where("type = ? AND created_at >= ?", models.TransactionTypeInvest, since)},
		{&st.RecentRedemptions, db.Model(&models.Transaction{}).
			Where("type = ? AND created_at >= ?", models.TransactionTypeRedeem, since)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	sums := []struct {
		dst   *decimal.Decimal
		query *gorm.DB
	}{
		{&st.TotalAUM, db.Model(&models.Asset{}).
			Select("COALESCE(SUM(aum), 0)").
			Where("status = ?", models.AssetStatusActive)},
		{&st.PendingYieldPayout, db.Model(&models.Transaction{}).
			Select("COALESCE(SUM(value_usd), 0)").
			Where("type = ? AND status = ?", models.TransactionTypeYieldPayout, models.TransactionStatusPending)},
		{&st.TotalPlatformBalance, db.Model(&models.Balance{}).Select("COALESCE(SUM(rwa_balance), 0)")},
	}
	for _, sm := range sums {
		if err := sm.query.Row().Scan(sm.dst); err != nil {
			return nil, err
		}
	}
	return st, nil
}
