package services

import (
	"context"
	"time"

	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/repository"
)

// statsWindow is the look-back for "recent" counters.
const statsWindow = 7 * 24 * time.Hour

// statsService computes dashboard aggregates.
type statsService struct {
	store repository.StatsStore
	now   func() time.Time
}

// NewStatsService creates a new StatsServicer.
func NewStatsService(store repository.StatsStore) StatsServicer {
	return &statsService{store: store, now: time.Now}
}

// GetDashboardStats recomputes the dashboard on every call.
func (s *statsService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	raw, err := s.store.DashboardStats(ctx, now.Add(-statsWindow))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &DashboardStats{
		TotalAUM:             raw.TotalAUM,
		TotalAssets:          raw.TotalAssets,
		ActiveAssets:         raw.ActiveAssets,
		TotalUsers:           raw.TotalUsers,
		NewUsers7d:           raw.NewUsers,
		FrozenUsers:          raw.FrozenUsers,
		PendingKYC:           raw.PendingKYC,
		ActiveHoldings:       raw.ActiveHoldings,
		PendingYieldPayout:   raw.PendingYieldPayout,
		Investments7d:        raw.RecentInvestments,
		Redemptions7d:        raw.RecentRedemptions,
		TotalPlatformBalance: raw.TotalPlatformBalance,
		GeneratedAt:          now.UTC(),
	}, nil
}
