package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"rwaconsole/internal/chain"
	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/logger"
	"rwaconsole/internal/metrics"
	"rwaconsole/internal/models"
	"rwaconsole/internal/repository"
)

// SyncOptions tunes reconciliation.
type SyncOptions struct {
	// Concurrency bounds in-flight balance reads for one wallet.
	Concurrency int
	// BatchSize is the number of users loaded per page by SyncAll.
	BatchSize int
}

const (
	triggerRequest  = "request"
	triggerSchedule = "schedule"
)

// syncService reconciles persisted holdings against on-chain balances.
type syncService struct {
	store   repository.Store
	reader  chain.BalanceReader
	metrics *metrics.Metrics
	opts    SyncOptions
	now     func() time.Time
}

// NewSyncService creates a new SyncServicer. reader may be nil when no RPC
// endpoint is configured; reconciliation then fails with ErrChainUnavailable.
func NewSyncService(store repository.Store, reader chain.BalanceReader, m *metrics.Metrics, opts SyncOptions) SyncServicer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	return &syncService{store: store, reader: reader, metrics: m, opts: opts, now: time.Now}
}

type balanceRead struct {
	shares decimal.Decimal
	ok     bool
}

// SyncWallet reconciles every on-chain asset for one wallet.
func (s *syncService) SyncWallet(ctx context.Context, wallet string) (*SyncResult, error) {
	user, err := s.getUser(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return s.syncUser(ctx, user, triggerRequest)
}

func (s *syncService) syncUser(ctx context.Context, user *models.User, trigger string) (result *SyncResult, err error) {
	if s.reader == nil {
		return nil, apperrors.ErrChainUnavailable
	}

	start := s.now()
	defer func() {
		if s.metrics == nil {
			return
		}
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.SyncRuns.WithLabelValues(trigger, outcome).Inc()
		s.metrics.SyncDuration.Observe(time.Since(start).Seconds())
	}()

	assets, err := s.store.ListOnChainAssets(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	reads := s.readBalances(ctx, user.WalletAddress, assets)

	result = &SyncResult{Success: true, Updates: make([]HoldingUpdate, 0, len(assets))}
	attempted := make([]string, 0, len(assets))
	succeeded := make([]string, 0, len(assets))
	at := s.now()

	for i, asset := range assets {
		read := reads[i]
		attempted = append(attempted, asset.ID)
		if read.ok {
			succeeded = append(succeeded, asset.ID)
		} else {
			result.Failed++
		}

		if read.shares.IsPositive() {
			if err := s.store.UpsertHolding(ctx, user.ID, asset.ID, read.shares, at); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			result.Synced++
		} else if err := s.store.DeleteHolding(ctx, user.ID, asset.ID); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		result.Updates = append(result.Updates, HoldingUpdate{
			AssetID: asset.ID,
			Shares:  read.shares,
			Value:   read.shares.Mul(asset.Price),
		})
	}

	if err := s.store.MarkAssetsSynced(ctx, attempted, succeeded, at); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("wallet reconciled",
		"wallet", user.WalletAddress,
		"trigger", trigger,
		"assets", len(assets),
		"synced", result.Synced,
		"failed", result.Failed,
	)
	return result, nil
}

// readBalances fans out balanceOf calls. A failed read yields zero shares
// with ok=false.
func (s *syncService) readBalances(ctx context.Context, wallet string, assets []models.Asset) []balanceRead {
	reads := make([]balanceRead, len(assets))

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i := range assets {
		g.Go(func() error {
			token := *assets[i].TokenAddress
			raw, err := s.reader.BalanceOf(ctx, token, wallet)
			if s.metrics != nil {
				s.metrics.ObserveChainRead("balanceOf", err)
			}
			if err != nil {
				logger.Get().Warnw("balance read failed, treating as zero",
					"asset_id", assets[i].ID,
					"token", token,
					"wallet", wallet,
					"error", err,
				)
				reads[i] = balanceRead{shares: decimal.Zero}
				return nil
			}
			reads[i] = balanceRead{shares: chain.ToShares(raw, chain.ShareDecimals), ok: true}
			return nil
		})
	}
	_ = g.Wait()
	return reads
}

// GetSyncStatus reports the persisted holdings of a wallet without touching the chain.
func (s *syncService) GetSyncStatus(ctx context.Context, wallet string) ([]HoldingSyncStatus, error) {
	user, err := s.getUser(ctx, wallet)
	if err != nil {
		return nil, err
	}

	holdings, err := s.store.ListHoldingsByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	statuses := make([]HoldingSyncStatus, 0, len(holdings))
	for _, h := range holdings {
		status := HoldingSyncStatus{AssetID: h.AssetID, Shares: h.Shares}
		if h.Asset != nil {
			status.AssetName = h.Asset.Name
			status.TokenAddress = h.Asset.TokenAddress
			status.LastSyncedAt = h.Asset.LastSyncedAt
			status.LastSyncOKAt = h.Asset.LastSyncOKAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// SyncAll reconciles every user, one page at a time. A failure for one
// wallet is logged and counted; the pass continues.
func (s *syncService) SyncAll(ctx context.Context) (*SyncAllResult, error) {
	if s.reader == nil {
		return nil, apperrors.ErrChainUnavailable
	}

	result := &SyncAllResult{}
	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		users, err := s.store.ListUsersAfter(ctx, after, s.opts.BatchSize)
		if err != nil {
			return result, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(users) == 0 {
			break
		}

		for i := range users {
			res, err := s.syncUser(ctx, &users[i], triggerSchedule)
			result.Wallets++
			if err != nil {
				result.Failures++
				logger.Get().Errorw("wallet reconciliation failed",
					"wallet", users[i].WalletAddress,
					"error", err,
				)
				continue
			}
			result.Holdings += res.Synced
		}
		after = users[len(users)-1].ID
	}

	logger.Get().Infow("reconciliation pass complete",
		"wallets", result.Wallets,
		"failures", result.Failures,
		"holdings", result.Holdings,
	)
	return result, nil
}

func (s *syncService) getUser(ctx context.Context, wallet string) (*models.User, error) {
	if wallet == "" {
		return nil, apperrors.ErrUnauthorized
	}
	user, err := s.store.GetUserByWallet(ctx, wallet)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}
