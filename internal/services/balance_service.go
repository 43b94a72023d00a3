package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/logger"
	"rwaconsole/internal/models"
	"rwaconsole/internal/repository"
)

// recentBalanceTransactions bounds the movements returned with a balance.
const recentBalanceTransactions = 20

// balanceService handles platform credit balances.
type balanceService struct {
	store repository.Store
}

// NewBalanceService creates a new BalanceServicer.
func NewBalanceService(store repository.Store) BalanceServicer {
	return &balanceService{store: store}
}

// GetBalance returns the caller's balance and recent movements. An unknown
// wallet has a zero balance; nothing is created.
func (s *balanceService) GetBalance(ctx context.Context, wallet string) (*BalanceSummary, error) {
	if wallet == "" {
		return nil, apperrors.ErrUnauthorized
	}
	summary := &BalanceSummary{
		WalletAddress: wallet,
		RWABalance:    decimal.Zero,
		Transactions:  []models.BalanceTransaction{},
	}

	user, err := s.store.GetUserByWallet(ctx, wallet)
	if errors.Is(err, repository.ErrNotFound) {
		return summary, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	balance, err := s.store.GetBalance(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	summary.RWABalance = balance.RWABalance

	entries, err := s.store.ListBalanceTransactions(ctx, user.ID, recentBalanceTransactions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if entries != nil {
		summary.Transactions = entries
	}
	return summary, nil
}

// Recharge credits the caller's balance.
func (s *balanceService) Recharge(ctx context.Context, wallet string, amount decimal.Decimal) (*BalanceChange, error) {
	return s.ApplyChange(ctx, wallet, models.BalanceTxRecharge, amount, "")
}

// ApplyChange moves credit in or out of the caller's balance.
func (s *balanceService) ApplyChange(ctx context.Context, wallet string, txType models.BalanceTransactionType, amount decimal.Decimal, note string) (*BalanceChange, error) {
	switch txType {
	case models.BalanceTxRecharge, models.BalanceTxInvest, models.BalanceTxRedeem, models.BalanceTxYield:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid balance transaction type")
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if wallet == "" {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.store.EnsureUser(ctx, wallet)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if user.IsFrozen {
		return nil, apperrors.ErrUserFrozen
	}

	balance, entry, err := s.store.ApplyBalanceChange(ctx, user.ID, txType, amount, note)
	if errors.Is(err, repository.ErrInsufficientFunds) {
		return nil, apperrors.ErrInsufficientBalance
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("balance changed",
		"wallet", wallet,
		"type", txType,
		"amount", amount.String(),
		"balance", balance.RWABalance.String(),
	)
	return &BalanceChange{Balance: balance, Transaction: entry}, nil
}
