package services

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
	"rwaconsole/internal/repository"
	"rwaconsole/internal/validator"
)

// transactionService handles the investment ledger.
type transactionService struct {
	store          repository.Store
	defaultChainID int64
	now            func() time.Time
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(store repository.Store, defaultChainID int64) TransactionServicer {
	return &transactionService{store: store, defaultChainID: defaultChainID, now: time.Now}
}

// CreateTransaction records a pending ledger entry for the caller.
func (s *transactionService) CreateTransaction(ctx context.Context, wallet string, input CreateTransactionInput) (*models.Transaction, error) {
	if !input.Type.IsValid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.ValueUSD.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "valueUsd must not be negative")
	}
	if input.PricePerUnit != nil && input.PricePerUnit.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "pricePerUnit must not be negative")
	}
	hash, err := normalizeHash(input.TxHash)
	if err != nil {
		return nil, err
	}

	asset, err := s.store.GetAsset(ctx, input.AssetID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrAssetNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user, err := s.ensureActiveUser(ctx, wallet)
	if err != nil {
		return nil, err
	}

	if hash != nil {
		if _, err := s.store.GetTransactionByHash(ctx, *hash); err == nil {
			return nil, apperrors.ErrDuplicateTransactionHash
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	price := input.ValueUSD.Div(input.Amount)
	if input.PricePerUnit != nil {
		price = *input.PricePerUnit
	}
	chainID := s.defaultChainID
	if input.ChainID != nil {
		chainID = *input.ChainID
	}

	txn := &models.Transaction{
		UserID:       user.ID,
		AssetID:      asset.ID,
		Type:         input.Type,
		Amount:       input.Amount,
		ValueUSD:     input.ValueUSD,
		PricePerUnit: price,
		TxHash:       hash,
		ChainID:      chainID,
		Status:       models.TransactionStatusPending,
	}
	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateTransactionHash
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	txn.Asset = asset
	return txn, nil
}

// UpdateTransaction applies a settlement update to one of the caller's
// ledger entries by id.
func (s *transactionService) UpdateTransaction(ctx context.Context, wallet, id string, input UpdateTransactionInput) (*models.Transaction, error) {
	return s.update(ctx, wallet, input, func() (*models.Transaction, error) {
		return s.store.GetTransaction(ctx, id)
	})
}

// UpdateTransactionByHash applies a settlement update to one of the
// caller's ledger entries by on-chain hash.
func (s *transactionService) UpdateTransactionByHash(ctx context.Context, wallet, hash string, input UpdateTransactionInput) (*models.Transaction, error) {
	normalized, err := normalizeHash(&hash)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, wallet, input, func() (*models.Transaction, error) {
		return s.store.GetTransactionByHash(ctx, *normalized)
	})
}

func (s *transactionService) update(
	ctx context.Context,
	wallet string,
	input UpdateTransactionInput,
	load func() (*models.Transaction, error),
) (*models.Transaction, error) {
	if !input.Status.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid transaction status")
	}
	hash, err := normalizeHash(input.TxHash)
	if err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, wallet)
	if err != nil {
		return nil, err
	}

	txn, err := load()
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txn.UserID != user.ID {
		return nil, apperrors.ErrTransactionNotFound
	}
	if !txn.Status.CanTransitionTo(input.Status) {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	fields := map[string]interface{}{"status": input.Status}
	if input.BlockNumber != nil {
		fields["block_number"] = *input.BlockNumber
	}
	if hash != nil && (txn.TxHash == nil || *txn.TxHash != *hash) {
		fields["tx_hash"] = *hash
	}
	if input.Status == models.TransactionStatusConfirmed && txn.ConfirmedAt == nil {
		fields["confirmed_at"] = s.now().UTC()
	}

	if err := s.store.UpdateTransaction(ctx, txn.ID, fields); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateTransactionHash
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updated, err := s.store.GetTransaction(ctx, txn.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return updated, nil
}

// ListTransactions returns a page of the caller's ledger entries. An
// unknown wallet has an empty ledger.
func (s *transactionService) ListTransactions(ctx context.Context, wallet string, filter repository.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	user, err := s.getUser(ctx, wallet)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		resp := pagination.NewPageResponse([]models.Transaction{}, page.Page, page.PageSize, 0)
		return &resp, nil
	}
	if err != nil {
		return nil, err
	}

	filter.UserID = user.ID
	txns, total, err := s.store.ListTransactions(ctx, filter, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	resp := pagination.NewPageResponse(txns, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetTransaction returns one of the caller's ledger entries.
func (s *transactionService) GetTransaction(ctx context.Context, wallet, id string) (*models.Transaction, error) {
	user, err := s.getUser(ctx, wallet)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	txn, err := s.store.GetTransaction(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txn.UserID != user.ID {
		return nil, apperrors.ErrTransactionNotFound
	}
	return txn, nil
}

func (s *transactionService) ensureActiveUser(ctx context.Context, wallet string) (*models.User, error) {
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
	return user, nil
}

func (s *transactionService) getUser(ctx context.Context, wallet string) (*models.User, error) {
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

// normalizeHash lower-cases and validates an optional transaction hash.
// An empty string is treated as absent.
func normalizeHash(hash *string) (*string, error) {
	if hash == nil || *hash == "" {
		return nil, nil
	}
	h := strings.ToLower(*hash)
	if !validator.IsTxHash(h) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "txHash must be a 0x-prefixed 32-byte hex string")
	}
	return &h, nil
}
