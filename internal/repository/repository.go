// Package repository is the persistence gateway: typed reads and writes over
// users, assets, holdings, transactions, balances and admin records. Services
// depend on the narrow store interfaces; GormStore implements all of them.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
)

// Gateway-level sentinel errors. Services translate these into AppErrors.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("duplicate record")
	ErrAssetInUse        = errors.New("asset has holdings with positive shares")
	ErrInsufficientFunds = errors.New("insufficient balance")
)

// UserFilter narrows user listings.
type UserFilter struct {
	KYCStatus *models.KYCStatus
	Frozen    *bool
}

// AssetFilter narrows asset listings. An empty Statuses slice matches all.
type AssetFilter struct {
	Statuses []models.AssetStatus
	Type     *models.AssetType
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	UserID  string
	AssetID string
	Type    *models.TransactionType
	Status  *models.TransactionStatus
}

// AdminLogFilter narrows audit log listings.
type AdminLogFilter struct {
	Action     string
	TargetType string
	AdminID    string
}

// DashboardStats holds the raw aggregates behind the admin dashboard.
type DashboardStats struct {
	TotalAUM             decimal.Decimal
	TotalAssets          int64
	ActiveAssets         int64
	TotalUsers           int64
	NewUsers             int64
	FrozenUsers          int64
	PendingKYC           int64
	ActiveHoldings       int64
	PendingYieldPayout   decimal.Decimal
	RecentInvestments    int64
	RecentRedemptions    int64
	TotalPlatformBalance decimal.Decimal
}

// UserStore reads and writes users.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByWallet(ctx context.Context, wallet string) (*models.User, error)
	EnsureUser(ctx context.Context, wallet string) (*models.User, error)
	ListUsers(ctx context.Context, filter UserFilter, page pagination.PageRequest) ([]models.User, int64, error)
	ListUsersAfter(ctx context.Context, afterID string, limit int) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, fields map[string]interface{}) error
}

// AssetStore reads and writes assets.
type AssetStore interface {
	GetAsset(ctx context.Context, id string) (*models.Asset, error)
	ListAssets(ctx context.Context, filter AssetFilter, page pagination.PageRequest) ([]models.Asset, int64, error)
	ListOnChainAssets(ctx context.Context) ([]models.Asset, error)
	CreateAsset(ctx context.Context, asset *models.Asset) error
	UpdateAsset(ctx context.Context, id string, fields map[string]interface{}) error
	DeleteAsset(ctx context.Context, id string) error
	MarkAssetsSynced(ctx context.Context, attempted, succeeded []string, at time.Time) error
}

// HoldingStore reads and writes share positions.
type HoldingStore interface {
	GetHolding(ctx context.Context, userID, assetID string) (*models.Holding, error)
	ListHoldingsByUser(ctx context.Context, userID string) ([]models.Holding, error)
	UpsertHolding(ctx context.Context, userID, assetID string, shares decimal.Decimal, at time.Time) error
	DeleteHolding(ctx context.Context, userID, assetID string) error
	CountActiveHoldings(ctx context.Context, assetID string) (int64, error)
}

// TransactionStore reads and writes the investment ledger.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	GetTransactionByHash(ctx context.Context, hash string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error)
	UpdateTransaction(ctx context.Context, id string, fields map[string]interface{}) error
}

// BalanceStore reads and mutates platform credit balances.
type BalanceStore interface {
	GetBalance(ctx context.Context, userID string) (*models.Balance, error)
	ApplyBalanceChange(ctx context.Context, userID string, txType models.BalanceTransactionType, amount decimal.Decimal, note string) (*models.Balance, *models.BalanceTransaction, error)
	ListBalanceTransactions(ctx context.Context, userID string, limit int) ([]models.BalanceTransaction, error)
}

// AdminStore reads admins and writes the audit log.
type AdminStore interface {
	GetAdminByWallet(ctx context.Context, wallet string) (*models.Admin, error)
	CreateAdminLog(ctx context.Context, entry *models.AdminLog) error
	ListAdminLogs(ctx context.Context, filter AdminLogFilter, page pagination.PageRequest) ([]models.AdminLog, int64, error)
}

// StatsStore computes dashboard aggregates.
type StatsStore interface {
	DashboardStats(ctx context.Context, since time.Time) (*DashboardStats, error)
}

// Store is the full persistence gateway.
type Store interface {
	UserStore
	AssetStore
	HoldingStore
	TransactionStore
	BalanceStore
	AdminStore
	StatsStore
}
