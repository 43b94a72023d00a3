package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rwaconsole/internal/models"
	"rwaconsole/internal/pagination"
	"rwaconsole/internal/repository"
)

// Actor identifies the admin performing a privileged mutation.
type Actor struct {
	AdminID   string
	Role      models.AdminRole
	IPAddress string
}

// VerifiedAdmin is the admin identity disclosed by a verification.
type VerifiedAdmin struct {
	ID   string           `json:"id"`
	Role models.AdminRole `json:"role"`
	Name string           `json:"name"`
}

// AdminVerification is the public answer to "is this wallet an admin".
type AdminVerification struct {
	IsAdmin bool           `json:"isAdmin"`
	Admin   *VerifiedAdmin `json:"admin,omitempty"`
}

// AdminServicer defines the contract for admin authorization.
type AdminServicer interface {
	ResolveAdmin(ctx context.Context, wallet string) (*models.Admin, error)
	Authorize(ctx context.Context, wallet string, required models.AdminRole) (*models.Admin, error)
	Verify(ctx context.Context, wallet string) (*AdminVerification, error)
	ListLogs(ctx context.Context, filter repository.AdminLogFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AdminLog], error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, actor Actor, action, targetType, targetID string, details map[string]interface{})
}

// CreateAssetInput holds the fields for a new asset.
type CreateAssetInput struct {
	Name               string
	Description        string
	Type               models.AssetType
	APY                float64
	Price              decimal.Decimal
	RiskScore          int
	YieldConfidence    int
	AUM                decimal.Decimal
	Status             models.AssetStatus
	TokenAddress       *string
	DistributorAddress *string
	NextPayoutDate     *time.Time
}

// AdminAssetDetail is an asset with its holder count and, for on-chain
// assets, the token's total supply in shares.
type AdminAssetDetail struct {
	Asset       *models.Asset    `json:"asset"`
	HolderCount int64            `json:"holderCount"`
	TotalSupply *decimal.Decimal `json:"totalSupply,omitempty"`
}

// Position is a caller's stake in one asset.
type Position struct {
	Shares         decimal.Decimal  `json:"shares"`
	Value          decimal.Decimal  `json:"value"`
	ClaimableYield *decimal.Decimal `json:"claimableYield,omitempty"`
	LastSyncedAt   *time.Time       `json:"lastSyncedAt,omitempty"`
}

// AssetDetail is the investor view of an asset.
type AssetDetail struct {
	Asset        *models.Asset        `json:"asset"`
	Position     *Position            `json:"position,omitempty"`
	Transactions []models.Transaction `json:"transactions,omitempty"`
}

// AssetServicer defines the contract for asset reads and admin mutations.
type AssetServicer interface {
	ListAssets(ctx context.Context, filter repository.AssetFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	GetAdminAsset(ctx context.Context, id string) (*AdminAssetDetail, error)
	GetAssetDetail(ctx context.Context, id, wallet string) (*AssetDetail, error)
	CreateAsset(ctx context.Context, actor Actor, input CreateAssetInput) (*models.Asset, error)
	UpdateAsset(ctx context.Context, actor Actor, id string, updates map[string]interface{}) (*models.Asset, error)
	DeleteAsset(ctx context.Context, actor Actor, id string) error
}

// UserServicer defines the contract for user lookup and admin user management.
type UserServicer interface {
	EnsureUser(ctx context.Context, wallet string) (*models.User, error)
	ListUsers(ctx context.Context, filter repository.UserFilter, page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	SetFrozen(ctx context.Context, actor Actor, userID string, frozen bool) (*models.User, error)
	SetKYCStatus(ctx context.Context, actor Actor, userID string, status models.KYCStatus) (*models.User, error)
}

// HoldingUpdate is the reconciled position for one asset.
type HoldingUpdate struct {
	AssetID string          `json:"assetId"`
	Shares  decimal.Decimal `json:"shares"`
	Value   decimal.Decimal `json:"value"`
}

// SyncResult summarises one wallet reconciliation.
type SyncResult struct {
	Success bool            `json:"success"`
	Synced  int             `json:"synced"`
	Failed  int             `json:"failed"`
	Updates []HoldingUpdate `json:"updates"`
}

// HoldingSyncStatus reports the persisted state of one holding.
type HoldingSyncStatus struct {
	AssetID      string          `json:"assetId"`
	AssetName    string          `json:"assetName"`
	Shares       decimal.Decimal `json:"shares"`
	TokenAddress *string         `json:"tokenAddress"`
	LastSyncedAt *time.Time      `json:"lastSyncedAt"`
	LastSyncOKAt *time.Time      `json:"lastSyncOkAt"`
}

// SyncAllResult summarises a reconciliation pass over every user.
type SyncAllResult struct {
	Wallets  int `json:"wallets"`
	Failures int `json:"failures"`
	Holdings int `json:"holdings"`
}

// SyncServicer defines the contract for balance reconciliation.
type SyncServicer interface {
	SyncWallet(ctx context.Context, wallet string) (*SyncResult, error)
	GetSyncStatus(ctx context.Context, wallet string) ([]HoldingSyncStatus, error)
	SyncAll(ctx context.Context) (*SyncAllResult, error)
}

// CreateTransactionInput holds the fields for recording a ledger entry.
type CreateTransactionInput struct {
	AssetID      string
	Type         models.TransactionType
	Amount       decimal.Decimal
	ValueUSD     decimal.Decimal
	PricePerUnit *decimal.Decimal
	TxHash       *string
	ChainID      *int64
}

// UpdateTransactionInput holds a settlement update.
type UpdateTransactionInput struct {
	Status      models.TransactionStatus
	BlockNumber *int64
	TxHash      *string
}

// TransactionServicer defines the contract for the investment ledger.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, wallet string, input CreateTransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, wallet, id string, input UpdateTransactionInput) (*models.Transaction, error)
	UpdateTransactionByHash(ctx context.Context, wallet, hash string, input UpdateTransactionInput) (*models.Transaction, error)
	ListTransactions(ctx context.Context, wallet string, filter repository.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransaction(ctx context.Context, wallet, id string) (*models.Transaction, error)
}

// BalanceSummary is a caller's credit balance with recent movements.
type BalanceSummary struct {
	WalletAddress string                      `json:"walletAddress"`
	RWABalance    decimal.Decimal             `json:"rwaBalance"`
	Transactions  []models.BalanceTransaction `json:"transactions"`
}

// BalanceChange is the outcome of one balance mutation.
type BalanceChange struct {
	Balance     *models.Balance            `json:"balance"`
	Transaction *models.BalanceTransaction `json:"transaction"`
}

// BalanceServicer defines the contract for platform credit.
type BalanceServicer interface {
	GetBalance(ctx context.Context, wallet string) (*BalanceSummary, error)
	Recharge(ctx context.Context, wallet string, amount decimal.Decimal) (*BalanceChange, error)
	ApplyChange(ctx context.Context, wallet string, txType models.BalanceTransactionType, amount decimal.Decimal, note string) (*BalanceChange, error)
}

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	TotalAUM             decimal.Decimal `json:"totalAum"`
	TotalAssets          int64           `json:"totalAssets"`
	ActiveAssets         int64           `json:"activeAssets"`
	TotalUsers           int64           `json:"totalUsers"`
	NewUsers7d           int64           `json:"newUsers7d"`
	FrozenUsers          int64           `json:"frozenUsers"`
	PendingKYC           int64           `json:"pendingKyc"`
	ActiveHoldings       int64           `json:"activeHoldings"`
	PendingYieldPayout   decimal.Decimal `json:"pendingYieldPayout"`
	Investments7d        int64           `json:"investments7d"`
	Redemptions7d        int64           `json:"redemptions7d"`
	TotalPlatformBalance decimal.Decimal `json:"totalPlatformBalance"`
	GeneratedAt          time.Time       `json:"generatedAt"`
}

// StatsServicer defines the contract for dashboard aggregates.
type StatsServicer interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

// Session is a signed wallet session.
type Session struct {
	Token         string    `json:"token"`
	WalletAddress string    `json:"walletAddress"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// AuthServicer defines the contract for signed wallet sessions.
type AuthServicer interface {
	CreateSession(ctx context.Context, address, message, signature string) (*Session, error)
	ParseSession(token string) (string, error)
}
