package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"rwaconsole/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewWallet returns a fresh lower-case wallet address derived from a random
// key. The address always contains at least one hex letter.
func NewWallet() string {
	for {
		key, err := crypto.GenerateKey()
		if err != nil {
			panic(fmt.Sprintf("generate wallet key: %v", err))
		}
		addr := strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex())
		if strings.ContainsAny(addr[2:], "abcdef") {
			return addr
		}
	}
}

// Checksummed returns the EIP-55 mixed-case form of wallet.
func Checksummed(wallet string) string {
	return common.HexToAddress(wallet).Hex()
}

// CreateTestUser creates a pending-KYC user with a unique wallet.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithWallet(t, db, NewWallet())
}

// CreateTestUserWithWallet creates a user for the given wallet.
func CreateTestUserWithWallet(t *testing.T, db *gorm.DB, wallet string) *models.User {
	t.Helper()

	user := &models.User{
		WalletAddress: wallet,
		KYCStatus:     models.KYCStatusPending,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAsset creates an Active off-chain asset priced at 10 USD.
func CreateTestAsset(t *testing.T, db *gorm.DB) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		Name:            fmt.Sprintf("Test Asset %d", nextID()),
		Type:            models.AssetTypeTreasury,
		APY:             5.25,
		Price:           decimal.NewFromInt(10),
		RiskScore:       20,
		YieldConfidence: 90,
		AUM:             decimal.NewFromInt(1000000),
		Status:          models.AssetStatusActive,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestOnChainAsset creates an Active asset with a unique token address.
func CreateTestOnChainAsset(t *testing.T, db *gorm.DB) *models.Asset {
	t.Helper()

	asset := CreateTestAsset(t, db)
	token := NewWallet()
	if err := db.Model(asset).Update("token_address", token).Error; err != nil {
		t.Fatalf("failed to set token address: %v", err)
	}
	asset.TokenAddress = &token
	return asset
}

// CreateTestHolding creates a position with the given shares.
func CreateTestHolding(t *testing.T, db *gorm.DB, userID, assetID string, shares decimal.Decimal) *models.Holding {
	t.Helper()

	holding := &models.Holding{UserID: userID, AssetID: assetID, Shares: shares}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestTransaction creates a pending ledger entry with a unique hash.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, assetID string, txType models.TransactionType) *models.Transaction {
	t.Helper()

	hash := fmt.Sprintf("0x%064x", nextID())
	txn := &models.Transaction{
		UserID:       userID,
		AssetID:      assetID,
		Type:         txType,
		Amount:       decimal.NewFromInt(10),
		ValueUSD:     decimal.NewFromInt(100),
		PricePerUnit: decimal.NewFromInt(10),
		TxHash:       &hash,
		ChainID:      11155111,
		Status:       models.TransactionStatusPending,
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return txn
}

// CreateTestAdmin creates an active admin with the given role.
func CreateTestAdmin(t *testing.T, db *gorm.DB, role models.AdminRole) *models.Admin {
	t.Helper()

	admin := &models.Admin{
		WalletAddress: NewWallet(),
		Name:          fmt.Sprintf("Admin %d", nextID()),
		Role:          role,
		IsActive:      true,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("failed to create test admin: %v", err)
	}
	return admin
}

// CreateTestBalance creates a credit balance row for a user.
func CreateTestBalance(t *testing.T, db *gorm.DB, userID string, amount decimal.Decimal) *models.Balance {
	t.Helper()

	balance := &models.Balance{UserID: userID, RWABalance: amount}
	if err := db.Create(balance).Error; err != nil {
		t.Fatalf("failed to create test balance: %v", err)
	}
	return balance
}

// Ago returns a timestamp d before now.
func Ago(d time.Duration) time.Time {
	return time.Now().Add(-d)
}
