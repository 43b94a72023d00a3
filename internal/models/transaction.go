package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of ledger event.
type TransactionType string

const (
	TransactionTypeInvest      TransactionType = "invest"
	TransactionTypeRedeem      TransactionType = "redeem"
	TransactionTypeYieldPayout TransactionType = "yield_payout"
)

// IsValid reports whether t is a supported transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeInvest, TransactionTypeRedeem, TransactionTypeYieldPayout:
		return true
	}
	return false
}

// TransactionStatus tracks on-chain settlement of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// IsValid reports whether s is a known status.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusConfirmed, TransactionStatusFailed:
		return true
	}
	return false
}

// IsFinal reports whether s is a terminal state.
func (s TransactionStatus) IsFinal() bool {
	return s == TransactionStatusConfirmed || s == TransactionStatusFailed
}

// CanTransitionTo reports whether a ledger entry in status s may move to next.
// Pending may move anywhere; a final status only accepts itself.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if !next.IsValid() {
		return false
	}
	if s.IsFinal() {
		return s == next
	}
	return true
}

// Transaction is an append-only record of an invest, redeem or yield payout.
type Transaction struct {
	Base
	UserID       string            `gorm:"type:uuid;not null;index" json:"user_id"`
	AssetID      string            `gorm:"type:uuid;not null;index" json:"asset_id"`
	Type         TransactionType   `gorm:"not null" json:"type"`
	Amount       decimal.Decimal   `gorm:"type:numeric(38,18);not null" json:"amount"`
	ValueUSD     decimal.Decimal   `gorm:"column:value_usd;type:numeric(38,18);not null" json:"value_usd"`
	PricePerUnit decimal.Decimal   `gorm:"type:numeric(38,18);not null" json:"price_per_unit"`
	TxHash       *string           `gorm:"uniqueIndex" json:"tx_hash,omitempty"`
	ChainID      int64             `gorm:"not null" json:"chain_id"`
	Status       TransactionStatus `gorm:"not null;default:'pending';index" json:"status"`
	BlockNumber  *int64            `json:"block_number,omitempty"`
	ConfirmedAt  *time.Time        `json:"confirmed_at,omitempty"`

	Asset *Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}
