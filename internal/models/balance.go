package models

import "github.com/shopspring/decimal"

// Balance is a user's platform credit, separate from on-chain holdings.
type Balance struct {
	Base
	UserID     string          `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	RWABalance decimal.Decimal `gorm:"column:rwa_balance;type:numeric(38,18);not null;default:0" json:"rwa_balance"`
}

// BalanceTransactionType labels a movement of platform credit.
type BalanceTransactionType string

const (
	BalanceTxRecharge BalanceTransactionType = "recharge"
	BalanceTxInvest   BalanceTransactionType = "invest"
	BalanceTxRedeem   BalanceTransactionType = "redeem"
	BalanceTxYield    BalanceTransactionType = "yield"
)

// IsDebit reports whether the movement reduces the balance.
func (t BalanceTransactionType) IsDebit() bool {
	return t == BalanceTxInvest
}

// BalanceTransaction is an append-only entry recording one balance change.
type BalanceTransaction struct {
	Base
	BalanceID     string                 `gorm:"type:uuid;not null;index" json:"balance_id"`
	UserID        string                 `gorm:"type:uuid;not null;index" json:"user_id"`
	Type          BalanceTransactionType `gorm:"not null" json:"type"`
	Amount        decimal.Decimal        `gorm:"type:numeric(38,18);not null" json:"amount"`
	BalanceBefore decimal.Decimal        `gorm:"type:numeric(38,18);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal        `gorm:"type:numeric(38,18);not null" json:"balance_after"`
	Note          string                 `json:"note,omitempty"`
}
