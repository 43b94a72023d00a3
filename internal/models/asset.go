package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetType is the investment category of a tokenized asset.
type AssetType string

const (
	AssetTypeRealEstate    AssetType = "real_estate"
	AssetTypePrivateCredit AssetType = "private_credit"
	AssetTypeTreasury      AssetType = "treasury"
	AssetTypeCommodity     AssetType = "commodity"
)

// IsValid reports whether t is one of the four supported categories.
func (t AssetType) IsValid() bool {
	switch t {
	case AssetTypeRealEstate, AssetTypePrivateCredit, AssetTypeTreasury, AssetTypeCommodity:
		return true
	}
	return false
}

// AssetStatus is the lifecycle state of an asset.
type AssetStatus string

const (
	AssetStatusActive   AssetStatus = "Active"
	AssetStatusMaturing AssetStatus = "Maturing"
	AssetStatusPaused   AssetStatus = "Paused"
)

// IsValid reports whether s is a known asset status.
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusActive, AssetStatusMaturing, AssetStatusPaused:
		return true
	}
	return false
}

// Asset is a tokenized investment vehicle. TokenAddress is the on-chain
// identifier used by balance reconciliation; assets without one are
// off-chain only.
type Asset struct {
	Base
	Name               string          `gorm:"not null" json:"name"`
	Description        string          `json:"description"`
	Type               AssetType       `gorm:"not null" json:"type"`
	APY                float64         `gorm:"column:apy;not null;default:0" json:"apy"`
	Price              decimal.Decimal `gorm:"type:numeric(38,18);not null;default:0" json:"price"`
	RiskScore          int             `gorm:"not null;default:0" json:"risk_score"`
	YieldConfidence    int             `gorm:"not null;default:0" json:"yield_confidence"`
	AUM                decimal.Decimal `gorm:"column:aum;type:numeric(38,18);not null;default:0" json:"aum"`
	Status             AssetStatus     `gorm:"not null;default:'Active'" json:"status"`
	TokenAddress       *string         `gorm:"index" json:"token_address,omitempty"`
	DistributorAddress *string         `json:"distributor_address,omitempty"`
	NextPayoutDate     *time.Time      `json:"next_payout_date,omitempty"`
	LastSyncedAt       *time.Time      `json:"last_synced_at,omitempty"`
	LastSyncOKAt       *time.Time      `gorm:"column:last_sync_ok_at" json:"last_sync_ok_at,omitempty"`
}

// IsOnChain reports whether the asset carries a token address.
func (a *Asset) IsOnChain() bool {
	return a.TokenAddress != nil && *a.TokenAddress != ""
}
