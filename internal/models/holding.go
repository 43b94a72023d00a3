package models

import "github.com/shopspring/decimal"

// Holding is a user's share position in one asset. There is at most one
// row per (user, asset); a position that drops to zero is deleted.
type Holding struct {
	Base
	UserID  string          `gorm:"type:uuid;not null;uniqueIndex:idx_holdings_user_asset" json:"user_id"`
	AssetID string          `gorm:"type:uuid;not null;uniqueIndex:idx_holdings_user_asset;index" json:"asset_id"`
	Shares  decimal.Decimal `gorm:"type:numeric(38,18);not null;default:0" json:"shares"`

	Asset *Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}
