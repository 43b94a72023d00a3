package models

// KYCStatus is the know-your-customer verification state of a user.
type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "pending"
	KYCStatusVerified KYCStatus = "verified"
	KYCStatusRejected KYCStatus = "rejected"
)

// IsValid reports whether s is one of the known KYC states.
func (s KYCStatus) IsValid() bool {
	switch s {
	case KYCStatusPending, KYCStatusVerified, KYCStatusRejected:
		return true
	}
	return false
}

// User is an investor identified by wallet address. It is created the first
// time the wallet interacts with the platform.
type User struct {
	Base
	WalletAddress string        `gorm:"uniqueIndex;not null" json:"wallet_address"`
	KYCStatus     KYCStatus     `gorm:"column:kyc_status;not null;default:'pending'" json:"kyc_status"`
	IsFrozen      bool          `gorm:"not null;default:false" json:"is_frozen"`
	Holdings      []Holding     `gorm:"foreignKey:UserID" json:"holdings,omitempty"`
	Transactions  []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
