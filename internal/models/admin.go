package models

// AdminRole is a console operator tier. Roles form a strict hierarchy.
type AdminRole string

const (
	AdminRoleReviewer   AdminRole = "reviewer"
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleSuperAdmin AdminRole = "super_admin"
)

var roleRanks = map[AdminRole]int{
	AdminRoleReviewer:   1,
	AdminRoleAdmin:      2,
	AdminRoleSuperAdmin: 3,
}

// Rank returns the position of the role in the hierarchy, or 0 if unknown.
func (r AdminRole) Rank() int {
	return roleRanks[r]
}

// IsValid reports whether r is a known role.
func (r AdminRole) IsValid() bool {
	return r.Rank() > 0
}

// HasPermission reports whether a caller holding role have may perform an
// action that requires role required.
func HasPermission(have, required AdminRole) bool {
	if !required.IsValid() {
		return false
	}
	return have.Rank() >= required.Rank()
}

// Admin is a console operator keyed by wallet address. Inactive admins are
// treated exactly like wallets with no admin row.
type Admin struct {
	Base
	WalletAddress string    `gorm:"uniqueIndex;not null" json:"wallet_address"`
	Name          string    `json:"name,omitempty"`
	Role          AdminRole `gorm:"not null;default:'reviewer'" json:"role"`
	IsActive      bool      `gorm:"not null" json:"is_active"`
}

// AdminLog records a privileged mutation for audit.
type AdminLog struct {
	Base
	AdminID    string `gorm:"type:uuid;not null;index" json:"admin_id"`
	Action     string `gorm:"not null;index" json:"action"`
	TargetType string `gorm:"not null" json:"target_type"`
	TargetID   string `json:"target_id"`
	Details    string `json:"details,omitempty"`
	IPAddress  string `json:"ip_address,omitempty"`

	Admin *Admin `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
}
