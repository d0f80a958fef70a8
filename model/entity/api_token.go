package entity

import "time"

// APIToken gates access to the trigger endpoints. Tokens are issued
// externally; this system only validates them against the table.
type APIToken struct {
	ID         uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Token      string     `gorm:"column:token;type:varchar(255);not null;uniqueIndex" json:"token"`
	SystemID   string     `gorm:"column:system_id;type:varchar(50);not null" json:"system_id"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ExpiresAt  *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	Role       string     `gorm:"column:role;type:varchar(50)" json:"role"`
	Revoked    bool       `gorm:"column:revoked;not null;default:false" json:"revoked"`
	LastUsedAt *time.Time `gorm:"column:last_used_at" json:"last_used_at,omitempty"`
	UserID     *uint      `gorm:"column:user_id" json:"user_id,omitempty"`
}

func (APIToken) TableName() string {
	return "api_tokens"
}

// Valid reports whether the token is neither revoked nor expired.
func (t *APIToken) Valid(now time.Time) bool {
	if t.Revoked {
		return false
	}
	return t.ExpiresAt == nil || t.ExpiresAt.After(now)
}
