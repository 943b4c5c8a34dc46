package model

import (
	"time"

	"gorm.io/gorm"
)

// Platform roles. Admins operate the platform and need no tenant; members
// run a repair shop; customers are end-customers of a shop.
const (
	RoleAdmin    = "admin"
	RoleMember   = "member"
	RoleCustomer = "customer"
)

// User represents the user model stored in the main store
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	Role      string         `json:"role" gorm:"type:varchar(20);not null;default:'member'"`
	TenantID  *string        `json:"tenant_id,omitempty" gorm:"type:varchar(36);index"` // default tenant for this user
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
