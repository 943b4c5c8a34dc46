package model

import (
	"time"

	"gorm.io/gorm"
)

// UserTenant represents the association between users and tenants
// This enables multi-tenancy by allowing users to belong to multiple tenants
type UserTenant struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"index;not null"`
	TenantID  string         `json:"tenant_id" gorm:"type:varchar(36);index;not null"`
	Role      string         `json:"role" gorm:"type:varchar(50);not null;default:'member'"` // Role within tenant: 'owner', 'admin', 'member', etc.
	IsDefault bool           `json:"is_default" gorm:"default:false"`
	Active    bool           `json:"active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
