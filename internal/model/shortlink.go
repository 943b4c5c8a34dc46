package model

import (
	"time"

	"gorm.io/gorm"
)

// ShortLink maps a short redirect code to a target URL. Like review tokens,
// codes are globally addressed but live inside one tenant store, so
// resolution without a tenant context goes through the cross-tenant resolver.
type ShortLink struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Code      string         `json:"code" gorm:"type:varchar(16);uniqueIndex;not null"`
	TargetURL string         `json:"target_url" gorm:"type:text;not null"`
	Hits      int64          `json:"hits" gorm:"default:0"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
