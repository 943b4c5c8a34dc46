package model

import "time"

// ShopSetting is a key/value row for per-tenant shop configuration. These
// rows survive a full data wipe; they are configuration, not domain data.
type ShopSetting struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"type:varchar(100);uniqueIndex;not null"`
	Value     string    `json:"value" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
