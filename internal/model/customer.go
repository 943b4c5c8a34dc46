package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a repair-shop customer stored in the tenant store
type Customer struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Email     string         `json:"email" gorm:"type:varchar(100);index"`
	Phone     string         `json:"phone" gorm:"type:varchar(30)"`
	Address   string         `json:"address" gorm:"type:text"`
	Notes     string         `json:"notes" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
