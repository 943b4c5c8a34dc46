package model

import (
	"time"

	"gorm.io/gorm"
)

// Part represents a spare part in the tenant's inventory
type Part struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	SKU       string         `json:"sku" gorm:"type:varchar(50);uniqueIndex"`
	Stock     int            `json:"stock" gorm:"default:0"`
	UnitPrice float64        `json:"unit_price" gorm:"default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// RepairPart is the junction between repairs and the parts consumed by them.
// The unit price is copied at attach time so later price changes do not
// rewrite past repairs.
type RepairPart struct {
	RepairID  uint      `json:"repair_id" gorm:"primaryKey;autoIncrement:false"`
	PartID    uint      `json:"part_id" gorm:"primaryKey;autoIncrement:false"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	UnitPrice float64   `json:"unit_price" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
}
