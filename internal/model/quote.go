package model

import (
	"time"

	"gorm.io/gorm"
)

// Quote statuses
const (
	QuoteDraft    = "draft"
	QuoteSent     = "sent"
	QuoteAccepted = "accepted"
	QuoteDeclined = "declined"
)

// Quote represents a cost estimate for a repair
type Quote struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CustomerID uint           `json:"customer_id" gorm:"index;not null"`
	RepairID   *uint          `json:"repair_id,omitempty" gorm:"index"`
	Total      float64        `json:"total" gorm:"not null;default:0"`
	Status     string         `json:"status" gorm:"type:varchar(20);not null;default:'draft'"`
	ValidUntil *time.Time     `json:"valid_until,omitempty"`
	Notes      string         `json:"notes" gorm:"type:text"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
