package model

import (
	"time"

	"gorm.io/gorm"
)

// Invoice statuses
const (
	InvoiceOpen = "open"
	InvoicePaid = "paid"
	InvoiceVoid = "void"
)

// Invoice represents a bill issued to a customer
type Invoice struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Number     string         `json:"number" gorm:"type:varchar(50);uniqueIndex;not null"`
	CustomerID uint           `json:"customer_id" gorm:"index;not null"`
	QuoteID    *uint          `json:"quote_id,omitempty" gorm:"index"`
	RepairID   *uint          `json:"repair_id,omitempty" gorm:"index"`
	Total      float64        `json:"total" gorm:"not null;default:0"`
	Status     string         `json:"status" gorm:"type:varchar(20);not null;default:'open'"`
	IssuedAt   time.Time      `json:"issued_at"`
	DueAt      *time.Time     `json:"due_at,omitempty"`
	PaidAt     *time.Time     `json:"paid_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
