package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription statuses
const (
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// Subscription holds a tenant's billing state in the main store. Charging
// itself happens in an external billing provider; this row only mirrors the
// plan and period the platform acts on.
type Subscription struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	TenantID    string         `json:"tenant_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	Plan        string         `json:"plan" gorm:"type:varchar(50);not null;default:'free'"`
	Status      string         `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	PeriodStart time.Time      `json:"period_start"`
	PeriodEnd   time.Time      `json:"period_end"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
