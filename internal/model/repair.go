package model

import (
	"time"

	"gorm.io/gorm"
)

// Repair statuses, in lifecycle order
const (
	RepairReceived   = "received"
	RepairDiagnosed  = "diagnosed"
	RepairInProgress = "in_progress"
	RepairCompleted  = "completed"
	RepairDelivered  = "delivered"
)

// Repair represents a repair job for a customer's device
type Repair struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CustomerID   uint           `json:"customer_id" gorm:"index;not null"`
	Title        string         `json:"title" gorm:"type:varchar(200);not null"`
	Description  string         `json:"description" gorm:"type:text"`
	DeviceType   string         `json:"device_type" gorm:"type:varchar(100)"`
	SerialNumber string         `json:"serial_number" gorm:"type:varchar(100)"`
	Status       string         `json:"status" gorm:"type:varchar(20);not null;default:'received'"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Customer Customer     `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Parts    []RepairPart `json:"parts,omitempty" gorm:"foreignKey:RepairID"`
}

// ValidRepairStatus reports whether s is a known repair status.
func ValidRepairStatus(s string) bool {
	switch s {
	case RepairReceived, RepairDiagnosed, RepairInProgress, RepairCompleted, RepairDelivered:
		return true
	}
	return false
}
