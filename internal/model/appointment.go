package model

import (
	"time"

	"gorm.io/gorm"
)

// Appointment statuses
const (
	AppointmentScheduled = "scheduled"
	AppointmentDone      = "done"
	AppointmentNoShow    = "no_show"
	AppointmentCanceled  = "canceled"
)

// Appointment represents a scheduled visit, e.g. drop-off or pickup
type Appointment struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CustomerID  uint           `json:"customer_id" gorm:"index;not null"`
	RepairID    *uint          `json:"repair_id,omitempty" gorm:"index"`
	ScheduledAt time.Time      `json:"scheduled_at" gorm:"index;not null"`
	DurationMin int            `json:"duration_min" gorm:"default:30"`
	Status      string         `json:"status" gorm:"type:varchar(20);not null;default:'scheduled'"`
	Notes       string         `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
