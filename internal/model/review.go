package model

import (
	"time"

	"gorm.io/gorm"
)

// Review represents customer feedback on a completed repair. PublicToken
// addresses the review from outside the tenant's scope: the link sent to the
// customer carries only the token, not the tenant, so lookups go through the
// cross-tenant resolver. Uniqueness of the token is probabilistic (generation
// entropy); nothing enforces it across tenants.
type Review struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CustomerID  uint           `json:"customer_id" gorm:"index;not null"`
	RepairID    uint           `json:"repair_id" gorm:"index;not null"`
	Rating      int            `json:"rating" gorm:"not null"`
	Comment     string         `json:"comment" gorm:"type:text"`
	Response    string         `json:"response" gorm:"type:text"`
	PublicToken string         `json:"-" gorm:"type:varchar(64);uniqueIndex;not null"`
	RespondedAt *time.Time     `json:"responded_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
