package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ComplaintPending  = "pending"
	ComplaintResolved = "resolved"
)

type Complaint struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Status      string     `gorm:"type:varchar(20);index;not null" json:"status"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index" json:"orderId,omitempty"`

	CreatedByUserID uuid.UUID  `gorm:"type:uuid;index;not null" json:"createdBy"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = ComplaintPending
	}
	return
}
