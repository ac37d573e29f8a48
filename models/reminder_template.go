package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReminderDelivery = "delivery"
	ReminderDebt     = "debt"
)

// ReminderTemplate is an SMS body; [CustomerName], [Date] and [Amount] are substituted.
type ReminderTemplate struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Type     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"type"`
	Message  string    `gorm:"type:text;not null" json:"message"`
	IsActive bool      `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *ReminderTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

func DefaultReminderTemplates() []ReminderTemplate {
	return []ReminderTemplate{
		{
			Type:     ReminderDelivery,
			Message:  "Përshëndetje [CustomerName], porosia juaj do të dorëzohet më [Date].",
			IsActive: true,
		},
		{
			Type:     ReminderDebt,
			Message:  "Përshëndetje [CustomerName], keni një borxh të papaguar prej [Amount] €.",
			IsActive: true,
		},
	}
}
