// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OrderID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"orderId"`
	TemplateID   *uuid.UUID `gorm:"type:uuid;index" json:"templateId,omitempty"`
	Type         string     `gorm:"type:varchar(20)" json:"type"` // delivery, debt
	Recipient    string     `gorm:"type:varchar(40)" json:"recipient"`
	Message      string     `gorm:"type:text" json:"message"`
	Status       string     `gorm:"type:varchar(20)" json:"status"` // sent, failed, skipped
	ErrorMessage string     `gorm:"type:text" json:"errorMessage,omitempty"`
	Channel      string     `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	SentAt       time.Time  `gorm:"index" json:"sentAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
