package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Payment struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OrderID              *uuid.UUID `gorm:"type:uuid;index" json:"orderId,omitempty"`
	SupplementaryOrderID *uuid.UUID `gorm:"type:uuid;index" json:"supplementaryOrderId,omitempty"`

	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	MenyraPageses string          `gorm:"type:varchar(20);not null" json:"menyraPageses"`
	Note          string          `json:"note"`

	ReceivedByUserID uuid.UUID `gorm:"type:uuid;index;not null" json:"receivedBy"`
	PaidAt           time.Time `gorm:"index" json:"paidAt"`

	CreatedAt time.Time `json:"createdAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now()
	}
	return
}
