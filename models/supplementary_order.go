package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SupplementaryOrder is an add-on line billed alongside a garage-door order.
type SupplementaryOrder struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ParentOrderID uuid.UUID `gorm:"type:uuid;index;not null" json:"parentOrderId"`

	EmriKlientit    string `json:"emriKlientit"`
	MbiemriKlientit string `json:"mbiemriKlientit"`
	NumriTelefonit  string `json:"numriTelefonit"`
	Vendi           string `json:"vendi"`

	Pershkrimi string `gorm:"type:text;not null" json:"pershkrimi"`

	CmimiTotal     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cmimiTotal"`
	Kaparja        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"kaparja"`
	KaparaReceiver string          `json:"kaparaReceiver"`
	MenyraPageses  string          `gorm:"type:varchar(20);default:'kesh'" json:"menyraPageses"`
	IsPaymentDone  bool            `gorm:"default:false" json:"isPaymentDone"`

	Statusi       string `gorm:"type:varchar(20);index;not null" json:"statusi"`
	EshtePrintuar bool   `gorm:"default:false" json:"eshtePrintuar"`

	CreatedByUserID uuid.UUID `gorm:"type:uuid;index" json:"createdBy"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *SupplementaryOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Statusi == "" {
		s.Statusi = StatusInProcess
	}
	if s.MenyraPageses == "" {
		s.MenyraPageses = PaymentCash
	}
	return
}

// InheritCustomer fills empty customer fields from the parent order.
func (s *SupplementaryOrder) InheritCustomer(parent *Order) {
	if s.EmriKlientit == "" {
		s.EmriKlientit = parent.EmriKlientit
	}
	if s.MbiemriKlientit == "" {
		s.MbiemriKlientit = parent.MbiemriKlientit
	}
	if s.NumriTelefonit == "" {
		s.NumriTelefonit = parent.NumriTelefonit
	}
	if s.Vendi == "" {
		s.Vendi = parent.Vendi
	}
}

func (s *SupplementaryOrder) RemainingPayment() decimal.Decimal {
	return Remaining(s.CmimiTotal, s.Kaparja)
}

func (s *SupplementaryOrder) MarkPaid() {
	s.IsPaymentDone = true
	s.Kaparja = s.CmimiTotal
	if s.Statusi == StatusDebt {
		s.Statusi = StatusCompleted
	}
}

func (s *SupplementaryOrder) ApplyPayment(amount decimal.Decimal) {
	s.Kaparja = s.Kaparja.Add(amount)
	if s.RemainingPayment().IsZero() {
		s.MarkPaid()
	}
}
