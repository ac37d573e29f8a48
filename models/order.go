package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order status (statusi).
const (
	StatusInProcess = "in process"
	StatusCompleted = "completed"
	StatusDebt      = "debt"
)

// Measurement status (statusiMatjes).
const (
	MeasurementPending  = "e pamatur"
	MeasurementMeasured = "e matur"
)

// Order type (tipiPorosise).
const (
	OrderTypeGarageDoor   = "derë garazhi"
	OrderTypeShutter      = "kapak"
	OrderTypeInteriorDoor = "derë e brendshme"
)

// Payment method (menyraPageses).
const (
	PaymentCash = "kesh"
	PaymentBank = "banke"
)

type Order struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	EmriKlientit    string `gorm:"not null" json:"emriKlientit"`
	MbiemriKlientit string `json:"mbiemriKlientit"`
	NumriTelefonit  string `gorm:"not null" json:"numriTelefonit"`
	Vendi           string `json:"vendi"`

	TipiPorosise string `gorm:"type:varchar(40);not null" json:"tipiPorosise"`
	Pershkrimi   string `gorm:"type:text" json:"pershkrimi"`

	CmimiTotal     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cmimiTotal"`
	Kaparja        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"kaparja"`
	KaparaReceiver string          `json:"kaparaReceiver"`
	MenyraPageses  string          `gorm:"type:varchar(20);default:'kesh'" json:"menyraPageses"`
	IsPaymentDone  bool            `gorm:"default:false" json:"isPaymentDone"`

	Statusi       string     `gorm:"type:varchar(20);index;not null" json:"statusi"`
	StatusiMatjes string     `gorm:"type:varchar(20);index" json:"statusiMatjes"`
	Matesi        string     `json:"matesi"`
	DataMatjes    *time.Time `json:"dataMatjes"`
	Dita          *time.Time `gorm:"index" json:"dita"`

	Shitesi   string `json:"shitesi"`
	Sender    string `json:"sender"`
	Installer string `json:"installer"`

	EshtePrintuar   bool      `gorm:"default:false" json:"eshtePrintuar"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index" json:"createdBy"`

	SupplementaryOrders []SupplementaryOrder `gorm:"foreignKey:ParentOrderID" json:"supplementaryOrders,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Statusi == "" {
		o.Statusi = StatusInProcess
	}
	if o.StatusiMatjes == "" {
		o.StatusiMatjes = MeasurementPending
	}
	if o.MenyraPageses == "" {
		o.MenyraPageses = PaymentCash
	}
	return
}

// RemainingPayment is the outstanding balance, never below zero.
func (o *Order) RemainingPayment() decimal.Decimal {
	return Remaining(o.CmimiTotal, o.Kaparja)
}

// MarkPaid settles the order locally: deposit equals total and a debt label is cleared.
func (o *Order) MarkPaid() {
	o.IsPaymentDone = true
	o.Kaparja = o.CmimiTotal
	if o.Statusi == StatusDebt {
		o.Statusi = StatusCompleted
	}
}

// ApplyPayment adds amount to the deposit and settles the order once nothing is owed.
func (o *Order) ApplyPayment(amount decimal.Decimal) {
	o.Kaparja = o.Kaparja.Add(amount)
	if o.RemainingPayment().IsZero() {
		o.MarkPaid()
	}
}

func Remaining(total, deposit decimal.Decimal) decimal.Decimal {
	r := total.Sub(deposit)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

func ValidStatus(s string) bool {
	switch s {
	case StatusInProcess, StatusCompleted, StatusDebt:
		return true
	}
	return false
}

func ValidMeasurementStatus(s string) bool {
	return s == MeasurementPending || s == MeasurementMeasured
}

func ValidOrderType(s string) bool {
	switch s {
	case OrderTypeGarageDoor, OrderTypeShutter, OrderTypeInteriorDoor:
		return true
	}
	return false
}

func ValidPaymentMethod(s string) bool {
	return s == PaymentCash || s == PaymentBank
}
