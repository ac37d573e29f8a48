package services

import (
	"errors"

	"doorpro-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidTotal          = errors.New("Çmimi total duhet të jetë më i madh se zero")
	ErrNegativeDeposit       = errors.New("Kaparja nuk mund të jetë negative")
	ErrDepositExceedsTotal   = errors.New("Kaparja nuk mund të jetë më e madhe se çmimi total!")
	ErrInvalidPaymentAmount  = errors.New("Shuma e pagesës duhet të jetë më e madhe se zero")
	ErrPaymentExceedsBalance = errors.New("Shuma e pagesës e kalon borxhin e mbetur")
	ErrAlreadyPaid           = errors.New("Porosia është paguar tashmë")
)

// ValidateAmounts checks the price/deposit pair of an order or supplementary order.
func ValidateAmounts(total, deposit decimal.Decimal) error {
	if !total.IsPositive() {
		return ErrInvalidTotal
	}
	if deposit.IsNegative() {
		return ErrNegativeDeposit
	}
	if deposit.GreaterThan(total) {
		return ErrDepositExceedsTotal
	}
	return nil
}

type payable interface {
	RemainingPayment() decimal.Decimal
	ApplyPayment(amount decimal.Decimal)
	MarkPaid()
}

// PaymentInput is one payment received against an order's balance.
type PaymentInput struct {
	Amount        decimal.Decimal
	MenyraPageses string
	Note          string
	ReceivedBy    uuid.UUID
}

func applyPayment(tx *gorm.DB, target payable, in PaymentInput, p *models.Payment) error {
	if !in.Amount.IsPositive() {
		return ErrInvalidPaymentAmount
	}
	remaining := target.RemainingPayment()
	if remaining.IsZero() {
		return ErrAlreadyPaid
	}
	if in.Amount.GreaterThan(remaining) {
		return ErrPaymentExceedsBalance
	}

	target.ApplyPayment(in.Amount)
	if err := tx.Save(target).Error; err != nil {
		return err
	}

	p.Amount = in.Amount
	p.MenyraPageses = in.MenyraPageses
	p.Note = in.Note
	p.ReceivedByUserID = in.ReceivedBy
	return tx.Create(p).Error
}

// RecordOrderPayment adds a payment to an order and updates its deposit in one transaction.
func RecordOrderPayment(db *gorm.DB, orderID uuid.UUID, in PaymentInput) (*models.Payment, *models.Order, error) {
	var order models.Order
	payment := &models.Payment{OrderID: &orderID}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}
		if in.MenyraPageses == "" {
			in.MenyraPageses = order.MenyraPageses
		}
		return applyPayment(tx, &order, in, payment)
	})
	if err != nil {
		return nil, nil, err
	}
	return payment, &order, nil
}

func RecordSupplementaryPayment(db *gorm.DB, id uuid.UUID, in PaymentInput) (*models.Payment, *models.SupplementaryOrder, error) {
	var so models.SupplementaryOrder
	payment := &models.Payment{SupplementaryOrderID: &id}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&so, "id = ?", id).Error; err != nil {
			return err
		}
		if in.MenyraPageses == "" {
			in.MenyraPageses = so.MenyraPageses
		}
		return applyPayment(tx, &so, in, payment)
	})
	if err != nil {
		return nil, nil, err
	}
	return payment, &so, nil
}

// settle records the outstanding balance as a payment, if any, and marks the record paid.
func settle(tx *gorm.DB, target payable, method string, actor uuid.UUID, p *models.Payment) error {
	if remaining := target.RemainingPayment(); remaining.IsPositive() {
		p.Amount = remaining
		p.MenyraPageses = method
		p.Note = "Pagesa përfundimtare"
		p.ReceivedByUserID = actor
		if err := tx.Create(p).Error; err != nil {
			return err
		}
	}
	target.MarkPaid()
	return tx.Save(target).Error
}

// SettleOrder marks the order as fully paid.
func SettleOrder(db *gorm.DB, orderID, actor uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}
		return settle(tx, &order, order.MenyraPageses, actor, &models.Payment{OrderID: &orderID})
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func SettleSupplementary(db *gorm.DB, id, actor uuid.UUID) (*models.SupplementaryOrder, error) {
	var so models.SupplementaryOrder
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&so, "id = ?", id).Error; err != nil {
			return err
		}
		return settle(tx, &so, so.MenyraPageses, actor, &models.Payment{SupplementaryOrderID: &id})
	})
	if err != nil {
		return nil, err
	}
	return &so, nil
}
