package controllers

import (
	"errors"
	"net/http"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type currentFinancials struct {
	TotalPrice       string `json:"totalPrice"`
	DownPayment      string `json:"downPayment"`
	RemainingPayment string `json:"remainingPayment"`
	IsPaymentDone    bool   `json:"isPaymentDone"`
	Statusi          string `json:"statusi"`
}

// VerifyInvoice decodes the data parameter printed into an invoice QR code and
// compares it with the record as it is now. It does not prove authenticity.
func VerifyInvoice(c *gin.Context) {
	payload, fallback, err := services.ParseVerifyData(c.Query("data"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid verification data")
		return
	}

	response := gin.H{
		"payload":  payload,
		"fallback": fallback,
		"exists":   false,
		"note":     services.VerificationNote,
	}

	id, err := uuid.Parse(payload.Order.ID)
	if err != nil {
		c.JSON(http.StatusOK, response)
		return
	}

	current, err := lookupFinancials(id, payload.Document.Type)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, response)
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	response["exists"] = true
	response["current"] = current
	response["financialsMatch"] = current.TotalPrice == payload.Financial.TotalPrice &&
		current.RemainingPayment == payload.Financial.RemainingPayment
	c.JSON(http.StatusOK, response)
}

func lookupFinancials(id uuid.UUID, docType string) (*currentFinancials, error) {
	if docType == services.DocumentSupplementaryInvoice {
		var so models.SupplementaryOrder
		if err := config.DB.First(&so, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &currentFinancials{
			TotalPrice:       so.CmimiTotal.StringFixed(2),
			DownPayment:      so.Kaparja.StringFixed(2),
			RemainingPayment: so.RemainingPayment().StringFixed(2),
			IsPaymentDone:    so.IsPaymentDone,
			Statusi:          so.Statusi,
		}, nil
	}

	var order models.Order
	if err := config.DB.First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &currentFinancials{
		TotalPrice:       order.CmimiTotal.StringFixed(2),
		DownPayment:      order.Kaparja.StringFixed(2),
		RemainingPayment: order.RemainingPayment().StringFixed(2),
		IsPaymentDone:    order.IsPaymentDone,
		Statusi:          order.Statusi,
	}, nil
}
