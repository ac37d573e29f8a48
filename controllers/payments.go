package controllers

import (
	"net/http"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreatePaymentInput struct {
	OrderID              *uuid.UUID      `json:"orderId"`
	SupplementaryOrderID *uuid.UUID      `json:"supplementaryOrderId"`
	Amount               decimal.Decimal `json:"amount"`
	MenyraPageses        string          `json:"menyraPageses"`
	Note                 string          `json:"note"`
}

// CreatePayment records a payment against exactly one order or supplementary order.
func (oc *OrderController) CreatePayment(c *gin.Context) {
	var input CreatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if (input.OrderID == nil) == (input.SupplementaryOrderID == nil) {
		utils.RespondWithError(c, http.StatusBadRequest, "Provide either orderId or supplementaryOrderId")
		return
	}
	if input.MenyraPageses != "" && !models.ValidPaymentMethod(input.MenyraPageses) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment method")
		return
	}

	in := services.PaymentInput{
		Amount:        input.Amount,
		MenyraPageses: input.MenyraPageses,
		Note:          input.Note,
		ReceivedBy:    utils.CurrentUserID(c),
	}

	if input.OrderID != nil {
		payment, order, err := services.RecordOrderPayment(config.DB, *input.OrderID, in)
		if err != nil {
			respondError(c, err, "Order not found")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"payment": payment, "order": order})
		return
	}

	payment, so, err := services.RecordSupplementaryPayment(config.DB, *input.SupplementaryOrderID, in)
	if err != nil {
		respondError(c, err, "Supplementary order not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment, "supplementaryOrder": so})
}

func (oc *OrderController) GetPayments(c *gin.Context) {
	query := config.DB.Order("paid_at DESC")
	for param, column := range map[string]string{
		"orderId":              "order_id",
		"supplementaryOrderId": "supplementary_order_id",
	} {
		v := c.Query(param)
		if v == "" {
			continue
		}
		id, err := uuid.Parse(v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+param+" format")
			return
		}
		query = query.Where(column+" = ?", id)
	}

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments, "total": total})
}
