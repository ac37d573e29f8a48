package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SupplementaryOrderInput struct {
	ParentOrderID   uuid.UUID       `json:"parentOrderId"`
	EmriKlientit    string          `json:"emriKlientit"`
	MbiemriKlientit string          `json:"mbiemriKlientit"`
	NumriTelefonit  string          `json:"numriTelefonit"`
	Vendi           string          `json:"vendi"`
	Pershkrimi      string          `json:"pershkrimi"`
	CmimiTotal      decimal.Decimal `json:"cmimiTotal"`
	Kaparja         decimal.Decimal `json:"kaparja"`
	KaparaReceiver  string          `json:"kaparaReceiver"`
	MenyraPageses   string          `json:"menyraPageses"`
	Statusi         string          `json:"statusi"`
}

func (in *SupplementaryOrderInput) validate() error {
	if strings.TrimSpace(in.Pershkrimi) == "" {
		return fmt.Errorf("Përshkrimi është i detyrueshëm")
	}
	if in.MenyraPageses != "" && !models.ValidPaymentMethod(in.MenyraPageses) {
		return fmt.Errorf("Mënyra e pagesës nuk është valide: %s", in.MenyraPageses)
	}
	if in.Statusi != "" && !models.ValidStatus(in.Statusi) {
		return fmt.Errorf("Statusi nuk është valid: %s", in.Statusi)
	}
	if in.NumriTelefonit != "" && !utils.ValidatePhone(in.NumriTelefonit) {
		return fmt.Errorf("Numri i telefonit nuk është valid")
	}
	return services.ValidateAmounts(in.CmimiTotal, in.Kaparja)
}

func (in *SupplementaryOrderInput) apply(so *models.SupplementaryOrder, parent *models.Order) {
	so.EmriKlientit = strings.TrimSpace(in.EmriKlientit)
	so.MbiemriKlientit = strings.TrimSpace(in.MbiemriKlientit)
	so.NumriTelefonit = strings.TrimSpace(in.NumriTelefonit)
	so.Vendi = strings.TrimSpace(in.Vendi)
	so.InheritCustomer(parent)

	so.Pershkrimi = strings.TrimSpace(in.Pershkrimi)
	so.CmimiTotal = in.CmimiTotal
	so.Kaparja = in.Kaparja
	so.KaparaReceiver = in.KaparaReceiver
	if in.MenyraPageses != "" {
		so.MenyraPageses = in.MenyraPageses
	}
	if in.Statusi != "" {
		so.Statusi = in.Statusi
	}
	if so.RemainingPayment().IsZero() {
		so.MarkPaid()
	} else {
		so.IsPaymentDone = false
	}
}

func (oc *OrderController) GetSupplementaryOrders(c *gin.Context) {
	query := config.DB.Order("created_at DESC")
	if parent := c.Query("parentOrderId"); parent != "" {
		id, err := uuid.Parse(parent)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid parentOrderId format")
			return
		}
		query = query.Where("parent_order_id = ?", id)
	}
	if status := c.Query("statusi"); status != "" && status != "all" {
		query = query.Where("statusi = ?", status)
	}

	var list []models.SupplementaryOrder
	if err := query.Find(&list).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve supplementary orders")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetOrderSupplementaryOrders lists the supplementary orders of one parent order.
func (oc *OrderController) GetOrderSupplementaryOrders(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var parent models.Order
	if err := config.DB.First(&parent, "id = ?", id).Error; err != nil {
		respondError(c, err, "Order not found")
		return
	}

	var list []models.SupplementaryOrder
	if err := config.DB.Where("parent_order_id = ?", id).Order("created_at").Find(&list).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve supplementary orders")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (oc *OrderController) GetSupplementaryOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var so models.SupplementaryOrder
	if err := config.DB.First(&so, "id = ?", id).Error; err != nil {
		respondError(c, err, "Supplementary order not found")
		return
	}
	c.JSON(http.StatusOK, so)
}

func (oc *OrderController) CreateSupplementaryOrder(c *gin.Context) {
	var input SupplementaryOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.ParentOrderID == uuid.Nil {
		utils.RespondWithError(c, http.StatusBadRequest, "parentOrderId is required")
		return
	}
	if err := input.validate(); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var parent models.Order
	if err := config.DB.First(&parent, "id = ?", input.ParentOrderID).Error; err != nil {
		respondError(c, err, "Parent order not found")
		return
	}

	so := models.SupplementaryOrder{
		ParentOrderID:   parent.ID,
		CreatedByUserID: utils.CurrentUserID(c),
	}
	input.apply(&so, &parent)

	if err := config.DB.Create(&so).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create supplementary order")
		return
	}

	c.JSON(http.StatusCreated, so)
}

func (oc *OrderController) UpdateSupplementaryOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input SupplementaryOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if err := input.validate(); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var so models.SupplementaryOrder
	if err := config.DB.First(&so, "id = ?", id).Error; err != nil {
		respondError(c, err, "Supplementary order not found")
		return
	}
	var parent models.Order
	if err := config.DB.First(&parent, "id = ?", so.ParentOrderID).Error; err != nil {
		respondError(c, err, "Parent order not found")
		return
	}

	input.apply(&so, &parent)
	if err := config.DB.Save(&so).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update supplementary order")
		return
	}

	c.JSON(http.StatusOK, so)
}

func (oc *OrderController) DeleteSupplementaryOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result := config.DB.Delete(&models.SupplementaryOrder{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete supplementary order")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Supplementary order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplementary order deleted successfully"})
}

func (oc *OrderController) MarkSupplementaryPaymentDone(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	so, err := services.SettleSupplementary(config.DB, id, utils.CurrentUserID(c))
	if err != nil {
		respondError(c, err, "Supplementary order not found")
		return
	}
	c.JSON(http.StatusOK, so)
}

func (oc *OrderController) MarkSupplementaryPrinted(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result := config.DB.Model(&models.SupplementaryOrder{}).Where("id = ?", id).Update("eshte_printuar", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update supplementary order")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Supplementary order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplementary order marked as printed"})
}
