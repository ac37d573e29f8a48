package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderInput is the editable part of an order. PUT replaces all of it; the last write wins.
type OrderInput struct {
	EmriKlientit    string          `json:"emriKlientit"`
	MbiemriKlientit string          `json:"mbiemriKlientit"`
	NumriTelefonit  string          `json:"numriTelefonit"`
	Vendi           string          `json:"vendi"`
	TipiPorosise    string          `json:"tipiPorosise"`
	Pershkrimi      string          `json:"pershkrimi"`
	CmimiTotal      decimal.Decimal `json:"cmimiTotal"`
	Kaparja         decimal.Decimal `json:"kaparja"`
	KaparaReceiver  string          `json:"kaparaReceiver"`
	MenyraPageses   string          `json:"menyraPageses"`
	Statusi         string          `json:"statusi"`
	StatusiMatjes   string          `json:"statusiMatjes"`
	Matesi          string          `json:"matesi"`
	DataMatjes      *string         `json:"dataMatjes"`
	Dita            *string         `json:"dita"`
	Shitesi         string          `json:"shitesi"`
	Sender          string          `json:"sender"`
	Installer       string          `json:"installer"`
}

// validate normalises the input and returns the first problem found.
func (in *OrderInput) validate() error {
	in.EmriKlientit = strings.TrimSpace(in.EmriKlientit)
	in.MbiemriKlientit = strings.TrimSpace(in.MbiemriKlientit)
	in.NumriTelefonit = strings.TrimSpace(in.NumriTelefonit)

	if in.EmriKlientit == "" {
		return fmt.Errorf("Emri i klientit është i detyrueshëm")
	}
	if in.NumriTelefonit == "" {
		return fmt.Errorf("Numri i telefonit është i detyrueshëm")
	}
	if !utils.ValidatePhone(in.NumriTelefonit) {
		return fmt.Errorf("Numri i telefonit nuk është valid")
	}
	if in.TipiPorosise == "" {
		in.TipiPorosise = models.OrderTypeGarageDoor
	}
	if !models.ValidOrderType(in.TipiPorosise) {
		return fmt.Errorf("Tipi i porosisë nuk është valid: %s", in.TipiPorosise)
	}
	if in.MenyraPageses != "" && !models.ValidPaymentMethod(in.MenyraPageses) {
		return fmt.Errorf("Mënyra e pagesës nuk është valide: %s", in.MenyraPageses)
	}
	if in.Statusi != "" && !models.ValidStatus(in.Statusi) {
		return fmt.Errorf("Statusi nuk është valid: %s", in.Statusi)
	}
	if in.StatusiMatjes != "" && !models.ValidMeasurementStatus(in.StatusiMatjes) {
		return fmt.Errorf("Statusi i matjes nuk është valid: %s", in.StatusiMatjes)
	}
	return services.ValidateAmounts(in.CmimiTotal, in.Kaparja)
}

func (in *OrderInput) apply(o *models.Order) error {
	dataMatjes, err := parseOptionalDate(in.DataMatjes)
	if err != nil {
		return err
	}
	dita, err := parseOptionalDate(in.Dita)
	if err != nil {
		return err
	}

	o.EmriKlientit = in.EmriKlientit
	o.MbiemriKlientit = in.MbiemriKlientit
	o.NumriTelefonit = in.NumriTelefonit
	o.Vendi = strings.TrimSpace(in.Vendi)
	o.TipiPorosise = in.TipiPorosise
	o.Pershkrimi = in.Pershkrimi
	o.CmimiTotal = in.CmimiTotal
	o.Kaparja = in.Kaparja
	o.KaparaReceiver = in.KaparaReceiver
	o.Matesi = in.Matesi
	o.DataMatjes = dataMatjes
	o.Dita = dita
	o.Shitesi = in.Shitesi
	o.Sender = in.Sender
	o.Installer = in.Installer
	if in.MenyraPageses != "" {
		o.MenyraPageses = in.MenyraPageses
	}
	if in.Statusi != "" {
		o.Statusi = in.Statusi
	}
	if in.StatusiMatjes != "" {
		o.StatusiMatjes = in.StatusiMatjes
	}
	if o.RemainingPayment().IsZero() {
		o.MarkPaid()
	} else {
		o.IsPaymentDone = false
	}
	return nil
}

type OrderController struct {
	Notifier *services.NotificationService
	Invoices *services.InvoiceService
}

func NewOrderController(notifier *services.NotificationService, invoices *services.InvoiceService) *OrderController {
	return &OrderController{Notifier: notifier, Invoices: invoices}
}

// GetOrders filters by status and search text, sorts and pages the result.
func (oc *OrderController) GetOrders(c *gin.Context) {
	var orders []models.Order
	if err := config.DB.Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	orders = services.FilterByStatus(orders, c.Query("statusi"))
	orders = services.FilterBySearch(orders, c.Query("search"))
	services.SortOrders(orders, c.Query("sort"))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	c.JSON(http.StatusOK, gin.H{
		"orders": services.Paginate(orders, page, limit),
		"total":  len(orders),
		"page":   page,
		"limit":  limit,
	})
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var order models.Order
	if err := config.DB.Preload("SupplementaryOrders", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at")
	}).First(&order, "id = ?", id).Error; err != nil {
		respondError(c, err, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":            order,
		"remainingPayment": order.RemainingPayment(),
	})
}

func (oc *OrderController) CreateOrder(c *gin.Context) {
	var input OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if err := input.validate(); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	order := models.Order{CreatedByUserID: utils.CurrentUserID(c)}
	if err := input.apply(&order); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := config.DB.Create(&order).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	oc.Notifier.NotifyAdmins("Porosi e re",
		fmt.Sprintf("%s %s - %s (%s €)", order.EmriKlientit, order.MbiemriKlientit, order.TipiPorosise, order.CmimiTotal.StringFixed(2)),
		"/orders/"+order.ID.String())

	c.JSON(http.StatusCreated, order)
}

func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if err := input.validate(); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var order models.Order
	if err := config.DB.First(&order, "id = ?", id).Error; err != nil {
		respondError(c, err, "Order not found")
		return
	}
	if err := input.apply(&order); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := config.DB.Save(&order).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order")
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteOrder soft-deletes the order together with its supplementary orders.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var deleted int64
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return tx.Where("parent_order_id = ?", id).Delete(&models.SupplementaryOrder{}).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete order")
		return
	}
	if deleted == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Statusi string `json:"statusi" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !models.ValidStatus(input.Statusi) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
		return
	}

	var order models.Order
	if err := config.DB.First(&order, "id = ?", id).Error; err != nil {
		respondError(c, err, "Order not found")
		return
	}
	order.Statusi = input.Statusi
	if err := config.DB.Model(&order).Update("statusi", input.Statusi).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update status")
		return
	}

	c.JSON(http.StatusOK, order)
}

// MarkPaymentDone records the outstanding balance and marks the order paid.
func (oc *OrderController) MarkPaymentDone(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := services.SettleOrder(config.DB, id, utils.CurrentUserID(c))
	if err != nil {
		respondError(c, err, "Order not found")
		return
	}
	c.JSON(http.StatusOK, order)
}

// MarkPrinted is independent of document generation; the client calls it after printing.
func (oc *OrderController) MarkPrinted(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result := config.DB.Model(&models.Order{}).Where("id = ?", id).Update("eshte_printuar", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order marked as printed"})
}
