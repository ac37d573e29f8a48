package controllers

import (
	"net/http"
	"strconv"
	"time"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const maxCapacityDays = 90

// GetCapacity reports booked deliveries per day against the daily capacity.
func (oc *OrderController) GetCapacity(c *gin.Context) {
	from := utils.BeginningOfDay(time.Now())
	if v := c.Query("from"); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		from = t
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "14"))
	if err != nil || days < 1 || days > maxCapacityDays {
		utils.RespondWithError(c, http.StatusBadRequest, "days must be between 1 and 90")
		return
	}

	var orders []models.Order
	if err := config.DB.Where("dita BETWEEN ? AND ?", from, utils.EndOfDay(from.AddDate(0, 0, days-1))).
		Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dailyCapacity": config.App.DailyCapacity,
		"days":          services.BuildCapacity(orders, from, days, config.App.DailyCapacity),
	})
}

// GetMeasurementOrders lists orders by measurement status, unmeasured first by default.
func (oc *OrderController) GetMeasurementOrders(c *gin.Context) {
	status := c.DefaultQuery("statusiMatjes", models.MeasurementPending)
	if !models.ValidMeasurementStatus(status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid measurement status")
		return
	}

	var orders []models.Order
	if err := config.DB.Where("statusi_matjes = ?", status).Order("created_at").Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	orders = services.FilterBySearch(orders, c.Query("search"))

	c.JSON(http.StatusOK, orders)
}

func (oc *OrderController) UpdateMeasurement(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		StatusiMatjes string  `json:"statusiMatjes" binding:"required"`
		Matesi        string  `json:"matesi"`
		DataMatjes    *string `json:"dataMatjes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !models.ValidMeasurementStatus(input.StatusiMatjes) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid measurement status")
		return
	}
	dataMatjes, err := parseOptionalDate(input.DataMatjes)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var order models.Order
	if err := config.DB.First(&order, "id = ?", id).Error; err != nil {
		respondError(c, err, "Order not found")
		return
	}

	order.StatusiMatjes = input.StatusiMatjes
	if input.Matesi != "" {
		order.Matesi = input.Matesi
	}
	if dataMatjes != nil {
		order.DataMatjes = dataMatjes
	} else if input.StatusiMatjes == models.MeasurementMeasured && order.DataMatjes == nil {
		now := time.Now()
		order.DataMatjes = &now
	}

	if err := config.DB.Model(&order).Select("statusi_matjes", "matesi", "data_matjes").Updates(&order).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update measurement")
		return
	}

	c.JSON(http.StatusOK, order)
}

type debtEntry struct {
	models.Order
	RemainingPayment decimal.Decimal `json:"remainingPayment"`
}

// GetDebtOrders lists orders that still owe money, optionally for one payment method.
func (oc *OrderController) GetDebtOrders(c *gin.Context) {
	method := c.Query("menyraPageses")
	if method != "" && !models.ValidPaymentMethod(method) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment method")
		return
	}

	query := config.DB.Where("(statusi = ? OR is_payment_done = ?)", models.StatusDebt, false)
	if method != "" {
		query = query.Where("menyra_pageses = ?", method)
	}

	var orders []models.Order
	if err := query.Order("created_at").Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	orders = services.FilterBySearch(orders, c.Query("search"))

	entries := make([]debtEntry, 0, len(orders))
	total := decimal.Zero
	byMethod := map[string]decimal.Decimal{
		models.PaymentCash: decimal.Zero,
		models.PaymentBank: decimal.Zero,
	}
	for _, o := range orders {
		remaining := o.RemainingPayment()
		if remaining.IsZero() {
			continue
		}
		entries = append(entries, debtEntry{Order: o, RemainingPayment: remaining})
		total = total.Add(remaining)
		byMethod[o.MenyraPageses] = byMethod[o.MenyraPageses].Add(remaining)
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":           entries,
		"count":            len(entries),
		"totalOutstanding": total,
		"byPaymentMethod":  byMethod,
	})
}
