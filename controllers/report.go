// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const topSellerLimit = 5

// ReportController handles all reporting functions
type ReportController struct{}

// AnalyticsSummary represents the Analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue   decimal.Decimal          `json:"currentMonthRevenue"`
	MonthGrowth           float64                  `json:"monthGrowth"`
	CurrentQuarterRevenue decimal.Decimal          `json:"currentQuarterRevenue"`
	QuarterGrowth         float64                  `json:"quarterGrowth"`
	CurrentYearRevenue    decimal.Decimal          `json:"currentYearRevenue"`
	YearGrowth            float64                  `json:"yearGrowth"`
	TopSellers            []services.SellerSummary `json:"topSellers"`
	OrderTypes            []services.TypeSummary   `json:"orderTypes"`
	QuickStats            QuickStatistics          `json:"quickStats"`
}

type QuickStatistics struct {
	TotalOrders      int             `json:"totalOrders"`
	AvgOrderValue    decimal.Decimal `json:"avgOrderValue"`
	TotalCollected   decimal.Decimal `json:"totalCollected"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
}

// GetReportAnalytics returns revenue by period with growth against the previous
// period. Revenue is the sum of order totals by creation date.
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	now := time.Now()
	currentYear, currentMonth, _ := now.Date()
	loc := now.Location()

	var orders []models.Order
	if err := config.DB.Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, loc)
	lastOfMonth := utils.EndOfDay(firstOfMonth.AddDate(0, 1, -1))

	currentMonthRevenue := rc.getRevenue(orders, firstOfMonth, lastOfMonth)
	lastMonthRevenue := rc.getRevenue(orders,
		firstOfMonth.AddDate(0, -1, 0),
		firstOfMonth.Add(-time.Nanosecond))

	quarterStart := rc.getQuarterStart(now)
	currentQuarterRevenue := rc.getRevenue(orders, quarterStart, rc.getQuarterEnd(now))
	lastQuarterRevenue := rc.getRevenue(orders,
		quarterStart.AddDate(0, -3, 0),
		quarterStart.Add(-time.Nanosecond))

	yearStart := time.Date(currentYear, 1, 1, 0, 0, 0, 0, loc)
	currentYearRevenue := rc.getRevenue(orders, yearStart, yearStart.AddDate(1, 0, 0).Add(-time.Nanosecond))
	lastYearRevenue := rc.getRevenue(orders, yearStart.AddDate(-1, 0, 0), yearStart.Add(-time.Nanosecond))

	monthOrders := services.CreatedBetween(orders, firstOfMonth, lastOfMonth)

	summary := AnalyticsSummary{
		CurrentMonthRevenue:   currentMonthRevenue,
		MonthGrowth:           rc.calculateGrowthPercentage(currentMonthRevenue, lastMonthRevenue),
		CurrentQuarterRevenue: currentQuarterRevenue,
		QuarterGrowth:         rc.calculateGrowthPercentage(currentQuarterRevenue, lastQuarterRevenue),
		CurrentYearRevenue:    currentYearRevenue,
		YearGrowth:            rc.calculateGrowthPercentage(currentYearRevenue, lastYearRevenue),
		TopSellers:            services.TopSellers(monthOrders, topSellerLimit),
		OrderTypes:            services.TypeBreakdown(orders),
		QuickStats:            rc.getQuickStatistics(orders),
	}

	c.JSON(http.StatusOK, summary)
}

// Helper functions for reports

func (rc *ReportController) getRevenue(orders []models.Order, start, end time.Time) decimal.Decimal {
	return services.SumTotals(services.CreatedBetween(orders, start, end))
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) getQuarterEnd(date time.Time) time.Time {
	return rc.getQuarterStart(date).AddDate(0, 3, 0).Add(-time.Nanosecond)
}

func (rc *ReportController) calculateGrowthPercentage(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}
	growth, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return growth
}

func (rc *ReportController) getQuickStatistics(orders []models.Order) QuickStatistics {
	stats := QuickStatistics{
		TotalOrders:      len(orders),
		AvgOrderValue:    decimal.Zero,
		TotalCollected:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}
	for _, o := range orders {
		stats.TotalCollected = stats.TotalCollected.Add(o.Kaparja)
		stats.TotalOutstanding = stats.TotalOutstanding.Add(o.RemainingPayment())
	}
	if len(orders) > 0 {
		stats.AvgOrderValue = services.SumTotals(orders).Div(decimal.NewFromInt(int64(len(orders)))).Round(2)
	}
	return stats
}
