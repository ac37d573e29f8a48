package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"doorpro-backend/models"
	"doorpro-backend/utils"

	"github.com/shopspring/decimal"
)

type SellerSummary struct {
	Name    string          `json:"name"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type TypeSummary struct {
	Type    string          `json:"type"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type UpcomingDelivery struct {
	OrderID  string `json:"orderId"`
	Customer string `json:"customer"`
	Type     string `json:"type"`
	Vendi    string `json:"vendi"`
	Date     string `json:"date"`
	When     string `json:"when"` // "Today", "Tomorrow", "3 days"
}

// OrderSummary is the dashboard view over a set of orders.
type OrderSummary struct {
	Total              int                `json:"total"`
	ByStatus           map[string]int     `json:"byStatus"`
	OutstandingDebt    decimal.Decimal    `json:"outstandingDebt"`
	MonthRevenue       decimal.Decimal    `json:"monthRevenue"`
	PendingMeasurement int                `json:"pendingMeasurements"`
	UpcomingDeliveries []UpcomingDelivery `json:"upcomingDeliveries"`
}

// SumTotals adds up cmimiTotal.
func SumTotals(orders []models.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(o.CmimiTotal)
	}
	return sum
}

// CreatedBetween keeps orders created in [start, end].
func CreatedBetween(orders []models.Order, start, end time.Time) []models.Order {
	out := make([]models.Order, 0)
	for _, o := range orders {
		if !o.CreatedAt.Before(start) && !o.CreatedAt.After(end) {
			out = append(out, o)
		}
	}
	return out
}

// TopSellers ranks sellers by revenue. Orders without a seller are grouped as "N/A".
func TopSellers(orders []models.Order, limit int) []SellerSummary {
	index := map[string]int{}
	var out []SellerSummary
	for _, o := range orders {
		name := utils.OrDefault(strings.TrimSpace(o.Shitesi))
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, SellerSummary{Name: name, Revenue: decimal.Zero})
		}
		out[i].Orders++
		out[i].Revenue = out[i].Revenue.Add(o.CmimiTotal)
	}

	sort.SliceStable(out, func(a, b int) bool {
		if c := out[a].Revenue.Cmp(out[b].Revenue); c != 0 {
			return c > 0
		}
		return out[a].Name < out[b].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// TypeBreakdown counts orders and revenue per tipiPorosise, in a fixed order.
func TypeBreakdown(orders []models.Order) []TypeSummary {
	out := []TypeSummary{
		{Type: models.OrderTypeGarageDoor, Revenue: decimal.Zero},
		{Type: models.OrderTypeShutter, Revenue: decimal.Zero},
		{Type: models.OrderTypeInteriorDoor, Revenue: decimal.Zero},
	}
	for _, o := range orders {
		for i := range out {
			if out[i].Type == o.TipiPorosise {
				out[i].Count++
				out[i].Revenue = out[i].Revenue.Add(o.CmimiTotal)
				break
			}
		}
	}
	return out
}

// DayLabel renders a day offset the way the dashboard shows it.
func DayLabel(days int) string {
	switch days {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

// SummarizeOrders builds the dashboard numbers. Upcoming deliveries cover today and
// the following horizon-1 days and skip completed orders.
func SummarizeOrders(orders []models.Order, now time.Time, horizon int) OrderSummary {
	s := OrderSummary{
		Total: len(orders),
		ByStatus: map[string]int{
			models.StatusInProcess: 0,
			models.StatusCompleted: 0,
			models.StatusDebt:      0,
		},
		OutstandingDebt:    decimal.Zero,
		MonthRevenue:       decimal.Zero,
		UpcomingDeliveries: []UpcomingDelivery{},
	}

	today := utils.BeginningOfDay(now)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for _, o := range orders {
		s.ByStatus[o.Statusi]++
		if o.Statusi == models.StatusDebt || !o.IsPaymentDone {
			s.OutstandingDebt = s.OutstandingDebt.Add(o.RemainingPayment())
		}
		if !o.CreatedAt.Before(firstOfMonth) {
			s.MonthRevenue = s.MonthRevenue.Add(o.CmimiTotal)
		}
		if o.StatusiMatjes == models.MeasurementPending {
			s.PendingMeasurement++
		}

		if o.Dita == nil || o.Statusi == models.StatusCompleted {
			continue
		}
		days := utils.DaysBetween(today, utils.BeginningOfDay(*o.Dita))
		if days < 0 || days >= horizon {
			continue
		}
		s.UpcomingDeliveries = append(s.UpcomingDeliveries, UpcomingDelivery{
			OrderID:  o.ID.String(),
			Customer: strings.TrimSpace(o.EmriKlientit + " " + o.MbiemriKlientit),
			Type:     o.TipiPorosise,
			Vendi:    o.Vendi,
			Date:     o.Dita.Format(utils.DateLayout),
			When:     DayLabel(days),
		})
	}

	sort.SliceStable(s.UpcomingDeliveries, func(a, b int) bool {
		return s.UpcomingDeliveries[a].Date < s.UpcomingDeliveries[b].Date
	})
	return s
}
