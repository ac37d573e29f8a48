package services

import (
	"sort"
	"strings"

	"doorpro-backend/models"
)

// FilterByStatus keeps orders with the given statusi. An empty or "all" status keeps everything.
func FilterByStatus(orders []models.Order, status string) []models.Order {
	if status == "" || status == "all" {
		return orders
	}
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Statusi == status {
			out = append(out, o)
		}
	}
	return out
}

// FilterBySearch matches the term case-insensitively against the customer and order text fields.
func FilterBySearch(orders []models.Order, term string) []models.Order {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return orders
	}
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if matchesSearch(&o, term) {
			out = append(out, o)
		}
	}
	return out
}

func matchesSearch(o *models.Order, term string) bool {
	fields := []string{
		o.EmriKlientit,
		o.MbiemriKlientit,
		o.EmriKlientit + " " + o.MbiemriKlientit,
		o.NumriTelefonit,
		o.Vendi,
		o.Pershkrimi,
		o.TipiPorosise,
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// SortOrders sorts in place. key is dita, createdAt or cmimiTotal, prefixed with "-" for descending.
// Orders without a delivery date go last.
func SortOrders(orders []models.Order, key string) {
	desc := strings.HasPrefix(key, "-")
	key = strings.TrimPrefix(key, "-")

	var less func(a, b *models.Order) bool
	switch key {
	case "dita":
		less = func(a, b *models.Order) bool {
			switch {
			case a.Dita == nil:
				return false
			case b.Dita == nil:
				return true
			}
			if desc {
				return a.Dita.After(*b.Dita)
			}
			return a.Dita.Before(*b.Dita)
		}
	case "cmimiTotal":
		less = func(a, b *models.Order) bool {
			if desc {
				return a.CmimiTotal.GreaterThan(b.CmimiTotal)
			}
			return a.CmimiTotal.LessThan(b.CmimiTotal)
		}
	default:
		// newest first unless asked otherwise
		asc := key == "createdAt" && !desc
		less = func(a, b *models.Order) bool {
			if asc {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
	}

	sort.SliceStable(orders, func(i, j int) bool { return less(&orders[i], &orders[j]) })
}

// Paginate returns the requested page (1-based). A non-positive limit returns everything.
func Paginate(orders []models.Order, page, limit int) []models.Order {
	if limit <= 0 {
		return orders
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(orders) {
		return []models.Order{}
	}
	end := start + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[start:end]
}
