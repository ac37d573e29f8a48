package services

import (
	"time"

	"doorpro-backend/models"
	"doorpro-backend/utils"
)

// DayCapacity is how many deliveries are booked on one day.
type DayCapacity struct {
	Date      string `json:"date"`
	Booked    int    `json:"booked"`
	Capacity  int    `json:"capacity"`
	Available int    `json:"available"`
	Full      bool   `json:"full"`
}

// BuildCapacity counts deliveries (dita) per day for days days starting at from.
// Completed orders still occupy their day.
func BuildCapacity(orders []models.Order, from time.Time, days, capacity int) []DayCapacity {
	from = utils.BeginningOfDay(from)
	counts := make(map[string]int, days)
	for _, o := range orders {
		if o.Dita == nil {
			continue
		}
		counts[o.Dita.In(from.Location()).Format(utils.DateLayout)]++
	}

	out := make([]DayCapacity, 0, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i).Format(utils.DateLayout)
		booked := counts[day]
		available := capacity - booked
		if available < 0 {
			available = 0
		}
		out = append(out, DayCapacity{
			Date:      day,
			Booked:    booked,
			Capacity:  capacity,
			Available: available,
			Full:      booked >= capacity,
		})
	}
	return out
}
