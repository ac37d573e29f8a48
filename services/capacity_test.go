package services

import (
	"testing"
	"time"

	"doorpro-backend/models"
)

func TestBuildCapacity(t *testing.T) {
	from := time.Date(2024, 6, 10, 15, 0, 0, 0, time.Local)
	at := func(day, hour int) *time.Time {
		d := time.Date(2024, 6, day, hour, 0, 0, 0, time.Local)
		return &d
	}
	orders := []models.Order{
		{Dita: at(10, 8)}, {Dita: at(10, 17)}, {Dita: at(11, 9)},
		{Dita: at(12, 9)}, {Dita: at(12, 10)}, {Dita: at(12, 11)},
		{Dita: nil}, {Dita: at(20, 9)},
	}

	got := BuildCapacity(orders, from, 3, 2)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	want := []DayCapacity{
		{Date: "2024-06-10", Booked: 2, Capacity: 2, Available: 0, Full: true},
		{Date: "2024-06-11", Booked: 1, Capacity: 2, Available: 1, Full: false},
		{Date: "2024-06-12", Booked: 3, Capacity: 2, Available: 0, Full: true},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("day %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
