package utils

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	base := time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"same day", base.Add(2 * time.Hour), 0},
		{"next morning", time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC), 1},
		{"a week", base.AddDate(0, 0, 7), 7},
		{"past", base.AddDate(0, 0, -3), -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(base, tt.end); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEndOfDay(t *testing.T) {
	d := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	end := EndOfDay(d)
	if end.Day() != 1 || end.Hour() != 23 || end.Minute() != 59 {
		t.Errorf("EndOfDay() = %v", end)
	}
	if !end.Add(time.Nanosecond).Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("EndOfDay() + 1ns = %v, want next midnight", end.Add(time.Nanosecond))
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-12-24")
	if err != nil {
		t.Fatalf("ParseDate() error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.December || d.Day() != 24 {
		t.Errorf("ParseDate() = %v", d)
	}
	if _, err := ParseDate("24/12/2024"); err == nil {
		t.Error("ParseDate() accepted a non ISO date")
	}
}
