package services

import (
	"errors"
	"testing"
	"time"
)

func TestQuoteKnownRates(t *testing.T) {
	cases := []struct {
		field    string
		category string
		days     int
		want     float64
	}{
		{"Rooms", "Medium", 2, 220},
		{"Rooms", "Large", 1, 130},
		{"Conference", "Medium", 3, 330},
		{"Venue", "Large", 1, 400},
		{"Venue", "Medium", 2, 600},
		{"Gazebo", "Medium", 1, 50},
		{"Gazebo", "Large", 4, 280},
	}

	for _, c := range cases {
		got, err := Quote(c.field, c.category, c.days)
		if err != nil {
			t.Fatalf("Quote(%s, %s, %d): unexpected error %v", c.field, c.category, c.days, err)
		}
		if got != c.want {
			t.Errorf("Quote(%s, %s, %d) = %v, want %v", c.field, c.category, c.days, got, c.want)
		}
	}
}

func TestQuoteEqualsDailyRateTimesDays(t *testing.T) {
	// For every combination in the table the total must be the hourly
	// equivalent of the 24-hour rate times 24 times the day count.
	fields := []string{"Rooms", "Conference", "Venue", "Gazebo"}
	categories := []string{"Medium", "Large"}
	for _, field := range fields {
		for _, category := range categories {
			rate, err := LookupRate(field, category)
			if err != nil {
				t.Fatalf("LookupRate(%s, %s): %v", field, category, err)
			}
			for days := 1; days <= 5; days++ {
				got, err := Quote(field, category, days)
				if err != nil {
					t.Fatalf("Quote(%s, %s, %d): %v", field, category, days, err)
				}
				want := rate.FullDay / 24 * 24 * float64(days)
				if got != want {
					t.Errorf("Quote(%s, %s, %d) = %v, want %v", field, category, days, got, want)
				}
			}
		}
	}
}

func TestQuoteCoercesZeroDays(t *testing.T) {
	got, err := Quote("Rooms", "Medium", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 110 {
		t.Errorf("zero-day stay should price as one day, got %v", got)
	}

	got, err = Quote("Rooms", "Medium", -3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 110 {
		t.Errorf("negative day count should price as one day, got %v", got)
	}
}

func TestQuoteUnknownCombination(t *testing.T) {
	if _, err := Quote("Penthouse", "Medium", 1); !errors.Is(err, ErrPricingUnavailable) {
		t.Errorf("unknown field should fail with ErrPricingUnavailable, got %v", err)
	}
	if _, err := Quote("Rooms", "Tiny", 1); !errors.Is(err, ErrPricingUnavailable) {
		t.Errorf("unknown category should fail with ErrPricingUnavailable, got %v", err)
	}
}

func TestStayDays(t *testing.T) {
	base := time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)

	if d := StayDays(base, base); d != 1 {
		t.Errorf("same-instant stay = %d days, want 1", d)
	}
	if d := StayDays(base, base.Add(48*time.Hour)); d != 2 {
		t.Errorf("48h stay = %d days, want 2", d)
	}
	if d := StayDays(base, base.Add(50*time.Hour)); d != 3 {
		t.Errorf("50h stay = %d days, want 3 (rounded up)", d)
	}
}
