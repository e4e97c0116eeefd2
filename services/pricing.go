package services

import (
	"errors"
	"math"
	"time"
)

// ErrPricingUnavailable is returned when a (field, category) combination has
// no entry in the rate table. Unknown combinations are a hard failure, never
// a zero price.
var ErrPricingUnavailable = errors.New("no rate for this field and category")

// Rate holds the fixed 12-hour and 24-hour rental rates in USD.
type Rate struct {
	HalfDay float64
	FullDay float64
}

var rateTable = map[string]map[string]Rate{
	"Rooms":      {"Medium": {HalfDay: 60, FullDay: 110}, "Large": {HalfDay: 80, FullDay: 130}},
	"Conference": {"Medium": {HalfDay: 60, FullDay: 110}, "Large": {HalfDay: 80, FullDay: 130}},
	"Venue":      {"Medium": {HalfDay: 200, FullDay: 300}, "Large": {HalfDay: 300, FullDay: 400}},
	"Gazebo":     {"Medium": {HalfDay: 30, FullDay: 50}, "Large": {HalfDay: 50, FullDay: 70}},
}

// LookupRate returns the rate entry for a unit's field and size category.
func LookupRate(field, category string) (Rate, error) {
	categories, ok := rateTable[field]
	if !ok {
		return Rate{}, ErrPricingUnavailable
	}
	rate, ok := categories[category]
	if !ok {
		return Rate{}, ErrPricingUnavailable
	}
	return rate, nil
}

// Quote computes the total price for a stay of the given number of whole
// days. A zero or negative day count is coerced to a single day.
func Quote(field, category string, days int) (float64, error) {
	if days < 1 {
		days = 1
	}
	rate, err := LookupRate(field, category)
	if err != nil {
		return 0, err
	}
	hourlyRate := rate.FullDay / 24
	return hourlyRate * 24 * float64(days), nil
}

// StayDays returns the number of whole days between check-in and check-out,
// rounded up, with a same-day stay counting as one day.
func StayDays(checkIn, checkOut time.Time) int {
	days := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}
