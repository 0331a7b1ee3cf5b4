// Package pricing computes the display-only price estimate for a capsule
// form. The backend prices the order authoritatively; nothing here is used
// as the amount charged.
package pricing

import (
	"errors"
	"fmt"
	"slices"
)

// Band maps custom open dates up to MaxDays away onto Price.
type Band struct {
	MaxDays int   `json:"max_days"`
	Price   int64 `json:"price"`
}

// Table holds every constant the estimator uses. Prices are in KRW.
type Table struct {
	Week        int64  `json:"week"`
	Month       int64  `json:"month"`
	Year        int64  `json:"year"`
	CustomBands []Band `json:"custom_bands"`
	PerPerson   int64  `json:"per_person"`
	PerPhoto    int64  `json:"per_photo"`
	Music       int64  `json:"music"`
	Video       int64  `json:"video"`
}

func DefaultTable() Table {
	return Table{
		Week:  1000,
		Month: 5000,
		Year:  10000,
		CustomBands: []Band{
			{MaxDays: 7, Price: 1000},
			{MaxDays: 30, Price: 5000},
			{MaxDays: 365, Price: 10000},
		},
		PerPerson: 0,
		PerPhoto:  500,
		Music:     1000,
		Video:     2000,
	}
}

var ErrNoBands = errors.New("pricing table has no custom date bands")

// Validate checks that the custom bands give a positive, non-decreasing price
// curve once sorted by MaxDays.
func (t Table) Validate() error {
	if len(t.CustomBands) == 0 {
		return ErrNoBands
	}
	bands := sortedBands(t.CustomBands)
	for i, b := range bands {
		if b.Price <= 0 {
			return fmt.Errorf("band %d: price must be positive", b.MaxDays)
		}
		if i > 0 && b.Price < bands[i-1].Price {
			return fmt.Errorf("band %d: price %d is lower than the previous band", b.MaxDays, b.Price)
		}
		if i > 0 && b.MaxDays == bands[i-1].MaxDays {
			return fmt.Errorf("duplicate band for %d days", b.MaxDays)
		}
	}
	for name, v := range map[string]int64{
		"week": t.Week, "month": t.Month, "year": t.Year,
		"per_person": t.PerPerson, "per_photo": t.PerPhoto, "music": t.Music, "video": t.Video,
	} {
		if v < 0 {
			return fmt.Errorf("%s price must not be negative", name)
		}
	}
	return nil
}

func sortedBands(bands []Band) []Band {
	out := slices.Clone(bands)
	slices.SortStableFunc(out, func(a, b Band) int { return a.MaxDays - b.MaxDays })
	return out
}

// CalculateDatePrice returns the price of the first band (by ascending
// MaxDays) that covers days. Past the last band it saturates at the last
// band's price. With no bands it returns 0.
func CalculateDatePrice(days int, bands []Band) int64 {
	if len(bands) == 0 {
		return 0
	}
	sorted := sortedBands(bands)
	for _, b := range sorted {
		if days <= b.MaxDays {
			return b.Price
		}
	}
	return sorted[len(sorted)-1].Price
}
