package pricing

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
)

// Breakdown is the estimate split by component. TotalPrice is always the sum
// of the other four fields.
type Breakdown struct {
	DatePrice      int64 `json:"date_price"`
	PersonnelPrice int64 `json:"personnel_price"`
	StoragePrice   int64 `json:"storage_price"`
	OptionsPrice   int64 `json:"options_price"`
	TotalPrice     int64 `json:"total_price"`
}

// DatePrice prices the open-date selection. A custom date is priced by its
// distance from now in days; an unset custom date prices as 0 days.
func (t Table) DatePrice(opt capsule.DateOption, custom *time.Time, now time.Time) int64 {
	switch opt {
	case capsule.OpenInWeek:
		return t.Week
	case capsule.OpenInMonth:
		return t.Month
	case capsule.OpenInYear:
		return t.Year
	case capsule.OpenOnCustom:
		days := 0
		if custom != nil {
			days = capsule.DaysUntil(now, *custom)
		}
		return CalculateDatePrice(days, t.CustomBands)
	}
	return 0
}

// Estimate prices form. It holds no state; call it again whenever any
// input changes.
func Estimate(form capsule.FormData, t Table, now time.Time) Breakdown {
	b := Breakdown{
		DatePrice:      t.DatePrice(form.DateOption, form.CustomDate, now),
		PersonnelPrice: int64(form.Personnel) * t.PerPerson,
		StoragePrice:   int64(form.Storage) * t.PerPhoto,
	}
	if form.Music {
		b.OptionsPrice += t.Music
	}
	if form.Video {
		b.OptionsPrice += t.Video
	}
	b.TotalPrice = b.DatePrice + b.PersonnelPrice + b.StoragePrice + b.OptionsPrice
	return b
}

// LineItem is one row of an order summary.
type LineItem struct {
	Label  string `json:"label"`
	Detail string `json:"detail"`
	Price  int64  `json:"price"`
}

// Summary is the read-only order view shown on the payment step.
type Summary struct {
	Items     []LineItem `json:"items"`
	Total     int64      `json:"total"`
	Personnel int        `json:"personnel"`
}

// Summarize projects form into line items. Total equals the sum of the item
// prices by construction.
func Summarize(form capsule.FormData, t Table, now time.Time) Summary {
	items := []LineItem{
		{Label: "Open date", Detail: dateDetail(form, now), Price: t.DatePrice(form.DateOption, form.CustomDate, now)},
		{Label: "Personnel", Detail: fmt.Sprintf("%d people", form.Personnel), Price: int64(form.Personnel) * t.PerPerson},
		{Label: "Storage", Detail: fmt.Sprintf("%d photos x %s", form.Storage, FormatWon(t.PerPhoto)), Price: int64(form.Storage) * t.PerPhoto},
	}
	if form.Music {
		items = append(items, LineItem{Label: "Music", Detail: "1 file", Price: t.Music})
	}
	if form.Video {
		items = append(items, LineItem{Label: "Video", Detail: "1 file", Price: t.Video})
	}

	s := Summary{Items: items, Personnel: form.Personnel}
	for _, it := range items {
		s.Total += it.Price
	}
	return s
}

func dateDetail(form capsule.FormData, now time.Time) string {
	if form.DateOption != capsule.OpenOnCustom {
		return form.DateOption.Label()
	}
	if form.CustomDate == nil {
		return "date not set"
	}
	return fmt.Sprintf("%s (%d days)", form.CustomDate.Format(time.DateOnly), capsule.DaysUntil(now, *form.CustomDate))
}

// FormatWon renders an amount with thousands separators, e.g. "12,500원".
func FormatWon(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%d", amount)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out) + "원"
	}
	return string(out) + "원"
}
