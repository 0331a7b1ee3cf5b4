package pricing

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func TestEstimate_Components(t *testing.T) {
	form := capsule.FormData{
		DateOption: capsule.OpenInMonth,
		Personnel:  6,
		Storage:    4,
		Music:      true,
		Video:      true,
	}

	got := Estimate(form, DefaultTable(), now)

	assert.Equal(t, Breakdown{
		DatePrice:      5000,
		PersonnelPrice: 0,
		StoragePrice:   2000,
		OptionsPrice:   3000,
		TotalPrice:     10000,
	}, got)
}

func TestEstimate_PersonnelDoesNotAffectOptions(t *testing.T) {
	base := capsule.FormData{DateOption: capsule.OpenInWeek, Personnel: 1, Storage: 1, Music: true}
	many := base
	many.Personnel = 10

	assert.Equal(t, Estimate(base, DefaultTable(), now).OptionsPrice, Estimate(many, DefaultTable(), now).OptionsPrice)
}

func TestEstimate_CustomDateUsesBands(t *testing.T) {
	in5 := now.AddDate(0, 0, 5)
	in400 := now.AddDate(0, 0, 400)

	form := capsule.FormData{DateOption: capsule.OpenOnCustom, CustomDate: &in5, Personnel: 1, Storage: 1}
	assert.EqualValues(t, 1000, Estimate(form, DefaultTable(), now).DatePrice)

	form.CustomDate = &in400
	assert.EqualValues(t, 10000, Estimate(form, DefaultTable(), now).DatePrice)
}

func TestSummarize_TotalEqualsSumOfItems(t *testing.T) {
	table := DefaultTable()
	options := []capsule.DateOption{capsule.OpenInWeek, capsule.OpenInMonth, capsule.OpenInYear, capsule.OpenOnCustom}
	custom := now.AddDate(0, 2, 0)

	for _, opt := range options {
		for personnel := 1; personnel <= 10; personnel += 3 {
			for storage := 1; storage <= 10; storage += 2 {
				for _, music := range []bool{false, true} {
					for _, video := range []bool{false, true} {
						form := capsule.FormData{
							DateOption: opt, CustomDate: &custom,
							Personnel: personnel, Storage: storage, Music: music, Video: video,
						}
						s := Summarize(form, table, now)

						var sum int64
						for _, it := range s.Items {
							sum += it.Price
						}
						require.Equal(t, sum, s.Total)
						require.Equal(t, Estimate(form, table, now).TotalPrice, s.Total)
						require.Equal(t, personnel, s.Personnel)
					}
				}
			}
		}
	}
}

func TestSummarize_OptionalItems(t *testing.T) {
	form := capsule.FormData{DateOption: capsule.OpenInYear, Personnel: 2, Storage: 3}

	s := Summarize(form, DefaultTable(), now)
	require.Len(t, s.Items, 3)
	assert.Equal(t, "Open date", s.Items[0].Label)
	assert.Equal(t, "1 year", s.Items[0].Detail)
	assert.Equal(t, "3 photos x 500원", s.Items[2].Detail)

	form.Video = true
	s = Summarize(form, DefaultTable(), now)
	require.Len(t, s.Items, 4)
	assert.Equal(t, "Video", s.Items[3].Label)
}

func TestSummarize_CustomDateDetail(t *testing.T) {
	d := now.AddDate(0, 0, 10)
	s := Summarize(capsule.FormData{DateOption: capsule.OpenOnCustom, CustomDate: &d, Personnel: 1, Storage: 1}, DefaultTable(), now)
	assert.Equal(t, "2026-10-27 (10 days)", s.Items[0].Detail)
}

func TestFormatWon(t *testing.T) {
	assert.Equal(t, "0원", FormatWon(0))
	assert.Equal(t, "500원", FormatWon(500))
	assert.Equal(t, "12,500원", FormatWon(12500))
	assert.Equal(t, "1,000,000원", FormatWon(1000000))
	assert.Equal(t, "-3,000원", FormatWon(-3000))
}
