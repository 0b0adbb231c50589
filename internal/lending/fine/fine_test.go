package fine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var base = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestTimeRemaining(t *testing.T) {
	testCases := []struct {
		name    string
		due     time.Time
		days    int
		hours   int
		overdue bool
	}{
		{"thirty hours left carries a day", base.Add(30 * time.Hour), 1, 6, false},
		{"five days twenty hours left", base.Add(5*24*time.Hour + 20*time.Hour), 5, 20, false},
		{"under a day", base.Add(20 * time.Hour), 0, 20, false},
		{"under an hour", base.Add(30 * time.Minute), 0, 0, false},
		{"exactly due", base, 0, 0, false},
		{"thirty hours overdue", base.Add(-30 * time.Hour), 1, 6, true},
		{"one hour overdue", base.Add(-time.Hour), 0, 1, true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeRemaining(tt.due, base)
			assert.Equal(t, tt.days, got.Days)
			assert.Equal(t, tt.hours, got.Hours)
			assert.Equal(t, tt.overdue, got.Overdue)
		})
	}
}

func TestFormatRemainingPortuguese(t *testing.T) {
	loc, err := LocaleFor(language.BrazilianPortuguese)
	require.NoError(t, err)

	testCases := []struct {
		days     int
		hours    int
		expected string
	}{
		{5, 20, "5 dias e 20h"},
		{1, 6, "1 dia e 6h"},
		{0, 15, "15 horas"},
		{0, 1, "1 hora"},
		{0, 0, "Menos de 1 hora"},
	}

	for _, tt := range testCases {
		assert.Equal(t, tt.expected, loc.FormatRemaining(tt.days, tt.hours))
	}
}

func TestFormatRemainingEnglish(t *testing.T) {
	loc, err := LocaleFor(language.AmericanEnglish)
	require.NoError(t, err)

	testCases := []struct {
		days     int
		hours    int
		expected string
	}{
		{2, 3, "2 days and 3h"},
		{1, 6, "1 day and 6h"},
		{0, 2, "2 hours"},
		{0, 1, "1 hour"},
		{0, 0, "Less than 1 hour"},
	}

	for _, tt := range testCases {
		assert.Equal(t, tt.expected, loc.FormatRemaining(tt.days, tt.hours))
	}
}

func TestLocaleForUnsupported(t *testing.T) {
	_, err := LocaleFor(language.German)
	assert.Error(t, err)
}

func TestAmount(t *testing.T) {
	rate := decimal.RequireFromString("2.50")

	testCases := []struct {
		name     string
		now      time.Time
		expected string
	}{
		{"before due", base.Add(-time.Hour), "0"},
		{"exactly due", base, "0"},
		{"one minute late is a full day", base.Add(time.Minute), "2.50"},
		{"twenty-four hours late", base.Add(24 * time.Hour), "2.50"},
		{"thirty hours late rounds to two days", base.Add(30 * time.Hour), "5.00"},
		{"three full days late", base.Add(3 * 24 * time.Hour), "7.50"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := Amount(base, tt.now, rate)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, got)
		})
	}
}

func TestAmountMonotonic(t *testing.T) {
	rate := decimal.RequireFromString("1.75")

	prev := decimal.Zero
	for h := -12; h <= 96; h++ {
		now := base.Add(time.Duration(h) * time.Hour)
		got := Amount(base, now, rate)
		assert.True(t, got.GreaterThanOrEqual(prev), "fine decreased at %dh: %s -> %s", h, prev, got)
		if now.Before(base) || now.Equal(base) {
			assert.True(t, got.IsZero(), "fine must be zero at %dh", h)
		}
		prev = got
	}
}
