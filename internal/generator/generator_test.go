package generator

import (
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/diewo77/jewelry-billing/internal/ingest"
	"github.com/diewo77/jewelry-billing/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var billNoPattern = regexp.MustCompile(`^JB\d{4}\d{2}\d{4}$`)

func newGen(t *testing.T, mutate func(*Options)) *Generator {
	t.Helper()
	opts := DefaultOptions()
	opts.Seed = 42
	if mutate != nil {
		mutate(&opts)
	}
	g, err := New(opts)
	require.NoError(t, err)
	return g
}

func TestMonthRows(t *testing.T) {
	g := newGen(t, func(o *Options) { o.MissingContactChance, o.DuplicateChance = 0, 0 })
	records := g.Month(time.March)

	require.GreaterOrEqual(t, len(records), 50)
	require.LessOrEqual(t, len(records), 80)
	seen := map[string]bool{}
	for i, r := range records {
		assert.Regexp(t, billNoPattern, r.BillNo)
		assert.False(t, seen[r.BillNo], "duplicate bill %s", r.BillNo)
		seen[r.BillNo] = true
		if i == 0 {
			assert.Equal(t, "JB2024030001", r.BillNo)
		}
		assert.Equal(t, time.March, r.Date.Month())
		assert.NotNil(t, r.ContactNumber)
		assert.Len(t, r.Contact(), len("+91 ")+10)
		assert.GreaterOrEqual(t, r.Quantity, 1)
		assert.LessOrEqual(t, r.Quantity, 3)
		assert.True(t, r.PaymentMode.Valid())
		assert.True(t, r.TotalAmount.Equal(r.ComputedTotal()))
		assert.True(t, r.WeightGrams.Equal(r.WeightGrams.Round(2)), "weight %s has more than 2 decimals", r.WeightGrams)
	}
}

func TestPricingRanges(t *testing.T) {
	g := newGen(t, nil)
	for m := time.January; m <= time.December; m++ {
		for _, r := range g.Month(m) {
			p := pricingFor(r.ItemName)
			w := r.WeightGrams.InexactFloat64()
			rate := r.RatePerGram.InexactFloat64()
			assert.True(t, w >= p.weightMin && w <= p.weightMax, "%s weight %v", r.ItemName, w)
			assert.True(t, rate >= p.rateMin && rate <= p.rateMax, "%s rate %v", r.ItemName, rate)
			making := r.MakingCharges.InexactFloat64()
			assert.True(t, making >= w*p.makingMin-0.01 && making <= w*p.makingMax+0.01, "%s making %v", r.ItemName, making)
		}
	}
}

func TestPricingFor(t *testing.T) {
	assert.Equal(t, goldPricing, pricingFor("Gold Bangle"))
	assert.Equal(t, silverPricing, pricingFor("Silver Anklet"))
	assert.Equal(t, diamondPricing, pricingFor("Diamond Pendant"))
	assert.Equal(t, otherPricing, pricingFor("Mangalsutra"))
}

func TestFebruaryDates(t *testing.T) {
	tests := []struct {
		year    int
		lastDay int
	}{
		{2024, 29},
		{2023, 28},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.lastDay, DaysIn(tt.year, time.February))
		g := newGen(t, func(o *Options) { o.Year = tt.year; o.MinRows, o.MaxRows = 400, 400 })
		maxDay := 0
		for _, r := range g.Month(time.February) {
			require.Equal(t, time.February, r.Date.Month(), "year %d", tt.year)
			require.Equal(t, tt.year, r.Date.Year())
			maxDay = max(maxDay, r.Date.Day())
		}
		// 400 draws over 28 or 29 days reach the last one
		assert.Equal(t, tt.lastDay, maxDay)
	}
}

func TestMissingContactsAndDuplicates(t *testing.T) {
	g := newGen(t, func(o *Options) { o.MissingContactChance, o.DuplicateChance = 1, 1 })
	records := g.Month(time.June)

	missing := 0
	for _, r := range records {
		if r.ContactNumber == nil {
			missing++
		}
	}
	assert.GreaterOrEqual(t, missing, 1)
	// copies of a cleared row are cleared too
	assert.LessOrEqual(t, missing, 5)

	counts := map[string]int{}
	for _, r := range records {
		counts[r.BillNo]++
	}
	dups := 0
	for _, c := range counts {
		if c > 1 {
			dups += c - 1
		}
	}
	assert.GreaterOrEqual(t, dups, 1)
	assert.LessOrEqual(t, dups, 2)
}

func TestSeedIsDeterministic(t *testing.T) {
	a := newGen(t, nil).Month(time.May)
	b := newGen(t, nil).Month(time.May)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].BillNo, b[i].BillNo)
		assert.True(t, a[i].TotalAmount.Equal(b[i].TotalAmount))
	}
}

func TestWriteYearThenIngest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "monthly_billing_data")
	g := newGen(t, func(o *Options) { o.MinRows, o.MaxRows = 5, 8 })

	written, err := g.WriteYear(dir)
	require.NoError(t, err)
	require.Len(t, written, 12)
	assert.Equal(t, filepath.Join(dir, "January_2024.xlsx"), written[0].Path)
	assert.Equal(t, filepath.Join(dir, "December_2024.xlsx"), written[11].Path)

	total := 0
	for _, w := range written {
		total += w.Records
	}
	res, err := ingest.Run(dir)
	require.NoError(t, err)
	assert.Equal(t, 12, res.FilesProcessed())
	assert.Equal(t, total, res.RowsRead)
	assert.Equal(t, 0, res.MissingBillNo)
	assert.Equal(t, res.RowsRead-res.Duplicates, len(res.Rows))
	for _, r := range res.Rows {
		_, err := ingest.ToRecord(r)
		require.NoError(t, err, r.Where())
	}
}

func TestInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.MinRows, opts.MaxRows = 10, 5
	_, err := New(opts)
	if !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions got %v", err)
	}

	opts = DefaultOptions()
	opts.MissingContactChance, opts.DuplicateChance = 1.5, -0.1
	_, err = New(opts)
	var v validation.Violations
	require.ErrorAs(t, err, &v)
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.Equal(t, "out_of_range", v["missing_contact_chance"])
	assert.Equal(t, "out_of_range", v["duplicate_chance"])

	g := newGen(t, nil)
	_, err = g.WriteMonth(t.TempDir(), 13)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}
