// Package generator writes synthetic monthly billing workbooks for demos and
// load testing. Rows are schema conformant but deliberately include missing
// contact numbers and duplicate lines so the cleaning step has work to do.
package generator

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/diewo77/jewelry-billing/internal/models"
	"github.com/diewo77/jewelry-billing/internal/workbook"
	"github.com/diewo77/jewelry-billing/validation"
	"github.com/shopspring/decimal"
)

var Customers = []string{
	"Rajesh Patel", "Priya Shah", "Amit Kumar", "Neha Desai", "Vikram Singh",
	"Anjali Mehta", "Karan Sharma", "Ritu Joshi", "Manish Gupta", "Pooja Trivedi",
	"Sanjay Rao", "Divya Nair", "Rahul Verma", "Sneha Iyer", "Arjun Reddy",
	"Kavita Bhatia", "Nikhil Agarwal", "Meera Kulkarni", "Rohan Kapoor", "Shruti Pandey",
}

var Items = []string{
	"Gold Necklace", "Gold Ring", "Gold Earrings", "Gold Bracelet", "Gold Chain",
	"Silver Necklace", "Silver Ring", "Silver Earrings", "Silver Anklet",
	"Diamond Ring", "Diamond Earrings", "Diamond Pendant", "Diamond Bracelet",
	"Gold Bangle", "Silver Bangle", "Nose Pin", "Mangalsutra", "Gold Pendant",
}

// pricing holds the uniform ranges used for one item category.
type pricing struct {
	weightMin, weightMax float64
	rateMin, rateMax     float64
	// making charges are weight × a factor drawn from this range
	makingMin, makingMax float64
}

var (
	goldPricing    = pricing{5, 50, 5500, 6000, 400, 600}
	silverPricing  = pricing{10, 100, 70, 85, 50, 100}
	diamondPricing = pricing{2, 20, 3000, 5000, 1000, 2000}
	otherPricing   = pricing{5, 30, 5000, 6000, 300, 500}
)

func pricingFor(item string) pricing {
	switch {
	case strings.Contains(item, "Gold"):
		return goldPricing
	case strings.Contains(item, "Silver"):
		return silverPricing
	case strings.Contains(item, "Diamond"):
		return diamondPricing
	default:
		return otherPricing
	}
}

type Options struct {
	Year                 int
	MinRows              int
	MaxRows              int
	MissingContactChance float64
	DuplicateChance      float64
	// Seed 0 picks a random seed.
	Seed int64
}

func DefaultOptions() Options {
	return Options{
		Year:                 2024,
		MinRows:              50,
		MaxRows:              80,
		MissingContactChance: 0.5,
		DuplicateChance:      0.3,
	}
}

var ErrInvalidOptions = errors.New("invalid_generator_options")

func (o Options) validate() error {
	v := validation.Violations{}
	if o.Year < 1 || o.Year > 9999 {
		v["year"] = "out_of_range"
	}
	validation.MinInt("min_rows", o.MinRows, 1, v)
	if o.MaxRows < o.MinRows {
		v["max_rows"] = "out_of_range"
	}
	validation.RangeFloat("missing_contact_chance", o.MissingContactChance, 0, 1, v)
	validation.RangeFloat("duplicate_chance", o.DuplicateChance, 0, 1, v)
	if v.Empty() {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidOptions, v)
}

type Generator struct {
	opts  Options
	faker *gofakeit.Faker
}

func New(opts Options) (*Generator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Generator{opts: opts, faker: gofakeit.New(opts.Seed)}, nil
}

// DaysIn returns the number of days of month m in year.
func DaysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FileName is the monthly workbook name, e.g. January_2024.xlsx.
func FileName(year int, m time.Month) string {
	return fmt.Sprintf("%s_%d.xlsx", m, year)
}

// Month generates the rows of one monthly workbook, data quality issues
// included.
func (g *Generator) Month(m time.Month) []models.BillingRecord {
	n := g.faker.Number(g.opts.MinRows, g.opts.MaxRows)
	records := make([]models.BillingRecord, 0, n+2)
	for i := 1; i <= n; i++ {
		records = append(records, g.record(m, i))
	}

	if g.faker.Rand.Float64() < g.opts.MissingContactChance {
		for _, idx := range g.pick(len(records), g.faker.Number(1, 3)) {
			records[idx].ContactNumber = nil
		}
	}
	if g.faker.Rand.Float64() < g.opts.DuplicateChance {
		for _, idx := range g.pick(len(records), g.faker.Number(1, 2)) {
			records = append(records, records[idx])
		}
	}
	return records
}

func (g *Generator) record(m time.Month, seq int) models.BillingRecord {
	year := g.opts.Year
	item := g.faker.RandomString(Items)
	p := pricingFor(item)

	weight := g.money(p.weightMin, p.weightMax)
	making := weight.Mul(decimal.NewFromFloat(g.faker.Float64Range(p.makingMin, p.makingMax))).Round(2)
	contact := "+91 " + g.faker.Numerify("##########")

	rec := models.BillingRecord{
		BillNo:        fmt.Sprintf("JB%d%02d%04d", year, int(m), seq),
		Date:          time.Date(year, m, g.faker.Number(1, DaysIn(year, m)), 0, 0, 0, 0, time.UTC),
		CustomerName:  g.faker.RandomString(Customers),
		ContactNumber: &contact,
		ItemName:      item,
		Quantity:      g.faker.Number(1, 3),
		WeightGrams:   weight,
		RatePerGram:   g.money(p.rateMin, p.rateMax),
		MakingCharges: making,
		PaymentMode:   models.PaymentModes[g.faker.Number(0, len(models.PaymentModes)-1)],
	}
	rec.TotalAmount = rec.ComputedTotal()
	return rec
}

func (g *Generator) money(lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(g.faker.Float64Range(lo, hi)).Round(2)
}

// pick returns k distinct indexes below n.
func (g *Generator) pick(n, k int) []int {
	k = min(k, n)
	return g.faker.Rand.Perm(n)[:k]
}

// Written describes one generated workbook.
type Written struct {
	Path    string
	Month   time.Month
	Records int
}

// WriteMonth generates month m and saves it under dir.
func (g *Generator) WriteMonth(dir string, m time.Month) (Written, error) {
	if m < time.January || m > time.December {
		return Written{}, fmt.Errorf("%w: month %d", ErrInvalidOptions, m)
	}
	records := g.Month(m)
	path := filepath.Join(dir, FileName(g.opts.Year, m))
	if err := workbook.WriteMonthly(path, records); err != nil {
		return Written{}, fmt.Errorf("write %s: %w", path, err)
	}
	return Written{Path: path, Month: m, Records: len(records)}, nil
}

// WriteYear writes all twelve monthly workbooks under dir, creating it if needed.
func (g *Generator) WriteYear(dir string) ([]Written, error) {
	out := make([]Written, 0, 12)
	for m := time.January; m <= time.December; m++ {
		w, err := g.WriteMonth(dir, m)
		if err != nil {
			return out, err
		}
		out = append(out, w)
	}
	return out, nil
}
