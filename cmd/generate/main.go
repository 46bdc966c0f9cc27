// Command generate writes synthetic monthly billing workbooks.
//
//	generate [-out monthly_billing_data] [-year 2024] [-month 0] [-seed 0]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/diewo77/jewelry-billing/internal/generator"
	"github.com/diewo77/jewelry-billing/internal/logging"
)

func main() {
	defaults := generator.DefaultOptions()
	out := flag.String("out", "monthly_billing_data", "output folder")
	year := flag.Int("year", defaults.Year, "billing year")
	month := flag.Int("month", 0, "single month 1-12, 0 for the whole year")
	seed := flag.Int64("seed", 0, "random seed, 0 for a random one")
	minRows := flag.Int("min-rows", defaults.MinRows, "fewest rows per month")
	maxRows := flag.Int("max-rows", defaults.MaxRows, "most rows per month")
	flag.Parse()

	log, err := logging.New(false)
	if err != nil {
		log = logging.Nop()
	}
	defer log.Sync()

	opts := defaults
	opts.Year, opts.Seed = *year, *seed
	opts.MinRows, opts.MaxRows = *minRows, *maxRows
	g, err := generator.New(opts)
	if err != nil {
		log.Fatalf("generator: %v", err)
	}

	fmt.Printf("Generating monthly billing data for %d...\n", opts.Year)
	var written []generator.Written
	if *month == 0 {
		written, err = g.WriteYear(*out)
	} else {
		var w generator.Written
		w, err = g.WriteMonth(*out, time.Month(*month))
		written = append(written, w)
	}
	for _, w := range written {
		if w.Path != "" {
			fmt.Printf("Created %s with %d records\n", w.Path, w.Records)
		}
	}
	if err != nil {
		log.Errorf("generate: %v", err)
		os.Exit(1)
	}
	fmt.Printf("Files saved in: %s\n", *out)
}
