package ingest

import (
	"github.com/diewo77/jewelry-billing/internal/workbook"
)

// Result is what one ingestion run read from the folder.
type Result struct {
	Files []string
	// Rows are the cleaned rows in file then sheet order.
	Rows          []workbook.Row
	RowsRead      int
	Duplicates    int
	MissingBillNo int
}

func (r *Result) FilesProcessed() int { return len(r.Files) }

// Run reads every workbook in dir and cleans the combined rows. A file that
// cannot be read aborts the whole run.
func Run(dir string) (*Result, error) {
	files, err := FindFiles(dir)
	if err != nil {
		return nil, err
	}
	var all []workbook.Row
	for _, path := range files {
		rows, err := workbook.ReadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	cleaned, stats := Clean(all)
	return &Result{
		Files:         files,
		Rows:          cleaned,
		RowsRead:      len(all),
		Duplicates:    stats.Duplicates,
		MissingBillNo: stats.MissingBillNo,
	}, nil
}

type CleanStats struct {
	Duplicates    int
	MissingBillNo int
}

// Clean drops exact duplicate rows, keeping the first occurrence, then drops
// rows without a bill number. Order is preserved.
func Clean(rows []workbook.Row) ([]workbook.Row, CleanStats) {
	var stats CleanStats
	seen := make(map[[workbook.ColumnCount]string]struct{}, len(rows))
	unique := make([]workbook.Row, 0, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.Cells]; dup {
			stats.Duplicates++
			continue
		}
		seen[r.Cells] = struct{}{}
		unique = append(unique, r)
	}

	out := unique[:0]
	for _, r := range unique {
		if r.BillNo() == "" {
			stats.MissingBillNo++
			continue
		}
		out = append(out, r)
	}
	return out, stats
}

// DefaultPreviewLimit is how many rows Preview shows when asked for none.
const DefaultPreviewLimit = 10

// PreviewResult is the head of the first workbook in a folder.
type PreviewResult struct {
	FileCount int
	File      string
	Header    []string
	Rows      []workbook.Row
}

// Preview reads the first workbook in dir and returns up to limit rows as they
// appear in the sheet, before cleaning.
func Preview(dir string, limit int) (*PreviewResult, error) {
	files, err := FindFiles(dir)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	rows, err := workbook.ReadFile(files[0])
	if err != nil {
		return nil, err
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return &PreviewResult{
		FileCount: len(files),
		File:      files[0],
		Header:    workbook.Columns[:],
		Rows:      rows,
	}, nil
}
