package workbook

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadFile returns the data rows of the first sheet in path. The first sheet
// row must hold every name in Columns, in any order; other columns are ignored.
// Fully blank rows are dropped.
func ReadFile(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, &FileError{Path: path, Err: ErrNoSheet}
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	index, err := headerIndex(header)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	name := filepath.Base(path)
	out := make([]Row, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		r := Row{File: name, Line: i + 1}
		for col, src := range index {
			if src < len(rows[i]) {
				r.Cells[col] = strings.TrimSpace(rows[i][src])
			}
		}
		if r.Blank() {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// headerIndex maps each schema column to its position in header.
func headerIndex(header []string) ([ColumnCount]int, error) {
	var index [ColumnCount]int
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}
	var missing []string
	for col, name := range Columns {
		i, ok := pos[strings.ToLower(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		index[col] = i
	}
	if len(missing) > 0 {
		return index, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return index, nil
}
