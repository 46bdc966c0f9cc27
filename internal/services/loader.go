package services

import (
	"fmt"

	"github.com/diewo77/jewelry-billing/internal/db"
	"github.com/diewo77/jewelry-billing/internal/ingest"
	"github.com/diewo77/jewelry-billing/internal/logging"
	"github.com/diewo77/jewelry-billing/internal/models"
	"github.com/diewo77/jewelry-billing/internal/workbook"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// billNoLookupChunk bounds the IN list used to find already stored bills.
const billNoLookupChunk = 500

// A re-ingested bill only refreshes its date and customer; amounts stay as
// first stored.
var upsertOnBillNo = clause.OnConflict{
	Columns:   []clause.Column{{Name: "bill_no"}},
	DoUpdates: clause.AssignmentColumns([]string{"date", "customer_name"}),
}

type LoaderService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewLoaderService(db *gorm.DB, log *zap.SugaredLogger) *LoaderService {
	if log == nil {
		log = logging.Nop()
	}
	return &LoaderService{db: db, log: log}
}

// SkippedRow is a row left out of the batch and why.
type SkippedRow struct {
	File   string
	Line   int
	BillNo string
	Reason string
}

type LoadResult struct {
	Inserted    int
	Updated     int
	Skipped     int
	SkippedRows []SkippedRow
}

// Upserted is the number of rows written, new or refreshed.
func (r *LoadResult) Upserted() int { return r.Inserted + r.Updated }

func (r *LoadResult) skip(row workbook.Row, err error) {
	r.Skipped++
	r.SkippedRows = append(r.SkippedRows, SkippedRow{
		File:   row.File,
		Line:   row.Line,
		BillNo: row.BillNo(),
		Reason: err.Error(),
	})
}

// Load upserts rows into billing_records in a single transaction. Each row is
// written under its own savepoint; a row that fails conversion or the write is
// rolled back alone, counted as skipped, and the batch goes on. Only failures
// of the table setup or the transaction itself are returned.
func (s *LoaderService) Load(rows []workbook.Row) (*LoadResult, error) {
	if err := db.Migrate(s.db); err != nil {
		return nil, err
	}
	res := &LoadResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		known, err := storedBillNos(tx, rows)
		if err != nil {
			return err
		}
		for i, row := range rows {
			rec, err := ingest.ToRecord(row)
			if err != nil {
				s.log.Warnf("skip %s: %v", row.Where(), err)
				res.skip(row, err)
				continue
			}
			sp := fmt.Sprintf("billing_row_%d", i)
			if err := tx.SavePoint(sp).Error; err != nil {
				return fmt.Errorf("savepoint: %w", err)
			}
			if err := tx.Clauses(upsertOnBillNo).Create(rec).Error; err != nil {
				if rbErr := tx.RollbackTo(sp).Error; rbErr != nil {
					return fmt.Errorf("rollback to savepoint: %w", rbErr)
				}
				s.log.Warnf("skip %s bill %s: %v", row.Where(), rec.BillNo, err)
				res.skip(row, err)
				continue
			}
			if _, ok := known[rec.BillNo]; ok {
				res.Updated++
			} else {
				res.Inserted++
				known[rec.BillNo] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load billing records: %w", err)
	}
	s.log.Infof("loaded %d rows (%d new, %d updated, %d skipped)", res.Upserted(), res.Inserted, res.Updated, res.Skipped)
	return res, nil
}

// storedBillNos returns which bill numbers of rows already exist in the table.
func storedBillNos(tx *gorm.DB, rows []workbook.Row) (map[string]struct{}, error) {
	wanted := make([]string, 0, len(rows))
	dedup := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		b := r.BillNo()
		if _, ok := dedup[b]; ok || b == "" {
			continue
		}
		dedup[b] = struct{}{}
		wanted = append(wanted, b)
	}

	known := make(map[string]struct{})
	for start := 0; start < len(wanted); start += billNoLookupChunk {
		end := min(start+billNoLookupChunk, len(wanted))
		var found []string
		if err := tx.Model(&models.BillingRecord{}).
			Where("bill_no IN ?", wanted[start:end]).
			Pluck("bill_no", &found).Error; err != nil {
			return nil, fmt.Errorf("lookup stored bills: %w", err)
		}
		for _, b := range found {
			known[b] = struct{}{}
		}
	}
	return known, nil
}
