package services

import (
	"errors"
	"fmt"

	"github.com/diewo77/jewelry-billing/internal/db"
	"github.com/diewo77/jewelry-billing/internal/models"
	"github.com/diewo77/jewelry-billing/internal/report"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoData means there is nothing stored to report on.
var ErrNoData = errors.New("no_data")

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Records returns the whole table ordered by date, then insertion.
func (s *ReportService) Records() ([]models.BillingRecord, error) {
	if !db.HasBillingTable(s.db) {
		return nil, ErrNoData
	}
	var records []models.BillingRecord
	err := s.db.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("fetch billing records: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}
	return records, nil
}

// Build assembles the yearly report views.
func (s *ReportService) Build() (*report.Report, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	return report.New(records), nil
}
