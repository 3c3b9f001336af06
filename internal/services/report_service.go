package services

import (
	"database/sql"
	"fmt"
	"time"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

const reportDateLayout = "2006-01-02"

// ReportService defines read-only sales and inventory reporting.
type ReportService interface {
	SalesByPaymentMethod(params models.ReportRequestParams) ([]models.SalesByMethodRow, error)
	SalesSummary(params models.ReportRequestParams) (*models.SalesSummary, error)
	LowStockProducts() ([]models.LowStockRow, error)
}

type reportService struct {
	reportRepo repositories.ReportRepository
	db         *sql.DB
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo repositories.ReportRepository, db *sql.DB) ReportService {
	return &reportService{reportRepo: reportRepo, db: db}
}

// resolveRange validates the requested dates and fills in the default
// window: the last 30 days ending today.
func resolveRange(params models.ReportRequestParams) (string, string, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if params.StartDate != "" {
		parsed, err := time.Parse(reportDateLayout, params.StartDate)
		if err != nil {
			return "", "", fmt.Errorf("%w: start_date must be YYYY-MM-DD", ErrValidation)
		}
		start = parsed
	}
	if params.EndDate != "" {
		parsed, err := time.Parse(reportDateLayout, params.EndDate)
		if err != nil {
			return "", "", fmt.Errorf("%w: end_date must be YYYY-MM-DD", ErrValidation)
		}
		end = parsed
	}
	if end.Before(start) {
		return "", "", fmt.Errorf("%w: end_date is before start_date", ErrValidation)
	}
	return start.Format(reportDateLayout), end.Format(reportDateLayout), nil
}

func (s *reportService) SalesByPaymentMethod(params models.ReportRequestParams) ([]models.SalesByMethodRow, error) {
	start, end, err := resolveRange(params)
	if err != nil {
		return nil, err
	}
	report, err := s.reportRepo.SalesByPaymentMethod(s.db, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: building sales report: %v", ErrInternal, err)
	}
	return report, nil
}

func (s *reportService) SalesSummary(params models.ReportRequestParams) (*models.SalesSummary, error) {
	start, end, err := resolveRange(params)
	if err != nil {
		return nil, err
	}
	summary, err := s.reportRepo.SalesSummary(s.db, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: building sales summary: %v", ErrInternal, err)
	}
	return summary, nil
}

func (s *reportService) LowStockProducts() ([]models.LowStockRow, error) {
	report, err := s.reportRepo.LowStockProducts(s.db)
	if err != nil {
		return nil, fmt.Errorf("%w: building low stock report: %v", ErrInternal, err)
	}
	return report, nil
}
