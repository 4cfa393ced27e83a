package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dialaride/reports-service/internal/config"
	"github.com/dialaride/reports-service/internal/model"
	"github.com/dialaride/reports-service/internal/report"
	"github.com/dialaride/reports-service/internal/repository"
)

type ExcelGenerator interface {
	Generate(result *report.Result) ([]byte, error)
}

type PDFGenerator interface {
	GenerateDailyLog(result *report.Result) ([]byte, error)
}

// ReportService validates report requests, runs the reconciliation engine
// and hands the result to the export generators.
type ReportService struct {
	repo   *repository.ReportRepository
	engine *report.Engine
	excel  ExcelGenerator
	pdf    PDFGenerator
	cfg    *config.Config
}

func NewReportService(
	repo *repository.ReportRepository,
	excel ExcelGenerator,
	pdf PDFGenerator,
	cfg *config.Config,
) *ReportService {
	return &ReportService{
		repo:   repo,
		engine: report.NewEngine(repo),
		excel:  excel,
		pdf:    pdf,
		cfg:    cfg,
	}
}

type ServiceReportInput struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	DriverID    *uuid.UUID
	ClientName  string
	MoneyOnly   bool
	Principal   model.Principal
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// ServiceReport produces the reconciled report for a date range. Drivers
// cannot pull fleet-wide reports; dispatch and admin staff can.
func (s *ReportService) ServiceReport(ctx context.Context, input ServiceReportInput) (*report.Result, error) {
	if input.Principal.IsDriver() {
		return nil, ErrPermissionDenied
	}
	if input.PeriodStart.IsZero() || input.PeriodEnd.IsZero() {
		return nil, fmt.Errorf("%w: period dates are required", ErrInvalidInput)
	}
	if input.PeriodStart.After(input.PeriodEnd) {
		return nil, fmt.Errorf("%w: period_start must be before or equal to period_end", ErrInvalidInput)
	}
	if days := int(input.PeriodEnd.Sub(input.PeriodStart).Hours()/24) + 1; days > s.cfg.Reports.MaxRangeDays {
		return nil, fmt.Errorf("%w: period exceeds %d days", ErrInvalidInput, s.cfg.Reports.MaxRangeDays)
	}

	if input.DriverID != nil {
		if _, err := s.repo.DriverByID(ctx, *input.DriverID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: driver", ErrNotFound)
			}
			return nil, err
		}
	}

	return s.engine.Run(ctx, report.Options{
		Start:      input.PeriodStart,
		End:        input.PeriodEnd,
		DriverID:   input.DriverID,
		ClientName: strings.TrimSpace(input.ClientName),
		MoneyOnly:  input.MoneyOnly,
	})
}

// ExportServiceReport returns the same report as an XLSX attachment.
func (s *ReportService) ExportServiceReport(ctx context.Context, input ServiceReportInput) (*ExportResult, error) {
	result, err := s.ServiceReport(ctx, input)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.Generate(result)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		FileName: s.buildFileName(result, "xlsx"),
		Content:  content,
	}, nil
}

type DailyLogInput struct {
	ShiftID   uuid.UUID
	Principal model.Principal
}

// DailyLogPDF renders the printable daily log sheet for one shift. Any
// authenticated caller may request any shift's sheet; shifts carry no link
// back to user accounts, so there is no ownership to enforce.
func (s *ReportService) DailyLogPDF(ctx context.Context, input DailyLogInput) (*ExportResult, error) {
	if input.ShiftID == uuid.Nil {
		return nil, fmt.Errorf("%w: shift_id is required", ErrInvalidInput)
	}

	shift, err := s.repo.ShiftByID(ctx, input.ShiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: shift", ErrNotFound)
		}
		return nil, err
	}

	shiftID := shift.ID
	result, err := s.engine.Run(ctx, report.Options{
		Start:   shift.Date,
		End:     shift.Date,
		ShiftID: &shiftID,
	})
	if err != nil {
		return nil, err
	}

	content, err := s.pdf.GenerateDailyLog(result)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		FileName: fmt.Sprintf("daily-log-%s.pdf", shift.Date.Format("20060102")),
		Content:  content,
	}, nil
}

func (s *ReportService) buildFileName(result *report.Result, ext string) string {
	period := fmt.Sprintf("%s-%s", result.Start.Format("20060102"), result.End.Format("20060102"))
	return fmt.Sprintf("service-report-%s.%s", period, ext)
}
