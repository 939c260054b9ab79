package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"dashboard-backend/internal/bonus"
	"dashboard-backend/internal/models"
	"dashboard-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var ErrStorageDisabled = errors.New("report archive storage not configured")

// Archiver stores rendered reports. Satisfied by storage.Archiver.
type Archiver interface {
	Put(ctx context.Context, name string, body []byte, contentType string) (string, error)
}

// Period is an inclusive range of business days.
type Period struct {
	From time.Time
	To   time.Time
}

func (p Period) String() string {
	return timeutil.DateKey(p.From) + "_" + timeutil.DateKey(p.To)
}

// ParsePeriod reads from/to as YYYY-MM-DD. Missing from defaults to the
// first day of the current month, missing to defaults to today.
func ParsePeriod(from, to string) (Period, error) {
	today := timeutil.Today()
	p := Period{
		From: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()),
		To:   today,
	}
	var err error
	if from != "" {
		if p.From, err = timeutil.ParseDate(from); err != nil {
			return Period{}, fieldError("from", "datetime")
		}
	}
	if to != "" {
		if p.To, err = timeutil.ParseDate(to); err != nil {
			return Period{}, fieldError("to", "datetime")
		}
	}
	if p.To.Before(p.From) {
		return Period{}, fieldError("to", "gtefield=from")
	}
	p.From, p.To = timeutil.AsDate(p.From), timeutil.AsDate(p.To)
	return p, nil
}

// BonusReport is the bonus summary of a period.
type BonusReport struct {
	From string `json:"from"`
	To   string `json:"to"`
	bonus.Summary
}

type ReportService struct {
	Records  TrackingRecordStore
	Reports  CustomerReportStore
	archiver Archiver
	logger   *zap.Logger
}

// NewReportService builds the service. archiver may be nil when storage is
// not configured.
func NewReportService(records TrackingRecordStore, reports CustomerReportStore, archiver Archiver, logger *zap.Logger) *ReportService {
	return &ReportService{Records: records, Reports: reports, archiver: archiver, logger: logger}
}

func (s *ReportService) Bonus(ctx context.Context, p Period) (*BonusReport, error) {
	records, err := s.Records.ListRange(ctx, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("list tracking records: %w", err)
	}

	days := make([]bonus.Day, 0, len(records))
	for _, r := range records {
		days = append(days, bonus.Day{
			Date:      r.DateKey(),
			Scheduled: r.ScheduledCustomers,
			Reported:  r.ReportedCustomers,
		})
	}
	sum, err := bonus.Summarize(days)
	if err != nil {
		return nil, err
	}
	return &BonusReport{From: timeutil.DateKey(p.From), To: timeutil.DateKey(p.To), Summary: sum}, nil
}

// BonusPDF renders the bonus summary of a period.
func (s *ReportService) BonusPDF(ctx context.Context, p Period) ([]byte, error) {
	rep, err := s.Bonus(ctx, p)
	if err != nil {
		return nil, err
	}
	return renderBonusPDF(rep)
}

func renderBonusPDF(rep *BonusReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Report Completion Bonus", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Period: %s to %s", rep.From, rep.To), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(35, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Scheduled", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Reported", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Percent", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Tier", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Bonus", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, d := range rep.Days {
		pdf.CellFormat(35, 6, d.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", d.Scheduled), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", d.Reported), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.1f%%", d.Percentage), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, string(d.Tier), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, formatVND(d.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFillColor(200, 255, 200)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(63, 8, fmt.Sprintf("Scheduled: %d", rep.TotalScheduled), "1", 0, "C", true, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Reported: %d", rep.TotalReported), "1", 0, "C", true, 0, "")
	pdf.CellFormat(64, 8, "Total: "+formatVND(rep.TotalBonus), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatVND renders an amount with dot thousands separators.
func formatVND(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	neg := amount < 0
	if neg {
		s = s[1:]
	}
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out) + " VND"
	}
	return string(out) + " VND"
}

var customerSheetHeaders = []string{"Date", "Customer", "Email", "Phone", "Report Sent", "Report Received", "Source"}

// CustomersXLSX exports the customer roster of a period as a spreadsheet.
func (s *ReportService) CustomersXLSX(ctx context.Context, p Period) ([]byte, error) {
	reports, err := s.Reports.ListRange(ctx, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("list customer reports: %w", err)
	}
	return renderCustomersXLSX(reports)
}

func renderCustomersXLSX(reports []*models.CustomerReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Customers"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range customerSheetHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, c := range reports {
		received := ""
		if c.ReportReceivedDate != nil {
			received = timeutil.DateKey(*c.ReportReceivedDate)
		}
		row := []any{
			timeutil.DateKey(c.CustomerDate),
			c.CustomerName,
			deref(c.CustomerEmail),
			deref(c.CustomerPhone),
			c.ReportSent,
			received,
			string(c.Source),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ArchiveBonusPDF renders the period's bonus PDF and uploads it.
func (s *ReportService) ArchiveBonusPDF(ctx context.Context, p Period) (string, error) {
	if s.archiver == nil {
		return "", ErrStorageDisabled
	}
	body, err := s.BonusPDF(ctx, p)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("bonus_%s_%s.pdf", p, timeutil.Now().Format("20060102_150405"))
	key, err := s.archiver.Put(ctx, name, body, "application/pdf")
	if err != nil {
		return "", err
	}
	s.logger.Info("bonus report archived", zap.String("key", key), zap.Int("bytes", len(body)))
	return key, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
