package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dashboard-backend/internal/models"
)

const customerReportColumns = `id, customer_name, customer_email, customer_phone, report_sent,
       report_received_date, customer_date, tracking_record_id, source, created_at`

type CustomerReportRepository struct {
	DB DB
}

func NewCustomerReportRepository(db DB) *CustomerReportRepository {
	return &CustomerReportRepository{DB: db}
}

func scanCustomerReport(row rowScanner) (*models.CustomerReport, error) {
	var c models.CustomerReport
	var source string
	err := row.Scan(
		&c.ID,
		&c.CustomerName,
		&c.CustomerEmail,
		&c.CustomerPhone,
		&c.ReportSent,
		&c.ReportReceivedDate,
		&c.CustomerDate,
		&c.TrackingRecordID,
		&source,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Source = models.ReportSource(source)
	return &c, nil
}

func (r *CustomerReportRepository) Create(ctx context.Context, c *models.CustomerReport) error {
	if c.Source == "" {
		c.Source = models.SourceManual
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO customer_reports (customer_name, customer_email, customer_phone, report_sent,
                                       report_received_date, customer_date, tracking_record_id, source)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id, created_at`,
		c.CustomerName, c.CustomerEmail, c.CustomerPhone, c.ReportSent,
		c.ReportReceivedDate, c.CustomerDate, c.TrackingRecordID, string(c.Source),
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create customer report: %w", err)
	}
	return nil
}

func (r *CustomerReportRepository) Get(ctx context.Context, id int64) (*models.CustomerReport, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+customerReportColumns+` FROM customer_reports WHERE id = $1`, id)
	c, err := scanCustomerReport(row)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return c, nil
}

func (r *CustomerReportRepository) List(ctx context.Context) ([]*models.CustomerReport, error) {
	return r.query(ctx,
		`SELECT `+customerReportColumns+` FROM customer_reports ORDER BY customer_date DESC, id`)
}

func (r *CustomerReportRepository) ListByDate(ctx context.Context, date time.Time) ([]*models.CustomerReport, error) {
	return r.query(ctx,
		`SELECT `+customerReportColumns+` FROM customer_reports WHERE customer_date = $1 ORDER BY id`, date)
}

// ListRange returns reports with from <= customer_date <= to.
func (r *CustomerReportRepository) ListRange(ctx context.Context, from, to time.Time) ([]*models.CustomerReport, error) {
	return r.query(ctx,
		`SELECT `+customerReportColumns+` FROM customer_reports
         WHERE customer_date BETWEEN $1 AND $2 ORDER BY customer_date, id`, from, to)
}

func (r *CustomerReportRepository) query(ctx context.Context, sql string, args ...any) ([]*models.CustomerReport, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []*models.CustomerReport{}
	for rows.Next() {
		c, err := scanCustomerReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, c)
	}
	return reports, rows.Err()
}

func (r *CustomerReportRepository) Update(ctx context.Context, id int64, patch models.CustomerReportPatch) (*models.CustomerReport, error) {
	if patch.IsEmpty() {
		return r.Get(ctx, id)
	}

	b := &setBuilder{}
	if patch.CustomerName != nil {
		b.add("customer_name", *patch.CustomerName)
	}
	if patch.CustomerEmail != nil {
		b.add("customer_email", *patch.CustomerEmail)
	}
	if patch.CustomerPhone != nil {
		b.add("customer_phone", *patch.CustomerPhone)
	}
	if patch.ReportSent != nil {
		b.add("report_sent", *patch.ReportSent)
	}
	if patch.ClearReportReceived {
		b.raw("report_received_date = NULL")
	} else if patch.ReportReceivedDate != nil {
		b.add("report_received_date", *patch.ReportReceivedDate)
	}
	b.args = append(b.args, id)

	sql := `UPDATE customer_reports SET ` + strings.Join(b.sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(b.args)) + ` RETURNING ` + customerReportColumns

	c, err := scanCustomerReport(r.DB.QueryRow(ctx, sql, b.args...))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return c, nil
}

func (r *CustomerReportRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM customer_reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
