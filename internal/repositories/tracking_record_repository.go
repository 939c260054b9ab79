package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dashboard-backend/internal/models"
)

const trackingRecordColumns = `id, date, scheduled_customers, reported_customers, closed_customers, payment_status, created_at, updated_at`

type TrackingRecordRepository struct {
	DB DB
}

func NewTrackingRecordRepository(db DB) *TrackingRecordRepository {
	return &TrackingRecordRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrackingRecord(row rowScanner) (*models.TrackingRecord, error) {
	var rec models.TrackingRecord
	var status string
	err := row.Scan(
		&rec.ID,
		&rec.Date,
		&rec.ScheduledCustomers,
		&rec.ReportedCustomers,
		&rec.ClosedCustomers,
		&status,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.PaymentStatus = models.PaymentStatus(status)
	return &rec, nil
}

func (r *TrackingRecordRepository) Create(ctx context.Context, rec *models.TrackingRecord) error {
	if rec.PaymentStatus == "" {
		rec.PaymentStatus = models.PaymentUnpaid
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO tracking_records (date, scheduled_customers, reported_customers, closed_customers, payment_status)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		rec.Date, rec.ScheduledCustomers, rec.ReportedCustomers, rec.ClosedCustomers, string(rec.PaymentStatus),
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tracking record: %w", err)
	}
	return nil
}

func (r *TrackingRecordRepository) Get(ctx context.Context, id int64) (*models.TrackingRecord, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+trackingRecordColumns+` FROM tracking_records WHERE id = $1`, id)
	rec, err := scanTrackingRecord(row)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return rec, nil
}

// GetByDate returns the oldest record for a date. Dates are not unique in
// the schema, so the lowest id wins.
func (r *TrackingRecordRepository) GetByDate(ctx context.Context, date time.Time) (*models.TrackingRecord, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+trackingRecordColumns+` FROM tracking_records WHERE date = $1 ORDER BY id LIMIT 1`, date)
	rec, err := scanTrackingRecord(row)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return rec, nil
}

func (r *TrackingRecordRepository) List(ctx context.Context) ([]*models.TrackingRecord, error) {
	return r.query(ctx,
		`SELECT `+trackingRecordColumns+` FROM tracking_records ORDER BY date DESC, id DESC`)
}

// ListRange returns records with from <= date <= to, oldest first.
func (r *TrackingRecordRepository) ListRange(ctx context.Context, from, to time.Time) ([]*models.TrackingRecord, error) {
	return r.query(ctx,
		`SELECT `+trackingRecordColumns+` FROM tracking_records
         WHERE date BETWEEN $1 AND $2 ORDER BY date, id`, from, to)
}

func (r *TrackingRecordRepository) query(ctx context.Context, sql string, args ...any) ([]*models.TrackingRecord, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*models.TrackingRecord{}
	for rows.Next() {
		rec, err := scanTrackingRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Update applies the non-nil fields of patch and returns the stored row.
func (r *TrackingRecordRepository) Update(ctx context.Context, id int64, patch models.TrackingRecordPatch) (*models.TrackingRecord, error) {
	if patch.IsEmpty() {
		return r.Get(ctx, id)
	}

	b := &setBuilder{}
	if patch.Date != nil {
		b.add("date", *patch.Date)
	}
	if patch.ScheduledCustomers != nil {
		b.add("scheduled_customers", *patch.ScheduledCustomers)
	}
	if patch.ReportedCustomers != nil {
		b.add("reported_customers", *patch.ReportedCustomers)
	}
	if patch.ClosedCustomers != nil {
		b.add("closed_customers", *patch.ClosedCustomers)
	}
	if patch.PaymentStatus != nil {
		b.add("payment_status", string(*patch.PaymentStatus))
	}
	b.raw("updated_at = CURRENT_TIMESTAMP")
	b.args = append(b.args, id)

	sql := `UPDATE tracking_records SET ` + strings.Join(b.sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(b.args)) + ` RETURNING ` + trackingRecordColumns

	rec, err := scanTrackingRecord(r.DB.QueryRow(ctx, sql, b.args...))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return rec, nil
}

// Delete removes a record and every customer report that belongs to it,
// either by back-reference or by date, in a single transaction. It returns
// how many customer reports were removed.
func (r *TrackingRecordRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin delete tracking record: %w", err)
	}

	var date time.Time
	err = tx.QueryRow(ctx, `SELECT date FROM tracking_records WHERE id = $1 FOR UPDATE`, id).Scan(&date)
	if err != nil {
		_ = tx.Rollback(ctx)
		return 0, mapNotFound(err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM customer_reports WHERE tracking_record_id = $1 OR customer_date = $2`, id, date)
	if err != nil {
		_ = tx.Rollback(ctx)
		return 0, fmt.Errorf("delete customer reports of record %d: %w", id, err)
	}
	removed := tag.RowsAffected()

	if _, err := tx.Exec(ctx, `DELETE FROM tracking_records WHERE id = $1`, id); err != nil {
		_ = tx.Rollback(ctx)
		return 0, fmt.Errorf("delete tracking record %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit delete tracking record %d: %w", id, err)
	}
	return removed, nil
}
