package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"dashboard-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockPool(t *testing.T) (pgxmock.PgxPoolIface, *TrackingRecordRepository) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewTrackingRecordRepository(mock)
}

var recordCols = []string{"id", "date", "scheduled_customers", "reported_customers",
	"closed_customers", "payment_status", "created_at", "updated_at"}

func TestTrackingRecordDelete_CascadesInTransaction(t *testing.T) {
	mock, repo := setupMockPool(t)
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT date FROM tracking_records WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"date"}).AddRow(date))
	mock.ExpectExec(`DELETE FROM customer_reports WHERE tracking_record_id = \$1 OR customer_date = \$2`).
		WithArgs(int64(5), date).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`DELETE FROM tracking_records WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	removed, err := repo.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackingRecordDelete_RollsBackOnReportFailure(t *testing.T) {
	mock, repo := setupMockPool(t)
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT date FROM tracking_records`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"date"}).AddRow(date))
	mock.ExpectExec(`DELETE FROM customer_reports`).
		WithArgs(int64(5), date).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackingRecordDelete_RollsBackOnRecordFailure(t *testing.T) {
	mock, repo := setupMockPool(t)
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT date FROM tracking_records`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"date"}).AddRow(date))
	mock.ExpectExec(`DELETE FROM customer_reports`).
		WithArgs(int64(5), date).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`DELETE FROM tracking_records`).
		WithArgs(int64(5)).
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), 5)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackingRecordDelete_NotFound(t *testing.T) {
	mock, repo := setupMockPool(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT date FROM tracking_records`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackingRecordGetByDate(t *testing.T) {
	mock, repo := setupMockPool(t)
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM tracking_records WHERE date = \$1 ORDER BY id LIMIT 1`).
		WithArgs(date).
		WillReturnRows(pgxmock.NewRows(recordCols).
			AddRow(int64(7), date, 3, 2, 0, "unpaid", now, now))

	rec, err := repo.GetByDate(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)
	assert.Equal(t, 3, rec.ScheduledCustomers)
	assert.Equal(t, 2, rec.ReportedCustomers)
	assert.Equal(t, models.PaymentUnpaid, rec.PaymentStatus)
	assert.Equal(t, "2026-10-19", rec.DateKey())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackingRecordGetByDate_NotFound(t *testing.T) {
	mock, repo := setupMockPool(t)
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM tracking_records WHERE date`).
		WithArgs(date).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByDate(context.Background(), date)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTrackingRecordUpdate_OnlyPatchedColumns(t *testing.T) {
	mock, repo := setupMockPool(t)
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	scheduled, reported := 3, 2

	mock.ExpectQuery(`UPDATE tracking_records SET scheduled_customers = \$1, reported_customers = \$2, updated_at = CURRENT_TIMESTAMP WHERE id = \$3 RETURNING`).
		WithArgs(3, 2, int64(7)).
		WillReturnRows(pgxmock.NewRows(recordCols).
			AddRow(int64(7), date, 3, 2, 0, "unpaid", now, now))

	rec, err := repo.Update(context.Background(), 7, models.TrackingRecordPatch{
		ScheduledCustomers: &scheduled,
		ReportedCustomers:  &reported,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, rec.ScheduledCustomers)
	assert.NoError(t, mock.ExpectationsWereMet())
}
