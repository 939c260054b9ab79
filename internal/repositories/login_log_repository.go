package repositories

import (
	"context"

	"dashboard-backend/internal/models"
)

type LoginLogRepository struct {
	DB DB
}

func NewLoginLogRepository(db DB) *LoginLogRepository {
	return &LoginLogRepository{DB: db}
}

// Create records a login attempt
func (r *LoginLogRepository) Create(ctx context.Context, email string, success bool, ipAddress, userAgent string) (int64, error) {
	query := `
		INSERT INTO login_logs (email, success, ip_address, user_agent, login_time)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NOW())
		RETURNING id
	`

	var logID int64
	err := r.DB.QueryRow(ctx, query, email, success, ipAddress, userAgent).Scan(&logID)
	if err != nil {
		return 0, err
	}

	return logID, nil
}

// ListRecent returns the newest login attempts first
func (r *LoginLogRepository) ListRecent(ctx context.Context, limit int) ([]*models.LoginLog, error) {
	query := `
		SELECT id, email, success, ip_address, user_agent, login_time
		FROM login_logs
		ORDER BY login_time DESC
		LIMIT $1
	`

	rows, err := r.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*models.LoginLog{}
	for rows.Next() {
		l := &models.LoginLog{}
		if err := rows.Scan(&l.ID, &l.Email, &l.Success, &l.IPAddress, &l.UserAgent, &l.LoginTime); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
