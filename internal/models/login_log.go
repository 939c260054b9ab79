package models

import "time"

// LoginLog is one admin login attempt.
type LoginLog struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Success   bool      `json:"success"`
	IPAddress *string   `json:"ip_address,omitempty"`
	UserAgent *string   `json:"user_agent,omitempty"`
	LoginTime time.Time `json:"login_time"`
}
