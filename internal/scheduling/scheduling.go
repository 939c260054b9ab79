// Package scheduling defines the contract shared by the appointment
// sources (Calendly, Google Calendar) that feed the daily import.
package scheduling

import (
	"context"
	"time"
)

// Event is one booked appointment slot.
type Event struct {
	ID       string
	Title    string
	Location string
	Start    time.Time
}

// Invitee is a person attached to an event.
type Invitee struct {
	Name  string
	Email string
	Phone string
}

// Source lists events and their invitees using a caller-supplied token.
// Implementations hold no credentials of their own.
type Source interface {
	Name() string
	ListEvents(ctx context.Context, token string, from, to time.Time) ([]Event, error)
	ListInvitees(ctx context.Context, token string, ev Event) ([]Invitee, error)
}
