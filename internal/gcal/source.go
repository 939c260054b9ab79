// Package gcal reads appointments from a Google Calendar.
package gcal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dashboard-backend/internal/scheduling"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const SourceName = "google"

// Source lists events of one calendar with a caller-supplied OAuth access token.
type Source struct {
	calendarID string
	endpoint   string
	logger     *zap.Logger
}

var _ scheduling.Source = (*Source)(nil)

// NewSource builds a Source. endpoint overrides the API base URL and is
// empty in production.
func NewSource(calendarID, endpoint string, logger *zap.Logger) *Source {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Source{calendarID: calendarID, endpoint: endpoint, logger: logger}
}

func (s *Source) Name() string { return SourceName }

func (s *Source) service(ctx context.Context, token string) (*calendar.Service, error) {
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})),
	}
	if s.endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.endpoint))
	}
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google calendar client: %w", err)
	}
	return srv, nil
}

func (s *Source) ListEvents(ctx context.Context, token string, from, to time.Time) ([]scheduling.Event, error) {
	srv, err := s.service(ctx, token)
	if err != nil {
		return nil, err
	}

	var out []scheduling.Event
	pageToken := ""
	for {
		call := srv.Events.List(s.calendarID).
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list google calendar events: %w", err)
		}
		for _, ev := range events.Items {
			if ev.Status == "cancelled" {
				continue
			}
			out = append(out, scheduling.Event{
				ID:       ev.Id,
				Title:    ev.Summary,
				Location: ev.Location,
				Start:    eventStart(ev),
			})
		}
		if events.NextPageToken == "" {
			break
		}
		pageToken = events.NextPageToken
	}

	s.logger.Debug("google calendar events fetched", zap.Int("count", len(out)))
	return out, nil
}

// ListInvitees returns the guests of an event. Events without guests are
// treated as a single booking named by the event title.
func (s *Source) ListInvitees(ctx context.Context, token string, ev scheduling.Event) ([]scheduling.Invitee, error) {
	srv, err := s.service(ctx, token)
	if err != nil {
		return nil, err
	}

	full, err := srv.Events.Get(s.calendarID, ev.ID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get google calendar event %s: %w", ev.ID, err)
	}

	var out []scheduling.Invitee
	for _, a := range full.Attendees {
		if a.Self || a.Organizer || a.Resource || a.ResponseStatus == "declined" {
			continue
		}
		name := a.DisplayName
		if name == "" {
			name = strings.Split(a.Email, "@")[0]
		}
		out = append(out, scheduling.Invitee{Name: name, Email: a.Email})
	}
	if len(out) == 0 && full.Summary != "" {
		out = append(out, scheduling.Invitee{Name: full.Summary})
	}
	return out, nil
}

func eventStart(ev *calendar.Event) time.Time {
	if ev.Start == nil {
		return time.Time{}
	}
	if ev.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, ev.Start.DateTime); err == nil {
			return t
		}
	}
	if ev.Start.Date != "" {
		if t, err := time.Parse("2006-01-02", ev.Start.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
