// Package calendly is a minimal client for the Calendly v2 REST API.
package calendly

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"dashboard-backend/internal/scheduling"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://api.calendly.com"

type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient builds a client. Requests are not retried: a failed call is
// reported once and the caller decides what to skip.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{http: rc, logger: logger}
}

type User struct {
	URI   string `json:"uri"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type pagination struct {
	NextPage *string `json:"next_page"`
}

type userResponse struct {
	Resource User `json:"resource"`
}

type eventLocation struct {
	Type     string `json:"type"`
	Location string `json:"location"`
	JoinURL  string `json:"join_url"`
}

type scheduledEvent struct {
	URI       string        `json:"uri"`
	Name      string        `json:"name"`
	Status    string        `json:"status"`
	StartTime time.Time     `json:"start_time"`
	Location  eventLocation `json:"location"`
}

type eventsResponse struct {
	Collection []scheduledEvent `json:"collection"`
	Pagination pagination       `json:"pagination"`
}

type questionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type invitee struct {
	Name                string           `json:"name"`
	Email               string           `json:"email"`
	Status              string           `json:"status"`
	TextReminderNumber  string           `json:"text_reminder_number"`
	QuestionsAndAnswers []questionAnswer `json:"questions_and_answers"`
}

type inviteesResponse struct {
	Collection []invitee  `json:"collection"`
	Pagination pagination `json:"pagination"`
}

// APIError is a non-2xx answer from Calendly.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendly API error: status %d: %s", e.Status, e.Body)
}

func (c *Client) get(ctx context.Context, token, path string, query url.Values, out any) error {
	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(out).
		ForceContentType("application/json")
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("calendly request %s: %w", path, err)
	}
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Body: truncate(resp.String(), 300)}
	}
	return nil
}

// CurrentUser returns the owner of the token.
func (c *Client) CurrentUser(ctx context.Context, token string) (*User, error) {
	var out userResponse
	if err := c.get(ctx, token, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.Resource, nil
}

// ListEvents returns active events of the token's user starting in [from, to).
func (c *Client) ListEvents(ctx context.Context, token string, from, to time.Time) ([]scheduling.Event, error) {
	user, err := c.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("user", user.URI)
	query.Set("min_start_time", from.UTC().Format(time.RFC3339))
	query.Set("max_start_time", to.UTC().Format(time.RFC3339))
	query.Set("status", "active")
	query.Set("count", "100")

	var events []scheduling.Event
	path := "/scheduled_events"
	for path != "" {
		var page eventsResponse
		if err := c.get(ctx, token, path, query, &page); err != nil {
			return nil, err
		}
		for _, ev := range page.Collection {
			events = append(events, scheduling.Event{
				ID:       ev.URI,
				Title:    ev.Name,
				Location: ev.Location.Location,
				Start:    ev.StartTime,
			})
		}
		path, query = nextPage(page.Pagination)
	}

	c.logger.Debug("calendly events fetched", zap.Int("count", len(events)))
	return events, nil
}

// ListInvitees returns the active invitees of an event. ev.ID is the
// event URI returned by ListEvents.
func (c *Client) ListInvitees(ctx context.Context, token string, ev scheduling.Event) ([]scheduling.Invitee, error) {
	var out []scheduling.Invitee
	path := strings.TrimSuffix(ev.ID, "/") + "/invitees"
	var query url.Values
	for path != "" {
		var page inviteesResponse
		if err := c.get(ctx, token, path, query, &page); err != nil {
			return nil, err
		}
		for _, inv := range page.Collection {
			if inv.Status == "canceled" {
				continue
			}
			out = append(out, scheduling.Invitee{
				Name:  inv.Name,
				Email: inv.Email,
				Phone: invitePhone(inv),
			})
		}
		path, query = nextPage(page.Pagination)
	}
	return out, nil
}

func invitePhone(inv invitee) string {
	if inv.TextReminderNumber != "" {
		return inv.TextReminderNumber
	}
	for _, qa := range inv.QuestionsAndAnswers {
		q := strings.ToLower(qa.Question)
		if strings.Contains(q, "phone") || strings.Contains(q, "số điện thoại") || strings.Contains(q, "sđt") {
			return strings.TrimSpace(qa.Answer)
		}
	}
	return ""
}

// nextPage turns an absolute next_page URL into a request path. The query
// is carried inside the URL, so no extra parameters are returned.
func nextPage(p pagination) (string, url.Values) {
	if p.NextPage == nil || *p.NextPage == "" {
		return "", nil
	}
	return *p.NextPage, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
