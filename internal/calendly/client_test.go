package calendly

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dashboard-backend/internal/scheduling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()

	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(map[string]any{
			"resource": map[string]any{"uri": srv.URL + "/users/U1", "name": "Front Desk", "email": "desk@example.com"},
		})
	})

	mux.HandleFunc("/scheduled_events", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, srv.URL+"/users/U1", q.Get("user"))

		if q.Get("page_token") == "" {
			assert.Equal(t, "active", q.Get("status"))
			assert.Equal(t, "2026-10-18T17:00:00Z", q.Get("min_start_time"))
			next := srv.URL + "/scheduled_events?page_token=p2&user=" + q.Get("user")
			json.NewEncoder(w).Encode(map[string]any{
				"collection": []map[string]any{{
					"uri":        srv.URL + "/scheduled_events/E1",
					"name":       "Consultation",
					"start_time": "2026-10-19T02:00:00Z",
					"location":   map[string]any{"type": "physical", "location": "Call 0912 345 678"},
				}},
				"pagination": map[string]any{"next_page": next},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"collection": []map[string]any{{
				"uri":        srv.URL + "/scheduled_events/E2",
				"name":       "Follow-up",
				"start_time": "2026-10-19T04:00:00Z",
				"location":   map[string]any{"type": "zoom"},
			}},
			"pagination": map[string]any{"next_page": nil},
		})
	})

	mux.HandleFunc("/scheduled_events/E1/invitees", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"collection": []map[string]any{
				{"name": "Nguyen Van A", "email": "a@example.com", "status": "active", "text_reminder_number": "+84 911 111 111"},
				{"name": "Tran B", "email": "b@example.com", "status": "active",
					"questions_and_answers": []map[string]any{{"question": "Phone number", "answer": " 0922 222 222 "}}},
				{"name": "Gone C", "email": "c@example.com", "status": "canceled"},
			},
			"pagination": map[string]any{"next_page": nil},
		})
	})

	mux.HandleFunc("/scheduled_events/E8/invitees", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html>maintenance</html>`))
	})

	mux.HandleFunc("/scheduled_events/E9/invitees", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"title":"Unauthenticated"}`))
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestListEvents_FollowsPagination(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())

	from := time.Date(2026, 10, 18, 17, 0, 0, 0, time.UTC)
	events, err := c.ListEvents(context.Background(), "tok-123", from, from.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, srv.URL+"/scheduled_events/E1", events[0].ID)
	assert.Equal(t, "Consultation", events[0].Title)
	assert.Equal(t, "Call 0912 345 678", events[0].Location)
	assert.Equal(t, "Follow-up", events[1].Title)
}

func TestListInvitees(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())

	invitees, err := c.ListInvitees(context.Background(), "tok-123",
		scheduling.Event{ID: srv.URL + "/scheduled_events/E1"})
	require.NoError(t, err)

	assert.Equal(t, []scheduling.Invitee{
		{Name: "Nguyen Van A", Email: "a@example.com", Phone: "+84 911 111 111"},
		{Name: "Tran B", Email: "b@example.com", Phone: "0922 222 222"},
	}, invitees)
}

func TestListInvitees_APIError(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())

	_, err := c.ListInvitees(context.Background(), "tok-123",
		scheduling.Event{ID: srv.URL + "/scheduled_events/E9"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestCurrentUser_JSONContentType(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())

	user, err := c.CurrentUser(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "desk@example.com", user.Email)
}

func TestListInvitees_NonJSONBody(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())

	invitees, err := c.ListInvitees(context.Background(), "tok-123",
		scheduling.Event{ID: srv.URL + "/scheduled_events/E8"})
	assert.Error(t, err)
	assert.Empty(t, invitees)
}
