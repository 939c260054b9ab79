package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"dashboard-backend/internal/models"
	"dashboard-backend/internal/payments"
	"dashboard-backend/internal/repositories"
	"dashboard-backend/internal/scheduling"
	"dashboard-backend/internal/timeutil"

	"github.com/stretchr/testify/mock"
)

type memReports struct {
	mu      sync.Mutex
	nextID  int64
	items   map[int64]*models.CustomerReport
	failOn  string
	created int
}

func newMemReports() *memReports {
	return &memReports{items: map[int64]*models.CustomerReport{}}
}

func (m *memReports) add(name string, date time.Time, received bool) *models.CustomerReport {
	c := &models.CustomerReport{CustomerName: name, CustomerDate: timeutil.AsDate(date), Source: models.SourceManual}
	if received {
		d := timeutil.AsDate(date)
		c.ReportReceivedDate = &d
	}
	_ = m.Create(context.Background(), c)
	m.created--
	return c
}

func (m *memReports) Create(_ context.Context, c *models.CustomerReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != "" && strings.EqualFold(c.CustomerName, m.failOn) {
		return errFake
	}
	m.nextID++
	c.ID = m.nextID
	if c.Source == "" {
		c.Source = models.SourceManual
	}
	cp := *c
	m.items[c.ID] = &cp
	m.created++
	return nil
}

func (m *memReports) Get(_ context.Context, id int64) (*models.CustomerReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memReports) sorted(keep func(*models.CustomerReport) bool) []*models.CustomerReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.CustomerReport{}
	for _, c := range m.items {
		if keep(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memReports) List(context.Context) ([]*models.CustomerReport, error) {
	return m.sorted(func(*models.CustomerReport) bool { return true }), nil
}

func (m *memReports) ListByDate(_ context.Context, date time.Time) ([]*models.CustomerReport, error) {
	return m.sorted(func(c *models.CustomerReport) bool { return timeutil.SameDay(c.CustomerDate, date) }), nil
}

func (m *memReports) ListRange(_ context.Context, from, to time.Time) ([]*models.CustomerReport, error) {
	return m.sorted(func(c *models.CustomerReport) bool {
		return !c.CustomerDate.Before(from) && !c.CustomerDate.After(to)
	}), nil
}

func (m *memReports) Update(_ context.Context, id int64, p models.CustomerReportPatch) (*models.CustomerReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if p.CustomerName != nil {
		c.CustomerName = *p.CustomerName
	}
	if p.CustomerEmail != nil {
		c.CustomerEmail = p.CustomerEmail
	}
	if p.CustomerPhone != nil {
		c.CustomerPhone = p.CustomerPhone
	}
	if p.ReportSent != nil {
		c.ReportSent = *p.ReportSent
	}
	if p.ReportReceivedDate != nil {
		c.ReportReceivedDate = p.ReportReceivedDate
	}
	if p.ClearReportReceived {
		c.ReportReceivedDate = nil
	}
	cp := *c
	return &cp, nil
}

func (m *memReports) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memRecords struct {
	mu      sync.Mutex
	nextID  int64
	items   map[int64]*models.TrackingRecord
	reports *memReports
	writes  int
	failAdd bool
}

func newMemRecords(reports *memReports) *memRecords {
	return &memRecords{items: map[int64]*models.TrackingRecord{}, reports: reports}
}

func (m *memRecords) add(date time.Time, scheduled, reported, closed int) *models.TrackingRecord {
	r := &models.TrackingRecord{
		Date:               timeutil.AsDate(date),
		ScheduledCustomers: scheduled,
		ReportedCustomers:  reported,
		ClosedCustomers:    closed,
	}
	_ = m.Create(context.Background(), r)
	m.writes--
	return r
}

func (m *memRecords) Create(_ context.Context, r *models.TrackingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAdd {
		return errFake
	}
	m.nextID++
	r.ID = m.nextID
	if r.PaymentStatus == "" {
		r.PaymentStatus = models.PaymentUnpaid
	}
	cp := *r
	m.items[r.ID] = &cp
	m.writes++
	return nil
}

func (m *memRecords) Get(_ context.Context, id int64) (*models.TrackingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRecords) GetByDate(ctx context.Context, date time.Time) (*models.TrackingRecord, error) {
	all, _ := m.List(ctx)
	for i := len(all) - 1; i >= 0; i-- {
		if timeutil.SameDay(all[i].Date, date) {
			return all[i], nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memRecords) List(context.Context) ([]*models.TrackingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.TrackingRecord{}
	for _, r := range m.items {
		cp := *r
		out = append(out, &cp)
	}
	// newest first, like the repository
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memRecords) ListRange(ctx context.Context, from, to time.Time) ([]*models.TrackingRecord, error) {
	all, _ := m.List(ctx)
	out := []*models.TrackingRecord{}
	for i := len(all) - 1; i >= 0; i-- {
		r := all[i]
		if !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memRecords) Update(_ context.Context, id int64, p models.TrackingRecordPatch) (*models.TrackingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.ScheduledCustomers != nil {
		r.ScheduledCustomers = *p.ScheduledCustomers
	}
	if p.ReportedCustomers != nil {
		r.ReportedCustomers = *p.ReportedCustomers
	}
	if p.ClosedCustomers != nil {
		r.ClosedCustomers = *p.ClosedCustomers
	}
	if p.PaymentStatus != nil {
		r.PaymentStatus = *p.PaymentStatus
	}
	m.writes++
	cp := *r
	return &cp, nil
}

func (m *memRecords) Delete(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	r, ok := m.items[id]
	if !ok {
		m.mu.Unlock()
		return 0, repositories.ErrNotFound
	}
	delete(m.items, id)
	m.mu.Unlock()

	m.reports.mu.Lock()
	defer m.reports.mu.Unlock()
	var removed int64
	for cid, c := range m.reports.items {
		linked := c.TrackingRecordID != nil && *c.TrackingRecordID == id
		if linked || timeutil.SameDay(c.CustomerDate, r.Date) {
			delete(m.reports.items, cid)
			removed++
		}
	}
	return removed, nil
}

type memSettings struct {
	values map[string]string
	err    error
}

func newMemSettings(kv ...string) *memSettings {
	s := &memSettings{values: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		s.values[kv[i]] = kv[i+1]
	}
	return s
}

func (s *memSettings) Get(_ context.Context, key string) (*models.SystemSetting, error) {
	if s.err != nil {
		return nil, s.err
	}
	v, ok := s.values[key]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &models.SystemSetting{SettingKey: key, SettingValue: v, UpdatedAt: time.Unix(1700000000, 0)}, nil
}

func (s *memSettings) Upsert(_ context.Context, key, value, _ string) error {
	s.values[key] = value
	return nil
}

func (s *memSettings) Delete(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Publish(eventType string, _ any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, eventType)
}

// stubSource serves canned events and invitees keyed by event ID.
type stubSource struct {
	name      string
	events    []scheduling.Event
	invitees  map[string][]scheduling.Invitee
	eventsErr error
	failEvent string
	gotToken  string
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) ListEvents(_ context.Context, token string, _, _ time.Time) ([]scheduling.Event, error) {
	s.gotToken = token
	if s.eventsErr != nil {
		return nil, s.eventsErr
	}
	return s.events, nil
}

func (s *stubSource) ListInvitees(_ context.Context, _ string, ev scheduling.Event) ([]scheduling.Invitee, error) {
	if ev.ID == s.failEvent {
		return nil, errFake
	}
	return s.invitees[ev.ID], nil
}

// mockProvider is a testify mock of payments.Provider.
type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Name() string { return payments.StripeName }

func (m *mockProvider) SucceededCharges(ctx context.Context, creds payments.Credentials, from, to time.Time) ([]payments.Charge, error) {
	args := m.Called(ctx, creds, from, to)
	charges, _ := args.Get(0).([]payments.Charge)
	return charges, args.Error(1)
}

type fakeError string

func (e fakeError) Error() string { return string(e) }

const errFake = fakeError("fake failure")
