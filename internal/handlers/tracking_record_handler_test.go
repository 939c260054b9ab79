package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dashboard-backend/internal/bonus"
	"dashboard-backend/internal/models"
	"dashboard-backend/internal/repositories"
	"dashboard-backend/internal/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRecordService struct {
	mock.Mock
}

func (m *mockRecordService) List(ctx context.Context) ([]*models.TrackingRecord, error) {
	args := m.Called(ctx)
	recs, _ := args.Get(0).([]*models.TrackingRecord)
	return recs, args.Error(1)
}

func (m *mockRecordService) Get(ctx context.Context, id int64) (*models.TrackingRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*models.TrackingRecord)
	return rec, args.Error(1)
}

func (m *mockRecordService) Create(ctx context.Context, req *models.CreateTrackingRecordRequest) (*models.TrackingRecord, error) {
	args := m.Called(ctx, req)
	rec, _ := args.Get(0).(*models.TrackingRecord)
	return rec, args.Error(1)
}

func (m *mockRecordService) Update(ctx context.Context, id int64, req *models.UpdateTrackingRecordRequest) (*models.TrackingRecord, error) {
	args := m.Called(ctx, id, req)
	rec, _ := args.Get(0).(*models.TrackingRecord)
	return rec, args.Error(1)
}

func (m *mockRecordService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRecordService) Bonus(ctx context.Context, id int64) (*bonus.Result, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*bonus.Result)
	return res, args.Error(1)
}

func newRecordRouter(svc TrackingRecordService) *mux.Router {
	h := NewTrackingRecordHandler(svc, zap.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/api/tracking-records", h.List).Methods("GET")
	r.HandleFunc("/api/tracking-records", h.Create).Methods("POST")
	r.HandleFunc("/api/tracking-records/{id}", h.Get).Methods("GET")
	r.HandleFunc("/api/tracking-records/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/api/tracking-records/{id}", h.Delete).Methods("DELETE")
	r.HandleFunc("/api/tracking-records/{id}/bonus", h.Bonus).Methods("GET")
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTrackingRecordHandler_Create(t *testing.T) {
	svc := &mockRecordService{}
	created := &models.TrackingRecord{
		ID:            12,
		Date:          time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		PaymentStatus: models.PaymentUnpaid,
	}
	svc.On("Create", mock.Anything, mock.MatchedBy(func(req *models.CreateTrackingRecordRequest) bool {
		return req.Date == "2026-10-19" && req.ScheduledCustomers == 5
	})).Return(created, nil)

	rec := serve(newRecordRouter(svc), http.MethodPost, "/api/tracking-records",
		`{"date":"2026-10-19","scheduled_customers":5}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got models.TrackingRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(12), got.ID)
	svc.AssertExpectations(t)
}

func TestTrackingRecordHandler_Errors(t *testing.T) {
	svc := &mockRecordService{}
	svc.On("Create", mock.Anything, mock.Anything).
		Return(nil, &services.ValidationError{Fields: map[string]string{"date": "required"}})
	svc.On("Get", mock.Anything, int64(404)).Return(nil, repositories.ErrNotFound)
	svc.On("Delete", mock.Anything, int64(9)).Return(fmt.Errorf("delete: %w", errors.New("tx aborted")))
	svc.On("Bonus", mock.Anything, int64(3)).Return(nil, fmt.Errorf("record 3: %w", bonus.ErrNegativeCount))
	router := newRecordRouter(svc)

	rec := serve(router, http.MethodPost, "/api/tracking-records", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"validation failed","fields":{"date":"required"}}`, rec.Body.String())

	rec = serve(router, http.MethodPost, "/api/tracking-records", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodGet, "/api/tracking-records/404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodGet, "/api/tracking-records/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodDelete, "/api/tracking-records/9", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "tx aborted")

	rec = serve(router, http.MethodGet, "/api/tracking-records/3/bonus", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTrackingRecordHandler_DeleteAndBonus(t *testing.T) {
	svc := &mockRecordService{}
	svc.On("Delete", mock.Anything, int64(4)).Return(nil)
	svc.On("Bonus", mock.Anything, int64(4)).Return(&bonus.Result{
		Scheduled: 10, Reported: 7, Percentage: 70, Rate: bonus.RateHigh, Total: 2800000, Tier: bonus.TierHigh,
	}, nil)
	router := newRecordRouter(svc)

	rec := serve(router, http.MethodDelete, "/api/tracking-records/4", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(router, http.MethodGet, "/api/tracking-records/4/bonus", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res bonus.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, int64(2800000), res.Total)
	assert.Equal(t, bonus.TierHigh, res.Tier)
}

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{services.ErrStorageDisabled, http.StatusServiceUnavailable},
		{fmt.Errorf("%w: stripe: %w", services.ErrUpstream, errors.New("502")), http.StatusBadGateway},
		{services.ErrNotConnected, http.StatusConflict},
		{fmt.Errorf("%w: zoom", services.ErrUnknownIntegration), http.StatusNotFound},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeError(rec, zap.NewNop(), tt.err)
		assert.Equal(t, tt.code, rec.Code, tt.err.Error())
	}
}
