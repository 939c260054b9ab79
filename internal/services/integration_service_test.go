package services

import (
	"context"
	"errors"
	"testing"

	"dashboard-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newIntegrationService(settings *memSettings, verify VerifyFunc) *IntegrationService {
	return NewIntegrationService(settings, []Integration{
		{Name: "calendly", SettingKey: models.SettingCalendlyToken, Verify: verify},
		{Name: "google", SettingKey: models.SettingGoogleToken},
	}, zap.NewNop())
}

func TestIntegrationService_Lifecycle(t *testing.T) {
	settings := newMemSettings()
	svc := newIntegrationService(settings, func(_ context.Context, token string) (string, error) {
		if token != "good-token-123" {
			return "", errors.New("401 unauthorized")
		}
		return "owner@example.com", nil
	})
	ctx := context.Background()

	st, err := svc.Status(ctx, "calendly")
	require.NoError(t, err)
	assert.False(t, st.Connected)

	require.NoError(t, svc.SaveToken(ctx, "calendly", &models.SaveTokenRequest{Token: "good-token-123"}))
	assert.Equal(t, "good-token-123", settings.values[models.SettingCalendlyToken])

	st, err = svc.Status(ctx, "calendly")
	require.NoError(t, err)
	assert.True(t, st.Connected)
	assert.Equal(t, "owner@example.com", st.Account)
	assert.NotNil(t, st.UpdatedAt)

	require.NoError(t, svc.SaveToken(ctx, "calendly", &models.SaveTokenRequest{Token: "revoked-token"}))
	st, err = svc.Status(ctx, "calendly")
	require.NoError(t, err)
	assert.False(t, st.Connected)
	assert.Contains(t, st.Error, "401")

	require.NoError(t, svc.Disconnect(ctx, "calendly"))
	_, ok := settings.values[models.SettingCalendlyToken]
	assert.False(t, ok)
}

func TestIntegrationService_NoVerifier(t *testing.T) {
	svc := newIntegrationService(newMemSettings(models.SettingGoogleToken, "ya29.token"), nil)

	st, err := svc.Status(context.Background(), "google")
	require.NoError(t, err)
	assert.True(t, st.Connected)
	assert.Empty(t, st.Account)
}

func TestIntegrationService_Errors(t *testing.T) {
	svc := newIntegrationService(newMemSettings(), nil)

	_, err := svc.Status(context.Background(), "zoom")
	assert.ErrorIs(t, err, ErrUnknownIntegration)

	err = svc.SaveToken(context.Background(), "google", &models.SaveTokenRequest{Token: "short"})
	assert.ErrorIs(t, err, ErrValidation)
}
