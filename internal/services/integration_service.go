package services

import (
	"context"
	"errors"
	"fmt"

	"dashboard-backend/internal/models"
	"dashboard-backend/internal/repositories"

	"go.uber.org/zap"
)

var ErrUnknownIntegration = errors.New("unknown integration")

// VerifyFunc checks a token against the provider and returns the account
// it belongs to.
type VerifyFunc func(ctx context.Context, token string) (string, error)

// Integration describes one connectable provider.
type Integration struct {
	Name        string
	SettingKey  string
	Description string
	Verify      VerifyFunc
}

// IntegrationService stores, checks and removes integration tokens.
type IntegrationService struct {
	Settings     SettingStore
	integrations map[string]Integration
	logger       *zap.Logger
}

func NewIntegrationService(settings SettingStore, integrations []Integration, logger *zap.Logger) *IntegrationService {
	m := make(map[string]Integration, len(integrations))
	for _, in := range integrations {
		m[in.Name] = in
	}
	return &IntegrationService{Settings: settings, integrations: m, logger: logger}
}

func (s *IntegrationService) lookup(name string) (Integration, error) {
	in, ok := s.integrations[name]
	if !ok {
		return Integration{}, fmt.Errorf("%w: %s", ErrUnknownIntegration, name)
	}
	return in, nil
}

func (s *IntegrationService) SaveToken(ctx context.Context, name string, req *models.SaveTokenRequest) error {
	in, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	if err := s.Settings.Upsert(ctx, in.SettingKey, req.Token, in.Description); err != nil {
		return fmt.Errorf("save %s token: %w", name, err)
	}
	s.logger.Info("integration token saved", zap.String("integration", name))
	return nil
}

// Status reports whether a token is stored and, when it is, whether the
// provider accepts it.
func (s *IntegrationService) Status(ctx context.Context, name string) (*models.IntegrationStatus, error) {
	in, err := s.lookup(name)
	if err != nil {
		return nil, err
	}

	status := &models.IntegrationStatus{Provider: name}
	setting, err := s.Settings.Get(ctx, in.SettingKey)
	if errors.Is(err, repositories.ErrNotFound) {
		return status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s token: %w", name, err)
	}
	if setting.SettingValue == "" {
		return status, nil
	}

	updated := setting.UpdatedAt
	status.UpdatedAt = &updated
	status.Connected = true

	if in.Verify != nil {
		account, err := in.Verify(ctx, setting.SettingValue)
		if err != nil {
			s.logger.Warn("integration token rejected", zap.String("integration", name), zap.Error(err))
			status.Connected = false
			status.Error = err.Error()
			return status, nil
		}
		status.Account = account
	}
	return status, nil
}

func (s *IntegrationService) Disconnect(ctx context.Context, name string) error {
	in, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := s.Settings.Delete(ctx, in.SettingKey); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("remove %s token: %w", name, err)
	}
	s.logger.Info("integration disconnected", zap.String("integration", name))
	return nil
}
