package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pkordes/prociv-logbook/internal/domain"
	"github.com/pkordes/prociv-logbook/internal/repo"
)

// SettingsService reads and edits the sync target.
type SettingsService struct {
	repo repo.SettingsRepo
}

// NewSettingsService constructs a SettingsService backed by the provided repo.
func NewSettingsService(r repo.SettingsRepo) *SettingsService {
	return &SettingsService{repo: r}
}

// Get returns the current settings.
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("service.SettingsService.Get: %w", err)
	}
	return settings, nil
}

// SetSinkURL stores a new sink URL. An empty value disables sync; anything
// else must be an absolute http or https URL.
func (s *SettingsService) SetSinkURL(ctx context.Context, raw string) (domain.Settings, error) {
	sinkURL := strings.TrimSpace(raw)
	if err := validateSinkURL(sinkURL); err != nil {
		return domain.Settings{}, fmt.Errorf("service.SettingsService.SetSinkURL: %w", err)
	}
	settings := domain.Settings{SinkURL: sinkURL}
	if err := s.repo.Save(ctx, settings); err != nil {
		return domain.Settings{}, fmt.Errorf("service.SettingsService.SetSinkURL: %w", err)
	}
	return settings, nil
}

// SeedSinkURL stores raw as the first sink URL. It is a no-op once settings
// have been saved through SetSinkURL, even when that saved value was empty.
// It reports whether the value was written.
func (s *SettingsService) SeedSinkURL(ctx context.Context, raw string) (bool, error) {
	sinkURL := strings.TrimSpace(raw)
	if sinkURL == "" {
		return false, nil
	}
	if err := validateSinkURL(sinkURL); err != nil {
		return false, fmt.Errorf("service.SettingsService.SeedSinkURL: %w", err)
	}
	wrote, err := s.repo.Seed(ctx, domain.Settings{SinkURL: sinkURL})
	if err != nil {
		return false, fmt.Errorf("service.SettingsService.SeedSinkURL: %w", err)
	}
	return wrote, nil
}

func validateSinkURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: sink_url must be an absolute http(s) URL", domain.ErrValidation)
	}
	return nil
}
