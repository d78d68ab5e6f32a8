package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tidywork/studio-service/internal/domain"
	"github.com/tidywork/studio-service/internal/persistence"
	"github.com/tidywork/studio-service/internal/repository"
)

const (
	settingCacheKey = "site:setting"
	settingCacheTTL = 2 * time.Minute
)

// SettingsService owns the site-wide order-acceptance gate. The resolved flag
// is passed into cart/checkout logic rather than read ambiently there.
type SettingsService struct {
	settings repository.SettingRepository
	cache    *persistence.Redis
}

// NewSettingsService constructs the service. cache may be nil in tests.
func NewSettingsService(settings repository.SettingRepository, cache *persistence.Redis) *SettingsService {
	return &SettingsService{settings: settings, cache: cache}
}

// Get returns the setting of record, lazily creating an "accepting orders"
// default on first read.
func (s *SettingsService) Get(ctx context.Context) (*domain.SiteSetting, error) {
	var cached domain.SiteSetting
	if s.cache.GetJSON(ctx, settingCacheKey, &cached) {
		return &cached, nil
	}

	setting, err := s.settings.GetOldest(ctx)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		setting = &domain.SiteSetting{AcceptingOrders: true}
		if err := s.settings.Create(ctx, setting); err != nil {
			return nil, err
		}
	}

	s.cache.SetJSON(ctx, settingCacheKey, setting, settingCacheTTL)
	return setting, nil
}

// AcceptingOrders resolves the gate for cart/checkout decisions.
func (s *SettingsService) AcceptingOrders(ctx context.Context) (bool, error) {
	setting, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return setting.AcceptingOrders, nil
}

// SetAcceptingOrders flips the gate. Orders already in flight are unaffected.
func (s *SettingsService) SetAcceptingOrders(ctx context.Context, accepting bool) (*domain.SiteSetting, error) {
	setting, err := s.settings.GetOldest(ctx)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		setting = &domain.SiteSetting{AcceptingOrders: accepting}
		if err := s.settings.Create(ctx, setting); err != nil {
			return nil, err
		}
		s.cache.Invalidate(ctx, settingCacheKey)
		return setting, nil
	}

	if err := s.settings.UpdateAcceptingOrders(ctx, setting.ID, accepting); err != nil {
		return nil, err
	}
	setting.AcceptingOrders = accepting
	s.cache.Invalidate(ctx, settingCacheKey)
	return setting, nil
}
