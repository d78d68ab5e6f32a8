package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidywork/studio-service/internal/config"
	"github.com/tidywork/studio-service/internal/domain"
)

type cartSuite struct {
	svc      *CartService
	carts    *fakeCartRepo
	packages *fakePackageRepo
	settings *fakeSettingRepo
}

func newCartSuite(features config.FeatureConfig) *cartSuite {
	packages := newFakePackageRepo()
	carts := newFakeCartRepo(packages)
	settings := &fakeSettingRepo{setting: &domain.SiteSetting{ID: "setting-1", AcceptingOrders: true}}

	return &cartSuite{
		svc: NewCartService(CartDependencies{
			CartRepo: carts,
			Catalog:  NewCatalogService(packages, nil),
			Settings: NewSettingsService(settings, nil),
			Features: features,
		}),
		carts:    carts,
		packages: packages,
		settings: settings,
	}
}

func enabled() config.FeatureConfig {
	return config.FeatureConfig{CartCheckout: true}
}

func (s *cartSuite) lines(t *testing.T, userID string) []domain.CartLine {
	t.Helper()
	_, lines, err := s.svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	return lines
}

func TestAddServiceAccumulatesQuantity(t *testing.T) {
	s := newCartSuite(enabled())
	ctx := context.Background()

	require.NoError(t, s.svc.AddService(ctx, "user-1", "single-page-sprint"))
	lines := s.lines(t, "user-1")
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Item.Quantity)

	for i := 0; i < 9; i++ {
		require.NoError(t, s.svc.AddService(ctx, "user-1", "single-page-sprint"))
	}
	lines = s.lines(t, "user-1")
	require.Len(t, lines, 1)
	assert.Equal(t, 10, lines[0].Item.Quantity)
}

func TestAddServiceDistinctPackages(t *testing.T) {
	s := newCartSuite(enabled())
	ctx := context.Background()

	require.NoError(t, s.svc.AddService(ctx, "user-1", "single-page-sprint"))
	require.NoError(t, s.svc.AddService(ctx, "user-1", "five-page-studio"))

	lines := s.lines(t, "user-1")
	assert.Len(t, lines, 2)
}

func TestAddServiceGates(t *testing.T) {
	ctx := context.Background()

	off := newCartSuite(config.FeatureConfig{CartCheckout: false})
	assert.ErrorIs(t, off.svc.AddService(ctx, "user-1", "single-page-sprint"), ErrCartUnavailable)

	closed := newCartSuite(enabled())
	closed.settings.setting.AcceptingOrders = false
	assert.ErrorIs(t, closed.svc.AddService(ctx, "user-1", "single-page-sprint"), ErrOrdersClosed)

	s := newCartSuite(enabled())
	assert.ErrorIs(t, s.svc.AddService(ctx, "user-1", "no-such-offering"), ErrPackageNotFound)
	assert.ErrorIs(t, s.svc.AddService(ctx, "user-1", "  "), ErrPackageNotFound)
}

func TestUpdateItemQuantity(t *testing.T) {
	s := newCartSuite(enabled())
	ctx := context.Background()

	require.NoError(t, s.svc.AddService(ctx, "user-1", "single-page-sprint"))
	itemID := s.lines(t, "user-1")[0].Item.ID

	require.NoError(t, s.svc.UpdateItemQuantity(ctx, "user-1", itemID, 4))
	assert.Equal(t, 4, s.lines(t, "user-1")[0].Item.Quantity)

	// Zero or less removes the line.
	require.NoError(t, s.svc.UpdateItemQuantity(ctx, "user-1", itemID, 0))
	assert.Empty(t, s.lines(t, "user-1"))
}

func TestUpdateItemQuantityIgnoresForeignItems(t *testing.T) {
	s := newCartSuite(enabled())
	ctx := context.Background()

	require.NoError(t, s.svc.AddService(ctx, "owner", "single-page-sprint"))
	itemID := s.lines(t, "owner")[0].Item.ID

	// Another user's attempt neither errors nor mutates.
	require.NoError(t, s.svc.UpdateItemQuantity(ctx, "intruder", itemID, 99))
	assert.Equal(t, 1, s.lines(t, "owner")[0].Item.Quantity)

	// Unknown items are the same silent no-op.
	require.NoError(t, s.svc.UpdateItemQuantity(ctx, "owner", "missing-item", 2))
}

func TestRemoveItemScopedToOwner(t *testing.T) {
	s := newCartSuite(enabled())
	ctx := context.Background()

	require.NoError(t, s.svc.AddService(ctx, "owner", "single-page-sprint"))
	itemID := s.lines(t, "owner")[0].Item.ID

	require.NoError(t, s.svc.RemoveItem(ctx, "intruder", itemID))
	assert.Len(t, s.lines(t, "owner"), 1)

	require.NoError(t, s.svc.RemoveItem(ctx, "owner", itemID))
	assert.Empty(t, s.lines(t, "owner"))
}

func TestGetCartWithoutCart(t *testing.T) {
	s := newCartSuite(enabled())

	cart, lines, err := s.svc.GetCart(context.Background(), "fresh-user")
	require.NoError(t, err)
	assert.Nil(t, cart)
	assert.Nil(t, lines)
}
