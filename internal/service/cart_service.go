package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tidywork/studio-service/internal/config"
	"github.com/tidywork/studio-service/internal/domain"
	"github.com/tidywork/studio-service/internal/repository"
)

// CartService coordinates cart mutations. Conflicting concurrent writes are
// serialized by the store's unique keys, not application locking.
type CartService struct {
	carts    repository.CartRepository
	catalog  *CatalogService
	settings *SettingsService
	features config.FeatureConfig
}

// CartDependencies bundles requirements for the cart service.
type CartDependencies struct {
	CartRepo repository.CartRepository
	Catalog  *CatalogService
	Settings *SettingsService
	Features config.FeatureConfig
}

// NewCartService constructs the service.
func NewCartService(deps CartDependencies) *CartService {
	return &CartService{
		carts:    deps.CartRepo,
		catalog:  deps.Catalog,
		settings: deps.Settings,
		features: deps.Features,
	}
}

// AddService puts one unit of a package into the user's cart, creating the
// cart on first use. Repeat adds for the same package accumulate quantity.
func (s *CartService) AddService(ctx context.Context, userID, slug string) error {
	if !s.features.CartCheckout {
		return ErrCartUnavailable
	}
	accepting, err := s.settings.AcceptingOrders(ctx)
	if err != nil {
		return err
	}
	if !accepting {
		return ErrOrdersClosed
	}

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ErrPackageNotFound
	}
	pkg, err := s.catalog.EnsurePackage(ctx, slug)
	if err != nil {
		return err
	}

	cart, err := s.carts.UpsertCart(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.carts.AddItem(ctx, cart.ID, pkg.ID)
	return err
}

// UpdateItemQuantity overwrites an item's quantity; zero or negative deletes
// it. Items outside the caller's cart are silently ignored.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if !s.features.CartCheckout {
		return ErrCartUnavailable
	}

	_, ownerID, err := s.carts.GetItemOwner(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if ownerID != userID {
		return nil
	}

	if quantity <= 0 {
		return s.carts.DeleteItem(ctx, itemID)
	}
	return s.carts.SetItemQuantity(ctx, itemID, quantity)
}

// RemoveItem deletes an item scoped to the caller's cart; deleting zero rows
// is a silent no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	if !s.features.CartCheckout {
		return ErrCartUnavailable
	}
	return s.carts.DeleteItemOwned(ctx, itemID, userID)
}

// GetCart returns the user's cart and joined lines; a user with no cart yet
// gets empty results.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, []domain.CartLine, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	lines, err := s.carts.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, nil, err
	}
	return cart, lines, nil
}
