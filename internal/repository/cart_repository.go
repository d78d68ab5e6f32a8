package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tidywork/studio-service/internal/domain"
)

// CartRepository persists per-user carts and their items. Concurrent adds for
// the same (cart, package) pair are serialized by the composite unique key.
type CartRepository interface {
	UpsertCart(ctx context.Context, userID string) (*domain.Cart, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID, packageID string) (*domain.CartItem, error)
	GetItemOwner(ctx context.Context, itemID string) (*domain.CartItem, string, error)
	SetItemQuantity(ctx context.Context, itemID string, quantity int) error
	DeleteItem(ctx context.Context, itemID string) error
	DeleteItemOwned(ctx context.Context, itemID, userID string) error
	ListLines(ctx context.Context, cartID string) ([]domain.CartLine, error)
	ClearItems(ctx context.Context, cartID string) error
}

type cartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository instantiates the repository.
func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &cartRepository{pool: pool}
}

// UpsertCart creates the user's cart on first use and is a no-op afterwards.
func (r *cartRepository) UpsertCart(ctx context.Context, userID string) (*domain.Cart, error) {
	const query = `
        INSERT INTO service_carts (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE SET updated_at=NOW()
        RETURNING id, user_id, created_at, updated_at`

	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	const query = `
        SELECT id, user_id, created_at, updated_at
        FROM service_carts WHERE user_id=$1`

	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem creates the (cart, package) item at quantity 1, or increments the
// existing one. Repeat adds accumulate instead of duplicating rows.
func (r *cartRepository) AddItem(ctx context.Context, cartID, packageID string) (*domain.CartItem, error) {
	const query = `
        INSERT INTO service_cart_items (service_cart_id, service_package_id, quantity)
        VALUES ($1, $2, 1)
        ON CONFLICT (service_cart_id, service_package_id)
        DO UPDATE SET quantity = service_cart_items.quantity + 1, updated_at=NOW()
        RETURNING id, service_cart_id, service_package_id, quantity, created_at, updated_at`

	var item domain.CartItem
	if err := r.pool.QueryRow(ctx, query, cartID, packageID).Scan(
		&item.ID,
		&item.CartID,
		&item.PackageID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemOwner returns the item together with the user id owning its cart.
func (r *cartRepository) GetItemOwner(ctx context.Context, itemID string) (*domain.CartItem, string, error) {
	const query = `
        SELECT i.id, i.service_cart_id, i.service_package_id, i.quantity, i.created_at, i.updated_at, c.user_id
        FROM service_cart_items i
        JOIN service_carts c ON c.id = i.service_cart_id
        WHERE i.id=$1`

	var item domain.CartItem
	var ownerID string
	if err := r.pool.QueryRow(ctx, query, itemID).Scan(
		&item.ID,
		&item.CartID,
		&item.PackageID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
		&ownerID,
	); err != nil {
		return nil, "", err
	}
	return &item, ownerID, nil
}

func (r *cartRepository) SetItemQuantity(ctx context.Context, itemID string, quantity int) error {
	const query = `UPDATE service_cart_items SET quantity=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, quantity, itemID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, itemID string) error {
	const query = `DELETE FROM service_cart_items WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, itemID)
	return err
}

// DeleteItemOwned deletes the item only when the caller owns the cart.
// Deleting zero rows is a silent no-op.
func (r *cartRepository) DeleteItemOwned(ctx context.Context, itemID, userID string) error {
	const query = `
        DELETE FROM service_cart_items i
        USING service_carts c
        WHERE i.id=$1 AND c.id = i.service_cart_id AND c.user_id=$2`
	_, err := r.pool.Exec(ctx, query, itemID, userID)
	return err
}

func (r *cartRepository) ListLines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	query := `
        SELECT i.id, i.service_cart_id, i.service_package_id, i.quantity, i.created_at, i.updated_at,
               ` + prefixedPackageColumns("p") + `
        FROM service_cart_items i
        JOIN service_packages p ON p.id = i.service_package_id
        WHERE i.service_cart_id=$1
        ORDER BY i.created_at ASC`

	rows, err := r.pool.Query(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.Item.ID,
			&line.Item.CartID,
			&line.Item.PackageID,
			&line.Item.Quantity,
			&line.Item.CreatedAt,
			&line.Item.UpdatedAt,
			&line.Package.ID,
			&line.Package.Slug,
			&line.Package.Name,
			&line.Package.Summary,
			&line.Package.PriceCents,
			&line.Package.PriceCurrency,
			&line.Package.IsCustomQuote,
			&line.Package.MaxPages,
			&line.Package.IncludesBackend,
			&line.Package.IncludesDatabase,
			&line.Package.IncludesHosting,
			&line.Package.IncludesAdminPanel,
			&line.Package.RequiresKickoffCall,
			&line.Package.Status,
			&line.Package.CreatedAt,
			&line.Package.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, line)
	}
	return result, rows.Err()
}

// ClearItems resets the cart after a completed checkout. The cart row is kept
// so future additions start fresh.
func (r *cartRepository) ClearItems(ctx context.Context, cartID string) error {
	const query = `DELETE FROM service_cart_items WHERE service_cart_id=$1`
	_, err := r.pool.Exec(ctx, query, cartID)
	return err
}

func prefixedPackageColumns(alias string) string {
	return alias + `.id, ` + alias + `.slug, ` + alias + `.name, ` + alias + `.summary, ` +
		alias + `.price_cents, ` + alias + `.price_currency, ` + alias + `.is_custom_quote, ` +
		alias + `.max_pages, ` + alias + `.includes_backend, ` + alias + `.includes_database, ` +
		alias + `.includes_hosting, ` + alias + `.includes_admin_panel, ` +
		alias + `.requires_kickoff_call, ` + alias + `.status, ` + alias + `.created_at, ` + alias + `.updated_at`
}
