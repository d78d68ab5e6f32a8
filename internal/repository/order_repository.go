package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tidywork/studio-service/internal/domain"
)

// OrderRepository persists orders, their immutable line snapshots, and the
// associated payment record.
type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListItems(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	SetCheckoutSession(ctx context.Context, orderID, sessionID string) error
	MarkPaid(ctx context.Context, orderID, sessionID string, paymentIntentID *string) error
	MarkDelivered(ctx context.Context, orderID string, deliveredAt, supportExpiresAt time.Time) error
	MarkCancelled(ctx context.Context, orderID string, archivedAt time.Time) error
	ConfirmKickoff(ctx context.Context, orderID string, confirmedAt time.Time) error
	GetPayment(ctx context.Context, orderID string) (*domain.Payment, error)
	UpsertPaymentPaid(ctx context.Context, orderID string, providerRef *string, amountCents int64, currency string, paidAt time.Time) error
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates the repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `id, user_id, status, currency, subtotal_cents, total_cents,
               requires_kickoff_call, kickoff_call_confirmed, kickoff_call_confirmed_at,
               delivered_at, support_expires_at, is_archived, archived_at,
               stripe_checkout_session_id, stripe_payment_intent_id, created_at, updated_at`

// CreateWithItems writes the order, its line snapshots, and a PENDING payment
// row in one transaction.
func (r *orderRepository) CreateWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const orderQuery = `
        INSERT INTO service_orders (user_id, status, currency, subtotal_cents, total_cents, requires_kickoff_call)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRow(ctx, orderQuery,
		order.UserID,
		order.Status,
		order.Currency,
		order.SubtotalCents,
		order.TotalCents,
		order.RequiresKickoffCall,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	const itemQuery = `
        INSERT INTO service_order_items (service_order_id, service_package_id, service_name, quantity, unit_price_cents, total_price_cents)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`

	for i := range items {
		items[i].OrderID = order.ID
		if err := tx.QueryRow(ctx, itemQuery,
			items[i].OrderID,
			items[i].PackageID,
			items[i].ServiceName,
			items[i].Quantity,
			items[i].UnitPriceCents,
			items[i].TotalPriceCents,
		).Scan(&items[i].ID, &items[i].CreatedAt); err != nil {
			return err
		}
	}

	const paymentQuery = `
        INSERT INTO service_payments (service_order_id, status, amount_cents, currency)
        VALUES ($1,$2,$3,$4)`

	if _, err := tx.Exec(ctx, paymentQuery,
		order.ID,
		domain.PaymentStatusPending,
		order.TotalCents,
		order.Currency,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders WHERE id=$1`
	var order domain.Order
	if err := scanOrder(r.pool.QueryRow(ctx, query, id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) ListItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const query = `
        SELECT id, service_order_id, service_package_id, service_name, quantity, unit_price_cents, total_price_cents, created_at
        FROM service_order_items WHERE service_order_id=$1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.PackageID,
			&item.ServiceName,
			&item.Quantity,
			&item.UnitPriceCents,
			&item.TotalPriceCents,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *orderRepository) SetCheckoutSession(ctx context.Context, orderID, sessionID string) error {
	const query = `UPDATE service_orders SET stripe_checkout_session_id=$1, updated_at=NOW() WHERE id=$2`
	return r.exec(ctx, query, sessionID, orderID)
}

// MarkPaid records the provider identifiers and moves the order to PAID. The
// writes are plain field assignments so webhook redelivery is harmless.
func (r *orderRepository) MarkPaid(ctx context.Context, orderID, sessionID string, paymentIntentID *string) error {
	const query = `
        UPDATE service_orders
        SET status=$1, stripe_checkout_session_id=$2, stripe_payment_intent_id=$3, updated_at=NOW()
        WHERE id=$4`
	return r.exec(ctx, query, domain.OrderStatusPaid, sessionID, paymentIntentID, orderID)
}

func (r *orderRepository) MarkDelivered(ctx context.Context, orderID string, deliveredAt, supportExpiresAt time.Time) error {
	const query = `
        UPDATE service_orders
        SET status=$1, delivered_at=$2, support_expires_at=$3, updated_at=NOW()
        WHERE id=$4`
	return r.exec(ctx, query, domain.OrderStatusDelivered, deliveredAt, supportExpiresAt, orderID)
}

// MarkCancelled archives the order and clears delivery fields so a cancelled
// order never carries stale delivery data.
func (r *orderRepository) MarkCancelled(ctx context.Context, orderID string, archivedAt time.Time) error {
	const query = `
        UPDATE service_orders
        SET status=$1, is_archived=TRUE, archived_at=$2, delivered_at=NULL, support_expires_at=NULL, updated_at=NOW()
        WHERE id=$3`
	return r.exec(ctx, query, domain.OrderStatusCancelled, archivedAt, orderID)
}

func (r *orderRepository) ConfirmKickoff(ctx context.Context, orderID string, confirmedAt time.Time) error {
	const query = `
        UPDATE service_orders
        SET kickoff_call_confirmed=TRUE, kickoff_call_confirmed_at=$1, updated_at=NOW()
        WHERE id=$2`
	return r.exec(ctx, query, confirmedAt, orderID)
}

func (r *orderRepository) GetPayment(ctx context.Context, orderID string) (*domain.Payment, error) {
	const query = `
        SELECT id, service_order_id, status, provider_ref, amount_cents, currency, paid_at, created_at, updated_at
        FROM service_payments WHERE service_order_id=$1`

	var payment domain.Payment
	if err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.Status,
		&payment.ProviderRef,
		&payment.AmountCents,
		&payment.Currency,
		&payment.PaidAt,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpsertPaymentPaid is keyed by order id, which makes webhook redelivery land
// on the same row.
func (r *orderRepository) UpsertPaymentPaid(ctx context.Context, orderID string, providerRef *string, amountCents int64, currency string, paidAt time.Time) error {
	const query = `
        INSERT INTO service_payments (service_order_id, status, provider_ref, amount_cents, currency, paid_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (service_order_id)
        DO UPDATE SET status=$2, provider_ref=$3, amount_cents=$4, currency=$5, paid_at=$6, updated_at=NOW()`

	_, err := r.pool.Exec(ctx, query,
		orderID,
		domain.PaymentStatusPaid,
		providerRef,
		amountCents,
		currency,
		paidAt,
	)
	return err
}

func (r *orderRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanOrder(row pgx.Row, order *domain.Order) error {
	return row.Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.Currency,
		&order.SubtotalCents,
		&order.TotalCents,
		&order.RequiresKickoffCall,
		&order.KickoffCallConfirmed,
		&order.KickoffCallConfirmedAt,
		&order.DeliveredAt,
		&order.SupportExpiresAt,
		&order.IsArchived,
		&order.ArchivedAt,
		&order.StripeCheckoutSessionID,
		&order.StripePaymentIntentID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}
