package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/tidywork/studio-service/internal/config"
	"github.com/tidywork/studio-service/internal/domain"
	"github.com/tidywork/studio-service/internal/events"
	"github.com/tidywork/studio-service/internal/payments"
	"github.com/tidywork/studio-service/internal/repository"
)

// OrderService drives the checkout workflow and the admin order transitions.
type OrderService struct {
	orders     repository.OrderRepository
	carts      repository.CartRepository
	provider   payments.Provider
	settings   *SettingsService
	dispatcher events.Dispatcher
	features   config.FeatureConfig
	logger     *zap.Logger
}

// OrderDependencies bundles requirements for the order service.
type OrderDependencies struct {
	OrderRepo  repository.OrderRepository
	CartRepo   repository.CartRepository
	Provider   payments.Provider
	Settings   *SettingsService
	Dispatcher events.Dispatcher
	Features   config.FeatureConfig
	Logger     *zap.Logger
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:     deps.OrderRepo,
		carts:      deps.CartRepo,
		provider:   deps.Provider,
		settings:   deps.Settings,
		dispatcher: deps.Dispatcher,
		features:   deps.Features,
		logger:     logger,
	}
}

// CreateCheckoutSession converts the user's cart into a PENDING order with
// immutable line snapshots, requests a hosted payment page, and returns its
// URL. A missing URL fails closed and leaves the PENDING order behind for
// admin inspection; there is no compensating rollback across the
// order-then-provider sequence.
func (s *OrderService) CreateCheckoutSession(ctx context.Context, user *domain.User, baseURL string) (string, error) {
	accepting, err := s.settings.AcceptingOrders(ctx)
	if err != nil {
		return "", err
	}
	if !accepting {
		return "", ErrOrdersClosed
	}
	if !s.features.CartCheckout {
		return "", ErrCartUnavailable
	}

	cart, err := s.carts.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrEmptyCart
		}
		return "", err
	}
	lines, err := s.carts.ListLines(ctx, cart.ID)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", ErrEmptyCart
	}

	// Custom quotes are negotiated out-of-band, never through checkout.
	for _, line := range lines {
		if !line.Package.Purchasable() {
			return "", ErrCustomQuoteCheckout
		}
	}

	var subtotalCents int64
	requiresKickoff := false
	items := make([]domain.OrderItem, 0, len(lines))
	checkoutLines := make([]payments.CheckoutLine, 0, len(lines))
	for _, line := range lines {
		unit := *line.Package.PriceCents
		subtotalCents += unit * int64(line.Item.Quantity)
		if line.Package.RequiresKickoffCall {
			requiresKickoff = true
		}
		items = append(items, domain.OrderItem{
			PackageID:       line.Package.ID,
			ServiceName:     line.Package.Name,
			Quantity:        line.Item.Quantity,
			UnitPriceCents:  unit,
			TotalPriceCents: unit * int64(line.Item.Quantity),
		})
		checkoutLine := payments.CheckoutLine{
			Name:            line.Package.Name,
			UnitAmountCents: unit,
			Quantity:        int64(line.Item.Quantity),
		}
		if line.Package.Summary != nil {
			checkoutLine.Description = *line.Package.Summary
		}
		checkoutLines = append(checkoutLines, checkoutLine)
	}

	order := &domain.Order{
		UserID:              user.ID,
		Status:              domain.OrderStatusPending,
		Currency:            domain.DefaultCurrency,
		SubtotalCents:       subtotalCents,
		TotalCents:          subtotalCents,
		RequiresKickoffCall: requiresKickoff,
	}
	if err := s.orders.CreateWithItems(ctx, order, items); err != nil {
		return "", err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderCreated,
		OrderID: order.ID,
		UserID:  order.UserID,
		Payload: events.OrderCreatedPayload{
			TotalCents:          order.TotalCents,
			Currency:            order.Currency,
			ItemCount:           len(items),
			RequiresKickoffCall: order.RequiresKickoffCall,
		},
	})

	session, err := s.provider.CreateCheckoutSession(ctx, payments.CheckoutSessionInput{
		OrderID:       order.ID,
		UserID:        user.ID,
		CustomerEmail: user.Email,
		Currency:      order.Currency,
		Lines:         checkoutLines,
		SuccessURL:    baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     baseURL + "/cart?error=checkout_cancelled",
	})
	if err != nil {
		return "", err
	}

	if err := s.orders.SetCheckoutSession(ctx, order.ID, session.SessionID); err != nil {
		return "", err
	}
	if session.URL == "" {
		s.logger.Warn("checkout session has no redirect URL; order stays pending",
			zap.String("order_id", order.ID),
			zap.String("session_id", session.SessionID))
		return "", ErrCheckoutUnavailable
	}
	return session.URL, nil
}

// HandleCheckoutCompleted reconciles a verified completed-checkout event.
// Unknown order ids are accepted as no-ops, and the whole handler is safe
// under at-least-once redelivery.
func (s *OrderService) HandleCheckoutCompleted(ctx context.Context, completed payments.CompletedCheckout) error {
	if completed.OrderID == "" {
		return nil
	}

	order, err := s.orders.GetByID(ctx, completed.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Info("checkout completed for unknown order; ignoring",
				zap.String("order_id", completed.OrderID))
			return nil
		}
		return err
	}

	// Status is only written from PENDING or PAID so a late redelivery can
	// never pull a delivered order backwards.
	if order.Status == domain.OrderStatusPending || order.Status == domain.OrderStatusPaid {
		if err := s.orders.MarkPaid(ctx, order.ID, completed.SessionID, completed.PaymentIntentID); err != nil {
			return err
		}
	}

	providerRef := completed.PaymentIntentID
	if providerRef == nil {
		sessionID := completed.SessionID
		providerRef = &sessionID
	}
	if err := s.orders.UpsertPaymentPaid(ctx, order.ID, providerRef, completed.AmountCents, completed.Currency, time.Now()); err != nil {
		return err
	}

	// Reset the cart, keeping the row so future additions start fresh.
	cart, err := s.carts.GetByUserID(ctx, order.UserID)
	if err == nil {
		if err := s.carts.ClearItems(ctx, cart.ID); err != nil {
			return err
		}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderPaid,
		OrderID: order.ID,
		UserID:  order.UserID,
		Payload: events.OrderPaidPayload{
			AmountCents: completed.AmountCents,
			Currency:    completed.Currency,
			ProviderRef: providerRef,
		},
	})
	return nil
}

// Deliver moves a PAID order to DELIVERED and stamps the support window.
func (s *OrderService) Deliver(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(order.Status, domain.OrderStatusDelivered) {
		return nil, ErrInvalidTransition
	}

	deliveredAt := time.Now()
	supportExpiresAt := deliveredAt.Add(domain.SupportWindow)
	if err := s.orders.MarkDelivered(ctx, order.ID, deliveredAt, supportExpiresAt); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatusDelivered
	order.DeliveredAt = &deliveredAt
	order.SupportExpiresAt = &supportExpiresAt

	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderDelivered,
		OrderID: order.ID,
		UserID:  order.UserID,
		Payload: events.OrderDeliveredPayload{
			DeliveredAt:      deliveredAt,
			SupportExpiresAt: supportExpiresAt,
		},
	})
	return order, nil
}

// Cancel archives a PENDING or PAID order and clears delivery fields so a
// cancelled order never carries stale delivery data. Delivered orders stay
// delivered.
func (s *OrderService) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(order.Status, domain.OrderStatusCancelled) {
		return nil, ErrInvalidTransition
	}

	previous := order.Status
	archivedAt := time.Now()
	if err := s.orders.MarkCancelled(ctx, order.ID, archivedAt); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatusCancelled
	order.IsArchived = true
	order.ArchivedAt = &archivedAt
	order.DeliveredAt = nil
	order.SupportExpiresAt = nil

	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderCancelled,
		OrderID: order.ID,
		UserID:  order.UserID,
		Payload: events.OrderCancelledPayload{PreviousStatus: string(previous)},
	})
	return order, nil
}

// ConfirmKickoff stamps the kickoff confirmation pair; allowed at any status.
func (s *OrderService) ConfirmKickoff(ctx context.Context, orderID string) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	return s.orders.ConfirmKickoff(ctx, order.ID, time.Now())
}

// ListOrders returns every order for the admin console, newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAll(ctx)
}

// ListUserOrders returns the customer's own orders.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ListOrderItems returns the immutable line snapshots of an order.
func (s *OrderService) ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	return s.orders.ListItems(ctx, orderID)
}

// GetPayment returns the payment record of an order.
func (s *OrderService) GetPayment(ctx context.Context, orderID string) (*domain.Payment, error) {
	return s.orders.GetPayment(ctx, orderID)
}

func (s *OrderService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
