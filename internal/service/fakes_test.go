package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tidywork/studio-service/internal/domain"
	"github.com/tidywork/studio-service/internal/payments"
)

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return uniqueViolation()
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) UpdateEmail(_ context.Context, id, email string) error {
	for otherID, other := range r.users {
		if otherID != id && other.Email == email {
			return uniqueViolation()
		}
	}
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Email = email
	return nil
}

func (r *fakeUserRepo) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*domain.Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.Session) error {
	session.ID = uuid.NewString()
	session.CreatedAt = time.Now()
	clone := *session
	r.sessions[session.Token] = &clone
	return nil
}

func (r *fakeSessionRepo) GetByToken(_ context.Context, token string) (*domain.Session, error) {
	session, ok := r.sessions[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *session
	return &clone, nil
}

func (r *fakeSessionRepo) DeleteByToken(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

type fakePackageRepo struct {
	packages map[string]*domain.ServicePackage
}

func newFakePackageRepo() *fakePackageRepo {
	return &fakePackageRepo{packages: map[string]*domain.ServicePackage{}}
}

func (r *fakePackageRepo) Create(_ context.Context, pkg *domain.ServicePackage) error {
	for _, existing := range r.packages {
		if existing.Slug == pkg.Slug {
			return uniqueViolation()
		}
	}
	pkg.ID = uuid.NewString()
	pkg.CreatedAt = time.Now()
	pkg.UpdatedAt = pkg.CreatedAt
	clone := *pkg
	r.packages[pkg.ID] = &clone
	return nil
}

func (r *fakePackageRepo) Update(_ context.Context, pkg *domain.ServicePackage) error {
	if _, ok := r.packages[pkg.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *pkg
	r.packages[pkg.ID] = &clone
	return nil
}

func (r *fakePackageRepo) CreateIfAbsent(ctx context.Context, pkg *domain.ServicePackage) error {
	for _, existing := range r.packages {
		if existing.Slug == pkg.Slug {
			return nil
		}
	}
	return r.Create(ctx, pkg)
}

func (r *fakePackageRepo) GetByID(_ context.Context, id string) (*domain.ServicePackage, error) {
	pkg, ok := r.packages[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *pkg
	return &clone, nil
}

func (r *fakePackageRepo) GetBySlug(_ context.Context, slug string) (*domain.ServicePackage, error) {
	for _, pkg := range r.packages {
		if pkg.Slug == slug {
			clone := *pkg
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePackageRepo) ListByStatus(_ context.Context, status domain.PackageStatus) ([]domain.ServicePackage, error) {
	result := make([]domain.ServicePackage, 0)
	for _, pkg := range r.packages {
		if pkg.Status == status {
			result = append(result, *pkg)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Slug < result[j].Slug })
	return result, nil
}

func (r *fakePackageRepo) ListAll(_ context.Context) ([]domain.ServicePackage, error) {
	result := make([]domain.ServicePackage, 0, len(r.packages))
	for _, pkg := range r.packages {
		result = append(result, *pkg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Slug < result[j].Slug })
	return result, nil
}

type fakeCartRepo struct {
	carts map[string]*domain.Cart
	items map[string]*domain.CartItem
	pkgs  *fakePackageRepo
}

func newFakeCartRepo(pkgs *fakePackageRepo) *fakeCartRepo {
	return &fakeCartRepo{
		carts: map[string]*domain.Cart{},
		items: map[string]*domain.CartItem{},
		pkgs:  pkgs,
	}
}

func (r *fakeCartRepo) UpsertCart(_ context.Context, userID string) (*domain.Cart, error) {
	for _, cart := range r.carts {
		if cart.UserID == userID {
			clone := *cart
			return &clone, nil
		}
	}
	cart := &domain.Cart{ID: uuid.NewString(), UserID: userID, CreatedAt: time.Now()}
	r.carts[cart.ID] = cart
	clone := *cart
	return &clone, nil
}

func (r *fakeCartRepo) GetByUserID(_ context.Context, userID string) (*domain.Cart, error) {
	for _, cart := range r.carts {
		if cart.UserID == userID {
			clone := *cart
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCartRepo) AddItem(_ context.Context, cartID, packageID string) (*domain.CartItem, error) {
	for _, item := range r.items {
		if item.CartID == cartID && item.PackageID == packageID {
			item.Quantity++
			clone := *item
			return &clone, nil
		}
	}
	item := &domain.CartItem{
		ID:        uuid.NewString(),
		CartID:    cartID,
		PackageID: packageID,
		Quantity:  1,
		CreatedAt: time.Now(),
	}
	r.items[item.ID] = item
	clone := *item
	return &clone, nil
}

func (r *fakeCartRepo) GetItemOwner(_ context.Context, itemID string) (*domain.CartItem, string, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, "", pgx.ErrNoRows
	}
	cart, ok := r.carts[item.CartID]
	if !ok {
		return nil, "", pgx.ErrNoRows
	}
	clone := *item
	return &clone, cart.UserID, nil
}

func (r *fakeCartRepo) SetItemQuantity(_ context.Context, itemID string, quantity int) error {
	item, ok := r.items[itemID]
	if !ok {
		return pgx.ErrNoRows
	}
	item.Quantity = quantity
	return nil
}

func (r *fakeCartRepo) DeleteItem(_ context.Context, itemID string) error {
	delete(r.items, itemID)
	return nil
}

func (r *fakeCartRepo) DeleteItemOwned(_ context.Context, itemID, userID string) error {
	item, ok := r.items[itemID]
	if !ok {
		return nil
	}
	cart, ok := r.carts[item.CartID]
	if !ok || cart.UserID != userID {
		return nil
	}
	delete(r.items, itemID)
	return nil
}

func (r *fakeCartRepo) ListLines(_ context.Context, cartID string) ([]domain.CartLine, error) {
	lines := make([]domain.CartLine, 0)
	for _, item := range r.items {
		if item.CartID != cartID {
			continue
		}
		pkg, ok := r.pkgs.packages[item.PackageID]
		if !ok {
			continue
		}
		lines = append(lines, domain.CartLine{Item: *item, Package: *pkg})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Item.ID < lines[j].Item.ID })
	return lines, nil
}

func (r *fakeCartRepo) ClearItems(_ context.Context, cartID string) error {
	for id, item := range r.items {
		if item.CartID == cartID {
			delete(r.items, id)
		}
	}
	return nil
}

type fakeOrderRepo struct {
	orders   map[string]*domain.Order
	items    map[string][]domain.OrderItem
	payments map[string]*domain.Payment
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   map[string]*domain.Order{},
		items:    map[string][]domain.OrderItem{},
		payments: map[string]*domain.Payment{},
	}
}

func (r *fakeOrderRepo) CreateWithItems(_ context.Context, order *domain.Order, items []domain.OrderItem) error {
	order.ID = uuid.NewString()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	clone := *order
	r.orders[order.ID] = &clone

	stored := make([]domain.OrderItem, len(items))
	copy(stored, items)
	for i := range stored {
		stored[i].ID = uuid.NewString()
		stored[i].OrderID = order.ID
	}
	r.items[order.ID] = stored

	r.payments[order.ID] = &domain.Payment{
		ID:          uuid.NewString(),
		OrderID:     order.ID,
		Status:      domain.PaymentStatusPending,
		AmountCents: order.TotalCents,
		Currency:    order.Currency,
	}
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *order
	return &clone, nil
}

func (r *fakeOrderRepo) ListAll(_ context.Context) ([]domain.Order, error) {
	result := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		result = append(result, *order)
	}
	return result, nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	result := make([]domain.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) ListItems(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	return r.items[orderID], nil
}

func (r *fakeOrderRepo) SetCheckoutSession(_ context.Context, orderID, sessionID string) error {
	order, ok := r.orders[orderID]
	if !ok {
		return pgx.ErrNoRows
	}
	order.StripeCheckoutSessionID = &sessionID
	return nil
}

func (r *fakeOrderRepo) MarkPaid(_ context.Context, orderID, sessionID string, paymentIntentID *string) error {
	order, ok := r.orders[orderID]
	if !ok {
		return pgx.ErrNoRows
	}
	order.Status = domain.OrderStatusPaid
	order.StripeCheckoutSessionID = &sessionID
	order.StripePaymentIntentID = paymentIntentID
	return nil
}

func (r *fakeOrderRepo) MarkDelivered(_ context.Context, orderID string, deliveredAt, supportExpiresAt time.Time) error {
	order, ok := r.orders[orderID]
	if !ok {
		return pgx.ErrNoRows
	}
	order.Status = domain.OrderStatusDelivered
	order.DeliveredAt = &deliveredAt
	order.SupportExpiresAt = &supportExpiresAt
	return nil
}

func (r *fakeOrderRepo) MarkCancelled(_ context.Context, orderID string, archivedAt time.Time) error {
	order, ok := r.orders[orderID]
	if !ok {
		return pgx.ErrNoRows
	}
	order.Status = domain.OrderStatusCancelled
	order.IsArchived = true
	order.ArchivedAt = &archivedAt
	order.DeliveredAt = nil
	order.SupportExpiresAt = nil
	return nil
}

func (r *fakeOrderRepo) ConfirmKickoff(_ context.Context, orderID string, confirmedAt time.Time) error {
	order, ok := r.orders[orderID]
	if !ok {
		return pgx.ErrNoRows
	}
	order.KickoffCallConfirmed = true
	order.KickoffCallConfirmedAt = &confirmedAt
	return nil
}

func (r *fakeOrderRepo) GetPayment(_ context.Context, orderID string) (*domain.Payment, error) {
	payment, ok := r.payments[orderID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *payment
	return &clone, nil
}

func (r *fakeOrderRepo) UpsertPaymentPaid(_ context.Context, orderID string, providerRef *string, amountCents int64, currency string, paidAt time.Time) error {
	payment, ok := r.payments[orderID]
	if !ok {
		payment = &domain.Payment{ID: uuid.NewString(), OrderID: orderID}
		r.payments[orderID] = payment
	}
	payment.Status = domain.PaymentStatusPaid
	payment.ProviderRef = providerRef
	payment.AmountCents = amountCents
	payment.Currency = currency
	payment.PaidAt = &paidAt
	return nil
}

type fakeSettingRepo struct {
	setting *domain.SiteSetting
}

func (r *fakeSettingRepo) GetOldest(_ context.Context) (*domain.SiteSetting, error) {
	if r.setting == nil {
		return nil, pgx.ErrNoRows
	}
	clone := *r.setting
	return &clone, nil
}

func (r *fakeSettingRepo) Create(_ context.Context, setting *domain.SiteSetting) error {
	setting.ID = uuid.NewString()
	setting.CreatedAt = time.Now()
	clone := *setting
	r.setting = &clone
	return nil
}

func (r *fakeSettingRepo) UpdateAcceptingOrders(_ context.Context, id string, accepting bool) error {
	if r.setting == nil || r.setting.ID != id {
		return pgx.ErrNoRows
	}
	r.setting.AcceptingOrders = accepting
	return nil
}

type fakeProvider struct {
	result *payments.CheckoutSessionResult
	err    error
	calls  []payments.CheckoutSessionInput
}

func (p *fakeProvider) CreateCheckoutSession(_ context.Context, input payments.CheckoutSessionInput) (*payments.CheckoutSessionResult, error) {
	p.calls = append(p.calls, input)
	if p.err != nil {
		return nil, p.err
	}
	if p.result != nil {
		return p.result, nil
	}
	return &payments.CheckoutSessionResult{SessionID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil
}
