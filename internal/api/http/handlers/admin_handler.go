package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/tidywork/studio-service/internal/api/dto"
	"github.com/tidywork/studio-service/internal/domain"
	"github.com/tidywork/studio-service/internal/service"
)

// AdminHandler exposes the back-office console: order transitions, catalog
// management, and the site-wide order gate. All routes assume the admin role
// guard has already run.
type AdminHandler struct {
	orders   *service.OrderService
	catalog  *service.CatalogService
	settings *service.SettingsService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(orders *service.OrderService, catalog *service.CatalogService, settings *service.SettingsService) *AdminHandler {
	return &AdminHandler{orders: orders, catalog: catalog, settings: settings}
}

// Orders handles GET /admin/orders.
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	orders, err := h.orders.ListOrders(c.Context())
	if err != nil {
		return err
	}
	setting, err := h.settings.Get(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"orders":           ordersView(orders),
			"accepting_orders": setting.AcceptingOrders,
		},
	})
}

// OrderDetail handles GET /admin/orders/:id.
func (h *AdminHandler) OrderDetail(c *fiber.Ctx) error {
	orderID := c.Params("id")

	items, err := h.orders.ListOrderItems(c.Context(), orderID)
	if err != nil {
		return err
	}
	payment, err := h.orders.GetPayment(c.Context(), orderID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	itemViews := make([]fiber.Map, 0, len(items))
	for _, item := range items {
		itemViews = append(itemViews, fiber.Map{
			"id":                item.ID,
			"service_name":      item.ServiceName,
			"quantity":          item.Quantity,
			"unit_price_cents":  item.UnitPriceCents,
			"total_price_cents": item.TotalPriceCents,
		})
	}

	resp := fiber.Map{"items": itemViews}
	if payment != nil {
		resp["payment"] = fiber.Map{
			"status":       payment.Status,
			"provider_ref": payment.ProviderRef,
			"amount_cents": payment.AmountCents,
			"currency":     payment.Currency,
			"paid_at":      payment.PaidAt,
		}
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Deliver handles POST /admin/orders/deliver.
func (h *AdminHandler) Deliver(c *fiber.Ctx) error {
	return h.transition(c, h.orders.Deliver)
}

// Cancel handles POST /admin/orders/cancel.
func (h *AdminHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.orders.Cancel)
}

// ConfirmKickoff handles POST /admin/orders/kickoff.
func (h *AdminHandler) ConfirmKickoff(c *fiber.Ctx) error {
	var req dto.OrderActionForm
	if err := c.BodyParser(&req); err != nil || req.OrderID == "" {
		return redirectWithError(c, "/admin/orders", "order_not_found")
	}

	if err := h.orders.ConfirmKickoff(c.Context(), req.OrderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return redirectWithError(c, "/admin/orders", "order_not_found")
		}
		return err
	}
	return redirectWithSuccess(c, "/admin/orders", "kickoff_confirmed")
}

// Packages handles GET /admin/packages.
func (h *AdminHandler) Packages(c *fiber.Ctx) error {
	packages, err := h.catalog.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"packages": packagesView(packages)},
	})
}

// CreatePackage handles POST /admin/packages.
func (h *AdminHandler) CreatePackage(c *fiber.Ctx) error {
	var req dto.PackageForm
	if err := c.BodyParser(&req); err != nil {
		return redirectWithError(c, "/admin/packages", "missing_fields")
	}

	if _, err := h.catalog.CreatePackage(c.Context(), packageInput(req)); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return redirectWithError(c, "/admin/packages", "missing_fields")
		default:
			return err
		}
	}
	return redirectWithSuccess(c, "/admin/packages", "package_created")
}

// UpdatePackage handles POST /admin/packages/update.
func (h *AdminHandler) UpdatePackage(c *fiber.Ctx) error {
	var req dto.PackageForm
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return redirectWithError(c, "/admin/packages", "package_not_found")
	}

	if _, err := h.catalog.UpdatePackage(c.Context(), req.ID, packageInput(req)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return redirectWithError(c, "/admin/packages", "package_not_found")
		}
		return err
	}
	return redirectWithSuccess(c, "/admin/packages", "package_updated")
}

// SeedPackages handles POST /admin/packages/seed.
func (h *AdminHandler) SeedPackages(c *fiber.Ctx) error {
	if err := h.catalog.SeedDefaults(c.Context()); err != nil {
		return err
	}
	return redirectWithSuccess(c, "/admin/packages", "packages_seeded")
}

// ToggleAcceptingOrders handles POST /admin/settings/accepting-orders. The
// redirect reports the new state.
func (h *AdminHandler) ToggleAcceptingOrders(c *fiber.Ctx) error {
	var req dto.AcceptingOrdersForm
	if err := c.BodyParser(&req); err != nil {
		return redirectWithError(c, "/admin/orders", "missing_fields")
	}

	setting, err := h.settings.SetAcceptingOrders(c.Context(), dto.Checked(req.AcceptingOrders))
	if err != nil {
		return err
	}
	if setting.AcceptingOrders {
		return c.Redirect("/admin/orders?orders=open", fiber.StatusSeeOther)
	}
	return c.Redirect("/admin/orders?orders=closed", fiber.StatusSeeOther)
}

func (h *AdminHandler) transition(c *fiber.Ctx, apply func(ctx context.Context, orderID string) (*domain.Order, error)) error {
	var req dto.OrderActionForm
	if err := c.BodyParser(&req); err != nil || req.OrderID == "" {
		return redirectWithError(c, "/admin/orders", "order_not_found")
	}

	if _, err := apply(c.Context(), req.OrderID); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return redirectWithError(c, "/admin/orders", "order_not_found")
		case errors.Is(err, service.ErrInvalidTransition):
			return redirectWithError(c, "/admin/orders", "invalid_transition")
		default:
			return err
		}
	}
	return redirectWithSuccess(c, "/admin/orders", "order_updated")
}

func packageInput(req dto.PackageForm) service.PackageInput {
	return service.PackageInput{
		Name:                req.Name,
		Slug:                req.Slug,
		Summary:             req.Summary,
		PriceRaw:            req.Price,
		MaxPagesRaw:         req.MaxPages,
		IsCustomQuote:       dto.Checked(req.IsCustomQuote),
		IncludesBackend:     dto.Checked(req.IncludesBackend),
		IncludesDatabase:    dto.Checked(req.IncludesDatabase),
		IncludesHosting:     dto.Checked(req.IncludesHosting),
		IncludesAdminPanel:  dto.Checked(req.IncludesAdminPanel),
		RequiresKickoffCall: dto.Checked(req.RequiresKickoffCall),
		Status:              domain.PackageStatus(req.Status),
	}
}
