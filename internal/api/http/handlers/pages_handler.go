package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tidywork/studio-service/internal/auth"
	"github.com/tidywork/studio-service/internal/domain"
	"github.com/tidywork/studio-service/internal/service"
)

// PagesHandler serves the page data the front end renders: the storefront,
// the cart, and the customer workspace.
type PagesHandler struct {
	catalog  *service.CatalogService
	carts    *service.CartService
	orders   *service.OrderService
	settings *service.SettingsService
}

// NewPagesHandler constructs handler.
func NewPagesHandler(catalog *service.CatalogService, carts *service.CartService, orders *service.OrderService, settings *service.SettingsService) *PagesHandler {
	return &PagesHandler{catalog: catalog, carts: carts, orders: orders, settings: settings}
}

// Home handles GET /.
func (h *PagesHandler) Home(c *fiber.Ctx) error {
	packages, err := h.catalog.ListActive(c.Context())
	if err != nil {
		return err
	}
	setting, err := h.settings.Get(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"packages":         packagesView(packages),
			"accepting_orders": setting.AcceptingOrders,
		},
	})
}

// Cart handles GET /cart.
func (h *PagesHandler) Cart(c *fiber.Ctx) error {
	user, _ := auth.CurrentUser(c)

	_, lines, err := h.carts.GetCart(c.Context(), user.ID)
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(lines))
	var subtotalCents int64
	hasCustomQuote := false
	for _, line := range lines {
		subtotalCents += line.LineTotalCents()
		if !line.Package.Purchasable() {
			hasCustomQuote = true
		}
		items = append(items, fiber.Map{
			"id":               line.Item.ID,
			"quantity":         line.Item.Quantity,
			"line_total_cents": line.LineTotalCents(),
			"package":          packageView(line.Package),
		})
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"items":            items,
			"subtotal_cents":   subtotalCents,
			"currency":         domain.DefaultCurrency,
			"has_custom_quote": hasCustomQuote,
		},
	})
}

// Account handles GET /account: the customer workspace with order history.
func (h *PagesHandler) Account(c *fiber.Ctx) error {
	user, _ := auth.CurrentUser(c)

	orders, err := h.orders.ListUserOrders(c.Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":         user.ID,
				"email":      user.Email,
				"role":       user.Role,
				"first_name": user.FirstName,
				"last_name":  user.LastName,
			},
			"orders": ordersView(orders),
		},
	})
}

// CheckoutSuccess handles GET /checkout/success.
func (h *PagesHandler) CheckoutSuccess(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"status":     "complete",
			"session_id": c.Query("session_id"),
		},
	})
}

func packageView(pkg domain.ServicePackage) fiber.Map {
	return fiber.Map{
		"id":                    pkg.ID,
		"slug":                  pkg.Slug,
		"name":                  pkg.Name,
		"summary":               pkg.Summary,
		"price_cents":           pkg.PriceCents,
		"price_currency":        pkg.PriceCurrency,
		"is_custom_quote":       pkg.IsCustomQuote,
		"max_pages":             pkg.MaxPages,
		"includes_backend":      pkg.IncludesBackend,
		"includes_database":     pkg.IncludesDatabase,
		"includes_hosting":      pkg.IncludesHosting,
		"includes_admin_panel":  pkg.IncludesAdminPanel,
		"requires_kickoff_call": pkg.RequiresKickoffCall,
		"status":                pkg.Status,
	}
}

func packagesView(packages []domain.ServicePackage) []fiber.Map {
	result := make([]fiber.Map, 0, len(packages))
	for _, pkg := range packages {
		result = append(result, packageView(pkg))
	}
	return result
}

func orderView(order domain.Order) fiber.Map {
	return fiber.Map{
		"id":                        order.ID,
		"status":                    order.Status,
		"currency":                  order.Currency,
		"subtotal_cents":            order.SubtotalCents,
		"total_cents":               order.TotalCents,
		"requires_kickoff_call":     order.RequiresKickoffCall,
		"kickoff_call_confirmed":    order.KickoffCallConfirmed,
		"kickoff_call_confirmed_at": order.KickoffCallConfirmedAt,
		"delivered_at":              order.DeliveredAt,
		"support_expires_at":        order.SupportExpiresAt,
		"is_archived":               order.IsArchived,
		"created_at":                order.CreatedAt,
	}
}

func ordersView(orders []domain.Order) []fiber.Map {
	result := make([]fiber.Map, 0, len(orders))
	for _, order := range orders {
		result = append(result, orderView(order))
	}
	return result
}
