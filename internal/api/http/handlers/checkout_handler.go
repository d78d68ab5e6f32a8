package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tidywork/studio-service/internal/auth"
	"github.com/tidywork/studio-service/internal/service"
)

// CheckoutHandler starts provider checkout sessions.
type CheckoutHandler struct {
	orders  *service.OrderService
	siteURL string
}

// NewCheckoutHandler constructs handler. siteURL may be empty, in which case
// forwarded headers decide the public base URL per request.
func NewCheckoutHandler(orderService *service.OrderService, siteURL string) *CheckoutHandler {
	return &CheckoutHandler{orders: orderService, siteURL: siteURL}
}

// Create handles POST /checkout: cart becomes a PENDING order and the browser
// is sent to the provider's hosted payment page.
func (h *CheckoutHandler) Create(c *fiber.Ctx) error {
	user, _ := auth.CurrentUser(c)

	url, err := h.orders.CreateCheckoutSession(c.Context(), user, h.baseURL(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrdersClosed):
			return redirectWithError(c, "/cart", "orders_closed")
		case errors.Is(err, service.ErrCartUnavailable):
			return redirectWithError(c, "/cart", "cart_unavailable")
		case errors.Is(err, service.ErrEmptyCart):
			return redirectWithError(c, "/cart", "empty_cart")
		case errors.Is(err, service.ErrCustomQuoteCheckout):
			return redirectWithError(c, "/cart", "custom_quote_checkout")
		case errors.Is(err, service.ErrCheckoutUnavailable):
			return redirectWithError(c, "/cart", "checkout_unavailable")
		default:
			return err
		}
	}
	return c.Redirect(url, fiber.StatusSeeOther)
}

// baseURL resolves the public site URL: configuration first, then forwarded
// headers, then a loopback default.
func (h *CheckoutHandler) baseURL(c *fiber.Ctx) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	host := c.Get("X-Forwarded-Host")
	if host == "" {
		host = c.Hostname()
	}
	if host != "" {
		proto := c.Get("X-Forwarded-Proto")
		if proto == "" {
			proto = "https"
		}
		return proto + "://" + host
	}
	return "http://localhost:3000"
}
