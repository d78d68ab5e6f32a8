package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tidywork/studio-service/internal/api/dto"
	"github.com/tidywork/studio-service/internal/auth"
	"github.com/tidywork/studio-service/internal/service"
)

// CartHandler exposes cart mutations for authenticated customers.
type CartHandler struct {
	carts *service.CartService
}

// NewCartHandler constructs handler.
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{carts: cartService}
}

// Add handles POST /cart/items.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	user, _ := auth.CurrentUser(c)

	var req dto.AddToCartForm
	if err := c.BodyParser(&req); err != nil || req.Slug == "" {
		return c.Redirect("/cart", fiber.StatusSeeOther)
	}

	if err := h.carts.AddService(c.Context(), user.ID, req.Slug); err != nil {
		if code, ok := cartErrorCode(err); ok {
			return redirectWithError(c, "/cart", code)
		}
		if errors.Is(err, service.ErrPackageNotFound) {
			return c.Redirect("/cart", fiber.StatusSeeOther)
		}
		return err
	}
	return c.Redirect("/cart", fiber.StatusSeeOther)
}

// UpdateQuantity handles POST /cart/items/quantity. Quantity zero or below
// removes the item.
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	user, _ := auth.CurrentUser(c)

	var req dto.CartQuantityForm
	if err := c.BodyParser(&req); err != nil || req.ItemID == "" {
		return c.Redirect("/cart", fiber.StatusSeeOther)
	}

	if err := h.carts.UpdateItemQuantity(c.Context(), user.ID, req.ItemID, req.Quantity); err != nil {
		if code, ok := cartErrorCode(err); ok {
			return redirectWithError(c, "/cart", code)
		}
		return err
	}
	return c.Redirect("/cart", fiber.StatusSeeOther)
}

// Remove handles POST /cart/items/remove.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	user, _ := auth.CurrentUser(c)

	var req dto.CartItemForm
	if err := c.BodyParser(&req); err != nil || req.ItemID == "" {
		return c.Redirect("/cart", fiber.StatusSeeOther)
	}

	if err := h.carts.RemoveItem(c.Context(), user.ID, req.ItemID); err != nil {
		if code, ok := cartErrorCode(err); ok {
			return redirectWithError(c, "/cart", code)
		}
		return err
	}
	return c.Redirect("/cart", fiber.StatusSeeOther)
}

func cartErrorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrCartUnavailable):
		return "cart_unavailable", true
	case errors.Is(err, service.ErrOrdersClosed):
		return "orders_closed", true
	default:
		return "", false
	}
}
