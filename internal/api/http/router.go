package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tidywork/studio-service/internal/api/http/handlers"
	"github.com/tidywork/studio-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Pages    *handlers.PagesHandler
	Auth     *handlers.AuthHandler
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Admin    *handlers.AdminHandler
	Webhook  *handlers.WebhookHandler
	Session  *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Provider callbacks carry no session and authenticate by signature.
	app.Post("/api/stripe/webhook", cfg.Webhook.HandleStripe)

	app.Use(cfg.Session.Handle)

	app.Get("/", cfg.Pages.Home)
	app.Post("/register", cfg.Auth.Register)
	app.Post("/login", cfg.Auth.Login)
	app.Post("/logout", cfg.Auth.Logout)

	user := app.Group("", auth.RequireUser())
	user.Get("/cart", cfg.Pages.Cart)
	user.Post("/cart/items", cfg.Cart.Add)
	user.Post("/cart/items/quantity", cfg.Cart.UpdateQuantity)
	user.Post("/cart/items/remove", cfg.Cart.Remove)
	user.Post("/checkout", cfg.Checkout.Create)
	user.Get("/checkout/success", cfg.Pages.CheckoutSuccess)
	user.Get("/account", cfg.Pages.Account)
	user.Post("/account/profile/email", cfg.Auth.UpdateEmail)
	user.Post("/account/profile/password", cfg.Auth.UpdatePassword)

	admin := app.Group("/admin", auth.RequireAdmin())
	admin.Get("/orders", cfg.Admin.Orders)
	admin.Get("/orders/:id", cfg.Admin.OrderDetail)
	admin.Post("/orders/deliver", cfg.Admin.Deliver)
	admin.Post("/orders/cancel", cfg.Admin.Cancel)
	admin.Post("/orders/kickoff", cfg.Admin.ConfirmKickoff)
	admin.Get("/packages", cfg.Admin.Packages)
	admin.Post("/packages", cfg.Admin.CreatePackage)
	admin.Post("/packages/update", cfg.Admin.UpdatePackage)
	admin.Post("/packages/seed", cfg.Admin.SeedPackages)
	admin.Post("/settings/accepting-orders", cfg.Admin.ToggleAcceptingOrders)
}
