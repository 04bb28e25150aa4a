package router

import (
	"staffing-portal/handlers"
	"staffing-portal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App, h *handlers.Handler, signingKey string) {
	api := app.Group("/", logger.New())
	api.Get("/health", h.GetHealth)

	//Login
	login := api.Group("/login")
	login.Post("/", h.Login)

	//Webhook: signature-verified, sits outside the JWT gate
	webhook := api.Group("/webhook")
	webhook.Post("/stripe", h.StripeWebhook)

	authorized := api.Group("/", middleware.Authorize(signingKey))

	//Show
	show := authorized.Group("/show")
	show.Get("/", h.GetShows)
	show.Get("/:id", h.GetShow)
	show.Post("/", h.CreateShow)
	show.Put("/:id", h.UpdateShow)
	show.Delete("/:id", h.DeleteShow)

	//Booking
	booking := authorized.Group("/booking")
	booking.Post("/checkout-session", h.CreateCheckoutSession)
	booking.Get("/confirm", h.ConfirmSession)
	booking.Get("/", h.GetBookings)
	booking.Get("/:id", h.GetBooking)
	booking.Post("/:id/final-charge", h.ChargeFinalFee)
	booking.Patch("/:id/staffing", h.AssignStaffing)

	//Availability
	availability := authorized.Group("/availability")
	availability.Post("/", h.SubmitAvailability)
	availability.Get("/", h.GetAvailability)

	//Staff directory
	authorized.Get("/staff", h.GetStaffList)

	//Client profile
	client := authorized.Group("/client/me")
	client.Get("/", h.GetOwnClient)
	client.Put("/", h.UpdateOwnClient)
	client.Post("/contacts", h.AddClientContact)
	client.Post("/locations", h.AddClientLocation)
}
