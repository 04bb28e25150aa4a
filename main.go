package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"staffing-portal/config"
	"staffing-portal/database"
	"staffing-portal/handlers"
	"staffing-portal/payments"
	"staffing-portal/router"
	"staffing-portal/service"
)

func main() {
	godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close(ctx)

	gateway := payments.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	svc := service.New(service.Deps{
		Clients:  db.Clients,
		Shows:    db.Shows,
		Bookings: db.Bookings,
		Intents:  db.Intents,
		Gateway:  gateway,
		Billing:  cfg.Billing,
		BaseURL:  cfg.BaseURL,
		Log:      log,
	})

	h := handlers.New(handlers.Deps{
		Service:      svc,
		Users:        db.Users,
		Clients:      db.Clients,
		Shows:        db.Shows,
		Staff:        db.Staff,
		Availability: db.Availability,
		Bookings:     db.Bookings,
		Gateway:      gateway,
		JWTSecret:    cfg.JWTSecret,
		Log:          log,
	})

	app := fiber.New()

	router.SetupRoutes(app, h, cfg.JWTSecret)

	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
