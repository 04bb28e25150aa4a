// Package service holds the booking-payment flow: intent creation, the two
// reconciliation paths that promote an intent into a booking, and the
// final-fee charger. Stores and the payment gateway are injected so tests
// can substitute fakes.
package service

import (
	"github.com/sirupsen/logrus"

	"staffing-portal/config"
	"staffing-portal/database"
	"staffing-portal/payments"
)

// metadata key carrying the intent id on checkout sessions and their
// payment intents
const intentMetadataKey = "booking_intent_id"

const bookingMetadataKey = "booking_id"

type Service struct {
	clients  database.ClientStore
	shows    database.ShowStore
	bookings database.BookingStore
	intents  database.IntentStore
	gateway  payments.Gateway
	billing  config.BillingConfig
	baseURL  string
	log      *logrus.Logger
}

type Deps struct {
	Clients  database.ClientStore
	Shows    database.ShowStore
	Bookings database.BookingStore
	Intents  database.IntentStore
	Gateway  payments.Gateway
	Billing  config.BillingConfig
	BaseURL  string
	Log      *logrus.Logger
}

func New(deps Deps) *Service {
	log := deps.Log
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		clients:  deps.Clients,
		shows:    deps.Shows,
		bookings: deps.Bookings,
		intents:  deps.Intents,
		gateway:  deps.Gateway,
		billing:  deps.Billing,
		baseURL:  deps.BaseURL,
		log:      log,
	}
}
