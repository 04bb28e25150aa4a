package handlers

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"staffing-portal/config"
	"staffing-portal/database"
	"staffing-portal/handlers"
	"staffing-portal/model"
	"staffing-portal/payments"
	"staffing-portal/router"
	"staffing-portal/service"
)

const testSecret = "test-signing-secret"

type env struct {
	app      *fiber.App
	users    *fakeUsers
	clients  *fakeClients
	shows    *fakeShows
	bookings *fakeBookings
	intents  *fakeIntents
	gateway  *fakeGateway
}

func newTestApp() *env {
	e := &env{
		users:    &fakeUsers{byLogin: map[string]model.UserData{}},
		clients:  &fakeClients{byID: map[primitive.ObjectID]model.Client{}},
		shows:    &fakeShows{byID: map[primitive.ObjectID]model.Show{}},
		bookings: &fakeBookings{byID: map[primitive.ObjectID]model.Booking{}},
		intents:  &fakeIntents{byID: map[primitive.ObjectID]model.BookingIntent{}},
		gateway:  newFakeGateway(),
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := service.New(service.Deps{
		Clients:  e.clients,
		Shows:    e.shows,
		Bookings: e.bookings,
		Intents:  e.intents,
		Gateway:  e.gateway,
		Billing: config.BillingConfig{
			BookingFeeCents: 5000,
			FinalRateCents:  20000,
			MinChargeCents:  50,
			Currency:        "usd",
		},
		BaseURL: "https://portal.example",
		Log:     log,
	})

	h := handlers.New(handlers.Deps{
		Service:      svc,
		Users:        e.users,
		Clients:      e.clients,
		Shows:        e.shows,
		Staff:        &fakeStaff{},
		Availability: &fakeAvailability{},
		Bookings:     e.bookings,
		Gateway:      e.gateway,
		JWTSecret:    testSecret,
		Log:          log,
	})

	e.app = fiber.New()
	router.SetupRoutes(e.app, h, testSecret)
	return e
}

func signToken(role string, entityID primitive.ObjectID) string {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["username"] = "tester"
	claims["role"] = role
	claims["entity_id"] = entityID.Hex()
	claims["exp"] = time.Now().Add(time.Hour).Unix()

	signed, _ := token.SignedString([]byte(testSecret))
	return signed
}

func hashPassword(pass string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.MinCost)
	return string(hash)
}

type fakeUsers struct {
	byLogin map[string]model.UserData
}

func (s *fakeUsers) GetByLogin(ctx context.Context, login string) (model.UserData, error) {
	user, ok := s.byLogin[login]
	if !ok {
		return model.UserData{}, database.ErrNoDocument
	}
	return user, nil
}

type fakeClients struct {
	byID map[primitive.ObjectID]model.Client
}

func (s *fakeClients) GetByID(ctx context.Context, id primitive.ObjectID) (model.Client, error) {
	client, ok := s.byID[id]
	if !ok {
		return model.Client{}, database.ErrNoDocument
	}
	return client, nil
}

func (s *fakeClients) SetStripeCustomer(ctx context.Context, id primitive.ObjectID, customerID string) error {
	client := s.byID[id]
	client.StripeCustomerId = customerID
	s.byID[id] = client
	return nil
}

func (s *fakeClients) Update(ctx context.Context, client model.Client) error {
	s.byID[client.Id] = client
	return nil
}

func (s *fakeClients) AddContact(ctx context.Context, id primitive.ObjectID, contact model.Contact) error {
	client := s.byID[id]
	client.Contacts = append(client.Contacts, contact)
	s.byID[id] = client
	return nil
}

func (s *fakeClients) AddLocation(ctx context.Context, id primitive.ObjectID, location model.Location) error {
	client := s.byID[id]
	client.Locations = append(client.Locations, location)
	s.byID[id] = client
	return nil
}

type fakeShows struct {
	byID map[primitive.ObjectID]model.Show
}

func (s *fakeShows) GetByID(ctx context.Context, id primitive.ObjectID) (model.Show, error) {
	show, ok := s.byID[id]
	if !ok {
		return model.Show{}, database.ErrNoDocument
	}
	return show, nil
}

func (s *fakeShows) List(ctx context.Context) ([]model.Show, error) {
	shows := []model.Show{}
	for _, show := range s.byID {
		shows = append(shows, show)
	}
	return shows, nil
}

func (s *fakeShows) Insert(ctx context.Context, show model.Show) error {
	s.byID[show.Id] = show
	return nil
}

func (s *fakeShows) Update(ctx context.Context, show model.Show) error {
	s.byID[show.Id] = show
	return nil
}

func (s *fakeShows) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(s.byID, id)
	return nil
}

type fakeStaff struct{}

func (s *fakeStaff) GetByID(ctx context.Context, id primitive.ObjectID) (model.Staff, error) {
	return model.Staff{}, database.ErrNoDocument
}

func (s *fakeStaff) List(ctx context.Context) ([]model.Staff, error) {
	return []model.Staff{}, nil
}

type fakeAvailability struct {
	records []model.Availability
}

func (s *fakeAvailability) Upsert(ctx context.Context, availability model.Availability) error {
	s.records = append(s.records, availability)
	return nil
}

func (s *fakeAvailability) List(ctx context.Context, staffID, showID *primitive.ObjectID) ([]model.Availability, error) {
	return s.records, nil
}

type fakeBookings struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]model.Booking
}

func (s *fakeBookings) GetByID(ctx context.Context, id primitive.ObjectID) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.byID[id]
	if !ok {
		return model.Booking{}, database.ErrNoDocument
	}
	return booking, nil
}

func (s *fakeBookings) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bookings := []model.Booking{}
	for _, booking := range s.byID {
		if booking.ClientId == clientID {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (s *fakeBookings) ListAll(ctx context.Context) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bookings := []model.Booking{}
	for _, booking := range s.byID {
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

func (s *fakeBookings) Insert(ctx context.Context, booking model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[booking.Id] = booking
	return nil
}

func (s *fakeBookings) Update(ctx context.Context, booking model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[booking.Id] = booking
	return nil
}

type fakeIntents struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]model.BookingIntent
}

func (s *fakeIntents) GetByID(ctx context.Context, id primitive.ObjectID) (model.BookingIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	intent, ok := s.byID[id]
	if !ok {
		return model.BookingIntent{}, database.ErrNoDocument
	}
	return intent, nil
}

func (s *fakeIntents) GetBySessionID(ctx context.Context, sessionID string) (model.BookingIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, intent := range s.byID {
		if intent.CheckoutSessionId == sessionID {
			return intent, nil
		}
	}
	return model.BookingIntent{}, database.ErrNoDocument
}

func (s *fakeIntents) Insert(ctx context.Context, intent model.BookingIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[intent.Id] = intent
	return nil
}

func (s *fakeIntents) Consume(ctx context.Context, id, bookingID primitive.ObjectID, at time.Time) (model.BookingIntent, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	intent, ok := s.byID[id]
	if !ok {
		return model.BookingIntent{}, false, database.ErrNoDocument
	}
	if intent.ConsumedAt != nil {
		return intent, false, nil
	}
	stamp := at.Format(time.RFC3339)
	intent.ConsumedAt = &stamp
	intent.BookingId = &bookingID
	s.byID[id] = intent
	return intent, true, nil
}

func (s *fakeIntents) Unconsume(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	intent := s.byID[id]
	intent.ConsumedAt = nil
	intent.BookingId = nil
	s.byID[id] = intent
	return nil
}

func (s *fakeIntents) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

// fakeGateway scripts the provider: webhook payloads with the signature
// header "valid" verify into the scripted event, everything else fails.
type fakeGateway struct {
	sessions      map[string]payments.Session
	webhookEvent  payments.Event
	getSessionErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]payments.Session{}}
}

func (g *fakeGateway) EnsureCustomer(ctx context.Context, name, email string) (string, error) {
	return "cus_test", nil
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, params payments.CheckoutParams) (payments.Session, error) {
	session := payments.Session{
		ID:          "cs_new",
		URL:         "https://checkout.example/cs_new",
		CustomerID:  params.CustomerID,
		AmountCents: params.AmountCents,
		Metadata:    params.Metadata,
	}
	g.sessions[session.ID] = session
	return session, nil
}

func (g *fakeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (payments.Session, error) {
	if g.getSessionErr != nil {
		return payments.Session{}, g.getSessionErr
	}
	session, ok := g.sessions[sessionID]
	if !ok {
		return payments.Session{}, stderrors.New("no such checkout session")
	}
	return session, nil
}

func (g *fakeGateway) FindSessionByPaymentIntent(ctx context.Context, paymentIntentID string) (payments.Session, bool, error) {
	return payments.Session{}, false, nil
}

func (g *fakeGateway) GetPaymentIntentMetadata(ctx context.Context, paymentIntentID string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (g *fakeGateway) ChargeOffSession(ctx context.Context, params payments.ChargeParams) (payments.Charge, error) {
	return payments.Charge{PaymentIntentID: "pi_final", AmountCents: params.AmountCents}, nil
}

func (g *fakeGateway) VerifyWebhook(payload []byte, signature string) (payments.Event, error) {
	if signature != "valid" {
		return payments.Event{}, stderrors.New("signature mismatch")
	}
	return g.webhookEvent, nil
}
