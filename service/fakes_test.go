package service

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"staffing-portal/config"
	"staffing-portal/database"
	"staffing-portal/model"
	"staffing-portal/payments"
)

type fakeIntents struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]model.BookingIntent
}

func newFakeIntents(intents ...model.BookingIntent) *fakeIntents {
	store := &fakeIntents{byID: map[primitive.ObjectID]model.BookingIntent{}}
	for _, intent := range intents {
		store.byID[intent.Id] = intent
	}
	return store
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
	intent, ok := s.byID[id]
	if !ok {
		return database.ErrNoDocument
	}
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

type fakeBookings struct {
	mu        sync.Mutex
	byID      map[primitive.ObjectID]model.Booking
	insertErr error
}

func newFakeBookings(bookings ...model.Booking) *fakeBookings {
	store := &fakeBookings{byID: map[primitive.ObjectID]model.Booking{}}
	for _, booking := range bookings {
		store.byID[booking.Id] = booking
	}
	return store
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
	if s.insertErr != nil {
		return s.insertErr
	}
	s.byID[booking.Id] = booking
	return nil
}

func (s *fakeBookings) Update(ctx context.Context, booking model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[booking.Id] = booking
	return nil
}

func (s *fakeBookings) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

type fakeClients struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]model.Client
}

func newFakeClients(clients ...model.Client) *fakeClients {
	store := &fakeClients{byID: map[primitive.ObjectID]model.Client{}}
	for _, client := range clients {
		store.byID[client.Id] = client
	}
	return store
}

func (s *fakeClients) GetByID(ctx context.Context, id primitive.ObjectID) (model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.byID[id]
	if !ok {
		return model.Client{}, database.ErrNoDocument
	}
	return client, nil
}

func (s *fakeClients) SetStripeCustomer(ctx context.Context, id primitive.ObjectID, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	client := s.byID[id]
	client.StripeCustomerId = customerID
	s.byID[id] = client
	return nil
}

func (s *fakeClients) Update(ctx context.Context, client model.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[client.Id] = client
	return nil
}

func (s *fakeClients) AddContact(ctx context.Context, id primitive.ObjectID, contact model.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	client := s.byID[id]
	client.Contacts = append(client.Contacts, contact)
	s.byID[id] = client
	return nil
}

func (s *fakeClients) AddLocation(ctx context.Context, id primitive.ObjectID, location model.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	client := s.byID[id]
	client.Locations = append(client.Locations, location)
	s.byID[id] = client
	return nil
}

type fakeShows struct {
	byID map[primitive.ObjectID]model.Show
}

func newFakeShows(shows ...model.Show) *fakeShows {
	store := &fakeShows{byID: map[primitive.ObjectID]model.Show{}}
	for _, show := range shows {
		store.byID[show.Id] = show
	}
	return store
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

// fakeGateway scripts the provider side: sessions and payment intents are
// looked up from maps, ChargeOffSession answers with chargeErr when set.
type fakeGateway struct {
	mu sync.Mutex

	sessions   map[string]payments.Session
	piMetadata map[string]map[string]string

	customerID string
	chargeErr  error

	createdSessions []payments.CheckoutParams
	charges         []payments.ChargeParams
	nextSessionID   string
	nextSessionURL  string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		sessions:       map[string]payments.Session{},
		piMetadata:     map[string]map[string]string{},
		customerID:     "cus_test",
		nextSessionID:  "cs_new",
		nextSessionURL: "https://checkout.example/cs_new",
	}
}

func (g *fakeGateway) EnsureCustomer(ctx context.Context, name, email string) (string, error) {
	return g.customerID, nil
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, params payments.CheckoutParams) (payments.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createdSessions = append(g.createdSessions, params)
	session := payments.Session{
		ID:          g.nextSessionID,
		URL:         g.nextSessionURL,
		CustomerID:  params.CustomerID,
		AmountCents: params.AmountCents,
		Metadata:    params.Metadata,
	}
	g.sessions[session.ID] = session
	return session, nil
}

func (g *fakeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (payments.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	session, ok := g.sessions[sessionID]
	if !ok {
		return payments.Session{}, stderrors.New("no such checkout session")
	}
	return session, nil
}

func (g *fakeGateway) FindSessionByPaymentIntent(ctx context.Context, paymentIntentID string) (payments.Session, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, session := range g.sessions {
		if session.PaymentIntentID == paymentIntentID {
			return session, true, nil
		}
	}
	return payments.Session{}, false, nil
}

func (g *fakeGateway) GetPaymentIntentMetadata(ctx context.Context, paymentIntentID string) (map[string]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	metadata, ok := g.piMetadata[paymentIntentID]
	if !ok {
		return map[string]string{}, nil
	}
	return metadata, nil
}

func (g *fakeGateway) ChargeOffSession(ctx context.Context, params payments.ChargeParams) (payments.Charge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.chargeErr != nil {
		return payments.Charge{}, g.chargeErr
	}
	g.charges = append(g.charges, params)
	return payments.Charge{PaymentIntentID: "pi_final", AmountCents: params.AmountCents}, nil
}

func (g *fakeGateway) VerifyWebhook(payload []byte, signature string) (payments.Event, error) {
	return payments.Event{}, nil
}

type testEnv struct {
	svc      *Service
	intents  *fakeIntents
	bookings *fakeBookings
	clients  *fakeClients
	shows    *fakeShows
	gateway  *fakeGateway
}

func newTestEnv() *testEnv {
	env := &testEnv{
		intents:  newFakeIntents(),
		bookings: newFakeBookings(),
		clients:  newFakeClients(),
		shows:    newFakeShows(),
		gateway:  newFakeGateway(),
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	env.svc = New(Deps{
		Clients:  env.clients,
		Shows:    env.shows,
		Bookings: env.bookings,
		Intents:  env.intents,
		Gateway:  env.gateway,
		Billing: config.BillingConfig{
			BookingFeeCents: 5000,
			FinalRateCents:  20000,
			MinChargeCents:  50,
			Currency:        "usd",
		},
		BaseURL: "https://portal.example",
		Log:     log,
	})
	return env
}
