package database

import (
	"context"
	"errors"
	"time"

	"staffing-portal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNoDocument is returned by single-record lookups that match nothing.
var ErrNoDocument = errors.New("no document found")

type UserStore interface {
	GetByLogin(ctx context.Context, login string) (model.UserData, error)
}

type ClientStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (model.Client, error)
	SetStripeCustomer(ctx context.Context, id primitive.ObjectID, customerID string) error
	Update(ctx context.Context, client model.Client) error
	AddContact(ctx context.Context, id primitive.ObjectID, contact model.Contact) error
	AddLocation(ctx context.Context, id primitive.ObjectID, location model.Location) error
}

type ShowStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (model.Show, error)
	List(ctx context.Context) ([]model.Show, error)
	Insert(ctx context.Context, show model.Show) error
	Update(ctx context.Context, show model.Show) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type StaffStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (model.Staff, error)
	List(ctx context.Context) ([]model.Staff, error)
}

type AvailabilityStore interface {
	Upsert(ctx context.Context, availability model.Availability) error
	List(ctx context.Context, staffID, showID *primitive.ObjectID) ([]model.Availability, error)
}

type BookingStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (model.Booking, error)
	ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	Insert(ctx context.Context, booking model.Booking) error
	Update(ctx context.Context, booking model.Booking) error
}

// IntentStore persists booking intents. Consume is the single
// compare-and-set that guards against double promotion: it stamps
// consumed_at and booking_id only if consumed_at is still unset, and
// reports whether this caller won.
type IntentStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (model.BookingIntent, error)
	GetBySessionID(ctx context.Context, sessionID string) (model.BookingIntent, error)
	Insert(ctx context.Context, intent model.BookingIntent) error
	Consume(ctx context.Context, id, bookingID primitive.ObjectID, at time.Time) (model.BookingIntent, bool, error)
	Unconsume(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
