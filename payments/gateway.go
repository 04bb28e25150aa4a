package payments

import (
	"context"
	"errors"
)

// ErrAuthenticationRequired marks an off-session charge declined because the
// stored payment method needs the cardholder to authenticate interactively.
// The final-fee flow recovers from it by falling back to hosted checkout.
var ErrAuthenticationRequired = errors.New("payment method requires authentication")

type CheckoutParams struct {
	AmountCents int64
	Currency    string
	CustomerID  string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type ChargeParams struct {
	AmountCents int64
	Currency    string
	CustomerID  string
	Description string
	Metadata    map[string]string
}

type Session struct {
	ID              string
	URL             string
	PaymentIntentID string
	CustomerID      string
	AmountCents     int64
	Complete        bool
	Metadata        map[string]string
}

type Charge struct {
	PaymentIntentID string
	AmountCents     int64
}

// Event is a provider webhook event normalized to the fields the
// reconciliation flow needs. Metadata carries the checkout session's or
// payment intent's metadata depending on the event's object type.
type Event struct {
	ID              string
	Type            string
	SessionID       string
	PaymentIntentID string
	CustomerID      string
	AmountCents     int64
	Metadata        map[string]string
}

// Gateway is the payment provider surface used by the booking flow.
// The production implementation wraps Stripe; tests substitute a fake.
type Gateway interface {
	EnsureCustomer(ctx context.Context, name, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (Session, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (Session, error)
	FindSessionByPaymentIntent(ctx context.Context, paymentIntentID string) (Session, bool, error)
	GetPaymentIntentMetadata(ctx context.Context, paymentIntentID string) (map[string]string, error)
	ChargeOffSession(ctx context.Context, params ChargeParams) (Charge, error)
	VerifyWebhook(payload []byte, signature string) (Event, error)
}
