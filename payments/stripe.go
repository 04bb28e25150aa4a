package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
)

// StripeGateway is a thin wrapper around stripe-go. The API client is
// constructed explicitly and injected, not taken from the package-global key.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	return &StripeGateway{
		api:           client.New(secretKey, nil),
		webhookSecret: webhookSecret,
	}
}

func (g *StripeGateway) EnsureCustomer(ctx context.Context, name, email string) (string, error) {
	params := &stripe.CustomerParams{
		Name:  stripe.String(name),
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	cust, err := g.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe customer creation failed: %w", err)
	}
	return cust.ID, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if p.CustomerID != "" {
		params.Customer = stripe.String(p.CustomerID)
	}
	// The intent id rides on both the session and its payment intent, so
	// either object is enough to correlate an event back to the intent.
	for key, value := range p.Metadata {
		params.AddMetadata(key, value)
	}
	params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
		Metadata: p.Metadata,
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return Session{}, fmt.Errorf("stripe checkout session creation failed: %w", err)
	}
	return sessionFromStripe(sess), nil
}

func (g *StripeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return Session{}, fmt.Errorf("stripe checkout session lookup failed: %w", err)
	}
	return sessionFromStripe(sess), nil
}

// FindSessionByPaymentIntent resolves a session through the provider's list
// index. The index is eventually consistent, so a miss is reported as
// found=false rather than an error.
func (g *StripeGateway) FindSessionByPaymentIntent(ctx context.Context, paymentIntentID string) (Session, bool, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx

	iter := g.api.CheckoutSessions.List(params)
	for iter.Next() {
		return sessionFromStripe(iter.CheckoutSession()), true, nil
	}
	if err := iter.Err(); err != nil {
		return Session{}, false, fmt.Errorf("stripe checkout session list failed: %w", err)
	}
	return Session{}, false, nil
}

func (g *StripeGateway) GetPaymentIntentMetadata(ctx context.Context, paymentIntentID string) (map[string]string, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent lookup failed: %w", err)
	}
	return pi.Metadata, nil
}

func (g *StripeGateway) ChargeOffSession(ctx context.Context, p ChargeParams) (Charge, error) {
	params := &stripe.PaymentIntentParams{
		Amount:     stripe.Int64(p.AmountCents),
		Currency:   stripe.String(p.Currency),
		Customer:   stripe.String(p.CustomerID),
		Confirm:    stripe.Bool(true),
		OffSession: stripe.Bool(true),
	}
	if p.Description != "" {
		params.Description = stripe.String(p.Description)
	}
	for key, value := range p.Metadata {
		params.AddMetadata(key, value)
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok &&
			stripeErr.Code == stripe.ErrorCodeAuthenticationRequired {
			return Charge{}, ErrAuthenticationRequired
		}
		return Charge{}, fmt.Errorf("stripe off-session charge failed: %w", err)
	}
	return Charge{PaymentIntentID: pi.ID, AmountCents: pi.Amount}, nil
}

func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	event := Event{
		ID:   stripeEvent.ID,
		Type: string(stripeEvent.Type),
	}

	switch stripeEvent.Type {
	case "checkout.session.completed", "checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sess); err != nil {
			return Event{}, fmt.Errorf("cannot decode checkout session event: %w", err)
		}
		normalized := sessionFromStripe(&sess)
		event.SessionID = normalized.ID
		event.PaymentIntentID = normalized.PaymentIntentID
		event.CustomerID = normalized.CustomerID
		event.AmountCents = normalized.AmountCents
		event.Metadata = normalized.Metadata
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(stripeEvent.Data.Raw, &pi); err != nil {
			return Event{}, fmt.Errorf("cannot decode payment intent event: %w", err)
		}
		event.PaymentIntentID = pi.ID
		event.AmountCents = pi.Amount
		event.Metadata = pi.Metadata
		if pi.Customer != nil {
			event.CustomerID = pi.Customer.ID
		}
	}

	return event, nil
}

func sessionFromStripe(sess *stripe.CheckoutSession) Session {
	normalized := Session{
		ID:          sess.ID,
		URL:         sess.URL,
		AmountCents: sess.AmountTotal,
		Complete:    sess.Status == stripe.CheckoutSessionStatusComplete,
		Metadata:    sess.Metadata,
	}
	if sess.PaymentIntent != nil {
		normalized.PaymentIntentID = sess.PaymentIntent.ID
	}
	if sess.Customer != nil {
		normalized.CustomerID = sess.Customer.ID
	}
	return normalized
}
