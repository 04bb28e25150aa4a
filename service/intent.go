package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"staffing-portal/database"
	"staffing-portal/errors"
	"staffing-portal/model"
	"staffing-portal/payments"
)

type CreateIntentInput struct {
	ClientID          primitive.ObjectID
	ShowID            primitive.ObjectID
	Notes             string
	DatesNeeded       []model.DateNeed
	PrimaryContactID  primitive.ObjectID
	PrimaryLocationID primitive.ObjectID
}

type CreateIntentResult struct {
	IntentID    primitive.ObjectID `json:"intent_id"`
	SessionID   string             `json:"session_id"`
	CheckoutURL string             `json:"checkout_url"`
}

// CreateIntent records a prospective booking and opens a hosted checkout
// session for the flat booking fee. The intent id is tagged onto both the
// session and its payment intent so either webhook object can be correlated
// back.
func (s *Service) CreateIntent(ctx context.Context, in CreateIntentInput) (CreateIntentResult, error) {
	if len(in.DatesNeeded) == 0 {
		return CreateIntentResult{}, fmt.Errorf("%w: at least one show date is required", errors.ErrValidation)
	}
	for _, d := range in.DatesNeeded {
		if d.Date == "" {
			return CreateIntentResult{}, fmt.Errorf("%w: every dates_needed entry needs a date", errors.ErrValidation)
		}
	}
	if s.billing.BookingFeeCents < s.billing.MinChargeCents {
		return CreateIntentResult{}, fmt.Errorf("%w: booking fee %v is below the minimum chargeable amount %v",
			errors.ErrValidation, s.billing.BookingFeeCents, s.billing.MinChargeCents)
	}

	show, err := s.shows.GetByID(ctx, in.ShowID)
	if err == database.ErrNoDocument {
		return CreateIntentResult{}, fmt.Errorf("%w: show %v does not exist", errors.ErrNotFound, in.ShowID.Hex())
	}
	if err != nil {
		return CreateIntentResult{}, err
	}

	client, err := s.clients.GetByID(ctx, in.ClientID)
	if err == database.ErrNoDocument {
		return CreateIntentResult{}, fmt.Errorf("%w: client %v does not exist", errors.ErrNotFound, in.ClientID.Hex())
	}
	if err != nil {
		return CreateIntentResult{}, err
	}

	customerID, err := s.ensureCustomer(ctx, client)
	if err != nil {
		return CreateIntentResult{}, err
	}

	intent := model.BookingIntent{
		Id:       primitive.NewObjectID(),
		ClientId: in.ClientID,
		ShowId:   in.ShowID,
		ShowName: model.ResolveShowName("", model.ShowSnapshot{}, &show),
		ShowData: model.ShowSnapshot{
			Name:      show.Name,
			Location:  show.Location,
			StartDate: show.StartDate,
			EndDate:   show.EndDate,
		},
		DatesNeeded:       in.DatesNeeded,
		Notes:             in.Notes,
		TotalStaffNeeded:  model.TotalStaffDays(in.DatesNeeded),
		BookingFeeCents:   s.billing.BookingFeeCents,
		PrimaryContactId:  in.PrimaryContactID,
		PrimaryLocationId: in.PrimaryLocationID,
		CreatedAt:         time.Now().Format(time.RFC3339),
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.CheckoutParams{
		AmountCents: intent.BookingFeeCents,
		Currency:    s.billing.Currency,
		CustomerID:  customerID,
		Description: fmt.Sprintf("Booking deposit for %v", intent.ShowName),
		SuccessURL:  s.baseURL + "/booking/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.baseURL + "/booking/canceled",
		Metadata:    map[string]string{intentMetadataKey: intent.Id.Hex()},
	})
	if err != nil {
		return CreateIntentResult{}, fmt.Errorf("%w: %v", errors.ErrGateway, err)
	}
	intent.CheckoutSessionId = session.ID

	if err := s.intents.Insert(ctx, intent); err != nil {
		// The orphaned session will expire on its own at the provider.
		return CreateIntentResult{}, err
	}

	s.log.WithFields(logrus.Fields{
		"intent_id":  intent.Id.Hex(),
		"client_id":  in.ClientID.Hex(),
		"show_id":    in.ShowID.Hex(),
		"session_id": session.ID,
	}).Info("booking intent created")

	return CreateIntentResult{
		IntentID:    intent.Id,
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}

func (s *Service) ensureCustomer(ctx context.Context, client model.Client) (string, error) {
	if client.StripeCustomerId != "" {
		return client.StripeCustomerId, nil
	}

	customerID, err := s.gateway.EnsureCustomer(ctx, client.CompanyName, client.Email)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrGateway, err)
	}
	if err := s.clients.SetStripeCustomer(ctx, client.Id, customerID); err != nil {
		return "", err
	}
	return customerID, nil
}
