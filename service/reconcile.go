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

// PaymentRef carries the provider-side identifiers captured at promotion
// time onto the new booking.
type PaymentRef struct {
	SessionID       string
	PaymentIntentID string
	CustomerID      string
	AmountCents     int64
}

type PromotionResult struct {
	BookingID  primitive.ObjectID `json:"booking_id"`
	Idempotent bool               `json:"idempotent"`
}

// ConfirmSession is the poll-side reconciliation trigger: the success page
// hands back a checkout session id, we verify with the provider that the
// session is complete and promote the underlying intent.
func (s *Service) ConfirmSession(ctx context.Context, sessionID string) (PromotionResult, error) {
	if sessionID == "" {
		return PromotionResult{}, fmt.Errorf("%w: session_id is required", errors.ErrValidation)
	}

	session, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return PromotionResult{}, fmt.Errorf("%w: %v", errors.ErrGateway, err)
	}
	if !session.Complete {
		return PromotionResult{}, fmt.Errorf("%w: checkout session %v is not complete", errors.ErrState, sessionID)
	}

	intentID, err := s.resolveIntentID(ctx, session.Metadata, session.PaymentIntentID, session.ID)
	if err != nil {
		return PromotionResult{}, err
	}

	return s.promote(ctx, intentID, PaymentRef{
		SessionID:       session.ID,
		PaymentIntentID: session.PaymentIntentID,
		CustomerID:      session.CustomerID,
		AmountCents:     session.AmountCents,
	})
}

// HandleGatewayEvent is the webhook-side reconciliation trigger. Errors are
// returned so the HTTP layer answers non-2xx and the provider retries;
// events that retrying cannot fix are acknowledged instead.
func (s *Service) HandleGatewayEvent(ctx context.Context, event payments.Event) error {
	log := s.log.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
	})

	// Final-fee traffic tags its sessions and payment intents with the
	// booking id instead of an intent id; those events settle the booking
	// directly and never go through intent resolution.
	if hex, ok := event.Metadata[bookingMetadataKey]; ok && hex != "" {
		switch event.Type {
		case "checkout.session.completed", "payment_intent.succeeded":
			return s.completeFinalFee(ctx, hex, PaymentRef{
				SessionID:       event.SessionID,
				PaymentIntentID: event.PaymentIntentID,
				CustomerID:      event.CustomerID,
				AmountCents:     event.AmountCents,
			}, log)
		case "checkout.session.expired":
			log.WithField("booking_id", hex).Info("final fee checkout expired, booking unchanged")
			return nil
		}
	}

	switch event.Type {
	case "checkout.session.completed":
		intentID, err := s.resolveIntentID(ctx, event.Metadata, event.PaymentIntentID, event.SessionID)
		if err != nil {
			log.WithError(err).Error("cannot resolve intent for completed checkout")
			return err
		}
		result, err := s.promote(ctx, intentID, PaymentRef{
			SessionID:       event.SessionID,
			PaymentIntentID: event.PaymentIntentID,
			CustomerID:      event.CustomerID,
			AmountCents:     event.AmountCents,
		})
		if err != nil {
			log.WithError(err).Error("intent promotion failed")
			return err
		}
		log.WithField("booking_id", result.BookingID.Hex()).
			WithField("idempotent", result.Idempotent).Info("checkout completed")
		return nil

	case "payment_intent.succeeded":
		// Fallback correlation path for deposits whose session event was
		// missed. Resolution through the provider's session index is
		// best-effort.
		intentID, err := s.resolveIntentID(ctx, event.Metadata, event.PaymentIntentID, event.SessionID)
		if err != nil {
			log.WithError(err).Error("cannot resolve intent for succeeded payment")
			return err
		}
		result, err := s.promote(ctx, intentID, PaymentRef{
			SessionID:       event.SessionID,
			PaymentIntentID: event.PaymentIntentID,
			CustomerID:      event.CustomerID,
			AmountCents:     event.AmountCents,
		})
		if err != nil {
			log.WithError(err).Error("intent promotion failed")
			return err
		}
		log.WithField("booking_id", result.BookingID.Hex()).
			WithField("idempotent", result.Idempotent).Info("payment succeeded")
		return nil

	case "checkout.session.expired":
		s.expireSession(ctx, event, log)
		return nil

	case "invoice.payment_succeeded":
		log.Info("invoice payment acknowledged")
		return nil

	default:
		log.Debug("ignoring unhandled event type")
		return nil
	}
}

// resolveIntentID finds the intent behind a session or payment intent,
// trying in order: direct metadata, the payment intent's metadata, and a
// lookup of the intent store by stored session id.
func (s *Service) resolveIntentID(ctx context.Context, metadata map[string]string, paymentIntentID, sessionID string) (primitive.ObjectID, error) {
	if hex, ok := metadata[intentMetadataKey]; ok && hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("%w: malformed intent id in metadata: %v", errors.ErrValidation, err)
		}
		return id, nil
	}

	if paymentIntentID != "" {
		piMetadata, err := s.gateway.GetPaymentIntentMetadata(ctx, paymentIntentID)
		if err == nil {
			if hex, ok := piMetadata[intentMetadataKey]; ok && hex != "" {
				id, iderr := primitive.ObjectIDFromHex(hex)
				if iderr == nil {
					return id, nil
				}
			}
		} else {
			s.log.WithError(err).Warn("payment intent metadata lookup failed")
		}

		if sessionID == "" {
			session, found, err := s.gateway.FindSessionByPaymentIntent(ctx, paymentIntentID)
			if err != nil {
				s.log.WithError(err).Warn("session lookup by payment intent failed")
			} else if found {
				sessionID = session.ID
				if hex, ok := session.Metadata[intentMetadataKey]; ok && hex != "" {
					if id, iderr := primitive.ObjectIDFromHex(hex); iderr == nil {
						return id, nil
					}
				}
			}
		}
	}

	if sessionID != "" {
		intent, err := s.intents.GetBySessionID(ctx, sessionID)
		if err == nil {
			return intent.Id, nil
		}
		if err != database.ErrNoDocument {
			return primitive.NilObjectID, err
		}
	}

	return primitive.NilObjectID, fmt.Errorf("%w: no intent correlates to session %q / payment intent %q",
		errors.ErrNotFound, sessionID, paymentIntentID)
}

// promote performs the PENDING to CONSUMED transition. The conditional
// update on consumed_at is the only guard against the webhook and the poll
// both creating a booking: the booking id is reserved by the winning
// Consume call before the booking document is inserted.
func (s *Service) promote(ctx context.Context, intentID primitive.ObjectID, ref PaymentRef) (PromotionResult, error) {
	bookingID := primitive.NewObjectID()
	now := time.Now()

	intent, won, err := s.intents.Consume(ctx, intentID, bookingID, now)
	if err == database.ErrNoDocument {
		return PromotionResult{}, fmt.Errorf("%w: intent %v does not exist", errors.ErrNotFound, intentID.Hex())
	}
	if err != nil {
		return PromotionResult{}, err
	}

	if !won {
		if intent.BookingId == nil {
			return PromotionResult{}, fmt.Errorf("%w: intent %v is consumed but carries no booking id",
				errors.ErrState, intentID.Hex())
		}
		return PromotionResult{BookingID: *intent.BookingId, Idempotent: true}, nil
	}

	booking := bookingFromIntent(intent, ref, bookingID, now)
	if err := s.bookings.Insert(ctx, booking); err != nil {
		// Release the reservation so a webhook retry can promote again.
		if unerr := s.intents.Unconsume(ctx, intentID); unerr != nil {
			s.log.WithError(unerr).WithField("intent_id", intentID.Hex()).
				Error("cannot release consumed intent after failed booking insert")
		}
		return PromotionResult{}, err
	}

	s.log.WithFields(logrus.Fields{
		"intent_id":  intentID.Hex(),
		"booking_id": bookingID.Hex(),
		"session_id": ref.SessionID,
	}).Info("intent promoted to booking")

	return PromotionResult{BookingID: bookingID}, nil
}

func bookingFromIntent(intent model.BookingIntent, ref PaymentRef, bookingID primitive.ObjectID, now time.Time) model.Booking {
	dates := make([]model.BookingDate, 0, len(intent.DatesNeeded))
	for _, d := range intent.DatesNeeded {
		dates = append(dates, model.BookingDate{
			Date:       d.Date,
			StaffCount: d.StaffCount,
			StaffIds:   []primitive.ObjectID{},
		})
	}

	sessionID := ref.SessionID
	if sessionID == "" {
		sessionID = intent.CheckoutSessionId
	}

	timestamp := now.Format(time.RFC3339)
	return model.Booking{
		Id:                  bookingID,
		ClientId:            intent.ClientId,
		ShowId:              intent.ShowId,
		ShowName:            model.ResolveShowName(intent.ShowName, intent.ShowData, nil),
		ShowData:            intent.ShowData,
		DatesNeeded:         dates,
		Notes:               intent.Notes,
		TotalStaffNeeded:    intent.TotalStaffNeeded,
		Status:              model.StatusDepositPaid,
		PaymentStatus:       model.PaymentPending,
		BookingFeeCents:     intent.BookingFeeCents,
		BookingFeeCentsPaid: ref.AmountCents,
		StripeCustomerId:    ref.CustomerID,
		CheckoutSessionId:   sessionID,
		PaymentIntentId:     ref.PaymentIntentID,
		PrimaryContactId:    intent.PrimaryContactId,
		PrimaryLocationId:   intent.PrimaryLocationId,
		Audit:               []model.FeeAudit{},
		CreatedAt:           timestamp,
		UpdatedAt:           timestamp,
	}
}

// expireSession purges an intent whose checkout session timed out unpaid.
// Cleanup is best-effort: a failed delete leaves an orphaned pending intent
// and nothing else, so the event is always acknowledged.
func (s *Service) expireSession(ctx context.Context, event payments.Event, log *logrus.Entry) {
	intentID, err := s.resolveIntentID(ctx, event.Metadata, event.PaymentIntentID, event.SessionID)
	if err != nil {
		log.WithError(err).Warn("no intent found for expired checkout session")
		return
	}

	intent, err := s.intents.GetByID(ctx, intentID)
	if err != nil {
		log.WithError(err).Warn("cannot load intent for expiry")
		return
	}
	if intent.IsConsumed() {
		log.WithField("intent_id", intentID.Hex()).Info("expired session for already-consumed intent, keeping booking")
		return
	}

	if err := s.intents.Delete(ctx, intentID); err != nil {
		log.WithError(err).WithField("intent_id", intentID.Hex()).Warn("cannot purge expired intent")
		return
	}
	log.WithField("intent_id", intentID.Hex()).Info("expired intent purged")
}
