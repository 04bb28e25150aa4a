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

type FinalChargeInput struct {
	BookingID         primitive.ObjectID
	OverrideFeeCents  int64
	OverrideRateCents int64
	DryRun            bool
	Actor             string
}

type FinalChargeResult struct {
	BookingID          primitive.ObjectID `json:"booking_id"`
	RateCents          int64              `json:"rate_cents"`
	StaffDays          uint               `json:"staff_days"`
	ComputedTotalCents int64              `json:"computed_total_cents"`
	ChargedCents       int64              `json:"charged_cents"`
	DryRun             bool               `json:"dry_run"`
	PaymentIntentID    string             `json:"payment_intent_id,omitempty"`
	RequiresAction     bool               `json:"requires_action,omitempty"`
	RequiresActionURL  string             `json:"requires_action_url,omitempty"`
	CheckoutSessionID  string             `json:"checkout_session_id,omitempty"`
}

// ChargeFinal computes the staffing fee (staff-days times the per-day rate,
// unless overridden) and collects it off-session against the booking's
// stored customer. When the stored payment method demands interactive
// authentication the charge falls back to a hosted checkout session.
func (s *Service) ChargeFinal(ctx context.Context, in FinalChargeInput) (FinalChargeResult, error) {
	booking, err := s.bookings.GetByID(ctx, in.BookingID)
	if err == database.ErrNoDocument {
		return FinalChargeResult{}, fmt.Errorf("%w: booking %v does not exist", errors.ErrNotFound, in.BookingID.Hex())
	}
	if err != nil {
		return FinalChargeResult{}, err
	}

	rate := s.billing.FinalRateCents
	if in.OverrideRateCents > 0 {
		rate = in.OverrideRateCents
	}
	staffDays := booking.StaffDays()
	computedTotal := int64(staffDays) * rate

	charge := computedTotal
	if in.OverrideFeeCents > 0 {
		charge = in.OverrideFeeCents
	}
	if charge < s.billing.MinChargeCents {
		return FinalChargeResult{}, fmt.Errorf("%w: final fee %v is below the minimum chargeable amount %v",
			errors.ErrValidation, charge, s.billing.MinChargeCents)
	}

	result := FinalChargeResult{
		BookingID:          booking.Id,
		RateCents:          rate,
		StaffDays:          staffDays,
		ComputedTotalCents: computedTotal,
		ChargedCents:       charge,
		DryRun:             in.DryRun,
	}

	if in.DryRun {
		return result, nil
	}

	if !model.CanTransition(booking.Status, model.StatusFinalPaid) {
		return FinalChargeResult{}, fmt.Errorf("%w: booking %v is %v, final fee cannot be charged",
			errors.ErrState, booking.Id.Hex(), booking.Status)
	}
	if booking.StripeCustomerId == "" {
		return FinalChargeResult{}, fmt.Errorf("%w: booking %v was never paired with a payable customer",
			errors.ErrState, booking.Id.Hex())
	}

	audit := model.FeeAudit{
		RateCents:          rate,
		StaffDays:          staffDays,
		ComputedTotalCents: computedTotal,
		Actor:              in.Actor,
		At:                 time.Now().Format(time.RFC3339),
	}

	paid, err := s.gateway.ChargeOffSession(ctx, payments.ChargeParams{
		AmountCents: charge,
		Currency:    s.billing.Currency,
		CustomerID:  booking.StripeCustomerId,
		Description: fmt.Sprintf("Final staffing fee for %v", booking.ShowName),
		Metadata:    map[string]string{bookingMetadataKey: booking.Id.Hex()},
	})
	if err == payments.ErrAuthenticationRequired {
		return s.fallbackToCheckout(ctx, booking, charge, audit, result)
	}
	if err != nil {
		return FinalChargeResult{}, fmt.Errorf("%w: %v", errors.ErrGateway, err)
	}

	audit.ChargedCents = charge
	audit.PaymentIntentId = paid.PaymentIntentID

	booking.Status = model.StatusFinalPaid
	booking.PaymentStatus = model.PaymentPaid
	booking.FinalFeeCentsPaid = charge
	booking.Audit = append(booking.Audit, audit)
	booking.UpdatedAt = audit.At
	if err := s.bookings.Update(ctx, booking); err != nil {
		return FinalChargeResult{}, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":        booking.Id.Hex(),
		"charged_cents":     charge,
		"payment_intent_id": paid.PaymentIntentID,
		"actor":             in.Actor,
	}).Info("final fee charged")

	result.PaymentIntentID = paid.PaymentIntentID
	return result, nil
}

// fallbackToCheckout records a requires-action audit entry and hands back a
// hosted checkout URL for the client to complete the payment interactively.
// The booking keeps its current status.
func (s *Service) fallbackToCheckout(ctx context.Context, booking model.Booking, charge int64, audit model.FeeAudit, result FinalChargeResult) (FinalChargeResult, error) {
	session, err := s.gateway.CreateCheckoutSession(ctx, payments.CheckoutParams{
		AmountCents: charge,
		Currency:    s.billing.Currency,
		CustomerID:  booking.StripeCustomerId,
		Description: fmt.Sprintf("Final staffing fee for %v", booking.ShowName),
		SuccessURL:  s.baseURL + "/booking/final-fee/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.baseURL + "/booking/final-fee/canceled",
		Metadata:    map[string]string{bookingMetadataKey: booking.Id.Hex()},
	})
	if err != nil {
		return FinalChargeResult{}, fmt.Errorf("%w: %v", errors.ErrGateway, err)
	}

	audit.RequiresActionCents = charge
	audit.CheckoutSessionId = session.ID

	booking.Audit = append(booking.Audit, audit)
	booking.UpdatedAt = audit.At
	if err := s.bookings.Update(ctx, booking); err != nil {
		return FinalChargeResult{}, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": booking.Id.Hex(),
		"session_id": session.ID,
	}).Info("final fee requires cardholder action, hosted checkout created")

	result.RequiresAction = true
	result.RequiresActionURL = session.URL
	result.CheckoutSessionID = session.ID
	return result, nil
}

// completeFinalFee records a final-fee payment reported by the provider:
// the off-session charge's own success event, or the completion of the
// hosted checkout created by the authentication-required fallback. Events
// for bookings already marked paid are acknowledged without another audit
// entry, so the off-session event replaying after ChargeFinal is a no-op.
func (s *Service) completeFinalFee(ctx context.Context, bookingHex string, ref PaymentRef, log *logrus.Entry) error {
	bookingID, err := primitive.ObjectIDFromHex(bookingHex)
	if err != nil {
		log.WithError(err).Warn("malformed booking id in event metadata")
		return nil
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err == database.ErrNoDocument {
		log.WithField("booking_id", bookingHex).Warn("final fee event for unknown booking")
		return nil
	}
	if err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, model.StatusFinalPaid) {
		log.WithField("booking_id", bookingHex).Info("final fee already recorded")
		return nil
	}

	now := time.Now().Format(time.RFC3339)
	booking.Status = model.StatusFinalPaid
	booking.PaymentStatus = model.PaymentPaid
	booking.FinalFeeCentsPaid = ref.AmountCents
	booking.Audit = append(booking.Audit, model.FeeAudit{
		ChargedCents:      ref.AmountCents,
		CheckoutSessionId: ref.SessionID,
		PaymentIntentId:   ref.PaymentIntentID,
		Actor:             "gateway",
		At:                now,
	})
	booking.UpdatedAt = now
	if err := s.bookings.Update(ctx, booking); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"booking_id":    bookingHex,
		"charged_cents": ref.AmountCents,
		"session_id":    ref.SessionID,
	}).Info("final fee recorded from gateway event")
	return nil
}

// AssignStaffing sets the staff members working each booked date. The
// supplied dates must already exist on the booking.
func (s *Service) AssignStaffing(ctx context.Context, bookingID primitive.ObjectID, dates []model.BookingDate) (model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err == database.ErrNoDocument {
		return model.Booking{}, fmt.Errorf("%w: booking %v does not exist", errors.ErrNotFound, bookingID.Hex())
	}
	if err != nil {
		return model.Booking{}, err
	}

	byDate := map[string]int{}
	for i, d := range booking.DatesNeeded {
		byDate[d.Date] = i
	}

	for _, d := range dates {
		i, ok := byDate[d.Date]
		if !ok {
			return model.Booking{}, fmt.Errorf("%w: booking has no date %v", errors.ErrValidation, d.Date)
		}
		if uint(len(d.StaffIds)) > booking.DatesNeeded[i].StaffCount {
			return model.Booking{}, fmt.Errorf("%w: %v staff assigned to %v but only %v requested",
				errors.ErrValidation, len(d.StaffIds), d.Date, booking.DatesNeeded[i].StaffCount)
		}
		booking.DatesNeeded[i].StaffIds = d.StaffIds
	}

	booking.UpdatedAt = time.Now().Format(time.RFC3339)
	if err := s.bookings.Update(ctx, booking); err != nil {
		return model.Booking{}, err
	}
	return booking, nil
}
