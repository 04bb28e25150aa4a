package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"staffing-portal/database"
	"staffing-portal/errors"
	"staffing-portal/model"
	"staffing-portal/service"
)

// CreateCheckoutSession converts a validated booking form into an intent
// plus a hosted checkout session and hands the redirect URL back.
func (h *Handler) CreateCheckoutSession(c *fiber.Ctx) error {
	if !hasAnyRole(c, model.RoleClient) {
		return errors.RaisePermissionsError(c, "only clients can book staff")
	}

	clientID, idErr := entityIDFromToken(c)
	if idErr != nil {
		return errors.RaisePermissionsError(c, "session is not bound to a client account")
	}

	type bookingForm struct {
		ShowId            string           `json:"show_id"`
		Notes             string           `json:"notes"`
		DatesNeeded       []model.DateNeed `json:"dates_needed"`
		PrimaryContactId  string           `json:"primary_contact_id"`
		PrimaryLocationId string           `json:"primary_location_id"`
	}

	form := new(bookingForm)
	if jsonErr := c.BodyParser(form); jsonErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect input for booking parameters: %v", jsonErr))
	}

	showID, idErr := primitive.ObjectIDFromHex(form.ShowId)
	if idErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("malformed show id: %v", idErr))
	}
	// Contact and location references are optional on the form, but when
	// present they have to parse.
	var contactID, locationID primitive.ObjectID
	if form.PrimaryContactId != "" {
		if contactID, idErr = primitive.ObjectIDFromHex(form.PrimaryContactId); idErr != nil {
			return errors.RaiseBadRequestError(c, fmt.Sprintf("malformed contact id: %v", idErr))
		}
	}
	if form.PrimaryLocationId != "" {
		if locationID, idErr = primitive.ObjectIDFromHex(form.PrimaryLocationId); idErr != nil {
			return errors.RaiseBadRequestError(c, fmt.Sprintf("malformed location id: %v", idErr))
		}
	}

	result, err := h.svc.CreateIntent(c.Context(), service.CreateIntentInput{
		ClientID:          clientID,
		ShowID:            showID,
		Notes:             form.Notes,
		DatesNeeded:       form.DatesNeeded,
		PrimaryContactID:  contactID,
		PrimaryLocationID: locationID,
	})
	if err != nil {
		return errors.RaiseDomainError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"intent_id":    result.IntentID.Hex(),
		"checkout_url": result.CheckoutURL,
	})
}

// ConfirmSession backs the success page poll. Internal reconciliation
// failures are not surfaced to the user: the webhook path will finish the
// promotion, so the page reports the payment as confirmed and finalizing.
func (h *Handler) ConfirmSession(c *fiber.Ctx) error {
	if !hasAnyRole(c, model.RoleClient) {
		return errors.RaisePermissionsError(c, "only clients can confirm a booking payment")
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		return errors.RaiseBadRequestError(c, "session_id query parameter is required")
	}

	result, err := h.svc.ConfirmSession(c.Context(), sessionID)
	if errors.Is(err, errors.ErrValidation) {
		return errors.RaiseDomainError(c, err)
	}
	if err != nil {
		h.log.WithError(err).WithField("session_id", sessionID).Warn("session confirmation inconclusive")
		return c.JSON(fiber.Map{
			"success": true,
			"pending": true,
			"message": "payment confirmed, finalizing"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"booking_id": result.BookingID.Hex(),
		"idempotent": result.Idempotent,
	})
}

func (h *Handler) GetBookings(c *fiber.Ctx) error {
	var bookings []model.Booking
	var dbErr error

	if hasAnyRole(c, model.RoleAdmin, model.RoleStaff) {
		bookings, dbErr = h.bookings.ListAll(c.Context())
	} else {
		clientID, idErr := entityIDFromToken(c)
		if idErr != nil {
			return errors.RaisePermissionsError(c, "session is not bound to a client account")
		}
		bookings, dbErr = h.bookings.ListByClient(c.Context(), clientID)
	}
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	bookingsJson, jsonErr := json.MarshalIndent(bookings, "", "	")
	if jsonErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", jsonErr))
	}

	return c.SendString(string(bookingsJson))
}

func (h *Handler) GetBooking(c *fiber.Ctx) error {
	bookingID, idErr := primitive.ObjectIDFromHex(c.Params("id"))
	if idErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("malformed booking id: %v", idErr))
	}

	booking, dbErr := h.bookings.GetByID(c.Context(), bookingID)
	if dbErr == database.ErrNoDocument {
		return errors.RaiseNotFoundError(c, fmt.Sprintf("booking %v not found", c.Params("id")))
	}
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	if !hasAnyRole(c, model.RoleAdmin, model.RoleStaff) {
		clientID, idErr := entityIDFromToken(c)
		if idErr != nil || booking.ClientId != clientID {
			return errors.RaisePermissionsError(c, "booking belongs to another client")
		}
	}

	bookingJson, jsonErr := json.MarshalIndent(booking, "", "	")
	if jsonErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", jsonErr))
	}

	return c.SendString(string(bookingJson))
}

// ChargeFinalFee triggers the back-end staffing fee collection, optionally
// as a dry-run preview.
func (h *Handler) ChargeFinalFee(c *fiber.Ctx) error {
	if !hasAnyRole(c, model.RoleStaff, model.RoleAdmin) {
		return errors.RaisePermissionsError(c, "only staff or admin can charge the final fee")
	}

	bookingID, idErr := primitive.ObjectIDFromHex(c.Params("id"))
	if idErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("malformed booking id: %v", idErr))
	}

	type chargeForm struct {
		OverrideFeeCents  int64 `json:"override_fee_cents"`
		OverrideRateCents int64 `json:"override_rate_cents"`
		DryRun            bool  `json:"dry_run"`
	}

	form := new(chargeForm)
	if len(c.Body()) > 0 {
		if jsonErr := c.BodyParser(form); jsonErr != nil {
			return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect input for charge parameters: %v", jsonErr))
		}
	}

	result, err := h.svc.ChargeFinal(c.Context(), service.FinalChargeInput{
		BookingID:         bookingID,
		OverrideFeeCents:  form.OverrideFeeCents,
		OverrideRateCents: form.OverrideRateCents,
		DryRun:            form.DryRun,
		Actor:             usernameFromToken(c),
	})
	if err != nil {
		return errors.RaiseDomainError(c, err)
	}

	return c.JSON(result)
}

// AssignStaffing records which staff members work each booked date.
func (h *Handler) AssignStaffing(c *fiber.Ctx) error {
	if !hasAnyRole(c, model.RoleStaff, model.RoleAdmin) {
		return errors.RaisePermissionsError(c, "only staff or admin can assign staffing")
	}

	bookingID, idErr := primitive.ObjectIDFromHex(c.Params("id"))
	if idErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("malformed booking id: %v", idErr))
	}

	type staffingForm struct {
		Dates []model.BookingDate `json:"dates"`
	}

	form := new(staffingForm)
	if jsonErr := c.BodyParser(form); jsonErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect input for staffing parameters: %v", jsonErr))
	}

	booking, err := h.svc.AssignStaffing(c.Context(), bookingID, form.Dates)
	if err != nil {
		return errors.RaiseDomainError(c, err)
	}

	bookingJson, jsonErr := json.MarshalIndent(booking, "", "	")
	if jsonErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", jsonErr))
	}

	return c.SendString(string(bookingJson))
}
