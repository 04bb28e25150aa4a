package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"staffing-portal/errors"
	"staffing-portal/model"
)

// SubmitAvailability lets a staff member declare the dates they can work a
// show. Resubmitting replaces the earlier set of dates.
func (h *Handler) SubmitAvailability(c *fiber.Ctx) error {
	if !hasAnyRole(c, model.RoleStaff) {
		return errors.RaisePermissionsError(c, "only staff can submit availability")
	}

	staffID, idErr := entityIDFromToken(c)
	if idErr != nil {
		return errors.RaisePermissionsError(c, "session is not bound to a staff account")
	}

	type availabilityForm struct {
		ShowId string   `json:"show_id"`
		Dates  []string `json:"dates"`
	}

	form := new(availabilityForm)
	if jsonErr := c.BodyParser(form); jsonErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect input for availability parameters: %v", jsonErr))
	}

	showID, idErr := primitive.ObjectIDFromHex(form.ShowId)
	if idErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("malformed show id: %v", idErr))
	}
	if len(form.Dates) == 0 {
		return errors.RaiseBadRequestError(c, "at least one available date is required")
	}

	currentTime := time.Now().Format(time.RFC3339)
	availability := model.Availability{
		Id:          primitive.NewObjectID(),
		StaffId:     staffID,
		ShowId:      showID,
		Dates:       form.Dates,
		SubmittedAt: currentTime,
		UpdatedAt:   currentTime,
	}

	if dbErr := h.availability.Upsert(c.Context(), availability); dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	availabilityJson, jsonErr := json.MarshalIndent(availability, "", "	")
	if jsonErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", jsonErr))
	}

	return c.SendString(string(availabilityJson))
}

// GetAvailability lists availability records. Staff see their own, admin
// sees everyone's; both can narrow by show_id.
func (h *Handler) GetAvailability(c *fiber.Ctx) error {
	if !hasAnyRole(c, model.RoleStaff, model.RoleAdmin) {
		return errors.RaisePermissionsError(c, "only staff or admin can read availability")
	}

	var staffFilter *primitive.ObjectID
	if !hasAnyRole(c, model.RoleAdmin) {
		staffID, idErr := entityIDFromToken(c)
		if idErr != nil {
			return errors.RaisePermissionsError(c, "session is not bound to a staff account")
		}
		staffFilter = &staffID
	}

	var showFilter *primitive.ObjectID
	if hex := c.Query("show_id"); hex != "" {
		showID, idErr := primitive.ObjectIDFromHex(hex)
		if idErr != nil {
			return errors.RaiseBadRequestError(c, fmt.Sprintf("malformed show id: %v", idErr))
		}
		showFilter = &showID
	}

	records, dbErr := h.availability.List(c.Context(), staffFilter, showFilter)
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	recordsJson, jsonErr := json.MarshalIndent(records, "", "	")
	if jsonErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", jsonErr))
	}

	return c.SendString(string(recordsJson))
}

func (h *Handler) GetStaffList(c *fiber.Ctx) error {
	if !hasAnyRole(c, model.RoleStaff, model.RoleAdmin) {
		return errors.RaisePermissionsError(c, "only staff or admin can list staff")
	}

	staff, dbErr := h.staff.List(c.Context())
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	staffJson, jsonErr := json.MarshalIndent(staff, "", "	")
	if jsonErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", jsonErr))
	}

	return c.SendString(string(staffJson))
}
