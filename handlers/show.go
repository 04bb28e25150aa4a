package handlers

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"staffing-portal/database"
	"staffing-portal/errors"
	"staffing-portal/model"
)

func (h *Handler) GetShows(c *fiber.Ctx) error {
	shows, dbErr := h.shows.List(c.Context())
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	showsJson, jsonErr := json.MarshalIndent(shows, "", "	")
	if jsonErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", jsonErr))
	}

	return c.SendString(string(showsJson))
}

func (h *Handler) GetShow(c *fiber.Ctx) error {
	showID, idErr := primitive.ObjectIDFromHex(c.Params("id"))
	if idErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("malformed show id: %v", idErr))
	}

	show, dbErr := h.shows.GetByID(c.Context(), showID)
	if dbErr == database.ErrNoDocument {
		return errors.RaiseNotFoundError(c, fmt.Sprintf("show %v not found", c.Params("id")))
	}
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	showJson, jsonErr := json.MarshalIndent(show, "", "	")
	if jsonErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", jsonErr))
	}

	return c.SendString(string(showJson))
}

func (h *Handler) CreateShow(c *fiber.Ctx) error {
	if !hasAnyRole(c, model.RoleAdmin) {
		return errors.RaisePermissionsError(c, "only admin can perform this operation")
	}

	newShow := new(model.Show)
	if jsonErr := c.BodyParser(newShow); jsonErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("unacceptable show parameters: %v", jsonErr))
	}
	newShow.Id = primitive.NewObjectID()
	newShow.Name = strings.TrimSpace(newShow.Name)
	currentTime := time.Now().Format(time.RFC3339)
	newShow.CreatedAt = currentTime
	newShow.UpdatedAt = currentTime

	if validationErr := validateShowInput(*newShow); validationErr != nil {
		return errors.RaiseBadRequestError(c,
			fmt.Sprintf("incorrect input for show parameters: %v", validationErr))
	}

	if writeErr := h.shows.Insert(c.Context(), *newShow); writeErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", writeErr))
	}

	newShowJson, jsonErr := json.MarshalIndent(newShow, "", "	")
	if jsonErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", jsonErr))
	}

	return c.SendString(string(newShowJson))
}

func (h *Handler) UpdateShow(c *fiber.Ctx) error {
	if !hasAnyRole(c, model.RoleAdmin) {
		return errors.RaisePermissionsError(c, "only admin can perform this operation")
	}

	showID, idErr := primitive.ObjectIDFromHex(c.Params("id"))
	if idErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("malformed show id: %v", idErr))
	}

	existing, dbErr := h.shows.GetByID(c.Context(), showID)
	if dbErr == database.ErrNoDocument {
		return errors.RaiseNotFoundError(c, fmt.Sprintf("show %v not found", c.Params("id")))
	}
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	updatedShow := new(model.Show)
	if jsonErr := c.BodyParser(updatedShow); jsonErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("unacceptable show parameters: %v", jsonErr))
	}
	updatedShow.Id = existing.Id
	updatedShow.Name = strings.TrimSpace(updatedShow.Name)
	updatedShow.CreatedAt = existing.CreatedAt
	updatedShow.UpdatedAt = time.Now().Format(time.RFC3339)

	if validationErr := validateShowInput(*updatedShow); validationErr != nil {
		return errors.RaiseBadRequestError(c,
			fmt.Sprintf("incorrect input for show parameters: %v", validationErr))
	}

	if updateErr := h.shows.Update(c.Context(), *updatedShow); updateErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", updateErr))
	}

	updatedShowJson, jsonErr := json.MarshalIndent(updatedShow, "", "	")
	if jsonErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", jsonErr))
	}

	return c.SendString(string(updatedShowJson))
}

func (h *Handler) DeleteShow(c *fiber.Ctx) error {
	if !hasAnyRole(c, model.RoleAdmin) {
		return errors.RaisePermissionsError(c, "only admin can perform this operation")
	}

	showID, idErr := primitive.ObjectIDFromHex(c.Params("id"))
	if idErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("malformed show id: %v", idErr))
	}

	if deleteErr := h.shows.Delete(c.Context(), showID); deleteErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("failed to delete: %v", deleteErr))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "entity deleted",
		"data":    fmt.Sprintf("show with id %v was deleted", c.Params("id"))})
}

func validateShowInput(show model.Show) error {
	if len(show.Name) < 2 {
		return fmt.Errorf("show name is too short")
	}
	if show.StartDate == "" || show.EndDate == "" {
		return fmt.Errorf("show start and end dates are required")
	}
	if show.EndDate < show.StartDate {
		return fmt.Errorf("show cannot end before it starts")
	}
	return nil
}
