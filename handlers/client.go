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

func (h *Handler) GetOwnClient(c *fiber.Ctx) error {
	client, err := h.ownClient(c)
	if err != nil {
		return err
	}

	clientJson, jsonErr := json.MarshalIndent(client, "", "	")
	if jsonErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", jsonErr))
	}

	return c.SendString(string(clientJson))
}

func (h *Handler) UpdateOwnClient(c *fiber.Ctx) error {
	client, err := h.ownClient(c)
	if err != nil {
		return err
	}

	type profileForm struct {
		CompanyName string `json:"company_name"`
		Email       string `json:"email"`
	}

	form := new(profileForm)
	if jsonErr := c.BodyParser(form); jsonErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect input for profile parameters: %v", jsonErr))
	}

	form.CompanyName = strings.TrimSpace(form.CompanyName)
	if len(form.CompanyName) < 2 {
		return errors.RaiseBadRequestError(c, "company name is too short")
	}
	if !strings.Contains(form.Email, "@") {
		return errors.RaiseBadRequestError(c, "email address is not valid")
	}

	client.CompanyName = form.CompanyName
	client.Email = form.Email
	client.UpdatedAt = time.Now().Format(time.RFC3339)

	if updateErr := h.clients.Update(c.Context(), client); updateErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", updateErr))
	}

	clientJson, jsonErr := json.MarshalIndent(client, "", "	")
	if jsonErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", jsonErr))
	}

	return c.SendString(string(clientJson))
}

func (h *Handler) AddClientContact(c *fiber.Ctx) error {
	client, err := h.ownClient(c)
	if err != nil {
		return err
	}

	contact := new(model.Contact)
	if jsonErr := c.BodyParser(contact); jsonErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect input for contact parameters: %v", jsonErr))
	}
	contact.Id = primitive.NewObjectID()
	contact.Name = strings.TrimSpace(contact.Name)
	if len(contact.Name) < 2 {
		return errors.RaiseBadRequestError(c, "contact name is too short")
	}

	if pushErr := h.clients.AddContact(c.Context(), client.Id, *contact); pushErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", pushErr))
	}

	contactJson, jsonErr := json.MarshalIndent(contact, "", "	")
	if jsonErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", jsonErr))
	}

	return c.SendString(string(contactJson))
}

func (h *Handler) AddClientLocation(c *fiber.Ctx) error {
	client, err := h.ownClient(c)
	if err != nil {
		return err
	}

	location := new(model.Location)
	if jsonErr := c.BodyParser(location); jsonErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect input for location parameters: %v", jsonErr))
	}
	location.Id = primitive.NewObjectID()
	location.Label = strings.TrimSpace(location.Label)
	if location.Address == "" {
		return errors.RaiseBadRequestError(c, "location address is required")
	}

	if pushErr := h.clients.AddLocation(c.Context(), client.Id, *location); pushErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", pushErr))
	}

	locationJson, jsonErr := json.MarshalIndent(location, "", "	")
	if jsonErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", jsonErr))
	}

	return c.SendString(string(locationJson))
}

// ownClient loads the client record bound to the logged-in session. The
// returned error, when non-nil, is an already-sent fiber response.
func (h *Handler) ownClient(c *fiber.Ctx) (model.Client, error) {
	if !hasAnyRole(c, model.RoleClient) {
		return model.Client{}, errors.RaisePermissionsError(c, "only clients can manage a client profile")
	}

	clientID, idErr := entityIDFromToken(c)
	if idErr != nil {
		return model.Client{}, errors.RaisePermissionsError(c, "session is not bound to a client account")
	}

	client, dbErr := h.clients.GetByID(c.Context(), clientID)
	if dbErr == database.ErrNoDocument {
		return model.Client{}, errors.RaiseNotFoundError(c, "client profile not found")
	}
	if dbErr != nil {
		return model.Client{}, errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	return client, nil
}
