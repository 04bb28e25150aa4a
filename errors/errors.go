package errors

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
)

// Domain error taxonomy. Services wrap these with %w so handlers can map
// them to HTTP statuses without inspecting messages.
var (
	ErrValidation = stderrors.New("validation error")
	ErrNotFound   = stderrors.New("not found")
	ErrState      = stderrors.New("invalid state")
	ErrGateway    = stderrors.New("payment gateway error")
	ErrAuthz      = stderrors.New("lack of permissions")
)

func RaiseError(context *fiber.Ctx, status int, message string, data string) error {
	return context.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    data})
}

func RaisePermissionsError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusUnauthorized, "lack of permissions", data)
}

func RaiseInternalServerError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusInternalServerError, "internal error", data)
}

func RaiseBadRequestError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusBadRequest, "bad request", data)
}

func RaiseNotFoundError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusNotFound, "resource not found", data)
}

func RaiseConflictError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusConflict, "conflicting state", data)
}

// RaiseDomainError maps a service error onto the JSON error envelope.
func RaiseDomainError(context *fiber.Ctx, err error) error {
	switch {
	case stderrors.Is(err, ErrValidation):
		return RaiseBadRequestError(context, err.Error())
	case stderrors.Is(err, ErrNotFound):
		return RaiseNotFoundError(context, err.Error())
	case stderrors.Is(err, ErrState):
		return RaiseConflictError(context, err.Error())
	case stderrors.Is(err, ErrAuthz):
		return RaisePermissionsError(context, err.Error())
	default:
		return RaiseInternalServerError(context, err.Error())
	}
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
