package utils

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Success writes the {success, message, data} envelope.
func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return Success(c, fiber.StatusCreated, message, data)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindProvider:
		return fiber.StatusBadGateway
	case KindPersistenceUnavailable:
		return fiber.StatusServiceUnavailable
	case KindNotFound:
		return fiber.StatusNotFound
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindConflict:
		return fiber.StatusConflict
	case KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// WriteError renders err. AppErrors keep their message and field list; anything else
// becomes an opaque 500.
func WriteError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Error:   http.StatusText(fiber.StatusInternalServerError),
			Message: "Internal server error",
		})
	}
	status := StatusFor(appErr.Kind)
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Code:    appErr.Kind.String(),
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return WriteError(c, NewValidationError(message))
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return WriteError(c, NewUnauthorized(message))
}

func NotFound(c *fiber.Ctx, message string) error {
	return WriteError(c, NewNotFound(message))
}
