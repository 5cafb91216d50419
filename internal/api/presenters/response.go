package presenters

import (
	"foodgram/domain"
	"foodgram/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type (
	Response struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    any    `json:"data,omitempty"`
	}

	ErrorBody struct {
		Status  bool              `json:"status"`
		Message string            `json:"message"`
		Error   string            `json:"error"`
		Errors  map[string]string `json:"errors,omitempty"`
	}
)

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes err with an explicit status. Validator errors and
// domain errors bound to a field are reported per field.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	body := ErrorBody{
		Status:  false,
		Message: message,
	}
	if err != nil {
		body.Error = err.Error()
		if fields := utils.ValidationErrors(err); len(fields) > 0 {
			body.Error = "validation failed"
			body.Errors = fields
		} else if field := domain.FieldOf(err); field != "" {
			body.Errors = map[string]string{field: err.Error()}
		}
	}
	return c.Status(statusCode).JSON(body)
}

// StatusOf maps a domain error to its HTTP status.
func StatusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindPermissionDenied:
		return fiber.StatusForbidden
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// ServiceErrorResponse picks the status from the error kind. Unclassified
// errors are logged and never shown to the client.
func ServiceErrorResponse(c *fiber.Ctx, message string, err error) error {
	status := StatusOf(err)
	if status >= fiber.StatusInternalServerError {
		zap.L().Error(message,
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return ErrorResponse(c, status, message, fiber.ErrInternalServerError)
	}
	return ErrorResponse(c, status, message, err)
}
