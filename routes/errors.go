package routes

import (
	"errors"

	"shoppit/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// apiError is rendered as {"error": Message} (plus "details" when set).
type apiError struct {
	Status  int
	Message string
	Details string
}

func (e *apiError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func notFound(message string) error {
	return &apiError{Status: fiber.StatusNotFound, Message: message}
}

func badRequest(message string) error {
	return &apiError{Status: fiber.StatusBadRequest, Message: message}
}

func forbidden(message string) error {
	return &apiError{Status: fiber.StatusForbidden, Message: message}
}

// lookupError turns a missing row into a 404 and passes anything else through.
func lookupError(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(message)
	}
	return err
}

// parseBody decodes the JSON body into dst and runs struct validation.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return badRequest("Failed to parse request body")
	}
	if err := validate.Struct(dst); err != nil {
		return &apiError{Status: fiber.StatusBadRequest, Message: "Validation failed", Details: err.Error()}
	}
	return nil
}

// ErrorHandler renders every error returned by a handler as JSON.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			body := fiber.Map{"error": apiErr.Message}
			if apiErr.Details != "" {
				body["details"] = apiErr.Details
			}
			return c.Status(apiErr.Status).JSON(body)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
		}

		requestID, _ := c.Locals("request_id").(string)
		log.Error("Unhandled request error",
			zap.Error(err),
			zap.String("path", c.Path()),
			zap.String("request_id", requestID),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

// actingEmail prefers the verified token identity over the submitted email.
func actingEmail(c *fiber.Ctx, submitted string) string {
	if email, ok := middleware.Email(c); ok {
		return email
	}
	return submitted
}
