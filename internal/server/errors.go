package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/denguelab/go-sarima/internal/logging"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler renders handler errors as an ErrorResponse. Routing errors such as an unknown
// path keep their status; anything else is reported in-band with status 200.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusOK
		message := err.Error()

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		log := logger
		if logging.RequestID(c.UserContext()) != "" {
			log = logging.FromContext(c.UserContext())
		}
		log.Error("Request error",
			"path", c.Path(),
			"method", c.Method(),
			"status", code,
			"error", err,
		)

		return c.Status(code).JSON(ErrorResponse{Error: message})
	}
}
