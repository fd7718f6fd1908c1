package response

import (
	"errors"

	apperrors "tally/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// DomainError writes err with status, adding the DomainError code when err carries one.
func DomainError(c *fiber.Ctx, status int, err error) error {
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		return ServerError(c, "internal server error")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"code":  de.Code,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func ValidationError(c *fiber.Ctx, details interface{}) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "validation failed",
		"code":    "VALIDATION_ERROR",
		"details": details,
	})
}
