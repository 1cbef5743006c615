package handlers

import (
	"log"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/services"
	"github.com/gofiber/fiber/v2"
)

// errorResponse maps service error kinds onto HTTP status codes
func errorResponse(c *fiber.Ctx, err error) error {
	kind := services.KindOf(err)

	status := fiber.StatusInternalServerError
	switch kind {
	case services.KindNotFound:
		status = fiber.StatusNotFound
	case services.KindValidation:
		status = fiber.StatusBadRequest
	case services.KindConflict:
		status = fiber.StatusConflict
	case services.KindPolicyViolation:
		status = fiber.StatusUnprocessableEntity
	}

	if status == fiber.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"kind":  kind,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
		"kind":  services.KindValidation,
	})
}
