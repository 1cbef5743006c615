package handlers

import (
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/services"
	"github.com/gofiber/fiber/v2"
)

// CarrierHandler handles carrier directory requests
type CarrierHandler struct {
	carriers *services.CarrierService
}

func NewCarrierHandler(carriers *services.CarrierService) *CarrierHandler {
	return &CarrierHandler{carriers: carriers}
}

// Register onboards a new carrier
func (h *CarrierHandler) Register(c *fiber.Ctx) error {
	var reg models.CarrierRegistration
	if err := c.BodyParser(&reg); err != nil {
		return badRequest(c, "Invalid request body")
	}

	carrier, err := h.carriers.Register(c.UserContext(), reg)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Carrier registered successfully",
		"carrier": carrier,
	})
}

func (h *CarrierHandler) Get(c *fiber.Ctx) error {
	carrier, err := h.carriers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(carrier)
}

func (h *CarrierHandler) Deactivate(c *fiber.Ctx) error {
	carrier, err := h.carriers.Deactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Carrier deactivated",
		"carrier": carrier,
	})
}

// Compliance returns the live RED/AMBER/GREEN status
func (h *CarrierHandler) Compliance(c *fiber.Ctx) error {
	report, err := h.carriers.Compliance(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(report)
}
