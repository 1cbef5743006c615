package handlers

import (
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/services"
	"github.com/gofiber/fiber/v2"
)

// LoadHandler handles load posting and carrier matching
type LoadHandler struct {
	loads   *services.LoadService
	matches *services.MatchService
}

func NewLoadHandler(loads *services.LoadService, matches *services.MatchService) *LoadHandler {
	return &LoadHandler{loads: loads, matches: matches}
}

// CreateLoad handles creating a new load
func (h *LoadHandler) CreateLoad(c *fiber.Ctx) error {
	var load models.Load
	if err := c.BodyParser(&load); err != nil {
		return badRequest(c, "Invalid request body")
	}

	created, err := h.loads.Create(c.UserContext(), &load)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Load created successfully",
		"load":    created,
	})
}

// GetLoad retrieves a single load by ID
func (h *LoadHandler) GetLoad(c *fiber.Ctx) error {
	load, err := h.loads.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(load)
}

// Match ranks carriers for the load
func (h *LoadHandler) Match(c *fiber.Ctx) error {
	resp, err := h.matches.Match(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}
