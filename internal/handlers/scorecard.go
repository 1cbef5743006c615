package handlers

import (
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ScorecardHandler handles scorecard computation and history
type ScorecardHandler struct {
	scorecards *services.ScorecardService
}

func NewScorecardHandler(scorecards *services.ScorecardService) *ScorecardHandler {
	return &ScorecardHandler{scorecards: scorecards}
}

// Compute stores the scorecard for one period
func (h *ScorecardHandler) Compute(c *fiber.Ctx) error {
	var in models.ScorecardInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	scorecard, decision, err := h.scorecards.Compute(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"scorecard": scorecard,
		"tier":      decision,
	})
}

// List returns recent scorecards; ?limit=N, default all
func (h *ScorecardHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return badRequest(c, "limit must not be negative")
	}

	cards, err := h.scorecards.List(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"scorecards": cards,
		"count":      len(cards),
	})
}
