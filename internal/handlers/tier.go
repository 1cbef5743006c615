package handlers

import (
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/middleware"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/services"
	"github.com/gofiber/fiber/v2"
)

// TierHandler handles manual tier actions and tier history
type TierHandler struct {
	tiers *services.TierService
}

func NewTierHandler(tiers *services.TierService) *TierHandler {
	return &TierHandler{tiers: tiers}
}

// ForcePromote moves a GUEST carrier to BRONZE
func (h *TierHandler) ForcePromote(c *fiber.Ctx) error {
	req, err := overrideRequest(c)
	if err != nil {
		return badRequest(c, "Invalid request body")
	}

	transition, err := h.tiers.ForcePromote(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message":    "Carrier promoted",
		"transition": transition,
	})
}

// EmergencyApprove approves onboarding without automated checks
func (h *TierHandler) EmergencyApprove(c *fiber.Ctx) error {
	req, err := overrideRequest(c)
	if err != nil {
		return badRequest(c, "Invalid request body")
	}

	transition, err := h.tiers.EmergencyApprove(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message":    "Carrier approved",
		"transition": transition,
	})
}

func (h *TierHandler) Recompute(c *fiber.Ctx) error {
	decision, err := h.tiers.Recompute(c.UserContext(), c.Params("id"), middleware.OperatorID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(decision)
}

func (h *TierHandler) History(c *fiber.Ctx) error {
	transitions, err := h.tiers.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"transitions": transitions,
		"count":       len(transitions),
	})
}

// overrideRequest reads the justification from the body; the operator
// always comes from the authenticated header
func overrideRequest(c *fiber.Ctx) (services.OverrideRequest, error) {
	var req services.OverrideRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return req, err
		}
	}
	req.OperatorID = middleware.OperatorID(c)
	return req, nil
}
