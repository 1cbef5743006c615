package routes

import (
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/handlers"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/middleware"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Services bundles what the HTTP layer calls into
type Services struct {
	Carriers   *services.CarrierService
	Tiers      *services.TierService
	Scorecards *services.ScorecardService
	Matches    *services.MatchService
	Loads      *services.LoadService
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, svc Services, health *handlers.HealthHandler) {
	carrierHandler := handlers.NewCarrierHandler(svc.Carriers)
	scorecardHandler := handlers.NewScorecardHandler(svc.Scorecards)
	tierHandler := handlers.NewTierHandler(svc.Tiers)
	loadHandler := handlers.NewLoadHandler(svc.Loads, svc.Matches)

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Carrier Performance & Load-Matching Engine",
			"version": health.Version,
			"endpoints": fiber.Map{
				"health":   "/health",
				"carriers": "/api/carriers",
				"loads":    "/api/loads",
			},
		})
	})

	app.Get("/health", health.Check)

	// API routes
	api := app.Group("/api")

	// Carrier routes
	carriers := api.Group("/carriers")
	carriers.Post("/", carrierHandler.Register)
	carriers.Get("/:id", carrierHandler.Get)
	carriers.Post("/:id/deactivate", middleware.RequireOperator(), carrierHandler.Deactivate)
	carriers.Get("/:id/compliance", carrierHandler.Compliance)

	// Scorecards
	carriers.Post("/:id/scorecards", scorecardHandler.Compute)
	carriers.Get("/:id/scorecards", scorecardHandler.List)

	// Tier management; manual actions need an operator
	carriers.Get("/:id/tier/history", tierHandler.History)
	carriers.Post("/:id/tier/promote", middleware.RequireOperator(), tierHandler.ForcePromote)
	carriers.Post("/:id/tier/recompute", middleware.RequireOperator(), tierHandler.Recompute)
	carriers.Post("/:id/approve", middleware.RequireOperator(), tierHandler.EmergencyApprove)

	// Load routes
	loads := api.Group("/loads")
	loads.Post("/", loadHandler.CreateLoad)
	loads.Get("/:id", loadHandler.GetLoad)
	loads.Post("/:id/matches", loadHandler.Match)
}

// NewApp creates the fiber app with the service error handler
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName: name,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})
}
