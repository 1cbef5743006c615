package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/jobs"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/routes"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
)

var noJobs bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and scheduled jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(loadConfig())
		if err != nil {
			return err
		}
		defer rt.close()

		scheduler := jobs.NewScheduler(rt.sweep, rt.review)
		if !noJobs {
			scheduler.Start()
		}

		app := routes.NewApp("Carrier Engine v" + version)

		// Middleware
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
		app.Use(recover.New())
		app.Use(cors.New(cors.Config{
			AllowOrigins: "*",
			AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Operator-ID",
			AllowMethods: "GET, POST, OPTIONS",
		}))

		routes.SetupRoutes(app, rt.services, rt.healthHandler())

		// Handle graceful shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		go func() {
			<-c
			log.Println("\n🛑 Gracefully shutting down...")
			scheduler.Stop()
			log.Println("⏹️  Shutting down server...")
			_ = app.Shutdown()
		}()

		log.Println("========================================")
		log.Printf("🚀 Carrier Engine starting on port %s", rt.cfg.Port)
		log.Printf("📊 Storage: %s", rt.storageType())
		log.Printf("🌍 Environment: %s", rt.environment())
		log.Printf("📱 WhatsApp: %s", whatsAppStatus(rt.cfg.Twilio.Configured()))
		log.Println("========================================")

		return app.Listen(":" + rt.cfg.Port)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&noJobs, "no-jobs", false, "Do not start the compliance sweep and tier review schedules")
}

func whatsAppStatus(configured bool) string {
	if !configured {
		return "Not configured"
	}
	return "Configured"
}
