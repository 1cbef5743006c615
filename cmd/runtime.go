package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Ananth-NQI/truckpe-carrier-engine/database"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/cache"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/config"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/engine"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/handlers"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/jobs"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/routes"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/services"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/storage"
	"gorm.io/gorm"
)

// runtime is the wired set of dependencies shared by every subcommand
type runtime struct {
	cfg    *config.Config
	policy engine.Policy
	store  storage.Store
	db     *gorm.DB
	locker cache.Locker
	redis  *cache.Redis

	services routes.Services
	sweep    *jobs.ComplianceSweep
	review   *jobs.TierReview
}

func newRuntime(cfg *config.Config) (*runtime, error) {
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}
	if cfg.PolicyFile != "" {
		log.Printf("📐 Scoring policy loaded from %s", cfg.PolicyFile)
	}

	rt := &runtime{cfg: cfg, policy: policy}

	// Initialize storage
	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		rt.store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		db, err := database.Connect(cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		rt.db = db
		rt.store = storage.NewDatabaseStore(db)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Period locks
	if cfg.Redis.Enabled() {
		rt.redis = cache.NewRedis(cfg.Redis, log.New(os.Stderr, "", log.LstdFlags))
		rt.locker = rt.redis
	} else {
		log.Println("⚠️  REDIS_HOST not set - using in-process period locks")
		rt.locker = cache.NewLocalLocker()
	}

	notifier := services.NewNotifier(cfg.Twilio)
	tiers := services.NewTierService(rt.store, policy, services.UnconfiguredVerifier{}, notifier)

	rt.services = routes.Services{
		Carriers:   services.NewCarrierService(rt.store, policy),
		Tiers:      tiers,
		Scorecards: services.NewScorecardService(rt.store, policy, tiers, rt.locker),
		Matches:    services.NewMatchService(rt.store, policy),
		Loads:      services.NewLoadService(rt.store),
	}
	rt.sweep = jobs.NewComplianceSweep(rt.store, policy, notifier)
	rt.review = jobs.NewTierReview(rt.store, tiers)

	log.Println("✅ All services initialized")
	return rt, nil
}

// healthHandler reports the storage kind and the reachability of each backend
func (rt *runtime) healthHandler() *handlers.HealthHandler {
	h := handlers.NewHealthHandler(version, rt.storageType())
	if rt.db != nil {
		h.AddCheck("database", func(ctx context.Context) error {
			sqlDB, err := rt.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
	}
	if rt.redis != nil {
		h.AddCheck("redis", rt.redis.Ping)
	}
	return h
}

func (rt *runtime) storageType() string {
	if rt.cfg.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func (rt *runtime) environment() string {
	if rt.cfg.DB.InstanceConnectionName != "" {
		return "Production (Cloud Run)"
	}
	return fmt.Sprintf("%s (Local)", rt.cfg.Environment)
}

func (rt *runtime) close() {
	if rt.redis != nil {
		if err := rt.redis.Close(); err != nil {
			log.Printf("Failed to close Redis: %v", err)
		}
	}
	if rt.db != nil {
		sqlDB, err := rt.db.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}
}
