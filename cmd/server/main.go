package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"hireflow/internal/access"
	"hireflow/internal/analytics"
	"hireflow/internal/api/handlers"
	"hireflow/internal/api/middleware"
	"hireflow/internal/api/routes"
	"hireflow/internal/candidates"
	"hireflow/internal/config"
	"hireflow/internal/events"
	"hireflow/internal/grpc/server"
	"hireflow/internal/identity"
	"hireflow/internal/jobs"
	"hireflow/internal/logging"
	"hireflow/internal/mux"
	"hireflow/internal/storage"
	"hireflow/internal/store"
	"hireflow/internal/store/memory"
	"hireflow/internal/store/postgres"
	"hireflow/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.InitializeLogging(cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting hireflow", map[string]interface{}{"version": handlers.Version, "store": cfg.Store.Driver})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	// Redis is optional: without it events are dropped and roles are not cached
	redisClient, err := utils.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without events and role cache", map[string]interface{}{"error": err.Error()})
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var publisher events.Publisher = events.Nop{}
	var roleCache identity.RoleCache
	if redisClient != nil {
		publisher = events.NewRedisPublisher(redisClient, cfg.Redis.EventsChannel)
		if cfg.Redis.RoleCacheTTL > 0 {
			roleCache = identity.NewRedisRoleCache(redisClient, cfg.Redis.RoleCacheTTL)
		}
	}

	var objects storage.ObjectStore = storage.Disabled{}
	if cfg.SpacesEnabled() {
		spaces, err := storage.NewSpaces(cfg.DigitalOcean.Spaces, logger)
		if err != nil {
			logger.Fatal("Failed to create object storage client", map[string]interface{}{"error": err.Error()})
		}
		objects = spaces
	} else {
		logger.Warn("Object storage not configured, document uploads are disabled")
	}

	verifier := identity.NewVerifier([]byte(cfg.Auth.SessionSecret), cfg.Auth.SessionCookie)
	var lookup identity.RoleLookup
	if cfg.Auth.IdentitySecretKey != "" {
		lookup = identity.NewLookupClient(cfg.Auth.IdentityAPIURL, cfg.Auth.IdentitySecretKey, cfg.Auth.LookupTimeout)
	}
	resolver := identity.NewResolver(lookup, roleCache, logger)
	gate := access.NewGate(access.DefaultPolicy(), verifier, resolver, cfg.Auth.SignInURL, cfg.Auth.CareersURL)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL, logger)
	defer limiter.Stop()

	optional := map[string]handlers.Check{}
	if redisClient != nil {
		optional["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	if cfg.SpacesEnabled() {
		optional["storage"] = objects.Healthy
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if e.IPExtractor, err = middleware.IPExtractor(cfg.Server.TrustedProxies); err != nil {
		logger.Fatal("Invalid trusted proxy configuration", map[string]interface{}{"error": err.Error()})
	}
	routes.SetupRoutes(e, routes.Deps{
		Config:     cfg,
		Logger:     logger,
		Gate:       gate,
		Verifier:   verifier,
		Jobs:       jobs.NewService(st, publisher, logger),
		Candidates: candidates.NewService(st, publisher, logger),
		Analytics:  analytics.NewService(st),
		Objects:    objects,
		Limiter:    limiter,
		Required:   map[string]handlers.Check{"store": st.Ping},
		Optional:   optional,
	})

	grpcServer := server.NewServer(st.Ping, 15*time.Second, logger)
	multiplexer := mux.NewMultiplexer(cfg, grpcServer, e, logger)

	address := cfg.Address()
	if err := multiplexer.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{"address": address, "error": err.Error()})
	}
	logger.Info("Server started", map[string]interface{}{"address": address})

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := multiplexer.Stop(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
	}
	logger.Info("Server shutdown complete")
}

// openStore returns the configured entity store and its cleanup
func openStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (store.Store, func()) {
	if cfg.Store.Driver != "postgres" {
		logger.Warn("Using the in-memory store, data is lost on restart")
		return memory.New(), func() {}
	}

	pg, err := postgres.Open(ctx, cfg.Store.DatabaseURL, cfg.Store.MaxConns)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", map[string]interface{}{"error": err.Error()})
	}
	if cfg.Store.Migrate {
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			logger.Fatal("Failed to migrate schema", map[string]interface{}{"error": err.Error()})
		}
	}
	return pg, pg.Close
}
