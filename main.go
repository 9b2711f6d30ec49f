package main

import (
	"Tombola/config"
	_ "Tombola/config/swagger"
	"Tombola/controllers"
	"Tombola/middleware"
	"Tombola/routes"
	"Tombola/services/events"
	"Tombola/services/game"
	natsfeed "Tombola/services/nats"
	"Tombola/services/redis"
	"Tombola/services/socket_io"
	socketio_types "Tombola/services/socket_io/types"
	archive "Tombola/sync"
	"Tombola/utils"
	"Tombola/utils/logger"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

// @title Tombola API
// @version 1.0
// @description Gin-Gonic server for the Tombola rooms
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Error loading configuration: %v", err)
	}
	if !logger.SetLevel(cfg.LogLevel) {
		logger.Warnf("Unknown LOG_LEVEL %q, keeping info", cfg.LogLevel)
	}
	defer logger.Sync()
	logger.Info("Setting up server...")

	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// Socket delivery is synchronous so clients see events in order; the
	// observers below run on the dispatcher worker.
	dispatcher := events.NewDispatcher(cfg.EventQueue)
	sio := socketio_types.NewSocketServer()
	dispatcher.AddSync("socket.io", sio)

	var mirror controllers.RoomMirror
	if cfg.Redis.URL != "" {
		redisClient, err := config.Connect_redis(cfg.Redis)
		if err != nil {
			logger.Fatalf("Error connecting to Redis: %v", err)
		}
		logger.Info("Connection to Redis successful")
		defer redis.CloseRedis(redisClient)
		dispatcher.AddAsync("redis", redisClient)
		mirror = redisClient
	}

	var games controllers.GameArchive
	if cfg.Postgres.Enabled() {
		gormDB, err := config.ConnectGORM(cfg.Postgres)
		if err != nil {
			logger.Fatalf("Error connecting to PostgreSQL: %v", err)
		}
		logger.Info("GORM Connected")

		// Only migrate in development or during deployment
		if cfg.Postgres.Migrate {
			logger.Info("Migrating PostgreSQL database...")
			if err := config.MigrateDatabase(gormDB); err != nil {
				logger.Warnf("Database migration failed: %v", err)
			} else {
				logger.Info("Database migrated successfully")
			}
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			logger.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
		}
		defer sqlDB.Close()

		syncManager := archive.NewSyncManager(gormDB)
		dispatcher.AddAsync("archive", syncManager)
		games = syncManager
	}

	if cfg.NATS.URL != "" {
		nc, err := natsfeed.Connect(cfg.NATS)
		if err != nil {
			logger.Fatalf("Error connecting to NATS: %v", err)
		}
		logger.Infof("Connected to NATS at %s", nc.ConnectedUrl())
		defer nc.Close()
		dispatcher.AddAsync("nats", natsfeed.NewEventFeed(nc, cfg.NATS.SubjectPrefix))
	}

	dispatcher.Start()
	defer dispatcher.Close()

	opts := cfg.Game.EngineOptions()
	opts.Logger = logger.Log
	engine := game.NewEngine(opts, dispatcher)
	defer engine.Shutdown()
	engine.StartSweeper(ctx, cfg.Game.RoomSweepInterval, cfg.Game.RoomIdleTimeout)

	r := gin.New()
	r.Use(gin.Recovery(), utils.Logger(), utils.ErrorHandler())
	middleware.SetUpMiddleware(r, cfg)
	routes.SetupRoutes(r, engine, games, mirror, cfg.Admin)

	server := (*socket_io.MySocketServer)(sio)
	server.Start(r, engine, cfg)
	defer server.Close()

	port := cfg.Port
	if port == "" {
		port = "8080"
		if cfg.UseHTTPS {
			port = "443"
		}
	}
	srv := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		logger.Infof("Server started on port %s", port)
		var err error
		if cfg.UseHTTPS {
			//SSL certification configuration for HTTPS
			err = srv.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error shutting down HTTP server: %v", err)
	}
}
