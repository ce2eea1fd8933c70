// Package main contains the entrypoint for the clinic LINE bot application.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flosclinic/benmeibot/internal/aftercare"
	"github.com/flosclinic/benmeibot/internal/api"
	"github.com/flosclinic/benmeibot/internal/bot"
	"github.com/flosclinic/benmeibot/internal/bot/tasks"
	"github.com/flosclinic/benmeibot/internal/config"
	"github.com/flosclinic/benmeibot/internal/database"
	"github.com/flosclinic/benmeibot/internal/lineutil"
	"github.com/flosclinic/benmeibot/internal/logger"
	"github.com/flosclinic/benmeibot/internal/recommend"
	"github.com/flosclinic/benmeibot/internal/taxonomy"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// taxonomy, LINE client, router, HTTP server, scheduler), handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	// The taxonomy is the reference data every flow reads; a broken document
	// must stop startup.
	tax, err := taxonomy.Load()
	if err != nil {
		log.Error("Failed to load treatment taxonomy", "error", err)
		return 1
	}
	log.Info("Treatment taxonomy loaded", "categories", len(tax.Categories))

	messenger, err := lineutil.NewClient(cfg.Line.ChannelToken, log)
	if err != nil {
		log.Error("Failed to create LINE client", "error", err)
		return 1
	}

	router := bot.NewRouter(bot.RouterDeps{
		Logger:    log,
		Config:    cfg,
		Store:     store,
		Messenger: messenger,
		Taxonomy:  tax,
		Engine:    recommend.NewEngine(tax),
	}, bot.NewClassifier(recommend.NewMatcher(tax)))

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), logger.Middleware(log))
	engine.GET("/", api.Health(cfg.Clinic.Name, store))
	engine.POST("/webhook", bot.NewWebhookHandler(cfg.Line.ChannelSecret, router, log))
	api.NewHandler(store, log).Register(engine.Group("/api"))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweeper := aftercare.NewSweeper(store, messenger, cfg.Clinic.Phone, log)
	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger:  log,
		Config:  cfg,
		Store:   store,
		Sweeper: sweeper,
	})
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, taskMap)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, db, store, server, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
