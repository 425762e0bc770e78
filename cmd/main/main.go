package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plug-explorer/src/config"
	datasource "plug-explorer/src/data_source"
	"plug-explorer/src/helpers"
	"plug-explorer/src/home"
	"plug-explorer/src/logger"
	"plug-explorer/src/models"
	"plug-explorer/src/publish"
	"plug-explorer/src/server"
)

// -----------------------------------------------------------------------------

func main() {

	// 1. Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	envFile := flag.String("env", ".env", "optional .env file with overrides")
	flag.Parse()

	// 2. Load config
	config.LoadEnv(*envFile)
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// 3. Setup Logger
	appLogger := logger.NewLogger(conf.LogLevel, conf.Name)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Local state (read once)
	db := setupDatabase(conf.MConfig, appLogger)
	state, language := bootstrapLocalState(ctx, db, conf.Storage.StateKey, appLogger)
	if language == "" {
		language = conf.DefaultLanguage
	}
	appLogger.Info("Language: %s", language)

	// 5. Home page
	networkManager := setupNetwork(conf.MConfig, appLogger)
	errs := helpers.NewErrorHandler(appLogger.Named("ErrorHandler"))
	opts := datasource.OptionsFromConfig(conf.Polling)
	pageLogger := appLogger.Named("HomePage")

	page := home.NewPage(opts, networkManager, errs, pageLogger, func(alert models.MAlert) {
		pageLogger.Warning("Alert: %s", alert.Message)
	})
	sessionPage := func(alert home.AlertSink) *home.Page {
		return home.NewPage(opts, networkManager, errs, pageLogger, alert)
	}

	// 6. Snapshot sinks
	dispatcher := publish.NewDispatcher(setupSinks(conf.MConfig, appLogger), errs, appLogger.Named("Publisher"))
	if len(dispatcher.Sinks) > 0 {
		page.Subscribe(dispatcher.Offer)
		dispatcher.Start(ctx)
	}

	if err := page.Mount(ctx); err != nil {
		appLogger.Critical("Failed to mount home page: %v", err)
	}

	// 7. Servers
	srv := server.NewFastAPIServer(conf.MConfig, appLogger.Named("Server"), page, sessionPage, language)
	srv.OnLanguage(state.SetLanguage)
	grpcServer := startServers(srv, page, conf.MConfig, appLogger)

	// 8. Wait for a signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		appLogger.Warning("HTTP shutdown: %v", err)
	}
	grpcServer.GracefulStop()
	page.Unmount()
	dispatcher.Stop()
	if err := db.Close(); err != nil {
		appLogger.Warning("Closing db: %v", err)
	}
	appLogger.Info("Shutdown complete.")
}
