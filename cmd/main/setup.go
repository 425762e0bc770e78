package main

import (
	"plug-explorer/src/interfaces"
	"plug-explorer/src/logger"
	"plug-explorer/src/models"
	"plug-explorer/src/network"
	"plug-explorer/src/publish"
	"plug-explorer/src/storage"
)

// -----------------------------------------------------------------------------

// setupDatabase opens the local-state store named by storage.db_type
func setupDatabase(config *models.MConfig, appLogger *logger.Logger) interfaces.IDatabase {
	db, err := storage.Open(config, appLogger)
	if err != nil {
		appLogger.Critical("Failed to init db: %v", err)
	}
	return db
}

// -----------------------------------------------------------------------------

// setupNetwork initializes the chain API client
func setupNetwork(config *models.MConfig, appLogger *logger.Logger) interfaces.INetworkManager {
	nm, err := network.NewAsyncNetworkManager(config, appLogger.Named("NetworkManager"))
	if err != nil {
		appLogger.Critical("Failed to init network: %v", err)
	}
	return nm
}

// -----------------------------------------------------------------------------

// setupSinks builds the optional snapshot mirrors. A sink that is not configured is
// skipped; one that is misconfigured is logged and skipped.
func setupSinks(config *models.MConfig, appLogger *logger.Logger) []interfaces.ISnapshotSink {
	var sinks []interfaces.ISnapshotSink

	if config.Redis.Addr != "" {
		if s, err := publish.NewRedisSink(config.Redis); err != nil {
			appLogger.Warning("Redis sink disabled: %v", err)
		} else {
			appLogger.Info("Mirroring snapshots to redis %s (%s)", config.Redis.Addr, s.Key())
			sinks = append(sinks, s)
		}
	}

	if len(config.Kafka.Brokers) > 0 {
		if s, err := publish.NewKafkaSink(config.Kafka); err != nil {
			appLogger.Warning("Kafka sink disabled: %v", err)
		} else {
			appLogger.Info("Publishing snapshots to kafka topic %s", s.Topic())
			sinks = append(sinks, s)
		}
	}

	return sinks
}
