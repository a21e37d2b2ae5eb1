// GeoSilent Core - Zone Automation Daemon
//
// This is the main entry point for the GeoSilent Core daemon. It keeps
// the external boundary monitor in sync with the zone store, reacts to
// zone entry reports, and drives the host's silent-mode, do-not-disturb,
// SMS, and program-launch primitives.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/geosilent/geosilent-core/migrations"

	"github.com/geosilent/geosilent-core/internal/action"
	"github.com/geosilent/geosilent-core/internal/api"
	"github.com/geosilent/geosilent-core/internal/bridges/host"
	monitorbridge "github.com/geosilent/geosilent-core/internal/bridges/monitor"
	"github.com/geosilent/geosilent-core/internal/geofence"
	"github.com/geosilent/geosilent-core/internal/infrastructure/config"
	"github.com/geosilent/geosilent-core/internal/infrastructure/database"
	"github.com/geosilent/geosilent-core/internal/infrastructure/influxdb"
	"github.com/geosilent/geosilent-core/internal/infrastructure/logging"
	"github.com/geosilent/geosilent-core/internal/infrastructure/mqtt"
	"github.com/geosilent/geosilent-core/internal/permission"
	"github.com/geosilent/geosilent-core/internal/prefs"
	"github.com/geosilent/geosilent-core/internal/process"
	"github.com/geosilent/geosilent-core/internal/zone"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting GeoSilent Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Stores. The zone repository is wrapped so store mutations feed
	// the change subscription below.
	zoneRepo := zone.NewNotifyingRepository(zone.NewSQLiteRepository(db.DB))
	prefStore := prefs.NewSQLiteStore(db.DB)
	triggerLog := action.NewSQLiteTriggerLog(db.DB)
	perms := permission.NewConfigChecker(cfg.Permissions)

	count, err := zoneRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("loading zone store: %w", err)
	}
	log.Info("zone store initialised", "zones", count)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	var metrics geofence.MetricsRecorder
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		metrics = influxClient
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Change feeds: surface store mutations in the log and, when
	// telemetry is on, as points.
	zoneChanges := zoneRepo.Subscribe(ctx)
	go func() {
		for event := range zoneChanges {
			log.Debug("zone store changed", "type", string(event.Type), "zone_id", event.ZoneID)
			if influxClient != nil {
				influxClient.WritePoint("zone_changes",
					map[string]string{"type": string(event.Type)},
					map[string]interface{}{"count": 1},
				)
			}
		}
	}()

	toggleChanges := prefStore.SubscribeAutomationToggle(ctx)
	go func() {
		for enabled := range toggleChanges {
			log.Info("automation toggle changed", "enabled", enabled)
		}
	}()

	qos := byte(cfg.MQTT.QoS)

	// Boundary monitor bridge and sync engine
	monitor := monitorbridge.New(mqttClient, qos, log.With("component", "monitor"))
	syncEngine := geofence.NewSyncEngine(zoneRepo, monitor, perms, log.With("component", "sync"))
	if influxClient != nil {
		syncEngine.SetMetrics(influxClient)
	}

	// Host action executor
	hostBridge := host.New(mqttClient, qos)
	launcher := process.NewLauncher(cfg.Launcher, log.With("component", "launcher"))
	executor := action.NewExecutor(
		hostBridge, hostBridge, hostBridge, launcher,
		perms, prefStore,
		log.With("component", "executor"),
	)

	// Transition handling
	handler := geofence.NewHandler(zoneRepo, executor, prefStore, triggerLog, metrics,
		log.With("component", "handler"))

	transitions, err := monitor.Transitions(ctx)
	if err != nil {
		return fmt.Errorf("subscribing to transitions: %w", err)
	}
	go handler.Run(ctx, transitions)
	log.Info("transition handler running")

	// Mirror persisted state into the monitor on startup: register the
	// enabled set only while the global toggle is on.
	automationOn, err := prefStore.AutomationEnabled(ctx)
	if err != nil {
		return fmt.Errorf("reading automation toggle: %w", err)
	}
	if automationOn {
		if regErr := syncEngine.RegisterAll(ctx); regErr != nil {
			log.Error("initial boundary registration failed", "error", regErr)
		}
	} else {
		log.Info("automation disabled, boundaries not registered")
	}

	// HTTP API
	server, err := api.New(api.Deps{
		Config:   cfg.API,
		Logger:   log.With("component", "api"),
		Zones:    zoneRepo,
		Prefs:    prefStore,
		Sync:     syncEngine,
		Perms:    perms,
		Triggers: triggerLog,
		DB:       db,
		Broker:   mqttClient,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating api server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting api server: %w", startErr)
	}
	defer func() {
		log.Info("stopping api server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing api server", "error", closeErr)
		}
	}()

	log.Info("GeoSilent Core running")

	// Block until shutdown signal
	<-ctx.Done()
	log.Info("shutdown signal received")

	return nil
}

// getConfigPath returns the configuration file path from the command
// line, the environment, or the default.
func getConfigPath() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	if path := os.Getenv("GEOSILENT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
