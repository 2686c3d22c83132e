package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"smart_breeder/internal/device"
	"smart_breeder/internal/handlers"
	"smart_breeder/internal/logger"
	"smart_breeder/internal/models"
	"smart_breeder/internal/poller"
	"smart_breeder/internal/relay"
	"smart_breeder/internal/repository"
	"smart_breeder/internal/repository/db"
	"smart_breeder/internal/server"
	"smart_breeder/internal/service"
	"smart_breeder/internal/store"

	"github.com/spf13/viper"
)

const startupTimeout = 10 * time.Second

func main() {
	// load config.yml; a missing file leaves defaults and env in place
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(viper.GetString("log.level"))

	// open DB
	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)

	startCtx, startCancel := context.WithTimeout(context.Background(), startupTimeout)
	prefs, err := repos.Preferences.Load(startCtx)
	if err != nil {
		log.Errorw("failed to load preferences, using defaults", "err", err)
		prefs = models.Preferences{Settings: models.DefaultSettings()}
	}

	st := store.New(store.Options{
		ChartCapacity:      viper.GetInt("store.chart_capacity"),
		ActionLogCapacity:  viper.GetInt("store.action_log_capacity"),
		NotificationsShown: viper.GetInt("store.notifications_shown"),
	})

	client := device.NewClient(device.Options{
		Origin:      viper.GetString("client.origin"),
		Address:     deviceAddress(prefs),
		RelayPrefix: viper.GetString("relay.prefix"),
		Timeout:     viper.GetDuration("client.timeout"),
		PingTimeout: viper.GetDuration("client.ping_timeout"),
		Addresses:   repos.Preferences,
	}, log.Component("device"))
	log.Infow("device_client_ready", "mode", client.Mode(), "address", client.Address())

	services := service.NewService(client, st, repos, service.Options{}, log)
	services.Preferences.Restore(prefs)

	pol := poller.New(poller.Options{
		Reader:   client,
		Apply:    services.Monitoring.ApplyStatus,
		Interval: st.UpdateInterval,
	}, log.Component("poller"))
	services.Preferences.OnIntervalChange(pol.Reschedule)

	if res := services.Species.Sync(startCtx); !res.Success {
		log.Warnw("species_sync_failed", "message", res.Message)
	}
	startCancel()

	fwd := relay.NewForwarder(relay.Config{
		Address:     viper.GetString("device.address"),
		Timeout:     viper.GetDuration("relay.timeout"),
		AllowLocal:  viper.GetBool("relay.allow_local"),
		Diagnostics: viper.GetBool("relay.diagnostics"),
	}, log.Component("relay"))
	apiHandler := handlers.NewHandler(services, fwd, viper.GetString("relay.prefix"), log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if viper.GetBool("poller.enabled") {
		pol.Start(ctx)
	}

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, pol, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	viper.SetEnvPrefix("SMART_BREEDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.BindEnv("device.address", "DEVICE_ADDRESS", "ESP32_IP"); err != nil {
		return err
	}

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("port", "8080")
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("db.path", "smart_breeder.db")
	viper.SetDefault("device.address", "192.168.0.111")
	viper.SetDefault("relay.prefix", device.DefaultRelayPrefix)
	viper.SetDefault("relay.timeout", relay.DefaultTimeout)
	viper.SetDefault("relay.allow_local", false)
	viper.SetDefault("relay.diagnostics", false)
	viper.SetDefault("client.origin", "http://localhost:8080")
	viper.SetDefault("client.timeout", device.DefaultTimeout)
	viper.SetDefault("client.ping_timeout", device.DefaultPingTimeout)
	viper.SetDefault("poller.enabled", true)
	viper.SetDefault("store.chart_capacity", store.DefaultChartCapacity)
	viper.SetDefault("store.action_log_capacity", store.DefaultActionLogCapacity)
	viper.SetDefault("store.notifications_shown", store.DefaultNotificationsShown)
}

// deviceAddress prefers the address saved through the dashboard over the
// configured one.
func deviceAddress(prefs models.Preferences) string {
	if prefs.DeviceAddress != "" {
		return prefs.DeviceAddress
	}
	return viper.GetString("device.address")
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "smart_breeder.db")
		dbPath = "smart_breeder.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		log.Infow("http_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, pol *poller.Poller, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	pol.Stop()
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	pol.Wait()
}
