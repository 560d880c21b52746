package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"display_bridge/internal/assets"
	"display_bridge/internal/display"
	"display_bridge/internal/handlers"
	"display_bridge/internal/hardware"
	"display_bridge/internal/logger"
	"display_bridge/internal/repository"
	"display_bridge/internal/repository/db"
	"display_bridge/internal/server"
	"display_bridge/internal/service"
	"display_bridge/internal/timesource"

	"github.com/spf13/viper"
)

const (
	shutdownTimeout = 10 * time.Second
	chronyPoll      = 30 * time.Second
)

func main() {
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log.level"))

	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	link, portName, err := openLink()
	if err != nil {
		log.Fatalw("failed to open display link", "err", err, "port", viper.GetString("serial.port"))
	}

	clock, err := timesource.NewLocal(viper.GetString("clock.timezone"))
	if err != nil {
		log.Fatalw("invalid clock.timezone", "err", err)
	}

	heartbeat := openHeartbeat(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var syncSrc service.SyncSource
	if addr := viper.GetString("ntp.chrony_addr"); addr != "" {
		mon := timesource.NewChronyMonitor(addr, log.Named("chrony"))
		go mon.Run(ctx, chronyPoll)
		syncSrc = mon
	}

	signingKey, generated, err := service.EnsureSigningKey(viper.GetString("auth.signing_key"))
	if err != nil {
		log.Fatalw("failed to prepare signing key", "err", err)
	}
	if generated {
		log.Warnw("signing_key_generated", "reason", "auth.signing_key empty or weak", "note", "tokens will not survive a restart")
	}

	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, service.Deps{
		Link:       link,
		Clock:      clock,
		Sync:       syncSrc,
		Heartbeat:  heartbeat,
		SigningKey: signingKey,
		TokenTTL:   viper.GetDuration("auth.token_ttl"),
		Log:        log,
	})

	ui := assets.NewDirStore(viper.GetString("assets.dir"))
	index := viper.GetString("assets.index")
	if seeded, err := ui.Seed(index, assets.Bundled); err != nil {
		log.Warnw("ui_seed_failed", "err", err, "dir", viper.GetString("assets.dir"))
	} else if seeded {
		log.Infow("ui_seeded", "dir", viper.GetString("assets.dir"), "name", index)
	}
	apiHandler := handlers.NewHandler(services, ui, index, log.Named("http"))

	go services.ClockLoop.Run(ctx, viper.GetDuration("clock.tick"))
	go services.RunRetention(ctx, viper.GetDuration("db.retention"), viper.GetDuration("db.prune_interval"))

	srv := &server.Server{}
	addr, err := srv.Listen(viper.GetString("port"), apiHandler.InitRoutes())
	if err != nil {
		log.Fatalw("error starting server", "err", err)
	}
	go func() {
		if err := srv.Serve(); err != nil {
			log.Fatalw("http server stopped", "err", err)
		}
	}()

	log.Infow("display bridge ready",
		"addr", addr.String(),
		"serial", portName,
		"timezone", clock.Location().String(),
		"mode", services.Display.CurrentMode().String(),
	)

	waitForShutdown(cancel, srv, link, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	viper.SetEnvPrefix("BRIDGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("port", "80")
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("db.path", "bridge.db")
	viper.SetDefault("db.retention", 30*24*time.Hour)
	viper.SetDefault("db.prune_interval", time.Hour)
	viper.SetDefault("serial.port", display.PortAuto)
	viper.SetDefault("serial.baud", display.DefaultBaud)
	viper.SetDefault("clock.timezone", "Europe/Berlin")
	viper.SetDefault("clock.tick", time.Second)
	viper.SetDefault("assets.dir", "/var/lib/display-bridge/ui")
	viper.SetDefault("assets.index", assets.DefaultIndex)
	viper.SetDefault("auth.token_ttl", time.Hour)

	return viper.ReadInConfig()
}

// openDB initializes the SQLite event log using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	log.Infow("opening event log", "path", dbPath)
	return db.InitDB(dbPath)
}

// openLink opens the serial port, or stdout when serial.port is empty (dry run).
func openLink() (display.Link, string, error) {
	port := viper.GetString("serial.port")
	if port == "" {
		return display.NewWriterLink(os.Stdout), "stdout", nil
	}
	sl, err := display.OpenSerial(port, viper.GetInt("serial.baud"))
	if err != nil {
		return nil, "", err
	}
	return sl, sl.Port, nil
}

// openHeartbeat falls back to a no-op indicator when no pin is configured or it cannot be opened.
func openHeartbeat(log *logger.Logger) hardware.Indicator {
	pin := viper.GetString("led.pin")
	if pin == "" {
		return hardware.Noop{}
	}
	led, err := hardware.OpenLED(pin, viper.GetBool("led.active_low"))
	if err != nil {
		log.Warnw("heartbeat_led_unavailable", "pin", pin, "err", err)
		return hardware.Noop{}
	}
	return led
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, link display.Link, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down...")

	// stop the clock loop and sync monitor
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	if err := link.Close(); err != nil {
		log.Warnw("display link close failed", "err", err)
	}
}
