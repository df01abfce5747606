package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alexanderramin/itinera/internal/cli"
	"github.com/alexanderramin/itinera/internal/cli/formatter"
	"github.com/alexanderramin/itinera/internal/config"
	"github.com/alexanderramin/itinera/internal/db"
	"github.com/alexanderramin/itinera/internal/logger"
	"github.com/alexanderramin/itinera/internal/repository"
	"github.com/alexanderramin/itinera/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Piped output stays free of escape codes.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		formatter.DisableColor()
	}

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
	}()

	app := &cli.App{}
	app.Setup = func(opts cli.GlobalOptions) error {
		cfg, err := loadConfig(opts)
		if err != nil {
			return err
		}

		log, logCloser, err := logger.New(logger.Config{
			Level:      cfg.Logging.Level,
			File:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		})
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		closers = append(closers, logCloser)

		database, err := db.OpenDB(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		closers = append(closers, database)
		log.Debug("database ready", "path", cfg.Database.Path)

		// Wire repositories
		tripRepo := repository.NewSQLiteTripRepo(database)
		dayRepo := repository.NewSQLiteDayScheduleRepo(database)
		logRepo := repository.NewSQLiteReshuffleLogRepo(database)

		// One lock table shared by every service that writes a trip.
		uow := db.NewSQLiteUnitOfWork(database)
		locks := service.NewTripLocks()
		observer := service.NewLogUseCaseObserver(log)

		app.Planner = service.NewPlannerService(tripRepo, dayRepo, uow, locks, observer)
		app.Edits = service.NewEditService(tripRepo, uow, locks, observer)
		app.Reshuffle = service.NewReshuffleService(service.ReshuffleDeps{
			Trips:  tripRepo,
			Logs:   logRepo,
			UoW:    uow,
			Locks:  locks,
			Config: cfg.ReshuffleConfig(),
		}, observer)
		app.PlannerDefaults = cfg.Planner
		return nil
	}

	return cli.NewRootCmd(app).Execute()
}

// loadConfig reads the TOML file, applies ITINERA_* overrides and then
// the --db flag, which wins over both.
func loadConfig(opts cli.GlobalOptions) (config.Config, error) {
	dir := config.DefaultDir()
	path := opts.ConfigPath
	if path == "" {
		path = filepath.Join(dir, "config.toml")
	}

	cfg, err := config.Load(path, config.Default(filepath.Join(dir, "itinera.db")))
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv(nil)
	if opts.DBPath != "" {
		cfg.Database.Path = opts.DBPath
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
