package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/diarycard/internal/auth"
	"github.com/alexanderramin/diarycard/internal/cli"
	"github.com/alexanderramin/diarycard/internal/config"
	"github.com/alexanderramin/diarycard/internal/db"
	"github.com/alexanderramin/diarycard/internal/logging"
	"github.com/alexanderramin/diarycard/internal/notify"
	"github.com/alexanderramin/diarycard/internal/repository"
	"github.com/alexanderramin/diarycard/internal/rxnorm"
	"github.com/alexanderramin/diarycard/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir, os.Getenv("DIARYCARD_CONFIG"))
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Level(), os.Stderr)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	profileRepo := repository.NewSQLiteUserProfileRepo(database)
	entryRepo := repository.NewSQLiteDiaryEntryRepo(database)
	medRepo := repository.NewSQLiteMedicationRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Reminders live in the database unless a Redis server is configured.
	var scheduler notify.Scheduler = notify.NewSQLiteScheduler(database)
	if cfg.Redis.Addr != "" {
		rs := notify.NewRedisScheduler(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rs.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rs.Ping(ctx)
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, keeping reminders in the database", "addr", cfg.Redis.Addr, "error", err)
		} else {
			scheduler = rs
		}
	}

	var rxObserver rxnorm.Observer = rxnorm.NoopObserver{}
	if cfg.RxNav.LogCalls {
		rxObserver = rxnorm.NewLogObserver(logger)
	}
	lookup := rxnorm.NewClient(cfg.RxNav, rxObserver)

	observer := service.NewLogUseCaseObserver(logger)
	reminders := service.NewReminderService(profileRepo, medRepo, scheduler, observer)

	secret, err := auth.LoadOrCreateSecret(cfg.SecretPath)
	if err != nil {
		return err
	}
	provider, err := auth.NewLocalProvider(database, secret)
	if err != nil {
		return err
	}

	app := &cli.App{
		Auth:         provider,
		Diary:        service.NewDiaryService(entryRepo, observer),
		Profiles:     service.NewProfileService(profileRepo, uow, reminders, observer),
		Meds:         service.NewMedicationService(medRepo, lookup, reminders, observer),
		Reminders:    reminders,
		Lookup:       lookup,
		SearchDelay:  cfg.SearchDebounce(),
		HistoryLimit: cfg.HistoryLimit,
		DueWindow:    cfg.DueWindow(),
	}

	// Detect interactive terminal for the step-by-step flows.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
