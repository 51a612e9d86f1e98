package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tasbih/internal/config"
	"github.com/templui/tasbih/internal/dayclock"
	"github.com/templui/tasbih/internal/db"
	"github.com/templui/tasbih/internal/markdown"
	"github.com/templui/tasbih/internal/model"
	"github.com/templui/tasbih/internal/notify"
	"github.com/templui/tasbih/internal/repository"
	"github.com/templui/tasbih/internal/service"
	"github.com/templui/tasbih/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Clock          *dayclock.Clock
	Feed           *notify.Feed
	GoalService    *service.GoalService
	BoardService   *service.BoardService
	CounterService *service.CounterService
	BackupService  *service.BackupService
}

// New opens the store, migrates it and wires the services. Backups are
// wired only when object storage is configured.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	backupStorage, err := storage.New(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Repositories
	goalRepository := repository.NewGoalRepository(database)
	dailyCountRepository := repository.NewDailyCountRepository(database)

	clock := dayclock.New(loc, dayclock.WithPollInterval(cfg.RolloverPollInterval))
	feed := notify.NewFeed(cfg.NotificationBuffer)
	parser := markdown.NewParser()

	// Services
	boardService := service.NewBoardService(goalRepository, dailyCountRepository, clock, parser)
	counterService := service.NewCounterService(goalRepository, dailyCountRepository, clock, boardService, feed)
	goalService := service.NewGoalService(goalRepository, boardService, feed, parser)
	backupService := service.NewBackupService(goalRepository, dailyCountRepository, clock, backupStorage, cfg.BackupRetention)

	return &App{
		Cfg:            cfg,
		DB:             database,
		Clock:          clock,
		Feed:           feed,
		GoalService:    goalService,
		BoardService:   boardService,
		CounterService: counterService,
		BackupService:  backupService,
	}, nil
}

// Start launches the background tasks: the midnight rollover and, when
// enabled, scheduled backups. They stop when ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	a.Clock.OnMidnight(ctx, func() {
		a.BoardService.Invalidate()
		a.Feed.Notify(ctx, model.NotificationInfo, "New day started! Counts have been reset.")
	})

	if !a.BackupService.Enabled() {
		return
	}

	if a.Cfg.BackupOnStart {
		go func() {
			_, err := a.BackupService.Backup(ctx)
			if err != nil {
				slog.Error("startup backup failed", "error", err)
			}
		}()
	}
	go a.BackupService.Run(ctx, a.Cfg.BackupInterval)
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
