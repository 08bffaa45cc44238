package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jask/pocketledger/internal/auth"
	"github.com/jask/pocketledger/internal/config"
	"github.com/jask/pocketledger/internal/database"
	"github.com/jask/pocketledger/internal/localstore"
	"github.com/jask/pocketledger/internal/model"
	"github.com/jask/pocketledger/internal/service"
	"github.com/jask/pocketledger/internal/testdata"
	"github.com/jask/pocketledger/internal/tui"
	"github.com/jask/pocketledger/internal/views"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg)

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0o755); err != nil {
		log.Fatalf("mkdir data dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Storage.DatabasePath, cfg.Storage.MigrationsPath); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Storage.DatabasePath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	kv, err := localstore.OpenKV(cfg.Storage.LocalPath)
	if err != nil {
		log.Fatalf("open local store: %v", err)
	}

	local := localstore.NewStore(kv)
	remote := database.NewStore(db)
	provider := auth.NewLocalProvider(kv)
	reconciler := service.NewReconciler(local, remote, logger)
	svc := service.NewDatasetService(local, remote, reconciler, logger)
	if cfg.UI.PageSize > 0 {
		svc.UpdateState(func(s *views.State) { s.PageSize = cfg.UI.PageSize })
	}

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := local.SaveGuestTransactions(testdata.Seed(time.Now().UnixNano(), 6)); err != nil {
			log.Fatalf("seed: %v", err)
		}
		fmt.Println("seeded guest store with sample transactions")
		return
	}

	provider.OnAuthChange(func(u *model.User) {
		svc.HandleAuthChange(ctx, u)
	})
	provider.Start()

	p := tea.NewProgram(tui.New(ctx, cfg, svc, provider), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func newLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// log to a file so output never fights the terminal UI
	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err == nil {
		if f, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			logger.SetOutput(f)
		}
	}
	return logger
}
