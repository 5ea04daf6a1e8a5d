package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"loanlens/internal/config"
	"loanlens/internal/logger"
)

const usage = "Usage: migrate [up|down|steps N|version]"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	source := os.Getenv("LOANLENS_MIGRATIONS_PATH")
	if source == "" {
		source = "file://db/migrations"
	}
	m, err := migrate.New(source, cfg.DB.DSN())
	if err != nil {
		log.Fatal("failed to create migrate instance", zap.Error(err))
	}
	defer m.Close()

	switch cmd := os.Args[1]; cmd {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal("migration up failed", zap.Error(err))
		}
		log.Info("migrations applied")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal("migration down failed", zap.Error(err))
		}
		log.Info("migrations reverted")

	case "steps":
		if len(os.Args) < 3 {
			log.Fatal("steps requires a number argument")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatal("invalid steps argument", zap.String("arg", os.Args[2]))
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal("migration steps failed", zap.Int("steps", n), zap.Error(err))
		}
		log.Info("applied migration steps", zap.Int("steps", n))

	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatal("failed to get version", zap.Error(err))
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n%s\n", cmd, usage)
		os.Exit(1)
	}
}
