package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"rocksolid/climbing-trainer/internal/app"
	"rocksolid/climbing-trainer/internal/config"
	"rocksolid/climbing-trainer/internal/logger"
	"rocksolid/climbing-trainer/internal/service"
	"rocksolid/climbing-trainer/internal/storage"
)

var CLI struct {
	ConfigDir string `help:"Directory holding config.yaml." type:"path" default:"."`
	Debug     bool   `help:"Enable debug logging."`

	Seed        SeedCmd        `cmd:"" help:"Upsert catalog exercises from a YAML file."`
	Tutorials   TutorialsCmd   `cmd:"" help:"Inject tutorial texts from a YAML file."`
	Plan        PlanCmd        `cmd:"" help:"Generate this week's plan for a user."`
	Counters    CountersCmd    `cmd:"" help:"Print progress counters for a user."`
	CreateAdmin CreateAdminCmd `cmd:"" help:"Create an admin account."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("catalogctl"),
		kong.Description("Operator tool for the RockSolid exercise catalog and plans"),
		kong.UsageOnError(),
	)

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *kong.Context) error {
	cfg, err := config.LoadConfig(CLI.ConfigDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File, Debug: CLI.Debug || cfg.Log.Debug}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	loc, err := cfg.Plan.LoadLocation()
	if err != nil {
		return fmt.Errorf("plan location: %w", err)
	}

	repos, closeDB, err := app.OpenRepositories(cfg.Database)
	if err != nil {
		return err
	}
	defer closeDB()

	fileStorage, err := storage.NewS3Storage(context.Background(), cfg.S3)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	return ctx.Run(&Context{
		Ctx:      context.Background(),
		Services: app.NewServices(repos, cfg.JWT, fileStorage, service.NewClock(loc), nil),
		Out:      os.Stdout,
	})
}
