package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"

	fsAdapter "github.com/bft-labs/assetship/internal/adapters/fs"
	logAdapter "github.com/bft-labs/assetship/internal/adapters/log"
	"github.com/bft-labs/assetship/internal/adapters/render"
	"github.com/bft-labs/assetship/internal/app"
	"github.com/bft-labs/assetship/internal/cliconfig"
	"github.com/bft-labs/assetship/internal/domain"
	"github.com/bft-labs/assetship/internal/ports"
)

func runMigrate(ctx context.Context, cfg cliconfig.Config, kind string) error {
	logger := logAdapter.NewZerologAdapter(cfg.Verbose)
	logger.Debug("configuration", ports.Any("config", cfg.Masked()))

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	runner := render.NewExecRunner()
	deps, err := buildDeps(cfg, kind, runner, logger)
	if err != nil {
		return app.WrapSetupError(err)
	}
	profile, err := app.NewProfile(kind, deps)
	if err != nil {
		return app.WrapSetupError(err)
	}

	if !cfg.DryRun {
		tools := app.RequiredTools(kind, cfg.Renderer, cfg.Encoder)
		if err := app.NewDoctor(runner).Preflight(ctx, tools); err != nil {
			return app.WrapSetupError(err)
		}
	}

	migrator := app.NewMigrator(store, profile, logger.With(ports.String("kind", kind)), app.Options{
		Workers: cfg.Workers,
		DryRun:  cfg.DryRun,
		DiffOut: os.Stdout,
		Color:   !color.NoColor,
	})

	var posts []string
	if cfg.Post != "" {
		posts = []string{cfg.Post}
	}

	report, err := migrator.Run(ctx, posts)
	if err != nil {
		return app.WrapSetupError(err)
	}
	printReport(os.Stdout, report)

	if cfg.Report != "" {
		var reports ports.ReportRepository = fsAdapter.NewReportFile(cfg.Report)
		if err := reports.Save(ctx, report); err != nil {
			logger.Error("failed to write run report", ports.String("path", cfg.Report), ports.Err(err))
		} else {
			logger.Info("run report written", ports.String("path", cfg.Report))
		}
	}

	if !cfg.Watch || ctx.Err() != nil {
		return nil
	}
	if len(posts) == 0 {
		if posts, err = store.List(ctx); err != nil {
			return app.WrapSetupError(err)
		}
	}
	watcher := app.NewWatcher(store.Root(), cfg.EntryFile, func(ctx context.Context, post string) {
		printPost(os.Stdout, migrator.Migrate(ctx, post))
	}, logger)
	return watcher.Run(ctx, posts)
}

func runVerify(ctx context.Context, cfg cliconfig.Config, kind string) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	profile, err := app.NewProfile(kind, app.Deps{
		PublicURL: cfg.PublicURL,
		KeyPrefix: cfg.KeyPrefix,
		DryRun:    true,
	})
	if err != nil {
		return app.WrapSetupError(err)
	}

	var posts []string
	if cfg.Post != "" {
		posts = []string{cfg.Post}
	}
	remaining, err := app.Verify(ctx, store, profile, posts)
	if err != nil {
		return app.WrapSetupError(err)
	}
	printRemaining(os.Stdout, kind, remaining)
	return nil
}

func runDoctor(ctx context.Context, cfg cliconfig.Config, kinds []string, cfgErr error) error {
	for _, k := range kinds {
		if _, err := app.NewProfile(k, app.Deps{DryRun: true}); err != nil {
			return app.WrapSetupError(err)
		}
	}

	seen := map[string]bool{}
	var tools []string
	for _, k := range kinds {
		for _, t := range app.RequiredTools(k, cfg.Renderer, cfg.Encoder) {
			if !seen[t] {
				seen[t] = true
				tools = append(tools, t)
			}
		}
	}

	statuses := app.NewDoctor(render.NewExecRunner()).Probe(ctx, tools)
	printDoctor(os.Stdout, statuses, cfg, cfgErr)

	for _, st := range statuses {
		if !st.OK() {
			return app.WrapSetupError(fmt.Errorf("%w: %s", domain.ErrToolMissing, st.Name))
		}
	}
	return cfgErr
}

func openStore(cfg cliconfig.Config) (*fsAdapter.Store, error) {
	dir := contentRoot(cfg)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, app.WrapSetupError(fmt.Errorf("%w: %s", domain.ErrContentDir, dir))
	}
	return fsAdapter.NewStore(dir, cfg.EntryFile), nil
}
