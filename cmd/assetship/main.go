package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/assetship/internal/app"
	"github.com/bft-labs/assetship/internal/cliconfig"
)

const longHelp = `Move the diagrams and images embedded in blog posts to an R2 bucket.

assetship renders fenced d2 and mermaid blocks, converts local and remote
images, uploads the results under content-addressed names and rewrites each
post to reference the uploaded asset. Runs are idempotent: migrated regions
are never touched again.

Bucket credentials come from R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY,
R2_ENDPOINT_URL and R2_BUCKET_NAME, read from the environment or a .env file.`

var exampleUsage = strings.TrimSpace(`
  assetship migrate d2 --dry-run
  assetship migrate images --post my-first-post
  assetship migrate mermaid --renderer local --workers 4 --report run.json
  assetship verify giphy
  assetship doctor
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "assetship",
		Short:         "Migrate embedded blog diagrams and images to R2",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: ./assetship.toml)")
	pf.StringVar(&cfg.ProjectRoot, "project-root", cfg.ProjectRoot, "project root used to resolve absolute image paths")
	pf.StringVar(&cfg.ContentDir, "content-dir", cfg.ContentDir, "directory holding one folder per post, relative to the project root")
	pf.StringVar(&cfg.EntryFile, "entry-file", cfg.EntryFile, "post entry file name")
	pf.StringVar(&cfg.Post, "post", "", "process a single post instead of the whole corpus")
	pf.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")
	pf.StringVar(&cfg.Renderer, "renderer", cfg.Renderer, "d2 renderer: local or docker")
	pf.StringVar(&cfg.Encoder, "encoder", cfg.Encoder, "output encoding: avif or png")

	migrate := &cobra.Command{
		Use:       "migrate <" + strings.Join(app.Kinds, "|") + ">",
		Short:     "Render, upload and rewrite one kind of embedded asset",
		Args:      cobra.ExactArgs(1),
		ValidArgs: app.Kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, &cfg, cfgPath, false); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runMigrate(ctx, cfg, args[0])
		},
	}
	mf := migrate.Flags()
	mf.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "show planned rewrites without rendering, uploading or writing")
	mf.IntVar(&cfg.Workers, "workers", cfg.Workers, "posts processed in parallel")
	mf.StringVar(&cfg.Report, "report", cfg.Report, "write a JSON run report to this path")
	mf.BoolVar(&cfg.Watch, "watch", cfg.Watch, "keep running and migrate posts again when their entry file changes")
	mf.StringVar(&cfg.D2Image, "d2-image", cfg.D2Image, "docker image used by the docker renderer")
	mf.StringVar(&cfg.Bucket, "bucket", cfg.Bucket, "bucket name (overrides R2_BUCKET_NAME)")
	mf.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "public base URL of the bucket (default: https://<bucket>.r2.dev)")
	mf.StringVar(&cfg.KeyPrefix, "key-prefix", cfg.KeyPrefix, "object key prefix")
	mf.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout for downloads and uploads")
	mf.Float64Var(&cfg.DownloadRate, "download-rate", cfg.DownloadRate, "maximum remote downloads per second")
	mf.IntVar(&cfg.UploadRetries, "upload-retries", cfg.UploadRetries, "upload attempts per asset")
	if err := mf.MarkHidden("d2-image"); err != nil {
		fmt.Fprintln(os.Stderr, "failed to hide d2-image flag:", err)
	}

	verify := &cobra.Command{
		Use:       "verify <" + strings.Join(app.Kinds, "|") + ">",
		Short:     "Report the regions still waiting for migration",
		Args:      cobra.ExactArgs(1),
		ValidArgs: app.Kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, &cfg, cfgPath, true); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runVerify(ctx, cfg, args[0])
		},
	}

	doctor := &cobra.Command{
		Use:   "doctor [" + strings.Join(app.Kinds, "|") + "]",
		Short: "Check external tools and bucket configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validation problems are reported, not fatal.
			cfgErr := loadConfig(cmd, &cfg, cfgPath, false)
			if cfgErr != nil && !app.IsConfigError(cfgErr) {
				return cfgErr
			}
			kinds := app.Kinds
			if len(args) == 1 {
				kinds = args
			}
			return runDoctor(cmd.Context(), cfg, kinds, cfgErr)
		},
	}

	root.AddCommand(migrate, verify, doctor)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "assetship:", err)
		os.Exit(exitCode(err))
	}
}

// loadConfig merges defaults, the TOML file, .env, the environment and
// flags, in increasing order of precedence, then validates the result.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string, readOnly bool) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgPath != "" || cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return app.WrapSetupError(fmt.Errorf("load config %s: %w", cfgFile, err))
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return app.WrapSetupError(fmt.Errorf("apply config %s: %w", cfgFile, err))
		}
	}

	if err := cliconfig.LoadDotEnv(cliconfig.DefaultDotEnvFile); err != nil {
		return app.WrapSetupError(fmt.Errorf("load .env: %w", err))
	}
	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return app.WrapSetupError(fmt.Errorf("apply environment: %w", err))
	}

	if readOnly {
		cfg.DryRun = true
	}
	return app.WrapSetupError(cfg.Validate())
}

// contentRoot resolves the content directory against the project root.
func contentRoot(cfg cliconfig.Config) string {
	if filepath.IsAbs(cfg.ContentDir) {
		return cfg.ContentDir
	}
	return filepath.Join(cfg.ProjectRoot, cfg.ContentDir)
}

// exitCode maps setup failures to distinct codes. Per-post failures never
// reach here.
func exitCode(err error) int {
	if app.IsConfigError(err) {
		return 2
	}
	return 1
}
