package main

import (
	"net/http"

	fsAdapter "github.com/bft-labs/assetship/internal/adapters/fs"
	httpAdapter "github.com/bft-labs/assetship/internal/adapters/http"
	"github.com/bft-labs/assetship/internal/adapters/render"
	s3Adapter "github.com/bft-labs/assetship/internal/adapters/s3"
	"github.com/bft-labs/assetship/internal/app"
	"github.com/bft-labs/assetship/internal/cliconfig"
	"github.com/bft-labs/assetship/internal/ports"
)

// buildDeps assembles the adapters a profile of kind needs. In a dry run
// nothing is rendered or uploaded, so only naming inputs are filled in.
func buildDeps(cfg cliconfig.Config, kind string, runner ports.CommandRunner, logger ports.Logger) (app.Deps, error) {
	deps := app.Deps{
		KeyPrefix: cfg.KeyPrefix,
		PublicURL: cfg.PublicURL,
		DryRun:    cfg.DryRun,
		Extension: ".avif",
	}
	if cfg.Encoder == cliconfig.EncoderPNG {
		deps.Extension = ".png"
	}
	if cfg.DryRun {
		return deps, nil
	}

	switch cfg.Encoder {
	case cliconfig.EncoderPNG:
		deps.Encoder = render.PNGEncoder{}
		deps.GraphicsEncoder = render.Flattened{Encoder: render.PNGEncoder{}}
		deps.PhotoEncoder = render.Flattened{Encoder: render.PNGEncoder{}}
	default:
		avif := render.NewAVIFEncoder(runner, render.DefaultAVIFQuality, render.DefaultAVIFSpeed)
		deps.Encoder = avif
		deps.GraphicsEncoder = render.Flattened{Encoder: avif.WithQuality(render.GraphicsAVIFQuality)}
		deps.PhotoEncoder = render.Flattened{Encoder: avif}
	}

	switch kind {
	case app.KindD2:
		var r ports.Renderer = render.NewD2Local(runner)
		if cfg.Renderer == cliconfig.RendererDocker {
			r = render.NewD2Docker(runner, cfg.D2Image)
		}
		deps.Renderer = render.Framed{Renderer: r, Options: render.DiagramFrame}
	case app.KindMermaid:
		deps.Renderer = render.Framed{Renderer: render.NewMermaid(runner), Options: render.BorderedFrame}
	}

	client := &http.Client{Timeout: cfg.HTTPTimeout}
	fetcher := httpAdapter.NewFetcher(client, cfg.DownloadRate, cfg.UserAgent, logger)
	deps.Resolver = fsAdapter.NewResolver(cfg.ProjectRoot, fetcher)

	uploader, err := s3Adapter.NewUploader(s3Adapter.Options{
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		EndpointURL:     cfg.EndpointURL,
		Bucket:          cfg.Bucket,
		PublicURL:       cfg.PublicURL,
		CacheControl:    cfg.CacheControl,
		HTTPClient:      client,
	}, logger)
	if err != nil {
		return deps, err
	}
	deps.Uploader = app.NewRetryUploader(uploader, cfg.UploadRetries, logger)
	return deps, nil
}
