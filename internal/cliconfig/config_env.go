package cliconfig

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultDotEnvFile is loaded from the working directory before the environment is read.
const DefaultDotEnvFile = ".env"

// LoadDotEnv exports the variables in path that are not already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DefaultDotEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// ApplyEnvConfig applies configuration from environment variables. Bucket
// settings use the R2_* names shared with the rest of the blog tooling;
// everything else is ASSETSHIP_*. Flags that have been set win.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("access-key-id", os.Getenv("R2_ACCESS_KEY_ID"), &cfg.AccessKeyID)
	s.setString("secret-access-key", os.Getenv("R2_SECRET_ACCESS_KEY"), &cfg.SecretAccessKey)
	s.setString("endpoint-url", os.Getenv("R2_ENDPOINT_URL"), &cfg.EndpointURL)
	s.setString("bucket", os.Getenv("R2_BUCKET_NAME"), &cfg.Bucket)
	s.setString("public-url", os.Getenv("R2_PUBLIC_URL"), &cfg.PublicURL)

	s.setString("project-root", os.Getenv("ASSETSHIP_PROJECT_ROOT"), &cfg.ProjectRoot)
	s.setString("content-dir", os.Getenv("ASSETSHIP_CONTENT_DIR"), &cfg.ContentDir)
	s.setString("entry-file", os.Getenv("ASSETSHIP_ENTRY_FILE"), &cfg.EntryFile)
	s.setString("report", os.Getenv("ASSETSHIP_REPORT"), &cfg.Report)
	s.setString("renderer", os.Getenv("ASSETSHIP_RENDERER"), &cfg.Renderer)
	s.setString("d2-image", os.Getenv("ASSETSHIP_D2_IMAGE"), &cfg.D2Image)
	s.setString("encoder", os.Getenv("ASSETSHIP_ENCODER"), &cfg.Encoder)
	s.setString("key-prefix", os.Getenv("ASSETSHIP_KEY_PREFIX"), &cfg.KeyPrefix)
	s.setString("cache-control", os.Getenv("ASSETSHIP_CACHE_CONTROL"), &cfg.CacheControl)
	s.setString("user-agent", os.Getenv("ASSETSHIP_USER_AGENT"), &cfg.UserAgent)

	if err := s.setDuration("timeout", os.Getenv("ASSETSHIP_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setIntFromString("workers", os.Getenv("ASSETSHIP_WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	if err := s.setIntFromString("upload-retries", os.Getenv("ASSETSHIP_UPLOAD_RETRIES"), &cfg.UploadRetries); err != nil {
		return err
	}
	if err := s.setFloatFromString("download-rate", os.Getenv("ASSETSHIP_DOWNLOAD_RATE"), &cfg.DownloadRate); err != nil {
		return err
	}

	s.setBoolFromString("dry-run", os.Getenv("ASSETSHIP_DRY_RUN"), &cfg.DryRun)
	s.setBoolFromString("verbose", os.Getenv("ASSETSHIP_VERBOSE"), &cfg.Verbose)

	return nil
}
