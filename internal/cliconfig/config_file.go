package cliconfig

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is looked up in the working directory when --config is not given.
const DefaultConfigFile = "assetship.toml"

// FileConfig mirrors Config with TOML-friendly types. Credentials are read
// from the environment only.
type FileConfig struct {
	ProjectRoot   string  `toml:"project_root"`
	ContentDir    string  `toml:"content_dir"`
	EntryFile     string  `toml:"entry_file"`
	Workers       int     `toml:"workers"`
	Report        string  `toml:"report"`
	Renderer      string  `toml:"renderer"`
	D2Image       string  `toml:"d2_image"`
	Encoder       string  `toml:"encoder"`
	EndpointURL   string  `toml:"endpoint_url"`
	Bucket        string  `toml:"bucket"`
	PublicURL     string  `toml:"public_url"`
	KeyPrefix     string  `toml:"key_prefix"`
	CacheControl  string  `toml:"cache_control"`
	HTTPTimeout   string  `toml:"http_timeout"`
	DownloadRate  float64 `toml:"download_rate"`
	UploadRetries int     `toml:"upload_retries"`
	UserAgent     string  `toml:"user_agent"`
	Verbose       *bool   `toml:"verbose"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the config file in the working directory.
func DefaultConfigPath() string {
	return DefaultConfigFile
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("project-root", fc.ProjectRoot, &cfg.ProjectRoot)
	s.setString("content-dir", fc.ContentDir, &cfg.ContentDir)
	s.setString("entry-file", fc.EntryFile, &cfg.EntryFile)
	s.setString("report", fc.Report, &cfg.Report)
	s.setString("renderer", fc.Renderer, &cfg.Renderer)
	s.setString("d2-image", fc.D2Image, &cfg.D2Image)
	s.setString("encoder", fc.Encoder, &cfg.Encoder)
	s.setString("endpoint-url", fc.EndpointURL, &cfg.EndpointURL)
	s.setString("bucket", fc.Bucket, &cfg.Bucket)
	s.setString("public-url", fc.PublicURL, &cfg.PublicURL)
	s.setString("key-prefix", fc.KeyPrefix, &cfg.KeyPrefix)
	s.setString("cache-control", fc.CacheControl, &cfg.CacheControl)
	s.setString("user-agent", fc.UserAgent, &cfg.UserAgent)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setInt("workers", fc.Workers, &cfg.Workers)
	s.setInt("upload-retries", fc.UploadRetries, &cfg.UploadRetries)
	s.setFloat("download-rate", fc.DownloadRate, &cfg.DownloadRate)

	s.setBool("verbose", fc.Verbose, &cfg.Verbose)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
