package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/bft-labs/assetship/internal/domain"
)

// Defaults for the blog layout and the R2 bucket.
const (
	DefaultContentDir   = "src/content/blog"
	DefaultEntryFile    = "index.mdx"
	DefaultKeyPrefix    = "blogs"
	DefaultCacheControl = "public, max-age=31536000"
	DefaultD2Image      = "terrastruct/d2"
)

// Renderer and encoder choices.
const (
	RendererLocal  = "local"
	RendererDocker = "docker"
	EncoderAVIF    = "avif"
	EncoderPNG     = "png"
)

// Config holds CLI configuration for assetship.
type Config struct {
	ProjectRoot string
	ContentDir  string
	EntryFile   string
	Post        string

	DryRun  bool
	Verbose bool
	Watch   bool
	Workers int
	Report  string

	Renderer string
	D2Image  string
	Encoder  string

	AccessKeyID     string
	SecretAccessKey string
	EndpointURL     string
	Bucket          string
	PublicURL       string
	KeyPrefix       string
	CacheControl    string

	HTTPTimeout   time.Duration
	DownloadRate  float64
	UploadRetries int
	UserAgent     string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ProjectRoot:   ".",
		ContentDir:    DefaultContentDir,
		EntryFile:     DefaultEntryFile,
		Workers:       1,
		Renderer:      RendererLocal,
		D2Image:       DefaultD2Image,
		Encoder:       EncoderAVIF,
		KeyPrefix:     DefaultKeyPrefix,
		CacheControl:  DefaultCacheControl,
		HTTPTimeout:   30 * time.Second,
		DownloadRate:  4,
		UploadRetries: 3,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
// Bucket credentials are only required when the run uploads.
func (c *Config) Validate() error {
	if c.EntryFile == "" {
		c.EntryFile = DefaultEntryFile
	}
	if c.ProjectRoot == "" {
		c.ProjectRoot = "."
	}
	if c.UploadRetries <= 0 {
		c.UploadRetries = 1
	}

	err := validation.ValidateStruct(c,
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.Renderer, validation.Required, validation.In(RendererLocal, RendererDocker)),
		validation.Field(&c.Encoder, validation.Required, validation.In(EncoderAVIF, EncoderPNG)),
		validation.Field(&c.Workers, validation.Required, validation.Min(1)),
		validation.Field(&c.HTTPTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.DownloadRate, validation.Min(0.0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	c.KeyPrefix = strings.Trim(c.KeyPrefix, "/")
	if c.PublicURL == "" && c.Bucket != "" {
		c.PublicURL = "https://" + c.Bucket + ".r2.dev"
	}
	c.PublicURL = strings.TrimRight(c.PublicURL, "/")
	c.EndpointURL = strings.TrimRight(c.EndpointURL, "/")

	if c.DryRun {
		return nil
	}
	var missing []string
	if c.Bucket == "" {
		missing = append(missing, "bucket")
	}
	if c.AccessKeyID == "" {
		missing = append(missing, "access key id")
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, "secret access key")
	}
	if c.EndpointURL == "" {
		missing = append(missing, "endpoint url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s (set R2_* variables or use --dry-run)", domain.ErrInvalidConfig, strings.Join(missing, ", "))
	}
	return nil
}

// Masked returns a copy safe to log.
func (c Config) Masked() Config {
	if c.AccessKeyID != "" {
		c.AccessKeyID = "*****"
	}
	if c.SecretAccessKey != "" {
		c.SecretAccessKey = "*****"
	}
	return c
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value if positive and flag not changed.
func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if positive.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setFloatFromString parses a string to float64 and sets the destination if positive.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f <= 0 {
		return nil
	}
	*dst = f
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
