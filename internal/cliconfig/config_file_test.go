package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				ContentDir:   "content/posts",
				Renderer:     "docker",
				Workers:      4,
				DownloadRate: 2.5,
				HTTPTimeout:  "45s",
				Verbose:      &trueVal,
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				ContentDir:   "content/posts",
				Renderer:     "docker",
				Workers:      4,
				DownloadRate: 2.5,
				HTTPTimeout:  45 * time.Second,
				Verbose:      true,
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				ContentDir: "content/posts",
				Renderer:   "docker",
			},
			changed: map[string]bool{"content-dir": true},
			initial: Config{
				ContentDir: "flag/dir",
				Renderer:   "local",
			},
			expected: Config{
				ContentDir: "flag/dir", // unchanged because flag was set
				Renderer:   "docker",
			},
		},
		{
			name: "zero values leave defaults alone",
			fileConfig: FileConfig{
				Workers:      0,
				DownloadRate: 0,
			},
			changed: map[string]bool{},
			initial: Config{Workers: 1, DownloadRate: 4},
			expected: Config{
				Workers:      1,
				DownloadRate: 4,
			},
		},
		{
			name:       "returns error for invalid duration",
			fileConfig: FileConfig{HTTPTimeout: "soon"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyFileConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyFileConfig() unexpected error: %v", err)
				return
			}
			if tt.wantErr {
				return
			}

			if cfg.ContentDir != tt.expected.ContentDir {
				t.Errorf("ContentDir = %v, want %v", cfg.ContentDir, tt.expected.ContentDir)
			}
			if cfg.Renderer != tt.expected.Renderer {
				t.Errorf("Renderer = %v, want %v", cfg.Renderer, tt.expected.Renderer)
			}
			if cfg.Workers != tt.expected.Workers {
				t.Errorf("Workers = %v, want %v", cfg.Workers, tt.expected.Workers)
			}
			if cfg.DownloadRate != tt.expected.DownloadRate {
				t.Errorf("DownloadRate = %v, want %v", cfg.DownloadRate, tt.expected.DownloadRate)
			}
			if cfg.HTTPTimeout != tt.expected.HTTPTimeout {
				t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, tt.expected.HTTPTimeout)
			}
			if cfg.Verbose != tt.expected.Verbose {
				t.Errorf("Verbose = %v, want %v", cfg.Verbose, tt.expected.Verbose)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "assetship.toml")

	tomlContent := `
content_dir = "src/content/blog"
renderer = "docker"
encoder = "png"
bucket = "blog-assets"
public_url = "https://assets.example.com"
workers = 3
verbose = true
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.ContentDir != "src/content/blog" {
		t.Errorf("ContentDir = %v, want src/content/blog", fc.ContentDir)
	}
	if fc.Renderer != "docker" {
		t.Errorf("Renderer = %v, want docker", fc.Renderer)
	}
	if fc.Encoder != "png" {
		t.Errorf("Encoder = %v, want png", fc.Encoder)
	}
	if fc.Bucket != "blog-assets" {
		t.Errorf("Bucket = %v, want blog-assets", fc.Bucket)
	}
	if fc.Workers != 3 {
		t.Errorf("Workers = %v, want 3", fc.Workers)
	}
	if fc.Verbose == nil || !*fc.Verbose {
		t.Errorf("Verbose = %v, want true", fc.Verbose)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/assetship.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
content_dir = "/test"
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	if got := DefaultConfigPath(); got != "assetship.toml" {
		t.Errorf("DefaultConfigPath() = %v, want assetship.toml", got)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
