// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds application settings and resolved paths. Values are layered:
// built-in defaults, then the user's settings.yaml, then environment
// variables.
type Config struct {
	HomeDir string `yaml:"-" env:"-"`
	AppDir  string `yaml:"-" env:"-"`

	// LibraryDir is the folder indexed by the library database.
	LibraryDir string `yaml:"libraryDir" env:"SNAPMARK_LIBRARY_DIR"`

	// DefaultImageDir is where open/insert image dialogs start.
	DefaultImageDir string `yaml:"defaultImageDir" env:"SNAPMARK_IMAGE_DIR"`

	// ExportDir is where HTML/image exports are written by default.
	ExportDir string `yaml:"exportDir" env:"SNAPMARK_EXPORT_DIR"`

	DatabasePath string `yaml:"-" env:"-"`
	AutosaveDir  string `yaml:"-" env:"-"`

	// CanvasWidth and CanvasHeight are the default canvas size for new
	// documents.
	CanvasWidth  int `yaml:"canvasWidth" env:"SNAPMARK_CANVAS_WIDTH"`
	CanvasHeight int `yaml:"canvasHeight" env:"SNAPMARK_CANVAS_HEIGHT"`

	// AutosaveIntervalSeconds is how often a dirty document is autosaved.
	// Zero disables autosave.
	AutosaveIntervalSeconds int `yaml:"autosaveIntervalSeconds" env:"SNAPMARK_AUTOSAVE_INTERVAL"`

	// MaxUndoDepth caps the history stack; zero means unlimited.
	MaxUndoDepth int `yaml:"maxUndoDepth" env:"SNAPMARK_MAX_UNDO_DEPTH"`
}

// Load resolves the configuration and ensures the app directories exist.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return load(home, filepath.Join(home, ".snapmark"))
}

// load is the testable core of Load with injectable directories.
func load(home, appDir string) (*Config, error) {
	cfg := &Config{
		HomeDir:         home,
		AppDir:          appDir,
		LibraryDir:      filepath.Join(home, "Pictures", "snapmark"),
		DefaultImageDir: filepath.Join(home, "Pictures"),
		ExportDir:       filepath.Join(home, "Downloads"),
		DatabasePath:    filepath.Join(appDir, "library.db"),
		AutosaveDir:     filepath.Join(appDir, "autosave"),
		CanvasWidth:     1280,
		CanvasHeight:    800,

		AutosaveIntervalSeconds: 60,
		MaxUndoDepth:            100,
	}

	if err := cfg.applyFile(filepath.Join(appDir, "settings.yaml")); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.expandPaths()

	for _, dir := range []string{appDir, cfg.AutosaveDir, cfg.LibraryDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// applyFile overlays the user's settings file when present.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse settings: %w", err)
	}
	return nil
}

// SaveUserSettings writes the overridable settings to the user's settings
// file and returns its path.
func (c *Config) SaveUserSettings() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal settings: %w", err)
	}
	path := filepath.Join(c.AppDir, "settings.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write settings: %w", err)
	}
	return path, nil
}

// expandPaths expands a leading ~ in user-supplied path settings.
func (c *Config) expandPaths() {
	for _, p := range []*string{&c.LibraryDir, &c.DefaultImageDir, &c.ExportDir} {
		if strings.HasPrefix(*p, "~/") {
			*p = filepath.Join(c.HomeDir, (*p)[2:])
		}
	}
}
