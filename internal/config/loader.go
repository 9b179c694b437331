package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"flowcanvas/internal/errors"
)

// ============================================================================
// CONFIGURATION LOADER
// ============================================================================

// Loader reads configuration from a directory of layered files.
type Loader struct {
	// basePath is the directory holding base.<ext> and <environment>.<ext>
	basePath    string
	environment Environment

	// extension order decides which file wins when several formats exist
	order       []string
	fileLoaders map[string]FileLoader
}

// FileLoader decodes one configuration file format.
type FileLoader interface {
	Load(reader io.Reader, target any) error
	Extension() string
}

// NewLoader creates a loader for basePath with the YAML, JSON and TOML
// formats registered.
func NewLoader(basePath string, env Environment) *Loader {
	if basePath == "" {
		basePath = "config"
	}
	l := &Loader{
		basePath:    basePath,
		environment: env,
		fileLoaders: make(map[string]FileLoader),
	}
	l.RegisterLoader(&YAMLLoader{})
	l.RegisterLoader(&JSONLoader{})
	l.RegisterLoader(&TOMLLoader{})
	return l
}

// RegisterLoader adds or replaces the loader for a file extension.
func (l *Loader) RegisterLoader(loader FileLoader) {
	ext := loader.Extension()
	if _, ok := l.fileLoaders[ext]; !ok {
		l.order = append(l.order, ext)
	}
	l.fileLoaders[ext] = loader
}

// BasePath returns the configuration directory.
func (l *Loader) BasePath() string {
	return l.basePath
}

// Load builds the configuration from defaults, base file, environment file
// and environment variables, in that order, then validates it.
func (l *Loader) Load() (*Config, error) {
	cfg := Default(l.environment)
	sources := []string{"defaults"}

	for _, name := range []string{"base", strings.ToLower(string(l.environment))} {
		path, err := l.loadFile(name, cfg)
		if err != nil {
			if stderrors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, errors.Internal(errors.CodeConfigLoad, "failed to load configuration file").
				WithOperation("config.Load").
				WithResource(name).
				WithDetails(err.Error()).
				WithCause(err).
				Build()
		}
		sources = append(sources, path)
	}

	if loadEnvironmentVariables(cfg) {
		sources = append(sources, "environment")
	}
	cfg.LoadedFrom = sources

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes the first <name>.<ext> found into cfg and returns its path.
func (l *Loader) loadFile(name string, cfg *Config) (string, error) {
	for _, ext := range l.order {
		path := filepath.Join(l.basePath, name+"."+ext)

		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", err
		}
		err = l.fileLoaders[ext].Load(file, cfg)
		file.Close()
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return path, nil
	}
	return "", os.ErrNotExist
}

// loadEnvironmentVariables overlays FLOWCANVAS_* variables and reports
// whether any was set.
func loadEnvironmentVariables(cfg *Config) bool {
	found := false
	str := func(key string, dst *string) {
		if val, ok := os.LookupEnv(EnvPrefix + key); ok && val != "" {
			*dst = val
			found = true
		}
	}
	num := func(key string, dst *float64) {
		if val, ok := os.LookupEnv(EnvPrefix + key); ok {
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				*dst = f
				found = true
			}
		}
	}
	flag := func(key string, dst *bool) {
		if val, ok := os.LookupEnv(EnvPrefix + key); ok {
			if b, err := strconv.ParseBool(val); err == nil {
				*dst = b
				found = true
			}
		}
	}

	// Server
	str("SERVER_HOST", &cfg.Server.Host)
	if val := os.Getenv(EnvPrefix + "SERVER_PORT"); val != "" {
		if port := parseInt(val); port > 0 {
			cfg.Server.Port = port
			found = true
		}
	}

	// Logging
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)

	// Observability
	flag("METRICS_ENABLED", &cfg.Metrics.Enabled)
	flag("TRACING_ENABLED", &cfg.Tracing.Enabled)
	str("TRACING_ENDPOINT", &cfg.Tracing.Endpoint)

	// Editor
	num("EDITOR_MIN_ZOOM", &cfg.Editor.MinZoom)
	num("EDITOR_MAX_ZOOM", &cfg.Editor.MaxZoom)
	flag("EDITOR_SNAP_TO_GRID", &cfg.Editor.SnapToGrid)
	str("EDITOR_CONNECTION_MODE", &cfg.Editor.ConnectionMode)
	flag("EDITOR_ONLY_RENDER_VISIBLE", &cfg.Editor.OnlyRenderVisible)
	flag("EDITOR_FIT_VIEW_ON_INIT", &cfg.Editor.FitViewOnInit)
	str("EDITOR_NODE_MODE", &cfg.Editor.NodeMode)
	str("EDITOR_EDGE_MODE", &cfg.Editor.EdgeMode)

	// Viewport
	num("VIEWPORT_WIDTH", &cfg.Viewport.Width)
	num("VIEWPORT_HEIGHT", &cfg.Viewport.Height)

	return found
}

// ============================================================================
// FILE LOADERS
// ============================================================================

// YAMLLoader loads configuration from YAML files.
type YAMLLoader struct{}

func (y *YAMLLoader) Load(reader io.Reader, target any) error {
	err := yaml.NewDecoder(reader).Decode(target)
	if stderrors.Is(err, io.EOF) {
		return nil // empty file
	}
	return err
}

func (y *YAMLLoader) Extension() string {
	return "yaml"
}

// JSONLoader loads configuration from JSON files.
type JSONLoader struct{}

func (j *JSONLoader) Load(reader io.Reader, target any) error {
	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func (j *JSONLoader) Extension() string {
	return "json"
}

// TOMLLoader loads configuration from TOML files.
type TOMLLoader struct{}

func (t *TOMLLoader) Load(reader io.Reader, target any) error {
	_, err := toml.NewDecoder(reader).Decode(target)
	return err
}

func (t *TOMLLoader) Extension() string {
	return "toml"
}

// ============================================================================
// HELPER FUNCTIONS
// ============================================================================

func parseInt(s string) int {
	val, _ := strconv.Atoi(s)
	return val
}

// Load reads the configuration from dir for the environment named by
// FLOWCANVAS_ENVIRONMENT.
func Load(dir string) (*Config, error) {
	return NewLoader(dir, GetEnvironment()).Load()
}
