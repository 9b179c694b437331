// Package config loads the engine configuration from layered sources.
//
// Loading order, lowest priority first:
//  1. Defaults in code
//  2. base.<ext> in the configuration directory
//  3. <environment>.<ext> in the configuration directory
//  4. FLOWCANVAS_* environment variables
//
// Supported file formats are YAML, JSON and TOML. The merged result is
// checked with struct tag validation before it is returned. In development a
// Watcher reloads the directory on change and pushes the editor section into
// the running store.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/errors"
	"flowcanvas/internal/store"
	"flowcanvas/internal/validation"
)

// Environment is the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "FLOWCANVAS_"

// GetEnvironment reads the environment from FLOWCANVAS_ENVIRONMENT, defaulting
// to development.
func GetEnvironment() Environment {
	switch env := Environment(strings.ToLower(os.Getenv(EnvPrefix + "ENVIRONMENT"))); env {
	case Staging, Production:
		return env
	default:
		return Development
	}
}

// Config is the complete engine configuration.
type Config struct {
	Environment Environment  `yaml:"environment" json:"environment" toml:"environment" validate:"required,oneof=development staging production"`
	Editor      Editor       `yaml:"editor" json:"editor" toml:"editor"`
	Viewport    ViewportSize `yaml:"viewport" json:"viewport" toml:"viewport"`
	Server      Server       `yaml:"server" json:"server" toml:"server"`
	Logging     Logging      `yaml:"logging" json:"logging" toml:"logging"`
	Metrics     Metrics      `yaml:"metrics" json:"metrics" toml:"metrics"`
	Tracing     Tracing      `yaml:"tracing" json:"tracing" toml:"tracing"`

	// LoadedFrom lists the sources that contributed, in order.
	LoadedFrom []string `yaml:"-" json:"-" toml:"-"`
}

// Editor tunes the canvas behavior.
type Editor struct {
	MinZoom float64 `yaml:"minZoom" json:"minZoom" toml:"minZoom" validate:"gt=0"`
	MaxZoom float64 `yaml:"maxZoom" json:"maxZoom" toml:"maxZoom" validate:"gtefield=MinZoom"`

	// nil means unbounded
	TranslateExtent *Extent `yaml:"translateExtent" json:"translateExtent" toml:"translateExtent"`
	NodeExtent      *Extent `yaml:"nodeExtent" json:"nodeExtent" toml:"nodeExtent"`

	SnapToGrid bool       `yaml:"snapToGrid" json:"snapToGrid" toml:"snapToGrid"`
	SnapGrid   [2]float64 `yaml:"snapGrid" json:"snapGrid" toml:"snapGrid" validate:"dive,gt=0"`

	ConnectionMode       string `yaml:"connectionMode" json:"connectionMode" toml:"connectionMode" validate:"oneof=strict loose"`
	ConnectOnClick       bool   `yaml:"connectOnClick" json:"connectOnClick" toml:"connectOnClick"`
	MultiSelectionActive bool   `yaml:"multiSelectionActive" json:"multiSelectionActive" toml:"multiSelectionActive"`

	NodesDraggable     bool `yaml:"nodesDraggable" json:"nodesDraggable" toml:"nodesDraggable"`
	NodesConnectable   bool `yaml:"nodesConnectable" json:"nodesConnectable" toml:"nodesConnectable"`
	ElementsSelectable bool `yaml:"elementsSelectable" json:"elementsSelectable" toml:"elementsSelectable"`

	FitViewOnInit  bool    `yaml:"fitViewOnInit" json:"fitViewOnInit" toml:"fitViewOnInit"`
	FitViewPadding float64 `yaml:"fitViewPadding" json:"fitViewPadding" toml:"fitViewPadding" validate:"gte=0"`

	OnlyRenderVisible bool `yaml:"onlyRenderVisible" json:"onlyRenderVisible" toml:"onlyRenderVisible"`

	NodeMode string `yaml:"nodeMode" json:"nodeMode" toml:"nodeMode" validate:"oneof=controlled uncontrolled"`
	EdgeMode string `yaml:"edgeMode" json:"edgeMode" toml:"edgeMode" validate:"oneof=controlled uncontrolled"`

	DefaultEdge *EdgeDefaults `yaml:"defaultEdge" json:"defaultEdge" toml:"defaultEdge"`
}

// Extent is a rectangular bound in graph space.
type Extent struct {
	MinX float64 `yaml:"minX" json:"minX" toml:"minX"`
	MinY float64 `yaml:"minY" json:"minY" toml:"minY"`
	MaxX float64 `yaml:"maxX" json:"maxX" toml:"maxX" validate:"gtfield=MinX"`
	MaxY float64 `yaml:"maxY" json:"maxY" toml:"maxY" validate:"gtfield=MinY"`
}

// EdgeDefaults are merged into every edge that leaves the field unset.
type EdgeDefaults struct {
	Type     string `yaml:"type" json:"type" toml:"type"`
	Label    string `yaml:"label" json:"label" toml:"label"`
	Animated *bool  `yaml:"animated" json:"animated" toml:"animated"`
	ZIndex   *int   `yaml:"zIndex" json:"zIndex" toml:"zIndex"`
	Marker   string `yaml:"marker" json:"marker" toml:"marker" validate:"omitempty,oneof=arrow arrowclosed"`
}

// ViewportSize is the initial container size in screen pixels.
type ViewportSize struct {
	Width  float64 `yaml:"width" json:"width" toml:"width" validate:"gte=0"`
	Height float64 `yaml:"height" json:"height" toml:"height" validate:"gte=0"`
}

// Server configures the HTTP inspector.
type Server struct {
	Host            string   `yaml:"host" json:"host" toml:"host" validate:"required"`
	Port            int      `yaml:"port" json:"port" toml:"port" validate:"min=1,max=65535"`
	ReadTimeout     Duration `yaml:"readTimeout" json:"readTimeout" toml:"readTimeout"`
	WriteTimeout    Duration `yaml:"writeTimeout" json:"writeTimeout" toml:"writeTimeout"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout" json:"shutdownTimeout" toml:"shutdownTimeout"`
	AllowedOrigins  []string `yaml:"allowedOrigins" json:"allowedOrigins" toml:"allowedOrigins"`
}

// Addr returns the listen address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Logging configures the zap logger.
type Logging struct {
	Level  string `yaml:"level" json:"level" toml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" json:"format" toml:"format" validate:"oneof=json console"`
}

// Metrics configures the prometheus collector.
type Metrics struct {
	Enabled   bool   `yaml:"enabled" json:"enabled" toml:"enabled"`
	Namespace string `yaml:"namespace" json:"namespace" toml:"namespace" validate:"required_if=Enabled true"`
	Path      string `yaml:"path" json:"path" toml:"path" validate:"required_if=Enabled true"`
}

// Tracing configures the OTLP exporter.
type Tracing struct {
	Enabled     bool    `yaml:"enabled" json:"enabled" toml:"enabled"`
	ServiceName string  `yaml:"serviceName" json:"serviceName" toml:"serviceName" validate:"required_if=Enabled true"`
	Endpoint    string  `yaml:"endpoint" json:"endpoint" toml:"endpoint" validate:"required_if=Enabled true"`
	Insecure    bool    `yaml:"insecure" json:"insecure" toml:"insecure"`
	SampleRate  float64 `yaml:"sampleRate" json:"sampleRate" toml:"sampleRate" validate:"gte=0,lte=1"`
}

// Duration is a time.Duration written as "30s" in every file format.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file sets a value.
func Default(env Environment) *Config {
	return &Config{
		Environment: env,
		Editor: Editor{
			MinZoom:            0.5,
			MaxZoom:            2,
			SnapGrid:           [2]float64(geometry.DefaultSnapGrid),
			ConnectionMode:     string(store.ConnectionStrict),
			ConnectOnClick:     true,
			NodesDraggable:     true,
			NodesConnectable:   true,
			ElementsSelectable: true,
			FitViewPadding:     store.DefaultPadding,
			NodeMode:           string(store.ModeUncontrolled),
			EdgeMode:           string(store.ModeUncontrolled),
		},
		Viewport: ViewportSize{Width: 1280, Height: 720},
		Server: Server{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     Duration{30 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
			AllowedOrigins:  []string{"*"},
		},
		Logging: Logging{Level: "info", Format: "json"},
		Metrics: Metrics{Enabled: true, Namespace: "flowcanvas", Path: "/metrics"},
		Tracing: Tracing{
			ServiceName: "flowcanvas",
			Endpoint:    "localhost:4317",
			Insecure:    true,
			SampleRate:  0.1,
		},
	}
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// ============================================================================
// STORE SETTINGS
// ============================================================================

// StoreSettings converts the editor and viewport sections into the settings
// a store is created with.
func (c *Config) StoreSettings() store.Settings {
	e := c.Editor
	set := store.Settings{
		Width:              c.Viewport.Width,
		Height:             c.Viewport.Height,
		MinZoom:            e.MinZoom,
		MaxZoom:            e.MaxZoom,
		TranslateExtent:    e.TranslateExtent.coordinates(),
		NodeExtent:         e.NodeExtent.coordinates(),
		SnapToGrid:         e.SnapToGrid,
		SnapGrid:           geometry.SnapGrid(e.SnapGrid),
		ConnectionMode:     store.ConnectionMode(e.ConnectionMode),
		ConnectOnClick:     e.ConnectOnClick,
		NodesDraggable:     e.NodesDraggable,
		NodesConnectable:   e.NodesConnectable,
		ElementsSelectable: e.ElementsSelectable,
		FitViewOnInit:      e.FitViewOnInit,
		DefaultEdgeOptions: e.DefaultEdge.options(),
		NodeMode:           store.Mode(e.NodeMode),
		EdgeMode:           store.Mode(e.EdgeMode),
	}
	if e.FitViewOnInit {
		padding := e.FitViewPadding
		set.FitViewOptions = &store.FitViewOptions{Padding: &padding}
	}
	return set
}

// ApplyTo pushes the tunable part of the configuration into a running store.
func (c *Config) ApplyTo(s *store.Store) {
	s.ApplySettings(c.StoreSettings())
	if s.Snapshot().MultiSelectionActive != c.Editor.MultiSelectionActive {
		s.SetMultiSelectionActive(c.Editor.MultiSelectionActive)
	}
}

func (e *Extent) coordinates() geometry.CoordinateExtent {
	if e == nil {
		return geometry.InfiniteExtent
	}
	return geometry.CoordinateExtent{
		{X: e.MinX, Y: e.MinY},
		{X: e.MaxX, Y: e.MaxY},
	}
}

func (d *EdgeDefaults) options() *edge.DefaultOptions {
	if d == nil {
		return nil
	}
	opts := &edge.DefaultOptions{
		Type:     d.Type,
		Label:    d.Label,
		Animated: d.Animated,
		ZIndex:   d.ZIndex,
	}
	if d.Marker != "" {
		opts.MarkerEnd = &edge.Marker{Type: edge.MarkerType(d.Marker)}
	}
	return opts
}

// Validate checks every section against its tags.
func (c *Config) Validate() error {
	return validation.Struct(c, errors.CodeConfigInvalid)
}
