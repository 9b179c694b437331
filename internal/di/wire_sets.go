package di

import "github.com/google/wire"

// ConfigProviders groups the configuration providers.
var ConfigProviders = wire.NewSet(
	ProvideEnvironment,
	ProvideLoader,
	ProvideConfig,
)

// InfrastructureProviders groups logging, tracing, metrics and hot reload.
var InfrastructureProviders = wire.NewSet(
	ProvideLogging,
	ProvideLogger,
	ProvideTracer,
	ProvideCollector,
	ProvideWatcher,
)

// ApplicationProviders groups the canvas engine.
var ApplicationProviders = wire.NewSet(
	ProvideStore,
	ProvidePanZoom,
	ProvideViewportHelper,
	ProvideInstance,
	ProvideCull,
)

// InterfaceProviders groups the HTTP surface.
var InterfaceProviders = wire.NewSet(
	ProvideRouter,
	ProvideHTTPServer,
)

// SuperSet contains every provider needed to build an App.
var SuperSet = wire.NewSet(
	ConfigProviders,
	InfrastructureProviders,
	ApplicationProviders,
	InterfaceProviders,
	wire.Struct(new(App), "*"),
)
