//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
)

// InitializeApp creates a fully wired canvas server.
func InitializeApp(ctx context.Context, dir ConfigDir, version Version) (*App, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
