//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/wczubal1/GreenAgentWitty/pkg/config"
	"github.com/wczubal1/GreenAgentWitty/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Engine collaborators
		ProvideClassifier,
		ProvideDateResolver,
		ProvideMessenger,

		// Use cases
		ProvideAssessor,

		// Transport
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
