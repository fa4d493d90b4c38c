//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"voicescribe/internal/api/server"
	"voicescribe/internal/config"
)

// InitializeServer assembles the fully wired API server from configuration.
func InitializeServer(ctx context.Context, cfg *config.Config) (*server.Server, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,
		ProvideScratchStore,
		ProvideTranscoder,
		ProvideTranscriber,
		ProvideAudioStore,
		ProvideTranscriptDAO,
		ProvideResultCache,
		ProvidePipeline,
		ProvideTranscribeHandler,
		wire.FieldsOf(new(*config.Config), "Server"),
		server.NewServer,
	)
	return nil, nil, nil
}
