package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"voicescribe/internal/api/handlers"
	"voicescribe/internal/app/api"
	"voicescribe/internal/app/api/openai"
	"voicescribe/internal/app/api/openai/whisper"
	"voicescribe/internal/app/audio"
	"voicescribe/internal/app/cache"
	"voicescribe/internal/app/metrics"
	"voicescribe/internal/app/pipeline"
	"voicescribe/internal/app/repository"
	"voicescribe/internal/app/repository/pg"
	"voicescribe/internal/app/repository/sqlite"
	"voicescribe/internal/app/scratch"
	"voicescribe/internal/app/storage"
	"voicescribe/internal/config"
)

// ProvideLogger builds the process-wide structured logger.
func ProvideLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Server.Environment != "production" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// ProvideRegistry builds the Prometheus registry with the standard process
// and Go runtime collectors.
func ProvideRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}

// ProvideMetrics registers the service metrics on the registry.
func ProvideMetrics(registry *prometheus.Registry) *metrics.Metrics {
	return metrics.NewMetrics(registry)
}

// ProvideScratchStore builds the per-request scratch file store.
func ProvideScratchStore(cfg *config.Config, logger *slog.Logger) *scratch.Store {
	return scratch.NewStore(cfg.Pipeline.ScratchDir, logger)
}

// ProvideTranscoder builds the optional conversion step. Returns nil when
// the transcode mode is off.
func ProvideTranscoder(cfg *config.Config, logger *slog.Logger) audio.Transcoder {
	t := audio.NewFFmpegTranscoder(cfg.Pipeline.TranscodeMode, logger)
	if t == nil {
		return nil
	}
	return t
}

// ProvideTranscriber builds the remote transcription client with bounded retry.
func ProvideTranscriber(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) api.Transcriber {
	client := openai.NewClient(cfg.Transcribe.APIKey)
	return whisper.NewRemoteTranscriber(client, cfg.Transcribe.MaxAttempts, cfg.Transcribe.AttemptTimeout, logger, m)
}

// ProvideAudioStore builds the durable blob store client and ensures the
// bucket exists.
func ProvideAudioStore(ctx context.Context, cfg *config.Config) (storage.AudioStore, error) {
	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return nil, err
	}
	return storage.NewMinioAudioStore(ctx, client, cfg.Storage)
}

// ProvideTranscriptDAO builds the configured repository backend.
func ProvideTranscriptDAO(cfg *config.Config) (repository.TranscriptDAO, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := pg.Open(cfg.Database.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return pg.NewPostgresDB(db), nil
	default:
		db, err := sqlite.Open(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlite.NewSQLiteDB(db), nil
	}
}

// ProvideResultCache builds the optional Redis result cache, or a noop cache
// when no Redis address is configured.
func ProvideResultCache(cfg *config.Config) cache.ResultCache {
	if !cfg.CacheEnabled() {
		return cache.NewNoopCache()
	}
	return cache.NewRedisCache(cache.NewRedisClient(cfg.Redis), cfg.Redis.TTL)
}

// ProvidePipeline assembles the request pipeline.
func ProvidePipeline(
	cfg *config.Config,
	scratchStore *scratch.Store,
	transcoder audio.Transcoder,
	transcriber api.Transcriber,
	audioStore storage.AudioStore,
	dao repository.TranscriptDAO,
	results cache.ResultCache,
	logger *slog.Logger,
	m *metrics.Metrics,
) *pipeline.Pipeline {
	return pipeline.New(scratchStore, transcoder, transcriber, audioStore, dao, results, cfg.Pipeline.UploadFirst, logger, m)
}

// ProvideTranscribeHandler builds the ingest endpoint handler.
func ProvideTranscribeHandler(cfg *config.Config, p *pipeline.Pipeline, logger *slog.Logger) *handlers.TranscribeHandler {
	return handlers.NewTranscribeHandler(p, cfg.Pipeline.MaxUploadBytes, cfg.Pipeline.DefaultLanguage, logger)
}
