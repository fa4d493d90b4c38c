package pipeline

import (
	"context"
	"log/slog"
	"time"

	"voicescribe/internal/app/api"
	"voicescribe/internal/app/audio"
	"voicescribe/internal/app/cache"
	"voicescribe/internal/app/errors"
	"voicescribe/internal/app/metrics"
	"voicescribe/internal/app/model"
	"voicescribe/internal/app/scratch"
	"voicescribe/internal/app/storage"
	"voicescribe/internal/app/utils"
)

// uploadExt is the extension given to raw scratch files. The payload arrives
// as an opaque octet stream; ffmpeg detects the real container on conversion.
const uploadExt = ".webm"

// Pipeline sequences one request through scratch staging, optional
// conversion, durable upload, transcription and persistence. All clients are
// injected at construction and shared across in-flight requests; the scratch
// files are the only per-request state.
type Pipeline struct {
	scratch     *scratch.Store
	transcoder  audio.Transcoder
	transcriber api.Transcriber
	audioStore  storage.AudioStore
	repo        repository
	results     cache.ResultCache
	uploadFirst bool
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// repository is the narrow slice of the transcript DAO the pipeline needs.
type repository interface {
	Save(ctx context.Context, transcript, language, audioRef string) (string, error)
}

// Result is the outcome of a completed pipeline run.
type Result struct {
	RecordID   string
	Transcript string
	Language   string
	AudioRef   string
	Cached     bool
}

// New creates a pipeline. transcoder may be nil, which disables the
// conversion step for this deployment.
func New(
	scratchStore *scratch.Store,
	transcoder audio.Transcoder,
	transcriber api.Transcriber,
	audioStore storage.AudioStore,
	repo repository,
	results cache.ResultCache,
	uploadFirst bool,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Pipeline {
	return &Pipeline{
		scratch:     scratchStore,
		transcoder:  transcoder,
		transcriber: transcriber,
		audioStore:  audioStore,
		repo:        repo,
		results:     results,
		uploadFirst: uploadFirst,
		logger:      logger,
		metrics:     m,
	}
}

// Process runs the full pipeline for one uploaded payload. Every scratch file
// created along the way is removed before Process returns, on success and on
// every failure path alike; removal errors are logged and swallowed so they
// never mask the primary outcome.
func (p *Pipeline) Process(ctx context.Context, payload []byte, language string) (*Result, error) {
	started := time.Now()
	if p.metrics != nil {
		p.metrics.RecordPipelineRequest(len(payload))
	}

	cacheKey := cache.Key(utils.HashBytes(payload), language)
	if rec, ok := p.results.Get(ctx, cacheKey); ok {
		if p.metrics != nil {
			p.metrics.RecordCacheHit()
		}
		p.logger.Info("transcript served from cache", "record_id", rec.ID, "language", rec.Language)
		return &Result{
			RecordID:   rec.ID,
			Transcript: rec.Transcript,
			Language:   rec.Language,
			AudioRef:   rec.AudioRef,
			Cached:     true,
		}, nil
	}
	if p.metrics != nil {
		p.metrics.RecordCacheMiss()
	}

	res, err := p.run(ctx, payload, language)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordPipelineFailure(errors.StageName(err), time.Since(started).Seconds())
		}
		return nil, err
	}

	if p.metrics != nil {
		p.metrics.RecordPipelineSuccess(time.Since(started).Seconds())
	}
	p.results.Set(ctx, cacheKey, &model.TranscriptRecord{
		ID:         res.RecordID,
		Transcript: res.Transcript,
		Language:   res.Language,
		AudioRef:   res.AudioRef,
	})
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, payload []byte, language string) (*Result, error) {
	scratchPath, err := p.scratch.Write(payload, uploadExt)
	if err != nil {
		return nil, err
	}
	defer p.scratch.Remove(scratchPath)
	p.logger.Debug("payload staged", "path", scratchPath, "bytes", len(payload))

	chosenPath := scratchPath
	if p.transcoder != nil {
		convertedPath, err := p.transcoder.Convert(ctx, scratchPath)
		if err != nil {
			return nil, err
		}
		defer p.scratch.Remove(convertedPath)
		chosenPath = convertedPath
	}

	p.observeDuration(ctx, chosenPath)

	var audioRef, transcript string
	if p.uploadFirst {
		if audioRef, err = p.audioStore.Upload(ctx, chosenPath); err != nil {
			return nil, err
		}
		if transcript, err = p.transcriber.Transcript(ctx, chosenPath, language); err != nil {
			return nil, err
		}
	} else {
		if transcript, err = p.transcriber.Transcript(ctx, chosenPath, language); err != nil {
			return nil, err
		}
		if audioRef, err = p.audioStore.Upload(ctx, chosenPath); err != nil {
			return nil, err
		}
	}

	recordID, err := p.repo.Save(ctx, transcript, language, audioRef)
	if err != nil {
		return nil, err
	}

	p.logger.Info("pipeline completed",
		"record_id", recordID,
		"language", language,
		"audio_ref", audioRef,
	)
	return &Result{
		RecordID:   recordID,
		Transcript: transcript,
		Language:   language,
		AudioRef:   audioRef,
	}, nil
}

// observeDuration probes the audio length for metrics. Best-effort only.
func (p *Pipeline) observeDuration(ctx context.Context, path string) {
	if p.metrics == nil {
		return
	}
	seconds, err := audio.Duration(ctx, path)
	if err != nil {
		p.logger.Debug("audio duration probe failed", "path", path, "error", err)
		return
	}
	p.metrics.RecordAudioDuration(seconds)
}
