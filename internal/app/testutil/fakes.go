// Package testutil provides configurable fakes for the pipeline's
// collaborators. All fakes are safe for concurrent use.
package testutil

import (
	"context"
	"sync"

	"voicescribe/internal/app/model"
)

// FakeTranscriber scripts transcription outcomes per call.
type FakeTranscriber struct {
	mu sync.Mutex

	// Script holds the error returned by each successive call; a nil entry
	// means success. Calls beyond the script succeed.
	Script []error

	// Response is the text returned on success.
	Response string

	Calls     int
	LastPath  string
	Languages []string
}

func (f *FakeTranscriber) Transcript(ctx context.Context, inputFilePath string, language string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.Calls
	f.Calls++
	f.LastPath = inputFilePath
	f.Languages = append(f.Languages, language)
	if idx < len(f.Script) && f.Script[idx] != nil {
		return "", f.Script[idx]
	}
	return f.Response, nil
}

// FakeAudioStore records uploads and returns a deterministic URI.
type FakeAudioStore struct {
	mu sync.Mutex

	Err   error
	Calls int
	Paths []string
}

func (f *FakeAudioStore) Upload(ctx context.Context, localPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.Paths = append(f.Paths, localPath)
	if f.Err != nil {
		return "", f.Err
	}
	return "http://minio.local/recordings/" + localPath, nil
}

// FakeTranscriptDAO records saves.
type FakeTranscriptDAO struct {
	mu sync.Mutex

	Err    error
	Saved  []model.TranscriptRecord
	NextID string
}

func (f *FakeTranscriptDAO) Save(ctx context.Context, transcript, language, audioRef string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	id := f.NextID
	if id == "" {
		id = "record-1"
	}
	f.Saved = append(f.Saved, model.TranscriptRecord{
		ID:         id,
		Transcript: transcript,
		Language:   language,
		AudioRef:   audioRef,
	})
	return id, nil
}

// FakeResultCache is an in-memory ResultCache.
type FakeResultCache struct {
	mu      sync.Mutex
	entries map[string]*model.TranscriptRecord

	Gets int
	Sets int
}

func NewFakeResultCache() *FakeResultCache {
	return &FakeResultCache{entries: make(map[string]*model.TranscriptRecord)}
}

func (f *FakeResultCache) Get(ctx context.Context, key string) (*model.TranscriptRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Gets++
	rec, ok := f.entries[key]
	return rec, ok
}

func (f *FakeResultCache) Set(ctx context.Context, key string, rec *model.TranscriptRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sets++
	f.entries[key] = rec
}

// Preload stores a record under key without counting as a Set.
func (f *FakeResultCache) Preload(key string, rec *model.TranscriptRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = rec
}
