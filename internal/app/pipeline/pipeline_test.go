package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicescribe/internal/app/audio"
	"voicescribe/internal/app/cache"
	"voicescribe/internal/app/errors"
	"voicescribe/internal/app/model"
	"voicescribe/internal/app/scratch"
	"voicescribe/internal/app/testutil"
	"voicescribe/internal/app/utils"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// copyingTranscoder simulates a conversion step by creating a real output
// file next to the input, so cleanup of converted files can be asserted.
type copyingTranscoder struct {
	err   error
	calls int
}

func (t *copyingTranscoder) Convert(ctx context.Context, inputPath string) (string, error) {
	t.calls++
	if t.err != nil {
		return "", t.err
	}
	outputPath := inputPath[:len(inputPath)-len(filepath.Ext(inputPath))] + ".mp3"
	if err := os.WriteFile(outputPath, []byte("converted"), 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}

func scratchFileCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return len(entries)
}

func TestProcessSuccess(t *testing.T) {
	dir := t.TempDir()
	transcriber := &testutil.FakeTranscriber{Response: "hello world"}
	store := &testutil.FakeAudioStore{}
	dao := &testutil.FakeTranscriptDAO{NextID: "rec-42"}

	p := New(
		scratch.NewStore(dir, testLogger()),
		nil, // conversion disabled
		transcriber,
		store,
		dao,
		cache.NewNoopCache(),
		true,
		testLogger(),
		nil,
	)

	result, err := p.Process(context.Background(), []byte("audio-bytes"), "en")
	require.NoError(t, err)

	assert.Equal(t, "hello world", result.Transcript)
	assert.Equal(t, "rec-42", result.RecordID)
	assert.Equal(t, "en", result.Language)
	assert.False(t, result.Cached)

	require.Len(t, dao.Saved, 1)
	assert.Equal(t, "hello world", dao.Saved[0].Transcript)
	assert.Equal(t, "en", dao.Saved[0].Language)
	assert.NotEmpty(t, dao.Saved[0].AudioRef)

	assert.Equal(t, 0, scratchFileCount(t, dir), "scratch files must be removed after success")
}

func TestProcessConversionProducesAndCleansConvertedFile(t *testing.T) {
	dir := t.TempDir()
	transcoder := &copyingTranscoder{}
	transcriber := &testutil.FakeTranscriber{Response: "hola"}
	store := &testutil.FakeAudioStore{}
	dao := &testutil.FakeTranscriptDAO{}

	p := New(scratch.NewStore(dir, testLogger()), transcoder, transcriber, store, dao,
		cache.NewNoopCache(), true, testLogger(), nil)

	_, err := p.Process(context.Background(), []byte("audio-bytes"), "es")
	require.NoError(t, err)

	assert.Equal(t, 1, transcoder.calls)
	// Upload and transcription both use the converted path.
	require.Len(t, store.Paths, 1)
	assert.Equal(t, ".mp3", filepath.Ext(store.Paths[0]))
	assert.Equal(t, store.Paths[0], transcriber.LastPath)

	assert.Equal(t, 0, scratchFileCount(t, dir), "both raw and converted files must be removed")
}

func TestProcessStageFailures(t *testing.T) {
	conversionErr := errors.Stage(errors.ErrConversion, fmt.Errorf("bad input encoding"))
	uploadErr := errors.Stage(errors.ErrUpload, fmt.Errorf("bucket unavailable"))
	transcriptionErr := errors.Stage(errors.ErrTranscription, fmt.Errorf("provider down"))
	persistenceErr := errors.Stage(errors.ErrPersistence, fmt.Errorf("connection refused"))

	testCases := []struct {
		name            string
		transcoder      *copyingTranscoder
		transcriber     *testutil.FakeTranscriber
		store           *testutil.FakeAudioStore
		dao             *testutil.FakeTranscriptDAO
		wantErr         error
		wantUploads     int
		wantTranscripts int
	}{
		{
			name:        "conversion failure aborts before upload and transcription",
			transcoder:  &copyingTranscoder{err: conversionErr},
			transcriber: &testutil.FakeTranscriber{Response: "x"},
			store:       &testutil.FakeAudioStore{},
			dao:         &testutil.FakeTranscriptDAO{},
			wantErr:     errors.ErrConversion,
		},
		{
			name:            "upload failure aborts before transcription",
			transcriber:     &testutil.FakeTranscriber{Response: "x"},
			store:           &testutil.FakeAudioStore{Err: uploadErr},
			dao:             &testutil.FakeTranscriptDAO{},
			wantErr:         errors.ErrUpload,
			wantUploads:     1,
			wantTranscripts: 0,
		},
		{
			name:            "transcription failure after upload",
			transcriber:     &testutil.FakeTranscriber{Script: []error{transcriptionErr}, Response: "x"},
			store:           &testutil.FakeAudioStore{},
			dao:             &testutil.FakeTranscriptDAO{},
			wantErr:         errors.ErrTranscription,
			wantUploads:     1,
			wantTranscripts: 1,
		},
		{
			name:            "persistence failure is reported even though transcription succeeded",
			transcriber:     &testutil.FakeTranscriber{Response: "x"},
			store:           &testutil.FakeAudioStore{},
			dao:             &testutil.FakeTranscriptDAO{Err: persistenceErr},
			wantErr:         errors.ErrPersistence,
			wantUploads:     1,
			wantTranscripts: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			p := New(scratch.NewStore(dir, testLogger()), transcoderOrNil(tc.transcoder),
				tc.transcriber, tc.store, tc.dao, cache.NewNoopCache(), true, testLogger(), nil)

			_, err := p.Process(context.Background(), []byte("audio-bytes"), "es")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "expected %v, got %v", tc.wantErr, err)

			assert.Equal(t, tc.wantUploads, tc.store.Calls)
			assert.Equal(t, tc.wantTranscripts, tc.transcriber.Calls)
			assert.Empty(t, tc.dao.Saved, "no record may be persisted on failure")
			assert.Equal(t, 0, scratchFileCount(t, dir), "scratch files must be removed on failure")
		})
	}
}

// transcoderOrNil keeps a nil *copyingTranscoder from becoming a non-nil
// interface value inside the pipeline.
func transcoderOrNil(t *copyingTranscoder) audio.Transcoder {
	if t == nil {
		return nil
	}
	return t
}

func TestProcessTranscribeFirstOrder(t *testing.T) {
	dir := t.TempDir()
	transcriptionErr := errors.Stage(errors.ErrTranscription, fmt.Errorf("provider down"))
	transcriber := &testutil.FakeTranscriber{Script: []error{transcriptionErr}}
	store := &testutil.FakeAudioStore{}
	dao := &testutil.FakeTranscriptDAO{}

	p := New(scratch.NewStore(dir, testLogger()), nil, transcriber, store, dao,
		cache.NewNoopCache(), false, testLogger(), nil)

	_, err := p.Process(context.Background(), []byte("audio-bytes"), "es")
	require.Error(t, err)

	assert.Equal(t, 0, store.Calls, "transcribe-first order must not upload after transcription failure")
	assert.Equal(t, 0, scratchFileCount(t, dir))
}

func TestProcessCacheHitSkipsPipeline(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("audio-bytes")
	results := testutil.NewFakeResultCache()
	results.Preload(cache.Key(utils.HashBytes(payload), "es"), &model.TranscriptRecord{
		ID:         "cached-1",
		Transcript: "from cache",
		Language:   "es",
		AudioRef:   "http://minio.local/recordings/a.mp3",
	})
	transcriber := &testutil.FakeTranscriber{Response: "fresh"}
	store := &testutil.FakeAudioStore{}
	dao := &testutil.FakeTranscriptDAO{}

	p := New(scratch.NewStore(dir, testLogger()), nil, transcriber, store, dao,
		results, true, testLogger(), nil)

	result, err := p.Process(context.Background(), payload, "es")
	require.NoError(t, err)

	assert.True(t, result.Cached)
	assert.Equal(t, "from cache", result.Transcript)
	assert.Equal(t, 0, transcriber.Calls)
	assert.Equal(t, 0, store.Calls)
	assert.Empty(t, dao.Saved)
}

func TestProcessCachesSuccessfulResult(t *testing.T) {
	dir := t.TempDir()
	results := testutil.NewFakeResultCache()
	transcriber := &testutil.FakeTranscriber{Response: "hello"}

	p := New(scratch.NewStore(dir, testLogger()), nil, transcriber,
		&testutil.FakeAudioStore{}, &testutil.FakeTranscriptDAO{}, results, true, testLogger(), nil)

	payload := []byte("audio-bytes")
	_, err := p.Process(context.Background(), payload, "es")
	require.NoError(t, err)
	assert.Equal(t, 1, results.Sets)

	// The same payload now hits the cache.
	result, err := p.Process(context.Background(), payload, "es")
	require.NoError(t, err)
	assert.True(t, result.Cached)
	assert.Equal(t, 1, transcriber.Calls)
}

func TestProcessDifferentLanguagesDoNotShareCacheEntries(t *testing.T) {
	payload := []byte("audio-bytes")
	assert.NotEqual(t,
		cache.Key(utils.HashBytes(payload), "es"),
		cache.Key(utils.HashBytes(payload), "en"),
	)
}
