package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "voicescribe/internal/app/errors"
	"voicescribe/internal/app/pipeline"
)

type fakeProcessor struct {
	result    *pipeline.Result
	err       error
	calls     int
	languages []string
	payloads  [][]byte
}

func (f *fakeProcessor) Process(ctx context.Context, payload []byte, language string) (*pipeline.Result, error) {
	f.calls++
	f.languages = append(f.languages, language)
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestRouter(h *TranscribeHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/transcribe", h.Transcribe)
	return router
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTranscribeSuccess(t *testing.T) {
	processor := &fakeProcessor{result: &pipeline.Result{
		RecordID:   "rec-1",
		Transcript: "hello world",
		Language:   "en",
		AudioRef:   "minio://recordings/audio/a.mp3",
	}}
	handler := NewTranscribeHandler(processor, 15<<20, "es", testLogger())
	router := newTestRouter(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transcribe?language=en", bytes.NewReader([]byte("audio-bytes")))
	req.Header.Set("Content-Type", "application/octet-stream")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "hello world", body["transcription"])
	assert.Equal(t, "transcription completed successfully", body["message"])

	require.Equal(t, 1, processor.calls)
	assert.Equal(t, []string{"en"}, processor.languages)
	assert.Equal(t, []byte("audio-bytes"), processor.payloads[0])
}

func TestTranscribeDefaultLanguage(t *testing.T) {
	processor := &fakeProcessor{result: &pipeline.Result{Transcript: "hola"}}
	handler := NewTranscribeHandler(processor, 15<<20, "es", testLogger())
	router := newTestRouter(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transcribe", bytes.NewReader([]byte("audio-bytes")))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"es"}, processor.languages)
}

func TestTranscribePipelineFailureReturnsGeneric500(t *testing.T) {
	stageErrors := []error{
		apperrors.Stage(apperrors.ErrStorageWrite, fmt.Errorf("disk full")),
		apperrors.Stage(apperrors.ErrConversion, fmt.Errorf("ffmpeg exit 1")),
		apperrors.Stage(apperrors.ErrUpload, fmt.Errorf("bucket gone")),
		apperrors.Stage(apperrors.ErrTranscription, fmt.Errorf("provider down")),
		apperrors.Stage(apperrors.ErrPersistence, fmt.Errorf("db gone")),
	}

	for _, stageErr := range stageErrors {
		processor := &fakeProcessor{err: stageErr}
		handler := NewTranscribeHandler(processor, 15<<20, "es", testLogger())
		router := newTestRouter(handler)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/transcribe", bytes.NewReader([]byte("audio-bytes")))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)

		// The body stays generic regardless of which stage failed.
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, map[string]string{"error": "audio processing failed"}, body)
		assert.NotContains(t, w.Body.String(), stageErr.Error())
	}
}

func TestTranscribeEmptyPayload(t *testing.T) {
	processor := &fakeProcessor{}
	handler := NewTranscribeHandler(processor, 15<<20, "es", testLogger())
	router := newTestRouter(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transcribe", bytes.NewReader(nil))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "empty audio payload")
	assert.Equal(t, 0, processor.calls)
}

func TestTranscribeOversizedPayload(t *testing.T) {
	processor := &fakeProcessor{}
	handler := NewTranscribeHandler(processor, 1024, "es", testLogger())
	router := newTestRouter(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transcribe", bytes.NewReader(make([]byte, 2048)))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, 0, processor.calls)
}

func TestTranscribeInvalidLanguageParam(t *testing.T) {
	testCases := []struct {
		name     string
		language string
	}{
		{name: "too long", language: "spanish"},
		{name: "too short", language: "e"},
		{name: "non alpha", language: "3s"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			processor := &fakeProcessor{}
			handler := NewTranscribeHandler(processor, 15<<20, "es", testLogger())
			router := newTestRouter(handler)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/transcribe?language="+tc.language, bytes.NewReader([]byte("audio-bytes")))
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Equal(t, 0, processor.calls)
		})
	}
}
