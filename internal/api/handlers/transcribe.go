package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"voicescribe/internal/api/dto"
	apierrors "voicescribe/internal/api/errors"
	"voicescribe/internal/api/middleware"
	"voicescribe/internal/app/pipeline"
)

// Processor runs the transcription pipeline for one payload.
type Processor interface {
	Process(ctx context.Context, payload []byte, language string) (*pipeline.Result, error)
}

// TranscribeHandler handles the audio ingest endpoint.
type TranscribeHandler struct {
	processor       Processor
	maxUploadBytes  int64
	defaultLanguage string
	logger          *slog.Logger
}

// NewTranscribeHandler creates a new transcribe handler.
func NewTranscribeHandler(processor Processor, maxUploadBytes int64, defaultLanguage string, logger *slog.Logger) *TranscribeHandler {
	return &TranscribeHandler{
		processor:       processor,
		maxUploadBytes:  maxUploadBytes,
		defaultLanguage: defaultLanguage,
		logger:          logger,
	}
}

// Transcribe handles POST /transcribe?language=<code>.
// The body is the raw binary audio payload. Any pipeline stage failure maps
// to a generic 500; internal detail goes to the logger only.
func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	var query dto.TranscribeQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}
	language := query.Language
	if language == "" {
		language = h.defaultLanguage
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			middleware.HandleError(c, apierrors.NewPayloadTooLargeError(h.maxUploadBytes))
			return
		}
		middleware.HandleError(c, apierrors.NewBadRequestError("failed to read request body"))
		return
	}
	if len(payload) == 0 {
		middleware.HandleError(c, apierrors.NewBadRequestError("empty audio payload"))
		return
	}

	result, err := h.processor.Process(c.Request.Context(), payload, language)
	if err != nil {
		h.logger.Error("pipeline failed",
			"request_id", c.GetString("request_id"),
			"language", language,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "audio processing failed"})
		return
	}

	c.JSON(http.StatusOK, dto.TranscribeResponse{
		Transcription: result.Transcript,
		Message:       "transcription completed successfully",
	})
}
