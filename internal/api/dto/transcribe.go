package dto

// TranscribeQuery carries the optional query parameters of a transcription
// request. An empty language falls back to the configured default.
type TranscribeQuery struct {
	Language string `form:"language" binding:"omitempty,alpha,len=2"`
}

// TranscribeResponse is the success body of POST /transcribe.
type TranscribeResponse struct {
	Transcription string `json:"transcription"`
	Message       string `json:"message"`
}

// ErrorResponse is the generic failure body. It deliberately carries no
// internal error detail.
type ErrorResponse struct {
	Error string `json:"error"`
}
