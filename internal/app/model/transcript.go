package model

import "time"

// TranscriptRecord is the persisted outcome of a successful pipeline run.
// Records are created exactly once per successful request and are immutable
// after creation.
type TranscriptRecord struct {
	ID         string    `json:"id"`
	Transcript string    `json:"transcript"`
	Language   string    `json:"language"`
	AudioRef   string    `json:"audio_ref"`
	CreatedAt  time.Time `json:"created_at"`
}
