package speech

import (
	"io"
	"time"
)

// TranscriptionRequest carries one recorded utterance.
type TranscriptionRequest struct {
	AudioData io.Reader `json:"-"`
	Format    string    `json:"format"`   // wav, mp3, webm, m4a, aac
	Language  string    `json:"language"` // en-US, hi-IN, etc.
}

// Transcription is the recognised text of an utterance.
type Transcription struct {
	Text      string    `json:"text"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

// SynthesisRequest asks for text to be spoken.
type SynthesisRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Voice    string `json:"voice,omitempty"`
}

// Synthesis is a playable audio handle.
type Synthesis struct {
	AudioData []byte `json:"-"`
	AudioURL  string `json:"audioUrl,omitempty"`
	Format    string `json:"format"`
}
