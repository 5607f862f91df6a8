// Package speech fronts the optional speech capabilities. Recognition and
// synthesis are provided by external collaborators; without them the service
// reports ErrUnavailable.
package speech

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/manamitra/companion/backend/internal/model/speech"
)

var (
	ErrUnavailable   = errors.New("speech capability not configured")
	ErrTextRequired  = errors.New("text is required")
	ErrAudioRequired = errors.New("audio is required")
)

// DefaultLanguage is used when a request names none.
const DefaultLanguage = "en-US"

// Transcriber turns a recorded utterance into text.
type Transcriber interface {
	Transcribe(ctx context.Context, req speech.TranscriptionRequest) (speech.Transcription, error)
}

// Speaker turns text into playable audio.
type Speaker interface {
	Speak(ctx context.Context, req speech.SynthesisRequest) (speech.Synthesis, error)
}

// Service validates requests and bounds each capability call with a timeout.
type Service struct {
	transcriber Transcriber
	speaker     Speaker
	timeout     time.Duration
}

// NewService wraps the given capabilities. Either may be nil.
func NewService(transcriber Transcriber, speaker Speaker, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{transcriber: transcriber, speaker: speaker, timeout: timeout}
}

// Transcribe recognises the utterance.
func (s *Service) Transcribe(ctx context.Context, req speech.TranscriptionRequest) (speech.Transcription, error) {
	if s == nil || s.transcriber == nil {
		return speech.Transcription{}, ErrUnavailable
	}
	if req.AudioData == nil {
		return speech.Transcription{}, ErrAudioRequired
	}
	if req.Language == "" {
		req.Language = DefaultLanguage
	}
	if req.Format == "" {
		req.Format = "wav"
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.transcriber.Transcribe(ctx, req)
	if err != nil {
		return speech.Transcription{}, fmt.Errorf("transcribe: %w", err)
	}
	result.Text = strings.TrimSpace(result.Text)
	if result.Language == "" {
		result.Language = req.Language
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}
	return result, nil
}

// Synthesize speaks the text.
func (s *Service) Synthesize(ctx context.Context, req speech.SynthesisRequest) (speech.Synthesis, error) {
	if s == nil || s.speaker == nil {
		return speech.Synthesis{}, ErrUnavailable
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return speech.Synthesis{}, ErrTextRequired
	}
	if req.Language == "" {
		req.Language = DefaultLanguage
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.speaker.Speak(ctx, req)
	if err != nil {
		return speech.Synthesis{}, fmt.Errorf("synthesize: %w", err)
	}
	if result.Format == "" {
		result.Format = "mp3"
	}
	return result, nil
}

// InferAudioFormat derives the audio format from an uploaded file name.
func InferAudioFormat(filename string) string {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".mp3", ".wav", ".webm", ".m4a", ".aac", ".ogg":
		return strings.TrimPrefix(ext, ".")
	default:
		return "wav"
	}
}
