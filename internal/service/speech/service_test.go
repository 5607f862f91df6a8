package speech

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manamitra/companion/backend/internal/model/speech"
)

type fakeTranscriber struct {
	got speech.TranscriptionRequest
}

func (f *fakeTranscriber) Transcribe(_ context.Context, req speech.TranscriptionRequest) (speech.Transcription, error) {
	f.got = req
	return speech.Transcription{Text: "  I feel tired  "}, nil
}

type failingSpeaker struct{}

func (failingSpeaker) Speak(context.Context, speech.SynthesisRequest) (speech.Synthesis, error) {
	return speech.Synthesis{}, errors.New("quota exceeded")
}

func TestServiceWithoutCapabilities(t *testing.T) {
	svc := NewService(nil, nil, 0)

	_, err := svc.Transcribe(context.Background(), speech.TranscriptionRequest{AudioData: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = svc.Synthesize(context.Background(), speech.SynthesisRequest{Text: "hi"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestServiceTranscribeAppliesDefaults(t *testing.T) {
	transcriber := &fakeTranscriber{}
	svc := NewService(transcriber, nil, 0)

	result, err := svc.Transcribe(context.Background(), speech.TranscriptionRequest{AudioData: strings.NewReader("x")})
	require.NoError(t, err)

	assert.Equal(t, "I feel tired", result.Text)
	assert.Equal(t, DefaultLanguage, result.Language)
	assert.False(t, result.CreatedAt.IsZero())
	assert.Equal(t, "wav", transcriber.got.Format)

	_, err = svc.Transcribe(context.Background(), speech.TranscriptionRequest{})
	assert.ErrorIs(t, err, ErrAudioRequired)
}

func TestServiceSynthesizeErrors(t *testing.T) {
	svc := NewService(nil, failingSpeaker{}, 0)

	_, err := svc.Synthesize(context.Background(), speech.SynthesisRequest{Text: "   "})
	assert.ErrorIs(t, err, ErrTextRequired)

	_, err = svc.Synthesize(context.Background(), speech.SynthesisRequest{Text: "hello"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestInferAudioFormat(t *testing.T) {
	assert.Equal(t, "mp3", InferAudioFormat("clip.MP3"))
	assert.Equal(t, "webm", InferAudioFormat("rec.webm"))
	assert.Equal(t, "wav", InferAudioFormat("noext"))
}
