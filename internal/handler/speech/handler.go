package speech

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/manamitra/companion/backend/internal/model/speech"
	speechsvc "github.com/manamitra/companion/backend/internal/service/speech"
	"github.com/manamitra/companion/backend/pkg/utils"
)

// SpeechService abstracts the speech capabilities for testing.
type SpeechService interface {
	Transcribe(ctx context.Context, req speech.TranscriptionRequest) (speech.Transcription, error)
	Synthesize(ctx context.Context, req speech.SynthesisRequest) (speech.Synthesis, error)
}

// Handler serves speech-to-text and text-to-speech.
type Handler struct {
	speechSvc SpeechService
	logger    *zap.Logger
}

// New creates the speech handler.
func New(speechSvc SpeechService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{speechSvc: speechSvc, logger: logger}
}

// RegisterRoutes mounts the speech routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/speech", func(speechRouter chi.Router) {
		speechRouter.Post("/transcribe", h.handleTranscribe)
		speechRouter.Post("/synthesize", h.handleSynthesize)
	})
}

func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	result, err := h.speechSvc.Transcribe(r.Context(), speech.TranscriptionRequest{
		AudioData: file,
		Format:    speechsvc.InferAudioFormat(header.Filename),
		Language:  r.FormValue("language"),
	})
	if err != nil {
		h.respondServiceError(w, "speech recognition failed", err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req speech.SynthesisRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.speechSvc.Synthesize(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, "speech synthesis failed", err)
		return
	}

	if len(result.AudioData) == 0 {
		utils.RespondJSON(w, http.StatusOK, result)
		return
	}

	w.Header().Set("Content-Type", "audio/"+result.Format)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.AudioData)))
	w.Header().Set("Content-Disposition", "attachment; filename=speech."+result.Format)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.AudioData); err != nil {
		h.logger.Warn("failed to write audio response", zap.Error(err))
	}
}

func (h *Handler) respondServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, speechsvc.ErrUnavailable):
		utils.RespondError(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, speechsvc.ErrTextRequired), errors.Is(err, speechsvc.ErrAudioRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(message, zap.Error(err))
		utils.RespondError(w, http.StatusBadGateway, message)
	}
}
