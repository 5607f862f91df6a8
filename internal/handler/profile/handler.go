package profile

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/manamitra/companion/backend/internal/model/profile"
	"github.com/manamitra/companion/backend/pkg/utils"
)

// Handler serves the read-only user profile and the screening questionnaires.
type Handler struct {
	profiles profile.Source
	logger   *zap.Logger
}

// New creates the profile handler.
func New(profiles profile.Source, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{profiles: profiles, logger: logger}
}

// RegisterRoutes mounts the profile and screening routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.handleGetProfile)
	r.Get("/screenings/{instrument}", h.handleGetInstrument)
	r.Post("/screenings/{instrument}", h.handleScore)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Load(r.Context())
	if err != nil {
		if errors.Is(err, profile.ErrNoProfile) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to load profile", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "user profile unavailable")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleGetInstrument(w http.ResponseWriter, r *http.Request) {
	instrument, err := profile.LookupInstrument(chi.URLParam(r, "instrument"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, instrument)
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	instrument, err := profile.LookupInstrument(chi.URLParam(r, "instrument"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	var payload struct {
		Answers []int `json:"answers"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := instrument.Score(payload.Answers)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}
