package resource

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/manamitra/companion/backend/internal/model/resource"
	"github.com/manamitra/companion/backend/pkg/utils"
)

// Handler serves the coping strategy catalogue and emergency contacts.
type Handler struct {
	strategies resource.Store
}

// New creates the resource handler.
func New(strategies resource.Store) *Handler {
	return &Handler{strategies: strategies}
}

// RegisterRoutes mounts the resource routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/resources", h.handleListStrategies)
	r.Get("/resources/{strategyID}", h.handleGetStrategy)
	r.Get("/helplines", h.handleListHelplines)
}

// handleListStrategies filters by the condition, difficulty and time query parameters.
func (h *Handler) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := resource.Filter{
		Condition:  query.Get("condition"),
		Difficulty: query.Get("difficulty"),
		Time:       query.Get("time"),
	}
	utils.RespondJSON(w, http.StatusOK, h.strategies.List(filter))
}

func (h *Handler) handleGetStrategy(w http.ResponseWriter, r *http.Request) {
	strategy, ok := h.strategies.FindByID(chi.URLParam(r, "strategyID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "strategy not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, strategy)
}

func (h *Handler) handleListHelplines(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, resource.Helplines())
}
