package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/manamitra/companion/backend/internal/handler/chat"
	"github.com/manamitra/companion/backend/internal/handler/live"
	profileHandler "github.com/manamitra/companion/backend/internal/handler/profile"
	resourceHandler "github.com/manamitra/companion/backend/internal/handler/resource"
	sentimentHandler "github.com/manamitra/companion/backend/internal/handler/sentiment"
	"github.com/manamitra/companion/backend/internal/handler/speech"
	middlewarePkg "github.com/manamitra/companion/backend/internal/middleware"
	"github.com/manamitra/companion/backend/internal/model/profile"
	"github.com/manamitra/companion/backend/internal/model/resource"
	chatService "github.com/manamitra/companion/backend/internal/service/chat"
	sentimentService "github.com/manamitra/companion/backend/internal/service/sentiment"
	speechService "github.com/manamitra/companion/backend/internal/service/speech"
	"github.com/manamitra/companion/backend/pkg/utils"
)

// Dependencies are the services the HTTP layer is wired to.
type Dependencies struct {
	Chat       *chatService.Service
	Sentiment  *sentimentService.Engine
	Hub        *live.Hub
	Profiles   profile.Source
	Strategies resource.Store
	Speech     *speechService.Service
	Gatherer   prometheus.Gatherer
	Logger     *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.AccessLog(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(api chi.Router) {
		chat.New(deps.Chat, logger).RegisterRoutes(api)
		sentimentHandler.New(deps.Sentiment, logger).RegisterRoutes(api)
		profileHandler.New(deps.Profiles, logger).RegisterRoutes(api)
		resourceHandler.New(deps.Strategies).RegisterRoutes(api)

		if deps.Hub != nil {
			live.New(deps.Hub, logger).RegisterRoutes(api)
		}

		// A nil speech service answers 501 on both routes.
		speech.New(deps.Speech, logger).RegisterRoutes(api)
	})

	return r
}
