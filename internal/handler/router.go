package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/taxfiler/backend/internal/auth"
	"github.com/taxfiler/backend/internal/config"
	taxhandler "github.com/taxfiler/backend/internal/handler/tax"
	tokenhandler "github.com/taxfiler/backend/internal/handler/token"
	"github.com/taxfiler/backend/internal/middleware"
	"github.com/taxfiler/backend/internal/service/advisor"
	"github.com/taxfiler/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(cfg *config.Config, logger *zap.Logger, codec *auth.Codec, advisorSvc *advisor.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	tokenHandler := tokenhandler.New(codec, cfg.Auth.TokenTTL)
	taxHandler := taxhandler.New(advisorSvc, cfg.App, cfg.AI)
	requireSession := auth.RequireSession(codec)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("Welcome to the %s! Docs at /docs", cfg.App.ProjectName),
		})
	})

	r.Route(cfg.App.APIPrefix, func(api chi.Router) {
		api.Route("/token", func(tr chi.Router) {
			tokenHandler.RegisterRoutes(tr)
		})
		api.Route("/tax", func(tr chi.Router) {
			taxHandler.RegisterRoutes(tr, requireSession)
		})
	})

	return r
}
