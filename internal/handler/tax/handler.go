package tax

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/taxfiler/backend/internal/config"
	"github.com/taxfiler/backend/internal/logging"
	taxmodel "github.com/taxfiler/backend/internal/model/tax"
	"github.com/taxfiler/backend/internal/service/advisor"
	"github.com/taxfiler/backend/pkg/utils"
)

// Advisor is the slice of the advisory service this handler needs.
type Advisor interface {
	GetAdvice(ctx context.Context, input taxmodel.TaxInfoInput) (string, error)
}

// Handler serves the tax advisory routes.
type Handler struct {
	advisor Advisor
	app     config.AppConfig
	ai      config.AIConfig
}

// New creates the tax handler.
func New(advisorSvc Advisor, app config.AppConfig, ai config.AIConfig) *Handler {
	return &Handler{advisor: advisorSvc, app: app, ai: ai}
}

// RegisterRoutes mounts the tax routes. Only the advice submission sits
// behind the session guard; info and health are open.
func (h *Handler) RegisterRoutes(r chi.Router, requireSession func(http.Handler) http.Handler) {
	r.Get("/info", h.handleInfo)
	r.Get("/health", h.handleHealth)
	r.Group(func(protected chi.Router) {
		protected.Use(requireSession)
		protected.Post("/submit-advice", h.handleSubmitAdvice)
	})
}

func (h *Handler) handleSubmitAdvice(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var input taxmodel.TaxInfoInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Warn("malformed advice request body", zap.Error(err))
		utils.RespondDetail(w, http.StatusUnprocessableEntity,
			[]taxmodel.FieldError{{Field: "body", Message: "invalid JSON body"}})
		return
	}

	if err := input.Validate(); err != nil {
		detail := taxmodel.ValidationDetail(err)
		log.Warn("advice request failed validation", zap.Any("detail", detail))
		utils.RespondDetail(w, http.StatusUnprocessableEntity, detail)
		return
	}
	input.Normalize()

	log.Info("received tax info submission",
		zap.String("country", input.Country),
		zap.Float64("income", input.Income))

	advice, err := h.advisor.GetAdvice(r.Context(), input)
	if err != nil {
		var advErr *advisor.Error
		if !errors.As(err, &advErr) {
			log.Error("unclassified advisory failure", zap.Error(err))
			utils.RespondJSON(w, http.StatusInternalServerError,
				map[string]string{"message": "An internal server error occurred."})
			return
		}

		// Deliberate contract: a degraded advisory is still a successful API
		// interaction, so the status stays 200 and the failure text rides in
		// the advice field.
		log.Warn("returning degraded advisory response",
			zap.String("error_type", string(advErr.Kind)))
		utils.RespondJSON(w, http.StatusOK, taxmodel.TaxAdviceResponse{
			Message:  "Processed tax information, but encountered an issue getting AI advice.",
			Advice:   advErr.Message,
			RawInput: &input,
		})
		return
	}

	log.Info("generated tax advice", zap.String("country", input.Country))
	utils.RespondJSON(w, http.StatusOK, taxmodel.TaxAdviceResponse{
		Message:  "Tax information processed and AI advice retrieved successfully.",
		Advice:   advice,
		RawInput: &input,
	})
}

func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	logging.FromContext(r.Context()).Info("fetching application info")
	utils.RespondJSON(w, http.StatusOK, taxmodel.AppInfo{
		ProjectName:     h.app.ProjectName,
		Version:         h.app.Version,
		Description:     h.app.Description,
		DefaultModel:    config.DefaultModel,
		ConfiguredModel: h.ai.Model,
		API:             h.app.APIPrefix,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Backend is running!",
	})
}
