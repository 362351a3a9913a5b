package token

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/taxfiler/backend/internal/auth"
	"github.com/taxfiler/backend/internal/logging"
	"github.com/taxfiler/backend/internal/model/tax"
	"github.com/taxfiler/backend/pkg/utils"
)

// Handler issues anonymous session tokens. Requesting a token is the only
// authentication event a client performs; there is no separate login.
type Handler struct {
	codec *auth.Codec
	ttl   time.Duration
}

// New creates the token handler.
func New(codec *auth.Codec, ttl time.Duration) *Handler {
	return &Handler{codec: codec, ttl: ttl}
}

// RegisterRoutes mounts the token routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/request-token", h.handleRequestToken)
}

func (h *Handler) handleRequestToken(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	accessToken, err := h.codec.Issue(nil, h.ttl)
	if err != nil {
		log.Error("failed to mint session token", zap.Error(err))
		utils.RespondDetail(w, http.StatusInternalServerError,
			"Could not generate access token due to an internal error.")
		return
	}

	log.Info("issued session token", zap.Duration("ttl", h.ttl))
	utils.RespondJSON(w, http.StatusOK, tax.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}
