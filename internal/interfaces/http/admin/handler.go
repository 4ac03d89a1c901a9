package admin

import (
	"log"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/sngm3741/survey-terminal-services/api/internal/admin/application"
)

// Handler wires admin lifecycle endpoints to the application services.
type Handler struct {
	logger    *log.Logger
	lifecycle adminapp.LifecycleService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger    *log.Logger
	Lifecycle adminapp.LifecycleService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:    cfg.Logger,
		lifecycle: cfg.Lifecycle,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Delete("/surveys/{id}", h.surveyDeleteHandler())
	r.Delete("/domains/{id}", h.domainDeleteHandler())
	r.Delete("/clients/{id}", h.clientDeleteHandler())
	r.Patch("/domains/{id}/active-survey", h.domainActiveSurveyHandler())
}
