package public

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	publicapp "github.com/sngm3741/survey-terminal-services/api/internal/public/application"
)

// Handler wires the public answer endpoints to the answer engine.
type Handler struct {
	logger  *log.Logger
	answers *publicapp.AnswerService
	surveys publicapp.SurveyRepository
	domains publicapp.DomainRepository
	clients publicapp.ClientRepository
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger  *log.Logger
	Answers *publicapp.AnswerService
	Surveys publicapp.SurveyRepository
	Domains publicapp.DomainRepository
	Clients publicapp.ClientRepository
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:  cfg.Logger,
		answers: cfg.Answers,
		surveys: cfg.Surveys,
		domains: cfg.Domains,
		clients: cfg.Clients,
	}
}

// Register mounts all public routes onto the router. Every answer route runs
// behind the terminal token middleware.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Post("/answers", h.answerCreateHandler())
	r.With(authMiddleware).Delete("/answers/{questionID}", h.answerRemoveHandler())
	r.With(authMiddleware).Post("/cache-entries", h.cacheEntryCreateHandler())
	r.With(authMiddleware).Get("/auth/verify", h.authVerifyHandler())
}
