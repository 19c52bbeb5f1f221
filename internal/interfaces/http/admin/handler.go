package admin

import (
	"log"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/sngm3741/teacher-registration/api/internal/admin/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger        *log.Logger
	registrations adminapp.RegistrationService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger        *log.Logger
	Registrations adminapp.RegistrationService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		logger:        logger,
		registrations: cfg.Registrations,
	}
}

// Register mounts admin routes onto router. The caller is responsible for the auth gate.
func (h *Handler) Register(r chi.Router) {
	r.Get("/forms", h.formListHandler())
	r.Get("/export", h.exportHandler())
}
