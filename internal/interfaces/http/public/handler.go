package public

import (
	"log"

	"github.com/go-chi/chi/v5"
	publicapp "github.com/sngm3741/teacher-registration/api/internal/public/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger         *log.Logger
	references     publicapp.ReferenceQueryService
	registrations  publicapp.RegistrationCommandService
	maxBodyBytes   int64
	maxUploadBytes int64
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger         *log.Logger
	References     publicapp.ReferenceQueryService
	Registrations  publicapp.RegistrationCommandService
	MaxBodyBytes   int64
	MaxUploadBytes int64
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		logger:         logger,
		references:     cfg.References,
		registrations:  cfg.Registrations,
		maxBodyBytes:   cfg.MaxBodyBytes,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/places", h.placesHandler())
	r.Get("/governorates", h.governoratesHandler())
	r.Get("/administrations/{governorate}", h.administrationsHandler())
	r.Get("/schools/{governorate}/{administration}", h.schoolsHandler())
	r.Post("/submit", h.submitHandler())
}
