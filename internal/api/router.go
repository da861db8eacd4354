package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/dodai/navigator/internal/middleware"
	"github.com/dodai/navigator/internal/search"
	"github.com/dodai/navigator/internal/services"
)

// Searcher is the full-text index behind /api/surveys/search.
type Searcher interface {
	Search(q string, limit int) ([]search.Result, error)
}

type Config struct {
	Surveys        *services.SurveyService
	Analyzer       *services.Analyzer
	Shares         *services.ShareService
	Search         Searcher // nil disables search
	AllowedOrigins []string
	Logger         *zap.Logger
}

type Handler struct {
	surveys  *services.SurveyService
	analyzer *services.Analyzer
	shares   *services.ShareService
	search   Searcher
	log      *zap.Logger
	now      func() time.Time
}

func NewHandler(cfg Config) *Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		surveys:  cfg.Surveys,
		analyzer: cfg.Analyzer,
		shares:   cfg.Shares,
		search:   cfg.Search,
		log:      log.Named("api"),
		now:      time.Now,
	}
}

// NewRouter assembles the middleware stack and every route.
func NewRouter(cfg Config) http.Handler {
	h := NewHandler(cfg)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(h.log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Locale)

	r.Get("/", h.root)
	r.Get("/health", h.health)
	r.Route("/api", h.Register)
	return r
}

// Register mounts the /api routes.
func (h *Handler) Register(r chi.Router) {
	r.Use(middleware.NoStore)

	r.Route("/surveys", func(r chi.Router) {
		r.Post("/", h.createSurvey)
		r.Get("/", h.listSurveys)
		r.Get("/stats", h.stats)
		r.Get("/insights", h.insights)
		r.Get("/export", h.export)
		r.Get("/search", h.searchSurveys)
		r.Get("/{id}", h.getSurvey)
		r.Post("/{id}/analysis", h.analyzeSurvey)
	})
	r.Post("/ai/analyze", h.analyze)
	r.Get("/shared/{token}", h.shared)
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "AI Navigator API", "status": "running"})
}

// health never fails; it reports the process, not the database file.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"database":  "sqlite",
		"timestamp": h.now().Format("2006-01-02T15:04:05.000000"),
	})
}
