package http

import (
	"net/http"

	"repo-insight/internal/analysis"
	"repo-insight/internal/auth"
	"repo-insight/internal/config"
	"repo-insight/internal/database"
	"repo-insight/internal/github"
	"repo-insight/internal/queue"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	router       chi.Router
	handler      http.Handler
	db           *database.DB
	client       *github.Client
	analyzer     *analysis.Analyzer
	publisher    queue.IPublisher
	jwtManager   *auth.JWTManager
	authRegistry *auth.Registry
	httpCfg      config.HTTPConfig
	frontendURL  string
}

func NewHandler(
	db *database.DB,
	client *github.Client,
	analyzer *analysis.Analyzer,
	publisher queue.IPublisher,
	jwtManager *auth.JWTManager,
	authRegistry *auth.Registry,
	cfg *config.Config,
) *Handler {
	h := &Handler{
		router:       chi.NewRouter(),
		db:           db,
		client:       client,
		analyzer:     analyzer,
		publisher:    publisher,
		jwtManager:   jwtManager,
		authRegistry: authRegistry,
		httpCfg:      cfg.HTTP,
		frontendURL:  cfg.Auth.FrontendURL,
	}
	h.registerRoutes()
	h.handler = Logger(CORS(h.router))
	return h
}

func (h *Handler) registerRoutes() {
	// Health check
	h.router.Get("/ping", h.Ping)

	// OAuth flow (no session required)
	h.router.Get("/api/v1/auth/{provider}/login", h.AuthLogin)
	h.router.Get("/api/v1/auth/{provider}/callback", h.AuthCallback)

	// API routes
	h.router.Group(func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		r.Post("/api/v1/analysis", h.CreateAnalysis)
		r.Get("/api/v1/analysis/{owner}/{repo}/status", h.GetAnalysisStatus)
		r.Get("/api/v1/analysis/{owner}/{repo}/progress", h.GetAnalysisProgress)

		r.Get("/api/v1/repositories", h.ListProviderRepositories)
		r.Get("/api/v1/repositories/{owner}/{repo}/contributors", h.ListContributors)
		r.Get("/api/v1/repositories/{owner}/{repo}/contributors/{username}/analysis", h.AnalyzeContributor)
		r.Get("/api/v1/repositories/{owner}/{repo}/pulls", h.ListPullRequests)
		r.Get("/api/v1/repositories/{owner}/{repo}/pulls/{number}/analysis", h.AnalyzePullRequest)
		r.Get("/api/v1/repositories/{owner}/{repo}/activity", h.GetActivity)
		r.Get("/api/v1/repositories/{owner}/{repo}/analyses", h.ListAnalysisSnapshots)

		r.Get("/api/v1/queue/length", h.GetQueueLength)
	})
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{
		"message": "pong",
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}
