package httpx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/observability/metrics"
	"github.com/ibmec/pict-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       AuthServiceInterface
	Projects   *service.ProjectService
	Documents  *service.DocumentService
	Activities *service.ActivityService
	Profiles   *service.ProfileService
	Settings   *service.SettingsService

	// APIPrefix mounts the versioned API, e.g. "/api/v1".
	APIPrefix string
	// AllowedOrigins is the CORS allow-list for the SPA.
	AllowedOrigins []string
	// UploadsDir is served read-only under /uploads/ when set.
	UploadsDir     string
	MaxUploadBytes int64

	// MetricsHandler is mounted at MetricsPath when non-nil.
	MetricsHandler http.Handler
	MetricsPath    string
	Metrics        *metrics.Metrics

	Version string
	Logger  *slog.Logger
}

// NewRouter creates and configures the API router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging(logger))
	r.Use(Recover(logger))
	r.Use(Metrics(services.Metrics))
	r.Use(cors.Handler(corsOptions(services.AllowedOrigins)))

	r.Get("/health", statusHandler(services.Version))
	r.Get("/healthz", healthHandler)
	r.Head("/healthz", healthHandler)
	if services.MetricsHandler != nil {
		path := services.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, services.MetricsHandler)
	}
	if services.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", noDirListing(http.FileServer(http.Dir(services.UploadsDir)))))
	}

	prefix := services.APIPrefix
	authHandlers := &AuthHandlers{Svc: services.Auth, CallbackPath: prefix + "/auth/callback", Logger: logger}
	if prefix != "" {
		r.Get("/auth/callback", authHandlers.CallbackAlias)
	}

	api := chi.NewRouter()
	registerAuthRoutes(api, authHandlers)
	registerProjectRoutes(api, services, logger)
	registerActivityRoutes(api, services, logger)
	registerDocumentRoutes(api, services, logger)
	registerProfileRoutes(api, services, logger)

	if prefix == "" {
		r.Mount("/", api)
	} else {
		r.Mount(prefix, api)
	}
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "message": "Rota não encontrada"})
	})
	return r
}

func registerAuthRoutes(r chi.Router, h *AuthHandlers) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/microsoft-login", h.MicrosoftLogin)
		r.Get("/callback", h.Callback)
		r.Get("/logout", h.Logout)
		r.Post("/logout", h.Logout)
		r.With(RequireAuth(h.Svc)).Get("/me", h.Me)
	})
}

func registerProjectRoutes(r chi.Router, s RouterServices, logger *slog.Logger) {
	ph := &ProjectHandlers{Svc: s.Projects, Logger: logger}
	sh := &SettingsHandlers{Svc: s.Settings, MaxUploadBytes: s.MaxUploadBytes, Logger: logger}

	r.Route("/projetos", func(r chi.Router) {
		// Public reads the landing page renders before login.
		r.Get("/inscricao-periodo", sh.Enrollment)
		r.Get("/home-texts", sh.HomeTexts)
		r.Get("/edicoes-texts", sh.EditionsTexts)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(s.Auth))
			r.Get("/orientadores", ph.Advisors)

			r.With(RequireRole(domainauth.RoleStudent)).Post("/cadastrar", ph.Create)
			r.With(RequireRole(domainauth.RoleStudent)).Get("/meus-projetos", ph.Mine)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domainauth.RoleAdvisor))
				r.Get("/pendentes", ph.AdvisorPending)
				r.Get("/ativos", ph.AdvisorActive)
				r.Post("/aprovar/{id}", ph.Approve)
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domainauth.RoleAdmin))
				r.Get("/todos-pendentes", ph.AllPending)
				r.Get("/todos-ativos", ph.AllActive)
				r.Post("/inscricao-periodo", sh.SetEnrollment)
				r.Post("/abrir-inscricao", sh.OpenEnrollment)
				r.Post("/fechar-inscricao", sh.CloseEnrollment)
				r.Post("/home-texts", sh.SaveHomeTexts)
				r.Post("/edicoes-texts", sh.SaveEditionsTexts)
				r.Post("/edicoes-anteriores", sh.AddEdition)
				r.Post("/edicoes-anteriores/projetos", sh.AddEditionProject)
				r.Post("/edicoes-anteriores/remover", sh.RemoveEdition)
				r.Post("/edicoes-anteriores/remover-projeto", sh.RemoveEditionProject)
			})
		})
	})
}

func registerActivityRoutes(r chi.Router, s RouterServices, logger *slog.Logger) {
	h := &ActivityHandlers{Svc: s.Activities, Logger: logger}
	r.Route("/atividades", func(r chi.Router) {
		r.Use(RequireAuth(s.Auth))
		r.With(RequireRole(domainauth.RoleAdvisor)).Post("/projeto/{id}", h.Create)
		r.With(RequireRole(domainauth.RoleStudent, domainauth.RoleAdvisor)).Get("/projeto/{id}", h.List)
	})
}

func registerDocumentRoutes(r chi.Router, s RouterServices, logger *slog.Logger) {
	h := &DocumentHandlers{Svc: s.Documents, MaxUploadBytes: s.MaxUploadBytes, Logger: logger}
	r.Route("/documentos", func(r chi.Router) {
		r.Use(RequireAuth(s.Auth))
		r.With(RequireRole(domainauth.RoleStudent)).Post("/upload/{projeto_id}", h.Upload)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(domainauth.RoleStudent, domainauth.RoleAdvisor))
			r.Get("/projeto/{id}", h.ListForProject)
			r.Post("/comentar/{doc_id}", h.Comment)
		})
	})
}

func registerProfileRoutes(r chi.Router, s RouterServices, logger *slog.Logger) {
	h := &ProfileHandlers{Svc: s.Profiles, Logger: logger}
	r.Route("/perfis", func(r chi.Router) {
		r.Use(RequireAuth(s.Auth))
		r.Get("/meu-perfil", h.Mine)
		r.With(RequireRole(domainauth.RoleStudent)).Put("/atualizar-aluno", h.UpdateStudent)
		r.With(RequireRole(domainauth.RoleAdvisor, domainauth.RoleAdmin)).Put("/atualizar-professor", h.UpdateAdvisor)
	})
}

func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// noDirListing hides directory indexes of the uploads tree.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
