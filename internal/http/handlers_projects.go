package httpx

import (
	"log/slog"
	"net/http"

	"github.com/ibmec/pict-api/internal/domain/model"
	"github.com/ibmec/pict-api/internal/service"
)

// ProjectHandlers provides HTTP handlers for project submission and listings.
type ProjectHandlers struct {
	Svc    *service.ProjectService
	Logger *slog.Logger
}

// Advisors lists advisors students can submit to.
// GET {prefix}/projetos/orientadores.
func (h *ProjectHandlers) Advisors(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Svc.AdvisorDirectory(r.Context())
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	if entries == nil {
		entries = []model.AdvisorDirectoryEntry{}
	}
	WriteJSON(w, http.StatusOK, entries)
}

// Create submits a project for the calling student.
// POST {prefix}/projetos/cadastrar.
func (h *ProjectHandlers) Create(w http.ResponseWriter, r *http.Request) {
	student, ok := StudentFromContext(r.Context())
	if !ok {
		WriteServiceError(w, r, h.Logger, errUnauthenticated)
		return
	}
	var req model.CreateProjectRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	p, err := h.Svc.Create(r.Context(), student.UserID, &req)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteMessage(w, http.StatusCreated, "Projeto cadastrado com sucesso", map[string]any{
		"projeto_id": p.ID,
		"projeto":    p,
	})
}

// Mine lists the calling student's projects.
// GET {prefix}/projetos/meus-projetos.
func (h *ProjectHandlers) Mine(w http.ResponseWriter, r *http.Request) {
	student, ok := StudentFromContext(r.Context())
	if !ok {
		WriteServiceError(w, r, h.Logger, errUnauthenticated)
		return
	}
	h.writeListing(w, r)(h.Svc.ForStudent(r.Context(), student.UserID))
}

// AdvisorPending lists the calling advisor's pending projects.
// GET {prefix}/projetos/pendentes.
func (h *ProjectHandlers) AdvisorPending(w http.ResponseWriter, r *http.Request) {
	h.advisorListing(w, r, model.ProjectStatusPending)
}

// AdvisorActive lists the calling advisor's active projects.
// GET {prefix}/projetos/ativos.
func (h *ProjectHandlers) AdvisorActive(w http.ResponseWriter, r *http.Request) {
	h.advisorListing(w, r, model.ProjectStatusActive)
}

func (h *ProjectHandlers) advisorListing(w http.ResponseWriter, r *http.Request, status model.ProjectStatus) {
	advisor, ok := AdvisorFromContext(r.Context())
	if !ok {
		WriteServiceError(w, r, h.Logger, errUnauthenticated)
		return
	}
	h.writeListing(w, r)(h.Svc.ForAdvisor(r.Context(), advisor.UserID, status))
}

// AllPending lists every pending project.
// GET {prefix}/projetos/todos-pendentes.
func (h *ProjectHandlers) AllPending(w http.ResponseWriter, r *http.Request) {
	h.writeListing(w, r)(h.Svc.All(r.Context(), model.ProjectStatusPending))
}

// AllActive lists every active project.
// GET {prefix}/projetos/todos-ativos.
func (h *ProjectHandlers) AllActive(w http.ResponseWriter, r *http.Request) {
	h.writeListing(w, r)(h.Svc.All(r.Context(), model.ProjectStatusActive))
}

// Approve activates one of the calling advisor's pending projects.
// POST {prefix}/projetos/aprovar/{id}.
func (h *ProjectHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	advisor, ok := AdvisorFromContext(r.Context())
	if !ok {
		WriteServiceError(w, r, h.Logger, errUnauthenticated)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	if err := h.Svc.Approve(r.Context(), advisor.UserID, id); err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Projeto aprovado com sucesso", nil)
}

func (h *ProjectHandlers) writeListing(w http.ResponseWriter, r *http.Request) func([]model.ProjectListing, error) {
	return func(list []model.ProjectListing, err error) {
		if err != nil {
			WriteServiceError(w, r, h.Logger, err)
			return
		}
		if list == nil {
			list = []model.ProjectListing{}
		}
		WriteJSON(w, http.StatusOK, list)
	}
}
