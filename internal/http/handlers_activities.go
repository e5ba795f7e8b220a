package httpx

import (
	"log/slog"
	"net/http"

	"github.com/ibmec/pict-api/internal/domain/model"
	"github.com/ibmec/pict-api/internal/service"
)

// ActivityHandlers provides HTTP handlers for project activities.
type ActivityHandlers struct {
	Svc    *service.ActivityService
	Logger *slog.Logger
}

// Create opens an activity on one of the calling advisor's projects.
// POST {prefix}/atividades/projeto/{id}.
func (h *ActivityHandlers) Create(w http.ResponseWriter, r *http.Request) {
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
	var req model.CreateActivityRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	a, err := h.Svc.Create(r.Context(), advisor, id, &req)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, a)
}

// List lists a project's activities.
// GET {prefix}/atividades/projeto/{id}.
func (h *ActivityHandlers) List(w http.ResponseWriter, r *http.Request) {
	subject, ok := SubjectFromContext(r.Context())
	if !ok {
		WriteServiceError(w, r, h.Logger, errUnauthenticated)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	list, err := h.Svc.ListForProject(r.Context(), subject, id)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	if list == nil {
		list = []model.Activity{}
	}
	WriteJSON(w, http.StatusOK, list)
}
