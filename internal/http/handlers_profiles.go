package httpx

import (
	"log/slog"
	"net/http"

	"github.com/ibmec/pict-api/internal/domain/model"
	"github.com/ibmec/pict-api/internal/service"
)

// ProfileHandlers provides HTTP handlers for the caller's own profile.
type ProfileHandlers struct {
	Svc    *service.ProfileService
	Logger *slog.Logger
}

// Mine returns the caller's profile.
// GET {prefix}/perfis/meu-perfil.
func (h *ProfileHandlers) Mine(w http.ResponseWriter, r *http.Request) {
	subject, ok := SubjectFromContext(r.Context())
	if !ok {
		WriteServiceError(w, r, h.Logger, errUnauthenticated)
		return
	}
	p, err := h.Svc.Mine(r.Context(), subject)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, profileBody(p))
}

// UpdateStudent edits the calling student's profile.
// PUT {prefix}/perfis/atualizar-aluno.
func (h *ProfileHandlers) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	student, ok := StudentFromContext(r.Context())
	if !ok {
		WriteServiceError(w, r, h.Logger, errUnauthenticated)
		return
	}
	var req model.UpdateStudentProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	st, err := h.Svc.UpdateStudent(r.Context(), student, &req)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Perfil atualizado com sucesso", map[string]any{"perfil": st})
}

// UpdateAdvisor edits the calling advisor's or admin's profile.
// PUT {prefix}/perfis/atualizar-professor.
func (h *ProfileHandlers) UpdateAdvisor(w http.ResponseWriter, r *http.Request) {
	subject, ok := SubjectFromContext(r.Context())
	if !ok {
		WriteServiceError(w, r, h.Logger, errUnauthenticated)
		return
	}
	var req model.UpdateAdvisorProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	p, err := h.Svc.UpdateAdvisor(r.Context(), subject, &req)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	msg := "Perfil atualizado com sucesso"
	if p.Admin != nil {
		msg = "Perfil de admin atualizado com sucesso"
	}
	WriteMessage(w, http.StatusOK, msg, map[string]any{"perfil": profileBody(p)})
}

// profileBody unwraps the variant that is set.
func profileBody(p *model.Profile) any {
	switch {
	case p == nil:
		return nil
	case p.Student != nil:
		return p.Student
	case p.Advisor != nil:
		return p.Advisor
	default:
		return p.Admin
	}
}
