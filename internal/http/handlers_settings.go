package httpx

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/ibmec/pict-api/internal/service"
)

// SettingsHandlers serves the enrollment window and the public site texts.
type SettingsHandlers struct {
	Svc *service.SettingsService
	// MaxUploadBytes bounds edition attachments.
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Enrollment returns the enrollment period.
// GET {prefix}/projetos/inscricao-periodo.
func (h *SettingsHandlers) Enrollment(w http.ResponseWriter, r *http.Request) {
	st, err := h.Svc.Enrollment(r.Context())
	h.writeEnrollment(w, r, st, err)
}

// SetEnrollment replaces the enrollment period.
// POST {prefix}/projetos/inscricao-periodo.
func (h *SettingsHandlers) SetEnrollment(w http.ResponseWriter, r *http.Request) {
	var req model.EnrollmentPeriod
	if !DecodeJSON(w, r, &req) {
		return
	}
	st, err := h.Svc.SetEnrollment(r.Context(), req)
	h.writeEnrollment(w, r, st, err)
}

// OpenEnrollment sets aberto=true.
// POST {prefix}/projetos/abrir-inscricao.
func (h *SettingsHandlers) OpenEnrollment(w http.ResponseWriter, r *http.Request) {
	st, err := h.Svc.SetEnrollmentOpen(r.Context(), true)
	h.writeEnrollment(w, r, st, err)
}

// CloseEnrollment sets aberto=false.
// POST {prefix}/projetos/fechar-inscricao.
func (h *SettingsHandlers) CloseEnrollment(w http.ResponseWriter, r *http.Request) {
	st, err := h.Svc.SetEnrollmentOpen(r.Context(), false)
	h.writeEnrollment(w, r, st, err)
}

func (h *SettingsHandlers) writeEnrollment(w http.ResponseWriter, r *http.Request, st *service.EnrollmentStatus, err error) {
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, st)
}

// HomeTexts returns the landing page texts.
// GET {prefix}/projetos/home-texts.
func (h *SettingsHandlers) HomeTexts(w http.ResponseWriter, r *http.Request) {
	t, err := h.Svc.HomeTexts(r.Context())
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, t)
}

// SaveHomeTexts replaces the landing page texts.
// POST {prefix}/projetos/home-texts.
func (h *SettingsHandlers) SaveHomeTexts(w http.ResponseWriter, r *http.Request) {
	var req model.HomeTexts
	if !DecodeJSON(w, r, &req) {
		return
	}
	t, err := h.Svc.SaveHomeTexts(r.Context(), req)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, t)
}

// EditionsTexts returns the previous-editions page.
// GET {prefix}/projetos/edicoes-texts.
func (h *SettingsHandlers) EditionsTexts(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Svc.EditionsTexts(r.Context())
	h.writeEditions(w, r, doc, err)
}

// SaveEditionsTexts replaces the previous-editions page.
// POST {prefix}/projetos/edicoes-texts.
func (h *SettingsHandlers) SaveEditionsTexts(w http.ResponseWriter, r *http.Request) {
	var req model.EditionsTexts
	if !DecodeJSON(w, r, &req) {
		return
	}
	doc, err := h.Svc.SaveEditionsTexts(r.Context(), req)
	h.writeEditions(w, r, doc, err)
}

type editionRequest struct {
	Ano string `json:"ano"`
	Idx *int   `json:"idx,omitempty"`
}

// AddEdition creates an empty edition.
// POST {prefix}/projetos/edicoes-anteriores.
func (h *SettingsHandlers) AddEdition(w http.ResponseWriter, r *http.Request) {
	var req editionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	doc, err := h.Svc.AddEdition(r.Context(), req.Ano)
	h.writeEditions(w, r, doc, err)
}

// RemoveEdition deletes an edition.
// POST {prefix}/projetos/edicoes-anteriores/remover.
func (h *SettingsHandlers) RemoveEdition(w http.ResponseWriter, r *http.Request) {
	var req editionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	doc, err := h.Svc.RemoveEdition(r.Context(), req.Ano)
	h.writeEditions(w, r, doc, err)
}

// RemoveEditionProject deletes a showcased project by position.
// POST {prefix}/projetos/edicoes-anteriores/remover-projeto.
func (h *SettingsHandlers) RemoveEditionProject(w http.ResponseWriter, r *http.Request) {
	var req editionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Idx == nil {
		WriteServiceError(w, r, h.Logger, apperrors.ValidationField("idx", "idx é obrigatório"))
		return
	}
	doc, err := h.Svc.RemoveEditionProject(r.Context(), req.Ano, *req.Idx)
	h.writeEditions(w, r, doc, err)
}

// AddEditionProject appends a showcased project, with an optional attachment.
// POST {prefix}/projetos/edicoes-anteriores/projetos (multipart).
func (h *SettingsHandlers) AddEditionProject(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, h.MaxUploadBytes) {
		return
	}
	p := model.EditionProject{
		Titulo:     r.FormValue("titulo"),
		Aluno:      r.FormValue("aluno"),
		Orientador: r.FormValue("orientador"),
	}

	var file *service.EditionFile
	f, hdr, err := r.FormFile("arquivo")
	switch {
	case err == nil:
		defer closeQuietly(f)
		file = &service.EditionFile{Name: hdr.Filename, Body: f}
	case errors.Is(err, http.ErrMissingFile):
	default:
		WriteServiceError(w, r, h.Logger, apperrors.ValidationField("arquivo", "Arquivo inválido"))
		return
	}

	doc, err := h.Svc.AddEditionProject(r.Context(), r.FormValue("ano"), p, file)
	h.writeEditions(w, r, doc, err)
}

func (h *SettingsHandlers) writeEditions(w http.ResponseWriter, r *http.Request, doc model.EditionsTexts, err error) {
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

// multipartMemory is how much of a multipart body is buffered in memory
// before parts spill to temporary files.
const multipartMemory = 8 << 20

// multipartOverhead leaves room for form fields and boundaries on top of the file limit.
const multipartOverhead = 1 << 20

// parseMultipart bounds and parses a multipart body, writing the error response on failure.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) bool {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, ErrorParams{Code: http.StatusRequestEntityTooLarge, ErrCode: "file_too_large", Err: errors.New("Arquivo excede o tamanho máximo permitido")})
			return false
		}
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return false
	}
	return true
}

func closeQuietly(f multipart.File) {
	_ = f.Close()
}
