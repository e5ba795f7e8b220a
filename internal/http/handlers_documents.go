package httpx

import (
	"log/slog"
	"net/http"

	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/ibmec/pict-api/internal/service"
)

// DocumentHandlers provides HTTP handlers for uploads and comments.
type DocumentHandlers struct {
	Svc            *service.DocumentService
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Upload stores a document on one of the calling student's projects.
// POST {prefix}/documentos/upload/{projeto_id} (multipart: arquivo, comentario).
func (h *DocumentHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	student, ok := StudentFromContext(r.Context())
	if !ok {
		WriteServiceError(w, r, h.Logger, errUnauthenticated)
		return
	}
	projectID, err := pathID(r, "projeto_id")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	if !parseMultipart(w, r, h.MaxUploadBytes) {
		return
	}

	f, hdr, err := r.FormFile("arquivo")
	if err != nil {
		WriteServiceError(w, r, h.Logger, apperrors.ValidationField("arquivo", "Arquivo não enviado"))
		return
	}
	defer closeQuietly(f)

	doc, err := h.Svc.Upload(r.Context(), student, service.UploadInput{
		ProjetoID:   projectID,
		FileName:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Comentario:  r.FormValue("comentario"),
		Body:        f,
	})
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteMessage(w, http.StatusCreated, "Documento enviado com sucesso", map[string]any{
		"documento_id": doc.ID,
		"documento":    doc,
	})
}

// ListForProject lists a project's documents with their comment threads.
// GET {prefix}/documentos/projeto/{id}.
func (h *DocumentHandlers) ListForProject(w http.ResponseWriter, r *http.Request) {
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
	docs, err := h.Svc.ListForProject(r.Context(), subject, id)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, docs)
}

// Comment adds a comment to a document.
// POST {prefix}/documentos/comentar/{doc_id}.
func (h *DocumentHandlers) Comment(w http.ResponseWriter, r *http.Request) {
	subject, ok := SubjectFromContext(r.Context())
	if !ok {
		WriteServiceError(w, r, h.Logger, errUnauthenticated)
		return
	}
	id, err := pathID(r, "doc_id")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	var req model.CreateCommentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	c, err := h.Svc.Comment(r.Context(), subject, id, &req)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteMessage(w, http.StatusCreated, "Comentário adicionado com sucesso", map[string]any{"comentario": c})
}
