package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ibmec/pict-api/internal/core"
	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/ibmec/pict-api/internal/observability/metrics"
)

// DocumentServiceOptions groups dependencies for DocumentService.
type DocumentServiceOptions struct {
	Projects   core.ProjectRepository
	Documents  core.DocumentRepository
	Comments   core.CommentRepository
	Activities core.ActivityRepository
	Files      core.FileStore
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// DocumentService handles uploads, document listings and comments.
type DocumentService struct {
	projects   core.ProjectRepository
	documents  core.DocumentRepository
	comments   core.CommentRepository
	activities core.ActivityRepository
	files      core.FileStore
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(opts DocumentServiceOptions) *DocumentService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{
		projects:   opts.Projects,
		documents:  opts.Documents,
		comments:   opts.Comments,
		activities: opts.Activities,
		files:      opts.Files,
		metrics:    opts.Metrics,
		logger:     logger,
	}
}

// UploadInput describes a document a student is submitting.
type UploadInput struct {
	ProjetoID   int64
	FileName    string
	ContentType string
	Comentario  string
	Body        io.Reader
}

// Upload stores a document for a project the student owns. Uploads are
// only accepted once the advisor has opened at least one activity.
func (s *DocumentService) Upload(ctx context.Context, student domainauth.StudentSubject, in UploadInput) (*model.Document, error) {
	if strings.TrimSpace(in.FileName) == "" || in.Body == nil {
		return nil, apperrors.ValidationField("arquivo", "Arquivo não enviado")
	}
	p, err := ownedProject(ctx, s.projects, student, in.ProjetoID)
	if err != nil {
		return nil, err
	}

	n, err := s.activities.Count(ctx, core.ActivityKey{ProjetoID: p.ID, AlunoID: student.UserID, ProfessorID: p.OrientadorID})
	if err != nil {
		return nil, fmt.Errorf("count activities: %w", err)
	}
	if n == 0 {
		return nil, apperrors.Forbidden("Aguarde o orientador criar uma atividade antes de enviar documentos")
	}

	stored, err := s.files.Save(ctx, "projeto_"+strconv.FormatInt(p.ID, 10), in.FileName, in.Body)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	doc, err := s.documents.Create(ctx, model.NewDocument{
		ProjetoID:       p.ID,
		NomeArquivo:     path.Base(strings.ReplaceAll(in.FileName, "\\", "/")),
		CaminhoArquivo:  stored.Path,
		TipoArquivo:     in.ContentType,
		TamanhoArquivo:  stored.Size,
		ComentarioAluno: strings.TrimSpace(in.Comentario),
	})
	if err != nil {
		if rmErr := s.files.Remove(ctx, stored.Path); rmErr != nil {
			s.logger.WarnContext(ctx, "orphaned upload", "path", stored.Path, "error", rmErr)
		}
		return nil, err
	}
	s.metrics.IncUpload()
	s.logger.InfoContext(ctx, "document uploaded", "document_id", doc.ID, "project_id", p.ID, "size", doc.TamanhoArquivo)
	return doc, nil
}

// ListForProject returns the project's documents, newest first, each with
// its comment thread. Documents and comments are fetched concurrently.
func (s *DocumentService) ListForProject(ctx context.Context, subject domainauth.Subject, projectID int64) ([]model.DocumentWithComments, error) {
	if _, err := ownedProject(ctx, s.projects, subject, projectID); err != nil {
		return nil, err
	}

	var (
		docs     []model.Document
		comments []model.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs, err = s.documents.ListByProject(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.comments.ListByProject(gctx, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byDoc := make(map[int64][]model.Comment, len(docs))
	for _, c := range comments {
		byDoc[c.DocumentoID] = append(byDoc[c.DocumentoID], c)
	}
	out := make([]model.DocumentWithComments, 0, len(docs))
	for _, d := range docs {
		thread := byDoc[d.ID]
		if thread == nil {
			thread = []model.Comment{}
		}
		out = append(out, model.DocumentWithComments{Document: d, Comentarios: thread})
	}
	return out, nil
}

// Comment adds a comment to a document. Only the project's student and
// advisor may comment.
func (s *DocumentService) Comment(ctx context.Context, subject domainauth.Subject, documentID int64, req *model.CreateCommentRequest) (*model.Comment, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	access, err := s.documents.GetAccess(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !ownsProject(subject, access.AlunoID, access.OrientadorID) {
		return nil, apperrors.Forbidden("Sem permissão para comentar neste documento")
	}

	return s.comments.Create(ctx, model.NewComment{
		DocumentoID: documentID,
		UsuarioID:   subject.Base().UserID,
		UsuarioTipo: subject.Role(),
		Comentario:  req.Comentario,
	})
}
