package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ibmec/pict-api/internal/core"
	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/ibmec/pict-api/internal/observability/metrics"
)

// ProjectServiceOptions groups dependencies for ProjectService.
type ProjectServiceOptions struct {
	Projects  core.ProjectRepository
	Advisors  core.AdvisorRepository
	Settings  core.SettingsStore
	Directory *core.AdvisorDirectoryCache // optional
	Now       func() time.Time
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// ProjectService handles project submission, approval and the dashboard listings.
type ProjectService struct {
	projects  core.ProjectRepository
	advisors  core.AdvisorRepository
	settings  core.SettingsStore
	directory *core.AdvisorDirectoryCache
	now       func() time.Time
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewProjectService constructs a new ProjectService.
func NewProjectService(opts ProjectServiceOptions) *ProjectService {
	s := &ProjectService{
		projects:  opts.Projects,
		advisors:  opts.Advisors,
		settings:  opts.Settings,
		directory: opts.Directory,
		now:       opts.Now,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Create submits a project for studentID. The enrollment window is checked
// before anything is written.
func (s *ProjectService) Create(ctx context.Context, studentID int64, req *model.CreateProjectRequest) (*model.Project, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := s.now()
	period, err := s.settings.EnrollmentPeriod(ctx)
	if err != nil {
		return nil, fmt.Errorf("load enrollment period: %w", err)
	}
	if !period.IsOpen(now) {
		return nil, apperrors.Forbidden("O período de inscrições está encerrado")
	}

	if _, err := s.advisors.GetByID(ctx, req.OrientadorID); err != nil {
		return nil, err
	}

	p, err := s.projects.Create(ctx, model.NewProject{
		Codigo:        model.ProjectCode(now, req.OrientadorID, studentID),
		Titulo:        req.Titulo,
		Descricao:     req.Descricao,
		OrientadorID:  req.OrientadorID,
		AlunoID:       studentID,
		DataSubmissao: now,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncProjectCreated()
	s.logger.InfoContext(ctx, "project submitted", "project_id", p.ID, "codigo", p.Codigo, "orientador_id", p.OrientadorID)
	return p, nil
}

// Approve activates a pending project supervised by advisorID.
func (s *ProjectService) Approve(ctx context.Context, advisorID, projectID int64) error {
	ok, err := s.projects.Approve(ctx, projectID, advisorID, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("Projeto não encontrado ou sem permissão")
	}
	s.invalidateDirectory(ctx)
	s.logger.InfoContext(ctx, "project approved", "project_id", projectID, "orientador_id", advisorID)
	return nil
}

// ForStudent lists the student's projects with document statistics.
func (s *ProjectService) ForStudent(ctx context.Context, studentID int64) ([]model.ProjectListing, error) {
	return s.projects.List(ctx, model.ProjectFilter{AlunoID: studentID})
}

// ForAdvisor lists the advisor's projects in the given status.
func (s *ProjectService) ForAdvisor(ctx context.Context, advisorID int64, status model.ProjectStatus) ([]model.ProjectListing, error) {
	return s.projects.List(ctx, model.ProjectFilter{OrientadorID: advisorID, Status: status})
}

// All lists every project in the given status.
func (s *ProjectService) All(ctx context.Context, status model.ProjectStatus) ([]model.ProjectListing, error) {
	return s.projects.List(ctx, model.ProjectFilter{Status: status})
}

// AdvisorDirectory lists advisors with their active project counts,
// served from cache when one is configured.
func (s *ProjectService) AdvisorDirectory(ctx context.Context) ([]model.AdvisorDirectoryEntry, error) {
	if s.directory.Enabled() {
		entries, ok, err := s.directory.Get(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "advisor directory cache read failed", "error", err)
		} else if ok {
			return entries, nil
		}
	}

	entries, err := s.advisors.Directory(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Areas = model.SplitList(entries[i].AreasInteresse)
	}

	if s.directory.Enabled() {
		if err := s.directory.Set(ctx, entries); err != nil {
			s.logger.WarnContext(ctx, "advisor directory cache write failed", "error", err)
		}
	}
	return entries, nil
}

// InvalidateDirectory drops the cached advisor directory.
func (s *ProjectService) InvalidateDirectory(ctx context.Context) {
	s.invalidateDirectory(ctx)
}

func (s *ProjectService) invalidateDirectory(ctx context.Context) {
	if !s.directory.Enabled() {
		return
	}
	if err := s.directory.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "advisor directory cache invalidation failed", "error", err)
	}
}
