package service

import (
	"context"

	"github.com/ibmec/pict-api/internal/core"
	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
)

// ActivityServiceOptions groups dependencies for ActivityService.
type ActivityServiceOptions struct {
	Projects   core.ProjectRepository
	Activities core.ActivityRepository
}

// ActivityService manages the deliverables advisors open on their projects.
type ActivityService struct {
	projects   core.ProjectRepository
	activities core.ActivityRepository
}

// NewActivityService constructs a new ActivityService.
func NewActivityService(opts ActivityServiceOptions) *ActivityService {
	return &ActivityService{projects: opts.Projects, activities: opts.Activities}
}

// Create opens an activity on a project the advisor supervises.
func (s *ActivityService) Create(ctx context.Context, advisor domainauth.AdvisorSubject, projectID int64, req *model.CreateActivityRequest) (*model.Activity, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	p, err := ownedProject(ctx, s.projects, advisor, projectID)
	if err != nil {
		return nil, err
	}
	return s.activities.Create(ctx, model.NewActivity{
		ProjetoID:   p.ID,
		ProfessorID: advisor.UserID,
		AlunoID:     p.AlunoID,
		Titulo:      req.Titulo,
		Descricao:   req.Descricao,
	})
}

// ListForProject lists a project's activities for its student or advisor.
func (s *ActivityService) ListForProject(ctx context.Context, subject domainauth.Subject, projectID int64) ([]model.Activity, error) {
	if _, err := ownedProject(ctx, s.projects, subject, projectID); err != nil {
		return nil, err
	}
	return s.activities.ListByProject(ctx, projectID)
}
