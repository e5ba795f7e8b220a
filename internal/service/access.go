package service

import (
	"context"

	"github.com/ibmec/pict-api/internal/core"
	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
)

const msgProjectNotOwned = "Projeto não encontrado ou sem permissão"

// ownedProject loads the project and checks that subject takes part in it:
// students must be its author and advisors its supervisor. Projects the
// caller does not own are reported as missing.
func ownedProject(ctx context.Context, projects core.ProjectRepository, subject domainauth.Subject, projectID int64) (*model.Project, error) {
	p, err := projects.GetByID(ctx, projectID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound(msgProjectNotOwned)
		}
		return nil, err
	}
	if !ownsProject(subject, p.AlunoID, p.OrientadorID) {
		return nil, apperrors.NotFound(msgProjectNotOwned)
	}
	return p, nil
}

func ownsProject(subject domainauth.Subject, alunoID, orientadorID int64) bool {
	if subject == nil {
		return false
	}
	id := subject.Base().UserID
	switch subject.Role() {
	case domainauth.RoleStudent:
		return alunoID == id
	case domainauth.RoleAdvisor:
		return orientadorID == id
	default:
		return false
	}
}
