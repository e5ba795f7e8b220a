package service

import (
	"context"
	"log/slog"

	"github.com/ibmec/pict-api/internal/core"
	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
)

// ProfileServiceOptions groups dependencies for ProfileService.
type ProfileServiceOptions struct {
	Students  core.StudentRepository
	Advisors  core.AdvisorRepository
	Admins    core.AdminRepository
	Directory *core.AdvisorDirectoryCache // optional
	Logger    *slog.Logger
}

// ProfileService reads and edits the caller's own profile.
type ProfileService struct {
	students  core.StudentRepository
	advisors  core.AdvisorRepository
	admins    core.AdminRepository
	directory *core.AdvisorDirectoryCache
	logger    *slog.Logger
}

// NewProfileService constructs a new ProfileService.
func NewProfileService(opts ProfileServiceOptions) *ProfileService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{
		students:  opts.Students,
		advisors:  opts.Advisors,
		admins:    opts.Admins,
		directory: opts.Directory,
		logger:    logger,
	}
}

// Mine returns the profile variant matching the subject's role.
func (s *ProfileService) Mine(ctx context.Context, subject domainauth.Subject) (*model.Profile, error) {
	if subject == nil {
		return nil, apperrors.Unauthorized("token ausente")
	}
	base := subject.Base()
	switch subject.Role() {
	case domainauth.RoleStudent:
		st, err := s.students.GetByID(ctx, base.UserID)
		if err != nil {
			return nil, err
		}
		st.InteressesPesquisa = model.SplitList(st.InteressesPesquisa)
		return &model.Profile{Student: st}, nil
	case domainauth.RoleAdvisor:
		a, err := s.advisors.GetByID(ctx, base.UserID)
		if err != nil {
			return nil, err
		}
		a.AreasInteresse = model.SplitList(a.AreasInteresse)
		return &model.Profile{Advisor: a}, nil
	case domainauth.RoleAdmin:
		return s.adminProfile(ctx, base)
	default:
		return nil, apperrors.Forbidden("Tipo de usuário inválido")
	}
}

// adminProfile prefers the admins row and falls back to the advisor-shaped
// record created at first login.
func (s *ProfileService) adminProfile(ctx context.Context, base domainauth.SubjectBase) (*model.Profile, error) {
	admin, err := s.admins.GetByEmail(ctx, base.Email)
	if err == nil {
		admin.AreasInteresse = model.SplitList(admin.AreasInteresse)
		return &model.Profile{Admin: admin}, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	a, err := s.advisors.GetByID(ctx, base.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("Administrador não encontrado")
		}
		return nil, err
	}
	return &model.Profile{Admin: &model.Admin{
		ID:             a.ID,
		Nome:           a.Nome,
		Email:          a.Email,
		Telefone:       a.Telefone,
		Titulacao:      a.Titulacao,
		LattesURL:      a.LattesURL,
		Biografia:      a.Biografia,
		AreasInteresse: model.SplitList(a.AreasInteresse),
		CreatedAt:      a.CreatedAt,
	}}, nil
}

// UpdateStudent edits the student's profile and returns the stored result.
func (s *ProfileService) UpdateStudent(ctx context.Context, student domainauth.StudentSubject, req *model.UpdateStudentProfileRequest) (*model.Student, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := s.students.UpdateProfile(ctx, student.UserID, req); err != nil {
		return nil, err
	}
	return s.students.GetByID(ctx, student.UserID)
}

// UpdateAdvisor edits an advisor's profile, or the admins row when the
// caller is an admin. The admins row stays keyed by the login email.
func (s *ProfileService) UpdateAdvisor(ctx context.Context, subject domainauth.Subject, req *model.UpdateAdvisorProfileRequest) (*model.Profile, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	switch subject.Role() {
	case domainauth.RoleAdmin:
		admin, err := s.admins.Upsert(ctx, subject.Base().Email, req)
		if err != nil {
			return nil, err
		}
		return &model.Profile{Admin: admin}, nil
	case domainauth.RoleAdvisor:
		id := subject.Base().UserID
		if err := s.advisors.UpdateProfile(ctx, id, req); err != nil {
			return nil, err
		}
		if s.directory.Enabled() {
			if err := s.directory.Invalidate(ctx); err != nil {
				s.logger.WarnContext(ctx, "advisor directory cache invalidation failed", "error", err)
			}
		}
		a, err := s.advisors.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &model.Profile{Advisor: a}, nil
	default:
		return nil, apperrors.Forbidden("Apenas professores podem atualizar este perfil")
	}
}
