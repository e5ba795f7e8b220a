package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ibmec/pict-api/internal/adapters/identityrules"
	"github.com/ibmec/pict-api/internal/core"
	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/ibmec/pict-api/internal/observability/metrics"
	"github.com/ibmec/pict-api/internal/ports"
)

// Placeholders for attributes the identity provider did not supply.
const (
	DefaultResearchArea = "Não especificada"
	DefaultTitle        = "Professor"
	DefaultCourse       = "Não especificado"
	DefaultStatus       = "Ativo"
)

// placeholderEmailDomain hosts the synthetic address given to principals
// that arrive without an email.
const placeholderEmailDomain = "sem-email.invalid"

// maxCodeAttempts bounds the retries after a derived code collides with
// another user's code.
const maxCodeAttempts = 5

// IdentityServiceOptions groups dependencies for IdentityService.
type IdentityServiceOptions struct {
	Students  core.StudentRepository
	Advisors  core.AdvisorRepository
	Roles     ports.RoleClassifier
	Directory *core.AdvisorDirectoryCache // optional
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// IdentityService maps an external principal to its local record,
// creating the record on first login.
type IdentityService struct {
	students  core.StudentRepository
	advisors  core.AdvisorRepository
	roles     ports.RoleClassifier
	directory *core.AdvisorDirectoryCache
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewIdentityService constructs a new IdentityService.
func NewIdentityService(opts IdentityServiceOptions) *IdentityService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityService{
		students:  opts.Students,
		advisors:  opts.Advisors,
		roles:     opts.Roles,
		directory: opts.Directory,
		metrics:   opts.Metrics,
		logger:    logger.With("component", "identity"),
	}
}

// Identity is the resolved local identity of a principal.
// Student is set for students and admins; Advisor for advisors and admins.
type Identity struct {
	Role    domainauth.Role
	Student *model.Student
	Advisor *model.Advisor
	IsNew   bool
}

// Subject builds the session subject for the identity. accessToken is the
// upstream credential forwarded to the SPA.
func (id *Identity) Subject(accessToken string) (domainauth.Subject, error) {
	switch id.Role {
	case domainauth.RoleStudent:
		if id.Student == nil {
			return nil, apperrors.Internal("student identity without a record")
		}
		st := id.Student
		return domainauth.StudentSubject{
			SubjectBase: domainauth.SubjectBase{
				UserID: st.ID, Email: st.Email, Name: st.Nome, IsNewUser: id.IsNew, MicrosoftToken: accessToken,
			},
			Matricula: st.Matricula,
			Curso:     st.Curso,
			Semestre:  st.Semestre,
		}, nil
	case domainauth.RoleAdvisor, domainauth.RoleAdmin:
		if id.Advisor == nil {
			return nil, apperrors.Internal("advisor identity without a record")
		}
		a := id.Advisor
		adv := domainauth.AdvisorSubject{
			SubjectBase: domainauth.SubjectBase{
				UserID: a.ID, Email: a.Email, Name: a.Nome, IsNewUser: id.IsNew, MicrosoftToken: accessToken,
			},
			Codigo:        a.Codigo,
			AreaPesquisa:  a.AreaPesquisa,
			Titulacao:     a.Titulacao,
			IsCoordenador: a.IsCoordenador,
		}
		if id.Role == domainauth.RoleAdvisor {
			return adv, nil
		}
		admin := domainauth.AdminSubject{AdvisorSubject: adv}
		if id.Student != nil {
			admin.StudentID = id.Student.ID
		}
		return admin, nil
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeInternal, "unknown role %q", id.Role)
	}
}

// Classify returns the role the decision table assigns to email.
func (s *IdentityService) Classify(email string) domainauth.Role {
	return s.roles.Classify(email)
}

// Resolve classifies the principal and finds or creates its local record.
// Concurrent first logins for the same email converge on one record.
// A principal without an email is a student whose record is keyed on a
// placeholder address built from the provider's object id.
func (s *IdentityService) Resolve(ctx context.Context, p domainauth.Principal) (*Identity, error) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	role := s.roles.Classify(p.Email)
	if p.Email == "" {
		p.Email = placeholderEmail(p.Subject)
		s.logger.WarnContext(ctx, "principal has no email", "placeholder", p.Email, "role", role)
	}

	out := &Identity{Role: role}
	switch role {
	case domainauth.RoleStudent:
		st, created, err := s.ensureStudent(ctx, p)
		if err != nil {
			return nil, err
		}
		out.Student, out.IsNew = st, created
	case domainauth.RoleAdvisor:
		a, created, err := s.ensureAdvisor(ctx, p)
		if err != nil {
			return nil, err
		}
		out.Advisor, out.IsNew = a, created
	case domainauth.RoleAdmin:
		a, created, err := s.ensureAdvisor(ctx, p)
		if err != nil {
			return nil, err
		}
		// Admins also act on student-facing screens, which need a student row.
		st, _, err := s.ensureStudent(ctx, p)
		if err != nil {
			return nil, err
		}
		out.Advisor, out.Student, out.IsNew = a, st, created
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeInternal, "unknown role %q", role)
	}
	return out, nil
}

func (s *IdentityService) ensureStudent(ctx context.Context, p domainauth.Principal) (*model.Student, bool, error) {
	existing, err := s.students.GetByEmail(ctx, p.Email)
	if err == nil {
		return existing, false, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, false, fmt.Errorf("lookup student: %w", err)
	}

	base := identityrules.DeriveCode(p.Email, identityrules.MatriculaLen)
	in := model.NewStudent{
		Nome:     displayName(p),
		Email:    p.Email,
		Telefone: p.MobilePhone,
		Curso:    orDefault(p.Department, DefaultCourse),
		Semestre: 1,
		Status:   DefaultStatus,
	}
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		in.Matricula = codeForAttempt(base, attempt, identityrules.MatriculaLen)
		st, created, err := s.students.CreateIfAbsent(ctx, in)
		if isCodeCollision(err, "matricula") {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("create student: %w", err)
		}
		if created {
			s.metrics.IncUserCreated(string(domainauth.RoleStudent))
			s.logger.InfoContext(ctx, "student record created", "student_id", st.ID, "matricula", st.Matricula)
		}
		return st, created, nil
	}
	return nil, false, apperrors.Conflictf("não foi possível gerar uma matrícula única para %s", p.Email)
}

func (s *IdentityService) ensureAdvisor(ctx context.Context, p domainauth.Principal) (*model.Advisor, bool, error) {
	existing, err := s.advisors.GetByEmail(ctx, p.Email)
	if err == nil {
		return existing, false, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, false, fmt.Errorf("lookup advisor: %w", err)
	}

	base := identityrules.DeriveCode(p.Email, identityrules.AdvisorCodeLen)
	in := model.NewAdvisor{
		Nome:          displayName(p),
		Email:         p.Email,
		Telefone:      p.MobilePhone,
		AreaPesquisa:  orDefault(p.Department, DefaultResearchArea),
		Titulacao:     orDefault(p.JobTitle, DefaultTitle),
		IsCoordenador: identityrules.IsCoordinator(p.Email),
	}
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		in.Codigo = codeForAttempt(base, attempt, identityrules.AdvisorCodeLen)
		a, created, err := s.advisors.CreateIfAbsent(ctx, in)
		if isCodeCollision(err, "codigo") {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("create advisor: %w", err)
		}
		if created {
			s.metrics.IncUserCreated(string(domainauth.RoleAdvisor))
			s.logger.InfoContext(ctx, "advisor record created", "advisor_id", a.ID, "codigo", a.Codigo)
			s.invalidateDirectory(ctx)
		}
		return a, created, nil
	}
	return nil, false, apperrors.Conflictf("não foi possível gerar um código único para %s", p.Email)
}

func (s *IdentityService) invalidateDirectory(ctx context.Context) {
	if !s.directory.Enabled() {
		return
	}
	if err := s.directory.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "advisor directory cache invalidation failed", "error", err)
	}
}

// placeholderEmail keeps only [a-z0-9-] of subject so the address stays a
// valid lookup key. Without a subject every such login shares one record.
func placeholderEmail(subject string) string {
	local := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return -1
		}
	}, strings.ToLower(strings.TrimSpace(subject)))
	if local == "" {
		local = "anonimo"
	}
	return local + "@" + placeholderEmailDomain
}

func codeForAttempt(base string, attempt, maxLen int) string {
	if attempt == 0 {
		return base
	}
	return identityrules.WithSuffix(base, attempt, maxLen)
}

func isCodeCollision(err error, field string) bool {
	return err != nil && apperrors.IsConflict(err) && apperrors.GetField(err) == field
}

func displayName(p domainauth.Principal) string {
	if name := strings.TrimSpace(p.DisplayName); name != "" {
		return name
	}
	return p.LocalPart()
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
