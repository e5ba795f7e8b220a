package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ibmec/pict-api/internal/adapters/identityrules"
	"github.com/ibmec/pict-api/internal/core"
	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/ibmec/pict-api/internal/mocks"
)

func testRules() identityrules.Table {
	return identityrules.Table{
		AdminIdentifier: "202302129633",
		AdminDomain:     "ibmec.edu.br",
		AdvisorDomain:   "professores.ibmec.edu.br",
		KeywordAdmin:    true,
		AdminKeywords:   []string{"admin", "coordenador"},
	}
}

type identityFixture struct {
	students *mocks.MockStudentRepository
	advisors *mocks.MockAdvisorRepository
	svc      *IdentityService
}

func newIdentityFixture(t *testing.T) identityFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	students := mocks.NewMockStudentRepository(ctrl)
	advisors := mocks.NewMockAdvisorRepository(ctrl)
	svc := NewIdentityService(IdentityServiceOptions{Students: students, Advisors: advisors, Roles: testRules()})
	return identityFixture{students: students, advisors: advisors, svc: svc}
}

func notFound() error { return apperrors.NotFound("not found") }

func TestIdentityService_Resolve_NewStudent(t *testing.T) {
	t.Parallel()
	f := newIdentityFixture(t)
	ctx := context.Background()

	p := domainauth.Principal{
		Email:       "Maria.Silva@alunos.ibmec.edu.br",
		DisplayName: "Maria Silva",
		Department:  "Direito",
		MobilePhone: "21 99999-0000",
	}

	f.students.EXPECT().GetByEmail(ctx, "maria.silva@alunos.ibmec.edu.br").Return(nil, notFound())
	f.students.EXPECT().CreateIfAbsent(ctx, model.NewStudent{
		Nome:      "Maria Silva",
		Matricula: "MARIASILVA",
		Email:     "maria.silva@alunos.ibmec.edu.br",
		Telefone:  "21 99999-0000",
		Curso:     "Direito",
		Semestre:  1,
		Status:    "Ativo",
	}).Return(&model.Student{ID: 7, Email: "maria.silva@alunos.ibmec.edu.br", Matricula: "MARIASILVA"}, true, nil)

	got, err := f.svc.Resolve(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStudent, got.Role)
	assert.True(t, got.IsNew)
	assert.Equal(t, int64(7), got.Student.ID)
	assert.Nil(t, got.Advisor)
}

func TestIdentityService_Resolve_ExistingStudentIsNotNew(t *testing.T) {
	t.Parallel()
	f := newIdentityFixture(t)
	ctx := context.Background()

	existing := &model.Student{ID: 3, Email: "joao@alunos.ibmec.edu.br"}
	f.students.EXPECT().GetByEmail(ctx, "joao@alunos.ibmec.edu.br").Return(existing, nil).Times(2)

	first, err := f.svc.Resolve(ctx, domainauth.Principal{Email: "joao@alunos.ibmec.edu.br"})
	require.NoError(t, err)
	second, err := f.svc.Resolve(ctx, domainauth.Principal{Email: "joao@alunos.ibmec.edu.br"})
	require.NoError(t, err)

	assert.False(t, second.IsNew)
	assert.Equal(t, first.Student.ID, second.Student.ID)
}

func TestIdentityService_Resolve_NewAdvisorDefaults(t *testing.T) {
	t.Parallel()
	f := newIdentityFixture(t)
	ctx := context.Background()

	f.advisors.EXPECT().GetByEmail(ctx, "jane.doe@professores.ibmec.edu.br").Return(nil, notFound())
	f.advisors.EXPECT().CreateIfAbsent(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, in model.NewAdvisor) (*model.Advisor, bool, error) {
			assert.Equal(t, "JANEDOE", in.Codigo)
			assert.Equal(t, "Não especificada", in.AreaPesquisa)
			assert.Equal(t, "Professor", in.Titulacao)
			assert.Equal(t, "jane.doe", in.Nome)
			assert.Empty(t, in.LattesURL)
			assert.False(t, in.IsCoordenador)
			return &model.Advisor{ID: 11, Email: in.Email, Codigo: in.Codigo}, true, nil
		})

	got, err := f.svc.Resolve(ctx, domainauth.Principal{Email: "jane.doe@professores.ibmec.edu.br"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdvisor, got.Role)
	assert.Equal(t, "JANEDOE", got.Advisor.Codigo)
	assert.True(t, got.IsNew)
}

func TestIdentityService_Resolve_CoordinatorFlag(t *testing.T) {
	t.Parallel()
	f := newIdentityFixture(t)
	ctx := context.Background()

	email := "coord.curso@professores.ibmec.edu.br"
	f.advisors.EXPECT().GetByEmail(ctx, email).Return(nil, notFound())
	f.advisors.EXPECT().CreateIfAbsent(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, in model.NewAdvisor) (*model.Advisor, bool, error) {
			assert.True(t, in.IsCoordenador)
			assert.Equal(t, "COORDCURSO", in.Codigo)
			return &model.Advisor{ID: 2, Email: email, IsCoordenador: true}, true, nil
		})

	got, err := f.svc.Resolve(ctx, domainauth.Principal{Email: email})
	require.NoError(t, err)
	assert.True(t, got.Advisor.IsCoordenador)
}

func TestIdentityService_Resolve_AdminCreatesBothRecords(t *testing.T) {
	t.Parallel()
	f := newIdentityFixture(t)
	ctx := context.Background()

	email := "202302129633@ibmec.edu.br"
	f.advisors.EXPECT().GetByEmail(ctx, email).Return(nil, notFound())
	f.advisors.EXPECT().CreateIfAbsent(ctx, gomock.Any()).
		Return(&model.Advisor{ID: 20, Email: email, Codigo: "2023021296"}, true, nil)
	f.students.EXPECT().GetByEmail(ctx, email).Return(nil, notFound())
	f.students.EXPECT().CreateIfAbsent(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, in model.NewStudent) (*model.Student, bool, error) {
			assert.Equal(t, "202302129633", in.Matricula)
			return &model.Student{ID: 30, Email: email}, true, nil
		})

	got, err := f.svc.Resolve(ctx, domainauth.Principal{Email: email, DisplayName: "Admin PICT"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, got.Role)
	require.NotNil(t, got.Advisor)
	require.NotNil(t, got.Student)

	subject, err := got.Subject("ms-token")
	require.NoError(t, err)
	admin, ok := subject.(domainauth.AdminSubject)
	require.True(t, ok)
	assert.Equal(t, int64(20), admin.UserID)
	assert.Equal(t, int64(30), admin.StudentID)
	assert.Equal(t, "ms-token", admin.MicrosoftToken)
}

func TestIdentityService_Resolve_AdminKeepsExistingStudent(t *testing.T) {
	t.Parallel()
	f := newIdentityFixture(t)
	ctx := context.Background()

	email := "admin.pict@ibmec.edu.br"
	f.advisors.EXPECT().GetByEmail(ctx, email).Return(&model.Advisor{ID: 4, Email: email}, nil)
	f.students.EXPECT().GetByEmail(ctx, email).Return(&model.Student{ID: 5, Email: email}, nil)

	got, err := f.svc.Resolve(ctx, domainauth.Principal{Email: email})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, got.Role)
	assert.False(t, got.IsNew)
	assert.Equal(t, int64(5), got.Student.ID)
}

func TestIdentityService_Resolve_RetriesCodeCollision(t *testing.T) {
	t.Parallel()
	f := newIdentityFixture(t)
	ctx := context.Background()

	email := "ana.souza@alunos.ibmec.edu.br"
	collision := &apperrors.AppError{Code: apperrors.ErrCodeConflict, Message: "exists", Field: "matricula"}

	f.students.EXPECT().GetByEmail(ctx, email).Return(nil, notFound())
	gomock.InOrder(
		f.students.EXPECT().CreateIfAbsent(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, in model.NewStudent) (*model.Student, bool, error) {
				assert.Equal(t, "ANASOUZA", in.Matricula)
				return nil, false, collision
			}),
		f.students.EXPECT().CreateIfAbsent(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, in model.NewStudent) (*model.Student, bool, error) {
				assert.Equal(t, "ANASOUZA2", in.Matricula)
				return &model.Student{ID: 9, Matricula: in.Matricula}, true, nil
			}),
	)

	got, err := f.svc.Resolve(ctx, domainauth.Principal{Email: email})
	require.NoError(t, err)
	assert.Equal(t, "ANASOUZA2", got.Student.Matricula)
}

func TestIdentityService_Resolve_GivesUpAfterRepeatedCollisions(t *testing.T) {
	t.Parallel()
	f := newIdentityFixture(t)
	ctx := context.Background()

	collision := &apperrors.AppError{Code: apperrors.ErrCodeConflict, Message: "exists", Field: "codigo"}
	f.advisors.EXPECT().GetByEmail(ctx, gomock.Any()).Return(nil, notFound())
	f.advisors.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Return(nil, false, collision).Times(maxCodeAttempts)

	_, err := f.svc.Resolve(ctx, domainauth.Principal{Email: "x@professores.ibmec.edu.br"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestIdentityService_Resolve_EmptyEmailIsStudent(t *testing.T) {
	t.Parallel()

	t.Run("keyed on the object id", func(t *testing.T) {
		f := newIdentityFixture(t)
		ctx := context.Background()
		placeholder := "6f1c2a9e-0b7d-4c55@sem-email.invalid"

		f.students.EXPECT().GetByEmail(ctx, placeholder).Return(nil, notFound())
		f.students.EXPECT().CreateIfAbsent(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, in model.NewStudent) (*model.Student, bool, error) {
				assert.Equal(t, placeholder, in.Email)
				assert.Equal(t, "6F1C2A9E-0B7D-4", in.Matricula)
				assert.Equal(t, "Ghost", in.Nome)
				return &model.Student{ID: 9, Email: in.Email, Nome: in.Nome, Matricula: in.Matricula}, true, nil
			})

		got, err := f.svc.Resolve(ctx, domainauth.Principal{Email: "  ", Subject: "6F1C2A9E-0B7D-4C55", DisplayName: "Ghost"})
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleStudent, got.Role)
		assert.True(t, got.IsNew)

		subject, err := got.Subject("")
		require.NoError(t, err)
		assert.Equal(t, placeholder, subject.Base().Email)
	})

	t.Run("no object id either", func(t *testing.T) {
		f := newIdentityFixture(t)
		ctx := context.Background()
		existing := &model.Student{ID: 3, Email: "anonimo@sem-email.invalid"}
		f.students.EXPECT().GetByEmail(ctx, "anonimo@sem-email.invalid").Return(existing, nil)

		got, err := f.svc.Resolve(ctx, domainauth.Principal{})
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleStudent, got.Role)
		assert.False(t, got.IsNew)
		assert.Equal(t, int64(3), got.Student.ID)
	})
}

func TestIdentityService_Resolve_NewAdvisorInvalidatesDirectory(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	students := mocks.NewMockStudentRepository(ctrl)
	advisors := mocks.NewMockAdvisorRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)
	svc := NewIdentityService(IdentityServiceOptions{
		Students: students,
		Advisors: advisors,
		Roles:    testRules(),
		Directory: core.NewAdvisorDirectoryCache(core.AdvisorDirectoryCacheOptions{
			Cache: cache, KeyPrefix: "test:", TTL: time.Minute,
		}),
	})
	ctx := context.Background()
	email := "jane.doe@professores.ibmec.edu.br"

	t.Run("first login drops the cached directory", func(t *testing.T) {
		advisors.EXPECT().GetByEmail(ctx, email).Return(nil, notFound())
		advisors.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Return(&model.Advisor{ID: 11, Email: email}, true, nil)
		cache.EXPECT().Delete(ctx, "test:"+core.AdvisorDirectoryKey).Return(true, nil)

		got, err := svc.Resolve(ctx, domainauth.Principal{Email: email})
		require.NoError(t, err)
		assert.True(t, got.IsNew)
	})

	t.Run("returning advisor leaves the cache alone", func(t *testing.T) {
		advisors.EXPECT().GetByEmail(ctx, email).Return(&model.Advisor{ID: 11, Email: email}, nil)

		got, err := svc.Resolve(ctx, domainauth.Principal{Email: email})
		require.NoError(t, err)
		assert.False(t, got.IsNew)
	})

	t.Run("invalidation failure does not fail the login", func(t *testing.T) {
		advisors.EXPECT().GetByEmail(ctx, email).Return(nil, notFound())
		advisors.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Return(&model.Advisor{ID: 11, Email: email}, true, nil)
		cache.EXPECT().Delete(ctx, gomock.Any()).Return(false, errors.New("redis down"))

		_, err := svc.Resolve(ctx, domainauth.Principal{Email: email})
		require.NoError(t, err)
	})
}

func TestIdentityService_Resolve_Errors(t *testing.T) {
	t.Parallel()

	t.Run("lookup failure", func(t *testing.T) {
		f := newIdentityFixture(t)
		boom := errors.New("db down")
		f.students.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, boom)

		_, err := f.svc.Resolve(context.Background(), domainauth.Principal{Email: "a@alunos.ibmec.edu.br"})
		assert.ErrorIs(t, err, boom)
	})
}

func TestIdentity_Subject(t *testing.T) {
	t.Parallel()

	st := &Identity{Role: domainauth.RoleStudent, IsNew: true, Student: &model.Student{
		ID: 1, Email: "a@b", Nome: "A", Matricula: "A", Curso: "Direito", Semestre: 2,
	}}
	subject, err := st.Subject("tok")
	require.NoError(t, err)
	s, ok := subject.(domainauth.StudentSubject)
	require.True(t, ok)
	assert.Equal(t, "Direito", s.Curso)
	assert.True(t, s.IsNewUser)

	_, err = (&Identity{Role: domainauth.RoleAdvisor}).Subject("tok")
	assert.True(t, apperrors.IsInternal(err))

	_, err = (&Identity{Role: "ghost"}).Subject("tok")
	assert.True(t, apperrors.IsInternal(err))
}
