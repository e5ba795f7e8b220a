package devseed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ibmec/pict-api/internal/domain/model"
	"github.com/ibmec/pict-api/internal/mocks"
)

type seedFixture struct {
	students *mocks.MockStudentRepository
	advisors *mocks.MockAdvisorRepository
	projects *mocks.MockProjectRepository
	svcs     Services
}

var seedNow = time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)

func newSeedFixture(t *testing.T) seedFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := seedFixture{
		students: mocks.NewMockStudentRepository(ctrl),
		advisors: mocks.NewMockAdvisorRepository(ctrl),
		projects: mocks.NewMockProjectRepository(ctrl),
	}
	f.svcs = Services{Students: f.students, Advisors: f.advisors, Projects: f.projects, Now: func() time.Time { return seedNow }}
	return f
}

func (f seedFixture) expectPeople() {
	f.advisors.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in model.NewAdvisor) (*model.Advisor, bool, error) {
			id := int64(len(in.Codigo))
			return &model.Advisor{ID: id, Email: in.Email}, true, nil
		}).Times(len(seedAdvisors))
	f.students.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in model.NewStudent) (*model.Student, bool, error) {
			return &model.Student{ID: int64(100 + len(in.Matricula)), Email: in.Email}, true, nil
		}).Times(len(seedStudents))
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRun_CreatesPendingProject(t *testing.T) {
	f := newSeedFixture(t)
	f.expectPeople()

	f.projects.EXPECT().List(gomock.Any(), model.ProjectFilter{AlunoID: 108}).Return(nil, nil)
	f.projects.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in model.NewProject) (*model.Project, error) {
			assert.Equal(t, int64(10), in.OrientadorID)
			assert.Equal(t, int64(108), in.AlunoID)
			assert.Equal(t, "IC2025010108", in.Codigo)
			assert.Equal(t, seedNow, in.DataSubmissao)
			return &model.Project{ID: 1, Codigo: in.Codigo}, nil
		})

	require.NoError(t, Run(context.Background(), f.svcs, quietLogger()))
}

func TestRun_SkipsExistingProject(t *testing.T) {
	f := newSeedFixture(t)
	f.expectPeople()

	f.projects.EXPECT().List(gomock.Any(), gomock.Any()).Return([]model.ProjectListing{{Project: model.Project{ID: 9}}}, nil)

	require.NoError(t, Run(context.Background(), f.svcs, quietLogger()))
}

func TestRun_StopsOnAdvisorError(t *testing.T) {
	f := newSeedFixture(t)
	f.advisors.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).Return(nil, false, errors.New("db down"))

	err := Run(context.Background(), f.svcs, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed advisor")
}
