package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ibmec/pict-api/internal/core"
	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/ibmec/pict-api/internal/mocks"
)

type documentFixture struct {
	projects   *mocks.MockProjectRepository
	documents  *mocks.MockDocumentRepository
	comments   *mocks.MockCommentRepository
	activities *mocks.MockActivityRepository
	files      *mocks.MockFileStore
	svc        *DocumentService
}

func newDocumentFixture(t *testing.T) documentFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := documentFixture{
		projects:   mocks.NewMockProjectRepository(ctrl),
		documents:  mocks.NewMockDocumentRepository(ctrl),
		comments:   mocks.NewMockCommentRepository(ctrl),
		activities: mocks.NewMockActivityRepository(ctrl),
		files:      mocks.NewMockFileStore(ctrl),
	}
	f.svc = NewDocumentService(DocumentServiceOptions{
		Projects:   f.projects,
		Documents:  f.documents,
		Comments:   f.comments,
		Activities: f.activities,
		Files:      f.files,
	})
	return f
}

func student(id int64) domainauth.StudentSubject {
	return domainauth.StudentSubject{SubjectBase: domainauth.SubjectBase{UserID: id, Email: "aluno@ibmec.edu.br"}}
}

func advisor(id int64) domainauth.AdvisorSubject {
	return domainauth.AdvisorSubject{SubjectBase: domainauth.SubjectBase{UserID: id, Email: "prof@professores.ibmec.edu.br"}}
}

func TestDocumentService_Upload(t *testing.T) {
	t.Parallel()
	f := newDocumentFixture(t)
	ctx := context.Background()

	f.projects.EXPECT().GetByID(ctx, int64(10)).Return(&model.Project{ID: 10, AlunoID: 1, OrientadorID: 2}, nil)
	f.activities.EXPECT().Count(ctx, core.ActivityKey{ProjetoID: 10, AlunoID: 1, ProfessorID: 2}).Return(int64(1), nil)
	f.files.EXPECT().Save(ctx, "projeto_10", `C:\docs\relatorio.pdf`, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, r io.Reader) (core.StoredFile, error) {
			b, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, "%PDF", string(b))
			return core.StoredFile{Path: "projeto_10/ab12cd34_relatorio.pdf", Size: 4}, nil
		})
	f.documents.EXPECT().Create(ctx, model.NewDocument{
		ProjetoID:       10,
		NomeArquivo:     "relatorio.pdf",
		CaminhoArquivo:  "projeto_10/ab12cd34_relatorio.pdf",
		TipoArquivo:     "application/pdf",
		TamanhoArquivo:  4,
		ComentarioAluno: "primeira versão",
	}).Return(&model.Document{ID: 3, ProjetoID: 10, TamanhoArquivo: 4}, nil)

	doc, err := f.svc.Upload(ctx, student(1), UploadInput{
		ProjetoID:   10,
		FileName:    `C:\docs\relatorio.pdf`,
		ContentType: "application/pdf",
		Comentario:  " primeira versão ",
		Body:        strings.NewReader("%PDF"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), doc.ID)
}

func TestDocumentService_Upload_RequiresActivity(t *testing.T) {
	t.Parallel()
	f := newDocumentFixture(t)

	f.projects.EXPECT().GetByID(gomock.Any(), int64(10)).Return(&model.Project{ID: 10, AlunoID: 1, OrientadorID: 2}, nil)
	f.activities.EXPECT().Count(gomock.Any(), gomock.Any()).Return(int64(0), nil)

	_, err := f.svc.Upload(context.Background(), student(1), UploadInput{ProjetoID: 10, FileName: "a.pdf", Body: strings.NewReader("x")})
	assert.True(t, apperrors.IsForbidden(err))
}

func TestDocumentService_Upload_NotOwned(t *testing.T) {
	t.Parallel()
	f := newDocumentFixture(t)

	f.projects.EXPECT().GetByID(gomock.Any(), int64(10)).Return(&model.Project{ID: 10, AlunoID: 99, OrientadorID: 2}, nil)

	_, err := f.svc.Upload(context.Background(), student(1), UploadInput{ProjetoID: 10, FileName: "a.pdf", Body: strings.NewReader("x")})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDocumentService_Upload_MissingFile(t *testing.T) {
	t.Parallel()
	f := newDocumentFixture(t)

	_, err := f.svc.Upload(context.Background(), student(1), UploadInput{ProjetoID: 10})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "arquivo", apperrors.GetField(err))
}

func TestDocumentService_Upload_RemovesFileWhenRecordFails(t *testing.T) {
	t.Parallel()
	f := newDocumentFixture(t)

	f.projects.EXPECT().GetByID(gomock.Any(), int64(10)).Return(&model.Project{ID: 10, AlunoID: 1, OrientadorID: 2}, nil)
	f.activities.EXPECT().Count(gomock.Any(), gomock.Any()).Return(int64(2), nil)
	f.files.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(core.StoredFile{Path: "projeto_10/x_a.pdf", Size: 1}, nil)
	f.documents.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("insert failed"))
	f.files.EXPECT().Remove(gomock.Any(), "projeto_10/x_a.pdf").Return(nil)

	_, err := f.svc.Upload(context.Background(), student(1), UploadInput{ProjetoID: 10, FileName: "a.pdf", Body: strings.NewReader("x")})
	require.Error(t, err)
}

func TestDocumentService_ListForProject(t *testing.T) {
	t.Parallel()
	f := newDocumentFixture(t)
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	f.projects.EXPECT().GetByID(gomock.Any(), int64(10)).Return(&model.Project{ID: 10, AlunoID: 1, OrientadorID: 2}, nil)
	f.documents.EXPECT().ListByProject(gomock.Any(), int64(10)).Return([]model.Document{
		{ID: 2, ProjetoID: 10, DataUpload: now},
		{ID: 1, ProjetoID: 10, DataUpload: now.Add(-time.Hour)},
	}, nil)
	f.comments.EXPECT().ListByProject(gomock.Any(), int64(10)).Return([]model.Comment{
		{ID: 1, DocumentoID: 1, Comentario: "a"},
		{ID: 2, DocumentoID: 1, Comentario: "b"},
	}, nil)

	docs, err := f.svc.ListForProject(context.Background(), advisor(2), 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, int64(2), docs[0].ID)
	assert.NotNil(t, docs[0].Comentarios)
	assert.Empty(t, docs[0].Comentarios)
	require.Len(t, docs[1].Comentarios, 2)
	assert.Equal(t, "a", docs[1].Comentarios[0].Comentario)
}

func TestDocumentService_ListForProject_Errors(t *testing.T) {
	t.Parallel()

	t.Run("other advisor", func(t *testing.T) {
		t.Parallel()
		f := newDocumentFixture(t)
		f.projects.EXPECT().GetByID(gomock.Any(), int64(10)).Return(&model.Project{ID: 10, AlunoID: 1, OrientadorID: 2}, nil)

		_, err := f.svc.ListForProject(context.Background(), advisor(3), 10)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("query failure", func(t *testing.T) {
		t.Parallel()
		f := newDocumentFixture(t)
		f.projects.EXPECT().GetByID(gomock.Any(), int64(10)).Return(&model.Project{ID: 10, AlunoID: 1, OrientadorID: 2}, nil)
		f.documents.EXPECT().ListByProject(gomock.Any(), int64(10)).Return(nil, errors.New("db down"))
		f.comments.EXPECT().ListByProject(gomock.Any(), int64(10)).Return(nil, nil).AnyTimes()

		_, err := f.svc.ListForProject(context.Background(), student(1), 10)
		require.Error(t, err)
	})
}

func TestDocumentService_Comment(t *testing.T) {
	t.Parallel()
	access := &model.DocumentAccess{DocumentoID: 5, ProjetoID: 10, AlunoID: 1, OrientadorID: 2}

	t.Run("advisor comments", func(t *testing.T) {
		t.Parallel()
		f := newDocumentFixture(t)
		f.documents.EXPECT().GetAccess(gomock.Any(), int64(5)).Return(access, nil)
		f.comments.EXPECT().Create(gomock.Any(), model.NewComment{
			DocumentoID: 5,
			UsuarioID:   2,
			UsuarioTipo: domainauth.RoleAdvisor,
			Comentario:  "Revisar a seção 2",
		}).Return(&model.Comment{ID: 8}, nil)

		c, err := f.svc.Comment(context.Background(), advisor(2), 5, &model.CreateCommentRequest{Comentario: " Revisar a seção 2 "})
		require.NoError(t, err)
		assert.Equal(t, int64(8), c.ID)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		t.Parallel()
		f := newDocumentFixture(t)
		f.documents.EXPECT().GetAccess(gomock.Any(), int64(5)).Return(access, nil)

		_, err := f.svc.Comment(context.Background(), student(7), 5, &model.CreateCommentRequest{Comentario: "oi"})
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("missing document", func(t *testing.T) {
		t.Parallel()
		f := newDocumentFixture(t)
		f.documents.EXPECT().GetAccess(gomock.Any(), int64(6)).Return(nil, apperrors.NotFound("Documento não encontrado"))

		_, err := f.svc.Comment(context.Background(), student(1), 6, &model.CreateCommentRequest{Comentario: "oi"})
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("empty comment", func(t *testing.T) {
		t.Parallel()
		f := newDocumentFixture(t)

		_, err := f.svc.Comment(context.Background(), student(1), 5, &model.CreateCommentRequest{Comentario: "  "})
		assert.True(t, apperrors.IsValidation(err))
	})
}
