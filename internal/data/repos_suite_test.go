package data

import (
	"context"
	"testing"
	"time"

	"github.com/ibmec/pict-api/internal/core"
	"github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepoSuite exercises the repositories against a migrated database.
func runRepoSuite(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tp := NewFixedTimeProvider(now)

	students := NewStudentRepo(pool)
	advisors := NewAdvisorRepo(pool)
	admins := NewAdminRepo(pool)
	projects := NewProjectRepo(pool)
	documents := NewDocumentRepoWithTimeProvider(pool, tp)
	comments := NewCommentRepoWithTimeProvider(pool, tp)
	activities := NewActivityRepoWithTimeProvider(pool, tp)

	var (
		student *model.Student
		advisor *model.Advisor
		project *model.Project
		doc     *model.Document
	)

	t.Run("create identities idempotently", func(t *testing.T) {
		ctx := context.Background()
		var created bool
		var err error

		advisor, created, err = advisors.CreateIfAbsent(ctx, model.NewAdvisor{
			Nome: "Ana Souza", Email: "ana.souza@professores.ibmec.edu.br", Codigo: "ANASOUZA",
			AreaPesquisa: "Finanças", Titulacao: "Doutora",
		})
		require.NoError(t, err)
		assert.True(t, created)

		again, created, err := advisors.CreateIfAbsent(ctx, model.NewAdvisor{
			Nome: "Other", Email: "ANA.SOUZA@professores.ibmec.edu.br", Codigo: "OTHER",
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, advisor.ID, again.ID)

		student, created, err = students.CreateIfAbsent(ctx, model.NewStudent{
			Nome: "João Lima", Matricula: "JOAOLIMA", Email: "joao.lima@alunos.ibmec.edu.br",
			Curso: "Economia", Semestre: 1, Status: "Ativo",
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Empty(t, student.InteressesPesquisa)
	})

	t.Run("code collision reports conflicting field", func(t *testing.T) {
		_, _, err := students.CreateIfAbsent(context.Background(), model.NewStudent{
			Nome: "Homônimo", Matricula: "JOAOLIMA", Email: "joao.lima2@alunos.ibmec.edu.br", Semestre: 1,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, "matricula", apperrors.GetField(err))
	})

	t.Run("lookups", func(t *testing.T) {
		ctx := context.Background()
		got, err := students.GetByEmail(ctx, "Joao.Lima@alunos.ibmec.edu.br")
		require.NoError(t, err)
		assert.Equal(t, student.ID, got.ID)

		_, err = advisors.GetByID(ctx, 999999)
		assert.True(t, apperrors.IsNotFound(err))

		_, err = admins.GetByEmail(ctx, "nobody@ibmec.edu.br")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("project lifecycle", func(t *testing.T) {
		ctx := context.Background()
		var err error
		project, err = projects.Create(ctx, model.NewProject{
			Codigo: model.ProjectCode(now, advisor.ID, student.ID), Titulo: "Mercados", Descricao: "Estudo",
			OrientadorID: advisor.ID, AlunoID: student.ID, DataSubmissao: now,
		})
		require.NoError(t, err)
		assert.Equal(t, model.ProjectStatusPending, project.Status)

		pending, err := projects.List(ctx, model.ProjectFilter{OrientadorID: advisor.ID, Status: model.ProjectStatusPending})
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "João Lima", pending[0].AlunoNome)
		assert.Equal(t, "JOAOLIMA", pending[0].Matricula)
		assert.Zero(t, pending[0].DocumentosCount)

		ok, err := projects.Approve(ctx, project.ID, advisor.ID+1, now)
		require.NoError(t, err)
		assert.False(t, ok, "other advisors cannot approve")

		ok, err = projects.Approve(ctx, project.ID, advisor.ID, now)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = projects.Approve(ctx, project.ID, advisor.ID, now)
		require.NoError(t, err)
		assert.False(t, ok, "already active")

		linked, err := students.GetByID(ctx, student.ID)
		require.NoError(t, err)
		require.NotNil(t, linked.ProjetoID)
		assert.Equal(t, project.ID, *linked.ProjetoID)

		dir, err := advisors.Directory(ctx)
		require.NoError(t, err)
		require.Len(t, dir, 1)
		assert.Equal(t, int64(1), dir[0].ProjetosAtivos)
	})

	t.Run("activities gate", func(t *testing.T) {
		ctx := context.Background()
		key := core.ActivityKey{ProjetoID: project.ID, AlunoID: student.ID, ProfessorID: advisor.ID}

		n, err := activities.Count(ctx, key)
		require.NoError(t, err)
		assert.Zero(t, n)

		_, err = activities.Create(ctx, model.NewActivity{
			ProjetoID: project.ID, ProfessorID: advisor.ID, AlunoID: student.ID, Titulo: "Relatório parcial",
		})
		require.NoError(t, err)

		n, err = activities.Count(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		list, err := activities.ListByProject(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.True(t, list[0].DataCriacao.Equal(now))
	})

	t.Run("documents and comments", func(t *testing.T) {
		ctx := context.Background()
		var err error
		doc, err = documents.Create(ctx, model.NewDocument{
			ProjetoID: project.ID, NomeArquivo: "relatorio.pdf", CaminhoArquivo: "projeto_1/abc.pdf",
			TipoArquivo: "application/pdf", TamanhoArquivo: 1024,
		})
		require.NoError(t, err)

		access, err := documents.GetAccess(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, student.ID, access.AlunoID)
		assert.Equal(t, advisor.ID, access.OrientadorID)

		_, err = documents.GetAccess(ctx, doc.ID+1000)
		assert.True(t, apperrors.IsNotFound(err))

		c, err := comments.Create(ctx, model.NewComment{
			DocumentoID: doc.ID, UsuarioID: advisor.ID, UsuarioTipo: auth.RoleAdvisor, Comentario: "Bom começo",
		})
		require.NoError(t, err)
		require.NotNil(t, c.UsuarioNome)
		assert.Equal(t, "Ana Souza", *c.UsuarioNome)

		all, err := comments.ListByProject(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, auth.RoleAdvisor, all[0].UsuarioTipo)

		listing, err := projects.List(ctx, model.ProjectFilter{AlunoID: student.ID})
		require.NoError(t, err)
		require.Len(t, listing, 1)
		assert.Equal(t, int64(1), listing[0].DocumentosCount)
		require.NotNil(t, listing[0].UltimaPostagem)
	})

	t.Run("profile updates", func(t *testing.T) {
		ctx := context.Background()
		bio := "Pesquisadora"
		require.NoError(t, advisors.UpdateProfile(ctx, advisor.ID, &model.UpdateAdvisorProfileRequest{
			Nome: "Ana S. Souza", Email: advisor.Email, Biografia: &bio, AreasInteresse: []string{"ESG"},
		}))
		got, err := advisors.GetByID(ctx, advisor.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana S. Souza", got.Nome)
		assert.Equal(t, []string{"ESG"}, got.AreasInteresse)
		assert.Equal(t, "Doutora", got.Titulacao, "unset fields are preserved")

		sem := 3
		require.NoError(t, students.UpdateProfile(ctx, student.ID, &model.UpdateStudentProfileRequest{
			Nome: "João P. Lima", Semestre: &sem,
		}))
		s, err := students.GetByID(ctx, student.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, s.Semestre)
		assert.Equal(t, "Economia", s.Curso)

		err = students.UpdateProfile(ctx, 999999, &model.UpdateStudentProfileRequest{Nome: "x"})
		assert.True(t, apperrors.IsNotFound(err))

		a, err := admins.Upsert(ctx, "Coord@ibmec.edu.br", &model.UpdateAdvisorProfileRequest{Nome: "Coordenação"})
		require.NoError(t, err)
		assert.Equal(t, "coord@ibmec.edu.br", a.Email)

		a2, err := admins.Upsert(ctx, "coord@ibmec.edu.br", &model.UpdateAdvisorProfileRequest{Nome: "Coordenação PICT"})
		require.NoError(t, err)
		assert.Equal(t, a.ID, a2.ID)
		assert.Equal(t, "Coordenação PICT", a2.Nome)
	})
}
