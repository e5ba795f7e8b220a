// Package devseed loads demo advisors, students and a pending project into a
// development database.
package devseed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibmec/pict-api/internal/core"
	"github.com/ibmec/pict-api/internal/data"
	"github.com/ibmec/pict-api/internal/domain/model"
)

// Services bundles the repositories seeding writes through.
type Services struct {
	Students core.StudentRepository
	Advisors core.AdvisorRepository
	Projects core.ProjectRepository
	Now      func() time.Time
}

// NewServices constructs the repositories for seeding using the provided pool.
func NewServices(pool *pgxpool.Pool) Services {
	return Services{
		Students: data.NewStudentRepo(pool),
		Advisors: data.NewAdvisorRepo(pool),
		Projects: data.NewProjectRepo(pool),
		Now:      time.Now,
	}
}

var seedAdvisors = []model.NewAdvisor{
	{
		Nome:          "Marina Figueiredo",
		Email:         "marina.figueiredo@professores.ibmec.edu.br",
		AreaPesquisa:  "Finanças, Mercado de Capitais",
		Codigo:        "MARINAFIGU",
		Titulacao:     "Doutora",
		IsCoordenador: true,
	},
	{
		Nome:         "Ricardo Tavares",
		Email:        "ricardo.tavares@professores.ibmec.edu.br",
		AreaPesquisa: "Ciência de Dados",
		Codigo:       "RICARDOTAV",
		Titulacao:    "Mestre",
	},
}

var seedStudents = []model.NewStudent{
	{
		Nome:      "Ana Souza",
		Matricula: "ANASOUZA",
		Email:     "ana.souza@alunos.ibmec.edu.br",
		Curso:     "Economia",
		Semestre:  5,
		Status:    "Ativo",
	},
	{
		Nome:      "Bruno Lima",
		Matricula: "BRUNOLIMA",
		Email:     "bruno.lima@alunos.ibmec.edu.br",
		Curso:     "Engenharia de Computação",
		Semestre:  3,
		Status:    "Ativo",
	},
}

// Run seeds demo data. It is idempotent: records are matched by email and the
// demo project is only created when its student has none.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if svcs.Now != nil {
		now = svcs.Now
	}

	advisors := make([]*model.Advisor, 0, len(seedAdvisors))
	for _, in := range seedAdvisors {
		a, created, err := svcs.Advisors.CreateIfAbsent(ctx, in)
		if err != nil {
			return fmt.Errorf("seed advisor %s: %w", in.Email, err)
		}
		logger.InfoContext(ctx, "seeded advisor", "email", a.Email, "id", a.ID, "created", created)
		advisors = append(advisors, a)
	}

	students := make([]*model.Student, 0, len(seedStudents))
	for _, in := range seedStudents {
		s, created, err := svcs.Students.CreateIfAbsent(ctx, in)
		if err != nil {
			return fmt.Errorf("seed student %s: %w", in.Email, err)
		}
		logger.InfoContext(ctx, "seeded student", "email", s.Email, "id", s.ID, "created", created)
		students = append(students, s)
	}

	return seedPendingProject(ctx, svcs.Projects, advisors[0], students[0], now(), logger)
}

func seedPendingProject(ctx context.Context, projects core.ProjectRepository, advisor *model.Advisor, student *model.Student, at time.Time, logger *slog.Logger) error {
	existing, err := projects.List(ctx, model.ProjectFilter{AlunoID: student.ID})
	if err != nil {
		return fmt.Errorf("list student projects: %w", err)
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "demo project already present", "student_id", student.ID)
		return nil
	}

	p, err := projects.Create(ctx, model.NewProject{
		Codigo:        model.ProjectCode(at, advisor.ID, student.ID),
		Titulo:        "Determinantes do spread bancário no Brasil",
		Descricao:     "Projeto de demonstração criado pelo seed de desenvolvimento.",
		OrientadorID:  advisor.ID,
		AlunoID:       student.ID,
		DataSubmissao: at,
	})
	if err != nil {
		return fmt.Errorf("seed project: %w", err)
	}
	logger.InfoContext(ctx, "seeded pending project", "project_id", p.ID, "codigo", p.Codigo)
	return nil
}
