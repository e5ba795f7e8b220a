package data

import (
	"context"
	"errors"
	"time"

	"github.com/ibmec/pict-api/internal/data/database"
	"github.com/ibmec/pict-api/internal/data/pgxutil"
	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectColumns = `id, codigo, titulo, descricao, area_pesquisa, palavras_chave, data_inicio, data_fim,
	orientador_id, aluno_id, status, periodo, data_submissao, data_aprovacao`

// ProjectRepo provides database operations for research projects.
type ProjectRepo struct {
	pool *pgxpool.Pool
}

// NewProjectRepo creates a new ProjectRepo.
func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

// Create inserts a pending project.
func (r *ProjectRepo) Create(ctx context.Context, in model.NewProject) (*model.Project, error) {
	p, err := queryOne[model.Project](ctx, r.pool, `
		INSERT INTO projects (codigo, titulo, descricao, orientador_id, aluno_id, status, data_submissao)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+projectColumns,
		in.Codigo, in.Titulo, in.Descricao, in.OrientadorID, in.AlunoID, string(model.ProjectStatusPending), in.DataSubmissao,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return p, nil
}

// GetByID retrieves a project by ID.
func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	p, err := queryOne[model.Project](ctx, r.pool,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	if err != nil {
		return nil, mapErr(err, msgProjectNotFound)
	}
	return p, nil
}

// List returns dashboard listings matching filter, newest submission first.
func (r *ProjectRepo) List(ctx context.Context, filter model.ProjectFilter) ([]model.ProjectListing, error) {
	query, args := database.BuildListQuery(buildProjectListOptions(filter))
	out, err := queryAll[model.ProjectListing](ctx, r.pool, query, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

func buildProjectListOptions(filter model.ProjectFilter) *database.ListQueryOptions {
	opts := []database.ListQueryOption{
		database.WithOrderBy("data_submissao", "DESC"),
		database.WithOrderBy("id", "DESC"),
	}
	if filter.AlunoID > 0 {
		opts = append(opts, database.WithCondition(database.WhereCond("aluno_id", database.Equal, filter.AlunoID)))
	}
	if filter.OrientadorID > 0 {
		opts = append(opts, database.WithCondition(database.WhereCond("orientador_id", database.Equal, filter.OrientadorID)))
	}
	if filter.Status != "" {
		opts = append(opts, database.WithCondition(database.WhereCond("status", database.Equal, string(filter.Status))))
	}
	return database.NewListQueryOptions("project_listings", opts...)
}

// Approve activates a pending project supervised by advisorID and links the
// student to it. It reports false when no matching pending project exists.
func (r *ProjectRepo) Approve(ctx context.Context, id, advisorID int64, at time.Time) (bool, error) {
	approved := false
	err := pgxutil.WithTx(ctx, r.pool, pgxutil.TxConfig{
		Opts: pgx.TxOptions{},
		Fn: func(tx pgx.Tx) error {
			var alunoID int64
			err := tx.QueryRow(ctx, `
				UPDATE projects
				SET status = $3, data_aprovacao = $4, data_inicio = COALESCE(data_inicio, $4)
				WHERE id = $1 AND orientador_id = $2 AND status = $5
				RETURNING aluno_id`,
				id, advisorID, string(model.ProjectStatusActive), at, string(model.ProjectStatusPending),
			).Scan(&alunoID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil
				}
				return err
			}
			if _, err := tx.Exec(ctx,
				`UPDATE students SET projeto_id = $1, orientador_id = $2 WHERE id = $3`,
				id, advisorID, alunoID,
			); err != nil {
				return err
			}
			approved = true
			return nil
		},
	})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return approved, nil
}
