package data

import (
	"context"

	"github.com/ibmec/pict-api/internal/core"
	"github.com/ibmec/pict-api/internal/data/database"
	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

const activityColumns = `id, projeto_id, professor_id, aluno_id, titulo, descricao, data_criacao`

// ActivityRepo provides database operations for advisor-created activities.
type ActivityRepo struct {
	pool         *pgxpool.Pool
	timeProvider TimeProvider
}

// NewActivityRepo creates a new ActivityRepo with real time provider.
func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool, timeProvider: &RealTimeProvider{}}
}

// NewActivityRepoWithTimeProvider creates a new ActivityRepo with a custom time provider (useful for tests).
func NewActivityRepoWithTimeProvider(pool *pgxpool.Pool, tp TimeProvider) *ActivityRepo {
	return &ActivityRepo{pool: pool, timeProvider: tp}
}

// Create stores an activity.
func (r *ActivityRepo) Create(ctx context.Context, in model.NewActivity) (*model.Activity, error) {
	a, err := queryOne[model.Activity](ctx, r.pool, `
		INSERT INTO activities (projeto_id, professor_id, aluno_id, titulo, descricao, data_criacao)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+activityColumns,
		in.ProjetoID, in.ProfessorID, in.AlunoID, in.Titulo, in.Descricao, r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return a, nil
}

// ListByProject returns the project's activities, newest first.
func (r *ActivityRepo) ListByProject(ctx context.Context, projectID int64) ([]model.Activity, error) {
	out, err := queryAll[model.Activity](ctx, r.pool,
		`SELECT `+activityColumns+` FROM activities WHERE projeto_id = $1 ORDER BY data_criacao DESC, id DESC`,
		projectID)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// Count returns how many activities exist for the project, student and advisor triple.
func (r *ActivityRepo) Count(ctx context.Context, key core.ActivityKey) (int64, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("activities",
		database.WithCountOnly(),
		database.WithCondition(database.WhereCond("projeto_id", database.Equal, key.ProjetoID)),
		database.WithCondition(database.WhereCond("aluno_id", database.Equal, key.AlunoID)),
		database.WithCondition(database.WhereCond("professor_id", database.Equal, key.ProfessorID)),
	))
	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return n, nil
}
