package data

import (
	"context"
	"errors"
	"strings"

	"github.com/ibmec/pict-api/internal/data/database"
	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const advisorColumns = `id, nome, email, telefone, area_pesquisa, codigo, titulacao, lattes_url,
	is_coordenador, biografia, areas_interesse, created_at`

// AdvisorRepo provides database operations for advisor records.
type AdvisorRepo struct {
	pool *pgxpool.Pool
}

// NewAdvisorRepo creates a new AdvisorRepo.
func NewAdvisorRepo(pool *pgxpool.Pool) *AdvisorRepo {
	return &AdvisorRepo{pool: pool}
}

// GetByID retrieves an advisor by ID.
func (r *AdvisorRepo) GetByID(ctx context.Context, id int64) (*model.Advisor, error) {
	a, err := queryOne[model.Advisor](ctx, r.pool,
		`SELECT `+advisorColumns+` FROM advisors WHERE id = $1`, id)
	if err != nil {
		return nil, mapErr(err, msgAdvisorNotFound)
	}
	return a, nil
}

// GetByEmail retrieves an advisor by email (case-insensitive).
func (r *AdvisorRepo) GetByEmail(ctx context.Context, email string) (*model.Advisor, error) {
	a, err := queryOne[model.Advisor](ctx, r.pool,
		`SELECT `+advisorColumns+` FROM advisors WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
	if err != nil {
		return nil, mapErr(err, msgAdvisorNotFound)
	}
	return a, nil
}

// CreateIfAbsent inserts an advisor unless one with the same email already
// exists. A codigo collision surfaces as a conflict on field "codigo".
func (r *AdvisorRepo) CreateIfAbsent(ctx context.Context, in model.NewAdvisor) (*model.Advisor, bool, error) {
	a, err := queryOne[model.Advisor](ctx, r.pool, `
		INSERT INTO advisors (nome, email, telefone, area_pesquisa, codigo, titulacao, lattes_url, is_coordenador)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO NOTHING
		RETURNING `+advisorColumns,
		in.Nome, strings.TrimSpace(in.Email), in.Telefone, in.AreaPesquisa, in.Codigo, in.Titulacao,
		in.LattesURL, in.IsCoordenador,
	)
	switch {
	case err == nil:
		return a, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		existing, gerr := r.GetByEmail(ctx, in.Email)
		return existing, false, gerr
	default:
		return nil, false, apperrors.MapDBError(err)
	}
}

// UpdateProfile applies an advisor profile edit. Nil fields are left untouched.
func (r *AdvisorRepo) UpdateProfile(ctx context.Context, id int64, req *model.UpdateAdvisorProfileRequest) error {
	if req == nil {
		return apperrors.Validation("profile update is required")
	}
	n, err := exec(ctx, r.pool, `
		UPDATE advisors SET
			nome            = $2,
			email           = lower($3),
			telefone        = COALESCE($4, telefone),
			titulacao       = COALESCE($5, titulacao),
			lattes_url      = COALESCE($6, lattes_url),
			biografia       = COALESCE($7, biografia),
			areas_interesse = COALESCE($8, areas_interesse)
		WHERE id = $1`,
		id, req.Nome, req.Email, req.Telefone, req.Titulacao, req.LattesURL, req.Biografia, req.AreasInteresse,
	)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n == 0 {
		return apperrors.NotFound(msgAdvisorNotFound)
	}
	return nil
}

// Directory lists every advisor with the number of active projects they supervise.
func (r *AdvisorRepo) Directory(ctx context.Context) ([]model.AdvisorDirectoryEntry, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("advisor_directory",
		database.WithColumns("id", "nome", "email", "area_pesquisa", "titulacao", "areas_interesse", "projetos_ativos"),
		database.WithOrderBy("nome", "ASC"),
	))
	out, err := queryAll[model.AdvisorDirectoryEntry](ctx, r.pool, query, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}
