package data

import (
	"context"
	"strings"

	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

const adminColumns = `id, nome, email, telefone, titulacao, lattes_url, biografia, areas_interesse, created_at`

// AdminRepo stores the editable admin profiles.
type AdminRepo struct {
	pool *pgxpool.Pool
}

// NewAdminRepo creates a new AdminRepo.
func NewAdminRepo(pool *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{pool: pool}
}

// GetByEmail retrieves an admin profile by email (case-insensitive).
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	a, err := queryOne[model.Admin](ctx, r.pool,
		`SELECT `+adminColumns+` FROM admins WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
	if err != nil {
		return nil, mapErr(err, msgAdminNotFound)
	}
	return a, nil
}

// Upsert creates or replaces the profile keyed by loginEmail. The row stays
// keyed by the login email so later lookups from the session still find it.
func (r *AdminRepo) Upsert(ctx context.Context, loginEmail string, req *model.UpdateAdvisorProfileRequest) (*model.Admin, error) {
	if req == nil {
		return nil, apperrors.Validation("profile update is required")
	}
	a, err := queryOne[model.Admin](ctx, r.pool, `
		INSERT INTO admins (email, nome, telefone, titulacao, lattes_url, biografia, areas_interesse)
		VALUES (lower($1), $2, COALESCE($3, ''), COALESCE($4, ''), COALESCE($5, ''), COALESCE($6, ''), COALESCE($7, '{}'::text[]))
		ON CONFLICT (email) DO UPDATE SET
			nome            = EXCLUDED.nome,
			telefone        = COALESCE($3, admins.telefone),
			titulacao       = COALESCE($4, admins.titulacao),
			lattes_url      = COALESCE($5, admins.lattes_url),
			biografia       = COALESCE($6, admins.biografia),
			areas_interesse = COALESCE($7, admins.areas_interesse)
		RETURNING `+adminColumns,
		strings.TrimSpace(loginEmail), req.Nome, req.Telefone, req.Titulacao, req.LattesURL, req.Biografia, req.AreasInteresse,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return a, nil
}
