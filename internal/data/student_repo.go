package data

import (
	"context"
	"errors"
	"strings"

	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const studentColumns = `id, nome, matricula, email, data_nascimento, telefone, curso, semestre, periodo,
	projeto_id, orientador_id, status, biografia, interesses_pesquisa, linkedin_url, github_url, created_at`

// StudentRepo provides database operations for student records.
type StudentRepo struct {
	pool *pgxpool.Pool
}

// NewStudentRepo creates a new StudentRepo.
func NewStudentRepo(pool *pgxpool.Pool) *StudentRepo {
	return &StudentRepo{pool: pool}
}

// GetByID retrieves a student by ID.
func (r *StudentRepo) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	s, err := queryOne[model.Student](ctx, r.pool,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	if err != nil {
		return nil, mapErr(err, msgStudentNotFound)
	}
	return s, nil
}

// GetByEmail retrieves a student by email (case-insensitive).
func (r *StudentRepo) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	s, err := queryOne[model.Student](ctx, r.pool,
		`SELECT `+studentColumns+` FROM students WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
	if err != nil {
		return nil, mapErr(err, msgStudentNotFound)
	}
	return s, nil
}

// CreateIfAbsent inserts a student unless one with the same email already
// exists, in which case the existing row is returned with created=false.
// A matricula collision surfaces as a conflict on field "matricula".
func (r *StudentRepo) CreateIfAbsent(ctx context.Context, in model.NewStudent) (*model.Student, bool, error) {
	s, err := queryOne[model.Student](ctx, r.pool, `
		INSERT INTO students (nome, matricula, email, telefone, curso, semestre, status)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7)
		ON CONFLICT (email) DO NOTHING
		RETURNING `+studentColumns,
		in.Nome, in.Matricula, strings.TrimSpace(in.Email), in.Telefone, in.Curso, in.Semestre, in.Status,
	)
	switch {
	case err == nil:
		return s, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		existing, gerr := r.GetByEmail(ctx, in.Email)
		return existing, false, gerr
	default:
		return nil, false, apperrors.MapDBError(err)
	}
}

// UpdateProfile applies a student profile edit. Nil fields are left untouched.
func (r *StudentRepo) UpdateProfile(ctx context.Context, id int64, req *model.UpdateStudentProfileRequest) error {
	if req == nil {
		return apperrors.Validation("profile update is required")
	}
	n, err := exec(ctx, r.pool, `
		UPDATE students SET
			nome                = $2,
			telefone            = COALESCE($3, telefone),
			data_nascimento     = COALESCE($4, data_nascimento),
			curso               = COALESCE($5, curso),
			semestre            = COALESCE($6, semestre),
			periodo             = COALESCE($7, periodo),
			biografia           = COALESCE($8, biografia),
			interesses_pesquisa = COALESCE($9, interesses_pesquisa),
			linkedin_url        = COALESCE($10, linkedin_url),
			github_url          = COALESCE($11, github_url)
		WHERE id = $1`,
		id, req.Nome, req.Telefone, req.DataNascimento, req.Curso, req.Semestre, req.Periodo,
		req.Biografia, req.InteressesPesquisa, req.LinkedinURL, req.GithubURL,
	)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n == 0 {
		return apperrors.NotFound(msgStudentNotFound)
	}
	return nil
}
