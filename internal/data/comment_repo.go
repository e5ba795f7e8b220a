package data

import (
	"context"

	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// commentAuthorJoin resolves the author name from the table matching usuario_tipo.
const commentAuthorJoin = `
	LEFT JOIN students s ON c.usuario_tipo = 'aluno' AND s.id = c.usuario_id
	LEFT JOIN advisors a ON c.usuario_tipo IN ('professor', 'admin') AND a.id = c.usuario_id`

// CommentRepo provides database operations for document comments.
type CommentRepo struct {
	pool         *pgxpool.Pool
	timeProvider TimeProvider
}

// NewCommentRepo creates a new CommentRepo with real time provider.
func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool, timeProvider: &RealTimeProvider{}}
}

// NewCommentRepoWithTimeProvider creates a new CommentRepo with a custom time provider (useful for tests).
func NewCommentRepoWithTimeProvider(pool *pgxpool.Pool, tp TimeProvider) *CommentRepo {
	return &CommentRepo{pool: pool, timeProvider: tp}
}

// Create stores a comment and returns it with the author name resolved.
func (r *CommentRepo) Create(ctx context.Context, in model.NewComment) (*model.Comment, error) {
	c, err := queryOne[model.Comment](ctx, r.pool, `
		WITH c AS (
			INSERT INTO comments (documento_id, usuario_id, usuario_tipo, comentario, data_comentario)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, documento_id, usuario_id, usuario_tipo, comentario, data_comentario
		)
		SELECT c.id, c.documento_id, c.usuario_id, c.usuario_tipo, c.comentario, c.data_comentario,
			COALESCE(s.nome, a.nome) AS usuario_nome
		FROM c`+commentAuthorJoin,
		in.DocumentoID, in.UsuarioID, string(in.UsuarioTipo), in.Comentario, r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return c, nil
}

// ListByProject returns every comment on the project's documents, oldest first.
func (r *CommentRepo) ListByProject(ctx context.Context, projectID int64) ([]model.Comment, error) {
	out, err := queryAll[model.Comment](ctx, r.pool, `
		SELECT c.id, c.documento_id, c.usuario_id, c.usuario_tipo, c.comentario, c.data_comentario,
			COALESCE(s.nome, a.nome) AS usuario_nome
		FROM comments c
		JOIN documents d ON d.id = c.documento_id`+commentAuthorJoin+`
		WHERE d.projeto_id = $1
		ORDER BY c.data_comentario ASC, c.id ASC`, projectID)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}
