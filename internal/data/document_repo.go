package data

import (
	"context"

	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

const documentColumns = `id, projeto_id, nome_arquivo, caminho_arquivo, tipo_arquivo, tamanho_arquivo,
	data_upload, comentario_aluno`

// DocumentRepo provides database operations for uploaded documents.
type DocumentRepo struct {
	pool         *pgxpool.Pool
	timeProvider TimeProvider
}

// NewDocumentRepo creates a new DocumentRepo with real time provider.
func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool, timeProvider: &RealTimeProvider{}}
}

// NewDocumentRepoWithTimeProvider creates a new DocumentRepo with a custom time provider (useful for tests).
func NewDocumentRepoWithTimeProvider(pool *pgxpool.Pool, tp TimeProvider) *DocumentRepo {
	return &DocumentRepo{pool: pool, timeProvider: tp}
}

// Create records a stored upload.
func (r *DocumentRepo) Create(ctx context.Context, in model.NewDocument) (*model.Document, error) {
	d, err := queryOne[model.Document](ctx, r.pool, `
		INSERT INTO documents (projeto_id, nome_arquivo, caminho_arquivo, tipo_arquivo, tamanho_arquivo, data_upload, comentario_aluno)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+documentColumns,
		in.ProjetoID, in.NomeArquivo, in.CaminhoArquivo, in.TipoArquivo, in.TamanhoArquivo,
		r.timeProvider.Now().UTC(), in.ComentarioAluno,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return d, nil
}

// ListByProject returns the project's documents, newest upload first.
func (r *DocumentRepo) ListByProject(ctx context.Context, projectID int64) ([]model.Document, error) {
	out, err := queryAll[model.Document](ctx, r.pool,
		`SELECT `+documentColumns+` FROM documents WHERE projeto_id = $1 ORDER BY data_upload DESC, id DESC`,
		projectID)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// GetAccess returns the owners of the project a document belongs to.
func (r *DocumentRepo) GetAccess(ctx context.Context, documentID int64) (*model.DocumentAccess, error) {
	a, err := queryOne[model.DocumentAccess](ctx, r.pool, `
		SELECT d.id, d.projeto_id, p.aluno_id, p.orientador_id
		FROM documents d
		JOIN projects p ON p.id = d.projeto_id
		WHERE d.id = $1`, documentID)
	if err != nil {
		return nil, mapErr(err, msgDocumentNotFound)
	}
	return a, nil
}
