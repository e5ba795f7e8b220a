//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ibmec/pict-api/internal/domain/auth"
)

const maxCommentLen = 5000

// Document is a file a student uploaded to a project.
type Document struct {
	ID              int64     `json:"id"               db:"id"`
	ProjetoID       int64     `json:"projeto_id"       db:"projeto_id"`
	NomeArquivo     string    `json:"nome_arquivo"     db:"nome_arquivo"`
	CaminhoArquivo  string    `json:"caminho_arquivo"  db:"caminho_arquivo"`
	TipoArquivo     string    `json:"tipo_arquivo"     db:"tipo_arquivo"`
	TamanhoArquivo  int64     `json:"tamanho_arquivo"  db:"tamanho_arquivo"`
	DataUpload      time.Time `json:"data_upload"      db:"data_upload"`
	ComentarioAluno string    `json:"comentario_aluno" db:"comentario_aluno"`
}

// DocumentWithComments is a document together with its comment thread.
type DocumentWithComments struct {
	Document
	Comentarios []Comment `json:"comentarios"`
}

// NewDocument describes a stored upload ready to be recorded.
type NewDocument struct {
	ProjetoID       int64
	NomeArquivo     string
	CaminhoArquivo  string
	TipoArquivo     string
	TamanhoArquivo  int64
	ComentarioAluno string
}

// DocumentAccess is the ownership information needed to authorize comments.
type DocumentAccess struct {
	DocumentoID  int64 `db:"id"`
	ProjetoID    int64 `db:"projeto_id"`
	AlunoID      int64 `db:"aluno_id"`
	OrientadorID int64 `db:"orientador_id"`
}

// Comment is a note left on a document by a student or advisor.
type Comment struct {
	ID             int64     `json:"id"              db:"id"`
	DocumentoID    int64     `json:"documento_id"    db:"documento_id"`
	UsuarioID      int64     `json:"usuario_id"      db:"usuario_id"`
	UsuarioTipo    auth.Role `json:"usuario_tipo"    db:"usuario_tipo"`
	Comentario     string    `json:"comentario"      db:"comentario"`
	DataComentario time.Time `json:"data_comentario" db:"data_comentario"`
	UsuarioNome    *string   `json:"usuario_nome"    db:"usuario_nome"`
}

// CreateCommentRequest is the body of a comment submission.
type CreateCommentRequest struct {
	Comentario string `json:"comentario"`
}

// Validate checks the comment text.
func (r *CreateCommentRequest) Validate() error {
	r.Comentario = strings.TrimSpace(r.Comentario)
	if r.Comentario == "" {
		return errors.New("comentario is required")
	}
	if utf8.RuneCountInString(r.Comentario) > maxCommentLen {
		return errors.New("comentario is too long")
	}
	return nil
}

// NewComment is a validated comment ready to persist.
type NewComment struct {
	DocumentoID int64
	UsuarioID   int64
	UsuarioTipo auth.Role
	Comentario  string
}
