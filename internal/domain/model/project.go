//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxProjectTitleLen = 255
	maxDescriptionLen  = 10000
)

// ProjectStatus tracks a project through its approval lifecycle.
type ProjectStatus string

const (
	ProjectStatusPending ProjectStatus = "pendente"
	ProjectStatusActive  ProjectStatus = "ativo"
)

// Project is a research project proposed by a student to an advisor.
type Project struct {
	ID            int64         `json:"id"             db:"id"`
	Codigo        string        `json:"codigo"         db:"codigo"`
	Titulo        string        `json:"titulo"         db:"titulo"`
	Descricao     string        `json:"descricao"      db:"descricao"`
	AreaPesquisa  string        `json:"area_pesquisa"  db:"area_pesquisa"`
	PalavrasChave string        `json:"palavras_chave" db:"palavras_chave"`
	DataInicio    *time.Time    `json:"data_inicio"    db:"data_inicio"`
	DataFim       *time.Time    `json:"data_fim"       db:"data_fim"`
	OrientadorID  int64         `json:"orientador_id"  db:"orientador_id"`
	AlunoID       int64         `json:"aluno_id"       db:"aluno_id"`
	Status        ProjectStatus `json:"status"         db:"status"`
	Periodo       string        `json:"periodo"        db:"periodo"`
	DataSubmissao time.Time     `json:"data_submissao" db:"data_submissao"`
	DataAprovacao *time.Time    `json:"data_aprovacao" db:"data_aprovacao"`
}

// ProjectListing is a project joined with the names and document
// statistics shown on the dashboards.
type ProjectListing struct {
	Project
	OrientadorNome  string     `json:"orientador_nome"  db:"orientador_nome"`
	AlunoNome       string     `json:"aluno_nome"       db:"aluno_nome"`
	Matricula       string     `json:"matricula"        db:"matricula"`
	DocumentosCount int64      `json:"documentos_count" db:"documentos_count"`
	UltimaPostagem  *time.Time `json:"ultima_postagem"  db:"ultima_postagem"`
}

// ProjectFilter selects dashboard listings. Zero-valued fields are ignored.
type ProjectFilter struct {
	AlunoID      int64
	OrientadorID int64
	Status       ProjectStatus
}

// CreateProjectRequest is the body a student submits to propose a project.
type CreateProjectRequest struct {
	Titulo       string `json:"titulo"`
	Descricao    string `json:"descricao"`
	OrientadorID int64  `json:"orientador_id"`
}

// Normalize trims the free-text fields.
func (r *CreateProjectRequest) Normalize() {
	r.Titulo = strings.TrimSpace(r.Titulo)
	r.Descricao = strings.TrimSpace(r.Descricao)
}

// Validate checks required fields and bounds.
func (r *CreateProjectRequest) Validate() error {
	if r.Titulo == "" {
		return errors.New("titulo is required")
	}
	if utf8.RuneCountInString(r.Titulo) > maxProjectTitleLen {
		return fmt.Errorf("titulo must be at most %d characters", maxProjectTitleLen)
	}
	if utf8.RuneCountInString(r.Descricao) > maxDescriptionLen {
		return fmt.Errorf("descricao must be at most %d characters", maxDescriptionLen)
	}
	if r.OrientadorID <= 0 {
		return errors.New("orientador_id is required")
	}
	return nil
}

// NewProject carries a validated submission ready to persist.
type NewProject struct {
	Codigo        string
	Titulo        string
	Descricao     string
	OrientadorID  int64
	AlunoID       int64
	DataSubmissao time.Time
}

// ProjectCode builds the public project code: IC{year}{advisor:03d}{student:03d}.
func ProjectCode(submittedAt time.Time, advisorID, studentID int64) string {
	return fmt.Sprintf("IC%d%03d%03d", submittedAt.Year(), advisorID, studentID)
}
