//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Activity is a deliverable an advisor opens on a project. Students may
// only upload documents once at least one exists.
type Activity struct {
	ID          int64     `json:"id"           db:"id"`
	ProjetoID   int64     `json:"projeto_id"   db:"projeto_id"`
	ProfessorID int64     `json:"professor_id" db:"professor_id"`
	AlunoID     int64     `json:"aluno_id"     db:"aluno_id"`
	Titulo      string    `json:"titulo"       db:"titulo"`
	Descricao   string    `json:"descricao"    db:"descricao"`
	DataCriacao time.Time `json:"data_criacao" db:"data_criacao"`
}

// CreateActivityRequest is the body an advisor submits to open a deliverable.
type CreateActivityRequest struct {
	Titulo    string `json:"titulo"`
	Descricao string `json:"descricao"`
}

// Validate checks required fields and bounds.
func (r *CreateActivityRequest) Validate() error {
	r.Titulo = strings.TrimSpace(r.Titulo)
	r.Descricao = strings.TrimSpace(r.Descricao)
	if r.Titulo == "" {
		return errors.New("titulo is required")
	}
	if utf8.RuneCountInString(r.Titulo) > maxProjectTitleLen {
		return errors.New("titulo is too long")
	}
	if utf8.RuneCountInString(r.Descricao) > maxDescriptionLen {
		return errors.New("descricao is too long")
	}
	return nil
}

// NewActivity is a validated activity ready to persist.
type NewActivity struct {
	ProjetoID   int64
	ProfessorID int64
	AlunoID     int64
	Titulo      string
	Descricao   string
}
