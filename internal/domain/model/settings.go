//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// EnrollmentPeriod controls whether students may submit new projects.
type EnrollmentPeriod struct {
	// DataLimite is the deadline as typed in the admin panel; empty means no deadline.
	DataLimite string `json:"data_limite"`
	Aberto     bool   `json:"aberto"`
}

// deadlineLayouts are the forms the admin panel and API clients send.
var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Deadline parses DataLimite. ok is false when there is no deadline.
// Date-only values count as the end of that day.
func (p EnrollmentPeriod) Deadline(loc *time.Location) (deadline time.Time, ok bool, err error) {
	raw := strings.TrimSpace(p.DataLimite)
	if raw == "" {
		return time.Time{}, false, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range deadlineLayouts {
		t, perr := time.ParseInLocation(layout, raw, loc)
		if perr != nil {
			continue
		}
		if layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, true, nil
	}
	return time.Time{}, false, errors.New("data_limite has an unrecognized date format")
}

// IsOpen reports whether submissions are accepted at now. The period is
// open only when Aberto is set and the deadline, if any, has not passed.
func (p EnrollmentPeriod) IsOpen(now time.Time) bool {
	if !p.Aberto {
		return false
	}
	deadline, ok, err := p.Deadline(now.Location())
	if err != nil {
		return false
	}
	return !ok || now.Before(deadline)
}

// Validate rejects deadlines that cannot be parsed.
func (p EnrollmentPeriod) Validate() error {
	_, _, err := p.Deadline(time.UTC)
	return err
}

// HomeTexts are the editable texts of the public landing page.
type HomeTexts struct {
	Titulo    string `json:"titulo"`
	Subtitulo string `json:"subtitulo"`
	TextoPict string `json:"texto_pict"`
}

// EditionsTexts is the "previous editions" page content.
type EditionsTexts struct {
	Titulo    string    `json:"titulo"`
	Subtitulo string    `json:"subtitulo"`
	Edicoes   []Edition `json:"edicoes"`
}

// Edition is one past year of the program.
type Edition struct {
	Ano      string           `json:"ano"`
	Projetos []EditionProject `json:"projetos"`
}

// EditionProject is a showcased project from a past edition.
type EditionProject struct {
	Titulo     string `json:"titulo"`
	Aluno      string `json:"aluno"`
	Orientador string `json:"orientador"`
	Arquivo    string `json:"arquivo"`
}

// Validate checks required showcase fields.
func (p *EditionProject) Validate() error {
	p.Titulo = strings.TrimSpace(p.Titulo)
	p.Aluno = strings.TrimSpace(p.Aluno)
	p.Orientador = strings.TrimSpace(p.Orientador)
	if p.Titulo == "" || p.Aluno == "" || p.Orientador == "" {
		return errors.New("titulo, aluno and orientador are required")
	}
	return nil
}

// FindEdition returns the index of the edition for year, or -1.
func (e *EditionsTexts) FindEdition(year string) int {
	year = strings.TrimSpace(year)
	for i := range e.Edicoes {
		if e.Edicoes[i].Ano == year {
			return i
		}
	}
	return -1
}

// Normalize replaces nil slices so the JSON form always has arrays.
func (e *EditionsTexts) Normalize() {
	if e.Edicoes == nil {
		e.Edicoes = []Edition{}
	}
	for i := range e.Edicoes {
		e.Edicoes[i].Ano = strings.TrimSpace(e.Edicoes[i].Ano)
		if e.Edicoes[i].Projetos == nil {
			e.Edicoes[i].Projetos = []EditionProject{}
		}
	}
}
