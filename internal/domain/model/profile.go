//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxNameLen      = 255
	maxBiographyLen = 5000
	maxSemester     = 20
)

// UpdateStudentProfileRequest is the body of a student profile update.
type UpdateStudentProfileRequest struct {
	Nome               string   `json:"nome"`
	Telefone           *string  `json:"telefone"`
	DataNascimento     *string  `json:"data_nascimento"`
	Curso              *string  `json:"curso"`
	Semestre           *int     `json:"semestre"`
	Periodo            *string  `json:"periodo"`
	Biografia          *string  `json:"biografia"`
	InteressesPesquisa []string `json:"interesses_pesquisa"`
	LinkedinURL        *string  `json:"linkedin_url"`
	GithubURL          *string  `json:"github_url"`
}

// Validate checks and normalizes the request in place.
func (r *UpdateStudentProfileRequest) Validate() error {
	r.Nome = strings.TrimSpace(r.Nome)
	if r.Nome == "" {
		return errors.New("nome is required")
	}
	if utf8.RuneCountInString(r.Nome) > maxNameLen {
		return errors.New("nome is too long")
	}
	if r.Semestre != nil && (*r.Semestre < 1 || *r.Semestre > maxSemester) {
		return errors.New("semestre is out of range")
	}
	if r.DataNascimento != nil && *r.DataNascimento != "" {
		if _, err := time.Parse("2006-01-02", *r.DataNascimento); err != nil {
			return errors.New("data_nascimento must be YYYY-MM-DD")
		}
	}
	if r.Biografia != nil && utf8.RuneCountInString(*r.Biografia) > maxBiographyLen {
		return errors.New("biografia is too long")
	}
	r.InteressesPesquisa = cleanList(r.InteressesPesquisa)
	return nil
}

// UpdateAdvisorProfileRequest is the body of an advisor or admin profile update.
type UpdateAdvisorProfileRequest struct {
	Nome           string   `json:"nome"`
	Email          string   `json:"email"`
	Telefone       *string  `json:"telefone"`
	Titulacao      *string  `json:"titulacao"`
	LattesURL      *string  `json:"lattes_url"`
	Biografia      *string  `json:"biografia"`
	AreasInteresse []string `json:"areas_interesse"`
}

// Validate checks and normalizes the request in place.
func (r *UpdateAdvisorProfileRequest) Validate() error {
	r.Nome = strings.TrimSpace(r.Nome)
	r.Email = strings.TrimSpace(r.Email)
	if r.Nome == "" {
		return errors.New("nome is required")
	}
	if utf8.RuneCountInString(r.Nome) > maxNameLen {
		return errors.New("nome is too long")
	}
	if r.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("email is invalid")
	}
	if r.Biografia != nil && utf8.RuneCountInString(*r.Biografia) > maxBiographyLen {
		return errors.New("biografia is too long")
	}
	r.AreasInteresse = cleanList(r.AreasInteresse)
	return nil
}

// Profile is the "my profile" view; exactly one field is set.
type Profile struct {
	Student *Student
	Advisor *Advisor
	Admin   *Admin
}

// cleanList trims entries and drops blanks; it never returns nil.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// SplitList flattens comma-separated entries into individual trimmed values.
// Older rows stored interests as a single "a, b, c" string.
func SplitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
