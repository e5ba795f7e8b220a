package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/ibmec/pict-api/internal/core"
	"github.com/ibmec/pict-api/internal/domain/model"
	apperrors "github.com/ibmec/pict-api/internal/errors"
)

// UploadsURLPrefix is where stored files are served from.
const UploadsURLPrefix = "/uploads/"

// SettingsServiceOptions groups dependencies for SettingsService.
type SettingsServiceOptions struct {
	Store  core.SettingsStore
	Files  core.FileStore
	Now    func() time.Time
	Logger *slog.Logger
}

// SettingsService manages the enrollment window and the public site texts.
type SettingsService struct {
	store  core.SettingsStore
	files  core.FileStore
	now    func() time.Time
	logger *slog.Logger
}

// NewSettingsService constructs a new SettingsService.
func NewSettingsService(opts SettingsServiceOptions) *SettingsService {
	s := &SettingsService{store: opts.Store, files: opts.Files, now: opts.Now, logger: opts.Logger}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// EnrollmentStatus is the stored period plus whether it is open right now.
type EnrollmentStatus struct {
	model.EnrollmentPeriod
	Open bool `json:"periodo_aberto"`
}

// Enrollment returns the enrollment period and its current state.
func (s *SettingsService) Enrollment(ctx context.Context) (*EnrollmentStatus, error) {
	p, err := s.store.EnrollmentPeriod(ctx)
	if err != nil {
		return nil, err
	}
	return &EnrollmentStatus{EnrollmentPeriod: p, Open: p.IsOpen(s.now())}, nil
}

// SetEnrollment replaces the enrollment period.
func (s *SettingsService) SetEnrollment(ctx context.Context, p model.EnrollmentPeriod) (*EnrollmentStatus, error) {
	p.DataLimite = strings.TrimSpace(p.DataLimite)
	if err := p.Validate(); err != nil {
		return nil, apperrors.ValidationField("data_limite", err.Error())
	}
	if err := s.store.SaveEnrollmentPeriod(ctx, p); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "enrollment period updated", "data_limite", p.DataLimite, "aberto", p.Aberto)
	return &EnrollmentStatus{EnrollmentPeriod: p, Open: p.IsOpen(s.now())}, nil
}

// SetEnrollmentOpen flips the aberto flag and keeps the deadline.
func (s *SettingsService) SetEnrollmentOpen(ctx context.Context, open bool) (*EnrollmentStatus, error) {
	p, err := s.store.EnrollmentPeriod(ctx)
	if err != nil {
		return nil, err
	}
	p.Aberto = open
	return s.SetEnrollment(ctx, p)
}

// HomeTexts returns the landing page texts.
func (s *SettingsService) HomeTexts(ctx context.Context) (model.HomeTexts, error) {
	return s.store.HomeTexts(ctx)
}

// SaveHomeTexts replaces the landing page texts.
func (s *SettingsService) SaveHomeTexts(ctx context.Context, t model.HomeTexts) (model.HomeTexts, error) {
	t.Titulo = strings.TrimSpace(t.Titulo)
	t.Subtitulo = strings.TrimSpace(t.Subtitulo)
	t.TextoPict = strings.TrimSpace(t.TextoPict)
	if err := s.store.SaveHomeTexts(ctx, t); err != nil {
		return model.HomeTexts{}, err
	}
	return t, nil
}

// EditionsTexts returns the previous-editions page.
func (s *SettingsService) EditionsTexts(ctx context.Context) (model.EditionsTexts, error) {
	return s.store.EditionsTexts(ctx)
}

// SaveEditionsTexts replaces the whole previous-editions document.
func (s *SettingsService) SaveEditionsTexts(ctx context.Context, doc model.EditionsTexts) (model.EditionsTexts, error) {
	doc.Normalize()
	seen := make(map[string]struct{}, len(doc.Edicoes))
	for i := range doc.Edicoes {
		ed := &doc.Edicoes[i]
		if ed.Ano == "" {
			return model.EditionsTexts{}, apperrors.ValidationField("ano", "ano é obrigatório")
		}
		if _, dup := seen[ed.Ano]; dup {
			return model.EditionsTexts{}, apperrors.Conflictf("Edição %s duplicada", ed.Ano)
		}
		seen[ed.Ano] = struct{}{}
		for j := range ed.Projetos {
			if err := ed.Projetos[j].Validate(); err != nil {
				return model.EditionsTexts{}, apperrors.Validation(err.Error())
			}
		}
	}

	var saved model.EditionsTexts
	err := s.store.UpdateEditionsTexts(ctx, func(cur *model.EditionsTexts) error {
		*cur = doc
		saved = doc
		return nil
	})
	return saved, err
}

// AddEdition creates an empty edition for year.
func (s *SettingsService) AddEdition(ctx context.Context, year string) (model.EditionsTexts, error) {
	year = strings.TrimSpace(year)
	if year == "" {
		return model.EditionsTexts{}, apperrors.ValidationField("ano", "ano é obrigatório")
	}
	return s.updateEditions(ctx, func(doc *model.EditionsTexts) error {
		if doc.FindEdition(year) >= 0 {
			return apperrors.Conflictf("A edição %s já existe", year)
		}
		doc.Edicoes = append(doc.Edicoes, model.Edition{Ano: year, Projetos: []model.EditionProject{}})
		sort.SliceStable(doc.Edicoes, func(i, j int) bool { return doc.Edicoes[i].Ano > doc.Edicoes[j].Ano })
		return nil
	})
}

// RemoveEdition deletes the edition for year.
func (s *SettingsService) RemoveEdition(ctx context.Context, year string) (model.EditionsTexts, error) {
	return s.updateEditions(ctx, func(doc *model.EditionsTexts) error {
		i := doc.FindEdition(year)
		if i < 0 {
			return apperrors.NotFound("Edição não encontrada")
		}
		doc.Edicoes = append(doc.Edicoes[:i], doc.Edicoes[i+1:]...)
		return nil
	})
}

// EditionFile is an optional attachment for a showcased project.
type EditionFile struct {
	Name string
	Body io.Reader
}

// AddEditionProject appends a showcased project to an existing edition,
// storing its attachment first when one is given.
func (s *SettingsService) AddEditionProject(ctx context.Context, year string, p model.EditionProject, file *EditionFile) (model.EditionsTexts, error) {
	year = strings.TrimSpace(year)
	if err := p.Validate(); err != nil {
		return model.EditionsTexts{}, apperrors.Validation(err.Error())
	}

	current, err := s.store.EditionsTexts(ctx)
	if err != nil {
		return model.EditionsTexts{}, err
	}
	if current.FindEdition(year) < 0 {
		return model.EditionsTexts{}, apperrors.NotFound("Edição não encontrada")
	}

	var stored *core.StoredFile
	if file != nil && file.Body != nil && s.files != nil {
		sf, err := s.files.Save(ctx, path.Join("edicoes", sanitizeYear(year)), file.Name, file.Body)
		if err != nil {
			return model.EditionsTexts{}, fmt.Errorf("store edition file: %w", err)
		}
		stored = &sf
		p.Arquivo = UploadsURLPrefix + sf.Path
	}

	doc, err := s.updateEditions(ctx, func(doc *model.EditionsTexts) error {
		i := doc.FindEdition(year)
		if i < 0 {
			return apperrors.NotFound("Edição não encontrada")
		}
		doc.Edicoes[i].Projetos = append(doc.Edicoes[i].Projetos, p)
		return nil
	})
	if err != nil && stored != nil {
		if rmErr := s.files.Remove(ctx, stored.Path); rmErr != nil {
			s.logger.WarnContext(ctx, "orphaned edition file", "path", stored.Path, "error", rmErr)
		}
	}
	return doc, err
}

// RemoveEditionProject deletes the idx-th project of an edition.
func (s *SettingsService) RemoveEditionProject(ctx context.Context, year string, idx int) (model.EditionsTexts, error) {
	return s.updateEditions(ctx, func(doc *model.EditionsTexts) error {
		i := doc.FindEdition(year)
		if i < 0 {
			return apperrors.NotFound("Edição não encontrada")
		}
		projetos := doc.Edicoes[i].Projetos
		if idx < 0 || idx >= len(projetos) {
			return apperrors.NotFound("Projeto não encontrado")
		}
		doc.Edicoes[i].Projetos = append(projetos[:idx], projetos[idx+1:]...)
		return nil
	})
}

func (s *SettingsService) updateEditions(ctx context.Context, fn func(*model.EditionsTexts) error) (model.EditionsTexts, error) {
	var out model.EditionsTexts
	err := s.store.UpdateEditionsTexts(ctx, func(doc *model.EditionsTexts) error {
		if err := fn(doc); err != nil {
			return err
		}
		doc.Normalize()
		out = *doc
		return nil
	})
	if err != nil {
		return model.EditionsTexts{}, err
	}
	return out, nil
}

func sanitizeYear(year string) string {
	var b strings.Builder
	for _, r := range year {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "sem-ano"
	}
	return b.String()
}
