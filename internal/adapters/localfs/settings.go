// Package localfs keeps the non-relational state on the local filesystem:
// the JSON settings side-files and uploaded documents.
package localfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ibmec/pict-api/internal/core"
	"github.com/ibmec/pict-api/internal/domain/model"
)

// Side-file names inside the data directory.
const (
	EnrollmentFile = "inscricao_periodo.json"
	HomeTextsFile  = "home_texts.json"
	EditionsFile   = "edicoes_texts.json"
)

var _ core.SettingsStore = (*SettingsStore)(nil)

// DefaultEnrollmentPeriod is served until an admin saves one.
var DefaultEnrollmentPeriod = model.EnrollmentPeriod{Aberto: true}

// DefaultHomeTexts is served until an admin saves the landing page texts.
var DefaultHomeTexts = model.HomeTexts{
	Titulo:    "Programa de Iniciação Científica e Tecnológica",
	Subtitulo: "IBMEC",
	TextoPict: "O PICT aproxima alunos e professores em projetos de pesquisa ao longo do semestre.",
}

// DefaultEditionsTexts is served until an admin saves the editions page.
var DefaultEditionsTexts = model.EditionsTexts{
	Titulo:    "Edições anteriores",
	Subtitulo: "Projetos desenvolvidos nas edições passadas do PICT",
	Edicoes:   []model.Edition{},
}

// SettingsStore reads and writes the JSON side-files under one directory.
// Writes go through a temp file and rename so readers never see a partial document.
type SettingsStore struct {
	dir string
	mu  sync.Mutex
}

// NewSettingsStore creates dir if needed and returns a store rooted there.
func NewSettingsStore(dir string) (*SettingsStore, error) {
	if dir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &SettingsStore{dir: dir}, nil
}

func (s *SettingsStore) EnrollmentPeriod(_ context.Context) (model.EnrollmentPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := DefaultEnrollmentPeriod
	err := s.load(EnrollmentFile, &out)
	return out, err
}

func (s *SettingsStore) SaveEnrollmentPeriod(_ context.Context, p model.EnrollmentPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(EnrollmentFile, p)
}

func (s *SettingsStore) HomeTexts(_ context.Context) (model.HomeTexts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := DefaultHomeTexts
	err := s.load(HomeTextsFile, &out)
	return out, err
}

func (s *SettingsStore) SaveHomeTexts(_ context.Context, t model.HomeTexts) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(HomeTextsFile, t)
}

func (s *SettingsStore) EditionsTexts(_ context.Context) (model.EditionsTexts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadEditions()
}

// UpdateEditionsTexts holds the store lock across read, fn and write.
func (s *SettingsStore) UpdateEditionsTexts(ctx context.Context, fn func(*model.EditionsTexts) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadEditions()
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	doc.Normalize()
	return s.save(EditionsFile, doc)
}

func (s *SettingsStore) loadEditions() (model.EditionsTexts, error) {
	out := model.EditionsTexts{Titulo: DefaultEditionsTexts.Titulo, Subtitulo: DefaultEditionsTexts.Subtitulo}
	if err := s.load(EditionsFile, &out); err != nil {
		return model.EditionsTexts{}, err
	}
	out.Normalize()
	return out, nil
}

// load decodes the named file into dst. A missing or empty file leaves dst untouched.
func (s *SettingsStore) load(name string, dst any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *SettingsStore) save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
