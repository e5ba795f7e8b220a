package config

import (
	"path/filepath"
	"strings"
)

// StorageConfig locates files kept outside the database.
type StorageConfig struct {
	// UploadsDir receives document uploads, one subdirectory per project.
	UploadsDir string `env:"UPLOADS_DIR" envDefault:"uploads"`
	// DataDir holds the JSON side-files for enrollment and landing-page texts.
	DataDir string `env:"DATA_DIR" envDefault:"data"`
	// MaxUploadBytes caps multipart request bodies.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"33554432"`
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	if s.UploadsDir = strings.TrimSpace(s.UploadsDir); s.UploadsDir == "" {
		s.UploadsDir = "uploads"
	}
	if s.DataDir = strings.TrimSpace(s.DataDir); s.DataDir == "" {
		s.DataDir = "data"
	}
	s.UploadsDir = filepath.Clean(s.UploadsDir)
	s.DataDir = filepath.Clean(s.DataDir)
	if s.MaxUploadBytes <= 0 {
		s.MaxUploadBytes = 32 << 20
	}
}
