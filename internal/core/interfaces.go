package core

import (
	"context"
	"io"
	"time"

	"github.com/ibmec/pict-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.
//
// Lookups that find nothing return an AppError with code not_found.

// StudentRepository defines the interface for student record operations.
type StudentRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Student, error)
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	// CreateIfAbsent inserts the record unless one with the same email exists.
	// created is false when an existing row was returned instead.
	CreateIfAbsent(ctx context.Context, in model.NewStudent) (s *model.Student, created bool, err error)
	UpdateProfile(ctx context.Context, id int64, req *model.UpdateStudentProfileRequest) error
}

// AdvisorRepository defines the interface for advisor record operations.
type AdvisorRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Advisor, error)
	GetByEmail(ctx context.Context, email string) (*model.Advisor, error)
	// CreateIfAbsent inserts the record unless one with the same email exists.
	CreateIfAbsent(ctx context.Context, in model.NewAdvisor) (a *model.Advisor, created bool, err error)
	UpdateProfile(ctx context.Context, id int64, req *model.UpdateAdvisorProfileRequest) error
	Directory(ctx context.Context) ([]model.AdvisorDirectoryEntry, error)
}

// AdminRepository defines the interface for the admin profile table.
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	// Upsert writes the profile for the admin identified by loginEmail.
	Upsert(ctx context.Context, loginEmail string, req *model.UpdateAdvisorProfileRequest) (*model.Admin, error)
}

// ProjectRepository defines the interface for research project operations.
type ProjectRepository interface {
	Create(ctx context.Context, in model.NewProject) (*model.Project, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	List(ctx context.Context, filter model.ProjectFilter) ([]model.ProjectListing, error)
	// Approve activates a pending project owned by advisorID. It reports
	// false when no such project exists.
	Approve(ctx context.Context, id, advisorID int64, at time.Time) (bool, error)
}

// DocumentRepository defines the interface for uploaded document records.
type DocumentRepository interface {
	Create(ctx context.Context, in model.NewDocument) (*model.Document, error)
	ListByProject(ctx context.Context, projectID int64) ([]model.Document, error)
	GetAccess(ctx context.Context, documentID int64) (*model.DocumentAccess, error)
}

// CommentRepository defines the interface for document comments.
type CommentRepository interface {
	Create(ctx context.Context, in model.NewComment) (*model.Comment, error)
	// ListByProject returns every comment on the project's documents, oldest first.
	ListByProject(ctx context.Context, projectID int64) ([]model.Comment, error)
}

// ActivityRepository defines the interface for advisor-created deliverables.
type ActivityRepository interface {
	Create(ctx context.Context, in model.NewActivity) (*model.Activity, error)
	ListByProject(ctx context.Context, projectID int64) ([]model.Activity, error)
	Count(ctx context.Context, key ActivityKey) (int64, error)
}

// ActivityKey identifies the activities that unlock uploads for a student.
type ActivityKey struct {
	ProjetoID   int64
	AlunoID     int64
	ProfessorID int64
}

// SettingsStore persists the non-relational settings documents.
type SettingsStore interface {
	EnrollmentPeriod(ctx context.Context) (model.EnrollmentPeriod, error)
	SaveEnrollmentPeriod(ctx context.Context, p model.EnrollmentPeriod) error
	HomeTexts(ctx context.Context) (model.HomeTexts, error)
	SaveHomeTexts(ctx context.Context, t model.HomeTexts) error
	EditionsTexts(ctx context.Context) (model.EditionsTexts, error)
	// UpdateEditionsTexts runs fn on the current document and saves the
	// result when fn returns nil. Concurrent updates are serialized.
	UpdateEditionsTexts(ctx context.Context, fn func(*model.EditionsTexts) error) error
}

// StoredFile describes a file written by a FileStore.
type StoredFile struct {
	// Path is relative to the store root and uses forward slashes.
	Path string
	Size int64
}

// FileStore writes uploaded files.
type FileStore interface {
	Save(ctx context.Context, dir, name string, r io.Reader) (StoredFile, error)
	Remove(ctx context.Context, path string) error
}

// Clock abstracts time for services.
type Clock interface {
	Now() time.Time
}
