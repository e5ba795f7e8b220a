// Package mocks provides mock implementations for testing the PICT services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockProjectRepository(ctrl)
//	mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(project, nil)
package mocks

// Identity records.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=student_repository_mock.go github.com/ibmec/pict-api/internal/core StudentRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=advisor_repository_mock.go github.com/ibmec/pict-api/internal/core AdvisorRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=admin_repository_mock.go github.com/ibmec/pict-api/internal/core AdminRepository

// Research projects and their artifacts.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=project_repository_mock.go github.com/ibmec/pict-api/internal/core ProjectRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=document_repository_mock.go github.com/ibmec/pict-api/internal/core DocumentRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=comment_repository_mock.go github.com/ibmec/pict-api/internal/core CommentRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=activity_repository_mock.go github.com/ibmec/pict-api/internal/core ActivityRepository

// Side stores.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=settings_store_mock.go github.com/ibmec/pict-api/internal/core SettingsStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=file_store_mock.go github.com/ibmec/pict-api/internal/core FileStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/ibmec/pict-api/internal/core CacheRepository
