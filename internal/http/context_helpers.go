package httpx

import (
	"context"

	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
)

// subjectKey is an unexported context key type to avoid collisions across packages.
type subjectKey struct{}

// SetSubjectInContext returns a child context that carries the given subject.
// If subject is nil, the original ctx is returned unchanged.
func SetSubjectInContext(ctx context.Context, subject domainauth.Subject) context.Context {
	if subject == nil {
		return ctx
	}
	return context.WithValue(ctx, subjectKey{}, subject)
}

// SubjectFromContext returns the authenticated subject and a boolean indicating presence.
func SubjectFromContext(ctx context.Context) (domainauth.Subject, bool) {
	s, ok := ctx.Value(subjectKey{}).(domainauth.Subject)
	return s, ok && s != nil
}

// StudentFromContext returns the subject when it holds a student token.
func StudentFromContext(ctx context.Context) (domainauth.StudentSubject, bool) {
	s, _ := SubjectFromContext(ctx)
	st, ok := s.(domainauth.StudentSubject)
	return st, ok
}

// AdvisorFromContext returns the subject when it holds an advisor token.
func AdvisorFromContext(ctx context.Context) (domainauth.AdvisorSubject, bool) {
	s, _ := SubjectFromContext(ctx)
	a, ok := s.(domainauth.AdvisorSubject)
	return a, ok
}
