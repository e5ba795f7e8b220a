package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
)

func TestSubjectContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, SetSubjectInContext(ctx, nil))

	_, ok := SubjectFromContext(ctx)
	assert.False(t, ok)

	st := domainauth.StudentSubject{SubjectBase: domainauth.SubjectBase{UserID: 3}}
	ctx = SetSubjectInContext(ctx, st)

	got, ok := SubjectFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, domainauth.RoleStudent, got.Role())

	s, ok := StudentFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(3), s.UserID)

	_, ok = AdvisorFromContext(ctx)
	assert.False(t, ok)
}
