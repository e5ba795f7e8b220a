package data

import (
	"testing"

	"github.com/ibmec/pict-api/internal/testutil"
)

func TestRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	runRepoSuite(t, testutil.SetupTestDB(t))
}
