package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ibmec/pict-api/internal/core"
	"github.com/ibmec/pict-api/internal/domain/model"
	"github.com/ibmec/pict-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const directoryKey = "pict:advisors:directory"

func newDirectoryCache(t *testing.T) (*mocks.MockCacheRepository, *core.AdvisorDirectoryCache) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	cache := mocks.NewMockCacheRepository(ctrl)
	return cache, core.NewAdvisorDirectoryCache(core.AdvisorDirectoryCacheOptions{
		Cache:     cache,
		KeyPrefix: "pict:",
		TTL:       5 * time.Minute,
	})
}

func TestAdvisorDirectoryCache_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(*mocks.MockCacheRepository)
		wantOK  bool
		wantLen int
		wantErr bool
	}{
		{
			name: "miss",
			setup: func(cache *mocks.MockCacheRepository) {
				cache.EXPECT().Get(gomock.Any(), directoryKey).Return(nil, nil)
			},
		},
		{
			name: "hit",
			setup: func(cache *mocks.MockCacheRepository) {
				cache.EXPECT().Get(gomock.Any(), directoryKey).
					Return([]byte(`[{"id":7,"nome":"Ana","projetos_ativos":2}]`), nil)
			},
			wantOK:  true,
			wantLen: 1,
		},
		{
			name: "corrupt entry",
			setup: func(cache *mocks.MockCacheRepository) {
				cache.EXPECT().Get(gomock.Any(), directoryKey).Return([]byte(`{`), nil)
			},
			wantErr: true,
		},
		{
			name: "backend error",
			setup: func(cache *mocks.MockCacheRepository) {
				cache.EXPECT().Get(gomock.Any(), directoryKey).Return(nil, errors.New("redis down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cache, svc := newDirectoryCache(t)
			tt.setup(cache)

			entries, ok, err := svc.Get(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Len(t, entries, tt.wantLen)
		})
	}
}

func TestAdvisorDirectoryCache_SetAndInvalidate(t *testing.T) {
	t.Parallel()
	cache, svc := newDirectoryCache(t)

	entries := []model.AdvisorDirectoryEntry{{ID: 7, Nome: "Ana"}}
	cache.EXPECT().Set(gomock.Any(), directoryKey, gomock.Any(), 5*time.Minute).Return(nil)
	cache.EXPECT().Delete(gomock.Any(), directoryKey).Return(true, nil)

	require.NoError(t, svc.Set(context.Background(), entries))
	require.NoError(t, svc.Invalidate(context.Background()))
}

func TestAdvisorDirectoryCache_Disabled(t *testing.T) {
	t.Parallel()

	var nilCache *core.AdvisorDirectoryCache
	svc := core.NewAdvisorDirectoryCache(core.AdvisorDirectoryCacheOptions{KeyPrefix: "pict:"})

	for _, c := range []*core.AdvisorDirectoryCache{nilCache, svc} {
		assert.False(t, c.Enabled())
		_, ok, err := c.Get(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, c.Set(context.Background(), nil))
		require.NoError(t, c.Invalidate(context.Background()))
	}
}
