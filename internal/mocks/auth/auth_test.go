package auth

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/ports"
)

func TestMockAuthProvider_AuthCodeURL(t *testing.T) {
	provider := NewMockAuthProvider()

	u, err := url.Parse(provider.AuthCodeURL(ports.BeginInput{State: "s1", Nonce: "n1"}))
	require.NoError(t, err)
	assert.Equal(t, "mock-idp", u.Host)
	assert.Equal(t, "s1", u.Query().Get("state"))
	assert.Equal(t, "n1", u.Query().Get("nonce"))
}

func TestMockAuthProvider_Exchange_Default(t *testing.T) {
	provider := NewMockAuthProvider()

	got, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c", Nonce: "n"})
	require.NoError(t, err)
	assert.Equal(t, "mock.aluno@ibmec.edu.br", got.Email)
	assert.False(t, got.ExpiresAt.IsZero())
	assert.Equal(t, []ports.ExchangeInput{{Code: "c", Nonce: "n"}}, provider.Exchanges())
}

func TestMockAuthProvider_Exchange_Func(t *testing.T) {
	boom := errors.New("boom")
	provider := &MockAuthProvider{
		ExchangeFunc: func(context.Context, ports.ExchangeInput) (domainauth.Principal, error) {
			return domainauth.Principal{}, boom
		},
	}

	_, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c"})
	assert.ErrorIs(t, err, boom)
}

func TestMemoryStateStore(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.LoginState{State: "s", Nonce: "n"}))
	assert.True(t, store.Has("s"))

	got, err := store.Consume(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "n", got.Nonce)
	assert.False(t, store.Has("s"))

	_, err = store.Consume(ctx, "s")
	assert.ErrorIs(t, err, ports.ErrStateNotFound)
}
