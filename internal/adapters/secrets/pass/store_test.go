package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubStore(prefix string, run runFunc) *Store {
	store := NewStore(prefix)
	store.run = run
	return store
}

func TestStorePutUsesPassInsertUnderPrefix(t *testing.T) {
	t.Parallel()

	called := false
	store := stubStore("ow/", func(ctx context.Context, input string, args ...string) (string, string, error) {
		called = true
		assert.Equal(t, context.Background(), ctx)
		assert.Equal(t, []string{"insert", "-m", "-f", "ow/odoo/prod/admin"}, args)
		assert.Equal(t, "top-secret\n", input)
		return "", "", nil
	})

	err := store.Put(context.Background(), "odoo/prod/admin", "top-secret")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestStoreGetReturnsFirstLine(t *testing.T) {
	t.Parallel()

	store := stubStore("", func(ctx context.Context, input string, args ...string) (string, string, error) {
		assert.Equal(t, []string{"show", "odoo/prod/admin"}, args)
		assert.Empty(t, input)
		return "top-secret\r\nurl: https://erp.example.com\n", "", nil
	})

	value, err := store.Get(context.Background(), "/odoo/prod/admin/")
	require.NoError(t, err)
	assert.Equal(t, "top-secret", value)
}

func TestStoreGetMapsMissingEntry(t *testing.T) {
	t.Parallel()

	store := stubStore("ow", func(ctx context.Context, input string, args ...string) (string, string, error) {
		return "", "Error: ow/odoo/prod/admin is not in the password store.", errors.New("exit status 1")
	})

	_, err := store.Get(context.Background(), "odoo/prod/admin")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := stubStore("", func(ctx context.Context, input string, args ...string) (string, string, error) {
		return "", "gpg: decryption failed: No secret key", errors.New("exit status 2")
	})

	_, err := store.Get(context.Background(), "odoo/prod/admin")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, "odoo/prod/admin")
	assert.ErrorContains(t, err, "decryption failed")
}

func TestStoreDeleteIgnoresMissingEntry(t *testing.T) {
	t.Parallel()

	var calls [][]string
	store := stubStore("", func(ctx context.Context, input string, args ...string) (string, string, error) {
		calls = append(calls, args)
		return "", "Error: odoo/prod/admin is not in the password store.", errors.New("exit status 1")
	})

	require.NoError(t, store.Delete(context.Background(), "odoo/prod/admin"))
	assert.Equal(t, [][]string{{"rm", "-f", "odoo/prod/admin"}}, calls)
}

func TestStoreHonoursCanceledContext(t *testing.T) {
	t.Parallel()

	store := stubStore("", func(ctx context.Context, input string, args ...string) (string, string, error) {
		t.Fatal("pass must not run")
		return "", "", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, "odoo/prod/admin")
	require.ErrorIs(t, err, context.Canceled)
}
