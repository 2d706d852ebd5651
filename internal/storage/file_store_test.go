package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/segyhp/loan-engine/pkg/errors"
)

func TestFileStore_StoreAndDelete(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, "/uploads")
	ctx := context.Background()

	rel, err := store.Store(ctx, "application_forms", "Form.PDF", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "application_forms/"))
	assert.True(t, strings.HasSuffix(rel, ".pdf"))

	data, err := afero.ReadFile(fs, "/uploads/"+rel)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, store.Delete(ctx, rel))
	exists, err := store.Exists(rel)
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, rel))
}

func TestFileStore_UniqueNames(t *testing.T) {
	store := NewFileStore(afero.NewMemMapFs(), "/uploads")
	ctx := context.Background()

	a, err := store.Store(ctx, "collateral", "deed.jpg", []byte("a"))
	require.NoError(t, err)
	b, err := store.Store(ctx, "collateral", "deed.jpg", []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestFileStore_FolderCannotEscapeRoot(t *testing.T) {
	store := NewFileStore(afero.NewMemMapFs(), "/uploads")

	rel, err := store.Store(context.Background(), "../../etc", "x.txt", []byte("x"))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "etc/"))
}

func TestFileStore_Failures(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		store := NewFileStore(afero.NewMemMapFs(), "/uploads")

		_, err := store.Store(context.Background(), "application_forms", "a.pdf", nil)

		assert.True(t, customError.IsKind(err, customError.KindValidation))
	})

	t.Run("read-only filesystem", func(t *testing.T) {
		store := NewFileStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/uploads")

		_, err := store.Store(context.Background(), "application_forms", "a.pdf", []byte("x"))

		assert.True(t, customError.IsKind(err, customError.KindStorage))
		assert.True(t, errors.Is(err, customError.ErrFileStorage))
	})
}
