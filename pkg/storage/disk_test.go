package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiskStorePutOpenDelete(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	n, err := store.Put("students/stu-1/scan.pdf", strings.NewReader("%PDF-1.4 body"), 1024)
	require.NoError(t, err)
	require.EqualValues(t, 13, n)

	file, err := store.Open("students/stu-1/scan.pdf")
	require.NoError(t, err)
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	require.Equal(t, "%PDF-1.4 body", string(content))

	require.NoError(t, store.Delete("students/stu-1/scan.pdf"))
	_, err = store.Open("students/stu-1/scan.pdf")
	require.True(t, errors.Is(err, os.ErrNotExist))
	require.NoError(t, store.Delete("students/stu-1/scan.pdf"))
}

func TestDiskStorePutEnforcesLimit(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	_, err = store.Put("students/stu-1/big.png", bytes.NewReader(make([]byte, 11)), 10)
	require.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(filepath.Join(dir, "students", "stu-1"))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDiskStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../outside.pdf", "students/../../outside.pdf", "/etc/passwd"} {
		_, err := store.Put(key, strings.NewReader("x"), 0)
		require.ErrorIs(t, err, ErrInvalidKey, key)
	}
}
