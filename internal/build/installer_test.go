package build

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePage(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestInstaller_CopiesIntoManDir(t *testing.T) {
	projDir := t.TempDir()
	dataRoot := t.TempDir()
	writePage(t, projDir, "man/foo.1", "foo page\n")
	writePage(t, projDir, "bar.1", "bar page\n")
	pages := parsePages(t, "man/foo.1:module=foo\nbar.1:module=bar")

	installer := NewInstaller(InstallerOptions{Logger: testLogger(), Dir: projDir, DataRoot: dataRoot})
	err := installer.Run(context.Background(), pages)
	require.NoError(t, err)

	// Destination names are basenames under share/man/man1.
	data, err := os.ReadFile(filepath.Join(dataRoot, "share", "man", "man1", "foo.1"))
	require.NoError(t, err)
	assert.Equal(t, "foo page\n", string(data))

	data, err = os.ReadFile(filepath.Join(dataRoot, "share", "man", "man1", "bar.1"))
	require.NoError(t, err)
	assert.Equal(t, "bar page\n", string(data))
}

func TestInstaller_Compress(t *testing.T) {
	projDir := t.TempDir()
	dataRoot := t.TempDir()
	writePage(t, projDir, "foo.1", "compressed page\n")
	pages := parsePages(t, "foo.1:module=foo")

	installer := NewInstaller(InstallerOptions{
		Logger:   testLogger(),
		Dir:      projDir,
		DataRoot: dataRoot,
		Compress: true,
	})
	err := installer.Run(context.Background(), pages)
	require.NoError(t, err)

	mandir := filepath.Join(dataRoot, "share", "man", "man1")
	_, err = os.Stat(filepath.Join(mandir, "foo.1"))
	assert.True(t, os.IsNotExist(err))

	f, err := os.Open(filepath.Join(mandir, "foo.1.gz"))
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, "compressed page\n", string(data))
}

func TestInstaller_DryRun(t *testing.T) {
	projDir := t.TempDir()
	dataRoot := t.TempDir()
	writePage(t, projDir, "foo.1", "foo page\n")
	pages := parsePages(t, "foo.1:module=foo")

	installer := NewInstaller(InstallerOptions{
		Logger:   testLogger(),
		Dir:      projDir,
		DataRoot: dataRoot,
		DryRun:   true,
	})
	err := installer.Run(context.Background(), pages)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dataRoot, "share"))
	assert.True(t, os.IsNotExist(err))
}

func TestInstaller_MissingBuiltPage(t *testing.T) {
	installer := NewInstaller(InstallerOptions{
		Logger:   testLogger(),
		Dir:      t.TempDir(),
		DataRoot: t.TempDir(),
	})
	err := installer.Run(context.Background(), parsePages(t, "missing.1:module=m"))
	assert.Error(t, err)
}

func TestInstaller_CreatesManDirForEmptySpec(t *testing.T) {
	dataRoot := t.TempDir()
	installer := NewInstaller(InstallerOptions{
		Logger:   testLogger(),
		Dir:      t.TempDir(),
		DataRoot: dataRoot,
	})
	err := installer.Run(context.Background(), parsePages(t, ""))
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dataRoot, "share", "man", "man1"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
