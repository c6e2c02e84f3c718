package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/salesboard/internal/config"
)

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"b.csv",
		"a.xlsx",
		"notes.txt",
		".hidden.csv",
		"~$a.xlsx",
		filepath.Join("2023", "old.xls"),
		filepath.Join(".git", "x.csv"),
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("vendedor\n"), 0o600))
	}

	files, err := ScanDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "2023", "old.xls"),
		filepath.Join(dir, "a.xlsx"),
		filepath.Join(dir, "b.csv"),
	}, files)
}

func TestScanDir_Missing(t *testing.T) {
	files, err := ScanDir(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestOpenAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jan.csv"), []byte("vendedor\nAna\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feb.csv"), []byte("vendedor\nBruno\n"), 0o600))

	srcs, err := OpenAll(config.SourceConfig{Kind: config.KindAuto, Path: dir})
	require.NoError(t, err)
	assert.Len(t, srcs, 2)

	single, err := OpenAll(config.SourceConfig{Kind: config.KindAuto, Path: filepath.Join(dir, "jan.csv")})
	require.NoError(t, err)
	assert.Len(t, single, 1)

	_, err = OpenAll(config.SourceConfig{Kind: config.KindAuto, Path: t.TempDir()})
	var ed *EmptyDirError
	assert.ErrorAs(t, err, &ed)
}
