package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-bundler/core/utils"
)

// buildTestArchive writes a small zip with the given name->content pairs,
// stored uncompressed so sizes are predictable.
func buildTestArchive(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

// TestList verifies the listed coordinates against the standard library's
// view of the same archive.
func TestList(t *testing.T) {
	file := filepath.Join(t.TempDir(), "game.bpak")
	buildTestArchive(t, file, map[string]string{
		"Textures/Hero.png":            "payload-one",
		"levels/intro/intro.spawnable": "payload-two-longer",
	})

	entries, err := List(file)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	zr, err := zip.OpenReader(file)
	require.NoError(t, err)
	defer zr.Close()

	byPath := map[string]Entry{}
	for _, e := range entries {
		byPath[e.Path] = e
	}

	for _, zf := range zr.File {
		e, ok := byPath[utils.NormalizeAssetPath(zf.Name)]
		require.True(t, ok, "missing entry for %s", zf.Name)

		dataOffset, err := zf.DataOffset()
		require.NoError(t, err)
		assert.Equal(t, uint64(dataOffset), e.DataOffset)
		assert.Equal(t, zf.CompressedSize64, e.DataSize)
		assert.Equal(t, e.DataOffset, e.HeaderOffset+e.HeaderSize,
			"data must start immediately after the local header")
		assert.Greater(t, e.HeaderSize, uint64(0))
	}
}

// TestList_SkipsDirectories verifies explicit directory entries are not
// listed.
func TestList_SkipsDirectories(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dirs.bpak")

	f, err := os.Create(file)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	_, err = w.CreateHeader(&zip.FileHeader{Name: "textures/"})
	require.NoError(t, err)
	fw, err := w.CreateHeader(&zip.FileHeader{Name: "textures/hero.png", Method: zip.Store})
	require.NoError(t, err)
	_, err = fw.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	entries, err := List(file)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "textures/hero.png", entries[0].Path)
}

// TestList_NotAnArchive verifies a non-archive file is rejected.
func TestList_NotAnArchive(t *testing.T) {
	file := filepath.Join(t.TempDir(), "junk.bpak")
	require.NoError(t, os.WriteFile(file, make([]byte, 128), 0o644))

	_, err := List(file)
	assert.ErrorContains(t, err, "no end-of-central-directory record")
}

// TestFindBundleFiles verifies split archive continuations sharing the stem
// are picked up in sorted order.
func TestFindBundleFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"game__1.pak", "game.pak", "game__2.pak", "other.pak"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	paks, err := FindBundleFiles(filepath.Join(dir, "game.pak"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "game.pak"),
		filepath.Join(dir, "game__1.pak"),
		filepath.Join(dir, "game__2.pak"),
	}, paks)
}

// TestRenameForSampling verifies the rename and its overwrite protection.
func TestRenameForSampling(t *testing.T) {
	dir := t.TempDir()
	pak := filepath.Join(dir, "game.pak")
	require.NoError(t, os.WriteFile(pak, []byte("x"), 0o644))

	renamed, err := RenameForSampling(pak, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "game.bpak"), renamed)
	assert.NoFileExists(t, pak)
	assert.FileExists(t, renamed)

	// A second run against an existing .bpak is refused...
	require.NoError(t, os.WriteFile(pak, []byte("y"), 0o644))
	_, err = RenameForSampling(pak, false)
	assert.ErrorContains(t, err, "refusing a destructive overwrite")

	// ...unless overwrites are explicitly allowed.
	renamed, err = RenameForSampling(pak, true)
	require.NoError(t, err)
	data, err := os.ReadFile(renamed)
	require.NoError(t, err)
	assert.Equal(t, "y", string(data))
}
