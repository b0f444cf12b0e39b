package sampling

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset-bundler/core/catalog"
	"asset-bundler/core/pack"
)

func reconciled(path, bundle string, offset, size uint64, packID pack.ID) *pack.Record {
	return &pack.Record{
		Path:       path,
		Pack:       pack.Assign(packID),
		BundlePath: bundle,
		Offset:     offset,
		Size:       size,
	}
}

// TestWrite_Format pins the sampling log format byte for byte: tab-separated
// entry lines, a separator after every pack but the last, and the required
// pack's size sentinel.
func TestWrite_Format(t *testing.T) {
	groups := pack.Groups{
		0: {
			reconciled("a/one.png", "game.bpak", 100, 50, 0),
			reconciled("b/two.png", "game.bpak", 150, 25, 0),
		},
		3: {
			reconciled("c/three.png", "game__1.bpak", 30, 10, 3),
		},
	}
	archiveInfo := pack.PathMap{"a/one.png": groups[0][0]}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, groups, archiveInfo, zap.NewNop()))

	expected := "game.bpak\t100\t50\ti-read \t000000000000000000\n" +
		"game.bpak\t150\t25\ti-read \t000000000000000000\n" +
		"**********\n" +
		"||||||||||  1000\n" +
		"game__1.bpak\t30\t10\ti-read \t000000000000000000\n"
	assert.Equal(t, expected, buf.String())
}

// TestWrite_Deterministic verifies two writes of the same collection are
// identical.
func TestWrite_Deterministic(t *testing.T) {
	groups := pack.Groups{
		1: {
			reconciled("a.png", "game.bpak", 1, 2, 1),
			reconciled("b.png", "game.bpak", 3, 4, 1),
		},
		2: {reconciled("c.png", "game.bpak", 5, 6, 2)},
	}
	archiveInfo := pack.PathMap{"a.png": groups[1][0]}

	var first, second bytes.Buffer
	require.NoError(t, Write(&first, groups, archiveInfo, zap.NewNop()))
	require.NoError(t, Write(&second, groups, archiveInfo, zap.NewNop()))
	assert.Equal(t, first.String(), second.String())
}

// TestWrite_NoRequiredPackMarker verifies the sentinel only follows the
// required pack's separator.
func TestWrite_NoRequiredPackMarker(t *testing.T) {
	groups := pack.Groups{
		1: {reconciled("a.png", "game.bpak", 1, 2, 1)},
		2: {reconciled("b.png", "game.bpak", 3, 4, 2)},
	}
	archiveInfo := pack.PathMap{"a.png": groups[1][0]}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, groups, archiveInfo, zap.NewNop()))

	assert.Contains(t, buf.String(), groupSeparator)
	assert.NotContains(t, buf.String(), requiredPackMarker)
}

// TestWrite_ResolvesThroughArchiveInfo verifies records without their own
// coordinates are resolved by path, and unresolvable ones are skipped.
func TestWrite_ResolvesThroughArchiveInfo(t *testing.T) {
	groups := pack.Groups{
		0: {
			pack.NewRecord(catalog.InvalidIdentity, "a/one.png", 0),
			pack.NewRecord(catalog.InvalidIdentity, "missing.png", 0),
		},
	}
	archiveInfo := pack.PathMap{
		"a/one.png": reconciled("a/one.png", "game.bpak", 100, 50, 0),
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, groups, archiveInfo, zap.NewNop()))
	assert.Equal(t, "game.bpak\t100\t50\ti-read \t000000000000000000\n", buf.String())
}

// TestWrite_EmptyInputs verifies empty inputs are a hard failure.
func TestWrite_EmptyInputs(t *testing.T) {
	var buf bytes.Buffer
	some := pack.PathMap{"a.png": reconciled("a.png", "game.bpak", 1, 2, 0)}

	assert.Error(t, Write(&buf, pack.Groups{}, some, zap.NewNop()))
	assert.Error(t, Write(&buf, pack.Groups{0: {some["a.png"]}}, pack.PathMap{}, zap.NewNop()))
}

// failingWriter errors after n successful writes.
type failingWriter struct {
	n int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, errors.New("disk full")
	}
	w.n--
	return len(p), nil
}

// TestWrite_WriteFailure verifies an underlying write error aborts the log.
func TestWrite_WriteFailure(t *testing.T) {
	groups := pack.Groups{
		0: {
			reconciled("a.png", "game.bpak", 1, 2, 0),
			reconciled("b.png", "game.bpak", 3, 4, 0),
		},
	}
	archiveInfo := pack.PathMap{"a.png": groups[0][0]}

	err := Write(&failingWriter{n: 1}, groups, archiveInfo, zap.NewNop())
	assert.ErrorContains(t, err, "failed to write sampling log")
}
