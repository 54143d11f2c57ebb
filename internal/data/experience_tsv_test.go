package data

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTSVLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, DefaultCurve().Generate()))

	out := buf.String()
	require.True(t, strings.HasSuffix(out, "\n"))
	assert.NotContains(t, out, "\r")

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 100)
	assert.Equal(t, "Level\tExperience", lines[0])
	assert.Equal(t, "1\t2000", lines[1])
	assert.Equal(t, "99\t4000000000", lines[99])

	second := strings.Split(lines[2], "\t")
	require.Len(t, second, 2)
	assert.Equal(t, "2", second[0])
	xp, err := strconv.ParseInt(second[1], 10, 64)
	require.NoError(t, err)
	assert.Greater(t, xp, int64(2000))

	for i, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		require.Len(t, fields, 2, "line %d", i+2)
		assert.Equal(t, strconv.Itoa(i+1), fields[0])
		v, err := strconv.ParseUint(fields[1], 10, 64)
		require.NoError(t, err, "line %d", i+2)
		assert.Equal(t, fields[1], strconv.FormatUint(v, 10))
	}
}

func TestWriteTSVFileIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Experience.tsv")

	require.NoError(t, WriteTSVFile(path, DefaultCurve().Generate()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteTSVFile(path, DefaultCurve().Generate()))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriteTSVFileTruncates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Experience.tsv")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 1<<16), 0o644))

	require.NoError(t, WriteTSVFile(path, DefaultCurve().Generate()))

	table, err := LoadTSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultCurve().Generate(), table)
}

func TestWriteTSVFileMissingDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "Experience.tsv")

	err := WriteTSVFile(path, DefaultCurve().Generate())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestReadTSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "wrong header", input: "Lvl\tXP\n1\t2000\n"},
		{name: "bad level", input: "Level\tExperience\none\t2000\n"},
		{name: "bad experience", input: "Level\tExperience\n1\t2k\n"},
		{name: "negative experience", input: "Level\tExperience\n1\t-5\n"},
		{name: "extra column", input: "Level\tExperience\n1\t2000\t3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestReadTSVLevelGap(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "skipped levels", input: "Level\tExperience\n1\t10\n50\t100\n"},
		{name: "starts at two", input: "Level\tExperience\n2\t10\n3\t100\n"},
		{name: "repeated level", input: "Level\tExperience\n1\t10\n1\t100\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadTSV(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrLevelGap)
			assert.Nil(t, table)
		})
	}
}

func TestReadTSVHeaderOnly(t *testing.T) {
	table, err := ReadTSV(strings.NewReader("Level\tExperience\n"))
	require.NoError(t, err)
	assert.Empty(t, table)
	assert.ErrorIs(t, table.Validate(DefaultCurve()), ErrEmptyTable)
}

func TestDigest(t *testing.T) {
	a, err := Digest(DefaultCurve().Generate())
	require.NoError(t, err)
	b, err := Digest(DefaultCurve().Generate())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	other, err := Digest(Curve{BaseXP: 10, MaxXP: 1000, MaxLevel: 5}.Generate())
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}

func TestDigestFileMatchesDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Experience.tsv")
	table := DefaultCurve().Generate()
	require.NoError(t, WriteTSVFile(path, table))

	want, err := Digest(table)
	require.NoError(t, err)
	got, err := DigestFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = DigestFile(filepath.Join(t.TempDir(), "missing.tsv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestVerifyTSVFile(t *testing.T) {
	c := DefaultCurve()
	table := c.Generate()
	digest, err := Digest(table)
	require.NoError(t, err)

	t.Run("written file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Experience.tsv")
		require.NoError(t, WriteTSVFile(path, table))
		assert.NoError(t, VerifyTSVFile(path, c, digest))
	})

	t.Run("wrong endpoint", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Experience.tsv")
		require.NoError(t, WriteTSVFile(path, table))
		assert.ErrorIs(t, VerifyTSVFile(path, Curve{BaseXP: 2000, MaxXP: 5000000000, MaxLevel: 99}, digest), ErrBadEndpoint)
	})

	t.Run("stale digest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Experience.tsv")
		require.NoError(t, WriteTSVFile(path, table))
		assert.ErrorIs(t, VerifyTSVFile(path, c, strings.Repeat("0", 64)), ErrDigestMismatch)
	})

	t.Run("gap in file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Experience.tsv")
		require.NoError(t, os.WriteFile(path, []byte("Level\tExperience\n1\t2000\n99\t4000000000\n"), 0o644))
		assert.ErrorIs(t, VerifyTSVFile(path, c, digest), ErrLevelGap)
	})
}
