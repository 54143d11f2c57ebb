package data

import (
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// TSV column names.
const (
	ColumnLevel      = "Level"
	ColumnExperience = "Experience"
)

// Errors returned while reading back a written table.
var (
	ErrBadHeader      = errors.New("unexpected experience tsv header")
	ErrDigestMismatch = errors.New("experience tsv digest mismatch")
)

func newTSVWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return cw
}

// WriteTSV writes the header line followed by one "<level>\t<experience>"
// row per entry.
func WriteTSV(w io.Writer, t ExperienceTable) error {
	cw := newTSVWriter(w)
	if err := cw.Write([]string{ColumnLevel, ColumnExperience}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range t {
		row := []string{
			strconv.FormatInt(int64(e.Level), 10),
			strconv.FormatInt(e.Experience, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write level %d: %w", e.Level, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// WriteTSVFile creates or truncates path and writes t to it.
// The parent directory must already exist. The file is closed on every path;
// a partially written file is left in place on failure.
func WriteTSVFile(path string, t ExperienceTable) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := WriteTSV(f, t); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadTSV parses a table previously written by WriteTSV.
func ReadTSV(r io.Reader) (ExperienceTable, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = 2
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrBadHeader)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if header[0] != ColumnLevel || header[1] != ColumnExperience {
		return nil, fmt.Errorf("%w: %q", ErrBadHeader, header)
	}

	var table ExperienceTable
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		level, err := strconv.ParseInt(rec[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse level %q: %w", rec[0], err)
		}
		exp, err := strconv.ParseInt(rec[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse experience %q at level %d: %w", rec[1], level, err)
		}
		if exp < 0 {
			return nil, fmt.Errorf("negative experience %d at level %d", exp, level)
		}
		if want := int64(len(table) + 1); level != want {
			return nil, fmt.Errorf("%w: got level %d, want %d", ErrLevelGap, level, want)
		}
		table = append(table, LevelEntry{Level: int32(level), Experience: exp})
	}
	return table, nil
}

// LoadTSVFile reads a table from path.
func LoadTSVFile(path string) (ExperienceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	table, err := ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return table, nil
}

// Digest returns the hex BLAKE2b-256 of the TSV encoding of t.
// Two runs with equal tables produce equal digests.
func Digest(t ExperienceTable) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("blake2b: %w", err)
	}
	if err := WriteTSV(h, t); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestFile returns the hex BLAKE2b-256 of the bytes stored at path.
// For a file written by WriteTSVFile it equals Digest of the same table.
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("blake2b: %w", err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyTSVFile reloads path and checks it against the curve and against
// the digest of the table that was written.
func VerifyTSVFile(path string, c Curve, wantDigest string) error {
	table, err := LoadTSVFile(path)
	if err != nil {
		return err
	}
	if err := table.Validate(c); err != nil {
		return fmt.Errorf("verify %s: %w", path, err)
	}
	got, err := DigestFile(path)
	if err != nil {
		return err
	}
	if got != wantDigest {
		return fmt.Errorf("%w: %s has %s, want %s", ErrDigestMismatch, path, got, wantDigest)
	}
	return nil
}
