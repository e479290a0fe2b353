package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

const (
	ext        = ".json.zst"
	dateLayout = "2006-01-02"
)

// Write compresses raw classifier output into archiveDir/{date}.json.zst,
// replacing any earlier archive for the same date. Returns the archive path.
func Write(date string, raw []byte, archiveDir string) (string, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", fmt.Errorf("invalid archive date %q: %w", date, err)
	}
	return write(date, bytes.NewReader(raw), archiveDir)
}

// File compresses srcPath into the archive. The date comes from the
// file name's YYYY-MM-DD prefix.
func File(srcPath, archiveDir string) (string, error) {
	date := DateFromName(srcPath)
	if date == "" {
		return "", fmt.Errorf("cannot extract date from %s", srcPath)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	return write(date, src, archiveDir)
}

func write(date string, src io.Reader, archiveDir string) (string, error) {
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	destPath := Path(date, archiveDir)
	tmp, err := os.CreateTemp(archiveDir, ".partial-*")
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder, err := zstd.NewWriter(tmp)
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, src); err != nil {
		encoder.Close()
		tmp.Close()
		return "", fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("finalize compression: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close archive: %w", err)
	}

	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return "", fmt.Errorf("install archive: %w", err)
	}
	return destPath, nil
}

// Read returns the decompressed classifier output archived for date.
func Read(date, archiveDir string) ([]byte, error) {
	src, err := os.Open(Path(date, archiveDir))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer src.Close()

	decoder, err := zstd.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", date, err)
	}
	return raw, nil
}

// IsArchived returns true if an archive file exists for date.
func IsArchived(date, archiveDir string) bool {
	_, err := os.Stat(Path(date, archiveDir))
	return err == nil
}

// Path returns the deterministic archive path for a date.
func Path(date, archiveDir string) string {
	return filepath.Join(archiveDir, date+ext)
}

// Dates lists archived dates in ascending order. A missing directory
// yields an empty list.
func Dates(archiveDir string) ([]string, error) {
	entries, err := os.ReadDir(archiveDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read archive dir: %w", err)
	}

	var dates []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		if d := DateFromName(e.Name()); d != "" {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// DateFromName returns the leading YYYY-MM-DD of a file's base name,
// or "" if it has none.
func DateFromName(path string) string {
	base := filepath.Base(path)
	if len(base) < len(dateLayout) {
		return ""
	}
	prefix := base[:len(dateLayout)]
	if _, err := time.Parse(dateLayout, prefix); err != nil {
		return ""
	}
	return prefix
}
