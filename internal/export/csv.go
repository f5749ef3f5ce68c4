// Package export writes qualifying records to a spreadsheet-compatible file.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/halfminthink-bit/youtube-search/internal/buzz"
)

// utf8BOM makes the file open correctly in Excel and friends.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var header = []string{"title", "url", "channel_name", "view_count", "subscriber_count"}

// Exporter writes CSV result files into a directory.
type Exporter struct {
	dir string
	now func() time.Time // overridden in tests
}

// NewExporter creates an Exporter writing into dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir, now: time.Now}
}

// Export writes records to a BOM-prefixed UTF-8 CSV file, one row per record
// in the order given, and returns the file path. The filename carries the
// current wall-clock time and, when keyword is non-empty, a filesystem-safe
// slug of it. The file is written to a temporary name and renamed into place
// so an interrupted run never leaves a partial file behind. An empty record
// set produces no file at all; the empty path and nil error signal a clean
// no-op.
func (e *Exporter) Export(records []buzz.Record, keyword string) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	path := filepath.Join(e.dir, Filename(keyword, e.now()))

	tmp, err := os.CreateTemp(e.dir, ".export-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeRows(tmp, records); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to rename result file: %w", err)
	}
	return path, nil
}

func writeRows(f *os.File, records []buzz.Record) error {
	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Title,
			r.WatchURL(),
			r.ChannelName,
			strconv.FormatInt(r.ViewCount, 10),
			strconv.FormatInt(r.SubscriberCount, 10),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// Filename builds the stamped result filename for a run at ts.
func Filename(keyword string, ts time.Time) string {
	stamp := ts.Format("20060102_150405")
	if keyword == "" {
		return fmt.Sprintf("youtube_results_%s.csv", stamp)
	}
	return fmt.Sprintf("youtube_results_%s_%s.csv", Slug(keyword), stamp)
}

// Slug makes keyword safe for use in a filename: letters, digits, spaces,
// underscores and hyphens pass through, everything else becomes an
// underscore.
func Slug(keyword string) string {
	var b strings.Builder
	for _, r := range keyword {
		switch {
		case r == ' ' || r == '_' || r == '-':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
