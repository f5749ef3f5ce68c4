package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/halfminthink-bit/youtube-search/internal/buzz"
)

func sampleRecords() []buzz.Record {
	return []buzz.Record{
		{
			VideoID:         "dQw4w9WgXcQ",
			Title:           "料理チャンネルの動画",
			ChannelName:     "小さなキッチン",
			ViewCount:       3000,
			SubscriberCount: 1000,
		},
		{
			VideoID:         "jNQXAC9IVRw",
			Title:           "Me at the zoo",
			ChannelName:     "jawed",
			ViewCount:       12345,
			SubscriberCount: 42,
		},
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	path, err := NewExporter(dir).Export(sampleRecords(), "料理 vlog")
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("file does not start with a UTF-8 BOM")
	}

	lines := strings.Split(strings.TrimRight(string(data[3:]), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows: %q", len(lines), lines)
	}
	if lines[0] != "title,url,channel_name,view_count,subscriber_count" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "https://www.youtube.com/watch?v=dQw4w9WgXcQ") {
		t.Errorf("row missing watch url: %q", lines[1])
	}
	if !strings.Contains(lines[1], "料理チャンネルの動画") {
		t.Errorf("non-ASCII title not preserved: %q", lines[1])
	}
	if !strings.Contains(lines[2], "12345") || !strings.Contains(lines[2], ",42") {
		t.Errorf("counts missing from row: %q", lines[2])
	}

	base := filepath.Base(path)
	if !strings.HasPrefix(base, "youtube_results_料理 vlog_") {
		t.Errorf("filename missing keyword slug: %q", base)
	}
}

func TestExportEmptySetProducesNoFile(t *testing.T) {
	dir := t.TempDir()

	path, err := NewExporter(dir).Export(nil, "cooking")
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("empty export returned a path: %q", path)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("empty export left %d files behind: %v", len(entries), entries)
	}
}

func TestExportDeterministic(t *testing.T) {
	dir := t.TempDir()

	// Two exporters with distinct clocks, so the runs land in distinct
	// files even within the same wall-clock second.
	exportAt := func(ts time.Time) string {
		e := NewExporter(dir)
		e.now = func() time.Time { return ts }
		path, err := e.Export(sampleRecords(), "test")
		if err != nil {
			t.Fatal(err)
		}
		return path
	}

	p1 := exportAt(time.Date(2025, 8, 1, 9, 30, 15, 0, time.UTC))
	p2 := exportAt(time.Date(2025, 8, 1, 9, 30, 16, 0, time.UTC))
	if p1 == p2 {
		t.Fatal("expected two distinct files")
	}

	read := func(path string) []byte {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	if !bytes.Equal(read(p1), read(p2)) {
		t.Error("two exports of the same record set differ")
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2025, 8, 1, 9, 30, 15, 0, time.UTC)
	if got := Filename("cooking", ts); got != "youtube_results_cooking_20250801_093015.csv" {
		t.Errorf("Filename with keyword = %q", got)
	}
	if got := Filename("", ts); got != "youtube_results_20250801_093015.csv" {
		t.Errorf("Filename without keyword = %q", got)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"two words", "two words"},
		{"a/b\\c:d", "a_b_c_d"},
		{"料理", "料理"},
		{"under_score-dash", "under_score-dash"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
