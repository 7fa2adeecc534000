package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"spacedash/pkg/archive"
	"spacedash/pkg/config"
	"spacedash/pkg/errors"
	"spacedash/pkg/logger"
	"spacedash/pkg/pipeline"
	"spacedash/pkg/record"
	"spacedash/pkg/spacedevs"
	"spacedash/pkg/storage"
)

type stubFetcher struct {
	records []record.Record
	err     error
}

func (s *stubFetcher) Fetch(ctx context.Context, endpoint spacedevs.Endpoint, count int) ([]record.Record, error) {
	return s.records, s.err
}

type stubDownloader struct{}

func (stubDownloader) DownloadImage(ctx context.Context, url string) ([]byte, error) {
	if strings.HasSuffix(url, "missing.jpg") {
		return nil, fmt.Errorf("status 404")
	}
	return []byte("img:" + url), nil
}

func newTestModel(t *testing.T, fetcher pipeline.Fetcher) *Model {
	t.Helper()
	category, _ := pipeline.LookupCategory("spacecraft")
	log := logger.NewNopLogger()
	output, err := storage.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create output manager: %v", err)
	}
	return NewModel(context.Background(), Options{
		Pipeline: pipeline.New(fetcher, config.FetchConfig{MinFetch: 100}, log),
		Builder:  archive.NewBuilder(stubDownloader{}, log),
		Query:    pipeline.Query{Category: category, Limit: 5},
		Output:   output,
	})
}

func spacecraftRecords(t *testing.T) []record.Record {
	t.Helper()
	var recs []record.Record
	raw := `[
		{"name": "Dragon C206", "status": {"name": "Active"}, "image": {"image_url": "https://cdn.test/dragon.jpg"}},
		{"name": "Soyuz MS-22", "status": {"name": "Retired"}},
		{"name": "Starliner", "image": {"image_url": "https://cdn.test/missing.jpg"}}
	]`
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		t.Fatalf("Failed to decode fixture: %v", err)
	}
	return recs
}

// load runs the initial pipeline load to completion
func load(t *testing.T, m *Model) {
	t.Helper()
	cmd := m.startLoad()
	if !m.Loading() && m.load == nil {
		t.Fatal("Expected a load to be started")
	}
	m.Update(cmd())
	if m.Loading() {
		t.Fatal("Expected load to be finished")
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelLoadAndNavigate(t *testing.T) {
	m := newTestModel(t, &stubFetcher{records: spacecraftRecords(t)})
	load(t, m)

	if len(m.Cards()) != 3 {
		t.Fatalf("Expected 3 cards, got %d", len(m.Cards()))
	}
	card, _ := m.Current()
	if card.Name != "Dragon C206" {
		t.Errorf("Expected first card Dragon C206, got %s", card.Name)
	}

	m.Update(key("n"))
	card, _ = m.Current()
	if card.Name != "Soyuz MS-22" {
		t.Errorf("Expected second card, got %s", card.Name)
	}

	m.Update(key("p"))
	m.Update(key("p"))
	card, _ = m.Current()
	if card.Name != "Starliner" {
		t.Errorf("Expected wrap to last card, got %s", card.Name)
	}

	view := m.View()
	for _, want := range []string{"Spacecraft", "3/3", "Spacecraft: Starliner"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view", want)
		}
	}
}

func TestModelFetchFailure(t *testing.T) {
	m := newTestModel(t, &stubFetcher{err: errors.StatusError("u", 503)})
	load(t, m)

	if len(m.Cards()) != 0 {
		t.Errorf("Expected no cards, got %d", len(m.Cards()))
	}
	if !strings.Contains(m.View(), "Failed to fetch spacecraft.") {
		t.Error("Expected failure notice in view")
	}
}

func TestModelIgnoresStaleLoad(t *testing.T) {
	m := newTestModel(t, &stubFetcher{records: spacecraftRecords(t)})
	first := m.startLoad()
	second := m.startLoad()

	m.Update(first())
	if m.result != nil {
		t.Error("Expected stale load result to be ignored")
	}
	m.Update(second())
	if len(m.Cards()) != 3 {
		t.Errorf("Expected 3 cards, got %d", len(m.Cards()))
	}
}

func TestModelArchive(t *testing.T) {
	m := newTestModel(t, &stubFetcher{records: spacecraftRecords(t)})
	load(t, m)

	_, cmd := m.Update(key("d"))
	if cmd == nil || !m.archiving {
		t.Fatal("Expected archive to start")
	}

	var done ArchiveDoneMsg
	for msg := cmd(); ; msg = m.listenArchive()() {
		m.Update(msg)
		if d, ok := msg.(ArchiveDoneMsg); ok {
			done = d
			break
		}
	}

	if done.Err != nil {
		t.Fatalf("Archive failed: %v", done.Err)
	}
	if done.Entries != 1 || done.Skipped != 1 {
		t.Errorf("Expected 1 entry and 1 skipped, got %d and %d", done.Entries, done.Skipped)
	}
	if m.archiving {
		t.Error("Expected archiving to be finished")
	}
	if filepath.Base(done.Path) != "spacecraft_images.zip" {
		t.Errorf("Unexpected archive path %s", done.Path)
	}
	if _, err := os.Stat(done.Path); err != nil {
		t.Errorf("Expected archive file: %v", err)
	}
	if m.ArchivePercent() != 1 {
		t.Errorf("Expected full progress, got %f", m.ArchivePercent())
	}
}

func TestModelArchiveWithoutImages(t *testing.T) {
	recs := spacecraftRecords(t)[1:2]
	m := newTestModel(t, &stubFetcher{records: recs})
	load(t, m)

	_, cmd := m.Update(key("d"))
	if cmd != nil {
		t.Error("Expected no archive command without images")
	}
	last := m.logMessages[len(m.logMessages)-1]
	if last.Message != "No spacecraft images available for download." {
		t.Errorf("Unexpected notice %q", last.Message)
	}
}

func TestLogMessagesBounded(t *testing.T) {
	m := newTestModel(t, &stubFetcher{})
	for i := 0; i < 12; i++ {
		m.AddLogMessage("INFO", fmt.Sprintf("line %d", i))
	}
	if len(m.logMessages) != m.maxLogMessages {
		t.Errorf("Expected %d messages, got %d", m.maxLogMessages, len(m.logMessages))
	}
	if m.logMessages[0].Message != "line 7" {
		t.Errorf("Expected oldest kept line 7, got %s", m.logMessages[0].Message)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{500, "500 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}

	for _, test := range tests {
		result := FormatBytes(test.bytes)
		if result != test.expected {
			t.Errorf("FormatBytes(%d) = %s, expected %s", test.bytes, result, test.expected)
		}
	}
}
