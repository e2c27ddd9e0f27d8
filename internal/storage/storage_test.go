package storage

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/IshaanNene/NoticeGoat/internal/config"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func sampleFeed() types.FeedResult {
	d := time.Date(2024, time.August, 5, 0, 0, 0, 0, time.UTC)
	return types.FeedResult{
		RunID:     "run-1",
		UpdatedAt: d,
		Count:     2,
		Items: []types.Notice{
			{
				Title: "SSC CGL, Tier-II \"Result\"", URL: "https://ssc.gov.in/cgl.pdf", PDF: "https://ssc.gov.in/cgl.pdf",
				Channel: types.ChannelResult, Date: &d, DateText: "05-Aug-2024",
				Categories: []string{"CGL", "MTS"}, Size: "1.2 MB", Source: "SSC",
			},
			{Title: "Weekly quiz", URL: "https://example.com/quiz", Channel: types.ChannelNews, Categories: []string{}, Source: "Blog"},
		},
	}
}

func TestJSONStorage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "notices.json")

	s, err := NewJSONStorage(path, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Store(context.Background(), sampleFeed()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got types.FeedResult
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.RunID != "run-1" || len(got.Items) != 2 {
		t.Errorf("unexpected snapshot %+v", got)
	}
	if got.Items[0].Date == nil || got.Items[1].Date != nil {
		t.Error("dates should round-trip with null for undated notices")
	}
}

func TestJSONStorageWithoutStoreWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notices.json")
	s, err := NewJSONStorage(path, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file expected without a snapshot")
	}
}

func TestJSONLStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notices.jsonl")
	s, err := NewJSONLStorage(path, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Store(context.Background(), sampleFeed()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var n types.Notice
		if err := json.Unmarshal(sc.Bytes(), &n); err != nil {
			t.Fatalf("line %d: %v", lines, err)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
}

func TestCSVStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notices.csv")
	s, err := NewCSVStorage(path, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := s.Store(ctx, sampleFeed()); err != nil {
		t.Fatal(err)
	}
	if err := s.Store(ctx, sampleFeed()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected header + 4 rows, got %d", len(rows))
	}
	if rows[0][0] != "title" || rows[0][9] != "source" {
		t.Errorf("unexpected header %v", rows[0])
	}
	first := rows[1]
	if first[0] != "SSC CGL, Tier-II \"Result\"" {
		t.Errorf("title not escaped correctly: %q", first[0])
	}
	if first[3] != "2024-08-05T00:00:00Z" || first[5] != "CGL;MTS" {
		t.Errorf("unexpected row %v", first)
	}
	if rows[2][3] != "" {
		t.Errorf("undated notice should have an empty date, got %q", rows[2][3])
	}
}

func TestNewFileBackends(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range []string{"json", "jsonl", "csv"} {
		s, err := New(config.StorageConfig{Type: kind, OutputPath: dir}, testLogger)
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if s.Name() != kind {
			t.Errorf("expected %s backend, got %s", kind, s.Name())
		}
		s.Close()
	}
}

func TestNewMulti(t *testing.T) {
	dir := t.TempDir()
	s, err := New(config.StorageConfig{Type: "json, csv", OutputPath: dir}, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name() != "multi" {
		t.Fatalf("expected multi backend, got %s", s.Name())
	}
	if err := s.Store(context.Background(), sampleFeed()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notices.json", "notices.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestNewUnknownType(t *testing.T) {
	_, err := New(config.StorageConfig{Type: "parquet", OutputPath: t.TempDir()}, testLogger)
	var se *types.StorageError
	if !errors.As(err, &se) || se.Backend != "parquet" {
		t.Errorf("expected StorageError for parquet, got %v", err)
	}
}
