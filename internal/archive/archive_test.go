package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/patrickprogramme/drivein/pkg/model"
)

func setupTestArchive(t *testing.T) (*Archive, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "drivein-archive-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	a, err := Open(filepath.Join(tmpDir, "ratings.db"))
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to open archive: %v", err)
	}
	return a, func() {
		a.Close()
		os.RemoveAll(tmpDir)
	}
}

var alien = model.Viewing{Title: "Alien", Year: "1979", Director: "Ridley Scott", Nickname: "Bob", Honcho: "Carol"}

func TestRecordAndLatest(t *testing.T) {
	a, cleanup := setupTestArchive(t)
	defer cleanup()
	ctx := context.Background()

	first := Run{
		At:        time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC),
		LogSource: "drive-in.log",
		Viewing:   alien,
		Format:    model.FormatAdvanced,
		Entries:   12,
		Quotes:    []model.QuoteEntry{{Nickname: "Alice", Rating: "7", Quote: "ok"}},
	}
	if _, err := a.Record(ctx, first); err != nil {
		t.Fatalf("Record: %v", err)
	}

	second := first
	second.At = first.At.Add(time.Hour)
	second.Format = model.FormatSimple
	second.Quotes = []model.QuoteEntry{
		{Nickname: "Alice", Rating: "9", Quote: "better"},
		{Nickname: "Bob", Rating: "8", Quote: "fine"},
	}
	id, err := a.Record(ctx, second)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("id = %q; want a uuid", id)
	}

	got, err := a.Latest(ctx, model.Viewing{Title: "alien", Year: "1979"})
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got.ID != id || got.Format != model.FormatSimple || !got.At.Equal(second.At) {
		t.Errorf("latest = %+v", got)
	}
	if got.Viewing.Director != "Ridley Scott" || got.Entries != 12 {
		t.Errorf("viewing = %+v entries = %d", got.Viewing, got.Entries)
	}
	if len(got.Quotes) != 2 || got.Quotes[0] != second.Quotes[0] || got.Quotes[1] != second.Quotes[1] {
		t.Errorf("quotes = %v", got.Quotes)
	}

	n, err := a.CountRuns(ctx)
	if err != nil || n != 2 {
		t.Errorf("CountRuns = %d, %v", n, err)
	}
}

func TestLatest_NotFound(t *testing.T) {
	a, cleanup := setupTestArchive(t)
	defer cleanup()

	_, err := a.Latest(context.Background(), alien)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v; want ErrNotFound", err)
	}
}

func TestRecord_Validation(t *testing.T) {
	a, cleanup := setupTestArchive(t)
	defer cleanup()

	tests := []struct {
		name string
		run  Run
	}{
		{"no title", Run{Format: model.FormatAdvanced}},
		{"bad format", Run{Viewing: alien, Format: "vtt"}},
		{"quote without nick", Run{Viewing: alien, Format: model.FormatAdvanced, Quotes: []model.QuoteEntry{{Rating: "5"}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := a.Record(context.Background(), tc.run); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if n, _ := a.CountRuns(context.Background()); n != 0 {
		t.Errorf("invalid runs stored: %d", n)
	}
}
