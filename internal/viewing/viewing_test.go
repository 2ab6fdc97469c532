package viewing

import (
	"errors"
	"testing"

	"github.com/patrickprogramme/drivein/pkg/model"
)

var ids = model.DefaultIdentities()

func notice(h, m, s int, nick, words string) model.Event {
	return model.Event{Role: model.RoleNotice, Hours: h, Minutes: m, Seconds: s, HasTime: true, Nickname: nick, Words: words}
}

func said(h, m, s int, nick, words string) model.Event {
	return model.Event{Role: model.RoleSaid, Hours: h, Minutes: m, Seconds: s, HasTime: true, Nickname: nick, Words: words}
}

func split() model.Event {
	return model.Event{Role: model.RoleSplit}
}

func announce(title string) string {
	return "SATURDAY: " + title + " // https://passthepopcorn.me/torrents.php?id=1 // Picked by Bob // " +
		"Viewing starts at 20:00 UTC according to the schedule (2 hours until next viewing) // Run by Carol"
}

func TestParseAnnouncement_Variants(t *testing.T) {
	tests := []struct {
		name     string
		words    string
		title    string
		year     string
		director string
		comment  string
	}{
		{
			name:  "bare title",
			words: announce("Alien"),
			title: "Alien",
		},
		{
			name:     "year and director",
			words:    announce("Alien [1979] by Ridley Scott"),
			title:    "Alien",
			year:     "1979",
			director: "Ridley Scott",
		},
		{
			name:    "year comment date",
			words:   announce("Heat [1995] // director's cut // 1995-12-15"),
			title:   "Heat",
			year:    "1995",
			comment: "director's cut",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := ParseAnnouncement(tc.words)
			if !ok {
				t.Fatalf("ParseAnnouncement(%q) did not match", tc.words)
			}
			if v.Title != tc.title || v.Year != tc.year || v.Director != tc.director || v.Comment != tc.comment {
				t.Errorf("got %+v", v)
			}
			if v.Nickname != "Bob" || v.Honcho != "Carol" || v.RelTime != "2 hours" {
				t.Errorf("picker/honcho/reltime = %q/%q/%q", v.Nickname, v.Honcho, v.RelTime)
			}
			if v.PTP != "https://passthepopcorn.me/torrents.php?id=1" {
				t.Errorf("ptp = %q", v.PTP)
			}
		})
	}
}

func TestBuildIndex_FirstPositionLastValue(t *testing.T) {
	events := []model.Event{
		notice(18, 0, 0, "Snackbot", announce("Alien [1979] by Ridley Scott")),
		notice(18, 1, 0, "Snackbot", announce("Heat [1995] by Michael Mann")),
		said(18, 2, 0, "Snackbot", announce("Ignored [2000] by Said Role")),
		notice(18, 3, 0, "Someone", announce("Ignored [2001] by Wrong Nick")),
		notice(18, 4, 0, "Snackbot", announce("Alien [1986] by James Cameron")),
	}

	idx := BuildIndex(events, ids)
	if idx.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", idx.Len())
	}
	first, _ := idx.Select(1)
	if first.Title != "Alien" || first.Year != "1986" || first.Director != "James Cameron" {
		t.Errorf("first = %+v; want Alien (1986) in first position", first)
	}
	if first.Announcement.Minutes != 4 {
		t.Errorf("announcement event not carried: %+v", first.Announcement)
	}
	second, _ := idx.Select(2)
	if second.Title != "Heat" {
		t.Errorf("second = %q; want Heat", second.Title)
	}
}

func TestSelect_OutOfRange(t *testing.T) {
	events := []model.Event{
		notice(18, 0, 0, "Snackbot", announce("A")),
		notice(18, 0, 1, "Snackbot", announce("B")),
		notice(18, 0, 2, "Snackbot", announce("C")),
	}
	for _, ordinal := range []int{0, -1, 4, 99} {
		if _, err := Select(events, ordinal, ids); !errors.Is(err, ErrInvalidViewing) {
			t.Errorf("Select(%d) err = %v; want ErrInvalidViewing", ordinal, err)
		}
	}
	v, err := Select(events, 3, ids)
	if err != nil || v.Title != "C" {
		t.Fatalf("Select(3) = %v, %v; want C", v.Title, err)
	}
}

func TestSlice_StopsAtSplit(t *testing.T) {
	v := model.Viewing{Title: "Alien", Year: "1979"}
	events := []model.Event{
		said(19, 59, 0, "Alice", "before"),
		notice(20, 0, 0, "Snackbot", "10 SECONDS UNTIL ALIEN [1979] BY RIDLEY SCOTT"),
		said(20, 0, 15, "Alice", "hello"),
		said(20, 0, 16, "Bob", "hello"),
		split(),
		said(20, 5, 0, "Alice", "after"),
	}
	start, lines, err := Slice(events, v, ids)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if start.Hours != 20 || start.Minutes != 0 {
		t.Errorf("start = %+v", start)
	}
	if len(lines) != 2 || lines[0].Words != "hello" || lines[1].Nickname != "Bob" {
		t.Fatalf("lines = %v", lines)
	}
}

func TestSlice_IgnoresResumeAndOtherTitles(t *testing.T) {
	v := model.Viewing{Title: "Alien"}
	events := []model.Event{
		notice(19, 0, 0, "Snackbot", "10 SECONDS UNTIL HEAT [1995] BY MICHAEL MANN"),
		said(19, 0, 5, "Alice", "wrong movie"),
		notice(20, 0, 0, "Snackbot", "10 SECONDS UNTIL ALIEN"),
		said(20, 0, 15, "Alice", "one"),
		notice(20, 50, 0, "Snackbot", "10 SECONDS UNTIL RESUMATION"),
		said(20, 51, 0, "Alice", "two"),
		notice(22, 0, 0, "Snackbot", "10 SECONDS UNTIL HEAT [1995] BY MICHAEL MANN"),
		said(22, 0, 5, "Alice", "next movie"),
	}
	_, lines, err := Slice(events, v, ids)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	// le décompte de reprise fait partie de la séance ; celui du film suivant la termine
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(lines), lines)
	}
	if lines[2].Words != "two" {
		t.Errorf("last line = %q; want two", lines[2].Words)
	}
}

func TestSlice_RestartYieldsNoLines(t *testing.T) {
	v := model.Viewing{Title: "Alien"}
	events := []model.Event{
		notice(20, 0, 0, "Snackbot", "10 SECONDS UNTIL ALIEN"),
		said(20, 0, 15, "Alice", "false start"),
		notice(20, 5, 0, "Snackbot", "10 SECONDS UNTIL ALIEN"),
		said(20, 5, 15, "Alice", "real start"),
	}
	_, _, err := Slice(events, v, ids)
	if !errors.Is(err, ErrNoLines) {
		t.Fatalf("err = %v; want ErrNoLines", err)
	}
	if err.Error() != "Could not find lines for Alien: no lines found" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestSlice_StartFollowedBySplitIsSkipped(t *testing.T) {
	v := model.Viewing{Title: "Alien"}
	events := []model.Event{
		notice(20, 0, 0, "Snackbot", "10 SECONDS UNTIL ALIEN"),
		split(),
		notice(20, 1, 0, "Snackbot", "10 SECONDS UNTIL ALIEN"),
		said(20, 1, 15, "Alice", "hi"),
	}
	start, lines, err := Slice(events, v, ids)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if start.Minutes != 1 || len(lines) != 1 {
		t.Fatalf("start = %+v lines = %v", start, lines)
	}
}

func TestSlice_NotFound(t *testing.T) {
	v := model.Viewing{Title: "Alien", Year: "1979"}
	events := []model.Event{
		notice(20, 0, 0, "Snackbot", "10 SECONDS UNTIL ALIEN"), // pas d'année : clé différente
		said(20, 0, 15, "Alice", "hi"),
	}
	_, _, err := Slice(events, v, ids)
	if !errors.Is(err, ErrNoLines) {
		t.Fatalf("err = %v; want ErrNoLines", err)
	}
}
