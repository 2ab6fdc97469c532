package irclog

import (
	"strings"
	"testing"

	"github.com/patrickprogramme/drivein/internal/assets"
	"github.com/patrickprogramme/drivein/pkg/model"
)

func hexchatTable(t *testing.T) RuleTable {
	t.Helper()
	table, err := LoadRuleTable(assets.Embedded, assets.FormatsDir, "hexchat")
	if err != nil {
		t.Fatalf("LoadRuleTable(hexchat): %v", err)
	}
	return table
}

func TestClassify_Roles(t *testing.T) {
	table := hexchatTable(t)

	tests := []struct {
		name      string
		line      string
		wantRole  model.Role
		wantNick  string
		wantWords string
		wantField map[string]string
	}{
		{
			name:      "said",
			line:      "Jan 05 20:00:15 <Alice> hello there",
			wantRole:  model.RoleSaid,
			wantNick:  "Alice",
			wantWords: "hello there",
		},
		{
			name:      "said with crlf",
			line:      "Jan 05 20:00:15 <Bob_> a/10 \"b\"\r\n",
			wantRole:  model.RoleSaid,
			wantNick:  "Bob_",
			wantWords: "a/10 \"b\"",
		},
		{
			name:      "join",
			line:      "Jan 05 20:01:00 *\tBob (~bob@host.example) has joined",
			wantRole:  model.RoleJoin,
			wantNick:  "Bob",
			wantField: map[string]string{"action": "joined"},
		},
		{
			name:      "quit with reason",
			line:      "Jan 05 20:02:00 *\tBob (~bob@host.example) has quit (Ping timeout)",
			wantRole:  model.RoleQuit,
			wantNick:  "Bob",
			wantField: map[string]string{"action": "quit", "reason": "Ping timeout"},
		},
		{
			name:      "part",
			line:      "Jan 05 20:02:30 *\tCarol (~c@h) has left",
			wantRole:  model.RolePart,
			wantNick:  "Carol",
			wantField: map[string]string{"action": "left"},
		},
		{
			name:      "action",
			line:      "Jan 05 20:03:00 *\tBob waves at the screen",
			wantRole:  model.RoleAction,
			wantNick:  "Bob",
			wantWords: "waves at the screen",
		},
		{
			name:      "notice with source",
			line:      "Jan 05 20:04:00 -Snackbot/#drive-in- 10 SECONDS UNTIL ALIEN",
			wantRole:  model.RoleNotice,
			wantNick:  "Snackbot",
			wantWords: "10 SECONDS UNTIL ALIEN",
			wantField: map[string]string{"source": "drive-in"},
		},
		{
			name:      "notice without source",
			line:      "Jan 05 20:04:00 -NickServ- This nickname is registered.",
			wantRole:  model.RoleNotice,
			wantNick:  "NickServ",
			wantWords: "This nickname is registered.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev, ok := Classify(tc.line, table)
			if !ok {
				t.Fatalf("Classify(%q) returned no event", tc.line)
			}
			if ev.Role != tc.wantRole {
				t.Errorf("role = %q; want %q", ev.Role, tc.wantRole)
			}
			if ev.Nickname != tc.wantNick {
				t.Errorf("nickname = %q; want %q", ev.Nickname, tc.wantNick)
			}
			if ev.Words != tc.wantWords {
				t.Errorf("words = %q; want %q", ev.Words, tc.wantWords)
			}
			for k, v := range tc.wantField {
				if got := ev.Field(k); got != v {
					t.Errorf("field %s = %q; want %q", k, got, v)
				}
			}
			if !ev.HasTime {
				t.Errorf("expected HasTime for %q", tc.line)
			}
		})
	}
}

func TestClassify_Time(t *testing.T) {
	table := hexchatTable(t)
	ev, ok := Classify("Dec 31 23:59:58 <Alice> bye", table)
	if !ok {
		t.Fatal("expected an event")
	}
	if ev.Hours != 23 || ev.Minutes != 59 || ev.Seconds != 58 {
		t.Fatalf("time = %02d:%02d:%02d; want 23:59:58", ev.Hours, ev.Minutes, ev.Seconds)
	}
	if ev.SecondsOfDay() != 23*3600+59*60+58 {
		t.Fatalf("SecondsOfDay = %d", ev.SecondsOfDay())
	}
}

func TestClassify_SplitHasNoTime(t *testing.T) {
	table := hexchatTable(t)
	ev, ok := Classify("**** BEGIN LOGGING AT Sat Jan  6 00:00:00 2024", table)
	if !ok {
		t.Fatal("expected a split event")
	}
	if ev.Role != model.RoleSplit {
		t.Fatalf("role = %q; want split", ev.Role)
	}
	if ev.HasTime || ev.Hours != 0 || ev.Minutes != 0 || ev.Seconds != 0 {
		t.Fatalf("split must default time fields to zero, got %+v", ev)
	}
}

func TestClassify_IgnoreWinsOverOtherRules(t *testing.T) {
	table := hexchatTable(t)
	// ces lignes correspondent aussi à la règle "action"
	lines := []string{
		"Jan 05 19:59:00 *\tNow talking on #drive-in",
		"Jan 05 19:59:00 *\tTopic for #drive-in is: movies",
	}
	for _, l := range lines {
		if ev, ok := Classify(l, table); ok {
			t.Errorf("Classify(%q) = %+v; want ignored", l, ev)
		}
	}
}

func TestClassify_NoMatchIsDropped(t *testing.T) {
	table := hexchatTable(t)
	for _, l := range []string{"", "garbage", "Jan 05 20:00:00 nothing here"} {
		if _, ok := Classify(l, table); ok {
			t.Errorf("Classify(%q) should not match", l)
		}
	}
}

func TestParse_CountsAndOrder(t *testing.T) {
	table := hexchatTable(t)
	log := strings.Join([]string{
		"**** BEGIN LOGGING AT Sat Jan  6 00:00:00 2024",
		"Jan 05 19:59:00 *\tNow talking on #drive-in",
		"Jan 05 20:00:15 <Alice> hello",
		"random noise",
		"Jan 05 20:00:16 <Bob> hello",
	}, "\n")

	events, stats, err := Parse(strings.NewReader(log), table)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3: %v", len(events), events)
	}
	if stats.Lines != 5 || stats.Dropped != 2 {
		t.Errorf("stats = %+v; want Lines=5 Dropped=2", stats)
	}
	if stats.ByRole[model.RoleSaid] != 2 || stats.ByRole[model.RoleSplit] != 1 {
		t.Errorf("ByRole = %v", stats.ByRole)
	}
	if events[1].Nickname != "Alice" || events[1].Line != 3 {
		t.Errorf("second event = %+v; want Alice on line 3", events[1])
	}
}

func TestParseRuleTable_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing time", "name: x\nrules:\n  - name: said\n    role: said\n    pattern: 'a'\n"},
		{"bad regex", "name: x\nrules:\n  - name: said\n    role: said\n    pattern: '('\n"},
		{"unknown role", "name: x\nrules:\n  - name: yell\n    role: yell\n    pattern: 'a'\n  - name: time\n    pattern: 'b'\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseRuleTable([]byte(tc.yaml)); err == nil {
				t.Fatalf("expected an error for %s", tc.name)
			}
		})
	}
}

func TestLoadRuleTable_Unknown(t *testing.T) {
	if _, err := LoadRuleTable(assets.Embedded, assets.FormatsDir, "mirc"); err == nil {
		t.Fatal("expected ErrUnknownTable")
	}
}
