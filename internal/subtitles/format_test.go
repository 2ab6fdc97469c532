package subtitles

import (
	"regexp"
	"testing"
)

var hex6 = regexp.MustCompile(`^[0-9a-f]{6}$`)

func TestColorOf(t *testing.T) {
	// md5("") = d41d8cd98f00b204e9800998ecf8427e
	if got := ColorOf("@"); got != "d41d8c" {
		t.Errorf("ColorOf(@) = %q; want d41d8c", got)
	}
	if ColorOf("Alice") != ColorOf("Alice") {
		t.Error("ColorOf not stable")
	}
	for _, decorated := range []string{"@Alice", "+Alice", "~Alice_", "<Alice>", " *Alice* "} {
		if ColorOf(decorated) != ColorOf("Alice") {
			t.Errorf("ColorOf(%q) differs from ColorOf(Alice)", decorated)
		}
	}
	if !hex6.MatchString(ColorOf("Bob")) {
		t.Errorf("ColorOf(Bob) = %q; want 6 hex digits", ColorOf("Bob"))
	}
}

func TestBGR(t *testing.T) {
	if got := BGR("123456"); got != "563412" {
		t.Errorf("BGR = %q; want 563412", got)
	}
	if got := BGR("abc"); got != "abc" {
		t.Errorf("BGR(short) = %q; want unchanged", got)
	}
}

func TestTimeFormats(t *testing.T) {
	tests := []struct {
		sec      float64
		srt, ass string
	}{
		{0, "00:00:00,000", "0:00:00.00"},
		{7, "00:00:07,000", "0:00:07.00"},
		{3661.5, "01:01:01,500", "1:01:01.50"},
		{5400.25, "01:30:00,250", "1:30:00.25"},
		{-3, "-1:59:57,000", "-1:59:57.00"},
	}
	for _, tc := range tests {
		if got := SRTTime(tc.sec); got != tc.srt {
			t.Errorf("SRTTime(%v) = %q; want %q", tc.sec, got, tc.srt)
		}
		if got := ASSTime(tc.sec); got != tc.ass {
			t.Errorf("ASSTime(%v) = %q; want %q", tc.sec, got, tc.ass)
		}
	}
}
