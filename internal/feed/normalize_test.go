package feed

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeConcreteItem(t *testing.T) {
	now := time.Date(2025, 5, 5, 5, 5, 5, 0, time.UTC)
	c := Normalize(Source{Name: "Hacker News"}, RawItem{
		Title:        "Acme raises $10M",
		Link:         "http://x.com/a",
		PublishedRaw: "Mon, 01 Jan 2024 00:00:00 GMT",
	}, now)
	if !c.PublishedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("publishedAt = %v", c.PublishedAt)
	}
	if c.Summary != "" {
		t.Errorf("summary = %q, want empty", c.Summary)
	}
	if c.Source != "Hacker News" || c.URL != "http://x.com/a" {
		t.Errorf("unexpected candidate %+v", c)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	now := time.Date(2025, 5, 5, 5, 5, 5, 987654321, time.UTC)
	c := Normalize(Source{Name: "s"}, RawItem{Link: "http://x.com/b", PublishedRaw: "someday"}, now)
	if c.Title != "Untitled" {
		t.Errorf("title = %q", c.Title)
	}
	if !c.PublishedAt.Equal(now.Truncate(time.Millisecond)) {
		t.Errorf("publishedAt = %v, want now truncated to ms", c.PublishedAt)
	}
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"Mon, 01 Jan 2024 00:00:00 GMT":   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"Mon, 01 Jan 2024 02:00:00 +0200": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"Tue, 2 Jan 2024 10:00:00 +0000":  time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		"2024-02-03T04:05:06Z":            time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
		"2024-02-03T04:05:06.5+01:00":     time.Date(2024, 2, 3, 3, 5, 6, 500000000, time.UTC),
		"Mon, 01 Jan 2024 00:00:00 EST":   time.Date(2024, 1, 1, 5, 0, 0, 0, time.UTC),
		"Mon, 01 Jan 2024 00:00:00 EDT":   time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC),
		"Mon, 01 Jan 2024 00:00:00 CST":   time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC),
		"Mon, 01 Jan 2024 00:00:00 CDT":   time.Date(2024, 1, 1, 5, 0, 0, 0, time.UTC),
		"Mon, 01 Jan 2024 00:00:00 MST":   time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC),
		"Mon, 01 Jan 2024 00:00:00 MDT":   time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC),
		"Mon, 01 Jan 2024 00:00:00 PST":   time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		"Mon, 1 Jan 2024 00:00:00 PDT":    time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, ok := ParseDate(in)
		if !ok || !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v %v, want %v", in, got, ok, want)
		}
	}
	for _, bad := range []string{"", "   ", "not a date"} {
		if _, ok := ParseDate(bad); ok {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestPlainText(t *testing.T) {
	if got := PlainText("<p>Series A led by <b>Foo</b> &amp; Bar</p>", 500); got != "Series A led by Foo & Bar" {
		t.Errorf("PlainText = %q", got)
	}
	if got := PlainText("&lt;p&gt;escaped &lt;i&gt;markup&lt;/i&gt;&lt;/p&gt;", 500); got != "escaped markup" {
		t.Errorf("escaped PlainText = %q", got)
	}
	long := strings.Repeat("é", 600)
	if got := PlainText(long, 500); len([]rune(got)) != 500 {
		t.Errorf("truncated to %d runes, want 500", len([]rune(got)))
	}
}
