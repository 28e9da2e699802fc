package feed

import (
	"html"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/microcosm-cc/bluemonday"
)

const (
	maxSummaryRunes = 500
	untitled        = "Untitled"
)

// Candidate is a RawItem resolved to concrete values ready for fingerprinting.
type Candidate struct {
	Source      string
	Title       string
	URL         string
	Summary     string
	PublishedAt time.Time
}

var stripPolicy = bluemonday.StrictPolicy()

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339Nano,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
	"2006-01-02T15:04:05Z0700",
}

// Normalize resolves defaults: an empty title becomes "Untitled", a missing or
// unparseable date becomes now, and the summary is reduced to plain text.
func Normalize(src Source, it RawItem, now time.Time) Candidate {
	title := it.Title
	if title == "" {
		title = untitled
	}
	published, ok := ParseDate(it.PublishedRaw)
	if !ok {
		published = now
	}
	return Candidate{
		Source:      src.Name,
		Title:       title,
		URL:         it.Link,
		Summary:     PlainText(it.SummaryRaw, maxSummaryRunes),
		PublishedAt: published.UTC().Truncate(time.Millisecond),
	}
}

// ParseDate accepts the RSS/Atom date formats seen in practice.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return withZoneOffset(t).UTC(), true
		}
	}
	if t, err := dateparse.ParseIn(raw, time.UTC); err == nil {
		return withZoneOffset(t).UTC(), true
	}
	return time.Time{}, false
}

// RFC 822 names these zones explicitly. Parsing in UTC gives any other
// abbreviation a zero offset, so they are corrected afterwards.
var zoneOffsets = map[string]int{
	"EST": -5, "EDT": -4,
	"CST": -6, "CDT": -5,
	"MST": -7, "MDT": -6,
	"PST": -8, "PDT": -7,
}

// withZoneOffset re-anchors a wall-clock time parsed with a known North
// American abbreviation but no offset.
func withZoneOffset(t time.Time) time.Time {
	name, off := t.Zone()
	hours, ok := zoneOffsets[strings.ToUpper(name)]
	if !ok || off != 0 {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		time.FixedZone(name, hours*3600))
}

// PlainText strips markup and entities, collapses whitespace and truncates
// to limit runes.
func PlainText(s string, limit int) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	out := html.UnescapeString(stripPolicy.Sanitize(s))
	// escaped markup (&lt;p&gt;) only becomes tags after the first unescape
	if strings.ContainsAny(out, "<>") {
		out = html.UnescapeString(stripPolicy.Sanitize(out))
	}
	out = strings.Join(strings.Fields(out), " ")
	if r := []rune(out); limit > 0 && len(r) > limit {
		out = string(r[:limit])
	}
	return out
}
