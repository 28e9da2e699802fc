package feed

import (
	"strings"

	"github.com/mmcdole/gofeed"
)

// GofeedParser parses with a conformant RSS/Atom/JSON feed parser while
// keeping the same field priority as PatternParser.
type GofeedParser struct {
	fp *gofeed.Parser
}

func NewGofeedParser() *GofeedParser {
	return &GofeedParser{fp: gofeed.NewParser()}
}

func (p *GofeedParser) Parse(raw string, limit int) ([]RawItem, error) {
	f, err := p.fp.ParseString(raw)
	if err != nil {
		return nil, err
	}
	items := make([]RawItem, 0, len(f.Items))
	for _, fi := range f.Items {
		if limit > 0 && len(items) >= limit {
			break
		}
		it := RawItem{
			Title:        strings.TrimSpace(fi.Title),
			Link:         strings.TrimSpace(fi.Link),
			PublishedRaw: publishedRaw(f.FeedType, fi),
			SummaryRaw:   strings.TrimSpace(fi.Description),
		}
		if it.Link == "" && len(fi.Links) > 0 {
			it.Link = strings.TrimSpace(fi.Links[0])
		}
		if it.SummaryRaw == "" {
			it.SummaryRaw = strings.TrimSpace(fi.Custom["summary"])
		}
		if it.Title == "" && it.Link == "" {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// publishedRaw follows the pattern parser's <pubDate> then <updated> order.
// Atom has no pubDate, so entries use <updated> and never <published>; RSS
// items use pubDate, then a bare <updated> element.
func publishedRaw(feedType string, fi *gofeed.Item) string {
	if feedType == "atom" {
		return strings.TrimSpace(fi.Updated)
	}
	if s := strings.TrimSpace(fi.Published); s != "" {
		return s
	}
	return strings.TrimSpace(fi.Custom["updated"])
}
