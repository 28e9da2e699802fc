package feed

import (
	"fmt"
	"regexp"
	"strings"
)

// RawItem is one candidate extracted from a feed payload. Any field may be empty.
type RawItem struct {
	Title        string
	Link         string
	PublishedRaw string
	SummaryRaw   string
}

// Parser turns a raw feed payload into at most limit items in document order.
type Parser interface {
	Parse(raw string, limit int) ([]RawItem, error)
}

// NewParser returns the parser registered under name.
func NewParser(name string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pattern":
		return PatternParser{}, nil
	case "gofeed":
		return NewGofeedParser(), nil
	default:
		return nil, fmt.Errorf("feed: unknown parser %q", name)
	}
}

// PatternParser extracts RSS <item> or Atom <entry> blocks with regular
// expressions. It is best-effort: nested, malformed or attribute-heavy feeds
// may be mishandled, and it never reports an error.
type PatternParser struct{}

var (
	itemRe    = elementRe("item")
	entryRe   = elementRe("entry")
	titleRe   = elementRe("title")
	linkRe    = elementRe("link")
	hrefRe    = regexp.MustCompile(`(?is)<link\b[^>]*?\shref\s*=\s*["']([^"']+)["']`)
	pubDateRe = elementRe("pubDate")
	updatedRe = elementRe("updated")
	descRe    = elementRe("description")
	summaryRe = elementRe("summary")

	cdata = strings.NewReplacer("<![CDATA[", "", "]]>", "")
)

// elementRe matches <name ...>inner</name> non-greedily, case-insensitively
// and across lines. Self-closing tags never match.
func elementRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)<` + name + `(?:\s+[^>]*[^/>])?\s*>(.*?)</` + name + `\s*>`)
}

func (PatternParser) Parse(raw string, limit int) ([]RawItem, error) {
	blocks := itemRe.FindAllStringSubmatch(raw, -1)
	if len(blocks) == 0 {
		blocks = entryRe.FindAllStringSubmatch(raw, -1)
	}
	items := make([]RawItem, 0, len(blocks))
	for _, b := range blocks {
		if limit > 0 && len(items) >= limit {
			break
		}
		chunk := b[1]
		it := RawItem{
			Title:        firstText(chunk, titleRe),
			Link:         firstText(chunk, linkRe),
			PublishedRaw: firstText(chunk, pubDateRe, updatedRe),
			SummaryRaw:   firstText(chunk, descRe, summaryRe),
		}
		if it.Link == "" {
			if m := hrefRe.FindStringSubmatch(chunk); m != nil {
				it.Link = strings.TrimSpace(m[1])
			}
		}
		if it.Title == "" && it.Link == "" {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// firstText returns the first non-empty CDATA-unwrapped, trimmed match,
// trying patterns in priority order.
func firstText(chunk string, res ...*regexp.Regexp) string {
	for _, re := range res {
		m := re.FindStringSubmatch(chunk)
		if m == nil {
			continue
		}
		if s := strings.TrimSpace(cdata.Replace(m[1])); s != "" {
			return s
		}
	}
	return ""
}
