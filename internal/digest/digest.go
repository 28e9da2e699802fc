// Package digest renders recent competitor events as a Markdown market digest
// with YAML frontmatter.
package digest

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"cofounder-radar/internal/ai"
	"cofounder-radar/internal/model"

	"gopkg.in/yaml.v3"
)

type Item struct {
	Title       string
	URL         string
	Source      string
	Published   string
	Description string
}

type Data struct {
	Title      string
	Slug       string
	Datetime   string
	Summary    string
	Preface    string
	Postscript string
	Items      []Item
}

// Options controls how Compose turns events into digest data.
type Options struct {
	Title      string // supports {.CurrentDate}
	Language   string
	TopN       int
	Preface    string // supports {.CurrentDate}
	Postscript string
	Now        time.Time
}

type frontmatter struct {
	Title    string `yaml:"title"`
	Slug     string `yaml:"slug"`
	Datetime string `yaml:"datetime"`
	Summary  string `yaml:"summary,omitempty"`
}

//go:embed digest.tmpl
var digestTpl string

var compiled = template.Must(template.New("digest").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(digestTpl))

// Filename returns the file name of the digest for the given day.
func Filename(now time.Time) string {
	return fmt.Sprintf("digest-%s.md", now.UTC().Format("20060102"))
}

// Render executes the digest template. Frontmatter values are YAML-encoded so
// titles with colons or quotes stay valid.
func Render(d Data) (string, error) {
	fm, err := yaml.Marshal(frontmatter{Title: d.Title, Slug: d.Slug, Datetime: d.Datetime, Summary: d.Summary})
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = compiled.Execute(&buf, struct {
		Data
		Frontmatter string
	}{Data: d, Frontmatter: string(fm)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Compose builds digest data from events, newest first. The briefer is
// optional; without it the summary falls back to the leading titles and item
// descriptions to the stored event summaries.
func Compose(ctx context.Context, events []model.CompetitorEvent, b ai.Briefer, opts Options) Data {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	n := len(events)
	if opts.TopN > 0 && opts.TopN < n {
		n = opts.TopN
	}
	events = events[:n]

	title := strings.TrimSpace(ExpandVars(opts.Title, now))
	if title == "" {
		title = fmt.Sprintf("Market digest %s", now.UTC().Format("2006-01-02"))
	}
	d := Data{
		Title:      title,
		Slug:       strings.TrimSuffix(Filename(now), ".md"),
		Datetime:   now.UTC().Format("2006-01-02 15:04"),
		Preface:    strings.TrimSpace(ExpandVars(opts.Preface, now)),
		Postscript: strings.TrimSpace(opts.Postscript),
		Items:      make([]Item, 0, n),
	}
	for _, ev := range events {
		desc := ev.Summary
		if b != nil {
			if s, err := b.DescribeEvent(ctx, ev, opts.Language); err == nil && s != "" {
				desc = s
			}
		}
		d.Items = append(d.Items, Item{
			Title:       ev.Title,
			URL:         ev.URL,
			Source:      ev.Source,
			Published:   ev.PublishedAt.UTC().Format("2006-01-02 15:04"),
			Description: desc,
		})
	}
	if b != nil {
		s, err := b.BriefEvents(ctx, events, opts.Language)
		if err != nil {
			slog.Warn("digest: brief failed", "err", err)
		}
		d.Summary = strings.TrimSpace(s)
	}
	if d.Summary == "" {
		d.Summary = Highlights(events, 3)
	}
	return d
}

// Highlights joins up to k leading titles into a one-line summary.
func Highlights(events []model.CompetitorEvent, k int) string {
	titles := make([]string, 0, k)
	for i := 0; i < len(events) && i < k; i++ {
		titles = append(titles, events[i].Title)
	}
	if len(titles) == 0 {
		return ""
	}
	return fmt.Sprintf("Top highlights: %s.", strings.Join(titles, ", "))
}
