package digest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cofounder-radar/internal/model"

	"gopkg.in/yaml.v3"
)

type fakeBriefer struct {
	brief    string
	briefErr error
	describe string
}

func (f fakeBriefer) BriefEvents(ctx context.Context, events []model.CompetitorEvent, language string) (string, error) {
	return f.brief, f.briefErr
}

func (f fakeBriefer) DescribeEvent(ctx context.Context, ev model.CompetitorEvent, language string) (string, error) {
	return f.describe, nil
}

var day = time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC)

func sampleEvents() []model.CompetitorEvent {
	return []model.CompetitorEvent{
		{Title: "Acme raises $10M", URL: "http://x.com/a", Source: "Hacker News", Summary: "Series A.", PublishedAt: day},
		{Title: "Beta launches", URL: "http://x.com/b", Source: "TechCrunch Startups", PublishedAt: day.Add(-time.Hour)},
		{Title: "Gamma pivots", URL: "http://x.com/c", Source: "Crunchbase News", PublishedAt: day.Add(-2 * time.Hour)},
		{Title: "Delta shuts down", URL: "http://x.com/d", Source: "AngelList Blog", PublishedAt: day.Add(-3 * time.Hour)},
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(day); got != "digest-20240305.md" {
		t.Fatalf("Filename = %q", got)
	}
}

func TestExpandVars(t *testing.T) {
	if got := ExpandVars("Radar {.CurrentDate}", day); got != "Radar 2024-03-05" {
		t.Fatalf("ExpandVars = %q", got)
	}
}

func TestComposeWithoutBriefer(t *testing.T) {
	d := Compose(context.Background(), sampleEvents(), nil, Options{TopN: 3, Now: day})
	if len(d.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(d.Items))
	}
	if d.Title != "Market digest 2024-03-05" || d.Slug != "digest-20240305" {
		t.Errorf("title/slug = %q/%q", d.Title, d.Slug)
	}
	if d.Items[0].Description != "Series A." {
		t.Errorf("description should fall back to summary, got %q", d.Items[0].Description)
	}
	want := "Top highlights: Acme raises $10M, Beta launches, Gamma pivots."
	if d.Summary != want {
		t.Errorf("summary = %q, want %q", d.Summary, want)
	}
}

func TestComposeWithBriefer(t *testing.T) {
	b := fakeBriefer{brief: " Funding is up. ", describe: "Worth watching."}
	d := Compose(context.Background(), sampleEvents(), b, Options{Title: "Radar {.CurrentDate}", Now: day})
	if d.Summary != "Funding is up." {
		t.Errorf("summary = %q", d.Summary)
	}
	if d.Title != "Radar 2024-03-05" {
		t.Errorf("title = %q", d.Title)
	}
	for _, it := range d.Items {
		if it.Description != "Worth watching." {
			t.Fatalf("description = %q", it.Description)
		}
	}
}

func TestComposeBrieferErrorFallsBack(t *testing.T) {
	b := fakeBriefer{briefErr: errors.New("quota")}
	d := Compose(context.Background(), sampleEvents()[:1], b, Options{Now: day})
	if d.Summary != "Top highlights: Acme raises $10M." {
		t.Fatalf("summary = %q", d.Summary)
	}
}

func TestRender(t *testing.T) {
	d := Compose(context.Background(), sampleEvents()[:2], nil, Options{Title: "Radar: weekly", Now: day})
	out, err := Render(d)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.HasPrefix(out, "---\n") {
		t.Fatalf("missing frontmatter:\n%s", out)
	}
	parts := strings.SplitN(out, "---\n", 3)
	if len(parts) != 3 {
		t.Fatalf("frontmatter not terminated:\n%s", out)
	}
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		t.Fatalf("frontmatter is not valid yaml: %v", err)
	}
	if fm.Title != "Radar: weekly" || fm.Slug != "digest-20240305" {
		t.Errorf("frontmatter = %+v", fm)
	}
	for _, want := range []string{
		"## 1. [Acme raises $10M](http://x.com/a)",
		"## 2. [Beta launches](http://x.com/b)",
		"_Hacker News · 2024-03-05 08:30_",
		"Series A.",
	} {
		if !strings.Contains(parts[2], want) {
			t.Errorf("body missing %q:\n%s", want, parts[2])
		}
	}
}

func TestRenderPrefaceAndPostscript(t *testing.T) {
	d := Compose(context.Background(), sampleEvents()[:1], nil, Options{
		Preface:    "Moves collected on {.CurrentDate}.",
		Postscript: "Reply from the dashboard.",
		Now:        day,
	})
	if d.Preface != "Moves collected on 2024-03-05." {
		t.Errorf("preface = %q", d.Preface)
	}
	out, err := Render(d)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	pre := strings.Index(out, "Moves collected on 2024-03-05.")
	item := strings.Index(out, "## 1. [Acme raises $10M]")
	post := strings.Index(out, "Reply from the dashboard.")
	if pre < 0 || item < 0 || post < 0 || !(pre < item && item < post) {
		t.Fatalf("preface/items/postscript out of order (%d, %d, %d):\n%s", pre, item, post, out)
	}
}
