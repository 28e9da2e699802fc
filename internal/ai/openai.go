package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cofounder-radar/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// Briefer writes short market briefings over recent competitor events.
type Briefer interface {
	// BriefEvents summarizes what the events say about the market in the given language.
	BriefEvents(ctx context.Context, events []model.CompetitorEvent, language string) (string, error)
	// DescribeEvent writes a 1-2 sentence takeaway for a single event.
	DescribeEvent(ctx context.Context, ev model.CompetitorEvent, language string) (string, error)
}

// OpenAIClient implements Briefer using the Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for compatible gateways
}

func NewOpenAI(cfg Config) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("openai: model must be specified")
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cc), model: cfg.Model}, nil
}

func (o *OpenAIClient) BriefEvents(ctx context.Context, events []model.CompetitorEvent, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 300*time.Second)
	defer cancel()
	if len(events) == 0 {
		return "", nil
	}
	b := &strings.Builder{}
	for i, ev := range events {
		if i >= 20 {
			break
		}
		fmt.Fprintf(b, "- [%s] %s (%s)\n", ev.PublishedAt.UTC().Format("2006-01-02"), ev.Title, ev.Source)
	}
	sys := fmt.Sprintf(`
		You are a startup market analyst. Write in %s, 3 ~ 5 sentences (90–270 words).
		Point out funding rounds, launches and moves by competitors that matter to an early-stage founder.
		Plain text only, no links, no lists.
		`, langOrDefault(language))
	user := fmt.Sprintf("Recent market events (date, title and source):\n%s\nTask: Summarize what changed in the market.", b.String())
	out, err := o.create(ctx, sys, user)
	if err != nil {
		slog.Error("openai: brief events error", "err", err)
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (o *OpenAIClient) DescribeEvent(ctx context.Context, ev model.CompetitorEvent, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()
	content := strings.TrimSpace(ev.Summary)
	if content == "" {
		content = ev.Title
	}
	sys := fmt.Sprintf(`
		Write in %s, return 1–2 sentences (20–60 words) stating the takeaway of this news item for a startup founder.
		`, langOrDefault(language))
	user := fmt.Sprintf("Title: %s\nSource: %s\nContent: %s", ev.Title, ev.Source, content)
	out, err := o.create(ctx, sys, user)
	if err != nil {
		slog.Error("openai: describe event error", "err", err)
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (o *OpenAIClient) create(ctx context.Context, system, user string) (string, error) {
	// Default timeout guard, if caller didn't set one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func langOrDefault(lang string) string {
	l := strings.TrimSpace(lang)
	if l == "" {
		return "English"
	}
	return l
}
