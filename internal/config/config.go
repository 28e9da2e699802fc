package config

import (
	"fmt"
	"strings"
	"time"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text or json
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // redis or mongo
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MongoConfig holds document store connection settings.
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// HTTPConfig controls the API server.
type HTTPConfig struct {
	Addr         string `mapstructure:"addr"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
}

// FeedSource is a named RSS/Atom URL polled by the refresher.
type FeedSource struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url" yaml:"url"`
}

// RefreshConfig controls the ingestion pipeline.
type RefreshConfig struct {
	Interval     string       `mapstructure:"interval"`      // empty disables the periodic worker
	FetchTimeout string       `mapstructure:"fetch_timeout"` // per feed, e.g. "15s"
	HostInterval string       `mapstructure:"host_interval"` // min spacing between requests to one host
	UserAgent    string       `mapstructure:"user_agent"`
	MaxItems     int          `mapstructure:"max_items"`
	Parser       string       `mapstructure:"parser"`      // pattern or gofeed
	Fingerprint  string       `mapstructure:"fingerprint"` // rolling32 or sha256
	SourcesFile  string       `mapstructure:"sources_file"`
	Sources      []FeedSource `mapstructure:"sources"`
}

// AlertsConfig controls the summary alert raised after a refresh.
type AlertsConfig struct {
	Title string `mapstructure:"title"`
	Link  string `mapstructure:"link"`
}

// OpenAIConfig configures the market briefing client.
type OpenAIConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
	Language string `mapstructure:"language"`
}

// DigestConfig controls the Markdown market digest.
type DigestConfig struct {
	OutputDir  string `mapstructure:"output_dir"`
	Interval   string `mapstructure:"interval"` // empty disables the digest worker
	TopN       int    `mapstructure:"top_n"`
	Title      string `mapstructure:"title"`
	Preface    string `mapstructure:"preface"`    // Markdown placed before the items
	Postscript string `mapstructure:"postscript"` // Markdown placed after the items
}

// Config is the top-level configuration structure.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Store   StoreConfig   `mapstructure:"store"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Alerts  AlertsConfig  `mapstructure:"alerts"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Digest  DigestConfig  `mapstructure:"digest"`
}

// DefaultSources is the registry used when no sources are configured.
var DefaultSources = []FeedSource{
	{Name: "TechCrunch Startups", URL: "https://techcrunch.com/category/startups/feed/"},
	{Name: "Hacker News", URL: "https://hnrss.org/frontpage"},
	{Name: "Crunchbase News", URL: "https://news.crunchbase.com/feed/"},
	{Name: "AngelList Blog", URL: "https://www.angellist.com/blog/rss"},
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "text"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "redis"
	}
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Mongo.URI == "" {
		c.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "ai_cofounder"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ReadTimeout == "" {
		c.HTTP.ReadTimeout = "30s"
	}
	if c.HTTP.WriteTimeout == "" {
		c.HTTP.WriteTimeout = "5m"
	}
	if c.Refresh.FetchTimeout == "" {
		c.Refresh.FetchTimeout = "15s"
	}
	if c.Refresh.HostInterval == "" {
		c.Refresh.HostInterval = "1s"
	}
	if c.Refresh.UserAgent == "" {
		c.Refresh.UserAgent = "ai-cofounder-bot"
	}
	if c.Refresh.MaxItems == 0 {
		c.Refresh.MaxItems = 15
	}
	if c.Refresh.Parser == "" {
		c.Refresh.Parser = "pattern"
	}
	if c.Refresh.Fingerprint == "" {
		c.Refresh.Fingerprint = "rolling32"
	}
	if len(c.Refresh.Sources) == 0 && c.Refresh.SourcesFile == "" {
		c.Refresh.Sources = append([]FeedSource(nil), DefaultSources...)
	}
	if c.Alerts.Title == "" {
		c.Alerts.Title = "New market updates"
	}
	if c.Alerts.Link == "" {
		c.Alerts.Link = "/dashboard"
	}
	if c.OpenAI.Language == "" {
		c.OpenAI.Language = "English"
	}
	if c.Digest.OutputDir == "" {
		c.Digest.OutputDir = "./out"
	}
	if c.Digest.TopN == 0 {
		c.Digest.TopN = 20
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "redis", "mongo":
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}
	switch c.Refresh.Parser {
	case "pattern", "gofeed":
	default:
		return fmt.Errorf("unknown refresh parser: %s", c.Refresh.Parser)
	}
	switch c.Refresh.Fingerprint {
	case "rolling32", "sha256":
	default:
		return fmt.Errorf("unknown fingerprint algorithm: %s", c.Refresh.Fingerprint)
	}
	for _, d := range []struct{ name, v string }{
		{"http.read_timeout", c.HTTP.ReadTimeout},
		{"http.write_timeout", c.HTTP.WriteTimeout},
		{"refresh.fetch_timeout", c.Refresh.FetchTimeout},
		{"refresh.host_interval", c.Refresh.HostInterval},
		{"refresh.interval", c.Refresh.Interval},
		{"digest.interval", c.Digest.Interval},
	} {
		if d.v == "" {
			continue
		}
		if _, err := time.ParseDuration(d.v); err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
	}
	for i, s := range c.Refresh.Sources {
		if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.URL) == "" {
			return fmt.Errorf("refresh.sources[%d]: name and url are required", i)
		}
	}
	return nil
}

// Duration parses a duration string already checked by Validate; empty yields zero.
func Duration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, _ := time.ParseDuration(s)
	return d
}
