package feed

import (
	"fmt"
	"os"
	"strings"

	"cofounder-radar/internal/config"

	"gopkg.in/yaml.v3"
)

// Source is a named RSS/Atom URL polled by the refresher.
type Source = config.FeedSource

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads a YAML registry of the form:
//
//	sources:
//	  - name: Hacker News
//	    url: https://hnrss.org/frontpage
func LoadSources(path string) ([]Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f sourcesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}
	out := make([]Source, 0, len(f.Sources))
	for i, s := range f.Sources {
		s.Name = strings.TrimSpace(s.Name)
		s.URL = strings.TrimSpace(s.URL)
		if s.Name == "" || s.URL == "" {
			return nil, fmt.Errorf("sources file %s: entry %d needs name and url", path, i)
		}
		out = append(out, s)
	}
	return out, nil
}

// Registry resolves the configured sources: inline entries first, then the
// sources file when one is set.
func Registry(cfg config.RefreshConfig) ([]Source, error) {
	out := append([]Source(nil), cfg.Sources...)
	if strings.TrimSpace(cfg.SourcesFile) != "" {
		fromFile, err := LoadSources(cfg.SourcesFile)
		if err != nil {
			return nil, err
		}
		out = append(out, fromFile...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no feed sources configured")
	}
	return out, nil
}

// MarshalSources renders sources in the same YAML shape LoadSources reads.
func MarshalSources(sources []Source) ([]byte, error) {
	return yaml.Marshal(sourcesFile{Sources: sources})
}
