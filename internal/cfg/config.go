package cfg

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml"
)

type Config struct {
	GithubAPIURL   string `toml:"github_api_url"`
	GithubAPIToken string `toml:"github_api_token"`
	GithubAccept   string `toml:"github_accept"`
	PerPage        int    `toml:"per_page"`
	// MaxPages is the maximum number of pages that are retrieved for a
	// list command, 0 means unlimited.
	MaxPages   int       `toml:"max_pages"`
	LogFormat  string    `toml:"log_format"`
	LogTimeKey string    `toml:"log_time_key"`
	LogLevel   string    `toml:"log_level"`
	Filters    []*Filter `toml:"filter"`
}

// Filter is a named jq expression that can be referenced on the command
// line.
type Filter struct {
	Name  string `toml:"name"`
	Query string `toml:"query"`
}

func Load(reader io.Reader) (*Config, error) {
	var result Config

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	if err := result.validate(); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *Config) validate() error {
	if r.PerPage < 0 || r.PerPage > 100 {
		return fmt.Errorf("per_page must be between 0 and 100, is %d", r.PerPage)
	}

	if r.MaxPages < 0 {
		return fmt.Errorf("max_pages must not be negative, is %d", r.MaxPages)
	}

	seen := make(map[string]struct{}, len(r.Filters))
	for i, f := range r.Filters {
		if f.Name == "" {
			return fmt.Errorf("filter %d: missing field: 'name'", i)
		}

		if f.Query == "" {
			return fmt.Errorf("filter %s: missing field: 'query'", f.Name)
		}

		if _, exists := seen[f.Name]; exists {
			return fmt.Errorf("filter %s: name is not unique", f.Name)
		}

		seen[f.Name] = struct{}{}
	}

	return nil
}

// Filter returns the query of the filter with the given name.
func (r *Config) Filter(name string) (string, bool) {
	for _, f := range r.Filters {
		if f.Name == name {
			return f.Query, true
		}
	}

	return "", false
}

func (r *Config) Marshal(writer io.Writer) error {
	return toml.NewEncoder(writer).Encode(r)
}
