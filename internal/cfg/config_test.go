package cfg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleCfg = `
github_api_url = "https://ghes.example.com/api/v3/"
github_api_token = "abc"
per_page = 50
max_pages = 3
log_format = "json"
log_time_key = "time"
log_level = "debug"

[[filter]]
name = "opened"
query = '.payload.action == "opened"'

[[filter]]
name = "pulls"
query = '.type == "PullRequestEvent"'
`

func TestLoad(t *testing.T) {
	cfg, err := Load(strings.NewReader(exampleCfg))
	require.NoError(t, err)

	assert.Equal(t, "https://ghes.example.com/api/v3/", cfg.GithubAPIURL)
	assert.Equal(t, "abc", cfg.GithubAPIToken)
	assert.Equal(t, 50, cfg.PerPage)
	assert.Equal(t, 3, cfg.MaxPages)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "time", cfg.LogTimeKey)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.Len(t, cfg.Filters, 2)

	q, exists := cfg.Filter("pulls")
	require.True(t, exists)
	assert.Equal(t, `.type == "PullRequestEvent"`, q)

	_, exists = cfg.Filter("closed")
	assert.False(t, exists)
}

func TestLoadEmpty(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cfg.GithubAPIURL)
	assert.Zero(t, cfg.MaxPages)
}

func TestLoadInvalid(t *testing.T) {
	tcs := []struct {
		name string
		cfg  string
	}{
		{name: "syntaxError", cfg: `per_page = `},
		{name: "perPageTooLarge", cfg: `per_page = 101`},
		{name: "negativeMaxPages", cfg: `max_pages = -1`},
		{name: "filterWithoutName", cfg: "[[filter]]\nquery = \"true\""},
		{name: "filterWithoutQuery", cfg: "[[filter]]\nname = \"x\""},
		{name: "duplicateFilter", cfg: "[[filter]]\nname = \"x\"\nquery = \"true\"\n[[filter]]\nname = \"x\"\nquery = \"false\""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.cfg))
			assert.Error(t, err)
		})
	}
}

func TestMarshalRoundtrip(t *testing.T) {
	cfg, err := Load(strings.NewReader(exampleCfg))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.Marshal(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
