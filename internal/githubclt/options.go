package githubclt

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/go-querystring/query"
)

// ListOptions are the pagination parameters supported by all list
// operations.
type ListOptions struct {
	// Page is the number of the page to retrieve, the first page is 1.
	Page int `url:"page,omitempty"`
	// PerPage is the maximum number of items per page.
	PerPage int `url:"per_page,omitempty"`
}

// IssueListOptions are the parameters for listing the issues of a repository.
// Fields with zero values are not sent.
type IssueListOptions struct {
	// Milestone is a milestone number, "none" or "*".
	Milestone string `url:"milestone,omitempty"`
	// State is one of "open", "closed" or "all".
	State     string   `url:"state,omitempty"`
	Assignee  string   `url:"assignee,omitempty"`
	Creator   string   `url:"creator,omitempty"`
	Mentioned string   `url:"mentioned,omitempty"`
	Labels    []string `url:"labels,comma,omitempty"`
	// Sort is one of "created", "updated" or "comments".
	Sort string `url:"sort,omitempty"`
	// Direction is "asc" or "desc".
	Direction string    `url:"direction,omitempty"`
	Since     time.Time `url:"since,omitempty"`

	ListOptions
}

// PullRequestListOptions are the parameters for listing the pull requests
// of a repository.
type PullRequestListOptions struct {
	State string `url:"state,omitempty"`
	// Head filters by the head branch in the form user:ref-name.
	Head string `url:"head,omitempty"`
	// Base filters by base branch name.
	Base      string `url:"base,omitempty"`
	Sort      string `url:"sort,omitempty"`
	Direction string `url:"direction,omitempty"`

	ListOptions
}

// encodeQuery converts an options struct to query parameters.
// opts can be a nil pointer.
func encodeQuery(opts any) (url.Values, error) {
	vals, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("encoding query parameters failed: %w", err)
	}

	return vals, nil
}
