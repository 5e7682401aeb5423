package githubclt

import (
	"context"
	"strconv"

	"github.com/google/go-github/v59/github"
)

const (
	resourceIssues = "issues"
	resourceIssue  = "issue"
)

// IssuesService provides access to the issues of a repository.
//
// GitHub API docs: https://docs.github.com/en/rest/issues/issues
type IssuesService struct {
	clt   *Client
	owner string
	repo  string
}

// Issues returns an IssuesService for the repository owner/repo.
func (clt *Client) Issues(owner, repo string) *IssuesService {
	return &IssuesService{clt: clt, owner: owner, repo: repo}
}

// List returns the first page of issues of the repository.
// Pull requests are reported as issues by the API, they have a non-nil
// PullRequestLinks field.
// opts can be nil.
func (s *IssuesService) List(ctx context.Context, opts *IssueListOptions) (*Page[*github.Issue], error) {
	q, err := encodeQuery(opts)
	if err != nil {
		return nil, err
	}

	return getPage[*github.Issue](
		ctx, s.clt, resourceIssues,
		s.clt.endpoint("repos", s.owner, s.repo, "issues"),
		q,
	)
}

// Get returns the issue with the given number.
func (s *IssuesService) Get(ctx context.Context, number int) (*github.Issue, error) {
	return getOne[github.Issue](
		ctx, s.clt, resourceIssue,
		s.clt.endpoint("repos", s.owner, s.repo, "issues", strconv.Itoa(number)),
	)
}
