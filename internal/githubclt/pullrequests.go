package githubclt

import (
	"context"
	"strconv"

	"github.com/google/go-github/v59/github"
)

const (
	resourcePullRequests = "pulls"
	resourcePullRequest  = "pull"
)

// PullRequestsService provides access to the pull requests of a repository.
//
// GitHub API docs: https://docs.github.com/en/rest/pulls/pulls
type PullRequestsService struct {
	clt   *Client
	owner string
	repo  string
}

// PullRequests returns a PullRequestsService for the repository owner/repo.
func (clt *Client) PullRequests(owner, repo string) *PullRequestsService {
	return &PullRequestsService{clt: clt, owner: owner, repo: repo}
}

// List returns the first page of pull requests.
// opts can be nil.
func (s *PullRequestsService) List(ctx context.Context, opts *PullRequestListOptions) (*Page[*github.PullRequest], error) {
	q, err := encodeQuery(opts)
	if err != nil {
		return nil, err
	}

	return getPage[*github.PullRequest](
		ctx, s.clt, resourcePullRequests,
		s.clt.endpoint("repos", s.owner, s.repo, "pulls"),
		q,
	)
}

// Get returns the pull request with the given number.
func (s *PullRequestsService) Get(ctx context.Context, number int) (*github.PullRequest, error) {
	return getOne[github.PullRequest](
		ctx, s.clt, resourcePullRequest,
		s.clt.endpoint("repos", s.owner, s.repo, "pulls", strconv.Itoa(number)),
	)
}
