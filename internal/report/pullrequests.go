package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v59/github"
)

// StalePullRequests returns the pull requests that were last updated before
// olderThan. If the update time of a pull request is unknown, its creation
// time is used, pull requests with neither are omitted.
func StalePullRequests(prs []*github.PullRequest, olderThan time.Time) []*github.PullRequest {
	var result []*github.PullRequest

	for _, pr := range prs {
		ts := pr.GetUpdatedAt().Time
		if ts.IsZero() {
			ts = pr.GetCreatedAt().Time
		}

		if ts.IsZero() {
			continue
		}

		if ts.Before(olderThan) {
			result = append(result, pr)
		}
	}

	return result
}

// PullRequestList renders a markdown list of prs with a title heading.
func PullRequestList(title string, prs []*github.PullRequest) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s\n", title)

	for _, pr := range prs {
		fmt.Fprintf(&sb, "- %s\n", markdownLink(pr.GetTitle(), pr.GetHTMLURL()))
	}

	return sb.String()
}

// IssueList renders a markdown list of issues with a title heading.
func IssueList(title string, issues []*github.Issue) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s\n", title)

	for _, is := range issues {
		fmt.Fprintf(&sb, "- #%d %s\n", is.GetNumber(), markdownLink(is.GetTitle(), is.GetHTMLURL()))
	}

	return sb.String()
}
