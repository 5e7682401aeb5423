package events

import "github.com/google/go-github/v59/github"

// Payload is the type-specific part of an Event.
// It is implemented by the *XxxEventPayload types of this package only.
type Payload interface {
	// EventType returns the event type the payload belongs to.
	EventType() EventType
	sealed()
}

// IssuesEventPayload is the payload of an IssuesEvent.
type IssuesEventPayload struct {
	Action   string        `json:"action"`
	Issue    *github.Issue `json:"issue"`
	Assignee *github.User  `json:"assignee,omitempty"`
	Label    *github.Label `json:"label,omitempty"`
}

// PullRequestEventPayload is the payload of a PullRequestEvent.
type PullRequestEventPayload struct {
	Action      string              `json:"action"`
	Number      int                 `json:"number"`
	PullRequest *github.PullRequest `json:"pull_request"`
}

// PullRequestReviewCommentEventPayload is the payload of a
// PullRequestReviewCommentEvent.
type PullRequestReviewCommentEventPayload struct {
	Action      string                     `json:"action"`
	PullRequest *github.PullRequest        `json:"pull_request"`
	Comment     *github.PullRequestComment `json:"comment"`
}

// IssueCommentEventPayload is the payload of an IssueCommentEvent.
type IssueCommentEventPayload struct {
	Action  string               `json:"action"`
	Issue   *github.Issue        `json:"issue"`
	Comment *github.IssueComment `json:"comment"`
}

// CommitCommentEventPayload is the payload of a CommitCommentEvent.
type CommitCommentEventPayload struct {
	Action  string                    `json:"action,omitempty"`
	Comment *github.RepositoryComment `json:"comment"`
}

func (*IssuesEventPayload) EventType() EventType { return TypeIssues }

func (*PullRequestEventPayload) EventType() EventType { return TypePullRequest }

func (*PullRequestReviewCommentEventPayload) EventType() EventType {
	return TypePullRequestReviewComment
}

func (*IssueCommentEventPayload) EventType() EventType { return TypeIssueComment }

func (*CommitCommentEventPayload) EventType() EventType { return TypeCommitComment }

func (*IssuesEventPayload) sealed()                   {}
func (*PullRequestEventPayload) sealed()              {}
func (*PullRequestReviewCommentEventPayload) sealed() {}
func (*IssueCommentEventPayload) sealed()             {}
func (*CommitCommentEventPayload) sealed()            {}
