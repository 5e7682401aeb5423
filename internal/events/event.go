// Package events decodes the GitHub activity event feed.
//
// An event carries a type discriminator and an untyped payload. The payload
// is decoded in the same step as the rest of the event, the discriminator
// selects the payload schema. Payloads of event types that are not modeled by
// this package are dropped, the event itself is still returned.
package events

import (
	"fmt"
	"time"
)

// EventType is the discriminator of an Event.
type EventType string

const (
	TypeIssues                   EventType = "IssuesEvent"
	TypePullRequest              EventType = "PullRequestEvent"
	TypePullRequestReviewComment EventType = "PullRequestReviewCommentEvent"
	TypeIssueComment             EventType = "IssueCommentEvent"
	TypeCommitComment            EventType = "CommitCommentEvent"
	// TypeUnknown is the type of all events that are not modeled.
	TypeUnknown EventType = "UnknownEvent"
)

// KnownTypes contains all event types that have a payload schema.
var KnownTypes = []EventType{
	TypeIssues,
	TypePullRequest,
	TypePullRequestReviewComment,
	TypeIssueComment,
	TypeCommitComment,
}

// ParseEventType returns the EventType for the discriminator value s.
// Values that are not a known event type result in TypeUnknown.
// The comparison is case-sensitive.
func ParseEventType(s string) EventType {
	switch t := EventType(s); t {
	case TypeIssues, TypePullRequest, TypePullRequestReviewComment,
		TypeIssueComment, TypeCommitComment:
		return t
	default:
		return TypeUnknown
	}
}

func (t EventType) String() string {
	return string(t)
}

// IsKnown returns false for TypeUnknown.
func (t EventType) IsKnown() bool {
	return ParseEventType(string(t)) != TypeUnknown
}

// Actor is the user or organization an event is attributed to.
type Actor struct {
	ID           int64  `json:"id"`
	Login        string `json:"login"`
	DisplayLogin string `json:"display_login,omitempty"`
	GravatarID   string `json:"gravatar_id"`
	AvatarURL    string `json:"avatar_url"`
	URL          string `json:"url"`
}

// EventRepo references the repository of an event.
// Name is in the form owner/repository.
type EventRepo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Event is an entry of the GitHub activity event feed.
type Event struct {
	ID string
	// Type is TypeUnknown for all unmodeled event types.
	Type EventType
	// RawType is the discriminator value as it was received.
	RawType   string
	Actor     Actor
	Repo      EventRepo
	Public    bool
	CreatedAt time.Time
	// Payload is nil if the event had no payload or the event type is
	// unknown.
	Payload Payload
	// Org is nil if the event is not associated with an organization.
	Org *Actor
}

func (e *Event) String() string {
	return fmt.Sprintf("%s %s (id: %s, repo: %s)", e.CreatedAt.Format(time.RFC3339), e.RawType, e.ID, e.Repo.Name)
}
