package githubclt

import (
	"context"

	"github.com/simplesurance/ghactivity/internal/events"
)

const (
	resourceUserEvents       = "user_events"
	resourceRepositoryEvents = "repository_events"
)

// EventsService provides access to the activity event feeds.
// Payloads of events are decoded as described in the events package, event
// types without payload schema are returned without payload.
//
// GitHub API docs: https://docs.github.com/en/rest/activity/events
type EventsService struct {
	clt *Client
}

func (clt *Client) Events() *EventsService {
	return &EventsService{clt: clt}
}

// ListUserEvents returns the first page of events performed by user.
// If the client is authenticated as user, private events are included.
// opts can be nil.
func (s *EventsService) ListUserEvents(ctx context.Context, user string, opts *ListOptions) (*Page[*events.Event], error) {
	q, err := encodeQuery(opts)
	if err != nil {
		return nil, err
	}

	return getPage[*events.Event](
		ctx, s.clt, resourceUserEvents,
		s.clt.endpoint("users", user, "events"),
		q,
	)
}

// ListRepositoryEvents returns the first page of events of the repository
// owner/repo.
// opts can be nil.
func (s *EventsService) ListRepositoryEvents(ctx context.Context, owner, repo string, opts *ListOptions) (*Page[*events.Event], error) {
	q, err := encodeQuery(opts)
	if err != nil {
		return nil, err
	}

	return getPage[*events.Event](
		ctx, s.clt, resourceRepositoryEvents,
		s.clt.endpoint("repos", owner, repo, "events"),
		q,
	)
}
