package events

import (
	"bytes"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/simplesurance/ghactivity/internal/apierr"
	"github.com/simplesurance/ghactivity/internal/logfields"
)

const loggerName = "events"

const envelopeSchema = "Event"

type payloadSchema struct {
	// required lists JSON fields that must be present and non-null.
	required []string
	new      func() Payload
}

var payloadSchemas = map[EventType]payloadSchema{
	TypeIssues: {
		required: []string{"action", "issue"},
		new:      func() Payload { return &IssuesEventPayload{} },
	},
	TypePullRequest: {
		required: []string{"action", "number", "pull_request"},
		new:      func() Payload { return &PullRequestEventPayload{} },
	},
	TypePullRequestReviewComment: {
		required: []string{"action", "pull_request", "comment"},
		new:      func() Payload { return &PullRequestReviewCommentEventPayload{} },
	},
	TypeIssueComment: {
		required: []string{"action", "issue", "comment"},
		new:      func() Payload { return &IssueCommentEventPayload{} },
	},
	TypeCommitComment: {
		required: []string{"comment"},
		new:      func() Payload { return &CommitCommentEventPayload{} },
	},
}

var jsonNull = []byte("null")

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull)
}

// DecodePayload decodes raw into the payload variant for t.
//
// If raw is empty or null, nil is returned.
// If t has no payload schema, nil is returned, the payload is discarded.
// If raw does not match the schema of t, an *apierr.DecodeError is returned.
func DecodePayload(t EventType, raw json.RawMessage) (Payload, error) {
	if isAbsent(raw) {
		return nil, nil
	}

	schema, exist := payloadSchemas[t]
	if !exist {
		return nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, apierr.NewDecodeError(t.String(), err)
	}

	for _, name := range schema.required {
		if isAbsent(fields[name]) {
			return nil, apierr.NewMissingFieldError(t.String(), name)
		}
	}

	result := schema.new()
	if err := json.Unmarshal(raw, result); err != nil {
		return nil, apierr.NewDecodeError(t.String(), err)
	}

	return result, nil
}

type envelope struct {
	ID        *string         `json:"id"`
	Type      *string         `json:"type"`
	Actor     Actor           `json:"actor"`
	Repo      EventRepo       `json:"repo"`
	Public    bool            `json:"public"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
	Org       *Actor          `json:"org,omitempty"`
}

// UnmarshalJSON decodes an event and its payload.
// The payload is decoded with the schema selected by the type field.
func (e *Event) UnmarshalJSON(data []byte) error {
	var env envelope

	if err := json.Unmarshal(data, &env); err != nil {
		return apierr.NewDecodeError(envelopeSchema, err)
	}

	if env.ID == nil {
		return apierr.NewMissingFieldError(envelopeSchema, "id")
	}

	if env.Type == nil {
		return apierr.NewMissingFieldError(envelopeSchema, "type")
	}

	evType := ParseEventType(*env.Type)

	payload, err := DecodePayload(evType, env.Payload)
	if err != nil {
		return err
	}

	if !evType.IsKnown() && !isAbsent(env.Payload) {
		zap.L().Named(loggerName).Debug(
			"discarding payload of unsupported event type",
			logfields.Event("github_event_payload_discarded"),
			logfields.EventType(*env.Type),
			logfields.EventID(*env.ID),
		)

		metrics.DroppedPayloadsInc(*env.Type)
	} else if payload != nil {
		metrics.DecodedPayloadsInc(evType)
	}

	*e = Event{
		ID:        *env.ID,
		Type:      evType,
		RawType:   *env.Type,
		Actor:     env.Actor,
		Repo:      env.Repo,
		Public:    env.Public,
		CreatedAt: env.CreatedAt,
		Payload:   payload,
		Org:       env.Org,
	}

	return nil
}

// MarshalJSON encodes the event in the format it is received from GitHub.
// The type field contains the original discriminator value.
func (e Event) MarshalJSON() ([]byte, error) {
	typ := e.RawType
	if typ == "" {
		typ = e.Type.String()
	}

	return json.Marshal(&struct {
		ID        string    `json:"id"`
		Type      string    `json:"type"`
		Actor     Actor     `json:"actor"`
		Repo      EventRepo `json:"repo"`
		Public    bool      `json:"public"`
		CreatedAt time.Time `json:"created_at"`
		Payload   Payload   `json:"payload"`
		Org       *Actor    `json:"org,omitempty"`
	}{
		ID:        e.ID,
		Type:      typ,
		Actor:     e.Actor,
		Repo:      e.Repo,
		Public:    e.Public,
		CreatedAt: e.CreatedAt,
		Payload:   e.Payload,
		Org:       e.Org,
	})
}
