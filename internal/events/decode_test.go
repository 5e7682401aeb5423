package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/simplesurance/ghactivity/internal/apierr"
)

func TestParseEventType(t *testing.T) {
	for _, typ := range KnownTypes {
		assert.Equal(t, typ, ParseEventType(typ.String()))
		assert.True(t, typ.IsKnown())
	}

	assert.Equal(t, TypeUnknown, ParseEventType("WatchEvent"))
	assert.Equal(t, TypeUnknown, ParseEventType("issuesevent"))
	assert.Equal(t, TypeUnknown, ParseEventType(""))
	assert.False(t, TypeUnknown.IsKnown())
}

func TestDecodeIssuesEvent(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(issuesEventJSON), &ev))

	assert.Equal(t, "22249084947", ev.ID)
	assert.Equal(t, TypeIssues, ev.Type)
	assert.Equal(t, "IssuesEvent", ev.RawType)
	assert.Equal(t, "octocat", ev.Actor.Login)
	assert.Equal(t, int64(1296269), ev.Repo.ID)
	assert.Equal(t, "octocat/Hello-World", ev.Repo.Name)
	assert.True(t, ev.Public)
	assert.Equal(t, time.Date(2022, 6, 9, 12, 47, 28, 0, time.UTC), ev.CreatedAt)
	assert.Nil(t, ev.Org)

	require.IsType(t, &IssuesEventPayload{}, ev.Payload)
	payload := ev.Payload.(*IssuesEventPayload)

	assert.Equal(t, TypeIssues, payload.EventType())
	assert.Equal(t, "labeled", payload.Action)
	require.NotNil(t, payload.Issue)
	assert.Equal(t, 1347, payload.Issue.GetNumber())
	assert.Equal(t, "Found a bug", payload.Issue.GetTitle())
	assert.Equal(t, "https://github.com/octocat/Hello-World/issues/1347", payload.Issue.GetHTMLURL())
	assert.Equal(t, "octocat", payload.Issue.GetUser().GetLogin())
	require.Len(t, payload.Issue.Labels, 1)
	assert.Equal(t, "bug", payload.Issue.Labels[0].GetName())
	assert.Equal(t, "bug", payload.Label.GetName())
	assert.Nil(t, payload.Assignee)
}

func TestDecodePullRequestEvent(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(pullRequestEventJSON), &ev))

	require.NotNil(t, ev.Org)
	assert.Equal(t, "github", ev.Org.Login)

	payload, ok := ev.Payload.(*PullRequestEventPayload)
	require.True(t, ok, "payload has type %T", ev.Payload)

	assert.Equal(t, "opened", payload.Action)
	assert.Equal(t, 2, payload.Number)
	assert.Equal(t, "Update the README", payload.PullRequest.GetTitle())
	assert.Equal(t,
		time.Date(2022, 6, 9, 12, 47, 20, 0, time.UTC),
		payload.PullRequest.GetUpdatedAt().Time,
	)
}

func TestUnknownEventTypeDiscardsPayload(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	dropped := metrics.droppedPayloads.WithLabelValues("WatchEvent")
	before := testutil.ToFloat64(dropped)

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(watchEventJSON), &ev))

	assert.Equal(t, TypeUnknown, ev.Type)
	assert.Equal(t, "WatchEvent", ev.RawType)
	assert.Equal(t, "22249084999", ev.ID)
	assert.Nil(t, ev.Payload)

	assert.Equal(t, before+1, testutil.ToFloat64(dropped))
}

func TestDecodePayloadOfUnknownTypeIsNotAnError(t *testing.T) {
	payload, err := DecodePayload(TypeUnknown, json.RawMessage(`{"anything": [1, 2, 3]}`))
	require.NoError(t, err)
	assert.Nil(t, payload)

	payload, err = DecodePayload(EventType("WatchEvent"), json.RawMessage(`"not even an object"`))
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestAbsentPayloadDecodesToNil(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage(``), json.RawMessage(`null`), json.RawMessage(" null ")} {
		payload, err := DecodePayload(TypeIssues, raw)
		require.NoError(t, err)
		assert.Nil(t, payload)
	}

	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	var ev Event
	err := json.Unmarshal([]byte(`{"id": "1", "type": "IssuesEvent", "public": false, "created_at": "2022-06-09T12:47:28Z"}`), &ev)
	require.NoError(t, err)
	assert.Equal(t, TypeIssues, ev.Type)
	assert.Nil(t, ev.Payload)
}

func TestPullRequestPayloadSchemaMismatch(t *testing.T) {
	testcases := []struct {
		name          string
		payload       string
		expectedField string
	}{
		{
			name:          "missingNumber",
			payload:       `{"action": "opened", "pull_request": {"number": 2}}`,
			expectedField: "number",
		},
		{
			name:          "missingPullRequest",
			payload:       `{"action": "opened", "number": 2}`,
			expectedField: "pull_request",
		},
		{
			name:          "nullPullRequest",
			payload:       `{"action": "opened", "number": 2, "pull_request": null}`,
			expectedField: "pull_request",
		},
		{
			name:          "missingAction",
			payload:       `{"number": 2, "pull_request": {"number": 2}}`,
			expectedField: "action",
		},
		{
			name:          "numberWrongType",
			payload:       `{"action": "opened", "number": "two", "pull_request": {"number": 2}}`,
			expectedField: "number",
		},
		{
			name:          "pullRequestWrongType",
			payload:       `{"action": "opened", "number": 2, "pull_request": []}`,
			expectedField: "pull_request",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := DecodePayload(TypePullRequest, json.RawMessage(tc.payload))
			require.Error(t, err)
			assert.Nil(t, payload)

			var decErr *apierr.DecodeError
			require.ErrorAs(t, err, &decErr)
			assert.Equal(t, "PullRequestEvent", decErr.Schema)
			assert.Equal(t, tc.expectedField, decErr.Field)
		})
	}
}

func TestPayloadThatIsNotAnObjectFails(t *testing.T) {
	_, err := DecodePayload(TypeIssueComment, json.RawMessage(`[1, 2]`))

	var decErr *apierr.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "IssueCommentEvent", decErr.Schema)
}

func TestPayloadVariants(t *testing.T) {
	testcases := []struct {
		eventType    EventType
		payload      string
		expectedType Payload
	}{
		{
			eventType:    TypeIssues,
			payload:      `{"action": "opened", "issue": {"number": 1}}`,
			expectedType: &IssuesEventPayload{},
		},
		{
			eventType:    TypePullRequest,
			payload:      `{"action": "closed", "number": 3, "pull_request": {"number": 3}}`,
			expectedType: &PullRequestEventPayload{},
		},
		{
			eventType:    TypePullRequestReviewComment,
			payload:      `{"action": "created", "pull_request": {"number": 3}, "comment": {"id": 10, "body": "nit"}}`,
			expectedType: &PullRequestReviewCommentEventPayload{},
		},
		{
			eventType:    TypeIssueComment,
			payload:      `{"action": "created", "issue": {"number": 1}, "comment": {"id": 11, "body": "+1"}}`,
			expectedType: &IssueCommentEventPayload{},
		},
		{
			eventType:    TypeCommitComment,
			payload:      `{"comment": {"id": 12, "commit_id": "6dcb09b5b57875f334f61aebed695e2e4193db5e"}}`,
			expectedType: &CommitCommentEventPayload{},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.eventType.String(), func(t *testing.T) {
			payload, err := DecodePayload(tc.eventType, json.RawMessage(tc.payload))
			require.NoError(t, err)
			assert.IsType(t, tc.expectedType, payload)
			assert.Equal(t, tc.eventType, payload.EventType())
		})
	}
}

func TestEventEnvelopeRequiresTypeAndID(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	var ev Event
	var decErr *apierr.DecodeError

	err := json.Unmarshal([]byte(`{"id": "1", "payload": {}}`), &ev)
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "Event", decErr.Schema)
	assert.Equal(t, "type", decErr.Field)

	err = json.Unmarshal([]byte(`{"type": "IssuesEvent"}`), &ev)
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "id", decErr.Field)

	err = json.Unmarshal([]byte(`{"id": 1, "type": "IssuesEvent"}`), &ev)
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "id", decErr.Field)
}

func TestBatchWithUnknownTypesDecodes(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	batch := "[" + issuesEventJSON + "," + watchEventJSON + "," + pullRequestEventJSON + "]"

	var evs []*Event
	require.NoError(t, json.Unmarshal([]byte(batch), &evs))
	require.Len(t, evs, 3)

	assert.IsType(t, &IssuesEventPayload{}, evs[0].Payload)
	assert.Nil(t, evs[1].Payload)
	assert.IsType(t, &PullRequestEventPayload{}, evs[2].Payload)
}

func TestBatchFailsOnPayloadMismatch(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	batch := `[` + watchEventJSON + `, {"id": "5", "type": "PullRequestEvent", "payload": {"action": "opened"}}]`

	var evs []*Event
	err := json.Unmarshal([]byte(batch), &evs)

	var decErr *apierr.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "PullRequestEvent", decErr.Schema)
	assert.Equal(t, "number", decErr.Field)
}

func TestMarshalKeepsOriginalType(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(watchEventJSON), &ev))

	data, err := json.Marshal(&ev)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Equal(t, "WatchEvent", generic["type"])
	assert.Nil(t, generic["payload"])
	assert.Equal(t, "octocat/Hello-World", generic["repo"].(map[string]any)["name"])
}

func TestEventEnvelopeOptionalFields(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	var ev Event
	err := json.Unmarshal([]byte(`{"id": "7", "type": "IssuesEvent", "payload": {"action": "opened", "issue": {"number": 3}}}`), &ev)
	require.NoError(t, err)

	assert.Equal(t, "7", ev.ID)
	assert.Equal(t, TypeIssues, ev.Type)
	assert.Zero(t, ev.Actor)
	assert.Zero(t, ev.Repo)
	assert.False(t, ev.Public)
	assert.True(t, ev.CreatedAt.IsZero())
	assert.Nil(t, ev.Org)
	require.IsType(t, &IssuesEventPayload{}, ev.Payload)

	var decErr *apierr.DecodeError
	err = json.Unmarshal([]byte(`{"id": "7", "type": "IssuesEvent", "public": "yes"}`), &ev)
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "Event", decErr.Schema)
	assert.Equal(t, "public", decErr.Field)
}
