// Package report renders markdown reports from issues, pull requests and
// activity events.
package report

import (
	"fmt"
	"strings"

	"github.com/google/go-github/v59/github"

	"github.com/simplesurance/ghactivity/internal/events"
	"github.com/simplesurance/ghactivity/internal/stringutils"
)

// maxCommentLen is the maximum number of runes of a comment body that is
// included in a digest.
const maxCommentLen = 280

type digestSection struct {
	typ   events.EventType
	title string
}

var digestSections = []digestSection{
	{typ: events.TypeIssues, title: "Issues Event"},
	{typ: events.TypePullRequest, title: "Pull Request Event"},
	{typ: events.TypePullRequestReviewComment, title: "Pull Request Review Comment Event"},
	{typ: events.TypeIssueComment, title: "Issue Comment Event"},
	{typ: events.TypeCommitComment, title: "Commit Comment Event"},
}

type digestCfg struct {
	includeComments bool
	includeActions  bool
}

type DigestOption func(*digestCfg)

// WithComments adds the body of comments as quote below their entry.
func WithComments() DigestOption {
	return func(c *digestCfg) {
		c.includeComments = true
	}
}

// WithActions prefixes entries with the action of the event, e.g. "opened".
func WithActions() DigestOption {
	return func(c *digestCfg) {
		c.includeActions = true
	}
}

// ActivityDigest renders a markdown summary of evs, grouped by event type.
// Every section is rendered, also when it has no entries. Nil events, events
// of unknown type and events without payload are omitted. The order of events
// within a section is kept.
func ActivityDigest(evs []*events.Event, opts ...DigestOption) string {
	var cfg digestCfg
	for _, o := range opts {
		o(&cfg)
	}

	byType := make(map[events.EventType][]*events.Event, len(digestSections))
	for _, ev := range evs {
		if ev == nil || ev.Payload == nil {
			continue
		}

		byType[ev.Type] = append(byType[ev.Type], ev)
	}

	var sb strings.Builder

	for i, sec := range digestSections {
		if i > 0 {
			sb.WriteString("\n")
		}

		fmt.Fprintf(&sb, "## %s\n", sec.title)

		for _, ev := range byType[sec.typ] {
			sb.WriteString(digestEntry(ev.Payload, &cfg))
		}
	}

	return sb.String()
}

func digestEntry(payload events.Payload, cfg *digestCfg) string {
	var action, text, link, comment string

	switch pl := payload.(type) {
	case *events.IssuesEventPayload:
		action = pl.Action
		text, link = pl.Issue.GetTitle(), pl.Issue.GetHTMLURL()

	case *events.PullRequestEventPayload:
		action = pl.Action
		text, link = pl.PullRequest.GetTitle(), pl.PullRequest.GetHTMLURL()

	case *events.PullRequestReviewCommentEventPayload:
		action = pl.Action
		text, link = pl.PullRequest.GetTitle(), pl.Comment.GetHTMLURL()
		comment = pl.Comment.GetBody()

	case *events.IssueCommentEventPayload:
		action = pl.Action
		text, link = pl.Issue.GetTitle(), pl.Comment.GetHTMLURL()
		comment = pl.Comment.GetBody()

	case *events.CommitCommentEventPayload:
		action = pl.Action
		text, link = commitCommentTitle(pl.Comment), pl.Comment.GetHTMLURL()
		comment = pl.Comment.GetBody()

	default:
		return ""
	}

	var sb strings.Builder

	sb.WriteString("- ")
	if cfg.includeActions && action != "" {
		fmt.Fprintf(&sb, "%s: ", action)
	}
	sb.WriteString(markdownLink(text, link))
	sb.WriteString("\n")

	if cfg.includeComments && comment != "" {
		comment = stringutils.Truncate(stringutils.NormalizeNewlines(comment), maxCommentLen)
		sb.WriteString(stringutils.IndentString(comment, "  > "))
		sb.WriteString("\n")
	}

	return sb.String()
}

func commitCommentTitle(c *github.RepositoryComment) string {
	sha := c.GetCommitID()
	if len(sha) > 7 {
		sha = sha[:7]
	}

	if sha == "" {
		return "commit comment"
	}

	return "commit " + sha
}

func markdownLink(text, url string) string {
	text = strings.NewReplacer("[", `\[`, "]", `\]`).Replace(text)

	if url == "" {
		return text
	}

	return fmt.Sprintf("[%s](%s)", text, url)
}
