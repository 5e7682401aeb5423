package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v59/github"
	"go.uber.org/zap"

	"github.com/simplesurance/ghactivity/internal/cfg"
	"github.com/simplesurance/ghactivity/internal/events"
	"github.com/simplesurance/ghactivity/internal/githubclt"
	"github.com/simplesurance/ghactivity/internal/jqfilter"
	"github.com/simplesurance/ghactivity/internal/logfields"
	"github.com/simplesurance/ghactivity/internal/report"
)

const (
	outputJSON     = "json"
	outputMarkdown = "markdown"
)

type cmdEnv struct {
	clt      *githubclt.Client
	config   *cfg.Config
	out      io.Writer
	// maxPages is the maximum number of pages retrieved by list
	// commands, 0 means unlimited.
	maxPages int
}

type command struct {
	name            string
	args            []string
	help            string
	// defaultMaxPages is the page limit when it is neither set on the
	// command line nor via a configuration file.
	defaultMaxPages int
	run             func(ctx context.Context, env *cmdEnv, args []string) error
}

var commands = []*command{
	{
		name:            "events",
		args:            []string{"USER"},
		help:            "list events performed by a user",
		defaultMaxPages: 1,
		run:             runUserEvents,
	},
	{
		name:            "repo-events",
		args:            []string{"OWNER", "REPO"},
		help:            "list events of a repository",
		defaultMaxPages: 1,
		run:             runRepositoryEvents,
	},
	{
		name:            "issues",
		args:            []string{"OWNER", "REPO"},
		help:            "list issues of a repository",
		defaultMaxPages: 1,
		run:             runIssues,
	},
	{
		name: "issue",
		args: []string{"OWNER", "REPO", "NUMBER"},
		help: "show an issue",
		run:  runIssue,
	},
	{
		name:            "pulls",
		args:            []string{"OWNER", "REPO"},
		help:            "list pull requests of a repository",
		defaultMaxPages: 1,
		run:             runPullRequests,
	},
	{
		name: "pull",
		args: []string{"OWNER", "REPO", "NUMBER"},
		help: "show a pull request",
		run:  runPullRequest,
	},
	{
		name:            "stale",
		args:            []string{"OWNER", "REPO"},
		help:            "list open pull requests without recent updates",
		// all open pull requests are inspected
		defaultMaxPages: 0,
		run:             runStalePullRequests,
	},
}

func findCommand(cmdline []string) (*command, []string, error) {
	if len(cmdline) == 0 {
		return nil, nil, errors.New("command is missing")
	}

	for _, c := range commands {
		if c.name != cmdline[0] {
			continue
		}

		if len(cmdline)-1 != len(c.args) {
			return nil, nil, fmt.Errorf(
				"%s: expecting %d arguments (%s), got %d",
				c.name, len(c.args), strings.Join(c.args, " "), len(cmdline)-1,
			)
		}

		return c, cmdline[1:], nil
	}

	return nil, nil, fmt.Errorf("unknown command: %q", cmdline[0])
}

// resolveMaxPages returns the page limit for cmd. haveCfg is true when the
// limit was set on the command line or a configuration file was loaded, then
// config.MaxPages is used.
func resolveMaxPages(cmd *command, config *cfg.Config, haveCfg bool) int {
	if haveCfg {
		return config.MaxPages
	}

	return cmd.defaultMaxPages
}

// collectPages retrieves the items of page and of the pages following it.
// Not more than maxPages pages are retrieved, 0 means unlimited.
func collectPages[T any](ctx context.Context, page *githubclt.Page[T], maxPages int) ([]T, error) {
	var result []T

	for i := 1; ; i++ {
		result = append(result, page.TakeItems()...)

		nextURL, hasNext := page.NextURL()
		if !hasNext {
			return result, nil
		}

		if maxPages > 0 && i >= maxPages {
			zap.L().Named("main").Info(
				"page limit reached, more results are available",
				logfields.Event("page_limit_reached"),
				zap.Int("max_pages", maxPages),
				logfields.URL(nextURL),
			)
			return result, nil
		}

		next, err := page.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		page = next
	}
}

// filterRecords returns the records matching the jq expression expr.
// If expr starts with @, the filter with that name from the configuration is
// used.
func filterRecords[T any](ctx context.Context, config *cfg.Config, expr string, records []T) ([]T, error) {
	if expr == "" {
		return records, nil
	}

	if name, isRef := strings.CutPrefix(expr, "@"); isRef {
		q, exists := config.Filter(name)
		if !exists {
			return nil, fmt.Errorf("filter %q is not defined in the configuration file", name)
		}

		expr = q
	}

	f, err := jqfilter.New(expr)
	if err != nil {
		return nil, err
	}

	return jqfilter.Select(ctx, f, records)
}

func listOptions(config *cfg.Config) githubclt.ListOptions {
	return githubclt.ListOptions{PerPage: config.PerPage}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseNumber(s string) (int, error) {
	nr, err := strconv.Atoi(s)
	if err != nil || nr <= 0 {
		return 0, fmt.Errorf("invalid number: %q", s)
	}

	return nr, nil
}

func printEvents(ctx context.Context, env *cmdEnv, page *githubclt.Page[*events.Event]) error {
	evs, err := collectPages(ctx, page, env.maxPages)
	if err != nil {
		return err
	}

	evs, err = filterRecords(ctx, env.config, *args.Filter, evs)
	if err != nil {
		return err
	}

	if *args.Output == outputMarkdown {
		opts := []report.DigestOption{report.WithActions()}
		if *args.Comments {
			opts = append(opts, report.WithComments())
		}

		_, err := io.WriteString(env.out, report.ActivityDigest(evs, opts...))
		return err
	}

	return writeJSON(env.out, evs)
}

func runUserEvents(ctx context.Context, env *cmdEnv, args []string) error {
	opts := listOptions(env.config)
	page, err := env.clt.Events().ListUserEvents(ctx, args[0], &opts)
	if err != nil {
		return err
	}

	logger.Debug(
		"retrieved first page of user events",
		logfields.Event("user_events_retrieved"),
		logfields.User(args[0]),
		zap.Int("events", page.Len()),
	)

	return printEvents(ctx, env, page)
}

func runRepositoryEvents(ctx context.Context, env *cmdEnv, args []string) error {
	opts := listOptions(env.config)
	page, err := env.clt.Events().ListRepositoryEvents(ctx, args[0], args[1], &opts)
	if err != nil {
		return err
	}

	return printEvents(ctx, env, page)
}

func runIssues(ctx context.Context, env *cmdEnv, cmdArgs []string) error {
	page, err := env.clt.Issues(cmdArgs[0], cmdArgs[1]).List(ctx, &githubclt.IssueListOptions{
		State:       *args.State,
		ListOptions: listOptions(env.config),
	})
	if err != nil {
		return err
	}

	issues, err := collectPages(ctx, page, env.maxPages)
	if err != nil {
		return err
	}

	issues, err = filterRecords(ctx, env.config, *args.Filter, issues)
	if err != nil {
		return err
	}

	if *args.Output == outputMarkdown {
		_, err := io.WriteString(env.out, report.IssueList("Issues", issues))
		return err
	}

	return writeJSON(env.out, issues)
}

func runIssue(ctx context.Context, env *cmdEnv, args []string) error {
	nr, err := parseNumber(args[2])
	if err != nil {
		return err
	}

	issue, err := env.clt.Issues(args[0], args[1]).Get(ctx, nr)
	if err != nil {
		return err
	}

	logger.Debug(
		"retrieved issue",
		logfields.Event("issue_retrieved"),
		logfields.RepositoryOwner(args[0]),
		logfields.Repository(args[1]),
		logfields.Issue(issue.GetNumber()),
	)

	return writeJSON(env.out, issue)
}

func listPullRequests(ctx context.Context, env *cmdEnv, owner, repo, state string) ([]*github.PullRequest, error) {
	page, err := env.clt.PullRequests(owner, repo).List(ctx, &githubclt.PullRequestListOptions{
		State:       state,
		ListOptions: listOptions(env.config),
	})
	if err != nil {
		return nil, err
	}

	prs, err := collectPages(ctx, page, env.maxPages)
	if err != nil {
		return nil, err
	}

	return filterRecords(ctx, env.config, *args.Filter, prs)
}

func printPullRequests(env *cmdEnv, title string, prs []*github.PullRequest) error {
	if *args.Output == outputMarkdown {
		_, err := io.WriteString(env.out, report.PullRequestList(title, prs))
		return err
	}

	return writeJSON(env.out, prs)
}

func runPullRequests(ctx context.Context, env *cmdEnv, cmdArgs []string) error {
	prs, err := listPullRequests(ctx, env, cmdArgs[0], cmdArgs[1], *args.State)
	if err != nil {
		return err
	}

	return printPullRequests(env, "Pull Requests", prs)
}

func runPullRequest(ctx context.Context, env *cmdEnv, args []string) error {
	nr, err := parseNumber(args[2])
	if err != nil {
		return err
	}

	pr, err := env.clt.PullRequests(args[0], args[1]).Get(ctx, nr)
	if err != nil {
		return err
	}

	logger.Debug(
		"retrieved pull request",
		logfields.Event("pull_request_retrieved"),
		logfields.RepositoryOwner(args[0]),
		logfields.Repository(args[1]),
		logfields.PullRequest(pr.GetNumber()),
	)

	return writeJSON(env.out, pr)
}

func runStalePullRequests(ctx context.Context, env *cmdEnv, cmdArgs []string) error {
	prs, err := listPullRequests(ctx, env, cmdArgs[0], cmdArgs[1], "open")
	if err != nil {
		return err
	}

	olderThan := time.Now().Add(-time.Duration(*args.StaleDays) * 24 * time.Hour)
	stale := report.StalePullRequests(prs, olderThan)

	logger.Debug(
		"determined stale pull requests",
		logfields.Event("stale_pull_requests_determined"),
		logfields.RepositoryOwner(cmdArgs[0]),
		logfields.Repository(cmdArgs[1]),
		zap.Int("pull_requests", len(prs)),
		zap.Int("stale_pull_requests", len(stale)),
		zap.Time("older_than", olderThan),
	)

	return printPullRequests(env, "Triaged Pull Requests", stale)
}
