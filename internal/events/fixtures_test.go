package events

const issuesEventJSON = `{
  "id": "22249084947",
  "type": "IssuesEvent",
  "actor": {
    "id": 583231,
    "login": "octocat",
    "display_login": "octocat",
    "gravatar_id": "",
    "url": "https://api.github.com/users/octocat",
    "avatar_url": "https://avatars.githubusercontent.com/u/583231?"
  },
  "repo": {
    "id": 1296269,
    "name": "octocat/Hello-World",
    "url": "https://api.github.com/repos/octocat/Hello-World"
  },
  "payload": {
    "action": "labeled",
    "issue": {
      "id": 1,
      "number": 1347,
      "state": "open",
      "title": "Found a bug",
      "body": "I'm having a problem with this.",
      "html_url": "https://github.com/octocat/Hello-World/issues/1347",
      "user": {"login": "octocat", "id": 1},
      "labels": [{"id": 208045946, "name": "bug", "color": "f29513", "default": true}]
    },
    "label": {"id": 208045946, "name": "bug", "color": "f29513", "default": true}
  },
  "public": true,
  "created_at": "2022-06-09T12:47:28Z"
}`

const pullRequestEventJSON = `{
  "id": "22249084964",
  "type": "PullRequestEvent",
  "actor": {"id": 583231, "login": "octocat", "gravatar_id": "", "url": "https://api.github.com/users/octocat", "avatar_url": ""},
  "repo": {"id": 1296269, "name": "octocat/Hello-World", "url": "https://api.github.com/repos/octocat/Hello-World"},
  "payload": {
    "action": "opened",
    "number": 2,
    "pull_request": {
      "id": 2,
      "number": 2,
      "state": "open",
      "title": "Update the README",
      "html_url": "https://github.com/octocat/Hello-World/pull/2",
      "updated_at": "2022-06-09T12:47:20Z"
    }
  },
  "public": true,
  "created_at": "2022-06-09T12:47:30Z",
  "org": {"id": 9919, "login": "github", "gravatar_id": "", "url": "https://api.github.com/orgs/github", "avatar_url": ""}
}`

const watchEventJSON = `{
  "id": "22249084999",
  "type": "WatchEvent",
  "actor": {"id": 583231, "login": "octocat", "gravatar_id": "", "url": "", "avatar_url": ""},
  "repo": {"id": 1296269, "name": "octocat/Hello-World", "url": ""},
  "payload": {"action": "started"},
  "public": true,
  "created_at": "2022-06-09T12:48:00Z"
}`
