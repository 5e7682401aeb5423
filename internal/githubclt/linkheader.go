package githubclt

import (
	"fmt"
	"strings"

	"github.com/simplesurance/ghactivity/internal/apierr"
)

const linkHeaderSchema = "Link header"

const (
	relNext = "next"
	relPrev = "prev"
)

// Link is an entry of a Link header.
type Link struct {
	URL string
	// Rels are the relation types of the link, in the order they appear in
	// the rel parameter.
	Rels []string
}

// HasRel returns true if rel is one of the relation types of the link.
// The comparison is case-sensitive.
func (l *Link) HasRel(rel string) bool {
	for _, r := range l.Rels {
		if r == rel {
			return true
		}
	}

	return false
}

// ParseLinkHeader parses the value of a Link header.
// The value is a comma-separated list of `<url>; rel="name"` entries.
// Entries can have additional parameters, they are ignored.
// The rel parameter can contain multiple space-separated relation types.
// If an entry is malformed or has no rel parameter, an *apierr.DecodeError
// is returned and no links.
func ParseLinkHeader(value string) ([]*Link, error) {
	var result []*Link

	s := value
	for i := 0; ; i++ {
		s = skipSpace(s)
		if s == "" {
			return result, nil
		}

		// empty list elements are allowed
		if s[0] == ',' {
			s = s[1:]
			continue
		}

		link, rest, err := parseLink(s)
		if err != nil {
			return nil, apierr.NewDecodeError(linkHeaderSchema, fmt.Errorf("entry %d: %w", i, err))
		}

		result = append(result, link)

		s = rest
		if s != "" {
			// parseLink only returns when the rest is empty or starts with a comma
			s = s[1:]
		}
	}
}

// parseLink parses one link entry at the start of s.
// The returned rest is empty or starts with the comma that terminated the
// entry.
func parseLink(s string) (link *Link, rest string, err error) {
	if s[0] != '<' {
		return nil, "", fmt.Errorf("expected '<' at start of entry, got %q", s[0])
	}

	end, err := urlEnd(s)
	if err != nil {
		return nil, "", err
	}

	url := strings.TrimSpace(s[1:end])
	if url == "" {
		return nil, "", fmt.Errorf("url is empty")
	}

	link = &Link{URL: url}
	haveRel := false

	s = s[end+1:]
	for {
		s = skipSpace(s)
		if s == "" || s[0] == ',' {
			break
		}

		if s[0] != ';' {
			return nil, "", fmt.Errorf("expected ';' or ',' after %q, got %q", url, s[0])
		}

		var name, val string

		name, s = readToken(skipSpace(s[1:]))
		if name == "" {
			return nil, "", fmt.Errorf("parameter of %q has no name", url)
		}

		s = skipSpace(s)
		if s != "" && s[0] == '=' {
			val, s, err = readParamValue(skipSpace(s[1:]))
			if err != nil {
				return nil, "", fmt.Errorf("parameter %q: %w", name, err)
			}
		}

		// only the first rel parameter is considered, RFC 8288
		// section 3.3
		if strings.EqualFold(name, "rel") && !haveRel {
			haveRel = true
			link.Rels = strings.Fields(val)
		}
	}

	if len(link.Rels) == 0 {
		return nil, "", fmt.Errorf("link %q has no rel parameter", url)
	}

	return link, s, nil
}

// urlEnd returns the index of the '>' that terminates the URL at the start
// of s. The URL must not contain characters that are invalid in an URI
// reference, otherwise the '>' could belong to a following entry.
func urlEnd(s string) (int, error) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '>':
			return i, nil
		case '<', '"', ' ', '\t':
			return -1, fmt.Errorf("invalid character %q in url, missing '>'", s[i])
		}
	}

	return -1, fmt.Errorf("missing '>' after url")
}

func skipSpace(s string) string {
	return strings.TrimLeft(s, " \t")
}

func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}

	return strings.IndexByte("!#$%&'*+-.^_`|~", c) != -1
}

func readToken(s string) (token, rest string) {
	i := 0
	for i < len(s) && isTokenChar(s[i]) {
		i++
	}

	return s[:i], s[i:]
}

func readParamValue(s string) (val, rest string, err error) {
	if s == "" {
		return "", "", fmt.Errorf("value is missing")
	}

	if s[0] != '"' {
		val, rest = readToken(s)
		if val == "" {
			return "", "", fmt.Errorf("invalid value %q", s)
		}

		return val, rest, nil
	}

	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
			if i == len(s) {
				return "", "", fmt.Errorf("unterminated quoted string")
			}

			b.WriteByte(s[i])

		case '"':
			return b.String(), s[i+1:], nil

		default:
			b.WriteByte(s[i])
		}
	}

	return "", "", fmt.Errorf("unterminated quoted string")
}
