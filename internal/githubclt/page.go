package githubclt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/simplesurance/ghactivity/internal/apierr"
	"github.com/simplesurance/ghactivity/internal/transport"
)

// Page is one page of a paginated list result.
//
// A page is created from a single API response. NextPage and PrevPage send a
// new request and return a new, independent Page, the page they are called
// on is not modified. Pages are never fetched automatically.
// A Page must not be used concurrently.
type Page[T any] struct {
	clt      *Client
	resource string

	items   []T
	prevURL string
	nextURL string
}

// newPage creates a page from resp.
// The response body must be a JSON array of T. If the response has a Link
// header, the next and prev links are recorded. A response without Link
// header results in a page without next and prev links.
func newPage[T any](clt *Client, resource string, resp *transport.Response) (*Page[T], error) {
	var items []T

	if err := json.Unmarshal(resp.Body, &items); err != nil {
		// errors from custom unmarshalers, like the event
		// payload decoder, already describe what failed
		var decErr *apierr.DecodeError
		if errors.As(err, &decErr) {
			return nil, err
		}

		return nil, apierr.NewDecodeError(fmt.Sprintf("%T", items), err)
	}

	if items == nil {
		items = []T{}
	}

	// null elements are stored as nil pointers without invoking the
	// unmarshaler of the item type
	for i := range items {
		if v := reflect.ValueOf(&items[i]).Elem(); v.Kind() == reflect.Pointer && v.IsNil() {
			return nil, apierr.NewDecodeError(
				fmt.Sprintf("%T", items),
				fmt.Errorf("element %d is null", i),
			)
		}
	}

	result := Page[T]{
		clt:      clt,
		resource: resource,
		items:    items,
	}

	if linkHdr := resp.Header.Values("Link"); len(linkHdr) > 0 {
		links, err := ParseLinkHeader(strings.Join(linkHdr, ", "))
		if err != nil {
			return nil, err
		}

		for _, l := range links {
			if result.nextURL == "" && l.HasRel(relNext) {
				result.nextURL = l.URL
			}

			if result.prevURL == "" && l.HasRel(relPrev) {
				result.prevURL = l.URL
			}
		}
	}

	metrics.PageItemsAdd(resource, len(items))

	return &result, nil
}

func getPage[T any](ctx context.Context, clt *Client, resource, rawURL string, query url.Values) (*Page[T], error) {
	resp, err := clt.get(ctx, resource, rawURL, query)
	if err != nil {
		return nil, err
	}

	return newPage[T](clt, resource, resp)
}

// Items returns the items of the page.
// The returned slice must not be modified.
func (p *Page[T]) Items() []T {
	return p.items
}

// TakeItems returns the items of the page and removes them from the page.
// Subsequent calls return an empty slice. The next and prev links of the page
// are kept.
func (p *Page[T]) TakeItems() []T {
	result := p.items
	p.items = []T{}

	return result
}

// Len returns the number of items in the page.
func (p *Page[T]) Len() int {
	return len(p.items)
}

// IsEmpty returns true if the page contains no items.
func (p *Page[T]) IsEmpty() bool {
	return len(p.items) == 0
}

// NextURL returns the URL of the next page.
// If no next page exists, false is returned.
func (p *Page[T]) NextURL() (string, bool) {
	return p.nextURL, p.nextURL != ""
}

// PrevURL returns the URL of the previous page.
// If no previous page exists, false is returned.
func (p *Page[T]) PrevURL() (string, bool) {
	return p.prevURL, p.prevURL != ""
}

// NextPage retrieves the next page.
// The URL from the Link header of the response is requested as is, no query
// parameters are added.
// If there is no next page, nil is returned.
func (p *Page[T]) NextPage(ctx context.Context) (*Page[T], error) {
	if p.nextURL == "" {
		return nil, nil
	}

	return getPage[T](ctx, p.clt, p.resource, p.nextURL, nil)
}

// PrevPage retrieves the previous page.
// If there is no previous page, nil is returned.
func (p *Page[T]) PrevPage(ctx context.Context) (*Page[T], error) {
	if p.prevURL == "" {
		return nil, nil
	}

	return getPage[T](ctx, p.clt, p.resource, p.prevURL, nil)
}
