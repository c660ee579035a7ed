package spotify

import "context"

// Page is an offset-paged segment of results. Next and Previous hold the
// absolute URLs of the neighbouring pages, empty when there is none.
type Page[T any] struct {
	Href     string `json:"href"`
	Limit    int    `json:"limit"`
	Next     string `json:"next"`
	Offset   int    `json:"offset"`
	Previous string `json:"previous"`
	Total    int    `json:"total"`
	Items    []T    `json:"items"`
}

// HasNext reports whether a page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.Next != ""
}

// NextPage fetches the page after this one, or [ErrNoRemainingPages] when
// this is the last page.
func (p *Page[T]) NextPage(ctx context.Context, c *Client) (*Page[T], error) {
	if p.Next == "" {
		return nil, ErrNoRemainingPages
	}

	var next Page[T]
	if err := c.get(ctx, p.Next, nil, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// PreviousPage fetches the page before this one, or [ErrNoRemainingPages]
// when this is the first page.
func (p *Page[T]) PreviousPage(ctx context.Context, c *Client) (*Page[T], error) {
	if p.Previous == "" {
		return nil, ErrNoRemainingPages
	}

	var prev Page[T]
	if err := c.get(ctx, p.Previous, nil, &prev); err != nil {
		return nil, err
	}
	return &prev, nil
}

// AllItems fetches every remaining page after this one and returns this
// page's items together with theirs.
func (p *Page[T]) AllItems(ctx context.Context, c *Client) ([]T, error) {
	items := p.Items
	page := p
	for page.HasNext() {
		next, err := page.NextPage(ctx, c)
		if err != nil {
			return items, err
		}
		items = append(items, next.Items...)
		page = next
	}
	return items, nil
}

// Cursors points at the items around a cursor-paged segment.
type Cursors struct {
	After  string `json:"after"`
	Before string `json:"before"`
}

// CursorPage is a cursor-paged segment of results, used by endpoints like
// recently played tracks and followed artists.
type CursorPage[T any] struct {
	Href    string  `json:"href"`
	Limit   int     `json:"limit"`
	Next    string  `json:"next"`
	Total   int     `json:"total"`
	Cursors Cursors `json:"cursors"`
	Items   []T     `json:"items"`
}

// HasNext reports whether a page follows this one.
func (p *CursorPage[T]) HasNext() bool {
	return p.Next != ""
}

// NextPage fetches the page after this one, or [ErrNoRemainingPages] when
// this is the last page.
func (p *CursorPage[T]) NextPage(ctx context.Context, c *Client) (*CursorPage[T], error) {
	if p.Next == "" {
		return nil, ErrNoRemainingPages
	}

	var next CursorPage[T]
	if err := c.get(ctx, p.Next, nil, &next); err != nil {
		return nil, err
	}
	return &next, nil
}
