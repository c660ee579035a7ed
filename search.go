package spotify

import (
	"context"
	"net/url"
	"strings"
)

// SearchType is an item type to search for. Pass several to
// [Client.Search] to search across types.
type SearchType string

const (
	SearchAlbum    SearchType = "album"
	SearchArtist   SearchType = "artist"
	SearchPlaylist SearchType = "playlist"
	SearchTrack    SearchType = "track"
)

// SearchResults holds the result pages of a search; only the pages matching
// the requested types are populated.
type SearchResults struct {
	Tracks    *Page[Track]              `json:"tracks,omitempty"`
	Artists   *Page[Artist]             `json:"artists,omitempty"`
	Albums    *Page[SimplifiedAlbum]    `json:"albums,omitempty"`
	Playlists *Page[SimplifiedPlaylist] `json:"playlists,omitempty"`
}

// Search begins a search request. The query supports the Web API's field
// filters, e.g. `artist:Boards of Canada year:1998`. At least one search
// type is required.
func (c *Client) Search(query string, types ...SearchType) *SearchRequest {
	return &SearchRequest{c: c, query: query, types: types}
}

// SearchRequest accumulates the parameters of a search request.
type SearchRequest struct {
	c               *Client
	query           string
	types           []SearchType
	market          string
	limit           int
	offset          int
	includeExternal bool
}

// Market restricts the response to content available in the given market.
func (r *SearchRequest) Market(market string) *SearchRequest {
	r.market = market
	return r
}

// Limit sets the maximum number of items per result page, clamped to
// [1, 50].
func (r *SearchRequest) Limit(limit int) *SearchRequest {
	r.limit = clamp(limit, 1, 50)
	return r
}

// Offset sets the index of the first item of each result page.
func (r *SearchRequest) Offset(offset int) *SearchRequest {
	r.offset = offset
	return r
}

// IncludeExternal marks externally hosted audio as playable in the results.
func (r *SearchRequest) IncludeExternal() *SearchRequest {
	r.includeExternal = true
	return r
}

// Get sends the request.
func (r *SearchRequest) Get(ctx context.Context) (*SearchResults, error) {
	if r.query == "" || len(r.types) == 0 {
		return nil, ErrMissingParameter
	}

	kinds := make([]string, 0, len(r.types))
	for _, t := range r.types {
		kinds = append(kinds, string(t))
	}

	q := url.Values{}
	q.Set("q", r.query)
	q.Set("type", strings.Join(kinds, ","))
	if r.market != "" {
		q.Set("market", r.market)
	}
	setLimit(q, r.limit)
	setOffset(q, r.offset)
	if r.includeExternal {
		q.Set("include_external", "audio")
	}

	var results SearchResults
	if err := r.c.get(ctx, "/search", q, &results); err != nil {
		return nil, err
	}
	return &results, nil
}
