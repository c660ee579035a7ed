package spotify

import (
	"context"
	"net/url"
	"time"
)

// Category is a browse category used to tag items on Spotify.
type Category struct {
	Href  string  `json:"href"`
	Icons []Image `json:"icons"`
	ID    string  `json:"id"`
	Name  string  `json:"name"`
}

type marketsEnvelope struct {
	Markets []string `json:"markets"`
}

type genresEnvelope struct {
	Genres []string `json:"genres"`
}

type pagedCategoriesEnvelope struct {
	Categories Page[Category] `json:"categories"`
}

// AvailableMarkets fetches the markets the Web API is available in, as
// ISO 3166-1 alpha-2 country codes.
func (c *Client) AvailableMarkets(ctx context.Context) ([]string, error) {
	var env marketsEnvelope
	if err := c.get(ctx, "/markets", nil, &env); err != nil {
		return nil, err
	}
	return env.Markets, nil
}

// AvailableGenreSeeds fetches the genres usable as recommendation seeds.
func (c *Client) AvailableGenreSeeds(ctx context.Context) ([]string, error) {
	var env genresEnvelope
	if err := c.get(ctx, "/recommendations/available-genre-seeds", nil, &env); err != nil {
		return nil, err
	}
	return env.Genres, nil
}

// Category begins a request for a single browse category.
func (c *Client) Category(id string) *CategoryRequest {
	return &CategoryRequest{c: c, id: id}
}

// CategoryRequest accumulates the parameters of a single-category request.
type CategoryRequest struct {
	c      *Client
	id     string
	locale string
}

// Locale sets the desired language as an ISO 639-1 code joined with an
// ISO 3166-1 alpha-2 code by an underscore, e.g. "sv_SE".
func (r *CategoryRequest) Locale(locale string) *CategoryRequest {
	r.locale = locale
	return r
}

// Get sends the request.
func (r *CategoryRequest) Get(ctx context.Context) (*Category, error) {
	q := url.Values{}
	if r.locale != "" {
		q.Set("locale", r.locale)
	}

	var category Category
	if err := r.c.get(ctx, "/browse/categories/"+r.id, q, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Categories begins a request for the browse categories.
func (c *Client) Categories() *CategoriesRequest {
	return &CategoriesRequest{c: c}
}

// CategoriesRequest accumulates the parameters of a categories request.
type CategoriesRequest struct {
	c      *Client
	locale string
	limit  int
	offset int
}

// Locale sets the desired language, e.g. "sv_SE".
func (r *CategoriesRequest) Locale(locale string) *CategoriesRequest {
	r.locale = locale
	return r
}

// Limit sets the maximum number of items to return, clamped to [1, 50].
func (r *CategoriesRequest) Limit(limit int) *CategoriesRequest {
	r.limit = clamp(limit, 1, 50)
	return r
}

// Offset sets the index of the first item to return.
func (r *CategoriesRequest) Offset(offset int) *CategoriesRequest {
	r.offset = offset
	return r
}

// Get sends the request.
func (r *CategoriesRequest) Get(ctx context.Context) (*Page[Category], error) {
	q := url.Values{}
	if r.locale != "" {
		q.Set("locale", r.locale)
	}
	setLimit(q, r.limit)
	setOffset(q, r.offset)

	var env pagedCategoriesEnvelope
	if err := r.c.get(ctx, "/browse/categories", q, &env); err != nil {
		return nil, err
	}
	return &env.Categories, nil
}

// FeaturedPlaylists is a set of playlists featured on the browse tab,
// together with the localized message shown above them.
type FeaturedPlaylists struct {
	Message   string                   `json:"message"`
	Playlists Page[SimplifiedPlaylist] `json:"playlists"`
}

type categoryPlaylistsEnvelope struct {
	Playlists Page[SimplifiedPlaylist] `json:"playlists"`
}

// FeaturedPlaylists begins a request for the playlists featured on Spotify's
// browse tab.
func (c *Client) FeaturedPlaylists() *FeaturedPlaylistsRequest {
	return &FeaturedPlaylistsRequest{c: c}
}

// FeaturedPlaylistsRequest accumulates the parameters of a
// featured-playlists request.
type FeaturedPlaylistsRequest struct {
	c         *Client
	country   string
	locale    string
	timestamp time.Time
	limit     int
	offset    int
}

// Country restricts the response to playlists featured in the given market,
// as an ISO 3166-1 alpha-2 country code.
func (r *FeaturedPlaylistsRequest) Country(country string) *FeaturedPlaylistsRequest {
	r.country = country
	return r
}

// Locale sets the desired language of the message, e.g. "sv_SE".
func (r *FeaturedPlaylistsRequest) Locale(locale string) *FeaturedPlaylistsRequest {
	r.locale = locale
	return r
}

// Timestamp requests the playlists featured at a specific moment, for
// day-part-specific results.
func (r *FeaturedPlaylistsRequest) Timestamp(t time.Time) *FeaturedPlaylistsRequest {
	r.timestamp = t
	return r
}

// Limit sets the maximum number of items to return, clamped to [1, 50].
func (r *FeaturedPlaylistsRequest) Limit(limit int) *FeaturedPlaylistsRequest {
	r.limit = clamp(limit, 1, 50)
	return r
}

// Offset sets the index of the first item to return.
func (r *FeaturedPlaylistsRequest) Offset(offset int) *FeaturedPlaylistsRequest {
	r.offset = offset
	return r
}

// Get sends the request.
func (r *FeaturedPlaylistsRequest) Get(ctx context.Context) (*FeaturedPlaylists, error) {
	q := url.Values{}
	if r.country != "" {
		q.Set("country", r.country)
	}
	if r.locale != "" {
		q.Set("locale", r.locale)
	}
	if !r.timestamp.IsZero() {
		q.Set("timestamp", r.timestamp.Format(time.RFC3339))
	}
	setLimit(q, r.limit)
	setOffset(q, r.offset)

	var featured FeaturedPlaylists
	if err := r.c.get(ctx, "/browse/featured-playlists", q, &featured); err != nil {
		return nil, err
	}
	return &featured, nil
}

// CategoryPlaylists begins a request for the playlists tagged with a browse
// category.
func (c *Client) CategoryPlaylists(categoryID string) *CategoryPlaylistsRequest {
	return &CategoryPlaylistsRequest{c: c, id: categoryID}
}

// CategoryPlaylistsRequest accumulates the parameters of a
// category-playlists request.
type CategoryPlaylistsRequest struct {
	c       *Client
	id      string
	country string
	limit   int
	offset  int
}

// Country restricts the response to playlists available in the given market.
func (r *CategoryPlaylistsRequest) Country(country string) *CategoryPlaylistsRequest {
	r.country = country
	return r
}

// Limit sets the maximum number of items to return, clamped to [1, 50].
func (r *CategoryPlaylistsRequest) Limit(limit int) *CategoryPlaylistsRequest {
	r.limit = clamp(limit, 1, 50)
	return r
}

// Offset sets the index of the first item to return.
func (r *CategoryPlaylistsRequest) Offset(offset int) *CategoryPlaylistsRequest {
	r.offset = offset
	return r
}

// Get sends the request.
func (r *CategoryPlaylistsRequest) Get(ctx context.Context) (*Page[SimplifiedPlaylist], error) {
	q := url.Values{}
	if r.country != "" {
		q.Set("country", r.country)
	}
	setLimit(q, r.limit)
	setOffset(q, r.offset)

	var env categoryPlaylistsEnvelope
	if err := r.c.get(ctx, "/browse/categories/"+r.id+"/playlists", q, &env); err != nil {
		return nil, err
	}
	return &env.Playlists, nil
}
