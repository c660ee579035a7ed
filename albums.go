package spotify

import (
	"context"
	"net/url"
	"time"
)

// SimplifiedAlbum is the album object embedded in lists and search results.
type SimplifiedAlbum struct {
	// AlbumType is one of "album", "single" or "compilation".
	AlbumType            string             `json:"album_type"`
	TotalTracks          int                `json:"total_tracks"`
	AvailableMarkets     []string           `json:"available_markets,omitempty"`
	ExternalURLs         ExternalURLs       `json:"external_urls"`
	Href                 string             `json:"href"`
	ID                   string             `json:"id"`
	Images               []Image            `json:"images"`
	Name                 string             `json:"name"`
	ReleaseDate          string             `json:"release_date"`
	ReleaseDatePrecision string             `json:"release_date_precision"`
	Restrictions         *Restrictions      `json:"restrictions,omitempty"`
	Type                 string             `json:"type"`
	URI                  string             `json:"uri"`
	Artists              []SimplifiedArtist `json:"artists"`
	// AlbumGroup is only present when listing an artist's albums; it is one
	// of "album", "single", "compilation" or "appears_on".
	AlbumGroup string `json:"album_group,omitempty"`
}

// Album is a full album object.
type Album struct {
	SimplifiedAlbum
	Tracks      Page[SimplifiedTrack] `json:"tracks"`
	Copyrights  []Copyright           `json:"copyrights"`
	ExternalIDs ExternalIDs           `json:"external_ids"`
	Genres      []string              `json:"genres"`
	Label       string                `json:"label"`
	Popularity  int                   `json:"popularity"`
}

// SavedAlbum is an album saved in the current user's library.
type SavedAlbum struct {
	AddedAt time.Time `json:"added_at"`
	Album   Album     `json:"album"`
}

type albumsEnvelope struct {
	Albums []Album `json:"albums"`
}

type pagedAlbumsEnvelope struct {
	Albums Page[SimplifiedAlbum] `json:"albums"`
}

// Album begins a request for a single album.
func (c *Client) Album(id string) *AlbumRequest {
	return &AlbumRequest{c: c, id: id}
}

// AlbumRequest accumulates the parameters of a single-album request.
type AlbumRequest struct {
	c      *Client
	id     string
	market string
}

// Market restricts the response to content available in the given
// ISO 3166-1 alpha-2 market.
func (r *AlbumRequest) Market(market string) *AlbumRequest {
	r.market = market
	return r
}

// Get sends the request.
func (r *AlbumRequest) Get(ctx context.Context) (*Album, error) {
	q := url.Values{}
	if r.market != "" {
		q.Set("market", r.market)
	}

	var album Album
	if err := r.c.get(ctx, "/albums/"+r.id, q, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Albums begins a request for several albums, up to 20 per call.
func (c *Client) Albums(ids ...string) *AlbumsRequest {
	return &AlbumsRequest{c: c, ids: ids}
}

// AlbumsRequest accumulates the parameters of a several-albums request.
type AlbumsRequest struct {
	c      *Client
	ids    []string
	market string
}

// Market restricts the response to content available in the given market.
func (r *AlbumsRequest) Market(market string) *AlbumsRequest {
	r.market = market
	return r
}

// Get sends the request.
func (r *AlbumsRequest) Get(ctx context.Context) ([]Album, error) {
	q := url.Values{}
	q.Set("ids", joinIDs(r.ids))
	if r.market != "" {
		q.Set("market", r.market)
	}

	var env albumsEnvelope
	if err := r.c.get(ctx, "/albums", q, &env); err != nil {
		return nil, err
	}
	return env.Albums, nil
}

// AlbumTracks begins a request for an album's tracks.
func (c *Client) AlbumTracks(albumID string) *AlbumTracksRequest {
	return &AlbumTracksRequest{c: c, id: albumID}
}

// AlbumTracksRequest accumulates the parameters of an album-tracks request.
type AlbumTracksRequest struct {
	c      *Client
	id     string
	market string
	limit  int
	offset int
}

// Market restricts the response to content available in the given market.
func (r *AlbumTracksRequest) Market(market string) *AlbumTracksRequest {
	r.market = market
	return r
}

// Limit sets the maximum number of items to return, clamped to [1, 50].
func (r *AlbumTracksRequest) Limit(limit int) *AlbumTracksRequest {
	r.limit = clamp(limit, 1, 50)
	return r
}

// Offset sets the index of the first item to return.
func (r *AlbumTracksRequest) Offset(offset int) *AlbumTracksRequest {
	r.offset = offset
	return r
}

// Get sends the request.
func (r *AlbumTracksRequest) Get(ctx context.Context) (*Page[SimplifiedTrack], error) {
	q := url.Values{}
	if r.market != "" {
		q.Set("market", r.market)
	}
	setLimit(q, r.limit)
	setOffset(q, r.offset)

	var page Page[SimplifiedTrack]
	if err := r.c.get(ctx, "/albums/"+r.id+"/tracks", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SavedAlbums begins a request for the albums saved in the current user's
// library. Requires user authorization with the user-library-read scope.
func (c *Client) SavedAlbums() *SavedAlbumsRequest {
	return &SavedAlbumsRequest{c: c}
}

// SavedAlbumsRequest accumulates the parameters of a saved-albums request.
type SavedAlbumsRequest struct {
	c      *Client
	market string
	limit  int
	offset int
}

// Market restricts the response to content available in the given market.
func (r *SavedAlbumsRequest) Market(market string) *SavedAlbumsRequest {
	r.market = market
	return r
}

// Limit sets the maximum number of items to return, clamped to [1, 50].
func (r *SavedAlbumsRequest) Limit(limit int) *SavedAlbumsRequest {
	r.limit = clamp(limit, 1, 50)
	return r
}

// Offset sets the index of the first item to return.
func (r *SavedAlbumsRequest) Offset(offset int) *SavedAlbumsRequest {
	r.offset = offset
	return r
}

// Get sends the request.
func (r *SavedAlbumsRequest) Get(ctx context.Context) (*Page[SavedAlbum], error) {
	if err := r.c.requireUser(); err != nil {
		return nil, err
	}

	q := url.Values{}
	if r.market != "" {
		q.Set("market", r.market)
	}
	setLimit(q, r.limit)
	setOffset(q, r.offset)

	var page Page[SavedAlbum]
	if err := r.c.get(ctx, "/me/albums", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SaveAlbums saves albums to the current user's library. Requires user
// authorization with the user-library-modify scope.
func (c *Client) SaveAlbums(ctx context.Context, ids ...string) error {
	if err := c.requireUser(); err != nil {
		return err
	}
	return c.put(ctx, "/me/albums", nil, idsBody(ids), &NoContent{})
}

// RemoveSavedAlbums removes albums from the current user's library. Requires
// user authorization with the user-library-modify scope.
func (c *Client) RemoveSavedAlbums(ctx context.Context, ids ...string) error {
	if err := c.requireUser(); err != nil {
		return err
	}
	return c.delete(ctx, "/me/albums", nil, idsBody(ids), &NoContent{})
}

// CheckSavedAlbums reports, for each given album ID, whether it is saved in
// the current user's library. Requires user authorization with the
// user-library-read scope.
func (c *Client) CheckSavedAlbums(ctx context.Context, ids ...string) ([]bool, error) {
	if err := c.requireUser(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("ids", joinIDs(ids))

	var saved []bool
	if err := c.get(ctx, "/me/albums/contains", q, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// NewReleases begins a request for new album releases featured on Spotify.
func (c *Client) NewReleases() *NewReleasesRequest {
	return &NewReleasesRequest{c: c}
}

// NewReleasesRequest accumulates the parameters of a new-releases request.
type NewReleasesRequest struct {
	c      *Client
	limit  int
	offset int
}

// Limit sets the maximum number of items to return, clamped to [1, 50].
func (r *NewReleasesRequest) Limit(limit int) *NewReleasesRequest {
	r.limit = clamp(limit, 1, 50)
	return r
}

// Offset sets the index of the first item to return.
func (r *NewReleasesRequest) Offset(offset int) *NewReleasesRequest {
	r.offset = offset
	return r
}

// Get sends the request.
func (r *NewReleasesRequest) Get(ctx context.Context) (*Page[SimplifiedAlbum], error) {
	q := url.Values{}
	setLimit(q, r.limit)
	setOffset(q, r.offset)

	var env pagedAlbumsEnvelope
	if err := r.c.get(ctx, "/browse/new-releases", q, &env); err != nil {
		return nil, err
	}
	return &env.Albums, nil
}
