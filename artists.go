package spotify

import (
	"context"
	"net/url"
	"strings"
)

// SimplifiedArtist is the artist object embedded in albums and tracks.
type SimplifiedArtist struct {
	ExternalURLs ExternalURLs `json:"external_urls"`
	Href         string       `json:"href"`
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// Artist is a full artist object.
type Artist struct {
	SimplifiedArtist
	Followers  Followers `json:"followers"`
	Genres     []string  `json:"genres"`
	Images     []Image   `json:"images"`
	Popularity int       `json:"popularity"`
}

type artistsEnvelope struct {
	Artists []Artist `json:"artists"`
}

type tracksEnvelope struct {
	Tracks []Track `json:"tracks"`
}

// Artist fetches a single artist.
func (c *Client) Artist(ctx context.Context, id string) (*Artist, error) {
	var artist Artist
	if err := c.get(ctx, "/artists/"+id, nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// Artists fetches several artists, up to 50 per call.
func (c *Client) Artists(ctx context.Context, ids ...string) ([]Artist, error) {
	q := url.Values{}
	q.Set("ids", joinIDs(ids))

	var env artistsEnvelope
	if err := c.get(ctx, "/artists", q, &env); err != nil {
		return nil, err
	}
	return env.Artists, nil
}

// RelatedArtists fetches artists similar to the given one.
func (c *Client) RelatedArtists(ctx context.Context, id string) ([]Artist, error) {
	var env artistsEnvelope
	if err := c.get(ctx, "/artists/"+id+"/related-artists", nil, &env); err != nil {
		return nil, err
	}
	return env.Artists, nil
}

// ArtistTopTracks begins a request for an artist's top tracks.
func (c *Client) ArtistTopTracks(artistID string) *ArtistTopTracksRequest {
	return &ArtistTopTracksRequest{c: c, id: artistID}
}

// ArtistTopTracksRequest accumulates the parameters of a top-tracks request.
type ArtistTopTracksRequest struct {
	c      *Client
	id     string
	market string
}

// Market restricts the response to content available in the given market.
func (r *ArtistTopTracksRequest) Market(market string) *ArtistTopTracksRequest {
	r.market = market
	return r
}

// Get sends the request.
func (r *ArtistTopTracksRequest) Get(ctx context.Context) ([]Track, error) {
	q := url.Values{}
	if r.market != "" {
		q.Set("market", r.market)
	}

	var env tracksEnvelope
	if err := r.c.get(ctx, "/artists/"+r.id+"/top-tracks", q, &env); err != nil {
		return nil, err
	}
	return env.Tracks, nil
}

// ArtistAlbums begins a request for an artist's albums.
func (c *Client) ArtistAlbums(artistID string) *ArtistAlbumsRequest {
	return &ArtistAlbumsRequest{c: c, id: artistID}
}

// ArtistAlbumsRequest accumulates the parameters of an artist-albums request.
type ArtistAlbumsRequest struct {
	c             *Client
	id            string
	includeGroups []string
	market        string
	limit         int
	offset        int
}

// IncludeGroups filters the albums by relationship to the artist; valid
// values are "album", "single", "appears_on" and "compilation".
func (r *ArtistAlbumsRequest) IncludeGroups(groups ...string) *ArtistAlbumsRequest {
	r.includeGroups = groups
	return r
}

// Market restricts the response to content available in the given market.
func (r *ArtistAlbumsRequest) Market(market string) *ArtistAlbumsRequest {
	r.market = market
	return r
}

// Limit sets the maximum number of items to return, clamped to [1, 50].
func (r *ArtistAlbumsRequest) Limit(limit int) *ArtistAlbumsRequest {
	r.limit = clamp(limit, 1, 50)
	return r
}

// Offset sets the index of the first item to return.
func (r *ArtistAlbumsRequest) Offset(offset int) *ArtistAlbumsRequest {
	r.offset = offset
	return r
}

// Get sends the request.
func (r *ArtistAlbumsRequest) Get(ctx context.Context) (*Page[SimplifiedAlbum], error) {
	q := url.Values{}
	if len(r.includeGroups) > 0 {
		q.Set("include_groups", strings.Join(r.includeGroups, ","))
	}
	if r.market != "" {
		q.Set("market", r.market)
	}
	setLimit(q, r.limit)
	setOffset(q, r.offset)

	var page Page[SimplifiedAlbum]
	if err := r.c.get(ctx, "/artists/"+r.id+"/albums", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
