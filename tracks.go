package spotify

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// LinkedFrom is present on relinked tracks and points at the originally
// requested track.
type LinkedFrom struct {
	ExternalURLs ExternalURLs `json:"external_urls"`
	Href         string       `json:"href"`
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// SimplifiedTrack is the track object embedded in albums.
type SimplifiedTrack struct {
	Artists          []SimplifiedArtist `json:"artists"`
	AvailableMarkets []string           `json:"available_markets,omitempty"`
	DiscNumber       int                `json:"disc_number"`
	DurationMS       int                `json:"duration_ms"`
	Explicit         bool               `json:"explicit"`
	ExternalURLs     ExternalURLs       `json:"external_urls"`
	Href             string             `json:"href"`
	ID               string             `json:"id"`
	IsPlayable       bool               `json:"is_playable,omitempty"`
	LinkedFrom       *LinkedFrom        `json:"linked_from,omitempty"`
	Restrictions     *Restrictions      `json:"restrictions,omitempty"`
	Name             string             `json:"name"`
	PreviewURL       string             `json:"preview_url,omitempty"`
	TrackNumber      int                `json:"track_number"`
	Type             string             `json:"type"`
	URI              string             `json:"uri"`
	IsLocal          bool               `json:"is_local"`
}

// Track is a full track object.
type Track struct {
	SimplifiedTrack
	Album       SimplifiedAlbum `json:"album"`
	ExternalIDs ExternalIDs     `json:"external_ids"`
	Popularity  int             `json:"popularity"`
}

// SavedTrack is a track saved in the current user's library.
type SavedTrack struct {
	AddedAt time.Time `json:"added_at"`
	Track   Track     `json:"track"`
}

// Recommendations holds recommended tracks along with the seeds that
// produced them.
type Recommendations struct {
	Seeds  []RecommendationSeed `json:"seeds"`
	Tracks []Track              `json:"tracks"`
}

// RecommendationSeed describes one of the seeds used for a recommendation.
type RecommendationSeed struct {
	AfterFilteringSize int    `json:"afterFilteringSize"`
	AfterRelinkingSize int    `json:"afterRelinkingSize"`
	Href               string `json:"href"`
	ID                 string `json:"id"`
	InitialPoolSize    int    `json:"initialPoolSize"`
	Type               string `json:"type"`
}

// Track begins a request for a single track.
func (c *Client) Track(id string) *TrackRequest {
	return &TrackRequest{c: c, id: id}
}

// TrackRequest accumulates the parameters of a single-track request.
type TrackRequest struct {
	c      *Client
	id     string
	market string
}

// Market restricts the response to content available in the given market.
func (r *TrackRequest) Market(market string) *TrackRequest {
	r.market = market
	return r
}

// Get sends the request.
func (r *TrackRequest) Get(ctx context.Context) (*Track, error) {
	q := url.Values{}
	if r.market != "" {
		q.Set("market", r.market)
	}

	var track Track
	if err := r.c.get(ctx, "/tracks/"+r.id, q, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Tracks begins a request for several tracks, up to 50 per call.
func (c *Client) Tracks(ids ...string) *TracksRequest {
	return &TracksRequest{c: c, ids: ids}
}

// TracksRequest accumulates the parameters of a several-tracks request.
type TracksRequest struct {
	c      *Client
	ids    []string
	market string
}

// Market restricts the response to content available in the given market.
func (r *TracksRequest) Market(market string) *TracksRequest {
	r.market = market
	return r
}

// Get sends the request.
func (r *TracksRequest) Get(ctx context.Context) ([]Track, error) {
	q := url.Values{}
	q.Set("ids", joinIDs(r.ids))
	if r.market != "" {
		q.Set("market", r.market)
	}

	var env tracksEnvelope
	if err := r.c.get(ctx, "/tracks", q, &env); err != nil {
		return nil, err
	}
	return env.Tracks, nil
}

// SavedTracks begins a request for the tracks saved in the current user's
// library. Requires user authorization with the user-library-read scope.
func (c *Client) SavedTracks() *SavedTracksRequest {
	return &SavedTracksRequest{c: c}
}

// SavedTracksRequest accumulates the parameters of a saved-tracks request.
type SavedTracksRequest struct {
	c      *Client
	market string
	limit  int
	offset int
}

// Market restricts the response to content available in the given market.
func (r *SavedTracksRequest) Market(market string) *SavedTracksRequest {
	r.market = market
	return r
}

// Limit sets the maximum number of items to return, clamped to [1, 50].
func (r *SavedTracksRequest) Limit(limit int) *SavedTracksRequest {
	r.limit = clamp(limit, 1, 50)
	return r
}

// Offset sets the index of the first item to return.
func (r *SavedTracksRequest) Offset(offset int) *SavedTracksRequest {
	r.offset = offset
	return r
}

// Get sends the request.
func (r *SavedTracksRequest) Get(ctx context.Context) (*Page[SavedTrack], error) {
	if err := r.c.requireUser(); err != nil {
		return nil, err
	}

	q := url.Values{}
	if r.market != "" {
		q.Set("market", r.market)
	}
	setLimit(q, r.limit)
	setOffset(q, r.offset)

	var page Page[SavedTrack]
	if err := r.c.get(ctx, "/me/tracks", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SaveTracks saves tracks to the current user's library. Requires user
// authorization with the user-library-modify scope.
func (c *Client) SaveTracks(ctx context.Context, ids ...string) error {
	if err := c.requireUser(); err != nil {
		return err
	}
	return c.put(ctx, "/me/tracks", nil, idsBody(ids), &NoContent{})
}

// RemoveSavedTracks removes tracks from the current user's library. Requires
// user authorization with the user-library-modify scope.
func (c *Client) RemoveSavedTracks(ctx context.Context, ids ...string) error {
	if err := c.requireUser(); err != nil {
		return err
	}
	return c.delete(ctx, "/me/tracks", nil, idsBody(ids), &NoContent{})
}

// CheckSavedTracks reports, for each given track ID, whether it is saved in
// the current user's library. Requires user authorization with the
// user-library-read scope.
func (c *Client) CheckSavedTracks(ctx context.Context, ids ...string) ([]bool, error) {
	if err := c.requireUser(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("ids", joinIDs(ids))

	var saved []bool
	if err := c.get(ctx, "/me/tracks/contains", q, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// Recommendations begins a request for track recommendations. At least one
// seed artist, genre or track is required; up to five seeds are accepted in
// total across the three kinds.
func (c *Client) Recommendations() *RecommendationsRequest {
	return &RecommendationsRequest{c: c}
}

// RecommendationsRequest accumulates the parameters of a recommendations
// request.
type RecommendationsRequest struct {
	c           *Client
	seedArtists []string
	seedGenres  []string
	seedTracks  []string
	market      string
	limit       int
}

// SeedArtists seeds the recommendations with artists.
func (r *RecommendationsRequest) SeedArtists(ids ...string) *RecommendationsRequest {
	r.seedArtists = ids
	return r
}

// SeedGenres seeds the recommendations with genres; see
// [Client.AvailableGenreSeeds] for valid values.
func (r *RecommendationsRequest) SeedGenres(genres ...string) *RecommendationsRequest {
	r.seedGenres = genres
	return r
}

// SeedTracks seeds the recommendations with tracks.
func (r *RecommendationsRequest) SeedTracks(ids ...string) *RecommendationsRequest {
	r.seedTracks = ids
	return r
}

// Market restricts the response to content available in the given market.
func (r *RecommendationsRequest) Market(market string) *RecommendationsRequest {
	r.market = market
	return r
}

// Limit sets the target number of recommended tracks, clamped to [1, 100].
func (r *RecommendationsRequest) Limit(limit int) *RecommendationsRequest {
	r.limit = clamp(limit, 1, 100)
	return r
}

// Get sends the request.
func (r *RecommendationsRequest) Get(ctx context.Context) (*Recommendations, error) {
	if len(r.seedArtists)+len(r.seedGenres)+len(r.seedTracks) == 0 {
		return nil, ErrMissingParameter
	}

	q := url.Values{}
	if len(r.seedArtists) > 0 {
		q.Set("seed_artists", strings.Join(r.seedArtists, ","))
	}
	if len(r.seedGenres) > 0 {
		q.Set("seed_genres", strings.Join(r.seedGenres, ","))
	}
	if len(r.seedTracks) > 0 {
		q.Set("seed_tracks", strings.Join(r.seedTracks, ","))
	}
	if r.market != "" {
		q.Set("market", r.market)
	}
	setLimit(q, r.limit)

	var recs Recommendations
	if err := r.c.get(ctx, "/recommendations", q, &recs); err != nil {
		return nil, err
	}
	return &recs, nil
}
