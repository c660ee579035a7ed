package spotify

import (
	"context"
	"net/http"
	"net/url"
)

// User is a public user profile. It also appears as the owner of playlists
// and the adder of playlist items.
type User struct {
	DisplayName  string       `json:"display_name"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Followers    Followers    `json:"followers"`
	Href         string       `json:"href"`
	ID           string       `json:"id"`
	Images       []Image      `json:"images"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// PrivateUser is the current user's profile. Country, Email, ExplicitContent
// and Product are only populated when the matching user-read-private or
// user-read-email scopes were granted.
type PrivateUser struct {
	User
	Country         string           `json:"country,omitempty"`
	Email           string           `json:"email,omitempty"`
	ExplicitContent *ExplicitContent `json:"explicit_content,omitempty"`
	Product         string           `json:"product,omitempty"`
}

type followedArtistsEnvelope struct {
	Artists CursorPage[Artist] `json:"artists"`
}

// CurrentUserProfile fetches the profile of the user who authorized the
// client. Requires user authorization.
func (c *Client) CurrentUserProfile(ctx context.Context) (*PrivateUser, error) {
	if err := c.requireUser(); err != nil {
		return nil, err
	}

	var user PrivateUser
	if err := c.get(ctx, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserProfile fetches a user's public profile.
func (c *Client) UserProfile(ctx context.Context, userID string) (*User, error) {
	var user User
	if err := c.get(ctx, "/users/"+userID, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// TopArtists begins a request for the current user's top artists. Requires
// user authorization with the user-top-read scope.
func (c *Client) TopArtists() *TopItemsRequest[Artist] {
	return &TopItemsRequest[Artist]{c: c, kind: "artists"}
}

// TopTracks begins a request for the current user's top tracks. Requires
// user authorization with the user-top-read scope.
func (c *Client) TopTracks() *TopItemsRequest[Track] {
	return &TopItemsRequest[Track]{c: c, kind: "tracks"}
}

// TopItemsRequest accumulates the parameters of a top-items request; the
// type parameter picks between artists and tracks.
type TopItemsRequest[T any] struct {
	c         *Client
	kind      string
	timeRange string
	limit     int
	offset    int
}

// TimeRange sets the time frame the affinities are computed over:
// "short_term" (~4 weeks), "medium_term" (~6 months, the API default) or
// "long_term" (~1 year).
func (r *TopItemsRequest[T]) TimeRange(timeRange string) *TopItemsRequest[T] {
	r.timeRange = timeRange
	return r
}

// Limit sets the maximum number of items to return, clamped to [1, 50].
func (r *TopItemsRequest[T]) Limit(limit int) *TopItemsRequest[T] {
	r.limit = clamp(limit, 1, 50)
	return r
}

// Offset sets the index of the first item to return.
func (r *TopItemsRequest[T]) Offset(offset int) *TopItemsRequest[T] {
	r.offset = offset
	return r
}

// Get sends the request.
func (r *TopItemsRequest[T]) Get(ctx context.Context) (*Page[T], error) {
	if err := r.c.requireUser(); err != nil {
		return nil, err
	}

	q := url.Values{}
	if r.timeRange != "" {
		q.Set("time_range", r.timeRange)
	}
	setLimit(q, r.limit)
	setOffset(q, r.offset)

	var page Page[T]
	if err := r.c.get(ctx, "/me/top/"+r.kind, q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FollowPlaylist begins a request to follow a playlist as the current user.
// Requires user authorization.
func (c *Client) FollowPlaylist(playlistID string) *FollowPlaylistRequest {
	return &FollowPlaylistRequest{c: c, id: playlistID}
}

// FollowPlaylistRequest accumulates the parameters of a follow-playlist
// request.
type FollowPlaylistRequest struct {
	c      *Client
	id     string
	public *bool
}

// Public sets whether the playlist will appear on the user's profile; the
// API default is true.
func (r *FollowPlaylistRequest) Public(public bool) *FollowPlaylistRequest {
	r.public = &public
	return r
}

// Send sends the request.
func (r *FollowPlaylistRequest) Send(ctx context.Context) error {
	if err := r.c.requireUser(); err != nil {
		return err
	}

	body := map[string]any{}
	if r.public != nil {
		body["public"] = *r.public
	}
	return r.c.put(ctx, "/playlists/"+r.id+"/followers", nil, body, &NoContent{})
}

// UnfollowPlaylist unfollows a playlist as the current user. Requires user
// authorization.
func (c *Client) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	if err := c.requireUser(); err != nil {
		return err
	}
	return c.delete(ctx, "/playlists/"+playlistID+"/followers", nil, nil, &NoContent{})
}

// FollowedArtists begins a request for the artists the current user follows.
// Requires user authorization with the user-follow-read scope.
func (c *Client) FollowedArtists() *FollowedArtistsRequest {
	return &FollowedArtistsRequest{c: c}
}

// FollowedArtistsRequest accumulates the parameters of a followed-artists
// request.
type FollowedArtistsRequest struct {
	c     *Client
	after string
	limit int
}

// After sets the last artist ID of the previous page, for cursor paging.
func (r *FollowedArtistsRequest) After(artistID string) *FollowedArtistsRequest {
	r.after = artistID
	return r
}

// Limit sets the maximum number of items to return, clamped to [1, 50].
func (r *FollowedArtistsRequest) Limit(limit int) *FollowedArtistsRequest {
	r.limit = clamp(limit, 1, 50)
	return r
}

// Get sends the request.
func (r *FollowedArtistsRequest) Get(ctx context.Context) (*CursorPage[Artist], error) {
	if err := r.c.requireUser(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("type", "artist")
	if r.after != "" {
		q.Set("after", r.after)
	}
	setLimit(q, r.limit)

	var env followedArtistsEnvelope
	if err := r.c.get(ctx, "/me/following", q, &env); err != nil {
		return nil, err
	}
	return &env.Artists, nil
}

// followKind is the "type" query parameter of the follow endpoints.
func (c *Client) modifyFollows(ctx context.Context, method, followKind string, ids []string) error {
	if err := c.requireUser(); err != nil {
		return err
	}

	q := url.Values{}
	q.Set("type", followKind)
	return c.do(ctx, method, "/me/following", q, idsBody(ids), &NoContent{})
}

// FollowArtists follows artists as the current user. Requires user
// authorization with the user-follow-modify scope.
func (c *Client) FollowArtists(ctx context.Context, ids ...string) error {
	return c.modifyFollows(ctx, http.MethodPut, "artist", ids)
}

// FollowUsers follows users as the current user. Requires user authorization
// with the user-follow-modify scope.
func (c *Client) FollowUsers(ctx context.Context, ids ...string) error {
	return c.modifyFollows(ctx, http.MethodPut, "user", ids)
}

// UnfollowArtists unfollows artists as the current user. Requires user
// authorization with the user-follow-modify scope.
func (c *Client) UnfollowArtists(ctx context.Context, ids ...string) error {
	return c.modifyFollows(ctx, http.MethodDelete, "artist", ids)
}

// UnfollowUsers unfollows users as the current user. Requires user
// authorization with the user-follow-modify scope.
func (c *Client) UnfollowUsers(ctx context.Context, ids ...string) error {
	return c.modifyFollows(ctx, http.MethodDelete, "user", ids)
}

func (c *Client) checkFollows(ctx context.Context, followKind string, ids []string) ([]bool, error) {
	if err := c.requireUser(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("type", followKind)
	q.Set("ids", joinIDs(ids))

	var follows []bool
	if err := c.get(ctx, "/me/following/contains", q, &follows); err != nil {
		return nil, err
	}
	return follows, nil
}

// CheckFollowsArtists reports, for each given artist ID, whether the current
// user follows them. Requires user authorization with the user-follow-read
// scope.
func (c *Client) CheckFollowsArtists(ctx context.Context, ids ...string) ([]bool, error) {
	return c.checkFollows(ctx, "artist", ids)
}

// CheckFollowsUsers reports, for each given user ID, whether the current
// user follows them. Requires user authorization with the user-follow-read
// scope.
func (c *Client) CheckFollowsUsers(ctx context.Context, ids ...string) ([]bool, error) {
	return c.checkFollows(ctx, "user", ids)
}

// CheckUsersFollowPlaylist reports, for each given user ID, whether they
// follow the playlist.
func (c *Client) CheckUsersFollowPlaylist(ctx context.Context, playlistID string, userIDs ...string) ([]bool, error) {
	q := url.Values{}
	q.Set("ids", joinIDs(userIDs))

	var follows []bool
	if err := c.get(ctx, "/playlists/"+playlistID+"/followers/contains", q, &follows); err != nil {
		return nil, err
	}
	return follows, nil
}
