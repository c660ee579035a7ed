package spotify

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"time"
)

// SimplifiedPlaylist is the playlist object embedded in lists and search
// results. Tracks only carries the total count.
type SimplifiedPlaylist struct {
	Collaborative bool          `json:"collaborative"`
	Description   string        `json:"description"`
	ExternalURLs  ExternalURLs  `json:"external_urls"`
	Href          string        `json:"href"`
	ID            string        `json:"id"`
	Images        []Image       `json:"images"`
	Name          string        `json:"name"`
	Owner         User          `json:"owner"`
	Public        bool          `json:"public"`
	SnapshotID    string        `json:"snapshot_id"`
	Tracks        PlaylistToRef `json:"tracks"`
	Type          string        `json:"type"`
	URI           string        `json:"uri"`
}

// PlaylistToRef is the track summary embedded in a simplified playlist.
type PlaylistToRef struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

// Playlist is a full playlist object.
type Playlist struct {
	Collaborative bool                `json:"collaborative"`
	Description   string              `json:"description"`
	ExternalURLs  ExternalURLs        `json:"external_urls"`
	Followers     Followers           `json:"followers"`
	Href          string              `json:"href"`
	ID            string              `json:"id"`
	Images        []Image             `json:"images"`
	Name          string              `json:"name"`
	Owner         User                `json:"owner"`
	Public        bool                `json:"public"`
	SnapshotID    string              `json:"snapshot_id"`
	Tracks        Page[PlaylistTrack] `json:"tracks"`
	Type          string              `json:"type"`
	URI           string              `json:"uri"`
}

// PlaylistTrack is a track within a playlist context. Track is a pointer
// because playlists can contain entries whose track is no longer available.
type PlaylistTrack struct {
	AddedAt time.Time `json:"added_at"`
	AddedBy User      `json:"added_by"`
	IsLocal bool      `json:"is_local"`
	Track   *Track    `json:"track"`
}

// snapshot is the response of the playlist modification endpoints.
type snapshot struct {
	SnapshotID string `json:"snapshot_id"`
}

// Playlist begins a request for a single playlist.
func (c *Client) Playlist(id string) *PlaylistRequest {
	return &PlaylistRequest{c: c, id: id}
}

// PlaylistRequest accumulates the parameters of a single-playlist request.
type PlaylistRequest struct {
	c      *Client
	id     string
	market string
	fields string
}

// Market restricts the response to content available in the given market.
func (r *PlaylistRequest) Market(market string) *PlaylistRequest {
	r.market = market
	return r
}

// Fields restricts the response to a subset of fields, using the Web API's
// filter syntax, e.g. "items(added_at,track(name,href))".
func (r *PlaylistRequest) Fields(fields string) *PlaylistRequest {
	r.fields = fields
	return r
}

// Get sends the request.
func (r *PlaylistRequest) Get(ctx context.Context) (*Playlist, error) {
	q := url.Values{}
	if r.market != "" {
		q.Set("market", r.market)
	}
	if r.fields != "" {
		q.Set("fields", r.fields)
	}

	var playlist Playlist
	if err := r.c.get(ctx, "/playlists/"+r.id, q, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// PlaylistItems begins a request for a playlist's items.
func (c *Client) PlaylistItems(playlistID string) *PlaylistItemsRequest {
	return &PlaylistItemsRequest{c: c, id: playlistID}
}

// PlaylistItemsRequest accumulates the parameters of a playlist-items
// request.
type PlaylistItemsRequest struct {
	c      *Client
	id     string
	market string
	fields string
	limit  int
	offset int
}

// Market restricts the response to content available in the given market.
func (r *PlaylistItemsRequest) Market(market string) *PlaylistItemsRequest {
	r.market = market
	return r
}

// Fields restricts the response to a subset of fields.
func (r *PlaylistItemsRequest) Fields(fields string) *PlaylistItemsRequest {
	r.fields = fields
	return r
}

// Limit sets the maximum number of items to return, clamped to [1, 50].
func (r *PlaylistItemsRequest) Limit(limit int) *PlaylistItemsRequest {
	r.limit = clamp(limit, 1, 50)
	return r
}

// Offset sets the index of the first item to return.
func (r *PlaylistItemsRequest) Offset(offset int) *PlaylistItemsRequest {
	r.offset = offset
	return r
}

// Get sends the request.
func (r *PlaylistItemsRequest) Get(ctx context.Context) (*Page[PlaylistTrack], error) {
	q := url.Values{}
	if r.market != "" {
		q.Set("market", r.market)
	}
	if r.fields != "" {
		q.Set("fields", r.fields)
	}
	setLimit(q, r.limit)
	setOffset(q, r.offset)

	var page Page[PlaylistTrack]
	if err := r.c.get(ctx, "/playlists/"+r.id+"/tracks", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CurrentUserPlaylists begins a request for the playlists owned or followed
// by the current user. Requires user authorization with the
// playlist-read-private scope for private playlists.
func (c *Client) CurrentUserPlaylists() *CurrentUserPlaylistsRequest {
	return &CurrentUserPlaylistsRequest{c: c}
}

// CurrentUserPlaylistsRequest accumulates the parameters of a
// current-user-playlists request.
type CurrentUserPlaylistsRequest struct {
	c      *Client
	limit  int
	offset int
}

// Limit sets the maximum number of items to return, clamped to [1, 50].
func (r *CurrentUserPlaylistsRequest) Limit(limit int) *CurrentUserPlaylistsRequest {
	r.limit = clamp(limit, 1, 50)
	return r
}

// Offset sets the index of the first item to return.
func (r *CurrentUserPlaylistsRequest) Offset(offset int) *CurrentUserPlaylistsRequest {
	r.offset = offset
	return r
}

// Get sends the request.
func (r *CurrentUserPlaylistsRequest) Get(ctx context.Context) (*Page[SimplifiedPlaylist], error) {
	if err := r.c.requireUser(); err != nil {
		return nil, err
	}

	q := url.Values{}
	setLimit(q, r.limit)
	setOffset(q, r.offset)

	var page Page[SimplifiedPlaylist]
	if err := r.c.get(ctx, "/me/playlists", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UserPlaylists begins a request for a user's public playlists.
func (c *Client) UserPlaylists(userID string) *UserPlaylistsRequest {
	return &UserPlaylistsRequest{c: c, userID: userID}
}

// UserPlaylistsRequest accumulates the parameters of a user-playlists
// request.
type UserPlaylistsRequest struct {
	c      *Client
	userID string
	limit  int
	offset int
}

// Limit sets the maximum number of items to return, clamped to [1, 50].
func (r *UserPlaylistsRequest) Limit(limit int) *UserPlaylistsRequest {
	r.limit = clamp(limit, 1, 50)
	return r
}

// Offset sets the index of the first item to return.
func (r *UserPlaylistsRequest) Offset(offset int) *UserPlaylistsRequest {
	r.offset = offset
	return r
}

// Get sends the request.
func (r *UserPlaylistsRequest) Get(ctx context.Context) (*Page[SimplifiedPlaylist], error) {
	q := url.Values{}
	setLimit(q, r.limit)
	setOffset(q, r.offset)

	var page Page[SimplifiedPlaylist]
	if err := r.c.get(ctx, "/users/"+r.userID+"/playlists", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePlaylist begins a request to create an empty playlist for a user.
// Requires user authorization with the playlist-modify-public or
// playlist-modify-private scope.
func (c *Client) CreatePlaylist(userID, name string) *CreatePlaylistRequest {
	return &CreatePlaylistRequest{c: c, userID: userID, name: name}
}

// CreatePlaylistRequest accumulates the parameters of a create-playlist
// request.
type CreatePlaylistRequest struct {
	c             *Client
	userID        string
	name          string
	public        *bool
	collaborative *bool
	description   string
}

// Public sets whether the playlist is public. Defaults to true on the API
// side.
func (r *CreatePlaylistRequest) Public(public bool) *CreatePlaylistRequest {
	r.public = &public
	return r
}

// Collaborative marks the playlist as collaborative; the API only accepts
// this on private playlists.
func (r *CreatePlaylistRequest) Collaborative(collaborative bool) *CreatePlaylistRequest {
	r.collaborative = &collaborative
	return r
}

// Description sets the playlist description.
func (r *CreatePlaylistRequest) Description(description string) *CreatePlaylistRequest {
	r.description = description
	return r
}

// Send sends the request and returns the created playlist.
func (r *CreatePlaylistRequest) Send(ctx context.Context) (*Playlist, error) {
	if err := r.c.requireUser(); err != nil {
		return nil, err
	}

	body := map[string]any{"name": r.name}
	if r.public != nil {
		body["public"] = *r.public
	}
	if r.collaborative != nil {
		body["collaborative"] = *r.collaborative
	}
	if r.description != "" {
		body["description"] = r.description
	}

	var playlist Playlist
	if err := r.c.post(ctx, "/users/"+r.userID+"/playlists", nil, body, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// ChangePlaylistDetails begins a request to change a playlist's name and
// visibility. Requires user authorization.
func (c *Client) ChangePlaylistDetails(playlistID string) *ChangePlaylistDetailsRequest {
	return &ChangePlaylistDetailsRequest{c: c, id: playlistID}
}

// ChangePlaylistDetailsRequest accumulates the parameters of a
// change-playlist-details request.
type ChangePlaylistDetailsRequest struct {
	c             *Client
	id            string
	name          string
	public        *bool
	collaborative *bool
	description   string
}

// Name sets a new playlist name.
func (r *ChangePlaylistDetailsRequest) Name(name string) *ChangePlaylistDetailsRequest {
	r.name = name
	return r
}

// Public sets whether the playlist is public.
func (r *ChangePlaylistDetailsRequest) Public(public bool) *ChangePlaylistDetailsRequest {
	r.public = &public
	return r
}

// Collaborative marks the playlist as collaborative.
func (r *ChangePlaylistDetailsRequest) Collaborative(collaborative bool) *ChangePlaylistDetailsRequest {
	r.collaborative = &collaborative
	return r
}

// Description sets a new playlist description.
func (r *ChangePlaylistDetailsRequest) Description(description string) *ChangePlaylistDetailsRequest {
	r.description = description
	return r
}

// Send sends the request.
func (r *ChangePlaylistDetailsRequest) Send(ctx context.Context) error {
	if err := r.c.requireUser(); err != nil {
		return err
	}

	body := map[string]any{}
	if r.name != "" {
		body["name"] = r.name
	}
	if r.public != nil {
		body["public"] = *r.public
	}
	if r.collaborative != nil {
		body["collaborative"] = *r.collaborative
	}
	if r.description != "" {
		body["description"] = r.description
	}

	return r.c.put(ctx, "/playlists/"+r.id, nil, body, &NoContent{})
}

// AddPlaylistItems begins a request to append items to a playlist. Requires
// user authorization.
func (c *Client) AddPlaylistItems(playlistID string, uris ...string) *AddPlaylistItemsRequest {
	return &AddPlaylistItemsRequest{c: c, id: playlistID, uris: uris}
}

// AddPlaylistItemsRequest accumulates the parameters of an
// add-playlist-items request.
type AddPlaylistItemsRequest struct {
	c        *Client
	id       string
	uris     []string
	position *int
}

// Position inserts the items at a zero-based position instead of appending.
func (r *AddPlaylistItemsRequest) Position(position int) *AddPlaylistItemsRequest {
	r.position = &position
	return r
}

// Send sends the request and returns the new playlist snapshot ID.
func (r *AddPlaylistItemsRequest) Send(ctx context.Context) (string, error) {
	if err := r.c.requireUser(); err != nil {
		return "", err
	}

	body := map[string]any{"uris": r.uris}
	if r.position != nil {
		body["position"] = *r.position
	}

	var snap snapshot
	if err := r.c.post(ctx, "/playlists/"+r.id+"/tracks", nil, body, &snap); err != nil {
		return "", err
	}
	return snap.SnapshotID, nil
}

// RemovePlaylistItems begins a request to remove all occurrences of the
// given item URIs from a playlist. Requires user authorization.
func (c *Client) RemovePlaylistItems(playlistID string, uris ...string) *RemovePlaylistItemsRequest {
	return &RemovePlaylistItemsRequest{c: c, id: playlistID, uris: uris}
}

// RemovePlaylistItemsRequest accumulates the parameters of a
// remove-playlist-items request.
type RemovePlaylistItemsRequest struct {
	c          *Client
	id         string
	uris       []string
	snapshotID string
}

// SnapshotID makes the removal apply against a specific playlist snapshot.
func (r *RemovePlaylistItemsRequest) SnapshotID(id string) *RemovePlaylistItemsRequest {
	r.snapshotID = id
	return r
}

// Send sends the request and returns the new playlist snapshot ID.
func (r *RemovePlaylistItemsRequest) Send(ctx context.Context) (string, error) {
	if err := r.c.requireUser(); err != nil {
		return "", err
	}

	tracks := make([]map[string]string, 0, len(r.uris))
	for _, uri := range r.uris {
		tracks = append(tracks, map[string]string{"uri": uri})
	}

	body := map[string]any{"tracks": tracks}
	if r.snapshotID != "" {
		body["snapshot_id"] = r.snapshotID
	}

	var snap snapshot
	if err := r.c.delete(ctx, "/playlists/"+r.id+"/tracks", nil, body, &snap); err != nil {
		return "", err
	}
	return snap.SnapshotID, nil
}

// ReplacePlaylistItems replaces all items of a playlist with the given URIs,
// returning the new snapshot ID. Requires user authorization.
func (c *Client) ReplacePlaylistItems(ctx context.Context, playlistID string, uris ...string) (string, error) {
	if err := c.requireUser(); err != nil {
		return "", err
	}

	var snap snapshot
	body := map[string]any{"uris": uris}
	if err := c.put(ctx, "/playlists/"+playlistID+"/tracks", nil, body, &snap); err != nil {
		return "", err
	}
	return snap.SnapshotID, nil
}

// ReorderPlaylistItems begins a request to move a range of playlist items to
// a new position. Requires user authorization.
func (c *Client) ReorderPlaylistItems(playlistID string, rangeStart, insertBefore int) *ReorderPlaylistItemsRequest {
	return &ReorderPlaylistItemsRequest{c: c, id: playlistID, rangeStart: rangeStart, insertBefore: insertBefore}
}

// ReorderPlaylistItemsRequest accumulates the parameters of a
// reorder-playlist-items request.
type ReorderPlaylistItemsRequest struct {
	c            *Client
	id           string
	rangeStart   int
	insertBefore int
	rangeLength  int
	snapshotID   string
}

// RangeLength sets how many items to move; the API default is 1.
func (r *ReorderPlaylistItemsRequest) RangeLength(length int) *ReorderPlaylistItemsRequest {
	r.rangeLength = length
	return r
}

// SnapshotID makes the reorder apply against a specific playlist snapshot.
func (r *ReorderPlaylistItemsRequest) SnapshotID(id string) *ReorderPlaylistItemsRequest {
	r.snapshotID = id
	return r
}

// Send sends the request and returns the new playlist snapshot ID.
func (r *ReorderPlaylistItemsRequest) Send(ctx context.Context) (string, error) {
	if err := r.c.requireUser(); err != nil {
		return "", err
	}

	body := map[string]any{
		"range_start":   r.rangeStart,
		"insert_before": r.insertBefore,
	}
	if r.rangeLength > 0 {
		body["range_length"] = r.rangeLength
	}
	if r.snapshotID != "" {
		body["snapshot_id"] = r.snapshotID
	}

	var snap snapshot
	if err := r.c.put(ctx, "/playlists/"+r.id+"/tracks", nil, body, &snap); err != nil {
		return "", err
	}
	return snap.SnapshotID, nil
}

// AddPlaylistCoverImage uploads a custom cover image for a playlist. The
// image must be JPEG data, at most 256 KB once encoded. Requires user
// authorization with the ugc-image-upload scope.
func (c *Client) AddPlaylistCoverImage(ctx context.Context, playlistID string, jpeg []byte) error {
	if err := c.requireUser(); err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString(jpeg)
	body := rawBody{contentType: "image/jpeg", data: []byte(encoded)}
	return c.do(ctx, http.MethodPut, "/playlists/"+playlistID+"/images", nil, body, &NoContent{})
}

// PlaylistCoverImage fetches the cover images of a playlist.
func (c *Client) PlaylistCoverImage(ctx context.Context, playlistID string) ([]Image, error) {
	var images []Image
	if err := c.get(ctx, "/playlists/"+playlistID+"/images", nil, &images); err != nil {
		return nil, err
	}
	return images, nil
}
