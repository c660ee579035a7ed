package spotify

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Device is a playback device known to Spotify Connect.
type Device struct {
	// ID may be empty, and persistence across sessions is not guaranteed.
	ID               string `json:"id"`
	IsActive         bool   `json:"is_active"`
	IsPrivateSession bool   `json:"is_private_session"`
	// IsRestricted devices refuse Web API commands.
	IsRestricted   bool   `json:"is_restricted"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	VolumePercent  int    `json:"volume_percent"`
	SupportsVolume bool   `json:"supports_volume"`
}

type devicesEnvelope struct {
	Devices []Device `json:"devices"`
}

// PlaybackContext is the context an item is played from, such as an album,
// artist or playlist.
type PlaybackContext struct {
	Type         string       `json:"type"`
	Href         string       `json:"href"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	URI          string       `json:"uri"`
}

// Disallows lists playback actions unavailable in the current state.
type Disallows struct {
	InterruptingPlayback  bool `json:"interrupting_playback,omitempty"`
	Pausing               bool `json:"pausing,omitempty"`
	Resuming              bool `json:"resuming,omitempty"`
	Seeking               bool `json:"seeking,omitempty"`
	SkippingNext          bool `json:"skipping_next,omitempty"`
	SkippingPrev          bool `json:"skipping_prev,omitempty"`
	TogglingRepeatContext bool `json:"toggling_repeat_context,omitempty"`
	TogglingShuffle       bool `json:"toggling_shuffle,omitempty"`
	TogglingRepeatTrack   bool `json:"toggling_repeat_track,omitempty"`
	TransferringPlayback  bool `json:"transferring_playback,omitempty"`
}

// Actions wraps the disallowed playback actions.
type Actions struct {
	Disallows Disallows `json:"disallows"`
}

// PlaybackState is the current user's playback state. Item is nil when the
// playing item is not a track (e.g. a podcast episode).
type PlaybackState struct {
	Device               *Device          `json:"device"`
	RepeatState          string           `json:"repeat_state"`
	ShuffleState         bool             `json:"shuffle_state"`
	Context              *PlaybackContext `json:"context"`
	Timestamp            int64            `json:"timestamp"`
	ProgressMS           int              `json:"progress_ms"`
	IsPlaying            bool             `json:"is_playing"`
	Item                 *Track           `json:"item"`
	CurrentlyPlayingType string           `json:"currently_playing_type"`
	Actions              Actions          `json:"actions"`
}

// CurrentlyPlaying describes the item currently playing.
type CurrentlyPlaying struct {
	Context              *PlaybackContext `json:"context"`
	Timestamp            int64            `json:"timestamp"`
	ProgressMS           int              `json:"progress_ms"`
	IsPlaying            bool             `json:"is_playing"`
	Item                 *Track           `json:"item"`
	CurrentlyPlayingType string           `json:"currently_playing_type"`
	Actions              Actions          `json:"actions"`
}

// PlayHistory is an entry of the recently played tracks list.
type PlayHistory struct {
	Track    Track            `json:"track"`
	PlayedAt time.Time        `json:"played_at"`
	Context  *PlaybackContext `json:"context"`
}

// Queue is the user's playback queue.
type Queue struct {
	CurrentlyPlaying *Track  `json:"currently_playing"`
	Queue            []Track `json:"queue"`
}

// PlaybackState begins a request for the current playback state. Requires
// user authorization with the user-read-playback-state scope.
func (c *Client) PlaybackState() *PlaybackStateRequest {
	return &PlaybackStateRequest{c: c}
}

// PlaybackStateRequest accumulates the parameters of a playback-state
// request.
type PlaybackStateRequest struct {
	c      *Client
	market string
}

// Market restricts the response to content available in the given market.
func (r *PlaybackStateRequest) Market(market string) *PlaybackStateRequest {
	r.market = market
	return r
}

// Get sends the request. It returns nil without error when playback is
// inactive, which the API signals with an empty 204 response.
func (r *PlaybackStateRequest) Get(ctx context.Context) (*PlaybackState, error) {
	if err := r.c.requireUser(); err != nil {
		return nil, err
	}

	q := url.Values{}
	if r.market != "" {
		q.Set("market", r.market)
	}

	var state PlaybackState
	found, err := r.c.getOptional(ctx, "/me/player", q, &state)
	if err != nil || !found {
		return nil, err
	}
	return &state, nil
}

// AvailableDevices fetches the devices playback can be transferred to.
// Requires user authorization with the user-read-playback-state scope.
func (c *Client) AvailableDevices(ctx context.Context) ([]Device, error) {
	if err := c.requireUser(); err != nil {
		return nil, err
	}

	var env devicesEnvelope
	if err := c.get(ctx, "/me/player/devices", nil, &env); err != nil {
		return nil, err
	}
	return env.Devices, nil
}

// CurrentlyPlayingTrack begins a request for the item currently playing.
// Requires user authorization with the user-read-currently-playing scope.
func (c *Client) CurrentlyPlayingTrack() *CurrentlyPlayingRequest {
	return &CurrentlyPlayingRequest{c: c}
}

// CurrentlyPlayingRequest accumulates the parameters of a currently-playing
// request.
type CurrentlyPlayingRequest struct {
	c      *Client
	market string
}

// Market restricts the response to content available in the given market.
func (r *CurrentlyPlayingRequest) Market(market string) *CurrentlyPlayingRequest {
	r.market = market
	return r
}

// Get sends the request. It returns nil without error when nothing is
// playing.
func (r *CurrentlyPlayingRequest) Get(ctx context.Context) (*CurrentlyPlaying, error) {
	if err := r.c.requireUser(); err != nil {
		return nil, err
	}

	q := url.Values{}
	if r.market != "" {
		q.Set("market", r.market)
	}

	var playing CurrentlyPlaying
	found, err := r.c.getOptional(ctx, "/me/player/currently-playing", q, &playing)
	if err != nil || !found {
		return nil, err
	}
	return &playing, nil
}

// TransferPlayback transfers playback to another device. When play is true
// playback starts on the new device, otherwise the current state is kept.
// Requires user authorization with the user-modify-playback-state scope.
func (c *Client) TransferPlayback(ctx context.Context, deviceID string, play bool) error {
	if err := c.requireUser(); err != nil {
		return err
	}

	body := map[string]any{"device_ids": []string{deviceID}, "play": play}
	return c.put(ctx, "/me/player", nil, body, &NoContent{})
}

// StartPlayback begins a request to start or resume playback. With no
// options set it resumes the user's current context. Requires user
// authorization with the user-modify-playback-state scope.
func (c *Client) StartPlayback() *StartPlaybackRequest {
	return &StartPlaybackRequest{c: c}
}

// StartPlaybackRequest accumulates the parameters of a start-playback
// request.
type StartPlaybackRequest struct {
	c          *Client
	deviceID   string
	contextURI string
	uris       []string
	offset     *int
	positionMS *int
}

// DeviceID targets a specific device instead of the active one.
func (r *StartPlaybackRequest) DeviceID(id string) *StartPlaybackRequest {
	r.deviceID = id
	return r
}

// ContextURI plays from a context such as an album, artist or playlist URI.
func (r *StartPlaybackRequest) ContextURI(uri string) *StartPlaybackRequest {
	r.contextURI = uri
	return r
}

// URIs plays the given track URIs.
func (r *StartPlaybackRequest) URIs(uris ...string) *StartPlaybackRequest {
	r.uris = uris
	return r
}

// Offset starts playback at the given zero-based position in the context.
func (r *StartPlaybackRequest) Offset(position int) *StartPlaybackRequest {
	r.offset = &position
	return r
}

// PositionMS seeks to the given position in the first played item.
func (r *StartPlaybackRequest) PositionMS(ms int) *StartPlaybackRequest {
	r.positionMS = &ms
	return r
}

// Send sends the request.
func (r *StartPlaybackRequest) Send(ctx context.Context) error {
	if err := r.c.requireUser(); err != nil {
		return err
	}

	q := url.Values{}
	if r.deviceID != "" {
		q.Set("device_id", r.deviceID)
	}

	body := map[string]any{}
	if r.contextURI != "" {
		body["context_uri"] = r.contextURI
	}
	if len(r.uris) > 0 {
		body["uris"] = r.uris
	}
	if r.offset != nil {
		body["offset"] = map[string]any{"position": *r.offset}
	}
	if r.positionMS != nil {
		body["position_ms"] = *r.positionMS
	}

	return r.c.put(ctx, "/me/player/play", q, body, &NoContent{})
}

// deviceScopedRequest is the shared shape of the player commands whose only
// option is the target device.
type deviceScopedRequest struct {
	c        *Client
	method   string
	path     string
	query    url.Values
	deviceID string
}

func (r *deviceScopedRequest) send(ctx context.Context) error {
	if err := r.c.requireUser(); err != nil {
		return err
	}

	q := r.query
	if q == nil {
		q = url.Values{}
	}
	if r.deviceID != "" {
		q.Set("device_id", r.deviceID)
	}
	return r.c.do(ctx, r.method, r.path, q, nil, &NoContent{})
}

// PausePlayback begins a request to pause playback. Requires user
// authorization with the user-modify-playback-state scope.
func (c *Client) PausePlayback() *PausePlaybackRequest {
	return &PausePlaybackRequest{deviceScopedRequest{c: c, method: http.MethodPut, path: "/me/player/pause"}}
}

// PausePlaybackRequest accumulates the parameters of a pause request.
type PausePlaybackRequest struct{ deviceScopedRequest }

// DeviceID targets a specific device instead of the active one.
func (r *PausePlaybackRequest) DeviceID(id string) *PausePlaybackRequest {
	r.deviceID = id
	return r
}

// Send sends the request.
func (r *PausePlaybackRequest) Send(ctx context.Context) error { return r.send(ctx) }

// SkipToNext begins a request to skip to the next item. Requires user
// authorization with the user-modify-playback-state scope.
func (c *Client) SkipToNext() *SkipRequest {
	return &SkipRequest{deviceScopedRequest{c: c, method: http.MethodPost, path: "/me/player/next"}}
}

// SkipToPrevious begins a request to skip to the previous item. Requires
// user authorization with the user-modify-playback-state scope.
func (c *Client) SkipToPrevious() *SkipRequest {
	return &SkipRequest{deviceScopedRequest{c: c, method: http.MethodPost, path: "/me/player/previous"}}
}

// SkipRequest accumulates the parameters of a skip request.
type SkipRequest struct{ deviceScopedRequest }

// DeviceID targets a specific device instead of the active one.
func (r *SkipRequest) DeviceID(id string) *SkipRequest {
	r.deviceID = id
	return r
}

// Send sends the request.
func (r *SkipRequest) Send(ctx context.Context) error { return r.send(ctx) }

// SeekToPosition begins a request to seek to a position in the currently
// playing item. Requires user authorization with the
// user-modify-playback-state scope.
func (c *Client) SeekToPosition(positionMS int) *SeekRequest {
	q := url.Values{}
	q.Set("position_ms", strconv.Itoa(positionMS))
	return &SeekRequest{deviceScopedRequest{c: c, method: http.MethodPut, path: "/me/player/seek", query: q}}
}

// SeekRequest accumulates the parameters of a seek request.
type SeekRequest struct{ deviceScopedRequest }

// DeviceID targets a specific device instead of the active one.
func (r *SeekRequest) DeviceID(id string) *SeekRequest {
	r.deviceID = id
	return r
}

// Send sends the request.
func (r *SeekRequest) Send(ctx context.Context) error { return r.send(ctx) }

// SetRepeatMode begins a request to set the repeat mode: "track", "context"
// or "off". Requires user authorization with the user-modify-playback-state
// scope.
func (c *Client) SetRepeatMode(state string) *RepeatModeRequest {
	q := url.Values{}
	q.Set("state", state)
	return &RepeatModeRequest{deviceScopedRequest{c: c, method: http.MethodPut, path: "/me/player/repeat", query: q}}
}

// RepeatModeRequest accumulates the parameters of a repeat-mode request.
type RepeatModeRequest struct{ deviceScopedRequest }

// DeviceID targets a specific device instead of the active one.
func (r *RepeatModeRequest) DeviceID(id string) *RepeatModeRequest {
	r.deviceID = id
	return r
}

// Send sends the request.
func (r *RepeatModeRequest) Send(ctx context.Context) error { return r.send(ctx) }

// SetPlaybackVolume begins a request to set the playback volume. The percent
// is clamped to [0, 100]. Requires user authorization with the
// user-modify-playback-state scope.
func (c *Client) SetPlaybackVolume(percent int) *VolumeRequest {
	q := url.Values{}
	q.Set("volume_percent", strconv.Itoa(clamp(percent, 0, 100)))
	return &VolumeRequest{deviceScopedRequest{c: c, method: http.MethodPut, path: "/me/player/volume", query: q}}
}

// VolumeRequest accumulates the parameters of a volume request.
type VolumeRequest struct{ deviceScopedRequest }

// DeviceID targets a specific device instead of the active one.
func (r *VolumeRequest) DeviceID(id string) *VolumeRequest {
	r.deviceID = id
	return r
}

// Send sends the request.
func (r *VolumeRequest) Send(ctx context.Context) error { return r.send(ctx) }

// ToggleShuffle begins a request to turn shuffle on or off. Requires user
// authorization with the user-modify-playback-state scope.
func (c *Client) ToggleShuffle(state bool) *ShuffleRequest {
	q := url.Values{}
	q.Set("state", strconv.FormatBool(state))
	return &ShuffleRequest{deviceScopedRequest{c: c, method: http.MethodPut, path: "/me/player/shuffle", query: q}}
}

// ShuffleRequest accumulates the parameters of a shuffle request.
type ShuffleRequest struct{ deviceScopedRequest }

// DeviceID targets a specific device instead of the active one.
func (r *ShuffleRequest) DeviceID(id string) *ShuffleRequest {
	r.deviceID = id
	return r
}

// Send sends the request.
func (r *ShuffleRequest) Send(ctx context.Context) error { return r.send(ctx) }

// RecentlyPlayedTracks begins a request for the current user's recently
// played tracks. Requires user authorization with the
// user-read-recently-played scope.
func (c *Client) RecentlyPlayedTracks() *RecentlyPlayedRequest {
	return &RecentlyPlayedRequest{c: c}
}

// RecentlyPlayedRequest accumulates the parameters of a recently-played
// request. The API accepts a before or an after cursor but never both; the
// last setter called wins, clearing the other cursor.
type RecentlyPlayedRequest struct {
	c      *Client
	limit  int
	after  time.Time
	before time.Time
}

// Limit sets the maximum number of items to return, clamped to [1, 50].
func (r *RecentlyPlayedRequest) Limit(limit int) *RecentlyPlayedRequest {
	r.limit = clamp(limit, 1, 50)
	return r
}

// After returns items played after the given instant. It clears any before
// cursor: the cursors are mutually exclusive and the last one set wins.
func (r *RecentlyPlayedRequest) After(t time.Time) *RecentlyPlayedRequest {
	r.after = t
	r.before = time.Time{}
	return r
}

// Before returns items played before the given instant. It clears any after
// cursor: the cursors are mutually exclusive and the last one set wins.
func (r *RecentlyPlayedRequest) Before(t time.Time) *RecentlyPlayedRequest {
	r.before = t
	r.after = time.Time{}
	return r
}

// Get sends the request.
func (r *RecentlyPlayedRequest) Get(ctx context.Context) (*CursorPage[PlayHistory], error) {
	if err := r.c.requireUser(); err != nil {
		return nil, err
	}

	q := url.Values{}
	setLimit(q, r.limit)
	if !r.after.IsZero() {
		q.Set("after", strconv.FormatInt(r.after.UnixMilli(), 10))
	}
	if !r.before.IsZero() {
		q.Set("before", strconv.FormatInt(r.before.UnixMilli(), 10))
	}

	var page CursorPage[PlayHistory]
	if err := r.c.get(ctx, "/me/player/recently-played", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UserQueue fetches the current user's playback queue. Requires user
// authorization with the user-read-playback-state scope.
func (c *Client) UserQueue(ctx context.Context) (*Queue, error) {
	if err := c.requireUser(); err != nil {
		return nil, err
	}

	var queue Queue
	if err := c.get(ctx, "/me/player/queue", nil, &queue); err != nil {
		return nil, err
	}
	return &queue, nil
}

// AddToQueue begins a request to add an item to the end of the playback
// queue. Requires user authorization with the user-modify-playback-state
// scope.
func (c *Client) AddToQueue(uri string) *AddToQueueRequest {
	q := url.Values{}
	q.Set("uri", uri)
	return &AddToQueueRequest{deviceScopedRequest{c: c, method: http.MethodPost, path: "/me/player/queue", query: q}}
}

// AddToQueueRequest accumulates the parameters of an add-to-queue request.
type AddToQueueRequest struct{ deviceScopedRequest }

// DeviceID targets a specific device instead of the active one.
func (r *AddToQueueRequest) DeviceID(id string) *AddToQueueRequest {
	r.deviceID = id
	return r
}

// Send sends the request.
func (r *AddToQueueRequest) Send(ctx context.Context) error { return r.send(ctx) }
