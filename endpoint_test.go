package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

// recordedRequest is the method, path and query of the last request an
// endpoint test server received.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// newEndpointClient returns a client wired to a test server that records
// each request and replies with the given status and body.
func newEndpointClient(t *testing.T, status int, body string) (*Client, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Method = r.Method
		rec.Path = r.URL.Path
		rec.Query = r.URL.Query()
		rec.Body = make([]byte, r.ContentLength)
		r.Body.Read(rec.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)

	client, err := FromToken(Config{ClientID: "id", BaseURL: ts.URL}, Token{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return client, rec
}

func TestAlbumEndpoints(t *testing.T) {
	t.Run("Single Album With Market", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusOK, `{"id":"2up3OPMp9Tb4dAKM2erWXQ","name":"Axis"}`)

		album, err := client.Album("2up3OPMp9Tb4dAKM2erWXQ").Market("SE").Get(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if album.Name != "Axis" {
			t.Errorf("unexpected album: %+v", album)
		}
		if rec.Path != "/albums/2up3OPMp9Tb4dAKM2erWXQ" {
			t.Errorf("unexpected path %q", rec.Path)
		}
		if rec.Query.Get("market") != "SE" {
			t.Errorf("expected market=SE, got %q", rec.Query.Encode())
		}
	})

	t.Run("Several Albums Unwraps The Envelope", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusOK, `{"albums":[{"id":"a1"},{"id":"a2"}]}`)

		albums, err := client.Albums("a1", "a2").Get(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(albums) != 2 || albums[0].ID != "a1" || albums[1].ID != "a2" {
			t.Errorf("unexpected albums: %+v", albums)
		}
		if rec.Query.Get("ids") != "a1,a2" {
			t.Errorf("expected comma-joined ids, got %q", rec.Query.Get("ids"))
		}
	})

	t.Run("Limit Is Clamped", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusOK, `{"items":[]}`)

		if _, err := client.AlbumTracks("a1").Limit(100).Get(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Query.Get("limit") != "50" {
			t.Errorf("expected limit clamped to 50, got %q", rec.Query.Get("limit"))
		}

		if _, err := client.AlbumTracks("a1").Limit(-3).Get(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Query.Get("limit") != "1" {
			t.Errorf("expected limit clamped to 1, got %q", rec.Query.Get("limit"))
		}
	})

	t.Run("Save Albums Sends A JSON ID Body", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusOK, ``)

		if err := client.SaveAlbums(context.Background(), "a1", "a2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", rec.Method)
		}

		var body struct {
			IDs []string `json:"ids"`
		}
		if err := json.Unmarshal(rec.Body, &body); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(body.IDs) != 2 {
			t.Errorf("unexpected body: %s", rec.Body)
		}
	})
}

func TestSearch(t *testing.T) {
	t.Run("Joins Types And Sets The Query", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusOK, `{"tracks":{"items":[{"id":"t1"}]}}`)

		results, err := client.Search("remaster track:Doxy", SearchTrack, SearchAlbum).Get(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if results.Tracks == nil || len(results.Tracks.Items) != 1 {
			t.Errorf("unexpected results: %+v", results)
		}
		if rec.Query.Get("q") != "remaster track:Doxy" {
			t.Errorf("unexpected q %q", rec.Query.Get("q"))
		}
		if rec.Query.Get("type") != "track,album" {
			t.Errorf("unexpected type %q", rec.Query.Get("type"))
		}
	})

	t.Run("Missing Query Or Types", func(t *testing.T) {
		client, _ := newEndpointClient(t, http.StatusOK, `{}`)

		if _, err := client.Search("", SearchTrack).Get(context.Background()); !errors.Is(err, ErrMissingParameter) {
			t.Errorf("expected ErrMissingParameter for empty query, got %v", err)
		}
		if _, err := client.Search("doxy").Get(context.Background()); !errors.Is(err, ErrMissingParameter) {
			t.Errorf("expected ErrMissingParameter for no types, got %v", err)
		}
	})
}

func TestPlayerEndpoints(t *testing.T) {
	t.Run("Pause Accepts An Empty Response", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusNoContent, ``)

		err := client.PausePlayback().DeviceID("dev1").Send(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Method != http.MethodPut || rec.Path != "/me/player/pause" {
			t.Errorf("unexpected request %s %s", rec.Method, rec.Path)
		}
		if rec.Query.Get("device_id") != "dev1" {
			t.Errorf("expected device_id=dev1, got %q", rec.Query.Encode())
		}
	})

	t.Run("Playback State Is Nil When Nothing Plays", func(t *testing.T) {
		client, _ := newEndpointClient(t, http.StatusNoContent, ``)

		state, err := client.PlaybackState().Get(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if state != nil {
			t.Errorf("expected nil state, got %+v", state)
		}
	})

	t.Run("Volume Is Clamped To A Percentage", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusNoContent, ``)

		if err := client.SetPlaybackVolume(150).Send(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Query.Get("volume_percent") != "100" {
			t.Errorf("expected volume clamped to 100, got %q", rec.Query.Get("volume_percent"))
		}
	})

	t.Run("Recently Played Keeps Only The Last Cursor", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusOK, `{"items":[]}`)

		after := time.UnixMilli(1700000000000)
		before := time.UnixMilli(1700000100000)

		_, err := client.RecentlyPlayedTracks().After(after).Before(before).Get(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Query.Has("after") {
			t.Errorf("after should be cleared by a later Before, got %q", rec.Query.Encode())
		}
		if rec.Query.Get("before") != "1700000100000" {
			t.Errorf("expected before in unix milliseconds, got %q", rec.Query.Get("before"))
		}

		_, err = client.RecentlyPlayedTracks().Before(before).After(after).Get(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Query.Has("before") {
			t.Errorf("before should be cleared by a later After, got %q", rec.Query.Encode())
		}
		if rec.Query.Get("after") != "1700000000000" {
			t.Errorf("expected after in unix milliseconds, got %q", rec.Query.Get("after"))
		}
	})
}

func TestPlaylistEndpoints(t *testing.T) {
	t.Run("Create Playlist", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusCreated, `{"id":"p1","name":"Roadtrip"}`)

		playlist, err := client.CreatePlaylist("wizzler", "Roadtrip").
			Description("for the drive").
			Public(false).
			Send(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.ID != "p1" {
			t.Errorf("unexpected playlist: %+v", playlist)
		}
		if rec.Method != http.MethodPost || rec.Path != "/users/wizzler/playlists" {
			t.Errorf("unexpected request %s %s", rec.Method, rec.Path)
		}

		var body map[string]any
		if err := json.Unmarshal(rec.Body, &body); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if body["name"] != "Roadtrip" || body["public"] != false {
			t.Errorf("unexpected body: %s", rec.Body)
		}
	})

	t.Run("Add Items Returns The Snapshot ID", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusCreated, `{"snapshot_id":"snap1"}`)

		snapshot, err := client.AddPlaylistItems("p1", "spotify:track:t1").
			Position(0).
			Send(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if snapshot != "snap1" {
			t.Errorf("expected snapshot snap1, got %q", snapshot)
		}
		if rec.Path != "/playlists/p1/tracks" {
			t.Errorf("unexpected path %q", rec.Path)
		}
	})
}

func TestRecommendations(t *testing.T) {
	t.Run("Requires At Least One Seed", func(t *testing.T) {
		client, _ := newEndpointClient(t, http.StatusOK, `{}`)

		_, err := client.Recommendations().Get(context.Background())
		if !errors.Is(err, ErrMissingParameter) {
			t.Errorf("expected ErrMissingParameter, got %v", err)
		}
	})

	t.Run("Seeds And A Wider Limit", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusOK, `{"tracks":[{"id":"t1"}],"seeds":[]}`)

		recs, err := client.Recommendations().
			SeedArtists("4NHQUGzhtTLFvgF5SZesLK").
			SeedGenres("classical").
			Limit(100).
			Get(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(recs.Tracks) != 1 {
			t.Errorf("unexpected recommendations: %+v", recs)
		}
		if rec.Query.Get("seed_artists") != "4NHQUGzhtTLFvgF5SZesLK" {
			t.Errorf("unexpected seed_artists %q", rec.Query.Get("seed_artists"))
		}
		if rec.Query.Get("limit") != "100" {
			t.Errorf("recommendations should allow a limit of 100, got %q", rec.Query.Get("limit"))
		}
	})
}

func TestAudioFeatures(t *testing.T) {
	t.Run("Single Track", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusOK,
			`{"id":"11dFghVXANMlKmJXsNCbNl","tempo":118.211,"key":7,"mode":1,"danceability":0.696}`)

		features, err := client.TrackAudioFeatures(context.Background(), "11dFghVXANMlKmJXsNCbNl")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Path != "/audio-features/11dFghVXANMlKmJXsNCbNl" {
			t.Errorf("unexpected path %q", rec.Path)
		}
		if features.Tempo != 118.211 || features.Key != 7 || features.Mode != 1 {
			t.Errorf("unexpected features: %+v", features)
		}
	})

	t.Run("Several Tracks Unwraps The Envelope", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusOK,
			`{"audio_features":[{"id":"t1","energy":0.842},{"id":"t2","energy":0.33}]}`)

		features, err := client.TracksAudioFeatures(context.Background(), "t1", "t2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(features) != 2 || features[0].ID != "t1" || features[1].Energy != 0.33 {
			t.Errorf("unexpected features: %+v", features)
		}
		if rec.Query.Get("ids") != "t1,t2" {
			t.Errorf("expected comma-joined ids, got %q", rec.Query.Get("ids"))
		}
	})

	t.Run("Audio Analysis", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusOK,
			`{"track":{"tempo":118.571,"key":7},"bars":[{"start":0.49,"duration":2.03,"confidence":0.84}]}`)

		analysis, err := client.TrackAudioAnalysis(context.Background(), "t1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Path != "/audio-analysis/t1" {
			t.Errorf("unexpected path %q", rec.Path)
		}
		if analysis.Track.Tempo != 118.571 || len(analysis.Bars) != 1 {
			t.Errorf("unexpected analysis: %+v", analysis)
		}
	})
}

func TestBrowsePlaylists(t *testing.T) {
	t.Run("Featured Playlists", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusOK,
			`{"message":"Popular Playlists","playlists":{"items":[{"id":"p1"}],"total":1}}`)

		at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		featured, err := client.FeaturedPlaylists().
			Country("SE").
			Locale("sv_SE").
			Timestamp(at).
			Limit(10).
			Get(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Path != "/browse/featured-playlists" {
			t.Errorf("unexpected path %q", rec.Path)
		}
		if rec.Query.Get("timestamp") != "2024-03-01T09:00:00Z" {
			t.Errorf("unexpected timestamp %q", rec.Query.Get("timestamp"))
		}
		if featured.Message != "Popular Playlists" || len(featured.Playlists.Items) != 1 {
			t.Errorf("unexpected featured playlists: %+v", featured)
		}
	})

	t.Run("Category Playlists Unwraps The Envelope", func(t *testing.T) {
		client, rec := newEndpointClient(t, http.StatusOK,
			`{"playlists":{"items":[{"id":"p1"},{"id":"p2"}],"total":2}}`)

		page, err := client.CategoryPlaylists("dinner").Country("SE").Get(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Path != "/browse/categories/dinner/playlists" {
			t.Errorf("unexpected path %q", rec.Path)
		}
		if len(page.Items) != 2 || page.Items[1].ID != "p2" {
			t.Errorf("unexpected playlists: %+v", page)
		}
	})
}
