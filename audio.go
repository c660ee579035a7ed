package spotify

import (
	"context"
	"net/url"
)

// AudioFeatures describes the audio characteristics of a track.
type AudioFeatures struct {
	Acousticness     float64 `json:"acousticness"`
	AnalysisURL      string  `json:"analysis_url"`
	Danceability     float64 `json:"danceability"`
	DurationMS       int     `json:"duration_ms"`
	Energy           float64 `json:"energy"`
	ID               string  `json:"id"`
	Instrumentalness float64 `json:"instrumentalness"`
	// Key is the key the track is in, as Pitch Class notation: 0 = C,
	// 1 = C♯/D♭, 2 = D, and so on. -1 when no key was detected.
	Key      int     `json:"key"`
	Liveness float64 `json:"liveness"`
	Loudness float64 `json:"loudness"`
	// Mode is the modality of the track: 1 for major, 0 for minor.
	Mode          int     `json:"mode"`
	Speechiness   float64 `json:"speechiness"`
	Tempo         float64 `json:"tempo"`
	TimeSignature int     `json:"time_signature"`
	TrackHref     string  `json:"track_href"`
	Type          string  `json:"type"`
	URI           string  `json:"uri"`
	Valence       float64 `json:"valence"`
}

type audioFeaturesEnvelope struct {
	AudioFeatures []AudioFeatures `json:"audio_features"`
}

// AudioAnalysis is a low-level temporal breakdown of a track.
type AudioAnalysis struct {
	Meta     AnalysisMeta   `json:"meta"`
	Track    AnalysisTrack  `json:"track"`
	Bars     []TimeInterval `json:"bars"`
	Beats    []TimeInterval `json:"beats"`
	Sections []Section      `json:"sections"`
	Segments []Segment      `json:"segments"`
	Tatums   []TimeInterval `json:"tatums"`
}

// AnalysisMeta describes the analyzer run that produced an analysis.
type AnalysisMeta struct {
	AnalyzerVersion string  `json:"analyzer_version"`
	Platform        string  `json:"platform"`
	DetailedStatus  string  `json:"detailed_status"`
	StatusCode      int     `json:"status_code"`
	Timestamp       int64   `json:"timestamp"`
	AnalysisTime    float64 `json:"analysis_time"`
	InputProcess    string  `json:"input_process"`
}

// AnalysisTrack holds the track-level results of an audio analysis.
type AnalysisTrack struct {
	NumSamples              int     `json:"num_samples"`
	Duration                float64 `json:"duration"`
	OffsetSeconds           int     `json:"offset_seconds"`
	WindowSeconds           int     `json:"window_seconds"`
	AnalysisSampleRate      int     `json:"analysis_sample_rate"`
	AnalysisChannels        int     `json:"analysis_channels"`
	EndOfFadeIn             float64 `json:"end_of_fade_in"`
	StartOfFadeOut          float64 `json:"start_of_fade_out"`
	Loudness                float64 `json:"loudness"`
	Tempo                   float64 `json:"tempo"`
	TempoConfidence         float64 `json:"tempo_confidence"`
	TimeSignature           int     `json:"time_signature"`
	TimeSignatureConfidence float64 `json:"time_signature_confidence"`
	Key                     int     `json:"key"`
	KeyConfidence           float64 `json:"key_confidence"`
	Mode                    int     `json:"mode"`
	ModeConfidence          float64 `json:"mode_confidence"`
}

// TimeInterval is a bar, beat or tatum within a track.
type TimeInterval struct {
	Start      float64 `json:"start"`
	Duration   float64 `json:"duration"`
	Confidence float64 `json:"confidence"`
}

// Section is a large structural unit of a track, such as a chorus or bridge.
type Section struct {
	Start                   float64 `json:"start"`
	Duration                float64 `json:"duration"`
	Confidence              float64 `json:"confidence"`
	Loudness                float64 `json:"loudness"`
	Tempo                   float64 `json:"tempo"`
	TempoConfidence         float64 `json:"tempo_confidence"`
	Key                     int     `json:"key"`
	KeyConfidence           float64 `json:"key_confidence"`
	Mode                    int     `json:"mode"`
	ModeConfidence          float64 `json:"mode_confidence"`
	TimeSignature           int     `json:"time_signature"`
	TimeSignatureConfidence float64 `json:"time_signature_confidence"`
}

// Segment is a short, roughly uniform slice of a track's sound.
type Segment struct {
	Start           float64   `json:"start"`
	Duration        float64   `json:"duration"`
	Confidence      float64   `json:"confidence"`
	LoudnessStart   float64   `json:"loudness_start"`
	LoudnessMax     float64   `json:"loudness_max"`
	LoudnessMaxTime float64   `json:"loudness_max_time"`
	LoudnessEnd     float64   `json:"loudness_end"`
	Pitches         []float64 `json:"pitches"`
	Timbre          []float64 `json:"timbre"`
}

// TrackAudioFeatures fetches the audio features of a single track.
func (c *Client) TrackAudioFeatures(ctx context.Context, id string) (*AudioFeatures, error) {
	var features AudioFeatures
	if err := c.get(ctx, "/audio-features/"+id, nil, &features); err != nil {
		return nil, err
	}
	return &features, nil
}

// TracksAudioFeatures fetches the audio features of several tracks, up to 100
// per call. Entries for unknown IDs are zero-valued.
func (c *Client) TracksAudioFeatures(ctx context.Context, ids ...string) ([]AudioFeatures, error) {
	q := url.Values{}
	q.Set("ids", joinIDs(ids))

	var env audioFeaturesEnvelope
	if err := c.get(ctx, "/audio-features", q, &env); err != nil {
		return nil, err
	}
	return env.AudioFeatures, nil
}

// TrackAudioAnalysis fetches the full audio analysis of a track.
func (c *Client) TrackAudioAnalysis(ctx context.Context, id string) (*AudioAnalysis, error) {
	var analysis AudioAnalysis
	if err := c.get(ctx, "/audio-analysis/"+id, nil, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}
