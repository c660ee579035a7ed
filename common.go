package spotify

// ExternalURLs holds known external URLs for an object.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// ExternalIDs holds known external identifiers for a track or album.
type ExternalIDs struct {
	ISRC string `json:"isrc,omitempty"`
	EAN  string `json:"ean,omitempty"`
	UPC  string `json:"upc,omitempty"`
}

// Image represents an image resource such as album art.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Followers holds follower information for a user, artist or playlist.
type Followers struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

// Copyright is a copyright statement attached to an album.
type Copyright struct {
	Text string `json:"text"`
	// Type is "C" for the copyright or "P" for the performance copyright.
	Type string `json:"type"`
}

// Restrictions explains why content is not available, e.g. "market",
// "product" or "explicit".
type Restrictions struct {
	Reason string `json:"reason"`
}

// ExplicitContent holds the user's explicit content settings.
type ExplicitContent struct {
	FilterEnabled bool `json:"filter_enabled"`
	FilterLocked  bool `json:"filter_locked"`
}
