package services

import (
	"context"
)

// Catalog defines the read-only surface of the external music catalog:
// track search, track lookup, and recommendations.
type Catalog interface {
	// SearchTrack searches for the single best match of a title+artist
	// query. Returns (nil, nil) when the catalog has no match.
	SearchTrack(ctx context.Context, artist, title string) (*TrackSummary, error)

	// Recommendations returns up to limit recommended tracks for the
	// given seeds. maxPopularity caps track popularity when positive.
	Recommendations(ctx context.Context, seeds Seeds, limit, maxPopularity int) ([]TrackSummary, error)

	// Track retrieves a single track by its catalog id.
	Track(ctx context.Context, id string) (*TrackSummary, error)

	// Name returns the name of the catalog (e.g., "Spotify")
	Name() string
}

// TrackSummary carries the descriptive fields of one catalog track, in
// the shape returned to API clients and persisted as a Song.
type TrackSummary struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Popularity int    `json:"popularity"`
	SpotifyID  string `json:"spotify_id"`
	PreviewURL string `json:"previewURL"`
	ArtURL     string `json:"artURL"`
}

// Seeds holds the recommendation seed lists. At least one list must be
// non-empty for a recommendation request to be valid.
type Seeds struct {
	Artists []string
	Tracks  []string
	Genres  []string
}

// Empty reports whether no seed category is populated.
func (s Seeds) Empty() bool {
	return len(s.Artists) == 0 && len(s.Tracks) == 0 && len(s.Genres) == 0
}
