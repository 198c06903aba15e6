// Spotify API response types based on
// https://developer.spotify.com/documentation/web-api/reference/

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mixtape-labs/mixtape/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Client-side politeness cap on catalog calls.
	spotifyRequestsPerSecond = 10
)

// spotifyImage represents an image resource.
type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// spotifyArtist represents a Spotify artist.
type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// spotifyAlbum represents a Spotify album.
type spotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

// spotifyTrack represents a Spotify track.
type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []spotifyArtist `json:"artists"`
	Album      spotifyAlbum    `json:"album"`
	Popularity int             `json:"popularity"`
	PreviewURL string          `json:"preview_url"`
}

// SpotifyCatalog implements the [Catalog] interface for the Spotify Web API.
//
// Authentication uses the OAuth2 client-credentials flow: the client id
// and secret are exchanged for a bearer token on every request, matching
// the one-request token lifetime of the service (no cross-request token
// caching).
type SpotifyCatalog struct {
	config     *clientcredentials.Config
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewSpotifyCatalog creates a new Spotify catalog client with the given
// API credentials.
func NewSpotifyCatalog(clientID, clientSecret string) (*SpotifyCatalog, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: client id", shared.ErrMissingCredentials)
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: client secret", shared.ErrMissingCredentials)
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	return &SpotifyCatalog{
		config:     config,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(spotifyRequestsPerSecond), 1),
	}, nil
}

func (s *SpotifyCatalog) Name() string {
	return "Spotify"
}

// doRequest performs an authenticated GET against the Spotify API,
// fetching a fresh access token first, and decodes the JSON response
// into result.
func (s *SpotifyCatalog) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}

	token, err := s.config.Token(ctx)
	if err != nil {
		return fmt.Errorf("%w: token exchange: %v", shared.ErrUpstream, err)
	}

	apiURL := s.baseURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrUpstream, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: decode response: %v", shared.ErrUpstream, err)
		}
	}

	return nil
}

// SearchTrack searches for the single best match of
// "track:<title> artist:<artist>". Returns (nil, nil) when the catalog
// has no match.
func (s *SpotifyCatalog) SearchTrack(ctx context.Context, artist, title string) (*TrackSummary, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("track:%s artist:%s", title, artist))
	params.Set("type", "track")
	params.Set("limit", "1")

	var response struct {
		Tracks struct {
			Items []spotifyTrack `json:"items"`
		} `json:"tracks"`
	}

	if err := s.doRequest(ctx, "/search", params, &response); err != nil {
		return nil, err
	}

	if len(response.Tracks.Items) == 0 {
		return nil, nil
	}

	summary := summarize(response.Tracks.Items[0])
	return &summary, nil
}

// Recommendations returns up to limit recommended tracks for the given
// seeds, optionally capped at maxPopularity.
func (s *SpotifyCatalog) Recommendations(ctx context.Context, seeds Seeds, limit, maxPopularity int) ([]TrackSummary, error) {
	if seeds.Empty() {
		return nil, shared.ErrMissingSeeds
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if len(seeds.Artists) > 0 {
		params.Set("seed_artists", strings.Join(seeds.Artists, ","))
	}
	if len(seeds.Tracks) > 0 {
		params.Set("seed_tracks", strings.Join(seeds.Tracks, ","))
	}
	if len(seeds.Genres) > 0 {
		params.Set("seed_genres", strings.Join(seeds.Genres, ","))
	}
	if maxPopularity > 0 {
		params.Set("max_popularity", strconv.Itoa(maxPopularity))
	}

	var response struct {
		Tracks []spotifyTrack `json:"tracks"`
	}

	if err := s.doRequest(ctx, "/recommendations", params, &response); err != nil {
		return nil, err
	}

	summaries := make([]TrackSummary, 0, len(response.Tracks))
	for _, track := range response.Tracks {
		summaries = append(summaries, summarize(track))
	}

	return summaries, nil
}

// Track retrieves a single track by its catalog id.
func (s *SpotifyCatalog) Track(ctx context.Context, id string) (*TrackSummary, error) {
	var track spotifyTrack
	endpoint := fmt.Sprintf("/tracks/%s", url.PathEscape(id))
	if err := s.doRequest(ctx, endpoint, nil, &track); err != nil {
		return nil, err
	}

	summary := summarize(track)
	return &summary, nil
}

// summarize converts a Spotify track response into the neutral
// [TrackSummary] shape: artist names joined, first album image used as
// artwork.
func summarize(track spotifyTrack) TrackSummary {
	names := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		names = append(names, artist.Name)
	}

	artURL := ""
	if len(track.Album.Images) > 0 {
		artURL = track.Album.Images[0].URL
	}

	return TrackSummary{
		Title:      track.Name,
		Artist:     strings.Join(names, ", "),
		Popularity: track.Popularity,
		SpotifyID:  track.ID,
		PreviewURL: track.PreviewURL,
		ArtURL:     artURL,
	}
}
