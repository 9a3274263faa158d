package sources

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

const spotifyTokenURL = "https://accounts.spotify.com/api/token"
const spotifySearchURL = "https://api.spotify.com/v1/search"

// tokenSkew is subtracted from the reported token lifetime so a token
// close to expiry is never handed out for a request that may outlive it.
const tokenSkew = 30 * time.Second

// SpotifySource searches the Spotify catalog via client-credentials OAuth.
// It never resolves a track to a playable URL itself (Spotify streams are
// DRM-protected) — Resolve always returns DelegateSentinel so the registry
// re-resolves through the primary (Lavalink) plugin.
type SpotifySource struct {
	client       *resty.Client
	clientID     string
	clientSecret string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewSpotifySource creates a SpotifySource. It is disabled when either
// credential is empty, since client-credentials auth cannot proceed.
func NewSpotifySource(clientID, clientSecret string) *SpotifySource {
	return &SpotifySource{
		client:       resty.New().SetTimeout(10 * time.Second),
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

func (s *SpotifySource) Name() string        { return "spotify" }
func (s *SpotifySource) Enabled() bool       { return s.clientID != "" && s.clientSecret != "" }
func (s *SpotifySource) PriorityTag() string { return "secondary" }

type spotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Name   string `json:"name"`
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"album"`
			DurationMs   int               `json:"duration_ms"`
			ExternalURLs map[string]string `json:"external_urls"`
		} `json:"items"`
	} `json:"tracks"`
}

func (s *SpotifySource) ensureToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.tokenExpiry) {
		return s.token, nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBasicAuth(s.clientID, s.clientSecret).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody("grant_type=client_credentials").
		SetResult(&spotifyTokenResponse{}).
		Post(spotifyTokenURL)
	if err != nil {
		return "", fmt.Errorf("spotify: token request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("spotify: token request returned %s", resp.Status())
	}

	token := resp.Result().(*spotifyTokenResponse)
	s.token = token.AccessToken
	s.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenSkew)
	return s.token, nil
}

// Search queries the Spotify track search endpoint and returns normalized tracks.
func (s *SpotifySource) Search(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	token, err := s.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 50 {
		limit = 20
	}

	var result spotifySearchResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"q":     query,
			"type":  "track",
			"limit": strconv.Itoa(limit),
		}).
		SetResult(&result).
		Get(spotifySearchURL)
	if err != nil {
		return nil, fmt.Errorf("spotify: search request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("spotify: search returned %s", resp.Status())
	}

	tracks := make([]domain.Track, 0, len(result.Tracks.Items))
	for _, item := range result.Tracks.Items {
		artist := ""
		if len(item.Artists) > 0 {
			artist = item.Artists[0].Name
		}
		artworkURL := ""
		if len(item.Album.Images) > 0 {
			artworkURL = item.Album.Images[0].URL
		}

		t := domain.NewMetadataTrack(
			"",
			item.Name,
			artist,
			item.Album.Name,
			time.Duration(item.DurationMs)*time.Millisecond,
			item.ExternalURLs["spotify"],
			artworkURL,
			"spotify",
		)
		t.Extras["spotify_id"] = item.ID
		tracks = append(tracks, *t)
	}
	return tracks, nil
}

// Resolve always delegates: Spotify streams cannot be played directly.
func (s *SpotifySource) Resolve(_ context.Context, _ domain.Track) (string, error) {
	return DelegateSentinel, nil
}
