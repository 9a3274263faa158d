package playlist

import (
	"fmt"
	"time"

	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

func asString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func asFloat(m map[string]any, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}

func asMap(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

func asSlice(m map[string]any, key string) []any {
	if v, ok := m[key].([]any); ok {
		return v
	}
	return nil
}

func asStringSlice(m map[string]any, key string) []string {
	raw := asSlice(m, key)
	if raw == nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// parseMusicFreeBackup handles the `musicSheets` format produced by
// MusicFree's backup export. Only the first sheet is imported, matching
// the original importer.
func parseMusicFreeBackup(doc map[string]any, source string) (*domain.Playlist, error) {
	sheets := asSlice(doc, "musicSheets")
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no musicSheets in %s", ErrEmptyPlaylist, source)
	}
	sheet, ok := sheets[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: malformed musicSheets[0] in %s", ErrUnknownFormat, source)
	}

	name := asString(sheet, "platform")
	if name == "" {
		name = "Imported Playlist"
	}

	var tracks []domain.Track
	for _, raw := range asSlice(sheet, "musicList") {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		tracks = append(tracks, musicFreeTrack(item))
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPlaylist, source)
	}

	pl := domain.NewPlaylist(domain.PlaylistID(asString(sheet, "id")), name,
		"Imported from "+source, "sgrbot", "", tracks)
	return pl, nil
}

func musicFreeTrack(item map[string]any) domain.Track {
	playURL := asString(item, "url")
	if asString(item, "platform") == "bilibili" && asString(item, "bvid") != "" {
		playURL = "https://www.bilibili.com/video/" + asString(item, "bvid")
	}

	track := *domain.NewMetadataTrack("", asString(item, "title"), asString(item, "artist"),
		asString(item, "album"), time.Duration(asFloat(item, "duration"))*time.Second,
		playURL, asString(item, "artwork"), asString(item, "platform"))
	track.Tags = asStringSlice(item, "tags")
	track.Extras["original_item"] = item
	return track
}

// parseSimplePlaylist handles the generic `{name, songs: [...]}` shape,
// also used as the fallback when no other format matches.
func parseSimplePlaylist(doc map[string]any, source string) (*domain.Playlist, error) {
	name := asString(doc, "name")
	if name == "" {
		name = "Imported Playlist"
	}
	description := asString(doc, "description")
	if description == "" {
		description = "Imported from " + source
	}
	creator := asString(doc, "creator")
	if creator == "" {
		creator = "sgrbot"
	}

	var tracks []domain.Track
	for _, raw := range asSlice(doc, "songs") {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		track := *domain.NewMetadataTrack(domain.TrackID(asString(item, "id")),
			asString(item, "title"), asString(item, "artist"), asString(item, "album"),
			time.Duration(asFloat(item, "duration"))*time.Second,
			asString(item, "url"), asString(item, "artwork"), asString(item, "platform"))
		track.Tags = asStringSlice(item, "tags")
		tracks = append(tracks, track)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPlaylist, source)
	}

	return domain.NewPlaylist(domain.PlaylistID(asString(doc, "id")), name, description,
		creator, asString(doc, "cover"), tracks), nil
}

// parseNeteasePlaylist handles Netease Cloud Music's nested
// `playlist.tracks` export shape. Durations arrive in milliseconds.
func parseNeteasePlaylist(doc map[string]any, source string) (*domain.Playlist, error) {
	pl := asMap(doc, "playlist")
	creator := "Unknown"
	if c := asMap(pl, "creator"); c != nil {
		if nick := asString(c, "nickname"); nick != "" {
			creator = nick
		}
	}

	name := asString(pl, "name")
	if name == "" {
		name = "Netease Playlist"
	}
	description := asString(pl, "description")
	if description == "" {
		description = "Imported from " + source
	}

	var tracks []domain.Track
	for _, raw := range asSlice(pl, "tracks") {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		tracks = append(tracks, neteaseTrack(item))
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPlaylist, source)
	}

	return domain.NewPlaylist(domain.PlaylistID(asString(pl, "id")), name, description,
		creator, asString(pl, "coverImgUrl"), tracks), nil
}

func neteaseTrack(item map[string]any) domain.Track {
	artist := joinArtists(item)
	album := asMap(item, "album")

	track := *domain.NewMetadataTrack(domain.TrackID(asString(item, "id")), asString(item, "name"),
		artist, asString(album, "name"), time.Duration(asFloat(item, "duration"))*time.Millisecond,
		"http://music.163.com/song/"+asString(item, "id"), asString(album, "picUrl"), "netease")
	track.Extras["original_track"] = item
	return track
}

// parseSpotifyPlaylist handles a Spotify playlist export's
// `tracks.items[].track` shape. Durations arrive in milliseconds.
func parseSpotifyPlaylist(doc map[string]any, source string) (*domain.Playlist, error) {
	name := asString(doc, "name")
	if name == "" {
		name = "Spotify Playlist"
	}
	description := asString(doc, "description")
	if description == "" {
		description = "Imported from " + source
	}
	creator := "Unknown"
	if owner := asMap(doc, "owner"); owner != nil {
		if display := asString(owner, "display_name"); display != "" {
			creator = display
		}
	}

	cover := ""
	if images := asSlice(doc, "images"); len(images) > 0 {
		if first, ok := images[0].(map[string]any); ok {
			cover = asString(first, "url")
		}
	}

	var tracks []domain.Track
	for _, raw := range asSlice(asMap(doc, "tracks"), "items") {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		trackData := asMap(item, "track")
		if trackData == nil {
			continue
		}
		tracks = append(tracks, spotifyTrack(trackData))
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPlaylist, source)
	}

	return domain.NewPlaylist(domain.PlaylistID(asString(doc, "id")), name, description,
		creator, cover, tracks), nil
}

func spotifyTrack(track map[string]any) domain.Track {
	artist := joinArtists(track)
	album := asMap(track, "album")

	artwork := ""
	if images := asSlice(album, "images"); len(images) > 0 {
		if first, ok := images[0].(map[string]any); ok {
			artwork = asString(first, "url")
		}
	}

	playURL := ""
	if externalURLs := asMap(track, "external_urls"); externalURLs != nil {
		playURL = asString(externalURLs, "spotify")
	}

	t := *domain.NewMetadataTrack(domain.TrackID(asString(track, "id")), asString(track, "name"),
		artist, asString(album, "name"), time.Duration(asFloat(track, "duration_ms"))*time.Millisecond,
		playURL, artwork, "spotify")
	t.Extras["preview_url"] = asString(track, "preview_url")
	t.Extras["original_track"] = track
	return t
}

func joinArtists(m map[string]any) string {
	artists := asSlice(m, "artists")
	if len(artists) == 0 {
		return "Unknown"
	}
	names := make([]string, 0, len(artists))
	for _, raw := range artists {
		if a, ok := raw.(map[string]any); ok {
			if name := asString(a, "name"); name != "" {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return "Unknown"
	}
	joined := names[0]
	for _, n := range names[1:] {
		joined += ", " + n
	}
	return joined
}
