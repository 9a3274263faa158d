package playlist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writePlaylistFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "playlist.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestImporter_ImportFromFile_SimplePlaylist(t *testing.T) {
	im := NewImporter(Config{})
	path := writePlaylistFile(t, `{
		"name": "Study Mix",
		"creator": "alice",
		"songs": [
			{"title": "Song One", "artist": "Artist A", "duration": 210, "url": "https://example.com/1"},
			{"title": "Song Two", "artist": "Artist B", "duration": 180}
		]
	}`)

	pl, err := im.ImportFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pl.Name != "Study Mix" {
		t.Errorf("expected name %q, got %q", "Study Mix", pl.Name)
	}
	if len(pl.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(pl.Tracks))
	}
	if pl.Tracks[0].Title != "Song One" || pl.Tracks[1].Title != "Song Two" {
		t.Error("expected track order to be preserved")
	}
}

func TestImporter_ImportFromFile_MusicFreeBackup(t *testing.T) {
	im := NewImporter(Config{})
	path := writePlaylistFile(t, `{
		"musicSheets": [{
			"id": "sheet-1",
			"platform": "My Backup",
			"musicList": [
				{"title": "Bili Song", "artist": "Someone", "platform": "bilibili", "bvid": "BV1x4"},
				{"title": "Direct Song", "artist": "Other", "url": "https://cdn.example.com/a.mp3"}
			]
		}]
	}`)

	pl, err := im.ImportFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pl.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(pl.Tracks))
	}
	if got := pl.Tracks[0].URI; got != "https://www.bilibili.com/video/BV1x4" {
		t.Errorf("expected derived bilibili URL, got %q", got)
	}
}

func TestImporter_ImportFromFile_NeteasePlaylist(t *testing.T) {
	im := NewImporter(Config{})
	path := writePlaylistFile(t, `{
		"playlist": {
			"id": 123,
			"name": "网易歌单",
			"creator": {"nickname": "bob"},
			"tracks": [
				{"id": 1, "name": "Track A", "duration": 210000, "artists": [{"name": "X"}], "album": {"name": "Alb"}}
			]
		}
	}`)

	pl, err := im.ImportFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pl.Creator != "bob" {
		t.Errorf("expected creator bob, got %q", pl.Creator)
	}
	if len(pl.Tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(pl.Tracks))
	}
	if pl.Tracks[0].Duration.Seconds() != 210 {
		t.Errorf("expected ms->s conversion, got %v", pl.Tracks[0].Duration)
	}
}

func TestImporter_ImportFromFile_SpotifyPlaylist(t *testing.T) {
	im := NewImporter(Config{})
	path := writePlaylistFile(t, `{
		"name": "Spotify Mix",
		"owner": {"display_name": "carol"},
		"tracks": {
			"items": [
				{"track": {"id": "t1", "name": "Song", "duration_ms": 180000, "artists": [{"name": "Y"}], "album": {"name": "A"}}}
			]
		}
	}`)

	pl, err := im.ImportFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pl.Creator != "carol" {
		t.Errorf("expected creator carol, got %q", pl.Creator)
	}
	if len(pl.Tracks) != 1 || pl.Tracks[0].Duration.Seconds() != 180 {
		t.Fatalf("unexpected tracks: %+v", pl.Tracks)
	}
}

func TestImporter_ImportFromFile_EmptySongsIsError(t *testing.T) {
	im := NewImporter(Config{})
	path := writePlaylistFile(t, `{"name": "Empty", "songs": []}`)

	if _, err := im.ImportFromFile(path); !errors.Is(err, ErrEmptyPlaylist) {
		t.Errorf("expected ErrEmptyPlaylist, got %v", err)
	}
}

func TestImporter_ImportFromURL_RejectsNonHTTPS(t *testing.T) {
	im := NewImporter(Config{})
	if im.isSafeURL("http://github.com/foo/bar.json") {
		t.Error("expected http:// url to be rejected")
	}
}

func TestImporter_ImportFromURL_RejectsDisallowedHost(t *testing.T) {
	im := NewImporter(Config{})
	if im.isSafeURL("https://evil.example.com/playlist.json") {
		t.Error("expected disallowed host to be rejected")
	}
}

func TestImporter_ImportFromURL_AllowsAllowListedHost(t *testing.T) {
	im := NewImporter(Config{})
	if !im.isSafeURL("https://gist.githubusercontent.com/user/abc/raw/playlist.json") {
		t.Error("expected allow-listed host to be accepted")
	}
}
