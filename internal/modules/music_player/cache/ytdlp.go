package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// YtDlpExtractor shells out to the yt-dlp binary to probe and download
// non-Lavalink sources.
type YtDlpExtractor struct {
	// AudioFormat is passed to yt-dlp's --audio-format flag.
	AudioFormat string
}

// NewYtDlpExtractor creates a YtDlpExtractor targeting the given audio
// format (e.g. "opus", "mp3").
func NewYtDlpExtractor(audioFormat string) *YtDlpExtractor {
	if audioFormat == "" {
		audioFormat = "opus"
	}
	return &YtDlpExtractor{AudioFormat: audioFormat}
}

type ytDlpProbeResult struct {
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
}

// Probe runs yt-dlp --dump-json to fetch metadata without downloading.
func (e *YtDlpExtractor) Probe(ctx context.Context, url string) (string, time.Duration, error) {
	cmd := exec.CommandContext(ctx, "yt-dlp", "--dump-json", "--no-playlist", url)

	out, err := cmd.Output()
	if err != nil {
		return "", 0, fmt.Errorf("yt-dlp probe failed: %w", err)
	}

	var meta ytDlpProbeResult
	if err := json.Unmarshal(out, &meta); err != nil {
		return "", 0, fmt.Errorf("yt-dlp probe: unexpected output: %w", err)
	}

	return meta.Title, time.Duration(meta.Duration * float64(time.Second)), nil
}

// Extract downloads url via yt-dlp into outputTemplate and returns the
// resulting file's path.
func (e *YtDlpExtractor) Extract(ctx context.Context, url, outputTemplate string) (string, error) {
	args := []string{"-x", "--audio-format", e.AudioFormat, "--no-playlist", "-o", outputTemplate, url}
	cmd := exec.CommandContext(ctx, "yt-dlp", args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("yt-dlp download failed: %w\n%s", err, output)
	}

	return resolveOutputPath(outputTemplate)
}

// resolveOutputPath finds the file yt-dlp actually wrote, since the
// "%(ext)s" placeholder is filled in by yt-dlp at download time.
func resolveOutputPath(outputTemplate string) (string, error) {
	pattern := strings.Replace(outputTemplate, "%(ext)s", "*", 1)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no output file produced for template %q", outputTemplate)
	}
	return matches[0], nil
}
