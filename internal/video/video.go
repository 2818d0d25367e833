// Package video validates and canonicalizes record video URLs against the
// host allow-list.
package video

import (
	"fmt"
	"net/url"
	"strings"
)

// Validator checks a submitted video URL and returns its canonical form.
// The record pipeline depends on this interface; DefaultValidator is the
// production implementation.
type Validator interface {
	Validate(rawURL string) (string, error)
}

var (
	// ErrInvalidURLScheme means the URL did not use https.
	ErrInvalidURLScheme = fmt.Errorf("video URL must use the https scheme")
	// ErrInvalidURLFormat means the URL parsed but did not match the expected
	// shape for its host (e.g. a youtube link without a video id).
	ErrInvalidURLFormat = fmt.Errorf("video URL does not match the expected format for its host")
)

// UnsupportedHostError is returned for hosts outside the allow-list.
type UnsupportedHostError struct {
	Host string
}

func (e UnsupportedHostError) Error() string {
	return fmt.Sprintf("unsupported video host %q, supported hosts are youtube.com, youtu.be, twitch.tv, vimeo.com and bilibili.com", e.Host)
}

// DefaultValidator implements the standard host allow-list.
type DefaultValidator struct{}

// Validate parses rawURL and returns its canonical form.
//
// YouTube links in any accepted shape (watch, youtu.be, embed, shorts) are
// canonicalized to https://www.youtube.com/watch?v=<id> so that duplicate
// submissions of the same video compare equal.
func (DefaultValidator) Validate(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrInvalidURLFormat
	}

	if u.Scheme != "https" {
		return "", ErrInvalidURLScheme
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	switch host {
	case "youtube.com", "m.youtube.com":
		return canonicalYouTube(u)
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if id == "" || strings.Contains(id, "/") {
			return "", ErrInvalidURLFormat
		}
		return youtubeWatchURL(id), nil
	case "twitch.tv":
		parts := splitPath(u.Path)
		if len(parts) == 2 && parts[0] == "videos" && parts[1] != "" {
			return "https://www.twitch.tv/videos/" + parts[1], nil
		}
		return "", ErrInvalidURLFormat
	case "vimeo.com":
		parts := splitPath(u.Path)
		if len(parts) == 1 && parts[0] != "" {
			return "https://vimeo.com/" + parts[0], nil
		}
		return "", ErrInvalidURLFormat
	case "bilibili.com":
		parts := splitPath(u.Path)
		if len(parts) == 2 && parts[0] == "video" && parts[1] != "" {
			return "https://www.bilibili.com/video/" + parts[1], nil
		}
		return "", ErrInvalidURLFormat
	default:
		return "", UnsupportedHostError{Host: u.Hostname()}
	}
}

func canonicalYouTube(u *url.URL) (string, error) {
	parts := splitPath(u.Path)

	switch {
	case len(parts) == 1 && parts[0] == "watch":
		id := u.Query().Get("v")
		if id == "" {
			return "", ErrInvalidURLFormat
		}
		return youtubeWatchURL(id), nil
	case len(parts) == 2 && (parts[0] == "embed" || parts[0] == "shorts") && parts[1] != "":
		return youtubeWatchURL(parts[1]), nil
	default:
		return "", ErrInvalidURLFormat
	}
}

func youtubeWatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func splitPath(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

var _ Validator = DefaultValidator{}
