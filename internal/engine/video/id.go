package video

import (
	"fmt"
	"net/url"
	"regexp"
)

// videoIDRE matches the known URL shapes carrying an 11-char video id:
// watch?v=, youtu.be/, /v/, /vi/, /u/<x>/, embed/, shorts/, and &v= inside
// playlist-qualified URLs. Trailing query/fragment parameters are ignored.
var videoIDRE = regexp.MustCompile(`(?:(?:youtu\.be/|v/|vi/|u/\w/|embed/|shorts/)|(?:(?:watch)?\?vi?=|&vi?=))([^#&?]*)`)

// bareIDRE matches a bare id: exactly 11 chars of the id alphabet.
var bareIDRE = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

const videoIDLen = 11

// ExtractVideoID parses a user-supplied URL or bare id into a canonical
// 11-character video id. Pure and deterministic; no network access.
func ExtractVideoID(raw string) (string, error) {
	if bareIDRE.MatchString(raw) {
		return raw, nil
	}

	if m := videoIDRE.FindStringSubmatch(raw); len(m) == 2 && len(m[1]) == videoIDLen {
		return m[1], nil
	}

	// Fallback: parse as a URL and read the v query parameter.
	if u, err := url.Parse(raw); err == nil {
		if id := u.Query().Get("v"); len(id) == videoIDLen {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidVideoID, raw)
}
