package instagram

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// PostInfoEndpoint is the endpoint pattern for single-post metadata
	PostInfoEndpoint = "/graphql/query/"

	// PostQueryHash is the query hash for fetching a post by shortcode
	PostQueryHash = "b3055c01b4b222b8a47dc12b090e4e64"
)

// ErrInvalidURL is returned when a URL does not point at an Instagram post
var ErrInvalidURL = errors.New("invalid Instagram post URL")

// postPathMarkers are the path segments that precede a post shortcode.
// Order matters: it is the classification order, not position in the URL.
var postPathMarkers = []string{"/p/", "/reel/", "/tv/"}

// ExtractShortcode extracts the post shortcode from a post, reel or TV URL.
// The shortcode is the path segment immediately following the marker,
// truncated at the next path separator and at any query string.
func ExtractShortcode(rawURL string) (string, error) {
	for _, marker := range postPathMarkers {
		_, rest, found := strings.Cut(rawURL, marker)
		if !found {
			continue
		}
		shortcode := rest
		if i := strings.IndexByte(shortcode, '/'); i >= 0 {
			shortcode = shortcode[:i]
		}
		if i := strings.IndexByte(shortcode, '?'); i >= 0 {
			shortcode = shortcode[:i]
		}
		return shortcode, nil
	}

	return "", ErrInvalidURL
}

// IsPostURL reports whether a URL looks like an Instagram post URL.
// It must contain the Instagram host and one of the post path markers.
func IsPostURL(rawURL string) bool {
	if !strings.Contains(rawURL, "instagram.com") {
		return false
	}
	for _, marker := range postPathMarkers {
		if strings.Contains(rawURL, marker) {
			return true
		}
	}
	return false
}

// GetPostInfoURL constructs the URL for fetching a post's metadata by shortcode
func GetPostInfoURL(shortcode string) string {
	return fmt.Sprintf("%s%s?%s", BaseURL, PostInfoEndpoint, postInfoQuery(shortcode))
}

// postInfoQuery builds the query string for a post metadata lookup
func postInfoQuery(shortcode string) string {
	params := url.Values{}
	params.Set("query_hash", PostQueryHash)
	params.Set("variables", fmt.Sprintf(`{"shortcode":"%s"}`, shortcode))
	return params.Encode()
}

// GetPostURL constructs the canonical URL for a post
func GetPostURL(shortcode string) string {
	if shortcode == "" {
		return ""
	}
	return fmt.Sprintf("%s/p/%s/", BaseURL, shortcode)
}
