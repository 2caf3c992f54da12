package fetcher

import "igfetch/pkg/instagram"

// PostClient abstracts the Instagram API calls the fetcher depends on
type PostClient interface {
	// FetchPost fetches the metadata document for a post by its shortcode
	FetchPost(shortcode string) (*instagram.ShortcodeMedia, error)

	// DownloadMedia downloads a media file from the given URL
	DownloadMedia(mediaURL string) ([]byte, error)
}
