// Package fetcher orchestrates a single post fetch: API lookup, media
// staging, and normalization into the output record.
package fetcher

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"igfetch/pkg/config"
	"igfetch/pkg/instagram"
	"igfetch/pkg/logger"
	"igfetch/pkg/post"
	"igfetch/pkg/ratelimit"
	"igfetch/pkg/staging"
)

// Fetcher fetches a single post and stages its media
type Fetcher struct {
	client  PostClient
	limiter ratelimit.Limiter
	config  *config.Config
	logger  logger.Logger
}

// New creates a Fetcher from the resolved configuration
func New(cfg *config.Config) *Fetcher {
	log := logger.GetLogger()

	client := instagram.NewClient(cfg.Download.Timeout, cfg.Download.MaxRetries, log)
	client.SetHeader("User-Agent", cfg.Instagram.UserAgent)

	if cfg.Instagram.SessionID != "" {
		cookie := fmt.Sprintf("sessionid=%s", cfg.Instagram.SessionID)
		if cfg.Instagram.CSRFToken != "" {
			cookie += fmt.Sprintf("; csrftoken=%s", cfg.Instagram.CSRFToken)
			client.SetHeader("X-CSRFToken", cfg.Instagram.CSRFToken)
		}
		client.SetHeader("Cookie", cookie)
	}

	return &Fetcher{
		client:  client,
		limiter: ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute),
		config:  cfg,
		logger:  log,
	}
}

// NewWithClient creates a Fetcher with an explicit client and limiter
func NewWithClient(client PostClient, limiter ratelimit.Limiter, cfg *config.Config, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Fetcher{
		client:  client,
		limiter: limiter,
		config:  cfg,
		logger:  log,
	}
}

// FetchPost fetches the post identified by shortcode, stages its media,
// and returns the normalized post record. Errors are classified and carry
// a user-facing message.
func (f *Fetcher) FetchPost(shortcode string) (*post.Post, error) {
	f.limiter.Wait()

	media, err := f.client.FetchPost(shortcode)
	if err != nil {
		return nil, classify(err)
	}

	// A lookup that resolves to a different shortcode means the post was
	// edited or replaced since the URL was issued.
	if media.Shortcode != "" && media.Shortcode != shortcode {
		f.logger.WarnWithFields("shortcode mismatch", map[string]interface{}{
			"requested": shortcode,
			"resolved":  media.Shortcode,
		})
		return nil, &Error{Kind: KindPostChanged, Err: fmt.Errorf("shortcode %s resolved to %s", shortcode, media.Shortcode)}
	}

	area, err := staging.New(f.config.Output.StagingDirectory, f.logger)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Err: err}
	}
	if !f.config.Output.KeepStagedFiles {
		defer area.Remove()
	}

	if err := f.stageMedia(area, shortcode, media); err != nil {
		return nil, classify(err)
	}

	files, err := area.MediaFiles()
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Err: err}
	}

	result := buildPost(shortcode, media, files)

	f.logger.InfoWithFields("fetched post", map[string]interface{}{
		"shortcode": shortcode,
		"type":      result.Type,
		"files":     len(files),
	})

	return result, nil
}

// stageMedia downloads the post media into the staging area. Carousels
// stage every child node; single posts stage the primary media.
func (f *Fetcher) stageMedia(area *staging.Area, shortcode string, media *instagram.ShortcodeMedia) error {
	if media.Typename == instagram.TypenameSidecar && media.EdgeSidecarToChildren != nil {
		for i, edge := range media.EdgeSidecarToChildren.Edges {
			node := edge.Node
			mediaURL := node.MediaURL()

			data, err := f.client.DownloadMedia(mediaURL)
			if err != nil {
				return err
			}

			name := fmt.Sprintf("%s_%d%s", shortcode, i+1, mediaExt(mediaURL, node.IsVideo))
			if _, err := area.SaveMedia(bytes.NewReader(data), name); err != nil {
				return err
			}
		}
		return nil
	}

	mediaURL := media.MediaURL()
	data, err := f.client.DownloadMedia(mediaURL)
	if err != nil {
		return err
	}

	name := shortcode + mediaExt(mediaURL, media.IsVideo)
	_, err = area.SaveMedia(bytes.NewReader(data), name)
	return err
}

// mediaExt derives a file extension from the media URL path, falling back
// on the media kind when the URL carries none
func mediaExt(mediaURL string, isVideo bool) string {
	if u, err := url.Parse(mediaURL); err == nil {
		ext := strings.ToLower(path.Ext(u.Path))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".mp4":
			return ext
		}
	}
	if isVideo {
		return ".mp4"
	}
	return ".jpg"
}

// buildPost normalizes the API document into the output record
func buildPost(shortcode string, media *instagram.ShortcodeMedia, files []string) *post.Post {
	rawCaption := media.Caption()
	caption := rawCaption
	if caption == "" {
		caption = post.DefaultCaption
	}

	postType := post.TypeImage
	switch {
	case media.Typename == instagram.TypenameSidecar:
		postType = post.TypeCarousel
	case media.IsVideo:
		postType = post.TypeVideo
	}

	var thumbnail *string
	if media.IsVideo {
		displayURL := media.DisplayURL
		thumbnail = &displayURL
	}

	var views *int
	if media.IsVideo && media.VideoViewCount != nil {
		v := *media.VideoViewCount
		views = &v
	}

	var profilePic *string
	if media.Owner.ProfilePicURL != "" {
		pic := media.Owner.ProfilePicURL
		profilePic = &pic
	}

	var location *string
	if media.Location != nil && media.Location.Name != "" {
		name := media.Location.Name
		location = &name
	}

	sidecar := []post.SidecarItem{}
	if media.EdgeSidecarToChildren != nil {
		for i, edge := range media.EdgeSidecarToChildren.Edges {
			node := edge.Node
			itemType := post.TypeImage
			if node.IsVideo {
				itemType = post.TypeVideo
			}
			sidecar = append(sidecar, post.SidecarItem{
				Index: i + 1,
				Type:  itemType,
				URL:   node.MediaURL(),
			})
		}
	}

	return &post.Post{
		Shortcode: shortcode,
		URL:       instagram.GetPostURL(shortcode),
		Type:      postType,
		Caption:   caption,
		Media: post.Media{
			URL:        media.MediaURL(),
			Thumbnail:  thumbnail,
			LocalFiles: files,
		},
		Stats: post.Stats{
			Likes:    media.EdgeMediaPreviewLike.Count,
			Comments: media.EdgeMediaToParentComment.Count,
			Views:    views,
		},
		Author: post.Author{
			Username:   media.Owner.Username,
			ProfilePic: profilePic,
			IsVerified: media.Owner.IsVerified,
		},
		CreatedAt: time.Unix(media.TakenAtTimestamp, 0).UTC().Format(time.RFC3339),
		Location:  location,
		Hashtags:  post.Hashtags(rawCaption),
		Mentions:  post.Mentions(rawCaption),
		IsVideo:   media.IsVideo,
		Sidecar:   sidecar,
	}
}

// classify maps API errors onto the fetch failure taxonomy
func classify(err error) error {
	if fetchErr, ok := err.(*Error); ok {
		return fetchErr
	}

	apiErr, ok := err.(*instagram.Error)
	if !ok {
		return &Error{Kind: KindUnknown, Err: err}
	}

	switch apiErr.Type {
	case instagram.ErrorTypeNotFound:
		return &Error{Kind: KindProfileNotFound, Err: err}
	case instagram.ErrorTypePrivate:
		return &Error{Kind: KindPrivateProfile, Err: err}
	case instagram.ErrorTypeAuth:
		return &Error{Kind: KindLoginRequired, Err: err}
	case instagram.ErrorTypeParsing:
		// A document that no longer parses as a post usually means it was
		// edited or removed behind the shortcode.
		if apiErr.Code == http.StatusOK {
			return &Error{Kind: KindPostChanged, Err: err}
		}
		return &Error{Kind: KindUnknown, Err: err}
	default:
		return &Error{Kind: KindUnknown, Err: err}
	}
}
