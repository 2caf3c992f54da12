// Package post defines the normalized post record and the result envelope
// that every invocation prints on standard output.
package post

// Post type values
const (
	TypeImage    = "image"
	TypeVideo    = "video"
	TypeCarousel = "carousel"
)

// DefaultCaption is used when a post has no caption text
const DefaultCaption = "Sem legenda"

// Post is the normalized record for a fetched Instagram post
type Post struct {
	Shortcode string        `json:"shortcode"`
	URL       string        `json:"url"`
	Type      string        `json:"type"`
	Caption   string        `json:"caption"`
	Media     Media         `json:"media"`
	Stats     Stats         `json:"stats"`
	Author    Author        `json:"author"`
	CreatedAt string        `json:"created_at"`
	Location  *string       `json:"location"`
	Hashtags  []string      `json:"hashtags"`
	Mentions  []string      `json:"mentions"`
	IsVideo   bool          `json:"is_video"`
	Sidecar   []SidecarItem `json:"sidecar"`
}

// Media holds the primary media URLs and the locally staged file paths
type Media struct {
	URL        string   `json:"url"`
	Thumbnail  *string  `json:"thumbnail"`
	LocalFiles []string `json:"local_files"`
}

// Stats holds engagement counts. Views is only present for videos.
type Stats struct {
	Likes    int  `json:"likes"`
	Comments int  `json:"comments"`
	Views    *int `json:"views"`
}

// Author identifies the post owner. ProfilePic is only populated when
// the upstream API supplies it.
type Author struct {
	Username   string  `json:"username"`
	ProfilePic *string `json:"profile_pic"`
	IsVerified bool    `json:"is_verified"`
}

// SidecarItem is one entry of a carousel post, 1-indexed in post order
type SidecarItem struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}
