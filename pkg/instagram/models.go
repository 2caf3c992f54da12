package instagram

// Media type names as reported by the GraphQL API
const (
	TypenameImage   = "GraphImage"
	TypenameVideo   = "GraphVideo"
	TypenameSidecar = "GraphSidecar"
)

// PostResponse is the top-level response for a single-post metadata query
type PostResponse struct {
	RequiresToLogin bool    `json:"requires_to_login"`
	GraphQL         GraphQL `json:"graphql"`
	Status          string  `json:"status"`
}

type GraphQL struct {
	ShortcodeMedia *ShortcodeMedia `json:"shortcode_media"`
}

// ShortcodeMedia is the post document returned for a shortcode lookup
type ShortcodeMedia struct {
	Typename                 string        `json:"__typename"`
	ID                       string        `json:"id"`
	Shortcode                string        `json:"shortcode"`
	DisplayURL               string        `json:"display_url"`
	VideoURL                 string        `json:"video_url,omitempty"`
	IsVideo                  bool          `json:"is_video"`
	VideoViewCount           *int          `json:"video_view_count,omitempty"`
	TakenAtTimestamp         int64         `json:"taken_at_timestamp"`
	EdgeMediaToCaption       CaptionEdges  `json:"edge_media_to_caption"`
	EdgeMediaPreviewLike     CountEdge     `json:"edge_media_preview_like"`
	EdgeMediaToParentComment CountEdge     `json:"edge_media_to_parent_comment"`
	EdgeSidecarToChildren    *SidecarEdges `json:"edge_sidecar_to_children,omitempty"`
	Owner                    Owner         `json:"owner"`
	Location                 *Location     `json:"location,omitempty"`
}

// Caption returns the post caption text, or empty when there is none
func (m *ShortcodeMedia) Caption() string {
	if len(m.EdgeMediaToCaption.Edges) == 0 {
		return ""
	}
	return m.EdgeMediaToCaption.Edges[0].Node.Text
}

// MediaURL returns the primary media URL for the post
func (m *ShortcodeMedia) MediaURL() string {
	if m.IsVideo && m.VideoURL != "" {
		return m.VideoURL
	}
	return m.DisplayURL
}

type CaptionEdges struct {
	Edges []CaptionEdge `json:"edges"`
}

type CaptionEdge struct {
	Node CaptionNode `json:"node"`
}

type CaptionNode struct {
	Text string `json:"text"`
}

type CountEdge struct {
	Count int `json:"count"`
}

type SidecarEdges struct {
	Edges []SidecarEdge `json:"edges"`
}

type SidecarEdge struct {
	Node SidecarNode `json:"node"`
}

// SidecarNode is one item of a multi-media (carousel) post
type SidecarNode struct {
	Typename   string `json:"__typename"`
	IsVideo    bool   `json:"is_video"`
	DisplayURL string `json:"display_url"`
	VideoURL   string `json:"video_url,omitempty"`
}

// MediaURL returns the media URL for the sidecar item
func (n *SidecarNode) MediaURL() string {
	if n.IsVideo && n.VideoURL != "" {
		return n.VideoURL
	}
	return n.DisplayURL
}

// Owner is the post author as reported by the API
type Owner struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	ProfilePicURL string `json:"profile_pic_url,omitempty"`
	IsVerified    bool   `json:"is_verified"`
	IsPrivate     bool   `json:"is_private"`
}

type Location struct {
	Name string `json:"name"`
}
