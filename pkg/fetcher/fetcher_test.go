package fetcher

import (
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igfetch/pkg/config"
	"igfetch/pkg/instagram"
	"igfetch/pkg/logger"
	"igfetch/pkg/post"
)

// mockClient is a canned PostClient for tests
type mockClient struct {
	media       *instagram.ShortcodeMedia
	fetchErr    error
	mediaData   map[string][]byte
	downloadErr error
	downloads   []string
}

func (m *mockClient) FetchPost(shortcode string) (*instagram.ShortcodeMedia, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.media, nil
}

func (m *mockClient) DownloadMedia(mediaURL string) ([]byte, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	m.downloads = append(m.downloads, mediaURL)
	if data, ok := m.mediaData[mediaURL]; ok {
		return data, nil
	}
	return []byte("media"), nil
}

// noopLimiter never blocks
type noopLimiter struct{}

func (noopLimiter) Allow() bool { return true }
func (noopLimiter) Wait()       {}

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Output.StagingDirectory = t.TempDir()
	return cfg
}

func newTestFetcher(t *testing.T, client PostClient, cfg *config.Config) *Fetcher {
	t.Helper()
	if cfg == nil {
		cfg = testConfig(t)
	}
	return NewWithClient(client, noopLimiter{}, cfg, logger.NewNop())
}

func imageMedia(shortcode string) *instagram.ShortcodeMedia {
	return &instagram.ShortcodeMedia{
		Typename:         instagram.TypenameImage,
		ID:               "123",
		Shortcode:        shortcode,
		DisplayURL:       "https://cdn.example.com/img.jpg",
		TakenAtTimestamp: 1700000000,
		EdgeMediaToCaption: instagram.CaptionEdges{
			Edges: []instagram.CaptionEdge{
				{Node: instagram.CaptionNode{Text: "Sunset at the beach #sunset with @friend"}},
			},
		},
		EdgeMediaPreviewLike:     instagram.CountEdge{Count: 42},
		EdgeMediaToParentComment: instagram.CountEdge{Count: 7},
		Owner: instagram.Owner{
			ID:            "1",
			Username:      "someuser",
			ProfilePicURL: "https://cdn.example.com/profile.jpg",
			IsVerified:    true,
		},
		Location: &instagram.Location{Name: "Lisboa"},
	}
}

func TestFetchPostImage(t *testing.T) {
	client := &mockClient{media: imageMedia("ABC123")}
	f := newTestFetcher(t, client, nil)

	p, err := f.FetchPost("ABC123")
	require.NoError(t, err)

	assert.Equal(t, "ABC123", p.Shortcode)
	assert.Equal(t, "https://www.instagram.com/p/ABC123/", p.URL)
	assert.Equal(t, post.TypeImage, p.Type)
	assert.Equal(t, "Sunset at the beach #sunset with @friend", p.Caption)
	assert.Equal(t, []string{"sunset"}, p.Hashtags)
	assert.Equal(t, []string{"friend"}, p.Mentions)
	assert.Equal(t, 42, p.Stats.Likes)
	assert.Equal(t, 7, p.Stats.Comments)
	assert.Nil(t, p.Stats.Views)
	assert.Equal(t, "someuser", p.Author.Username)
	require.NotNil(t, p.Author.ProfilePic)
	assert.Equal(t, "https://cdn.example.com/profile.jpg", *p.Author.ProfilePic)
	assert.True(t, p.Author.IsVerified)
	require.NotNil(t, p.Location)
	assert.Equal(t, "Lisboa", *p.Location)
	assert.Equal(t, "2023-11-14T22:13:20Z", p.CreatedAt)
	assert.False(t, p.IsVideo)
	assert.Nil(t, p.Media.Thumbnail)
	assert.Empty(t, p.Sidecar)

	assert.Equal(t, []string{"https://cdn.example.com/img.jpg"}, client.downloads)
	require.Len(t, p.Media.LocalFiles, 1)
	assert.Contains(t, p.Media.LocalFiles[0], "ABC123.jpg")

	// The scratch directory is removed before the result is returned, so
	// the listed paths no longer exist.
	_, statErr := os.Stat(p.Media.LocalFiles[0])
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetchPostVideo(t *testing.T) {
	views := 9000
	media := imageMedia("VID111")
	media.Typename = instagram.TypenameVideo
	media.IsVideo = true
	media.VideoURL = "https://cdn.example.com/clip.mp4"
	media.VideoViewCount = &views

	f := newTestFetcher(t, &mockClient{media: media}, nil)

	p, err := f.FetchPost("VID111")
	require.NoError(t, err)

	assert.Equal(t, post.TypeVideo, p.Type)
	assert.True(t, p.IsVideo)
	assert.Equal(t, "https://cdn.example.com/clip.mp4", p.Media.URL)
	require.NotNil(t, p.Media.Thumbnail)
	assert.Equal(t, "https://cdn.example.com/img.jpg", *p.Media.Thumbnail)
	require.NotNil(t, p.Stats.Views)
	assert.Equal(t, 9000, *p.Stats.Views)
	require.Len(t, p.Media.LocalFiles, 1)
	assert.Contains(t, p.Media.LocalFiles[0], "VID111.mp4")
}

func TestFetchPostCarousel(t *testing.T) {
	media := imageMedia("CAR222")
	media.Typename = instagram.TypenameSidecar
	media.EdgeSidecarToChildren = &instagram.SidecarEdges{
		Edges: []instagram.SidecarEdge{
			{Node: instagram.SidecarNode{
				Typename:   instagram.TypenameImage,
				DisplayURL: "https://cdn.example.com/one.jpg",
			}},
			{Node: instagram.SidecarNode{
				Typename: instagram.TypenameVideo,
				IsVideo:  true,
				VideoURL: "https://cdn.example.com/two.mp4",
			}},
		},
	}

	client := &mockClient{media: media}
	f := newTestFetcher(t, client, nil)

	p, err := f.FetchPost("CAR222")
	require.NoError(t, err)

	assert.Equal(t, post.TypeCarousel, p.Type)
	require.Len(t, p.Sidecar, 2)
	assert.Equal(t, 1, p.Sidecar[0].Index)
	assert.Equal(t, post.TypeImage, p.Sidecar[0].Type)
	assert.Equal(t, "https://cdn.example.com/one.jpg", p.Sidecar[0].URL)
	assert.Equal(t, 2, p.Sidecar[1].Index)
	assert.Equal(t, post.TypeVideo, p.Sidecar[1].Type)
	assert.Equal(t, "https://cdn.example.com/two.mp4", p.Sidecar[1].URL)

	// Only the child nodes are downloaded
	assert.Equal(t, []string{
		"https://cdn.example.com/one.jpg",
		"https://cdn.example.com/two.mp4",
	}, client.downloads)

	require.Len(t, p.Media.LocalFiles, 2)
	assert.Contains(t, p.Media.LocalFiles[0], "CAR222_1.jpg")
	assert.Contains(t, p.Media.LocalFiles[1], "CAR222_2.mp4")
}

func TestFetchPostNoCaption(t *testing.T) {
	media := imageMedia("ABC123")
	media.EdgeMediaToCaption = instagram.CaptionEdges{}

	f := newTestFetcher(t, &mockClient{media: media}, nil)

	p, err := f.FetchPost("ABC123")
	require.NoError(t, err)

	assert.Equal(t, post.DefaultCaption, p.Caption)
	assert.Equal(t, []string{}, p.Hashtags)
	assert.Equal(t, []string{}, p.Mentions)
}

func TestFetchPostKeepStagedFiles(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.KeepStagedFiles = true

	f := newTestFetcher(t, &mockClient{media: imageMedia("ABC123")}, cfg)

	p, err := f.FetchPost("ABC123")
	require.NoError(t, err)

	require.Len(t, p.Media.LocalFiles, 1)
	_, statErr := os.Stat(p.Media.LocalFiles[0])
	assert.NoError(t, statErr)
}

func TestFetchPostShortcodeMismatch(t *testing.T) {
	f := newTestFetcher(t, &mockClient{media: imageMedia("OTHER99")}, nil)

	_, err := f.FetchPost("ABC123")
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindPostChanged, fetchErr.Kind)
	assert.Equal(t, "Post foi modificado ou deletado", fetchErr.UserMessage())
}

func TestFetchPostErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		apiErr  *instagram.Error
		kind    Kind
		message string
	}{
		{
			name:    "not found",
			apiErr:  &instagram.Error{Type: instagram.ErrorTypeNotFound, Message: "resource not found", Code: http.StatusNotFound},
			kind:    KindProfileNotFound,
			message: "Perfil não encontrado",
		},
		{
			name:    "private",
			apiErr:  &instagram.Error{Type: instagram.ErrorTypePrivate, Message: "content is private", Code: http.StatusForbidden},
			kind:    KindPrivateProfile,
			message: "Post privado. Não é possível baixar sem autenticação.",
		},
		{
			name:    "login required",
			apiErr:  &instagram.Error{Type: instagram.ErrorTypeAuth, Message: "authentication required", Code: http.StatusUnauthorized},
			kind:    KindLoginRequired,
			message: "Login necessário para este conteúdo",
		},
		{
			name:    "parse failure on ok response",
			apiErr:  &instagram.Error{Type: instagram.ErrorTypeParsing, Message: "failed to parse JSON", Code: http.StatusOK},
			kind:    KindPostChanged,
			message: "Post foi modificado ou deletado",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFetcher(t, &mockClient{fetchErr: tt.apiErr}, nil)

			_, err := f.FetchPost("ABC123")
			require.Error(t, err)

			var fetchErr *Error
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, tt.kind, fetchErr.Kind)
			assert.Equal(t, tt.message, fetchErr.UserMessage())
			assert.ErrorIs(t, err, tt.apiErr)
		})
	}
}

func TestFetchPostUnknownError(t *testing.T) {
	underlying := errors.New("connection reset")
	f := newTestFetcher(t, &mockClient{fetchErr: underlying}, nil)

	_, err := f.FetchPost("ABC123")
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindUnknown, fetchErr.Kind)
	assert.Equal(t, "connection reset", fetchErr.UserMessage())
}

func TestFetchPostDownloadFailure(t *testing.T) {
	apiErr := &instagram.Error{Type: instagram.ErrorTypeNotFound, Message: "gone", Code: http.StatusNotFound}
	f := newTestFetcher(t, &mockClient{media: imageMedia("ABC123"), downloadErr: apiErr}, nil)

	_, err := f.FetchPost("ABC123")
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindProfileNotFound, fetchErr.Kind)
}

func TestUserMessageFallback(t *testing.T) {
	plain := errors.New("something odd")
	assert.Equal(t, "something odd", UserMessage(plain))
	assert.Equal(t, "Perfil não encontrado", UserMessage(&Error{Kind: KindProfileNotFound}))
}

func TestMediaExt(t *testing.T) {
	tests := []struct {
		url      string
		isVideo  bool
		expected string
	}{
		{"https://cdn.example.com/img.jpg?sig=abc", false, ".jpg"},
		{"https://cdn.example.com/img.jpeg", false, ".jpeg"},
		{"https://cdn.example.com/img.png", false, ".png"},
		{"https://cdn.example.com/clip.mp4?bytestart=0", true, ".mp4"},
		{"https://cdn.example.com/media", true, ".mp4"},
		{"https://cdn.example.com/media", false, ".jpg"},
		{"https://cdn.example.com/weird.webp", false, ".jpg"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, mediaExt(tt.url, tt.isVideo), tt.url)
	}
}

func TestCreatedAtIsUTC(t *testing.T) {
	media := imageMedia("ABC123")
	media.TakenAtTimestamp = time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC).Unix()

	f := newTestFetcher(t, &mockClient{media: media}, nil)

	p, err := f.FetchPost("ABC123")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T12:30:00Z", p.CreatedAt)
}
