package tweet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleMedia() []MediaItem {
	return []MediaItem{
		{Type: "photo", URL: "https://pbs.twimg.com/media/abc123.jpg?name=small", Width: 1200, Height: 800},
		{Type: "photo", URL: "https://pbs.twimg.com/media/def456.jpg"},
		{Type: "video", URL: "https://pbs.twimg.com/ext_tw_video_thumb/1.jpg", VideoURL: "https://video.twimg.com/ext_tw_video/1/pu/vid/1280x720/clip.mp4"},
	}
}

func TestExtractImageURLs(t *testing.T) {
	t.Parallel()

	images := ExtractImageURLs(sampleMedia())
	require.Len(t, images, 2)
	for _, url := range images {
		require.Contains(t, url, "twimg.com")
		require.Contains(t, url, "name=orig")
	}
	require.Equal(t, "https://pbs.twimg.com/media/abc123.jpg?format=jpg&name=orig", images[0])
}

func TestExtractImageURLsSkipsForeignHosts(t *testing.T) {
	t.Parallel()

	images := ExtractImageURLs([]MediaItem{
		{Type: "photo", URL: "https://example.com/image.jpg"},
	})
	require.Empty(t, images)
}

func TestExtractImageURLsEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, ExtractImageURLs(nil))
	require.Empty(t, ExtractImageURLs([]MediaItem{}))
}

func TestExtractVideoURLs(t *testing.T) {
	t.Parallel()

	videos := ExtractVideoURLs(sampleMedia())
	require.Len(t, videos, 1)
	require.Contains(t, videos[0], "video.twimg.com")
	require.Contains(t, videos[0], ".mp4")
}

func TestExtractVideoURLsAnimatedGif(t *testing.T) {
	t.Parallel()

	videos := ExtractVideoURLs([]MediaItem{
		{Type: "animated_gif", VideoURL: "https://video.twimg.com/tweet_video/gif.mp4"},
		{Type: "video"}, // no videoUrl, dropped
	})
	require.Equal(t, []string{"https://video.twimg.com/tweet_video/gif.mp4"}, videos)
}

func TestFormatImageURL(t *testing.T) {
	t.Parallel()

	got := FormatImageURL("https://pbs.twimg.com/media/abc123.jpg", "orig")
	require.Contains(t, got, "format=jpg")
	require.Contains(t, got, "name=orig")

	large := FormatImageURL("https://pbs.twimg.com/media/abc123.jpg?name=small", "large")
	require.True(t, strings.HasSuffix(large, "name=large"))

	foreign := "https://example.com/image.jpg"
	require.Equal(t, foreign, FormatImageURL(foreign, "orig"))
}
