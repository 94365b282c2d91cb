package tweet

import "strings"

const (
	imageHostMarker = "twimg.com"
	origSizeSuffix  = ":orig"
	origSizeQuery   = "?format=jpg&name=orig"
)

// ExtractImageURLs returns full-resolution image URLs from the media list,
// in order. Only photo items hosted on the image CDN qualify; any existing
// size query is stripped and replaced with the original-size form.
func ExtractImageURLs(media []MediaItem) []string {
	images := []string{}
	for _, item := range media {
		if item.Type != "photo" {
			continue
		}
		url := item.URL
		if url == "" || !strings.Contains(url, imageHostMarker) {
			continue
		}
		base, _, _ := strings.Cut(url, "?")
		if !strings.HasSuffix(base, origSizeSuffix) {
			url = base + origSizeQuery
		}
		images = append(images, url)
	}
	return images
}

// ExtractVideoURLs returns the highest-bitrate video URL of each video or
// animated_gif item, in order. Items without a video URL are dropped.
func ExtractVideoURLs(media []MediaItem) []string {
	videos := []string{}
	for _, item := range media {
		if item.Type != "video" && item.Type != "animated_gif" {
			continue
		}
		if item.VideoURL == "" {
			continue
		}
		videos = append(videos, item.VideoURL)
	}
	return videos
}

// FormatImageURL rewrites an image CDN URL to request a specific size
// variant (orig, large, medium, small, thumb). Non-CDN URLs pass through
// untouched.
func FormatImageURL(url, size string) string {
	if url == "" || !strings.Contains(url, imageHostMarker) {
		return url
	}
	base, _, _ := strings.Cut(url, "?")
	return base + "?format=jpg&name=" + size
}
