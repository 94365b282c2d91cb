// Package tweet normalizes Bird CLI output into a schema-stable record.
// The tool's JSON shape has drifted across versions, so every field resolves
// through an ordered fallback chain.
package tweet

import "time"

// MediaItem is one attachment as the tool reports it. It only exists during
// normalization; images and videos end up as plain URL lists on Record.
type MediaItem struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
}

// Record is the canonical, normalized form of one fetched post.
type Record struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Text string `json:"text"`

	// CreatedAt is zero when the tool omitted the timestamp entirely;
	// CreatedAtRaw always preserves what the tool sent.
	CreatedAt    time.Time `json:"created_at"`
	CreatedAtRaw string    `json:"created_at_raw,omitempty"`

	AuthorHandle string `json:"author_handle"`
	AuthorName   string `json:"author_name,omitempty"`

	Images []string `json:"images"`
	Videos []string `json:"videos"`

	IsThread       bool   `json:"is_thread"`
	ConversationID string `json:"conversation_id,omitempty"`
}
