package tweet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xscrape/xscrape/internal/clock"
)

// rawPost mirrors the union of field names the tool has emitted across
// versions. Unknown fields are ignored.
type rawPost struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	FullText string `json:"full_text"`

	CreatedAt       string `json:"createdAt"`
	CreatedAtLegacy string `json:"created_at"`

	Author struct {
		Username    string `json:"username"`
		Handle      string `json:"handle"`
		ScreenName  string `json:"screen_name"`
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	} `json:"author"`

	ConversationID string `json:"conversationId"`
	Legacy         struct {
		ConversationIDStr string `json:"conversation_id_str"`
	} `json:"legacy"`

	Media []MediaItem `json:"media"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Normalize decodes one successful tool invocation into a Record. It fails
// only when raw is not a JSON object; missing fields resolve to defaults
// rather than errors.
func Normalize(raw []byte, sourceURL string, clk clock.Clock) (Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Record{}, fmt.Errorf("tool output is not a JSON object")
	}
	var rp rawPost
	if err := json.Unmarshal(trimmed, &rp); err != nil {
		return Record{}, fmt.Errorf("decode tool output: %w", err)
	}

	createdRaw := firstNonEmpty(rp.CreatedAt, rp.CreatedAtLegacy)
	var createdAt time.Time
	if createdRaw != "" {
		createdAt = ParseDate(createdRaw, clk.Now)
	}

	conversationID := firstNonEmpty(rp.ConversationID, rp.Legacy.ConversationIDStr)

	return Record{
		ID:             rp.ID,
		URL:            sourceURL,
		Text:           firstNonEmpty(rp.Text, rp.FullText),
		CreatedAt:      createdAt,
		CreatedAtRaw:   createdRaw,
		AuthorHandle:   firstNonEmpty(rp.Author.Username, rp.Author.Handle, rp.Author.ScreenName),
		AuthorName:     firstNonEmpty(rp.Author.Name, rp.Author.DisplayName),
		Images:         ExtractImageURLs(rp.Media),
		Videos:         ExtractVideoURLs(rp.Media),
		IsThread:       conversationID != "" && conversationID != rp.ID,
		ConversationID: conversationID,
	}, nil
}
