package publishedstore

import (
	"strings"
	"time"
)

// Published is one piece of content that went live: where it was posted and
// how it performed. Views of -1 mean not yet recorded.
type Published struct {
	PublishedID string    `json:"published_id"`
	ChannelID   string    `json:"channel_id"`
	ProjectID   string    `json:"project_id,omitempty"`
	Title       string    `json:"title"`
	Platform    string    `json:"platform,omitempty"`
	URL         string    `json:"url,omitempty"`
	Views       int64     `json:"views"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

func normalizePublished(p Published) Published {
	p.PublishedID = strings.TrimSpace(p.PublishedID)
	p.ChannelID = strings.TrimSpace(p.ChannelID)
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		p.Title = "Untitled"
	}
	return p
}

type rowScanner interface {
	Scan(dest ...any) error
}
