package ideastore

import (
	"strings"
	"time"
)

// Idea is one bank entry: a content idea captured or generated for a channel,
// waiting to be promoted into a project.
type Idea struct {
	IdeaID    string    `json:"idea_id"`
	ChannelID string    `json:"channel_id"`
	BucketID  string    `json:"bucket_id,omitempty"`
	Content   string    `json:"content"`
	// Source records where the idea came from: "manual" or "generated".
	Source    string    `json:"source,omitempty"`
	Archived  bool      `json:"archived,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

const sourceManual = "manual"

func normalizeIdea(i Idea) Idea {
	i.IdeaID = strings.TrimSpace(i.IdeaID)
	i.ChannelID = strings.TrimSpace(i.ChannelID)
	i.Content = strings.TrimSpace(i.Content)
	if strings.TrimSpace(i.Source) == "" {
		i.Source = sourceManual
	}
	return i
}

type rowScanner interface {
	Scan(dest ...any) error
}
