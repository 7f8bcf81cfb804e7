package channelstore

import (
	"strings"
	"time"
)

// Channel is a creator's channel profile: identity, audience, goals and the
// themed content buckets ideas are organized into.
type Channel struct {
	ChannelID        string    `json:"channel_id"`
	UserID           string    `json:"user_id"`
	Name             string    `json:"name"`
	CoreAudience     string    `json:"core_audience,omitempty"`
	Goals            string    `json:"goals,omitempty"`
	Buckets          []Bucket  `json:"buckets,omitempty"`
	InspirationNotes []string  `json:"inspiration_notes,omitempty"`
	HooksPath        string    `json:"hooks_path,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
}

// Bucket is one content theme.
type Bucket struct {
	BucketID    string `json:"bucket_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func normalizeChannel(c Channel) Channel {
	c.ChannelID = strings.TrimSpace(c.ChannelID)
	c.UserID = strings.TrimSpace(c.UserID)
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = "My channel"
	}
	kept := c.Buckets[:0]
	for _, b := range c.Buckets {
		b.Name = strings.TrimSpace(b.Name)
		if b.Name == "" {
			continue
		}
		kept = append(kept, b)
	}
	c.Buckets = kept
	return c
}

type rowScanner interface {
	Scan(dest ...any) error
}
