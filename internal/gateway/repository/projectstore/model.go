package projectstore

import (
	"encoding/json"
	"strings"
	"time"
)

// Project is one video in the making: the idea text, its canvas graph, and
// the narrative metadata used for continuity across videos.
type Project struct {
	ProjectID     string          `json:"project_id"`
	ChannelID     string          `json:"channel_id"`
	Content       string          `json:"content"`
	Status        string          `json:"status,omitempty"`
	SequenceLabel string          `json:"sequence_label,omitempty"`
	StoryBeat     string          `json:"story_beat,omitempty"`
	Summary       string          `json:"summary,omitempty"`
	GraphData     json.RawMessage `json:"graph_data,omitempty"`
	Outputs       []ContentOutput `json:"outputs,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at,omitempty"`
}

// ContentOutput is one finished deliverable produced on the canvas: a script,
// description, hashtags or title, kept for style reference in later prompts.
type ContentOutput struct {
	ID        int       `json:"id"`
	ProjectID string    `json:"project_id"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

const statusDraft = "draft"

func normalizeProject(p Project) Project {
	p.ProjectID = strings.TrimSpace(p.ProjectID)
	p.ChannelID = strings.TrimSpace(p.ChannelID)
	p.Status = strings.TrimSpace(p.Status)
	if p.Status == "" {
		p.Status = statusDraft
	}
	return p
}

type rowScanner interface {
	Scan(dest ...any) error
}
