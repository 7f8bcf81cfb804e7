package creative

import (
	"fmt"
	"strings"
)

// ChannelProfile carries everything the prompt builder knows about a channel:
// style, history, continuity, inspiration, performance.
type ChannelProfile struct {
	ChannelName  string
	CoreAudience string
	Goals        string
	Buckets      []BucketSuggestion
	// RecentIdeas are the last N project idea texts.
	RecentIdeas []string
	// RecentScripts are the last N script outputs.
	RecentScripts []string
	// ProjectSummaries are past-content one-liners for continuity/callbacks.
	ProjectSummaries []ProjectSummary
	// InspirationNotes capture what the creator likes from other videos.
	InspirationNotes []string
	// TopPerformers list content that did well, with view counts when known.
	TopPerformers []Performer
	// NextSequenceLabel is e.g. "Day 35" for the next video in a series.
	NextSequenceLabel string
}

// ProjectSummary is one past video's narrative footprint.
type ProjectSummary struct {
	SequenceLabel string
	StoryBeat     string
	Summary       string
}

// Performer is one published item with its view count (-1 when unknown).
type Performer struct {
	TitleOrIdea string
	Views       int64
}

const (
	recentIdeasMax     = 10
	recentScriptsMax   = 10
	scriptSnippetChars = 400
	summariesMax       = 50
	topPerformersMax   = 5
	inspirationMax     = 10
)

// BuildContext renders the profile into the channel-context string used by
// every generation path.
func (p ChannelProfile) BuildContext() string {
	parts := []string{"Channel name: " + p.ChannelName}
	if p.CoreAudience != "" {
		parts = append(parts, "Core audience: "+p.CoreAudience)
	}
	if p.Goals != "" {
		parts = append(parts, "Goals: "+p.Goals)
	}
	if len(p.Buckets) > 0 {
		items := make([]string, 0, len(p.Buckets))
		for _, b := range p.Buckets {
			item := b.Name
			if b.Description != "" {
				item += " - " + b.Description
			}
			items = append(items, item)
		}
		parts = append(parts, "Content buckets (themes): "+strings.Join(items, "; "))
	}
	if label := strings.TrimSpace(p.NextSequenceLabel); label != "" {
		parts = append(parts, "Next video / today: "+label+".")
	}
	if len(p.RecentIdeas) > 0 {
		parts = append(parts, "Recent ideas (for style reference):")
		for _, c := range capList(p.RecentIdeas, recentIdeasMax) {
			parts = append(parts, "- "+c)
		}
	}
	if len(p.RecentScripts) > 0 {
		parts = append(parts, "Recent scripts (for style reference):")
		for _, c := range capList(p.RecentScripts, recentScriptsMax) {
			if len(c) > scriptSnippetChars {
				c = c[:scriptSnippetChars] + "..."
			}
			parts = append(parts, "- "+c)
		}
	}
	if len(p.ProjectSummaries) > 0 {
		var lines []string
		max := summariesMax
		if len(p.ProjectSummaries) < max {
			max = len(p.ProjectSummaries)
		}
		for _, s := range p.ProjectSummaries[:max] {
			text := strings.TrimSpace(s.StoryBeat)
			if text == "" {
				text = strings.TrimSpace(s.Summary)
			}
			if text == "" {
				continue
			}
			if label := strings.TrimSpace(s.SequenceLabel); label != "" {
				text = label + ": " + text
			}
			lines = append(lines, "- "+text)
		}
		if len(lines) > 0 {
			parts = append(parts, "Past content (for continuity / callbacks):")
			parts = append(parts, lines...)
		}
	}
	if len(p.InspirationNotes) > 0 {
		parts = append(parts, "Channel vibe / inspiration:")
		for _, n := range capList(p.InspirationNotes, inspirationMax) {
			parts = append(parts, "- "+n)
		}
	}
	if len(p.TopPerformers) > 0 {
		parts = append(parts, "Content that performed well (prefer similar topics/tone):")
		max := topPerformersMax
		if len(p.TopPerformers) < max {
			max = len(p.TopPerformers)
		}
		for _, t := range p.TopPerformers[:max] {
			line := "- " + t.TitleOrIdea
			if t.Views >= 0 {
				line += fmt.Sprintf(" (%d views)", t.Views)
			}
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "\n")
}

func capList(list []string, max int) []string {
	if len(list) > max {
		return list[:max]
	}
	return list
}
