package profile

import (
	"context"
	"fmt"
	"sort"

	"reelforge/internal/creative"
	"reelforge/internal/gateway/repository/channelstore"
	"reelforge/internal/gateway/repository/projectstore"
	"reelforge/internal/gateway/repository/publishedstore"
)

const (
	recentProjects = 10
	topPerformers  = 5
)

// Loader assembles the channel profile the prompt builder needs, pulling
// from the channel, project and published-content stores.
type Loader struct {
	channels  *channelstore.Store
	projects  *projectstore.Store
	published *publishedstore.Store
}

func NewLoader(channels *channelstore.Store, projects *projectstore.Store, published *publishedstore.Store) *Loader {
	return &Loader{channels: channels, projects: projects, published: published}
}

var _ creative.ProfileLoader = (*Loader)(nil)

func (l *Loader) LoadProfile(_ context.Context, channelID string) (creative.ChannelProfile, error) {
	ch, ok := l.channels.Get(channelID)
	if !ok {
		return creative.ChannelProfile{}, fmt.Errorf("channel %s not found", channelID)
	}

	p := creative.ChannelProfile{
		ChannelName:      ch.Name,
		CoreAudience:     ch.CoreAudience,
		Goals:            ch.Goals,
		InspirationNotes: ch.InspirationNotes,
	}
	for _, b := range ch.Buckets {
		p.Buckets = append(p.Buckets, creative.BucketSuggestion{Name: b.Name, Description: b.Description})
	}

	projects := l.projects.ListByChannel(channelID)
	sort.Slice(projects, func(a, b int) bool {
		return projects[a].UpdatedAt.After(projects[b].UpdatedAt)
	})
	for i, proj := range projects {
		if i < recentProjects && proj.Content != "" {
			p.RecentIdeas = append(p.RecentIdeas, proj.Content)
		}
		if proj.Summary != "" || proj.StoryBeat != "" {
			p.ProjectSummaries = append(p.ProjectSummaries, creative.ProjectSummary{
				SequenceLabel: proj.SequenceLabel,
				StoryBeat:     proj.StoryBeat,
				Summary:       proj.Summary,
			})
		}
		if len(p.RecentScripts) < recentProjects {
			outs, err := l.projects.ListOutputs(proj.ProjectID)
			if err != nil {
				continue
			}
			for _, o := range outs {
				if o.Kind == "script" {
					p.RecentScripts = append(p.RecentScripts, o.Content)
					break
				}
			}
		}
	}

	for _, top := range l.published.TopPerformers(channelID, topPerformers) {
		p.TopPerformers = append(p.TopPerformers, creative.Performer{
			TitleOrIdea: top.Title,
			Views:       top.Views,
		})
	}
	return p, nil
}
