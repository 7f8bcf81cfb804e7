package handler

import (
	"net/http"
	"sort"

	"reelforge/internal/gateway/repository/ideastore"
	"reelforge/internal/gateway/repository/projectstore"
	"reelforge/internal/gateway/repository/publishedstore"
)

// DashboardHandler aggregates the at-a-glance views: the home dashboard and
// the performance page.
type DashboardHandler struct {
	channels  *ChannelHandler
	ideas     *ideastore.Store
	projects  *projectstore.Store
	published *publishedstore.Store
}

func NewDashboardHandler(channels *ChannelHandler, ideas *ideastore.Store, projects *projectstore.Store, published *publishedstore.Store) *DashboardHandler {
	return &DashboardHandler{channels: channels, ideas: ideas, projects: projects, published: published}
}

const dashboardRecentProjects = 5

func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ch := h.channels.channelFor(r)

	projects := h.projects.ListByChannel(ch.ChannelID)
	byStatus := map[string]int{}
	for _, p := range projects {
		byStatus[p.Status]++
	}
	sort.Slice(projects, func(a, b int) bool {
		return projects[a].UpdatedAt.After(projects[b].UpdatedAt)
	})
	if len(projects) > dashboardRecentProjects {
		projects = projects[:dashboardRecentProjects]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"channel":            ch,
		"idea_count":         len(h.ideas.ListByChannel(ch.ChannelID)),
		"projects_by_status": byStatus,
		"recent_projects":    projects,
		"top_performers":     h.published.TopPerformers(ch.ChannelID, 0),
	})
}

func (h *DashboardHandler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	ch := h.channels.channelFor(r)
	list := h.published.ListByChannel(ch.ChannelID)
	// Views-descending; unrecorded entries sink to the bottom.
	sort.SliceStable(list, func(a, b int) bool {
		return list[a].Views > list[b].Views
	})
	writeJSON(w, http.StatusOK, map[string]any{"published": list})
}
