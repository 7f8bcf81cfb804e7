package handler

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelforge/internal/creative"
	"reelforge/internal/gateway/repository/ideastore"
	"reelforge/internal/gateway/repository/projectstore"
	"reelforge/internal/gateway/service/workspace"
)

// ProjectsHandler serves project CRUD plus the finished-output flow that
// feeds future prompt context.
type ProjectsHandler struct {
	projects   *projectstore.Store
	ideas      *ideastore.Store
	channels   *ChannelHandler
	workspaces *workspace.Manager
	creative   *creative.Service
}

func NewProjectsHandler(projects *projectstore.Store, ideas *ideastore.Store, channels *ChannelHandler, workspaces *workspace.Manager, svc *creative.Service) *ProjectsHandler {
	return &ProjectsHandler{
		projects:   projects,
		ideas:      ideas,
		channels:   channels,
		workspaces: workspaces,
		creative:   svc,
	}
}

func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ch := h.channels.channelFor(r)
	list := h.projects.ListByChannel(ch.ChannelID)
	sort.Slice(list, func(a, b int) bool {
		return list[a].UpdatedAt.After(list[b].UpdatedAt)
	})
	writeJSON(w, http.StatusOK, map[string]any{"projects": list})
}

type createProjectRequest struct {
	Content string `json:"content"`
	IdeaID  string `json:"idea_id"`
}

// HandleCreate starts a project from free text or promotes a bank idea. A
// promoted idea is archived so it stops showing up in the bank.
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	content := strings.TrimSpace(req.Content)
	if ideaID := strings.TrimSpace(req.IdeaID); ideaID != "" {
		idea, ok := h.ideas.Get(ideaID)
		if !ok {
			http.Error(w, "idea not found", http.StatusNotFound)
			return
		}
		content = idea.Content
		h.ideas.Update(ideaID, func(i *ideastore.Idea) { i.Archived = true })
	}
	if content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}
	ch := h.channels.channelFor(r)
	now := time.Now().UTC()
	proj := projectstore.Project{
		ProjectID: uuid.NewString(),
		ChannelID: ch.ChannelID,
		Content:   content,
		Status:    "draft",
		CreatedAt: now,
		UpdatedAt: now,
	}
	h.projects.Put(proj)
	writeJSON(w, http.StatusCreated, proj)
}

func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	proj, ok := h.projects.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

type updateProjectRequest struct {
	Content       *string         `json:"content"`
	Status        *string         `json:"status"`
	SequenceLabel *string         `json:"sequence_label"`
	StoryBeat     *string         `json:"story_beat"`
	Summary       *string         `json:"summary"`
	GraphData     json.RawMessage `json:"graph_data"`
}

func (h *ProjectsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	updated, ok := h.projects.Update(r.PathValue("id"), func(p *projectstore.Project) {
		if req.Content != nil {
			p.Content = strings.TrimSpace(*req.Content)
		}
		if req.Status != nil {
			p.Status = strings.TrimSpace(*req.Status)
		}
		if req.SequenceLabel != nil {
			p.SequenceLabel = strings.TrimSpace(*req.SequenceLabel)
		}
		if req.StoryBeat != nil {
			p.StoryBeat = strings.TrimSpace(*req.StoryBeat)
		}
		if req.Summary != nil {
			p.Summary = strings.TrimSpace(*req.Summary)
		}
		if len(req.GraphData) > 0 {
			p.GraphData = req.GraphData
		}
		p.UpdatedAt = time.Now().UTC()
	})
	if !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	// Tear down the open canvas first so a pending debounced save cannot
	// resurrect the row.
	h.workspaces.Close(projectID)
	if !h.projects.Delete(projectID) {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (h *ProjectsHandler) HandleListOutputs(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if _, ok := h.projects.Get(projectID); !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	outs, err := h.projects.ListOutputs(projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"outputs": outs})
}

type addOutputRequest struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// HandleAddOutput records a finished deliverable. Saving a script also
// produces the one-paragraph project summary used for continuity in later
// videos; a summary failure does not block the save.
func (h *ProjectsHandler) HandleAddOutput(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	var req addOutputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	kind := strings.TrimSpace(req.Kind)
	if kind == "" {
		http.Error(w, "kind is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}
	proj, ok := h.projects.Get(projectID)
	if !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	out := projectstore.ContentOutput{
		ProjectID: projectID,
		Kind:      kind,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.projects.AddOutput(out); err != nil {
		writeError(w, err)
		return
	}
	summary := proj.Summary
	if kind == "script" {
		if s, err := h.creative.ProjectSummary(r.Context(), req.Content); err == nil {
			summary = s
		}
		h.projects.Update(projectID, func(p *projectstore.Project) {
			p.Summary = summary
			if p.Status == "draft" {
				p.Status = "scripted"
			}
			p.UpdatedAt = time.Now().UTC()
		})
		h.creative.InvalidateContext(proj.ChannelID)
	}
	writeJSON(w, http.StatusOK, map[string]any{"output": out, "summary": summary})
}
