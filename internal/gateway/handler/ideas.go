package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelforge/internal/creative"
	"reelforge/internal/gateway/repository/ideastore"
)

// IdeasHandler serves the idea bank: captured and generated ideas waiting to
// become projects.
type IdeasHandler struct {
	ideas    *ideastore.Store
	channels *ChannelHandler
	creative *creative.Service
}

func NewIdeasHandler(ideas *ideastore.Store, channels *ChannelHandler, svc *creative.Service) *IdeasHandler {
	return &IdeasHandler{ideas: ideas, channels: channels, creative: svc}
}

func (h *IdeasHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ch := h.channels.channelFor(r)
	list := h.ideas.ListByChannel(ch.ChannelID)
	writeJSON(w, http.StatusOK, map[string]any{"ideas": list})
}

type createIdeaRequest struct {
	Content  string `json:"content"`
	BucketID string `json:"bucket_id"`
}

func (h *IdeasHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}
	ch := h.channels.channelFor(r)
	idea := ideastore.Idea{
		IdeaID:    uuid.NewString(),
		ChannelID: ch.ChannelID,
		BucketID:  strings.TrimSpace(req.BucketID),
		Content:   req.Content,
		Source:    "manual",
		CreatedAt: time.Now().UTC(),
	}
	h.ideas.Put(idea)
	writeJSON(w, http.StatusCreated, idea)
}

type updateIdeaRequest struct {
	Content  *string `json:"content"`
	BucketID *string `json:"bucket_id"`
	Archived *bool   `json:"archived"`
}

func (h *IdeasHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	updated, ok := h.ideas.Update(r.PathValue("id"), func(i *ideastore.Idea) {
		if req.Content != nil {
			i.Content = *req.Content
		}
		if req.BucketID != nil {
			i.BucketID = strings.TrimSpace(*req.BucketID)
		}
		if req.Archived != nil {
			i.Archived = *req.Archived
		}
	})
	if !ok {
		http.Error(w, "idea not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *IdeasHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.ideas.Delete(r.PathValue("id")) {
		http.Error(w, "idea not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

type generateIdeasRequest struct {
	RoughIdea string `json:"rough_idea"`
	Count     int    `json:"count"`
	BucketID  string `json:"bucket_id"`
}

// HandleGenerate expands a rough note into polished ideas and stores them in
// the bank as generated entries.
func (h *IdeasHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateIdeasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	ch := h.channels.channelFor(r)
	texts, err := h.creative.GenerateIdeasFromRough(r.Context(), ch.ChannelID, req.RoughIdea, req.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	created := make([]ideastore.Idea, 0, len(texts))
	for _, text := range texts {
		idea := ideastore.Idea{
			IdeaID:    uuid.NewString(),
			ChannelID: ch.ChannelID,
			BucketID:  strings.TrimSpace(req.BucketID),
			Content:   text,
			Source:    "generated",
			CreatedAt: time.Now().UTC(),
		}
		h.ideas.Put(idea)
		created = append(created, idea)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ideas": created})
}
