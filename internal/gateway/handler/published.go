package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelforge/internal/gateway/repository/publishedstore"
)

// PublishedHandler records content that went live and serves the performance
// view the prompt builder draws its top performers from.
type PublishedHandler struct {
	published *publishedstore.Store
	channels  *ChannelHandler
}

func NewPublishedHandler(published *publishedstore.Store, channels *ChannelHandler) *PublishedHandler {
	return &PublishedHandler{published: published, channels: channels}
}

func (h *PublishedHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ch := h.channels.channelFor(r)
	writeJSON(w, http.StatusOK, map[string]any{"published": h.published.ListByChannel(ch.ChannelID)})
}

type recordPublishedRequest struct {
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	Platform  string `json:"platform"`
	URL       string `json:"url"`
	Views     *int64 `json:"views"`
}

func (h *PublishedHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req recordPublishedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	ch := h.channels.channelFor(r)
	views := int64(-1)
	if req.Views != nil {
		views = *req.Views
	}
	p := publishedstore.Published{
		PublishedID: uuid.NewString(),
		ChannelID:   ch.ChannelID,
		ProjectID:   strings.TrimSpace(req.ProjectID),
		Title:       req.Title,
		Platform:    strings.TrimSpace(req.Platform),
		URL:         strings.TrimSpace(req.URL),
		Views:       views,
		PublishedAt: time.Now().UTC(),
	}
	h.published.Put(p)
	writeJSON(w, http.StatusCreated, p)
}

type setViewsRequest struct {
	Views int64 `json:"views"`
}

func (h *PublishedHandler) HandleSetViews(w http.ResponseWriter, r *http.Request) {
	var req setViewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if !h.published.SetViews(r.PathValue("id"), req.Views) {
		http.Error(w, "published entry not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": true})
}

func (h *PublishedHandler) HandleTopPerformers(w http.ResponseWriter, r *http.Request) {
	ch := h.channels.channelFor(r)
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"top": h.published.TopPerformers(ch.ChannelID, limit)})
}
