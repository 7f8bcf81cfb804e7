package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"reelforge/internal/gateway/repository/brollstore"
)

// maxClipSize caps a single b-roll upload at 256 MiB.
const maxClipSize = 256 << 20

// BrollHandler serves the b-roll clip library backed by object storage. The
// store is nil when no object storage is configured; every route then answers
// 503 instead of failing deeper in.
type BrollHandler struct {
	store    *brollstore.S3Store
	channels *ChannelHandler
}

func NewBrollHandler(store *brollstore.S3Store, channels *ChannelHandler) *BrollHandler {
	return &BrollHandler{store: store, channels: channels}
}

func (h *BrollHandler) available(w http.ResponseWriter) bool {
	if h.store == nil {
		http.Error(w, "b-roll storage not configured", http.StatusServiceUnavailable)
		return false
	}
	return true
}

func (h *BrollHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	ch := h.channels.channelFor(r)
	names, err := h.store.List(r.Context(), ch.ChannelID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clips": names})
}

func (h *BrollHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		http.Error(w, "clip name is required", http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxClipSize))
	if err != nil {
		http.Error(w, "clip too large", http.StatusRequestEntityTooLarge)
		return
	}
	if len(body) == 0 {
		http.Error(w, "empty body", http.StatusBadRequest)
		return
	}
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ch := h.channels.channelFor(r)
	if err := h.store.Put(r.Context(), ch.ChannelID, name, body, contentType); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"name": name, "size": len(body)})
}

func (h *BrollHandler) HandleURL(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	ch := h.channels.channelFor(r)
	url, err := h.store.GetURL(r.Context(), ch.ChannelID, r.PathValue("name"))
	if errors.Is(err, brollstore.ErrNotFound) {
		http.Error(w, "clip not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"url": url})
}

func (h *BrollHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	ch := h.channels.channelFor(r)
	if err := h.store.Delete(r.Context(), ch.ChannelID, r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
