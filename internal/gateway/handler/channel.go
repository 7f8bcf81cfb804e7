package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelforge/internal/creative"
	"reelforge/internal/gateway/middleware"
	"reelforge/internal/gateway/repository/channelstore"
)

// ChannelHandler serves the creator's channel profile. Every user owns exactly
// one channel; it is created lazily on first access.
type ChannelHandler struct {
	channels *channelstore.Store
	creative *creative.Service
}

func NewChannelHandler(channels *channelstore.Store, svc *creative.Service) *ChannelHandler {
	return &ChannelHandler{channels: channels, creative: svc}
}

func (h *ChannelHandler) channelFor(r *http.Request) channelstore.Channel {
	userID := middleware.UserID(r.Context())
	if ch, ok := h.channels.GetByUser(userID); ok {
		return ch
	}
	ch := channelstore.Channel{
		ChannelID: uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	h.channels.Put(ch)
	return ch
}

func (h *ChannelHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.channelFor(r))
}

type updateChannelRequest struct {
	Name             *string  `json:"name"`
	CoreAudience     *string  `json:"core_audience"`
	Goals            *string  `json:"goals"`
	InspirationNotes []string `json:"inspiration_notes"`
	Buckets          []struct {
		BucketID    string `json:"bucket_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"buckets"`
}

func (h *ChannelHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	ch := h.channelFor(r)
	updated, _ := h.channels.Update(ch.ChannelID, func(c *channelstore.Channel) {
		if req.Name != nil {
			c.Name = strings.TrimSpace(*req.Name)
		}
		if req.CoreAudience != nil {
			c.CoreAudience = strings.TrimSpace(*req.CoreAudience)
		}
		if req.Goals != nil {
			c.Goals = strings.TrimSpace(*req.Goals)
		}
		if req.InspirationNotes != nil {
			c.InspirationNotes = req.InspirationNotes
		}
		if req.Buckets != nil {
			buckets := make([]channelstore.Bucket, 0, len(req.Buckets))
			for _, b := range req.Buckets {
				if b.BucketID == "" {
					b.BucketID = uuid.NewString()
				}
				buckets = append(buckets, channelstore.Bucket{
					BucketID:    b.BucketID,
					Name:        b.Name,
					Description: b.Description,
				})
			}
			c.Buckets = buckets
		}
	})
	// Profile edits change the prompt context, so the cached one is stale.
	h.creative.InvalidateContext(ch.ChannelID)
	writeJSON(w, http.StatusOK, updated)
}

type suggestRequest struct {
	Mode string `json:"mode"`
}

// HandleSuggest asks the model for goal or bucket suggestions seeded from the
// current profile. Mode is "goals", "buckets" or "both".
func (h *ChannelHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	mode := strings.TrimSpace(req.Mode)
	if mode == "" {
		mode = "both"
	}
	ch := h.channelFor(r)
	current := make([]creative.BucketSuggestion, 0, len(ch.Buckets))
	for _, b := range ch.Buckets {
		current = append(current, creative.BucketSuggestion{Name: b.Name, Description: b.Description})
	}
	out, err := h.creative.SuggestGoalsAndBuckets(r.Context(), mode, ch.Name, ch.CoreAudience, ch.Goals, current)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
