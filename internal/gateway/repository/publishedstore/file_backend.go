package publishedstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []Published
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.PublishedID)
			if id == "" {
				continue
			}
			s.byID[id] = normalizePublished(row)
		}
	})
}

func (s *Store) saveFile() {
	s.ensureLoadedFile()
	s.mu.RLock()
	rows := make([]Published, 0, len(s.byID))
	for _, p := range s.byID {
		rows = append(rows, normalizePublished(p))
	}
	s.mu.RUnlock()

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) putFile(p Published) {
	s.ensureLoadedFile()
	normalized := normalizePublished(p)
	if normalized.PublishedID == "" {
		return
	}
	if normalized.PublishedAt.IsZero() {
		normalized.PublishedAt = time.Now()
	}
	s.mu.Lock()
	s.byID[normalized.PublishedID] = normalized
	s.mu.Unlock()
	s.saveFile()
}

func (s *Store) setViewsFile(publishedID string, views int64) bool {
	s.ensureLoadedFile()
	id := strings.TrimSpace(publishedID)
	if id == "" {
		return false
	}
	s.mu.Lock()
	p, ok := s.byID[id]
	if ok {
		p.Views = views
		s.byID[id] = p
	}
	s.mu.Unlock()
	if ok {
		s.saveFile()
	}
	return ok
}

func (s *Store) listByChannelFile(channelID string) []Published {
	s.ensureLoadedFile()
	cid := strings.TrimSpace(channelID)
	s.mu.RLock()
	out := make([]Published, 0, len(s.byID))
	for _, p := range s.byID {
		if cid != "" && strings.TrimSpace(p.ChannelID) != cid {
			continue
		}
		out = append(out, normalizePublished(p))
	}
	s.mu.RUnlock()
	sort.Slice(out, func(a, b int) bool { return out[a].PublishedAt.After(out[b].PublishedAt) })
	return out
}

func (s *Store) topPerformersFile(channelID string, limit int) []Published {
	out := s.listByChannelFile(channelID)
	sort.Slice(out, func(a, b int) bool { return out[a].Views > out[b].Views })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
