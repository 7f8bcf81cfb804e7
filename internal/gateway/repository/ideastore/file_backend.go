package ideastore

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
		var rows []Idea
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.IdeaID)
			if id == "" {
				continue
			}
			s.byID[id] = normalizeIdea(row)
		}
	})
}

func (s *Store) saveFile() {
	s.ensureLoadedFile()
	s.mu.RLock()
	rows := make([]Idea, 0, len(s.byID))
	for _, i := range s.byID {
		rows = append(rows, normalizeIdea(i))
	}
	s.mu.RUnlock()

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) getFile(ideaID string) (Idea, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(ideaID)
	if id == "" {
		return Idea{}, false
	}
	s.mu.RLock()
	i, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return Idea{}, false
	}
	return normalizeIdea(i), true
}

func (s *Store) putFile(i Idea) {
	s.ensureLoadedFile()
	normalized := normalizeIdea(i)
	if normalized.IdeaID == "" {
		return
	}
	if normalized.CreatedAt.IsZero() {
		normalized.CreatedAt = time.Now()
	}
	s.mu.Lock()
	s.byID[normalized.IdeaID] = normalized
	s.mu.Unlock()
	s.saveFile()
}

func (s *Store) updateFile(ideaID string, update func(*Idea)) (Idea, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(ideaID)
	if id == "" {
		return Idea{}, false
	}
	s.mu.Lock()
	i, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return Idea{}, false
	}
	update(&i)
	i.IdeaID = id
	i = normalizeIdea(i)
	s.byID[id] = i
	s.mu.Unlock()
	s.saveFile()
	return i, true
}

func (s *Store) deleteFile(ideaID string) bool {
	s.ensureLoadedFile()
	id := strings.TrimSpace(ideaID)
	if id == "" {
		return false
	}
	s.mu.Lock()
	_, ok := s.byID[id]
	delete(s.byID, id)
	s.mu.Unlock()
	if ok {
		s.saveFile()
	}
	return ok
}

func (s *Store) listByChannelFile(channelID string) []Idea {
	s.ensureLoadedFile()
	cid := strings.TrimSpace(channelID)
	s.mu.RLock()
	out := make([]Idea, 0, len(s.byID))
	for _, i := range s.byID {
		if i.Archived {
			continue
		}
		if cid != "" && strings.TrimSpace(i.ChannelID) != cid {
			continue
		}
		out = append(out, normalizeIdea(i))
	}
	s.mu.RUnlock()
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out
}
