package channelstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []Channel
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.ChannelID)
			if id == "" {
				continue
			}
			s.byID[id] = normalizeChannel(row)
		}
	})
}

func (s *Store) saveFile() {
	s.ensureLoadedFile()
	s.mu.RLock()
	rows := make([]Channel, 0, len(s.byID))
	for _, c := range s.byID {
		rows = append(rows, normalizeChannel(c))
	}
	s.mu.RUnlock()

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) getFile(channelID string) (Channel, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(channelID)
	if id == "" {
		return Channel{}, false
	}
	s.mu.RLock()
	c, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return Channel{}, false
	}
	return normalizeChannel(c), true
}

func (s *Store) getByUserFile(userID string) (Channel, bool) {
	s.ensureLoadedFile()
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return Channel{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.byID {
		if strings.TrimSpace(c.UserID) == uid {
			return normalizeChannel(c), true
		}
	}
	return Channel{}, false
}

func (s *Store) putFile(c Channel) {
	s.ensureLoadedFile()
	normalized := normalizeChannel(c)
	if normalized.ChannelID == "" {
		return
	}
	s.mu.Lock()
	s.byID[normalized.ChannelID] = normalized
	s.mu.Unlock()
	s.saveFile()
}

func (s *Store) updateFile(channelID string, update func(*Channel)) (Channel, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(channelID)
	if id == "" {
		return Channel{}, false
	}
	s.mu.Lock()
	c, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return Channel{}, false
	}
	update(&c)
	c.ChannelID = id
	c = normalizeChannel(c)
	s.byID[id] = c
	s.mu.Unlock()
	s.saveFile()
	return c, true
}
