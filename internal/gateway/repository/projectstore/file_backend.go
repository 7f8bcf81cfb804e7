package projectstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []Project
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.ProjectID)
			if id == "" {
				continue
			}
			s.byID[id] = normalizeProject(row)
		}
	})
}

func (s *Store) saveFile() {
	s.ensureLoadedFile()
	s.mu.RLock()
	rows := make([]Project, 0, len(s.byID))
	for _, p := range s.byID {
		rows = append(rows, normalizeProject(p))
	}
	s.mu.RUnlock()

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) getFile(projectID string) (Project, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(projectID)
	if id == "" {
		return Project{}, false
	}
	s.mu.RLock()
	p, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return Project{}, false
	}
	return normalizeProject(p), true
}

func (s *Store) putFile(p Project) {
	s.ensureLoadedFile()
	normalized := normalizeProject(p)
	if normalized.ProjectID == "" {
		return
	}
	if normalized.CreatedAt.IsZero() {
		normalized.CreatedAt = time.Now()
	}
	normalized.UpdatedAt = time.Now()
	s.mu.Lock()
	s.byID[normalized.ProjectID] = normalized
	s.mu.Unlock()
	s.saveFile()
}

func (s *Store) updateFile(projectID string, update func(*Project)) (Project, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(projectID)
	if id == "" {
		return Project{}, false
	}
	s.mu.Lock()
	p, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return Project{}, false
	}
	update(&p)
	p.ProjectID = id
	p.UpdatedAt = time.Now()
	p = normalizeProject(p)
	s.byID[id] = p
	s.mu.Unlock()
	s.saveFile()
	return p, true
}

func (s *Store) deleteFile(projectID string) bool {
	s.ensureLoadedFile()
	id := strings.TrimSpace(projectID)
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

func (s *Store) listByChannelFile(channelID string) []Project {
	s.ensureLoadedFile()
	cid := strings.TrimSpace(channelID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, 0, len(s.byID))
	for _, p := range s.byID {
		if cid != "" && strings.TrimSpace(p.ChannelID) != cid {
			continue
		}
		out = append(out, normalizeProject(p))
	}
	return out
}

func (s *Store) saveGraphFile(projectID string, graph json.RawMessage) error {
	_, ok := s.updateFile(projectID, func(p *Project) {
		p.GraphData = append(json.RawMessage(nil), graph...)
	})
	if !ok {
		// First save for a project created elsewhere; keep the graph anyway.
		s.putFile(Project{ProjectID: projectID, GraphData: graph})
	}
	return nil
}

func (s *Store) loadGraphFile(projectID string) (json.RawMessage, bool) {
	p, ok := s.getFile(projectID)
	if !ok || len(p.GraphData) == 0 {
		return nil, false
	}
	return p.GraphData, true
}

func (s *Store) addOutputFile(out ContentOutput) error {
	s.ensureLoadedFile()
	pid := strings.TrimSpace(out.ProjectID)
	if pid == "" {
		return nil
	}
	s.mu.Lock()
	p, ok := s.byID[pid]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	out.CreatedAt = time.Now()
	out.ID = len(p.Outputs) + 1
	p.Outputs = append(p.Outputs, out)
	s.byID[pid] = p
	s.mu.Unlock()
	s.saveFile()
	return nil
}

func (s *Store) listOutputsFile(projectID string) ([]ContentOutput, error) {
	s.ensureLoadedFile()
	pid := strings.TrimSpace(projectID)
	if pid == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[pid]
	if !ok {
		return nil, nil
	}
	// Newest first, matching the DB ordering.
	out := make([]ContentOutput, 0, len(p.Outputs))
	for i := len(p.Outputs) - 1; i >= 0; i-- {
		out = append(out, p.Outputs[i])
	}
	return out, nil
}
