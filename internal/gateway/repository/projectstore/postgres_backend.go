package projectstore

import (
	"encoding/json"
	"strings"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS projects (
  project_id TEXT PRIMARY KEY,
  channel_id TEXT NOT NULL DEFAULT '',
  content TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'draft',
  sequence_label TEXT NOT NULL DEFAULT '',
  story_beat TEXT NOT NULL DEFAULT '',
  summary TEXT NOT NULL DEFAULT '',
  graph_data JSONB,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_projects_channel_id ON projects (channel_id);

CREATE TABLE IF NOT EXISTS content_outputs (
  id SERIAL PRIMARY KEY,
  project_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  content TEXT NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_content_outputs_project_id ON content_outputs (project_id);
`)
	})
	return s.schemaErr
}

const projectColumns = `project_id, channel_id, content, status, sequence_label, story_beat, summary, graph_data, created_at, updated_at`

func scanProjectDB(row rowScanner) (Project, bool) {
	var p Project
	var graph []byte
	err := row.Scan(
		&p.ProjectID,
		&p.ChannelID,
		&p.Content,
		&p.Status,
		&p.SequenceLabel,
		&p.StoryBeat,
		&p.Summary,
		&graph,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return Project{}, false
	}
	if len(graph) > 0 {
		p.GraphData = json.RawMessage(graph)
	}
	return normalizeProject(p), true
}

func (s *Store) getDB(projectID string) (Project, bool) {
	if err := s.ensureSchema(); err != nil {
		return Project{}, false
	}
	id := strings.TrimSpace(projectID)
	if id == "" {
		return Project{}, false
	}
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE project_id = $1`, id)
	return scanProjectDB(row)
}

func (s *Store) putDB(p Project) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	n := normalizeProject(p)
	if n.ProjectID == "" {
		return
	}
	var graph any
	if len(n.GraphData) > 0 {
		graph = []byte(n.GraphData)
	}
	_, _ = s.db.Exec(`
INSERT INTO projects (
  project_id, channel_id, content, status, sequence_label, story_beat, summary, graph_data
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (project_id)
DO UPDATE SET channel_id=EXCLUDED.channel_id,
  content=EXCLUDED.content,
  status=EXCLUDED.status,
  sequence_label=EXCLUDED.sequence_label,
  story_beat=EXCLUDED.story_beat,
  summary=EXCLUDED.summary,
  graph_data=EXCLUDED.graph_data,
  updated_at=NOW()`,
		n.ProjectID, n.ChannelID, n.Content, n.Status, n.SequenceLabel, n.StoryBeat, n.Summary, graph)
}

func (s *Store) updateDB(projectID string, update func(*Project)) (Project, bool) {
	if err := s.ensureSchema(); err != nil {
		return Project{}, false
	}
	tx, err := s.db.Begin()
	if err != nil {
		return Project{}, false
	}
	defer func() { _ = tx.Rollback() }()

	id := strings.TrimSpace(projectID)
	row := tx.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE project_id = $1 FOR UPDATE`, id)
	cur, ok := scanProjectDB(row)
	if !ok {
		return Project{}, false
	}
	update(&cur)
	cur.ProjectID = id
	cur = normalizeProject(cur)
	var graph any
	if len(cur.GraphData) > 0 {
		graph = []byte(cur.GraphData)
	}
	_, err = tx.Exec(`
UPDATE projects
SET channel_id=$2, content=$3, status=$4, sequence_label=$5, story_beat=$6, summary=$7, graph_data=$8, updated_at=NOW()
WHERE project_id=$1`,
		cur.ProjectID, cur.ChannelID, cur.Content, cur.Status, cur.SequenceLabel, cur.StoryBeat, cur.Summary, graph)
	if err != nil {
		return Project{}, false
	}
	if err := tx.Commit(); err != nil {
		return Project{}, false
	}
	return cur, true
}

func (s *Store) deleteDB(projectID string) bool {
	if err := s.ensureSchema(); err != nil {
		return false
	}
	id := strings.TrimSpace(projectID)
	if id == "" {
		return false
	}
	res, err := s.db.Exec(`DELETE FROM projects WHERE project_id = $1`, id)
	if err != nil {
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *Store) listByChannelDB(channelID string) []Project {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	cid := strings.TrimSpace(channelID)
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	args := []any{}
	if cid != "" {
		query = `SELECT ` + projectColumns + ` FROM projects WHERE channel_id = $1 ORDER BY created_at DESC`
		args = append(args, cid)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil
	}
	defer rows.Close()
	out := make([]Project, 0, 32)
	for rows.Next() {
		if p, ok := scanProjectDB(rows); ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) saveGraphDB(projectID string, graph json.RawMessage) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	id := strings.TrimSpace(projectID)
	if id == "" {
		return nil
	}
	_, err := s.db.Exec(`
INSERT INTO projects (project_id, graph_data)
VALUES ($1, $2)
ON CONFLICT (project_id)
DO UPDATE SET graph_data=EXCLUDED.graph_data, updated_at=NOW()`,
		id, []byte(graph))
	return err
}

func (s *Store) loadGraphDB(projectID string) (json.RawMessage, bool) {
	if err := s.ensureSchema(); err != nil {
		return nil, false
	}
	id := strings.TrimSpace(projectID)
	if id == "" {
		return nil, false
	}
	var graph []byte
	err := s.db.QueryRow(`SELECT graph_data FROM projects WHERE project_id = $1`, id).Scan(&graph)
	if err != nil || len(graph) == 0 {
		return nil, false
	}
	return json.RawMessage(graph), true
}

func (s *Store) addOutputDB(out ContentOutput) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
INSERT INTO content_outputs (project_id, kind, content, created_at)
VALUES ($1, $2, $3, NOW())`,
		out.ProjectID, out.Kind, out.Content)
	return err
}

func (s *Store) listOutputsDB(projectID string) ([]ContentOutput, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	pid := strings.TrimSpace(projectID)
	if pid == "" {
		return nil, nil
	}
	rows, err := s.db.Query(`
SELECT id, project_id, kind, content, created_at
FROM content_outputs
WHERE project_id = $1
ORDER BY created_at DESC`, pid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContentOutput
	for rows.Next() {
		var o ContentOutput
		if err := rows.Scan(&o.ID, &o.ProjectID, &o.Kind, &o.Content, &o.CreatedAt); err != nil {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}
