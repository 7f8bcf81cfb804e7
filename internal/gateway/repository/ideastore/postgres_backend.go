package ideastore

import "strings"

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS ideas (
  idea_id TEXT PRIMARY KEY,
  channel_id TEXT NOT NULL DEFAULT '',
  bucket_id TEXT NOT NULL DEFAULT '',
  content TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT 'manual',
  archived BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_ideas_channel_id ON ideas (channel_id);
`)
	})
	return s.schemaErr
}

const ideaColumns = `idea_id, channel_id, bucket_id, content, source, archived, created_at`

func scanIdeaDB(row rowScanner) (Idea, bool) {
	var i Idea
	err := row.Scan(
		&i.IdeaID,
		&i.ChannelID,
		&i.BucketID,
		&i.Content,
		&i.Source,
		&i.Archived,
		&i.CreatedAt,
	)
	if err != nil {
		return Idea{}, false
	}
	return normalizeIdea(i), true
}

func (s *Store) getDB(ideaID string) (Idea, bool) {
	if err := s.ensureSchema(); err != nil {
		return Idea{}, false
	}
	id := strings.TrimSpace(ideaID)
	if id == "" {
		return Idea{}, false
	}
	row := s.db.QueryRow(`SELECT `+ideaColumns+` FROM ideas WHERE idea_id = $1`, id)
	return scanIdeaDB(row)
}

func (s *Store) putDB(i Idea) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	n := normalizeIdea(i)
	if n.IdeaID == "" {
		return
	}
	_, _ = s.db.Exec(`
INSERT INTO ideas (idea_id, channel_id, bucket_id, content, source, archived)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (idea_id)
DO UPDATE SET channel_id=EXCLUDED.channel_id,
  bucket_id=EXCLUDED.bucket_id,
  content=EXCLUDED.content,
  source=EXCLUDED.source,
  archived=EXCLUDED.archived`,
		n.IdeaID, n.ChannelID, n.BucketID, n.Content, n.Source, n.Archived)
}

func (s *Store) updateDB(ideaID string, update func(*Idea)) (Idea, bool) {
	if err := s.ensureSchema(); err != nil {
		return Idea{}, false
	}
	tx, err := s.db.Begin()
	if err != nil {
		return Idea{}, false
	}
	defer func() { _ = tx.Rollback() }()

	id := strings.TrimSpace(ideaID)
	row := tx.QueryRow(`SELECT `+ideaColumns+` FROM ideas WHERE idea_id = $1 FOR UPDATE`, id)
	cur, ok := scanIdeaDB(row)
	if !ok {
		return Idea{}, false
	}
	update(&cur)
	cur.IdeaID = id
	cur = normalizeIdea(cur)
	_, err = tx.Exec(`
UPDATE ideas
SET channel_id=$2, bucket_id=$3, content=$4, source=$5, archived=$6
WHERE idea_id=$1`,
		cur.IdeaID, cur.ChannelID, cur.BucketID, cur.Content, cur.Source, cur.Archived)
	if err != nil {
		return Idea{}, false
	}
	if err := tx.Commit(); err != nil {
		return Idea{}, false
	}
	return cur, true
}

func (s *Store) deleteDB(ideaID string) bool {
	if err := s.ensureSchema(); err != nil {
		return false
	}
	id := strings.TrimSpace(ideaID)
	if id == "" {
		return false
	}
	res, err := s.db.Exec(`DELETE FROM ideas WHERE idea_id = $1`, id)
	if err != nil {
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *Store) listByChannelDB(channelID string) []Idea {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	cid := strings.TrimSpace(channelID)
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE archived = FALSE ORDER BY created_at DESC`
	args := []any{}
	if cid != "" {
		query = `SELECT ` + ideaColumns + ` FROM ideas WHERE archived = FALSE AND channel_id = $1 ORDER BY created_at DESC`
		args = append(args, cid)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil
	}
	defer rows.Close()
	out := make([]Idea, 0, 32)
	for rows.Next() {
		if i, ok := scanIdeaDB(rows); ok {
			out = append(out, i)
		}
	}
	return out
}
