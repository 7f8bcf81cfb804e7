package channelstore

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
CREATE TABLE IF NOT EXISTS channels (
  channel_id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL DEFAULT 'My channel',
  core_audience TEXT NOT NULL DEFAULT '',
  goals TEXT NOT NULL DEFAULT '',
  buckets JSONB NOT NULL DEFAULT '[]',
  inspiration_notes JSONB NOT NULL DEFAULT '[]',
  hooks_path TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_channels_user_id ON channels (user_id);
`)
	})
	return s.schemaErr
}

func scanChannelDB(row rowScanner) (Channel, bool) {
	var c Channel
	var buckets, notes []byte
	err := row.Scan(
		&c.ChannelID,
		&c.UserID,
		&c.Name,
		&c.CoreAudience,
		&c.Goals,
		&buckets,
		&notes,
		&c.HooksPath,
		&c.CreatedAt,
	)
	if err != nil {
		return Channel{}, false
	}
	_ = json.Unmarshal(buckets, &c.Buckets)
	_ = json.Unmarshal(notes, &c.InspirationNotes)
	return normalizeChannel(c), true
}

const channelColumns = `channel_id, user_id, name, core_audience, goals, buckets, inspiration_notes, hooks_path, created_at`

func (s *Store) getDB(channelID string) (Channel, bool) {
	if err := s.ensureSchema(); err != nil {
		return Channel{}, false
	}
	id := strings.TrimSpace(channelID)
	if id == "" {
		return Channel{}, false
	}
	row := s.db.QueryRow(`SELECT `+channelColumns+` FROM channels WHERE channel_id = $1`, id)
	return scanChannelDB(row)
}

func (s *Store) getByUserDB(userID string) (Channel, bool) {
	if err := s.ensureSchema(); err != nil {
		return Channel{}, false
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return Channel{}, false
	}
	row := s.db.QueryRow(`SELECT `+channelColumns+` FROM channels WHERE user_id = $1 LIMIT 1`, uid)
	return scanChannelDB(row)
}

func (s *Store) putDB(c Channel) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	n := normalizeChannel(c)
	if n.ChannelID == "" {
		return
	}
	buckets, _ := json.Marshal(n.Buckets)
	notes, _ := json.Marshal(n.InspirationNotes)
	_, _ = s.db.Exec(`
INSERT INTO channels (
  channel_id, user_id, name, core_audience, goals, buckets, inspiration_notes, hooks_path
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (channel_id)
DO UPDATE SET user_id=EXCLUDED.user_id,
  name=EXCLUDED.name,
  core_audience=EXCLUDED.core_audience,
  goals=EXCLUDED.goals,
  buckets=EXCLUDED.buckets,
  inspiration_notes=EXCLUDED.inspiration_notes,
  hooks_path=EXCLUDED.hooks_path`,
		n.ChannelID, n.UserID, n.Name, n.CoreAudience, n.Goals, buckets, notes, n.HooksPath)
}

func (s *Store) updateDB(channelID string, update func(*Channel)) (Channel, bool) {
	if err := s.ensureSchema(); err != nil {
		return Channel{}, false
	}
	tx, err := s.db.Begin()
	if err != nil {
		return Channel{}, false
	}
	defer func() { _ = tx.Rollback() }()

	id := strings.TrimSpace(channelID)
	row := tx.QueryRow(`SELECT `+channelColumns+` FROM channels WHERE channel_id = $1 FOR UPDATE`, id)
	cur, ok := scanChannelDB(row)
	if !ok {
		return Channel{}, false
	}
	update(&cur)
	cur.ChannelID = id
	cur = normalizeChannel(cur)
	buckets, _ := json.Marshal(cur.Buckets)
	notes, _ := json.Marshal(cur.InspirationNotes)
	_, err = tx.Exec(`
UPDATE channels
SET user_id=$2, name=$3, core_audience=$4, goals=$5, buckets=$6, inspiration_notes=$7, hooks_path=$8
WHERE channel_id=$1`,
		cur.ChannelID, cur.UserID, cur.Name, cur.CoreAudience, cur.Goals, buckets, notes, cur.HooksPath)
	if err != nil {
		return Channel{}, false
	}
	if err := tx.Commit(); err != nil {
		return Channel{}, false
	}
	return cur, true
}
