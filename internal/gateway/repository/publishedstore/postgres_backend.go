package publishedstore

import "strings"

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS published_content (
  published_id TEXT PRIMARY KEY,
  channel_id TEXT NOT NULL DEFAULT '',
  project_id TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL DEFAULT 'Untitled',
  platform TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  views BIGINT NOT NULL DEFAULT -1,
  published_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_published_channel_id ON published_content (channel_id);
`)
	})
	return s.schemaErr
}

const publishedColumns = `published_id, channel_id, project_id, title, platform, url, views, published_at`

func scanPublishedDB(row rowScanner) (Published, bool) {
	var p Published
	err := row.Scan(
		&p.PublishedID,
		&p.ChannelID,
		&p.ProjectID,
		&p.Title,
		&p.Platform,
		&p.URL,
		&p.Views,
		&p.PublishedAt,
	)
	if err != nil {
		return Published{}, false
	}
	return normalizePublished(p), true
}

func (s *Store) putDB(p Published) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	n := normalizePublished(p)
	if n.PublishedID == "" {
		return
	}
	_, _ = s.db.Exec(`
INSERT INTO published_content (published_id, channel_id, project_id, title, platform, url, views)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (published_id)
DO UPDATE SET channel_id=EXCLUDED.channel_id,
  project_id=EXCLUDED.project_id,
  title=EXCLUDED.title,
  platform=EXCLUDED.platform,
  url=EXCLUDED.url,
  views=EXCLUDED.views`,
		n.PublishedID, n.ChannelID, n.ProjectID, n.Title, n.Platform, n.URL, n.Views)
}

func (s *Store) setViewsDB(publishedID string, views int64) bool {
	if err := s.ensureSchema(); err != nil {
		return false
	}
	id := strings.TrimSpace(publishedID)
	if id == "" {
		return false
	}
	res, err := s.db.Exec(`UPDATE published_content SET views = $2 WHERE published_id = $1`, id, views)
	if err != nil {
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *Store) listByChannelDB(channelID string) []Published {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	cid := strings.TrimSpace(channelID)
	query := `SELECT ` + publishedColumns + ` FROM published_content ORDER BY published_at DESC`
	args := []any{}
	if cid != "" {
		query = `SELECT ` + publishedColumns + ` FROM published_content WHERE channel_id = $1 ORDER BY published_at DESC`
		args = append(args, cid)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil
	}
	defer rows.Close()
	out := make([]Published, 0, 32)
	for rows.Next() {
		if p, ok := scanPublishedDB(rows); ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) topPerformersDB(channelID string, limit int) []Published {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	cid := strings.TrimSpace(channelID)
	rows, err := s.db.Query(`
SELECT `+publishedColumns+`
FROM published_content
WHERE channel_id = $1
ORDER BY views DESC
LIMIT $2`, cid, limit)
	if err != nil {
		return nil
	}
	defer rows.Close()
	out := make([]Published, 0, limit)
	for rows.Next() {
		if p, ok := scanPublishedDB(rows); ok {
			out = append(out, p)
		}
	}
	return out
}
