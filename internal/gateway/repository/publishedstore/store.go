package publishedstore

import (
	"database/sql"
	"os"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store keeps published-content records either in a JSON file (local dev) or
// in Postgres.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Published

	schemaOnce sync.Once
	schemaErr  error
}

func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Published),
	}
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("PUBLISHED_STORE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

func (s *Store) EnsureLoaded() {
	if s == nil {
		return
	}
	if s.db != nil {
		_ = s.ensureSchema()
		return
	}
	s.ensureLoadedFile()
}

func (s *Store) Save() {
	if s == nil || s.db != nil {
		return
	}
	s.saveFile()
}

func (s *Store) Put(p Published) {
	if s == nil {
		return
	}
	if s.db != nil {
		s.putDB(p)
		return
	}
	s.putFile(p)
}

// SetViews records the latest view count for one published item.
func (s *Store) SetViews(publishedID string, views int64) bool {
	if s == nil {
		return false
	}
	if s.db != nil {
		return s.setViewsDB(publishedID, views)
	}
	return s.setViewsFile(publishedID, views)
}

// ListByChannel returns a channel's published content, newest first.
func (s *Store) ListByChannel(channelID string) []Published {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.listByChannelDB(channelID)
	}
	return s.listByChannelFile(channelID)
}

// TopPerformers returns the channel's best published content by views.
func (s *Store) TopPerformers(channelID string, limit int) []Published {
	if s == nil {
		return nil
	}
	if limit <= 0 {
		limit = 5
	}
	if s.db != nil {
		return s.topPerformersDB(channelID, limit)
	}
	return s.topPerformersFile(channelID, limit)
}
