package ideastore

import (
	"database/sql"
	"os"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store keeps the idea bank either in a JSON file (local dev) or in Postgres.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Idea

	schemaOnce sync.Once
	schemaErr  error
}

func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Idea),
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
	dsn := strings.TrimSpace(os.Getenv("IDEA_STORE_PG_DSN"))
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

func (s *Store) Get(ideaID string) (Idea, bool) {
	if s == nil {
		return Idea{}, false
	}
	if s.db != nil {
		return s.getDB(ideaID)
	}
	return s.getFile(ideaID)
}

func (s *Store) Put(i Idea) {
	if s == nil {
		return
	}
	if s.db != nil {
		s.putDB(i)
		return
	}
	s.putFile(i)
}

func (s *Store) Update(ideaID string, update func(*Idea)) (Idea, bool) {
	if s == nil {
		return Idea{}, false
	}
	if s.db != nil {
		return s.updateDB(ideaID, update)
	}
	return s.updateFile(ideaID, update)
}

func (s *Store) Delete(ideaID string) bool {
	if s == nil {
		return false
	}
	if s.db != nil {
		return s.deleteDB(ideaID)
	}
	return s.deleteFile(ideaID)
}

// ListByChannel returns non-archived ideas for a channel, newest first.
func (s *Store) ListByChannel(channelID string) []Idea {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.listByChannelDB(channelID)
	}
	return s.listByChannelFile(channelID)
}
