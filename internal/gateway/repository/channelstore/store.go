package channelstore

import (
	"database/sql"
	"os"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store keeps channels either in a JSON file (local dev) or in Postgres.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Channel

	schemaOnce sync.Once
	schemaErr  error
}

func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Channel),
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
	dsn := strings.TrimSpace(os.Getenv("CHANNEL_STORE_PG_DSN"))
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

func (s *Store) Get(channelID string) (Channel, bool) {
	if s == nil {
		return Channel{}, false
	}
	if s.db != nil {
		return s.getDB(channelID)
	}
	return s.getFile(channelID)
}

func (s *Store) GetByUser(userID string) (Channel, bool) {
	if s == nil {
		return Channel{}, false
	}
	if s.db != nil {
		return s.getByUserDB(userID)
	}
	return s.getByUserFile(userID)
}

func (s *Store) Put(c Channel) {
	if s == nil {
		return
	}
	if s.db != nil {
		s.putDB(c)
		return
	}
	s.putFile(c)
}

func (s *Store) Update(channelID string, update func(*Channel)) (Channel, bool) {
	if s == nil {
		return Channel{}, false
	}
	if s.db != nil {
		return s.updateDB(channelID, update)
	}
	return s.updateFile(channelID, update)
}
