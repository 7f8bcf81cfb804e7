package projectstore

import (
	"database/sql"
	"encoding/json"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store keeps projects either in a JSON file (local dev) or in Postgres.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Project

	schemaOnce sync.Once
	schemaErr  error

	outputCache *lru.Cache[string, []ContentOutput]
}

func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Project),
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
	cache, err := lru.New[string, []ContentOutput](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, outputCache: cache}, nil
}

func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("PROJECT_STORE_PG_DSN"))
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

func (s *Store) Get(projectID string) (Project, bool) {
	if s == nil {
		return Project{}, false
	}
	if s.db != nil {
		return s.getDB(projectID)
	}
	return s.getFile(projectID)
}

func (s *Store) Put(p Project) {
	if s == nil {
		return
	}
	if s.db != nil {
		s.putDB(p)
		return
	}
	s.putFile(p)
}

func (s *Store) Update(projectID string, update func(*Project)) (Project, bool) {
	if s == nil {
		return Project{}, false
	}
	if s.db != nil {
		return s.updateDB(projectID, update)
	}
	return s.updateFile(projectID, update)
}

func (s *Store) Delete(projectID string) bool {
	if s == nil {
		return false
	}
	if s.db != nil {
		return s.deleteDB(projectID)
	}
	return s.deleteFile(projectID)
}

func (s *Store) ListByChannel(channelID string) []Project {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.listByChannelDB(channelID)
	}
	return s.listByChannelFile(channelID)
}

// SaveGraph replaces the stored canvas graph wholesale (last write wins).
func (s *Store) SaveGraph(projectID string, graph json.RawMessage) error {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.saveGraphDB(projectID, graph)
	}
	return s.saveGraphFile(projectID, graph)
}

// LoadGraph returns the stored canvas graph; ok is false when the project has
// no graph yet.
func (s *Store) LoadGraph(projectID string) (json.RawMessage, bool) {
	if s == nil {
		return nil, false
	}
	if s.db != nil {
		return s.loadGraphDB(projectID)
	}
	return s.loadGraphFile(projectID)
}

func (s *Store) AddOutput(out ContentOutput) error {
	if s == nil {
		return nil
	}
	if s.db != nil {
		err := s.addOutputDB(out)
		if err == nil && s.outputCache != nil {
			s.outputCache.Remove(out.ProjectID)
		}
		return err
	}
	return s.addOutputFile(out)
}

func (s *Store) ListOutputs(projectID string) ([]ContentOutput, error) {
	if s == nil {
		return nil, nil
	}
	if s.db != nil {
		if s.outputCache != nil {
			if cached, ok := s.outputCache.Get(projectID); ok {
				return cached, nil
			}
		}
		outputs, err := s.listOutputsDB(projectID)
		if err != nil {
			return nil, err
		}
		if s.outputCache != nil {
			s.outputCache.Add(projectID, outputs)
		}
		return outputs, nil
	}
	return s.listOutputsFile(projectID)
}
