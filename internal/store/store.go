// Package store persists resumes, tailored results, cover letters, and
// themes. It runs against Postgres when a DSN is configured and falls back
// to a single JSON file otherwise, so local runs need no database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"resumeforge/internal/schema"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("store: not found")

type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	data     fileData

	schemaOnce sync.Once
	schemaErr  error

	letterCache *lru.Cache[string, []schema.CoverLetter]
}

// New returns a file-backed store rooted at path.
func New(path string) *Store {
	return &Store{path: path, data: newFileData()}
}

// NewPostgres returns a Postgres-backed store. The connection is verified
// up front so a bad DSN surfaces at startup, not on first request.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, []schema.CoverLetter](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, letterCache: cache}, nil
}

// NewFromEnv picks the backend from DATABASE_URL, falling back to the file
// store when the variable is empty or the database is unreachable.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) GetResume(ctx context.Context, id string) (schema.Resume, error) {
	if s.db != nil {
		return s.getResumeDB(ctx, id)
	}
	return s.getResumeFile(id)
}

func (s *Store) PutResume(ctx context.Context, r schema.Resume) error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("store: resume needs an id")
	}
	if s.db != nil {
		return s.putResumeDB(ctx, r)
	}
	return s.putResumeFile(r)
}

func (s *Store) ListResumes(ctx context.Context, userID string) ([]schema.Resume, error) {
	if s.db != nil {
		return s.listResumesDB(ctx, userID)
	}
	return s.listResumesFile(userID)
}

// SaveTailored records one tailoring run's assembled document keyed by the
// source resume; later runs against the same resume overwrite it.
func (s *Store) SaveTailored(ctx context.Context, resumeID string, result map[string]any) error {
	if s.db != nil {
		return s.saveTailoredDB(ctx, resumeID, result)
	}
	return s.saveTailoredFile(resumeID, result)
}

func (s *Store) GetTailored(ctx context.Context, resumeID string) (map[string]any, error) {
	if s.db != nil {
		return s.getTailoredDB(ctx, resumeID)
	}
	return s.getTailoredFile(resumeID)
}

func (s *Store) SaveCoverLetter(ctx context.Context, cl schema.CoverLetter) error {
	if s.db != nil {
		err := s.saveCoverLetterDB(ctx, cl)
		if err == nil && s.letterCache != nil {
			s.letterCache.Remove(cl.ResumeID)
		}
		return err
	}
	return s.saveCoverLetterFile(cl)
}

func (s *Store) ListCoverLetters(ctx context.Context, resumeID string) ([]schema.CoverLetter, error) {
	if s.db != nil {
		if s.letterCache != nil {
			if cached, ok := s.letterCache.Get(resumeID); ok {
				return cached, nil
			}
		}
		letters, err := s.listCoverLettersDB(ctx, resumeID)
		if err != nil {
			return nil, err
		}
		if s.letterCache != nil {
			s.letterCache.Add(resumeID, letters)
		}
		return letters, nil
	}
	return s.listCoverLettersFile(resumeID)
}

func (s *Store) SaveTheme(ctx context.Context, t schema.Theme) error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("store: theme needs an id")
	}
	if s.db != nil {
		return s.saveThemeDB(ctx, t)
	}
	return s.saveThemeFile(t)
}

func (s *Store) ListThemes(ctx context.Context, userID string) ([]schema.Theme, error) {
	if s.db != nil {
		return s.listThemesDB(ctx, userID)
	}
	return s.listThemesFile(userID)
}
