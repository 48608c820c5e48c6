package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"resumeforge/internal/schema"
)

// Documents are stored as jsonb rows keyed by id. The structured columns
// exist only for lookups; the payload stays the document itself, so schema
// evolution never needs a migration per field.
func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS resumes (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL DEFAULT '',
  payload JSONB NOT NULL,
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_resumes_user_id ON resumes (user_id);

CREATE TABLE IF NOT EXISTS tailored_resumes (
  resume_id TEXT PRIMARY KEY,
  payload JSONB NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS cover_letters (
  id TEXT PRIMARY KEY,
  resume_id TEXT NOT NULL,
  payload JSONB NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_cover_letters_resume_id ON cover_letters (resume_id);

CREATE TABLE IF NOT EXISTS themes (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL DEFAULT '',
  payload JSONB NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_themes_user_id ON themes (user_id);
`)
	})
	return s.schemaErr
}

func (s *Store) getResumeDB(ctx context.Context, id string) (schema.Resume, error) {
	if err := s.ensureSchema(); err != nil {
		return schema.Resume{}, err
	}
	id = strings.TrimSpace(id)
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM resumes WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Resume{}, ErrNotFound
	}
	if err != nil {
		return schema.Resume{}, err
	}
	var r schema.Resume
	if err := json.Unmarshal(payload, &r); err != nil {
		return schema.Resume{}, err
	}
	return r, nil
}

func (s *Store) putResumeDB(ctx context.Context, r schema.Resume) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO resumes (id, user_id, payload, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (id)
DO UPDATE SET user_id=EXCLUDED.user_id, payload=EXCLUDED.payload, updated_at=NOW()`,
		r.ID, r.UserID, payload)
	return err
}

func (s *Store) listResumesDB(ctx context.Context, userID string) ([]schema.Resume, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	uid := strings.TrimSpace(userID)
	var (
		rows *sql.Rows
		err  error
	)
	if uid == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT payload FROM resumes ORDER BY updated_at DESC`)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT payload FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`, uid)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schema.Resume
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			continue
		}
		var r schema.Resume
		if err := json.Unmarshal(payload, &r); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) saveTailoredDB(ctx context.Context, resumeID string, result map[string]any) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO tailored_resumes (resume_id, payload, created_at)
VALUES ($1, $2, NOW())
ON CONFLICT (resume_id)
DO UPDATE SET payload=EXCLUDED.payload, created_at=NOW()`,
		strings.TrimSpace(resumeID), payload)
	return err
}

func (s *Store) getTailoredDB(ctx context.Context, resumeID string) (map[string]any, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM tailored_resumes WHERE resume_id = $1`,
		strings.TrimSpace(resumeID)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) saveCoverLetterDB(ctx context.Context, cl schema.CoverLetter) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	payload, err := json.Marshal(cl)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO cover_letters (id, resume_id, payload, created_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (id)
DO UPDATE SET payload=EXCLUDED.payload`,
		cl.ID, cl.ResumeID, payload)
	return err
}

func (s *Store) listCoverLettersDB(ctx context.Context, resumeID string) ([]schema.CoverLetter, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT payload FROM cover_letters
WHERE resume_id = $1
ORDER BY created_at DESC`, strings.TrimSpace(resumeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schema.CoverLetter
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			continue
		}
		var cl schema.CoverLetter
		if err := json.Unmarshal(payload, &cl); err != nil {
			continue
		}
		out = append(out, cl)
	}
	return out, rows.Err()
}

func (s *Store) saveThemeDB(ctx context.Context, t schema.Theme) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO themes (id, user_id, payload, created_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (id)
DO UPDATE SET payload=EXCLUDED.payload`,
		t.ID, t.UserID, payload)
	return err
}

func (s *Store) listThemesDB(ctx context.Context, userID string) ([]schema.Theme, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT payload FROM themes
WHERE user_id = $1 OR $1 = ''
ORDER BY created_at DESC`, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schema.Theme
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			continue
		}
		var t schema.Theme
		if err := json.Unmarshal(payload, &t); err != nil {
			continue
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
