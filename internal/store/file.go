package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"resumeforge/internal/schema"
)

type fileData struct {
	Resumes  map[string]schema.Resume        `json:"resumes"`
	Tailored map[string]map[string]any       `json:"tailored"`
	Letters  map[string][]schema.CoverLetter `json:"letters"`
	Themes   map[string]schema.Theme         `json:"themes"`
}

func newFileData() fileData {
	return fileData{
		Resumes:  make(map[string]schema.Resume),
		Tailored: make(map[string]map[string]any),
		Letters:  make(map[string][]schema.CoverLetter),
		Themes:   make(map[string]schema.Theme),
	}
}

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var data fileData
		if err := json.Unmarshal(b, &data); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if data.Resumes != nil {
			s.data.Resumes = data.Resumes
		}
		if data.Tailored != nil {
			s.data.Tailored = data.Tailored
		}
		if data.Letters != nil {
			s.data.Letters = data.Letters
		}
		if data.Themes != nil {
			s.data.Themes = data.Themes
		}
	})
}

func (s *Store) saveFile() {
	s.mu.RLock()
	b, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) getResumeFile(id string) (schema.Resume, error) {
	s.ensureLoadedFile()
	id = strings.TrimSpace(id)
	s.mu.RLock()
	r, ok := s.data.Resumes[id]
	s.mu.RUnlock()
	if !ok {
		return schema.Resume{}, ErrNotFound
	}
	return r, nil
}

func (s *Store) putResumeFile(r schema.Resume) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	s.data.Resumes[r.ID] = r
	s.mu.Unlock()
	s.saveFile()
	return nil
}

func (s *Store) listResumesFile(userID string) ([]schema.Resume, error) {
	s.ensureLoadedFile()
	uid := strings.TrimSpace(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]schema.Resume, 0, len(s.data.Resumes))
	for _, r := range s.data.Resumes {
		if uid != "" && r.UserID != uid {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) saveTailoredFile(resumeID string, result map[string]any) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	s.data.Tailored[strings.TrimSpace(resumeID)] = result
	s.mu.Unlock()
	s.saveFile()
	return nil
}

func (s *Store) getTailoredFile(resumeID string) (map[string]any, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	out, ok := s.data.Tailored[strings.TrimSpace(resumeID)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return out, nil
}

func (s *Store) saveCoverLetterFile(cl schema.CoverLetter) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	letters := s.data.Letters[cl.ResumeID]
	replaced := false
	for i, existing := range letters {
		if existing.ID == cl.ID {
			letters[i] = cl
			replaced = true
			break
		}
	}
	if !replaced {
		// Newest first, matching the database ordering.
		letters = append([]schema.CoverLetter{cl}, letters...)
	}
	s.data.Letters[cl.ResumeID] = letters
	s.mu.Unlock()
	s.saveFile()
	return nil
}

func (s *Store) listCoverLettersFile(resumeID string) ([]schema.CoverLetter, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	letters := s.data.Letters[strings.TrimSpace(resumeID)]
	out := make([]schema.CoverLetter, len(letters))
	copy(out, letters)
	s.mu.RUnlock()
	return out, nil
}

func (s *Store) saveThemeFile(t schema.Theme) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	s.data.Themes[t.ID] = t
	s.mu.Unlock()
	s.saveFile()
	return nil
}

func (s *Store) listThemesFile(userID string) ([]schema.Theme, error) {
	s.ensureLoadedFile()
	uid := strings.TrimSpace(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]schema.Theme, 0, len(s.data.Themes))
	for _, t := range s.data.Themes {
		if uid != "" && t.UserID != uid {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}
