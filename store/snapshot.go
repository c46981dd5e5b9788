package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andrejsstepanovs/projtrack/models"
)

// ErrParseFailure is returned when an import payload is not a list of project records.
var ErrParseFailure = errors.New("malformed project data")

// record is the accepted shape of a project on ingress. Pointers tell a missing
// or null field apart from an empty one.
type record struct {
	ID          *int64  `json:"id"`
	Name        *string `json:"name"`
	NameEn      *string `json:"nameEn"`
	Category    *string `json:"category"`
	Subcategory *string `json:"subcategory"`
	Status      *string `json:"status"`
	Repo        *string `json:"repo"`
	WebURL      *string `json:"web_url"`
	Notes       *string `json:"notes"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

type document struct {
	Version     string             `json:"version"`
	LastUpdated string             `json:"lastUpdated"`
	Projects    *[]json.RawMessage `json:"projects"`
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func (r record) project(i int) (models.Project, error) {
	if r.ID == nil {
		return models.Project{}, fmt.Errorf("%w: record %d has no id", ErrParseFailure, i)
	}
	if r.Name == nil {
		return models.Project{}, fmt.Errorf("%w: record %d has no name", ErrParseFailure, i)
	}
	status, ok := models.ParseStatus(str(r.Status))
	if !ok {
		return models.Project{}, fmt.Errorf("%w: record %d has unknown status %q", ErrParseFailure, i, str(r.Status))
	}

	return models.Project{
		ID:          *r.ID,
		Name:        *r.Name,
		NameEn:      str(r.NameEn),
		Category:    str(r.Category),
		Subcategory: str(r.Subcategory),
		Status:      status,
		Repo:        str(r.Repo),
		WebURL:      str(r.WebURL),
		Notes:       str(r.Notes),
		StartDate:   str(r.StartDate),
		EndDate:     str(r.EndDate),
	}, nil
}

func decodeRecords(items []json.RawMessage) ([]models.Project, error) {
	projects := make([]models.Project, 0, len(items))
	ids := make(map[int64]bool, len(items))
	for i, item := range items {
		var r record
		if err := json.Unmarshal(item, &r); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrParseFailure, i, err)
		}
		p, err := r.project(i)
		if err != nil {
			return nil, err
		}
		if ids[p.ID] {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrParseFailure, p.ID)
		}
		ids[p.ID] = true
		projects = append(projects, p)
	}
	return projects, nil
}

// decodeProjects accepts either a bare project array or a full snapshot document.
func decodeProjects(raw []byte) ([]models.Project, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrParseFailure)
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		return decodeRecords(items)
	case '{':
		snap, err := decodeSnapshot(raw)
		if err != nil {
			return nil, err
		}
		return snap.Projects, nil
	}
	return nil, fmt.Errorf("%w: expected a project list", ErrParseFailure)
}

// decodeSnapshot validates a {version, lastUpdated, projects} document.
func decodeSnapshot(raw []byte) (models.Snapshot, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	if doc.Projects == nil {
		return models.Snapshot{}, fmt.Errorf("%w: snapshot has no projects list", ErrParseFailure)
	}

	projects, err := decodeRecords(*doc.Projects)
	if err != nil {
		return models.Snapshot{}, err
	}

	return models.Snapshot{
		Version:     doc.Version,
		LastUpdated: doc.LastUpdated,
		Projects:    projects,
	}, nil
}

// Export renders the current list as indented JSON.
func (s *Store) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s.projects, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode projects: %w", err)
	}
	return data, nil
}

// Import replaces the whole list with the records in raw. On error the current list is kept.
func (s *Store) Import(raw []byte) error {
	projects, err := decodeProjects(raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(projects)
}

// Snapshot returns the current list stamped with the current time, ready to publish.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.Snapshot{
		Version:     s.version,
		LastUpdated: models.FormatTimestamp(s.now()),
		Projects:    s.clone(),
	}
}
