package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/andrejsstepanovs/projtrack/models"
)

var (
	ErrNameRequired  = errors.New("project name is required")
	ErrInvalidStatus = errors.New("invalid project status")
)

// Cache is the local persistence the store exclusively owns. Save replaces
// the projects, timestamp and version together or not at all.
type Cache interface {
	Load() (models.CacheEntry, error)
	Save(entry models.CacheEntry) error
}

// RemoteSource returns the raw remote snapshot document.
type RemoteSource interface {
	FetchDocument(ctx context.Context) ([]byte, error)
}

// Source tells which dataset won reconciliation.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
	SourceSeed   Source = "seed"
)

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithVersion(version string) Option {
	return func(s *Store) { s.version = version }
}

// Store owns the canonical in-memory project list. Every mutation is written
// through to the cache before it becomes visible.
type Store struct {
	mu       sync.RWMutex
	cache    Cache
	remote   RemoteSource
	projects []models.Project
	now      func() time.Time
	version  string
}

// New creates a store. remote may be nil when no remote document is configured.
func New(cache Cache, remote RemoteSource, opts ...Option) *Store {
	s := &Store{
		cache:    cache,
		remote:   remote,
		projects: []models.Project{},
		now:      time.Now,
		version:  models.AppVersion,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reconciles the local cache with the remote snapshot and installs the winner.
// Local data wins only when its timestamp is strictly newer than the remote one.
func (s *Store) Load(ctx context.Context) (Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	local, localTS, hasLocal := s.readLocal()

	snap, err := s.fetchRemote(ctx)
	if err == nil {
		remoteTS := models.ParseTimestamp(snap.LastUpdated)
		if hasLocal && localTS.After(remoteTS) {
			log.Println("Local changes are newer than remote, keeping local data")
			s.projects = local
			return SourceLocal, nil
		}

		log.Printf("Loading %d projects from remote snapshot", len(snap.Projects))
		version := snap.Version
		if version == "" {
			version = s.version
		}
		if err := s.persist(snap.Projects, snap.LastUpdated, version); err != nil {
			// Memory keeps matching the cache, which still holds the local list if any.
			if hasLocal {
				s.projects = local
			}
			return SourceRemote, fmt.Errorf("error caching remote snapshot: %w", err)
		}
		s.projects = snap.Projects
		return SourceRemote, nil
	}

	log.Printf("Remote snapshot unavailable, using local fallback: %v", err)
	if hasLocal {
		s.projects = local
		return SourceLocal, nil
	}

	seed := models.SeedProjects()
	if err := s.persist(seed, models.FormatTimestamp(s.now()), s.version); err != nil {
		return SourceSeed, fmt.Errorf("error caching initial projects: %w", err)
	}
	s.projects = seed
	return SourceSeed, nil
}

func (s *Store) readLocal() ([]models.Project, time.Time, bool) {
	entry, err := s.cache.Load()
	if err != nil {
		log.Printf("Error reading local cache: %v", err)
		return nil, time.Time{}, false
	}
	if entry.Projects == "" {
		return nil, time.Time{}, false
	}

	projects, err := decodeProjects([]byte(entry.Projects))
	if err != nil {
		log.Printf("Local cache parse error, ignoring it: %v", err)
		return nil, time.Time{}, false
	}

	return projects, models.ParseTimestamp(entry.LastUpdated), true
}

func (s *Store) fetchRemote(ctx context.Context) (models.Snapshot, error) {
	if s.remote == nil {
		return models.Snapshot{}, errors.New("no remote configured")
	}
	raw, err := s.remote.FetchDocument(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	return decodeSnapshot(raw)
}

func (s *Store) persist(projects []models.Project, lastUpdated, version string) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to encode projects: %w", err)
	}
	return s.cache.Save(models.CacheEntry{
		Projects:    string(data),
		LastUpdated: lastUpdated,
		Version:     version,
	})
}

// commit writes next to the cache with a fresh timestamp and only then installs it.
func (s *Store) commit(next []models.Project) error {
	if err := s.persist(next, models.FormatTimestamp(s.now()), s.version); err != nil {
		return fmt.Errorf("error saving projects: %w", err)
	}
	s.projects = next
	return nil
}

func (s *Store) clone() []models.Project {
	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

func (s *Store) indexOf(id int64) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// nextID is time-derived but always above every existing id.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	for _, p := range s.projects {
		if p.ID >= id {
			id = p.ID + 1
		}
	}
	return id
}

func normalizeInput(p models.Project) (models.Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return models.Project{}, ErrNameRequired
	}
	status, ok := models.ParseStatus(string(p.Status))
	if !ok {
		return models.Project{}, fmt.Errorf("%w: %q", ErrInvalidStatus, p.Status)
	}
	p.Status = status
	return p, nil
}

// Add assigns a new id to p, appends it and persists the list.
func (s *Store) Add(p models.Project) (models.Project, error) {
	p, err := normalizeInput(p)
	if err != nil {
		return models.Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextID()
	next := append(s.clone(), p)
	if err := s.commit(next); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// Update replaces the project with the given id, keeping the id. It reports false if no such project exists.
func (s *Store) Update(id int64, p models.Project) (models.Project, bool, error) {
	p, err := normalizeInput(p)
	if err != nil {
		return models.Project{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Project{}, false, nil
	}

	p.ID = id
	next := s.clone()
	next[idx] = p
	if err := s.commit(next); err != nil {
		return models.Project{}, true, err
	}
	return p, true, nil
}

func (s *Store) Delete(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	next := make([]models.Project, 0, len(s.projects)-1)
	next = append(next, s.projects[:idx]...)
	next = append(next, s.projects[idx+1:]...)
	if err := s.commit(next); err != nil {
		return true, err
	}
	return true, nil
}

func (s *Store) ChangeStatus(id int64, status models.Status) (models.Project, bool, error) {
	if !status.Valid() {
		return models.Project{}, false, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Project{}, false, nil
	}

	next := s.clone()
	next[idx].Status = status
	if err := s.commit(next); err != nil {
		return models.Project{}, true, err
	}
	return next[idx], true, nil
}

func (s *Store) Get(id int64) (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Project{}, false
	}
	return s.projects[idx], true
}

// All returns a copy of the project list in insertion order.
func (s *Store) All() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clone()
}

// Categories returns every category in use, in first-seen order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	categories := []string{}
	for _, p := range s.projects {
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	return categories
}

func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.Stats{Total: len(s.projects)}
	for _, p := range s.projects {
		switch p.Status {
		case models.StatusInitial:
			stats.Initial++
		case models.StatusIng:
			stats.Ing++
		case models.StatusDone:
			stats.Done++
		}
	}
	return stats
}

// Reset replaces the cached list with the built-in initial dataset in a single save.
// The stored credential is not touched.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(models.SeedProjects())
}
