package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Kind identifies which principal kind a session belongs to. The values
// match the server's subject claim.
type Kind string

const (
	KindStaff   Kind = "STAFF"
	KindStudent Kind = "STUDENT"
)

// StaffProfile is the staff payload persisted alongside the token.
type StaffProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// StudentProfile is the student payload persisted alongside the token.
type StudentProfile struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	PlanID   *string `json:"plan_id,omitempty"`
}

// Snapshot is the persisted shape of a session. Exactly one of Staff or
// Student is set, matching Kind. A snapshot never carries secrets other
// than the signed token itself.
type Snapshot struct {
	Token   string          `json:"token"`
	Kind    Kind            `json:"kind"`
	Staff   *StaffProfile   `json:"staff,omitempty"`
	Student *StudentProfile `json:"student,omitempty"`
}

// Role returns the staff role, or the empty string for students.
func (s *Snapshot) Role() string {
	if s.Kind == KindStaff && s.Staff != nil {
		return s.Staff.Role
	}
	return ""
}

// Store persists session snapshots across restarts.
type Store interface {
	Save(snap Snapshot) error
	// Load returns (nil, nil) when no snapshot is stored.
	Load() (*Snapshot, error)
	Clear() error
}

// FileStore keeps the snapshot as a JSON file. Saving a snapshot of one
// kind replaces whatever was stored before, so staff and student
// sessions can never coexist.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore constructs a FileStore rooted at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// A corrupt file is treated as no session rather than a hard
		// failure, the caller falls back to the login flow.
		return nil, nil
	}
	if snap.Token == "" {
		return nil, nil
	}
	return &snap, nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryStore is an in-process Store, useful for tests and short-lived
// tools that should not persist credentials.
type MemoryStore struct {
	mu   sync.Mutex
	snap *Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := snap
	s.snap = &copied
	return nil
}

func (s *MemoryStore) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return nil, nil
	}
	copied := *s.snap
	return &copied, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = nil
	return nil
}
