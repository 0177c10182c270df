package client

import (
	"sync"

	"go.uber.org/zap"
)

// State is the session lifecycle state.
type State int

const (
	// StateUnauthenticated means no token is held.
	StateUnauthenticated State = iota
	// StateRestoring means a persisted token was found and is being
	// verified against the server.
	StateRestoring
	// StateAuthenticated means a token is held in memory. The Kind of
	// the snapshot says which principal it belongs to.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Session holds the in-memory copy of the authenticated principal and
// keeps the persistent Store in sync with it. All methods are safe for
// concurrent use.
type Session struct {
	mu       sync.RWMutex
	state    State
	snap     *Snapshot
	store    Store
	notifier Notifier
	logger   *zap.Logger
}

// NewSession constructs an unauthenticated Session backed by store.
// A nil notifier defaults to NopNotifier.
func NewSession(store Store, notifier Notifier, logger *zap.Logger) *Session {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		state:    StateUnauthenticated,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot returns a copy of the current session payload, or nil when
// unauthenticated.
func (s *Session) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil
	}
	copied := *s.snap
	return &copied
}

// Kind returns the authenticated principal kind, or the empty string.
func (s *Session) Kind() Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return ""
	}
	return s.snap.Kind
}

// AuthHeader returns the Authorization header value derived from the
// in-memory token, or the empty string when no token is held. It never
// fails: callers attach the result unconditionally.
func (s *Session) AuthHeader() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil || s.snap.Token == "" {
		return ""
	}
	return "Bearer " + s.snap.Token
}

// Begin installs a freshly issued session, replacing any previous one
// of either kind, and persists it.
func (s *Session) Begin(snap Snapshot) error {
	s.mu.Lock()
	s.snap = &snap
	s.state = StateAuthenticated
	s.mu.Unlock()

	if err := s.store.Save(snap); err != nil {
		// The in-memory session stays valid; only persistence across
		// restarts is lost.
		s.logger.Warn("failed to persist session", zap.Error(err))
		return err
	}
	return nil
}

// loadPersisted moves the session into the restoring state if a
// snapshot is stored. It returns the snapshot to verify, or nil when
// there is nothing to restore.
func (s *Session) loadPersisted() *Snapshot {
	snap, err := s.store.Load()
	if err != nil {
		s.logger.Warn("failed to load persisted session", zap.Error(err))
		return nil
	}
	if snap == nil {
		return nil
	}

	s.mu.Lock()
	s.snap = snap
	s.state = StateRestoring
	s.mu.Unlock()

	copied := *snap
	return &copied
}

// confirmRestore resolves the restoring state.
//
// valid=true settles into the authenticated state. valid=false tears
// the session down. When the verification could not be completed at
// all (server unreachable), callers pass valid=true with
// reachable=false: the session is retained optimistically and the
// first authenticated request decides its fate.
func (s *Session) confirmRestore(valid, reachable bool) {
	if valid {
		s.mu.Lock()
		if s.state == StateRestoring {
			s.state = StateAuthenticated
		}
		s.mu.Unlock()
		if !reachable {
			s.logger.Info("session retained without verification, server unreachable")
		}
		return
	}
	s.teardown()
}

// End clears the session after a manual logout. No expiry notification
// fires.
func (s *Session) End() {
	s.teardown()
}

// Expire clears the session in response to an authentication failure
// and notifies the application. Safe to call from any state; expiring
// an already-unauthenticated session is a no-op.
func (s *Session) Expire(reason string) {
	if s.teardown() {
		s.notifier.SessionExpired(reason)
	}
}

// teardown reports whether a session was actually cleared.
func (s *Session) teardown() bool {
	s.mu.Lock()
	had := s.snap != nil
	s.snap = nil
	s.state = StateUnauthenticated
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		s.logger.Warn("failed to clear persisted session", zap.Error(err))
	}
	return had
}
