package client

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	reasons []string
}

func (n *recordingNotifier) SessionExpired(reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reasons = append(n.reasons, reason)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.reasons)
}

func staffSnapshot() Snapshot {
	return Snapshot{
		Token: "staff-token",
		Kind:  KindStaff,
		Staff: &StaffProfile{ID: "admin-1", Name: "Admin", Email: "admin@example.com", Role: "administrador"},
	}
}

func studentSnapshot() Snapshot {
	return Snapshot{
		Token:   "student-token",
		Kind:    KindStudent,
		Student: &StudentProfile{ID: "student-1", FullName: "Ana Silva", Email: "ana@example.com"},
	}
}

func TestSessionStartsUnauthenticated(t *testing.T) {
	s := NewSession(NewMemoryStore(), nil, nil)

	assert.Equal(t, StateUnauthenticated, s.State())
	assert.Nil(t, s.Snapshot())
	assert.Empty(t, s.AuthHeader())
}

func TestBeginPersistsAndExposesHeader(t *testing.T) {
	store := NewMemoryStore()
	s := NewSession(store, nil, nil)

	require.NoError(t, s.Begin(staffSnapshot()))

	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, "Bearer staff-token", s.AuthHeader())
	assert.Equal(t, KindStaff, s.Kind())

	persisted, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, "staff-token", persisted.Token)
}

// Logging in as one kind replaces a stored session of the other kind;
// the two can never coexist.
func TestBeginReplacesOtherKind(t *testing.T) {
	store := NewMemoryStore()
	s := NewSession(store, nil, nil)

	require.NoError(t, s.Begin(staffSnapshot()))
	require.NoError(t, s.Begin(studentSnapshot()))

	assert.Equal(t, KindStudent, s.Kind())
	assert.Equal(t, "Bearer student-token", s.AuthHeader())

	persisted, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, KindStudent, persisted.Kind)
	assert.Nil(t, persisted.Staff)
}

func TestEndClearsEverythingWithoutNotifying(t *testing.T) {
	store := NewMemoryStore()
	notifier := &recordingNotifier{}
	s := NewSession(store, notifier, nil)

	require.NoError(t, s.Begin(staffSnapshot()))
	s.End()

	assert.Equal(t, StateUnauthenticated, s.State())
	assert.Empty(t, s.AuthHeader())
	assert.Zero(t, notifier.count())

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestExpireNotifiesOnce(t *testing.T) {
	notifier := &recordingNotifier{}
	s := NewSession(NewMemoryStore(), notifier, nil)

	require.NoError(t, s.Begin(studentSnapshot()))
	s.Expire("INVALID_OR_EXPIRED_TOKEN")
	s.Expire("INVALID_OR_EXPIRED_TOKEN")

	assert.Equal(t, StateUnauthenticated, s.State())
	assert.Equal(t, 1, notifier.count(), "second expire on a cleared session must not notify")
}

func TestAuthHeaderNeverFails(t *testing.T) {
	s := NewSession(NewMemoryStore(), nil, nil)

	// Unauthenticated, mid-restore and post-teardown all answer with a
	// plain string.
	assert.NotPanics(t, func() {
		_ = s.AuthHeader()
		s.Expire("whatever")
		_ = s.AuthHeader()
	})
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	snap := staffSnapshot()
	require.NoError(t, store.Save(snap))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snap.Token, loaded.Token)
	assert.Equal(t, snap.Kind, loaded.Kind)
	require.NotNil(t, loaded.Staff)
	assert.Equal(t, "administrador", loaded.Staff.Role)

	require.NoError(t, store.Clear())
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileStoreMissingFileIsNoSession(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
	assert.NoError(t, store.Clear())
}

func TestSnapshotRole(t *testing.T) {
	staff := staffSnapshot()
	student := studentSnapshot()

	assert.Equal(t, "administrador", staff.Role())
	assert.Empty(t, student.Role())
}
