// =============================================================================
// billforge - Preview Sessions
// =============================================================================
//
// One session per uploaded workbook. The record inside a session is only
// ever replaced wholesale (upload or recalculation result), never mutated,
// so readers always see a fully consistent record. Each replacement bumps a
// monotonic version that the render queue uses to discard stale previews.
//
// =============================================================================

package server

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/billforge/billforge/internal/invoice"
	"github.com/billforge/billforge/internal/renderer"
)

// session holds one in-memory invoice being edited.
type session struct {
	mu      sync.Mutex
	id      string
	record  *invoice.Record
	version uint64
	queue   *renderer.Queue
}

// snapshot returns the current record and its version. The record pointer
// is safe to share because records are immutable once stored.
func (s *session) snapshot() (*invoice.Record, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record, s.version
}

// replace installs a new record and bumps the version.
func (s *session) replace(rec *invoice.Record) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = rec
	s.version++
	return s.version
}

// sessionStore is the in-memory session registry. Records live here for the
// duration of the process; there is no server-side persistence.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	render   renderer.RenderFunc
}

func newSessionStore(render renderer.RenderFunc) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		render:   render,
	}
}

// create registers a new session for a freshly extracted record.
func (st *sessionStore) create(rec *invoice.Record) *session {
	s := &session{
		id:      uuid.New().String(),
		record:  rec,
		version: 1,
		queue:   renderer.NewQueue(st.render),
	}
	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()
	return s
}

func (st *sessionStore) get(id string) (*session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("no invoice session %q", id)
	}
	return s, nil
}

func (st *sessionStore) delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}
