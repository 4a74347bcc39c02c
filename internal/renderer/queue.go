// =============================================================================
// billforge - Render Queue
// =============================================================================
//
// Serializes preview renders per record version. Every render request is
// tagged with the monotonic version of the record it was taken from; when a
// render completes, its output is kept only if no newer version has been
// submitted in the meantime. "Latest wins": a stale render is discarded on
// completion, never cancelled mid-flight, and a failed render leaves the
// previous preview untouched.
//
// =============================================================================

package renderer

import (
	"sync"

	"github.com/billforge/billforge/internal/invoice"
)

// RenderFunc produces document bytes for a record. Split out so tests can
// substitute a slow or failing renderer.
type RenderFunc func(rec *invoice.Record, preview bool) ([]byte, error)

// Queue holds the newest completed preview for one record and the version
// bookkeeping that keeps overlapping renders from applying out of order.
type Queue struct {
	mu        sync.Mutex
	render    RenderFunc
	submitted uint64 // newest version handed to Submit
	applied   uint64 // version of the preview currently held
	preview   []byte
}

// NewQueue returns a queue backed by the given render function; nil means
// the package Render.
func NewQueue(render RenderFunc) *Queue {
	if render == nil {
		render = Render
	}
	return &Queue{render: render}
}

// Submit renders a snapshot of the record taken at the given version and
// applies the result if the version is still the newest. It returns the
// bytes it produced, whether they were applied, and any render error.
// Callers snapshot the record before calling; the queue never reads shared
// state.
func (q *Queue) Submit(version uint64, rec *invoice.Record) (data []byte, applied bool, err error) {
	q.mu.Lock()
	if version > q.submitted {
		q.submitted = version
	}
	q.mu.Unlock()

	data, err = q.render(rec, true)

	q.mu.Lock()
	defer q.mu.Unlock()
	if err != nil {
		// Keep whatever preview we had; the failure surfaces to the caller.
		return nil, false, err
	}
	if version < q.submitted || version < q.applied {
		// A newer edit arrived while this render was in flight.
		return data, false, nil
	}
	q.applied = version
	q.preview = data
	return data, true, nil
}

// Latest returns the newest applied preview and its version. The bytes are
// nil until the first successful render.
func (q *Queue) Latest() ([]byte, uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.preview, q.applied
}
