package state

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rms-foh/api/internal/enum"
)

// Errors returned by the waiting queue.
var (
	ErrEmptyPartyName   = errors.New("party name is required")
	ErrInvalidPartySize = errors.New("party size must be > 0")
	ErrEntryNotFound    = errors.New("queue entry not found")
)

// QueueEntry is a waiting party. There is no seated state; seating removes
// the entry, which is its terminal transition.
type QueueEntry struct {
	ID        uuid.UUID
	PartyName string
	PartySize int32
	Status    string
}

// Queue is the FIFO waiting list for one session.
type Queue struct {
	mu      sync.Mutex
	entries []QueueEntry
}

func NewQueue(entries []QueueEntry) *Queue {
	return &Queue{entries: append([]QueueEntry(nil), entries...)}
}

// Enqueue appends a new WAITING party to the end of the queue.
func (q *Queue) Enqueue(partyName string, partySize int32) (QueueEntry, error) {
	if partyName == "" {
		return QueueEntry{}, ErrEmptyPartyName
	}
	if partySize <= 0 {
		return QueueEntry{}, ErrInvalidPartySize
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	entry := QueueEntry{
		ID:        uuid.New(),
		PartyName: partyName,
		PartySize: partySize,
		Status:    enum.QueueStatusWaiting,
	}
	q.entries = append(q.entries, entry)
	return entry, nil
}

// Call marks a WAITING entry as CALLED. A miss, or an entry no longer
// WAITING, is a silent no-op; the floor display treats this as non-fatal.
func (q *Queue) Call(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if e.ID == id && e.Status == enum.QueueStatusWaiting {
			q.entries[i].Status = enum.QueueStatusCalled
			return
		}
	}
}

// Seat removes an entry from the queue regardless of its current status.
func (q *Queue) Seat(id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if e.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

// NextWaiting returns the first WAITING entry in insertion order.
func (q *Queue) NextWaiting() (QueueEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		if e.Status == enum.QueueStatusWaiting {
			return e, true
		}
	}
	return QueueEntry{}, false
}

// List returns the queue in insertion order.
func (q *Queue) List() []QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]QueueEntry(nil), q.entries...)
}
