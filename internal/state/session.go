package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rms-foh/api/internal/enum"
)

// Session owns one login's front-of-house state. Nothing here survives the
// process; every login starts from the seeded floor layout.
type Session struct {
	ID     uuid.UUID
	Orders *OrderStore
	Bills  *BillLog
	Tables *TableMap
	Queue  *Queue

	// UpstreamToken is the bearer token the central backend issued at login.
	// Empty for local-directory logins. Set once before the session id is
	// handed to the client, never written after.
	UpstreamToken string

	CreatedAt time.Time
}

// NewSession creates a session seeded with the demo floor: eight tables with
// two already occupied, and three parties in the queue.
func NewSession() *Session {
	tables := make([]Table, 0, 8)
	for i := 1; i <= 8; i++ {
		status := enum.TableStatusAvailable
		if i == 2 || i == 6 {
			status = enum.TableStatusOccupied
		}
		tables = append(tables, Table{
			ID:     i,
			Name:   fmt.Sprintf("T%d", i),
			Status: status,
		})
	}

	queue := []QueueEntry{
		{ID: uuid.New(), PartyName: "Sharma Family", PartySize: 4, Status: enum.QueueStatusWaiting},
		{ID: uuid.New(), PartyName: "Office Group", PartySize: 6, Status: enum.QueueStatusWaiting},
		{ID: uuid.New(), PartyName: "Couple", PartySize: 2, Status: enum.QueueStatusWaiting},
	}

	return &Session{
		ID:        uuid.New(),
		Orders:    NewOrderStore(),
		Bills:     NewBillLog(),
		Tables:    NewTableMap(tables),
		Queue:     NewQueue(queue),
		CreatedAt: time.Now(),
	}
}

// Manager maps session ids to live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*Session)}
}

// Create starts a new seeded session and registers it.
func (m *Manager) Create() *Session {
	s := NewSession()
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given id, or nil.
func (m *Manager) Get(id uuid.UUID) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Delete discards a session. Called on logout; the state is gone for good.
func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
