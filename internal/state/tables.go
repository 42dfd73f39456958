package state

import (
	"errors"
	"sync"

	"github.com/rms-foh/api/internal/enum"
)

// ErrTableNotFound is returned for operations on an unknown table id.
var ErrTableNotFound = errors.New("table not found")

// Table is a dining table with a two-state occupancy machine.
type Table struct {
	ID     int
	Name   string
	Status string
}

// TableMap tracks table occupancy for one session. The layout is fixed at
// session start; only statuses change.
type TableMap struct {
	mu     sync.Mutex
	tables []Table
}

func NewTableMap(tables []Table) *TableMap {
	return &TableMap{tables: append([]Table(nil), tables...)}
}

// List returns all tables in layout order.
func (m *TableMap) List() []Table {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Table(nil), m.tables...)
}

// Get returns the table with the given id.
func (m *TableMap) Get(id int) (Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tables {
		if t.ID == id {
			return t, nil
		}
	}
	return Table{}, ErrTableNotFound
}

// Toggle flips a table between AVAILABLE and OCCUPIED. Deliberately
// unguarded in either direction so operators can correct mistakes.
func (m *TableMap) Toggle(id int) (Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range m.tables {
		if t.ID != id {
			continue
		}
		if t.Status == enum.TableStatusAvailable {
			m.tables[i].Status = enum.TableStatusOccupied
		} else {
			m.tables[i].Status = enum.TableStatusAvailable
		}
		return m.tables[i], nil
	}
	return Table{}, ErrTableNotFound
}

// SetStatus forces a table into the given status. Used by the order lifecycle:
// OCCUPIED on order creation, AVAILABLE on bill completion.
func (m *TableMap) SetStatus(id int, status string) (Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range m.tables {
		if t.ID == id {
			m.tables[i].Status = status
			return m.tables[i], nil
		}
	}
	return Table{}, ErrTableNotFound
}
