package state_test

import (
	"errors"
	"testing"

	"github.com/rms-foh/api/internal/enum"
	"github.com/rms-foh/api/internal/state"
)

func TestToggleBothDirections(t *testing.T) {
	m := state.NewTableMap([]state.Table{
		{ID: 1, Name: "T1", Status: enum.TableStatusAvailable},
	})

	got, err := m.Toggle(1)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got.Status != enum.TableStatusOccupied {
		t.Errorf("status: got %s, want OCCUPIED", got.Status)
	}

	got, _ = m.Toggle(1)
	if got.Status != enum.TableStatusAvailable {
		t.Errorf("status: got %s, want AVAILABLE", got.Status)
	}
}

func TestToggleUnknownTable(t *testing.T) {
	m := state.NewTableMap(nil)
	if _, err := m.Toggle(42); !errors.Is(err, state.ErrTableNotFound) {
		t.Fatalf("error: got %v, want ErrTableNotFound", err)
	}
}

func TestSetStatus(t *testing.T) {
	m := state.NewTableMap([]state.Table{
		{ID: 3, Name: "T3", Status: enum.TableStatusAvailable},
	})

	got, err := m.SetStatus(3, enum.TableStatusOccupied)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if got.Status != enum.TableStatusOccupied {
		t.Errorf("status: got %s, want OCCUPIED", got.Status)
	}

	// Forcing the same status again is fine; the machine is unguarded.
	if _, err := m.SetStatus(3, enum.TableStatusOccupied); err != nil {
		t.Fatalf("repeat set status: %v", err)
	}
}

func TestSessionSeed(t *testing.T) {
	s := state.NewSession()

	tables := s.Tables.List()
	if len(tables) != 8 {
		t.Fatalf("expected 8 seeded tables, got %d", len(tables))
	}
	for _, tbl := range tables {
		want := enum.TableStatusAvailable
		if tbl.ID == 2 || tbl.ID == 6 {
			want = enum.TableStatusOccupied
		}
		if tbl.Status != want {
			t.Errorf("table %s: got %s, want %s", tbl.Name, tbl.Status, want)
		}
	}

	queue := s.Queue.List()
	if len(queue) != 3 {
		t.Fatalf("expected 3 seeded queue entries, got %d", len(queue))
	}
	if queue[0].PartyName != "Sharma Family" || queue[0].PartySize != 4 {
		t.Errorf("first entry: got %s/%d", queue[0].PartyName, queue[0].PartySize)
	}

	if got := len(s.Orders.List()); got != 0 {
		t.Errorf("new session should have no orders, has %d", got)
	}
	if got := len(s.Bills.List()); got != 0 {
		t.Errorf("new session should have no bills, has %d", got)
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := state.NewManager()

	s := m.Create()
	if got := m.Get(s.ID); got != s {
		t.Fatal("manager should return the created session")
	}

	m.Delete(s.ID)
	if got := m.Get(s.ID); got != nil {
		t.Fatal("deleted session should be gone")
	}
}
