package service_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rms-foh/api/internal/enum"
	"github.com/rms-foh/api/internal/service"
	"github.com/rms-foh/api/internal/state"
	"github.com/rms-foh/api/internal/ws"
	"github.com/shopspring/decimal"
)

// --- Mock notifier ---

type mockNotifier struct {
	events []ws.Event
}

func (m *mockNotifier) BroadcastToSession(_ uuid.UUID, event ws.Event) {
	m.events = append(m.events, event)
}

func (m *mockNotifier) types() []string {
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Type
	}
	return out
}

func newTestService() (*service.FrontOfHouse, *state.Session, *mockNotifier) {
	notify := &mockNotifier{}
	return service.New(notify), state.NewSession(), notify
}

func items(names ...string) []state.LineItem {
	out := make([]state.LineItem, len(names))
	for i, n := range names {
		out[i] = state.LineItem{Name: n, Quantity: 1}
	}
	return out
}

// --- Dine-in flow ---

func TestCreateDineInOrderOccupiesTable(t *testing.T) {
	svc, s, notify := newTestService()

	order, err := svc.CreateDineInOrder(s, 1, items("Biryani"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.ContextID != "T1" {
		t.Errorf("context: got %s, want T1", order.ContextID)
	}

	table, _ := s.Tables.Get(1)
	if table.Status != enum.TableStatusOccupied {
		t.Errorf("table status: got %s, want OCCUPIED", table.Status)
	}

	got := notify.types()
	if len(got) != 2 || got[0] != service.EventOrderCreated || got[1] != service.EventTableUpdated {
		t.Errorf("events: got %v", got)
	}
}

func TestCreateDineInOrderUnknownTable(t *testing.T) {
	svc, s, notify := newTestService()

	_, err := svc.CreateDineInOrder(s, 42, items("Biryani"))
	if !errors.Is(err, state.ErrTableNotFound) {
		t.Fatalf("error: got %v, want ErrTableNotFound", err)
	}
	if len(notify.events) != 0 {
		t.Error("no events should be published on failure")
	}
}

func TestCompleteTableFoldsAllOrders(t *testing.T) {
	svc, s, _ := newTestService()

	// Two concurrent unbilled orders on T5, merged atomically at completion.
	svc.CreateDineInOrder(s, 5, []state.LineItem{
		{Name: "Biryani", Quantity: 2},
		{Name: "Raita", Quantity: 1, UnitPrice: decimal.NewFromInt(150), HasPrice: true},
	})
	svc.CreateDineInOrder(s, 5, items("Lassi"))

	bill, err := svc.CompleteTable(s, 5)
	if err != nil {
		t.Fatalf("complete table: %v", err)
	}

	if len(bill.Items) != 3 {
		t.Errorf("bill items: got %d, want 3", len(bill.Items))
	}
	// 2*100 + 1*150 + 1*100
	if want := decimal.NewFromInt(450); !bill.Total.Equal(want) {
		t.Errorf("total: got %s, want %s", bill.Total, want)
	}

	if got := s.Orders.ListByContext("T5"); len(got) != 0 {
		t.Errorf("active orders for T5 should be empty, has %d", len(got))
	}
	table, _ := s.Tables.Get(5)
	if table.Status != enum.TableStatusAvailable {
		t.Errorf("table status: got %s, want AVAILABLE", table.Status)
	}
}

func TestCompleteTableWithoutOrders(t *testing.T) {
	svc, s, _ := newTestService()

	_, err := svc.CompleteTable(s, 3)
	if !errors.Is(err, state.ErrNoOrders) {
		t.Fatalf("error: got %v, want ErrNoOrders", err)
	}

	// An occupied table without orders stays occupied.
	table, _ := s.Tables.Get(2)
	if _, err := svc.CompleteTable(s, 2); !errors.Is(err, state.ErrNoOrders) {
		t.Fatalf("error: got %v, want ErrNoOrders", err)
	}
	if after, _ := s.Tables.Get(2); after.Status != table.Status {
		t.Error("failed completion must not change table status")
	}
}

func TestCompleteTableIgnoresTakeawayNameCollision(t *testing.T) {
	svc, s, _ := newTestService()

	// A billed takeaway order for a customer whose name matches a table.
	takeaway, err := svc.CreateTakeawayOrder(s, "T3", items("Dosa", "Idli"))
	if err != nil {
		t.Fatalf("create takeaway: %v", err)
	}
	if _, err := svc.CompleteTakeaway(s, takeaway.ID); err != nil {
		t.Fatalf("complete takeaway: %v", err)
	}

	svc.CreateDineInOrder(s, 3, items("Biryani"))

	bill, err := svc.CompleteTable(s, 3)
	if err != nil {
		t.Fatalf("complete table: %v", err)
	}
	if len(bill.Items) != 1 {
		t.Errorf("bill items: got %d, want 1 (takeaway items must not fold in)", len(bill.Items))
	}
	if want := decimal.NewFromInt(100); !bill.Total.Equal(want) {
		t.Errorf("total: got %s, want %s", bill.Total, want)
	}

	kept, err := s.Orders.Get(takeaway.ID)
	if err != nil {
		t.Fatalf("takeaway order must survive the table fold: %v", err)
	}
	if kept.Status != enum.OrderStatusCompleted {
		t.Errorf("status: got %s, want COMPLETED", kept.Status)
	}
}

func TestCompleteTableWithOnlyCollidingTakeaway(t *testing.T) {
	svc, s, _ := newTestService()

	if _, err := svc.CreateTakeawayOrder(s, "T4", items("Lassi")); err != nil {
		t.Fatalf("create takeaway: %v", err)
	}

	if _, err := svc.CompleteTable(s, 4); !errors.Is(err, state.ErrNoOrders) {
		t.Fatalf("error: got %v, want ErrNoOrders", err)
	}
}

func TestCompleteTableExampleTotal(t *testing.T) {
	svc, s, _ := newTestService()

	svc.CreateDineInOrder(s, 2, []state.LineItem{
		{Name: "Biryani", Quantity: 2},
		{Name: "Raita", Quantity: 1, UnitPrice: decimal.NewFromInt(150), HasPrice: true},
	})

	bill, err := svc.CompleteTable(s, 2)
	if err != nil {
		t.Fatalf("complete table: %v", err)
	}
	if want := decimal.NewFromInt(350); !bill.Total.Equal(want) {
		t.Errorf("total: got %s, want %s", bill.Total, want)
	}
}

// --- Takeaway flow ---

func TestCompleteTakeawayKeepsOrder(t *testing.T) {
	svc, s, notify := newTestService()

	order, err := svc.CreateTakeawayOrder(s, "John Doe", items("Dosa", "Sambar"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bill, err := svc.CompleteTakeaway(s, order.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if bill.Source != "John Doe" {
		t.Errorf("source: got %s, want John Doe", bill.Source)
	}
	if bill.Type != enum.OrderTypeTakeaway {
		t.Errorf("type: got %s, want TAKEAWAY", bill.Type)
	}

	// Unlike the table flow, the order survives, flipped to COMPLETED.
	kept, err := s.Orders.Get(order.ID)
	if err != nil {
		t.Fatalf("order should remain in store: %v", err)
	}
	if kept.Status != enum.OrderStatusCompleted {
		t.Errorf("status: got %s, want COMPLETED", kept.Status)
	}

	got := notify.types()
	want := []string{service.EventOrderCreated, service.EventOrderUpdated, service.EventBillCreated}
	if len(got) != len(want) {
		t.Fatalf("events: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("events[%d]: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCompleteTakeawayTwice(t *testing.T) {
	svc, s, _ := newTestService()

	order, _ := svc.CreateTakeawayOrder(s, "John Doe", items("Dosa"))
	if _, err := svc.CompleteTakeaway(s, order.ID); err != nil {
		t.Fatalf("first complete: %v", err)
	}

	_, err := svc.CompleteTakeaway(s, order.ID)
	if !errors.Is(err, state.ErrAlreadyCompleted) {
		t.Fatalf("error: got %v, want ErrAlreadyCompleted", err)
	}
	if got := len(s.Bills.List()); got != 1 {
		t.Errorf("bills: got %d, want 1 (double completion must not bill twice)", got)
	}
}

func TestCompleteTakeawayUnknownOrder(t *testing.T) {
	svc, s, _ := newTestService()

	_, err := svc.CompleteTakeaway(s, uuid.New())
	if !errors.Is(err, state.ErrOrderNotFound) {
		t.Fatalf("error: got %v, want ErrOrderNotFound", err)
	}
}

func TestOrderEventPayloadShape(t *testing.T) {
	svc, s, notify := newTestService()

	svc.CreateDineInOrder(s, 1, items("Biryani", "Raita"))

	var payload struct {
		Number    string `json:"number"`
		ItemCount *int   `json:"item_count"`
	}
	if err := json.Unmarshal(notify.events[0].Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Number != "O-001" {
		t.Errorf("number: got %s, want O-001", payload.Number)
	}
	if payload.ItemCount == nil || *payload.ItemCount != 2 {
		t.Errorf("item_count: got %v, want 2", payload.ItemCount)
	}
}

// --- Kitchen ---

func TestMarkOrderReady(t *testing.T) {
	svc, s, notify := newTestService()

	order, _ := svc.CreateDineInOrder(s, 1, items("Naan"))
	ready, err := svc.MarkOrderReady(s, order.ID)
	if err != nil {
		t.Fatalf("mark ready: %v", err)
	}
	if ready.Status != enum.OrderStatusReady {
		t.Errorf("status: got %s, want READY", ready.Status)
	}

	got := notify.types()
	if got[len(got)-1] != service.EventOrderReady {
		t.Errorf("last event: got %s, want %s", got[len(got)-1], service.EventOrderReady)
	}
}

// --- Tables & queue ---

func TestToggleTablePublishes(t *testing.T) {
	svc, s, notify := newTestService()

	table, err := svc.ToggleTable(s, 1)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if table.Status != enum.TableStatusOccupied {
		t.Errorf("status: got %s, want OCCUPIED", table.Status)
	}
	if got := notify.types(); len(got) != 1 || got[0] != service.EventTableUpdated {
		t.Errorf("events: got %v", got)
	}
}

func TestQueueFlow(t *testing.T) {
	svc, s, notify := newTestService()

	entry, err := svc.EnqueueParty(s, "Verma Family", 3)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	svc.CallParty(s, entry.ID)
	if err := svc.SeatParty(s, entry.ID); err != nil {
		t.Fatalf("seat: %v", err)
	}

	if err := svc.SeatParty(s, entry.ID); !errors.Is(err, state.ErrEntryNotFound) {
		t.Fatalf("error: got %v, want ErrEntryNotFound", err)
	}

	// enqueue + call + seat each publish one queue.updated.
	count := 0
	for _, typ := range notify.types() {
		if typ == service.EventQueueUpdated {
			count++
		}
	}
	if count != 3 {
		t.Errorf("queue.updated events: got %d, want 3", count)
	}
}
