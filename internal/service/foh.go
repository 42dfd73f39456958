// Package service orchestrates the front-of-house state machines. Each
// operation mirrors one user-initiated action: it mutates the session's
// stores in the right order and publishes the transition to the session's
// live dashboards.
package service

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rms-foh/api/internal/enum"
	"github.com/rms-foh/api/internal/state"
	"github.com/rms-foh/api/internal/ws"
)

// Event types published to the session room.
const (
	EventOrderCreated = "order.created"
	EventOrderReady   = "order.ready"
	EventOrderUpdated = "order.updated"
	EventBillCreated  = "bill.created"
	EventTableUpdated = "table.updated"
	EventQueueUpdated = "queue.updated"
)

// Notifier publishes events to a session's room.
// Satisfied by *ws.Hub; narrow interface for testability.
type Notifier interface {
	BroadcastToSession(sessionID uuid.UUID, event ws.Event)
}

// FrontOfHouse handles the order/bill lifecycle and the table and queue
// machines for any session handed to it.
type FrontOfHouse struct {
	notify Notifier
}

// New creates a new FrontOfHouse service.
func New(notify Notifier) *FrontOfHouse {
	return &FrontOfHouse{notify: notify}
}

// CreateDineInOrder opens a new order for a table and marks the table
// occupied.
func (f *FrontOfHouse) CreateDineInOrder(s *state.Session, tableID int, items []state.LineItem) (state.Order, error) {
	table, err := s.Tables.Get(tableID)
	if err != nil {
		return state.Order{}, err
	}

	order, err := s.Orders.Create(table.Name, enum.OrderTypeDineIn, items)
	if err != nil {
		return state.Order{}, err
	}

	table, _ = s.Tables.SetStatus(tableID, enum.TableStatusOccupied)

	f.publish(s, EventOrderCreated, orderPayload(order))
	f.publish(s, EventTableUpdated, tablePayload(table))
	return order, nil
}

// CompleteTable folds every unbilled order for the table into one bill,
// removes those orders from the active set and frees the table. The two
// completion modes are deliberately separate: dine-in orders never get a
// standalone COMPLETED status.
func (f *FrontOfHouse) CompleteTable(s *state.Session, tableID int) (state.Bill, error) {
	table, err := s.Tables.Get(tableID)
	if err != nil {
		return state.Bill{}, err
	}

	orders := s.Orders.RemoveByContext(table.Name, enum.OrderTypeDineIn)
	if len(orders) == 0 {
		return state.Bill{}, state.ErrNoOrders
	}

	bill, err := s.Bills.Create(table.Name, enum.OrderTypeDineIn, orders)
	if err != nil {
		return state.Bill{}, err
	}

	table, _ = s.Tables.SetStatus(tableID, enum.TableStatusAvailable)

	f.publish(s, EventBillCreated, billPayload(bill))
	f.publish(s, EventTableUpdated, tablePayload(table))
	return bill, nil
}

// CreateTakeawayOrder opens a new PENDING takeaway order for a customer.
func (f *FrontOfHouse) CreateTakeawayOrder(s *state.Session, customerName string, items []state.LineItem) (state.Order, error) {
	order, err := s.Orders.Create(customerName, enum.OrderTypeTakeaway, items)
	if err != nil {
		return state.Order{}, err
	}

	f.publish(s, EventOrderCreated, orderPayload(order))
	return order, nil
}

// CompleteTakeaway bills a takeaway order and flips it to COMPLETED,
// keeping it in the active list for the order history view.
func (f *FrontOfHouse) CompleteTakeaway(s *state.Session, orderID uuid.UUID) (state.Bill, error) {
	order, err := s.Orders.CompleteStandalone(orderID)
	if err != nil {
		return state.Bill{}, err
	}

	bill, err := s.Bills.Create(order.ContextID, enum.OrderTypeTakeaway, []state.Order{order})
	if err != nil {
		return state.Bill{}, err
	}

	f.publish(s, EventOrderUpdated, orderPayload(order))
	f.publish(s, EventBillCreated, billPayload(bill))
	return bill, nil
}

// MarkOrderReady flags an order as prepared on the kitchen display.
func (f *FrontOfHouse) MarkOrderReady(s *state.Session, orderID uuid.UUID) (state.Order, error) {
	order, err := s.Orders.MarkReady(orderID)
	if err != nil {
		return state.Order{}, err
	}

	f.publish(s, EventOrderReady, orderPayload(order))
	return order, nil
}

// ToggleTable flips a table's occupancy manually.
func (f *FrontOfHouse) ToggleTable(s *state.Session, tableID int) (state.Table, error) {
	table, err := s.Tables.Toggle(tableID)
	if err != nil {
		return state.Table{}, err
	}

	f.publish(s, EventTableUpdated, tablePayload(table))
	return table, nil
}

// EnqueueParty appends a party to the waiting queue.
func (f *FrontOfHouse) EnqueueParty(s *state.Session, partyName string, partySize int32) (state.QueueEntry, error) {
	entry, err := s.Queue.Enqueue(partyName, partySize)
	if err != nil {
		return state.QueueEntry{}, err
	}

	f.publish(s, EventQueueUpdated, queuePayload(s))
	return entry, nil
}

// CallParty calls a waiting party. Unknown or already-called entries are a
// no-op, so the queue is always republished as-is.
func (f *FrontOfHouse) CallParty(s *state.Session, entryID uuid.UUID) {
	s.Queue.Call(entryID)
	f.publish(s, EventQueueUpdated, queuePayload(s))
}

// SeatParty removes a party from the queue.
func (f *FrontOfHouse) SeatParty(s *state.Session, entryID uuid.UUID) error {
	if err := s.Queue.Seat(entryID); err != nil {
		return err
	}

	f.publish(s, EventQueueUpdated, queuePayload(s))
	return nil
}

// --- Event payloads ---

func (f *FrontOfHouse) publish(s *state.Session, eventType string, payload interface{}) {
	b, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal event payload", "type", eventType, "err", err)
		return
	}
	f.notify.BroadcastToSession(s.ID, ws.Event{Type: eventType, Payload: b})
}

func orderPayload(o state.Order) map[string]interface{} {
	return map[string]interface{}{
		"id":         o.ID,
		"number":     o.Number,
		"context_id": o.ContextID,
		"type":       o.Type,
		"status":     o.Status,
		"item_count": len(o.Items),
	}
}

func billPayload(b state.Bill) map[string]interface{} {
	return map[string]interface{}{
		"id":     b.ID,
		"number": b.Number,
		"source": b.Source,
		"type":   b.Type,
		"total":  b.Total.StringFixed(2),
	}
}

func tablePayload(t state.Table) map[string]interface{} {
	return map[string]interface{}{
		"id":     t.ID,
		"name":   t.Name,
		"status": t.Status,
	}
}

func queuePayload(s *state.Session) map[string]interface{} {
	entries := s.Queue.List()
	payload := map[string]interface{}{
		"waiting": len(entries),
	}
	if next, ok := s.Queue.NextWaiting(); ok {
		payload["next"] = next.PartyName
	}
	return payload
}
