package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rms-foh/api/internal/enum"
	"github.com/shopspring/decimal"
)

// DefaultUnitPrice is charged for line items added without an explicit price.
var DefaultUnitPrice = decimal.NewFromInt(100)

// Errors returned by the order store.
var (
	ErrEmptyItems       = errors.New("items are required")
	ErrEmptyItemName    = errors.New("item name is required")
	ErrInvalidQuantity  = errors.New("quantity must be > 0")
	ErrInvalidPrice     = errors.New("price must be > 0")
	ErrEmptyContext     = errors.New("table or customer is required")
	ErrInvalidOrderType = errors.New("invalid order_type")
	ErrOrderNotFound    = errors.New("order not found")
	ErrAlreadyCompleted = errors.New("order is already completed")
)

// LineItem is a (name, quantity, optional unit price) value. Immutable once
// added to an order.
type LineItem struct {
	Name      string
	Quantity  int32
	UnitPrice decimal.Decimal
	HasPrice  bool
}

// Price returns the item's unit price, or DefaultUnitPrice when none was given.
func (li LineItem) Price() decimal.Decimal {
	if li.HasPrice {
		return li.UnitPrice
	}
	return DefaultUnitPrice
}

// Order is an active front-of-house order. ContextID is the table name for
// dine-in orders and the customer name for takeaway orders.
type Order struct {
	ID        uuid.UUID
	Number    string
	ContextID string
	Type      string
	Items     []LineItem
	Status    string
	CreatedAt time.Time
}

// OrderStore holds the active orders of one session, newest first.
type OrderStore struct {
	mu      sync.Mutex
	orders  []Order
	nextNum int
}

func NewOrderStore() *OrderStore {
	return &OrderStore{nextNum: 1}
}

// Create validates and inserts a new PENDING order at the front of the active
// list. Most-recent-first ordering is part of the display contract.
func (s *OrderStore) Create(contextID, orderType string, items []LineItem) (Order, error) {
	if contextID == "" {
		return Order{}, ErrEmptyContext
	}
	switch orderType {
	case enum.OrderTypeDineIn, enum.OrderTypeTakeaway:
	default:
		return Order{}, ErrInvalidOrderType
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyItems
	}
	for i, it := range items {
		if it.Name == "" {
			return Order{}, fmt.Errorf("items[%d]: %w", i, ErrEmptyItemName)
		}
		if it.Quantity <= 0 {
			return Order{}, fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
		if it.HasPrice && !it.UnitPrice.IsPositive() {
			return Order{}, fmt.Errorf("items[%d]: %w", i, ErrInvalidPrice)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := Order{
		ID:        uuid.New(),
		Number:    fmt.Sprintf("O-%03d", s.nextNum),
		ContextID: contextID,
		Type:      orderType,
		Items:     append([]LineItem(nil), items...),
		Status:    enum.OrderStatusPending,
		CreatedAt: time.Now(),
	}
	s.nextNum++
	s.orders = append([]Order{order}, s.orders...)
	return order, nil
}

// Get returns the order with the given id.
func (s *OrderStore) Get(id uuid.UUID) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrOrderNotFound
}

// CompleteStandalone flips an order to COMPLETED without removing it from the
// active list. This is the takeaway completion mode; dine-in orders are
// instead folded into a bill via RemoveByContext.
func (s *OrderStore) CompleteStandalone(id uuid.UUID) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.orders {
		if o.ID != id {
			continue
		}
		if o.Status == enum.OrderStatusCompleted {
			return Order{}, ErrAlreadyCompleted
		}
		s.orders[i].Status = enum.OrderStatusCompleted
		return s.orders[i], nil
	}
	return Order{}, ErrOrderNotFound
}

// MarkReady flags an order as prepared by the kitchen. Idempotent for orders
// already READY; completed orders can no longer change.
func (s *OrderStore) MarkReady(id uuid.UUID) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.orders {
		if o.ID != id {
			continue
		}
		if o.Status == enum.OrderStatusCompleted {
			return Order{}, ErrAlreadyCompleted
		}
		s.orders[i].Status = enum.OrderStatusReady
		return s.orders[i], nil
	}
	return Order{}, ErrOrderNotFound
}

// RemoveByContext removes every order of the given type for the context from
// the active list and returns them in list order (newest first). Used when
// folding a table's orders into a bill; the caller owns what happens to them
// next. The type guard matters: a takeaway customer may share a name with a
// table, and takeaway orders are never folded.
func (s *OrderStore) RemoveByContext(contextID, orderType string) []Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed, kept []Order
	for _, o := range s.orders {
		if o.ContextID == contextID && o.Type == orderType {
			removed = append(removed, o)
		} else {
			kept = append(kept, o)
		}
	}
	s.orders = kept
	return removed
}

// ListByContext returns all orders for a context, regardless of status,
// newest first.
func (s *OrderStore) ListByContext(contextID string) []Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Order
	for _, o := range s.orders {
		if o.ContextID == contextID {
			out = append(out, o)
		}
	}
	return out
}

// ListByType returns all orders of the given type, newest first.
func (s *OrderStore) ListByType(orderType string) []Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Order
	for _, o := range s.orders {
		if o.Type == orderType {
			out = append(out, o)
		}
	}
	return out
}

// List returns all active orders, newest first.
func (s *OrderStore) List() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Order(nil), s.orders...)
}
