package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNoOrders is returned when a bill is requested for zero orders.
var ErrNoOrders = errors.New("orders are required")

// Bill is an immutable record of billed items. Once created it is never
// mutated or deleted; its total is never recomputed.
type Bill struct {
	ID        uuid.UUID
	Number    string
	Source    string // table name or customer name
	Type      string
	Items     []LineItem
	Total     decimal.Decimal
	CreatedAt time.Time
}

// BillLog is the append-only log of issued bills, newest first.
type BillLog struct {
	mu      sync.Mutex
	bills   []Bill
	nextNum int
}

func NewBillLog() *BillLog {
	return &BillLog{nextNum: 1}
}

// Create flattens the items of the given orders, in the sequence given and
// preserving each order's internal item order, into one bill and appends it
// to the log. It does not touch the order store; callers are responsible for
// removing or flagging the consumed orders.
func (l *BillLog) Create(source, billType string, orders []Order) (Bill, error) {
	if len(orders) == 0 {
		return Bill{}, ErrNoOrders
	}

	var items []LineItem
	total := decimal.Zero
	for _, o := range orders {
		for _, it := range o.Items {
			items = append(items, it)
			total = total.Add(it.Price().Mul(decimal.NewFromInt32(it.Quantity)))
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bill := Bill{
		ID:        uuid.New(),
		Number:    fmt.Sprintf("B-%03d", l.nextNum),
		Source:    source,
		Type:      billType,
		Items:     items,
		Total:     total,
		CreatedAt: time.Now(),
	}
	l.nextNum++
	l.bills = append([]Bill{bill}, l.bills...)
	return bill, nil
}

// List returns all bills, newest first.
func (l *BillLog) List() []Bill {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Bill(nil), l.bills...)
}

// RevenueByType sums bill totals grouped by bill type.
func (l *BillLog) RevenueByType() map[string]decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]decimal.Decimal)
	for _, b := range l.bills {
		out[b.Type] = out[b.Type].Add(b.Total)
	}
	return out
}
