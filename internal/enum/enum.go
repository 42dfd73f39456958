package enum

// --- State machines ---

const (
	OrderStatusPending   = "PENDING"
	OrderStatusReady     = "READY"
	OrderStatusCompleted = "COMPLETED"
)

const (
	TableStatusAvailable = "AVAILABLE"
	TableStatusOccupied  = "OCCUPIED"
)

const (
	QueueStatusWaiting = "WAITING"
	QueueStatusCalled  = "CALLED"
)

// --- Closed label sets ---

// Role values match what the web clients send at login.
const (
	RoleAdmin        = "admin"
	RoleWaiter       = "waiter"
	RoleChef         = "chef"
	RoleTableManager = "tableManager"
)

const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypeTakeaway = "TAKEAWAY"
)

// ValidRole reports whether s is one of the four known roles.
func ValidRole(s string) bool {
	switch s {
	case RoleAdmin, RoleWaiter, RoleChef, RoleTableManager:
		return true
	}
	return false
}
