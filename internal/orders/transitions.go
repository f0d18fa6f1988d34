package orders

import "github.com/adnankhalid/painthub-backend/pkg/enums"

// allowedTransitions is the directed edge set of the order lifecycle. A status
// missing from the map is terminal.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed:  {enums.OrderStatusProcessing, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered, enums.OrderStatusReturned},
	enums.OrderStatusDelivered:  {enums.OrderStatusReturned},
}

// CanTransition reports whether from -> to is an edge of the lifecycle.
// Self-transitions are not edges; callers treat them as no-ops.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// trackingAttachable lists the statuses a tracking number may be attached in.
var trackingAttachable = map[enums.OrderStatus]struct{}{
	enums.OrderStatusConfirmed:  {},
	enums.OrderStatusProcessing: {},
	enums.OrderStatusShipped:    {},
}

// CanAttachTracking reports whether the status accepts a tracking number.
func CanAttachTracking(status enums.OrderStatus) bool {
	_, ok := trackingAttachable[status]
	return ok
}
