package constants

type NotificationReason string

const (
	ReasonCreatedAvailable              NotificationReason = "created_available"
	ReasonSequentialDependencyCompleted NotificationReason = "sequential_dependency_completed"
	ReasonOrderChanged                  NotificationReason = "order_changed"
)

// ReorderTempOrder is the out-of-range level a subtask is parked on while
// two subtasks swap their sequence_order.
const ReorderTempOrder = -1
