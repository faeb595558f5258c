package order

import "time"

type Status string

const (
	StatusOrderPlaced Status = "order_placed"
	StatusPaid        Status = "paid"
	StatusShipped     Status = "shipped"
	StatusDispatched  Status = "dispatched"
	StatusDelivered   Status = "delivered"
	StatusCancelled   Status = "cancelled"
)

// TimelineSteps are the customer-facing happy-path states in display order.
// Paid is deliberately absent: the timeline shows fulfilment progress, and a
// paid prepaid order is still at the "order placed" step.
var TimelineSteps = []Status{StatusOrderPlaced, StatusShipped, StatusDispatched, StatusDelivered}

func (s Status) Valid() bool {
	switch s {
	case StatusOrderPlaced, StatusPaid, StatusShipped, StatusDispatched, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an administrative update may move o to next.
// Paid is never a valid administrative target: prepaid orders reach it only
// through payment verification. Cancelled is reachable from any non-terminal
// state. A prepaid order must be paid before it ships; COD orders ship
// straight from order_placed.
func CanTransition(o *Order, next Status) bool {
	if !next.Valid() || o.Status.Terminal() || next == o.Status {
		return false
	}
	if next == StatusPaid {
		return false
	}
	if next == StatusCancelled {
		return true
	}

	switch o.Status {
	case StatusOrderPlaced:
		return next == StatusShipped && o.IsCOD()
	case StatusPaid:
		return next == StatusShipped
	case StatusShipped:
		return next == StatusDispatched
	case StatusDispatched:
		return next == StatusDelivered
	}
	return false
}

type TimelineStep struct {
	Status    Status     `json:"status"`
	Completed bool       `json:"completed"`
	Current   bool       `json:"current"`
	ChangedAt *time.Time `json:"changed_at,omitempty"`
}

type Timeline struct {
	OrderID   string         `json:"order_id"`
	Status    Status         `json:"status"`
	Cancelled bool           `json:"cancelled"`
	Steps     []TimelineStep `json:"steps"`
}

func stepIndex(s Status) int {
	for i, step := range TimelineSteps {
		if step == s {
			return i
		}
	}
	return -1
}

// BuildTimeline computes the four-step progress view for an order. A step is
// completed when its index is at or before the current status's index; paid
// maps onto the order_placed step. For cancelled orders progress freezes at
// the furthest step recorded in history.
func BuildTimeline(o *Order, history []StatusChange) *Timeline {
	current := stepIndex(o.Status)
	if o.Status == StatusPaid {
		current = stepIndex(StatusOrderPlaced)
	}
	if o.Status == StatusCancelled {
		current = -1
		for _, h := range history {
			if i := stepIndex(h.Status); i > current {
				current = i
			}
		}
	}

	changedAt := make(map[Status]time.Time, len(history))
	for _, h := range history {
		if _, seen := changedAt[h.Status]; !seen {
			changedAt[h.Status] = h.ChangedAt
		}
	}

	tl := &Timeline{
		OrderID:   o.ID,
		Status:    o.Status,
		Cancelled: o.Status == StatusCancelled,
	}
	for i, s := range TimelineSteps {
		step := TimelineStep{
			Status:    s,
			Completed: i <= current,
			Current:   i == current && !tl.Cancelled,
		}
		if ts, ok := changedAt[s]; ok {
			t := ts
			step.ChangedAt = &t
		}
		tl.Steps = append(tl.Steps, step)
	}
	return tl
}
