package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prepaidAt(s Status) *Order {
	return &Order{ID: "o1", PaymentMethod: PaymentPrepaid, Status: s}
}

func codAt(s Status) *Order {
	return &Order{ID: "o1", PaymentMethod: PaymentCOD, Status: s}
}

func TestCanTransition_HappyPathPrepaid(t *testing.T) {
	assert.True(t, CanTransition(prepaidAt(StatusPaid), StatusShipped))
	assert.True(t, CanTransition(prepaidAt(StatusShipped), StatusDispatched))
	assert.True(t, CanTransition(prepaidAt(StatusDispatched), StatusDelivered))
}

func TestCanTransition_PrepaidMustBePaidBeforeShipping(t *testing.T) {
	assert.False(t, CanTransition(prepaidAt(StatusOrderPlaced), StatusShipped))
	assert.False(t, CanTransition(prepaidAt(StatusOrderPlaced), StatusDelivered))
}

func TestCanTransition_CODSkipsPaid(t *testing.T) {
	assert.True(t, CanTransition(codAt(StatusOrderPlaced), StatusShipped))
	assert.False(t, CanTransition(codAt(StatusOrderPlaced), StatusDispatched))
	assert.True(t, CanTransition(codAt(StatusShipped), StatusDispatched))
}

func TestCanTransition_PaidNeverAnAdminTarget(t *testing.T) {
	assert.False(t, CanTransition(prepaidAt(StatusOrderPlaced), StatusPaid))
	assert.False(t, CanTransition(codAt(StatusOrderPlaced), StatusPaid))
	assert.False(t, CanTransition(prepaidAt(StatusShipped), StatusPaid))
}

func TestCanTransition_NoSkipping(t *testing.T) {
	assert.False(t, CanTransition(prepaidAt(StatusPaid), StatusDispatched))
	assert.False(t, CanTransition(prepaidAt(StatusPaid), StatusDelivered))
	assert.False(t, CanTransition(prepaidAt(StatusShipped), StatusDelivered))
}

func TestCanTransition_NoGoingBack(t *testing.T) {
	assert.False(t, CanTransition(prepaidAt(StatusDispatched), StatusShipped))
	assert.False(t, CanTransition(prepaidAt(StatusShipped), StatusOrderPlaced))
}

func TestCanTransition_CancelFromAnyNonTerminal(t *testing.T) {
	for _, s := range []Status{StatusOrderPlaced, StatusPaid, StatusShipped, StatusDispatched} {
		assert.True(t, CanTransition(prepaidAt(s), StatusCancelled), "cancel from %s", s)
	}
	assert.False(t, CanTransition(prepaidAt(StatusDelivered), StatusCancelled))
	assert.False(t, CanTransition(prepaidAt(StatusCancelled), StatusCancelled))
}

func TestCanTransition_TerminalStatesFrozen(t *testing.T) {
	for _, next := range []Status{StatusOrderPlaced, StatusPaid, StatusShipped, StatusDispatched, StatusDelivered} {
		assert.False(t, CanTransition(prepaidAt(StatusDelivered), next), "delivered -> %s", next)
		assert.False(t, CanTransition(prepaidAt(StatusCancelled), next), "cancelled -> %s", next)
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition(prepaidAt(StatusPaid), Status("packed")))
}

func TestBuildTimeline_OrderPlaced(t *testing.T) {
	now := time.Now().UTC()
	o := codAt(StatusOrderPlaced)
	tl := BuildTimeline(o, []StatusChange{{Status: StatusOrderPlaced, ChangedAt: now}})

	require.Len(t, tl.Steps, 4)
	assert.True(t, tl.Steps[0].Completed)
	assert.True(t, tl.Steps[0].Current)
	require.NotNil(t, tl.Steps[0].ChangedAt)
	assert.False(t, tl.Steps[1].Completed)
	assert.False(t, tl.Cancelled)
}

func TestBuildTimeline_PaidMapsToFirstStep(t *testing.T) {
	o := prepaidAt(StatusPaid)
	tl := BuildTimeline(o, nil)

	assert.True(t, tl.Steps[0].Completed)
	assert.True(t, tl.Steps[0].Current)
	assert.False(t, tl.Steps[1].Completed)
}

func TestBuildTimeline_Dispatched(t *testing.T) {
	now := time.Now().UTC()
	history := []StatusChange{
		{Status: StatusOrderPlaced, ChangedAt: now.Add(-3 * time.Hour)},
		{Status: StatusShipped, ChangedAt: now.Add(-2 * time.Hour)},
		{Status: StatusDispatched, ChangedAt: now.Add(-time.Hour)},
	}
	tl := BuildTimeline(prepaidAt(StatusDispatched), history)

	assert.True(t, tl.Steps[0].Completed)
	assert.True(t, tl.Steps[1].Completed)
	assert.True(t, tl.Steps[2].Completed)
	assert.True(t, tl.Steps[2].Current)
	assert.False(t, tl.Steps[3].Completed)
	require.NotNil(t, tl.Steps[1].ChangedAt)
	assert.Equal(t, now.Add(-2*time.Hour), *tl.Steps[1].ChangedAt)
}

func TestBuildTimeline_CancelledFreezesProgress(t *testing.T) {
	now := time.Now().UTC()
	history := []StatusChange{
		{Status: StatusOrderPlaced, ChangedAt: now.Add(-2 * time.Hour)},
		{Status: StatusShipped, ChangedAt: now.Add(-time.Hour)},
		{Status: StatusCancelled, ChangedAt: now},
	}
	tl := BuildTimeline(prepaidAt(StatusCancelled), history)

	assert.True(t, tl.Cancelled)
	assert.True(t, tl.Steps[0].Completed)
	assert.True(t, tl.Steps[1].Completed)
	assert.False(t, tl.Steps[2].Completed)
	for _, step := range tl.Steps {
		assert.False(t, step.Current)
	}
}
