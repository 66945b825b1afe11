package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	all := []OrderStatus{OrderPending, OrderAccepted, OrderReadyForPickup, OrderPickedUp, OrderCancelled}

	allowed := map[OrderStatus]map[OrderStatus]bool{
		OrderPending:        {OrderAccepted: true, OrderCancelled: true},
		OrderAccepted:       {OrderReadyForPickup: true, OrderCancelled: true},
		OrderReadyForPickup: {OrderPickedUp: true},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, OrderPickedUp.Terminal())
	assert.True(t, OrderCancelled.Terminal())
	assert.False(t, OrderPending.Terminal())
	assert.False(t, OrderAccepted.Terminal())
	assert.False(t, OrderReadyForPickup.Terminal())
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, OrderReadyForPickup.Valid())
	assert.False(t, OrderStatus("shipped").Valid())
}

func TestOrderStatus_Progress(t *testing.T) {
	assert.Equal(t, 25, OrderPending.Progress())
	assert.Equal(t, 100, OrderPickedUp.Progress())
	assert.Equal(t, 0, OrderCancelled.Progress())
}

func TestTaskStatus_Terminal(t *testing.T) {
	assert.False(t, TaskPending.Terminal())
	assert.True(t, TaskCompleted.Terminal())
	assert.True(t, TaskCancelled.Terminal())
}

func TestEnumsValid(t *testing.T) {
	assert.True(t, PaymentPieceRate.Valid())
	assert.False(t, PaymentType("share").Valid())
	assert.True(t, TaskHarvesting.Valid())
	assert.False(t, TaskType("dancing").Valid())
	assert.True(t, RoleFarmer.Valid())
	assert.False(t, Role("admin").Valid())
}
