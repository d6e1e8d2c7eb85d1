package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/medroom-api/internal/domain/entity"
)

// La máquina de estados de la solicitud solo avanza hacia adelante:
// pending → {approved, rejected}; approved → {ordered, rejected};
// ordered → received; received y rejected son terminales.
func TestRequestStatus_TransicionesPermitidas(t *testing.T) {
	cases := []struct {
		from, to entity.RequestStatus
		allowed  bool
	}{
		{entity.RequestPending, entity.RequestApproved, true},
		{entity.RequestPending, entity.RequestRejected, true},
		{entity.RequestPending, entity.RequestOrdered, false},
		{entity.RequestPending, entity.RequestReceived, false},
		{entity.RequestApproved, entity.RequestOrdered, true},
		{entity.RequestApproved, entity.RequestRejected, true},
		{entity.RequestApproved, entity.RequestPending, false},
		{entity.RequestApproved, entity.RequestReceived, false},
		{entity.RequestOrdered, entity.RequestReceived, true},
		{entity.RequestOrdered, entity.RequestRejected, false},
		{entity.RequestOrdered, entity.RequestPending, false},
		{entity.RequestReceived, entity.RequestPending, false},
		{entity.RequestReceived, entity.RequestApproved, false},
		{entity.RequestRejected, entity.RequestPending, false},
		{entity.RequestRejected, entity.RequestApproved, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"transición %s → %s", tc.from, tc.to)
	}
}

func TestRequestStatus_Terminales(t *testing.T) {
	assert.True(t, entity.RequestReceived.Terminal())
	assert.True(t, entity.RequestRejected.Terminal())
	assert.False(t, entity.RequestPending.Terminal())
	assert.False(t, entity.RequestApproved.Terminal())
	assert.False(t, entity.RequestOrdered.Terminal())
}

func TestRequestStatus_Valid(t *testing.T) {
	assert.True(t, entity.RequestPending.Valid())
	assert.False(t, entity.RequestStatus("shipped").Valid())
}

func TestValidPriority(t *testing.T) {
	for _, p := range []string{entity.PriorityLow, entity.PriorityMedium, entity.PriorityHigh, entity.PriorityUrgent} {
		assert.True(t, entity.ValidPriority(p))
	}
	assert.False(t, entity.ValidPriority("critical"))
	assert.False(t, entity.ValidPriority(""))
}
