package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedTransitions(t *testing.T) {
	assert.Equal(t, []Status{StatusRelayed, StatusCancelled, StatusRefunded}, AllowedTransitions(StatusPending))
	assert.Equal(t, []Status{StatusConfirmed, StatusCancelled, StatusRefunded}, AllowedTransitions(StatusRelayed))
	assert.Equal(t, []Status{StatusShipped, StatusCancelled, StatusRefunded}, AllowedTransitions(StatusConfirmed))
	assert.Equal(t, []Status{StatusDelivered, StatusCancelled, StatusRefunded}, AllowedTransitions(StatusShipped))
	assert.Empty(t, AllowedTransitions(StatusDelivered))
	assert.Empty(t, AllowedTransitions(StatusCancelled))
	assert.Empty(t, AllowedTransitions(StatusRefunded))
	assert.Nil(t, AllowedTransitions(Status("bogus")))
}

func TestCancelAndRefundFromEveryNonTerminal(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusRelayed, StatusConfirmed, StatusShipped} {
		assert.True(t, CanTransition(from, StatusCancelled), string(from))
		assert.True(t, CanTransition(from, StatusRefunded), string(from))
	}
	for _, from := range []Status{StatusDelivered, StatusCancelled, StatusRefunded} {
		assert.False(t, CanTransition(from, StatusCancelled), string(from))
		assert.False(t, CanTransition(from, StatusRefunded), string(from))
	}
}

func TestNoSkippingSteps(t *testing.T) {
	assert.False(t, CanTransition(StatusPending, StatusConfirmed))
	assert.False(t, CanTransition(StatusPending, StatusShipped))
	assert.False(t, CanTransition(StatusPending, StatusDelivered))
	assert.False(t, CanTransition(StatusRelayed, StatusShipped))
	assert.False(t, CanTransition(StatusConfirmed, StatusDelivered))
}

func TestNoBackwardsEdges(t *testing.T) {
	assert.False(t, CanTransition(StatusRelayed, StatusPending))
	assert.False(t, CanTransition(StatusConfirmed, StatusRelayed))
	assert.False(t, CanTransition(StatusShipped, StatusConfirmed))
	assert.False(t, CanTransition(StatusDelivered, StatusShipped))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusDelivered))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.True(t, IsTerminal(StatusRefunded))
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusShipped))
	assert.False(t, IsTerminal(Status("bogus")))
}
