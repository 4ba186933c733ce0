package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedTransitions(t *testing.T) {
	assert.Equal(t, []Status{StatusClosed}, AllowedTransitions(StatusOpen))
	assert.Equal(t, []Status{StatusProcessing}, AllowedTransitions(StatusClosed))
	assert.Equal(t, []Status{StatusPaid, StatusFailed}, AllowedTransitions(StatusProcessing))
	assert.Equal(t, []Status{StatusProcessing}, AllowedTransitions(StatusFailed))
	assert.Empty(t, AllowedTransitions(StatusPaid))
	assert.Empty(t, AllowedTransitions(StatusCancelled))
	assert.Nil(t, AllowedTransitions(Status("bogus")))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusOpen, StatusClosed))
	assert.True(t, CanTransition(StatusClosed, StatusProcessing))
	assert.True(t, CanTransition(StatusProcessing, StatusPaid))
	assert.True(t, CanTransition(StatusProcessing, StatusFailed))
	assert.True(t, CanTransition(StatusFailed, StatusProcessing))

	assert.False(t, CanTransition(StatusOpen, StatusProcessing))
	assert.False(t, CanTransition(StatusOpen, StatusPaid))
	assert.False(t, CanTransition(StatusClosed, StatusOpen))
	assert.False(t, CanTransition(StatusPaid, StatusProcessing))
	assert.False(t, CanTransition(StatusPaid, StatusFailed))
	assert.False(t, CanTransition(StatusCancelled, StatusOpen))
	assert.False(t, CanTransition(StatusFailed, StatusPaid))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusPaid))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusOpen))
	assert.False(t, IsTerminal(StatusFailed))
	assert.False(t, IsTerminal(Status("bogus")))
}

func TestActionTargetStatus(t *testing.T) {
	cases := []struct {
		action Action
		want   Status
	}{
		{ActionConfirm, StatusClosed},
		{ActionStartProcessing, StatusProcessing},
		{ActionMarkPaid, StatusPaid},
		{ActionMarkFailed, StatusFailed},
		{ActionRetry, StatusProcessing},
	}
	for _, tc := range cases {
		got, err := tc.action.TargetStatus()
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, string(tc.action))
	}

	_, err := Action("explode").TargetStatus()
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestActionRequiresReason(t *testing.T) {
	assert.True(t, ActionMarkFailed.RequiresReason())
	assert.False(t, ActionConfirm.RequiresReason())
	assert.False(t, ActionStartProcessing.RequiresReason())
	assert.False(t, ActionMarkPaid.RequiresReason())
	assert.False(t, ActionRetry.RequiresReason())
}
