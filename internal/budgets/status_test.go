package budgets

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ensayelab/ensayelab/internal/shared"
)

func TestTransitionAllowed(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
	}{
		{StatusDraft, StatusPending},
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusApproved, StatusActive},
		{StatusActive, StatusCompleted},
	}
	for _, tc := range cases {
		got, err := Transition(tc.from, tc.to)
		require.NoError(t, err, "%s -> %s", tc.from, tc.to)
		require.Equal(t, tc.to, got)
	}
}

func TestTransitionRejected(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
	}{
		{StatusDraft, StatusApproved},
		{StatusDraft, StatusActive},
		{StatusPending, StatusCompleted},
		{StatusApproved, StatusCompleted},
		{StatusRejected, StatusPending},
		{StatusRejected, StatusApproved},
		{StatusCompleted, StatusActive},
		{StatusCompleted, StatusDraft},
		{StatusActive, StatusApproved},
	}
	for _, tc := range cases {
		_, err := Transition(tc.from, tc.to)
		require.ErrorIs(t, err, shared.ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
	}
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"draft", "pending", "approved", "rejected", "active", "completed"} {
		s, err := ParseStatus(raw)
		require.NoError(t, err)
		require.Equal(t, Status(raw), s)
	}

	_, err := ParseStatus("archived")
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = ParseStatus("")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestMutableAndTerminal(t *testing.T) {
	require.True(t, StatusDraft.Mutable())
	require.True(t, StatusPending.Mutable())
	require.False(t, StatusApproved.Mutable())
	require.False(t, StatusActive.Mutable())
	require.False(t, StatusRejected.Mutable())
	require.False(t, StatusCompleted.Mutable())

	require.True(t, StatusRejected.Terminal())
	require.True(t, StatusCompleted.Terminal())
	require.False(t, StatusDraft.Terminal())
	require.False(t, StatusPending.Terminal())
	require.False(t, StatusApproved.Terminal())
	require.False(t, StatusActive.Terminal())
}
