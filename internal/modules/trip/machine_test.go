// README: State machine transition table tests.
package trip

import "testing"

// TestCanTransition verifies the transition table without a database.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// happy-path forward transitions
		{StatusDraft, StatusDispatched, true},
		{StatusDispatched, StatusCompleted, true},
		// cancels from both non-terminal states
		{StatusDraft, StatusCancelled, true},
		{StatusDispatched, StatusCancelled, true},
		// invalid: skipping dispatch
		{StatusDraft, StatusCompleted, false},
		// invalid: terminal states have no outgoing transitions
		{StatusCompleted, StatusDispatched, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusDispatched, false},
		{StatusCancelled, StatusCompleted, false},
		// invalid: backwards
		{StatusDispatched, StatusDraft, false},
		{StatusCompleted, StatusDraft, false},
		// invalid: no self-loops
		{StatusDraft, StatusDraft, false},
		{StatusDispatched, StatusDispatched, false},
	}
	for _, tc := range cases {
		got := CanTransition(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusDispatched, StatusCompleted, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if Status("in_progress").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}
