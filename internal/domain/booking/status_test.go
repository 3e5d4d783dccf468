package booking

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusConfirmed, StatusConfirmed, false},
	}

	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestTransitionSourcesMatchTable(t *testing.T) {
	for to, sources := range allowedTransitions {
		got := transitionSources(to)
		if len(got) != len(sources) {
			t.Fatalf("transitionSources(%s) returned %d sources, want %d", to, len(got), len(sources))
		}
		for i, s := range sources {
			if got[i] != string(s) {
				t.Errorf("transitionSources(%s)[%d] = %s, want %s", to, i, got[i], s)
			}
		}
	}
}
