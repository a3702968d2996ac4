package account

import "testing"

func TestCanTransition_MatchesTable(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusActive, true},
		{StatusPending, StatusClosed, true},
		{StatusPending, StatusFrozen, false},
		{StatusActive, StatusFrozen, true},
		{StatusActive, StatusBlocked, true},
		{StatusActive, StatusClosed, true},
		{StatusActive, StatusPending, false},
		{StatusFrozen, StatusActive, true},
		{StatusFrozen, StatusBlocked, true},
		{StatusFrozen, StatusClosed, false},
		{StatusBlocked, StatusClosed, true},
		{StatusBlocked, StatusActive, false},
		{StatusClosed, StatusActive, false},
		{StatusClosed, StatusPending, false},
	}
	for _, c := range cases {
		if got := canTransition(c.from, c.to); got != c.want {
			t.Errorf("canTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}
