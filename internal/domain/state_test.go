package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestStateCanTransition(t *testing.T) {
	cases := []struct {
		from State
		to   State
		want bool
	}{
		{StateAvailable, StateOnStockExchange, true},
		{StateOnStockExchange, StateOnTheWay, true},
		{StateOnStockExchange, StateAvailable, true}, // withdrawal
		{StateOnTheWay, StateArchived, true},

		{StateAvailable, StateOnTheWay, false},
		{StateAvailable, StateArchived, false},
		{StateOnStockExchange, StateArchived, false},
		{StateOnTheWay, StateAvailable, false},
		{StateOnTheWay, StateOnStockExchange, false},
		{StateArchived, StateAvailable, false},
		{StateArchived, StateOnStockExchange, false},
		{StateArchived, StateOnTheWay, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestStateValid(t *testing.T) {
	for _, s := range []State{StateAvailable, StateOnStockExchange, StateOnTheWay, StateArchived} {
		if !s.Valid() {
			t.Errorf("state %q should be valid", s)
		}
	}
	if State("pending").Valid() {
		t.Error("unknown state should not be valid")
	}
}

func TestRouteCovers(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	route := Route{Checkpoints: []uuid.UUID{a, b, c}}

	if !route.Covers(a, c) {
		t.Error("expected a -> c covered")
	}
	if !route.Covers(a, b) {
		t.Error("expected a -> b covered (adjacent legs)")
	}
	if route.Covers(c, a) {
		t.Error("reverse order must not be covered")
	}
	if route.Covers(a, uuid.New()) {
		t.Error("unknown end must not be covered")
	}
	if (Route{}).Covers(a, b) {
		t.Error("empty route must not cover anything")
	}
}
