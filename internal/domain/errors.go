package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared across the engine. Nothing here is fatal to the
// process; every failure is scoped to the requesting operation.
var (
	// ErrNotFound reports an unknown entity, checkpoint or route id.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict reports a stale optimistic-versioned write.
	ErrVersionConflict = errors.New("version conflict")

	// ErrAlreadyListed reports listing an entity already on the exchange.
	// Soft: the entity is left exactly as it was.
	ErrAlreadyListed = errors.New("already listed on the exchange")

	// ErrAlreadyMatched reports a withdrawal attempted after an offer exists.
	ErrAlreadyMatched = errors.New("already matched")

	// ErrNotListed reports a match attempt on a lot not on the exchange.
	ErrNotListed = errors.New("not listed on the exchange")

	// ErrNoCandidate is the legitimate empty-result outcome of a match:
	// no compatible tractor exists right now.
	ErrNoCandidate = errors.New("no candidate tractor")

	// ErrRouteNotFound reports an unresolvable checkpoint or route reference
	// during compatibility checking.
	ErrRouteNotFound = errors.New("route not found")

	// ErrIncompatibleRoute reports a route that does not cover the lot's
	// start and end checkpoints in order.
	ErrIncompatibleRoute = errors.New("incompatible route")

	// ErrConstraintFailure reports a match that exhausted its retry budget
	// under contention, or a pair failing price/capacity constraints.
	ErrConstraintFailure = errors.New("constraint failure")
)

// IllegalTransitionError names the current and attempted states of a
// rejected lifecycle transition.
type IllegalTransitionError struct {
	From State
	To   State
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}

// IsIllegalTransition reports whether err is an IllegalTransitionError.
func IsIllegalTransition(err error) bool {
	var ite *IllegalTransitionError
	return errors.As(err, &ite)
}
