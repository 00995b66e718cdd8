package domain

import "github.com/google/uuid"

// An ordered sequence of checkpoints a tractor traverses.
// Immutable once created; many tractors may share one route.
type Route struct {
	ID          uuid.UUID
	Name        string
	Checkpoints []uuid.UUID
}

// Covers reports whether the route visits start and then end, in order.
// Start and end at the same position only match when they are equal legs,
// which a well-formed lot never asks for.
func (r Route) Covers(start, end uuid.UUID) bool {
	startAt := -1
	for i, cp := range r.Checkpoints {
		if cp == start && startAt < 0 {
			startAt = i
			continue
		}
		if cp == end && startAt >= 0 {
			return true
		}
	}
	return false
}
