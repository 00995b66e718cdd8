package ledger

import (
	"context"
	"freight-exchange-service/internal/domain"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// In-process exchange ledger: per-resource-type id sets behind a mutex.
type MemoryLedger struct {
	mu       sync.Mutex
	lots     map[domain.ResourceType]map[uuid.UUID]struct{}
	tractors map[domain.ResourceType]map[uuid.UUID]struct{}
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		lots:     map[domain.ResourceType]map[uuid.UUID]struct{}{},
		tractors: map[domain.ResourceType]map[uuid.UUID]struct{}{},
	}
}

func (l *MemoryLedger) AddLot(ctx context.Context, rt domain.ResourceType, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	add(l.lots, rt, id)
	return nil
}

func (l *MemoryLedger) RemoveLot(ctx context.Context, rt domain.ResourceType, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	remove(l.lots, rt, id)
	return nil
}

func (l *MemoryLedger) AddTractor(ctx context.Context, rt domain.ResourceType, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	add(l.tractors, rt, id)
	return nil
}

func (l *MemoryLedger) RemoveTractor(ctx context.Context, rt domain.ResourceType, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	remove(l.tractors, rt, id)
	return nil
}

func (l *MemoryLedger) TractorCandidates(ctx context.Context, rt domain.ResourceType) ([]uuid.UUID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sortedIDs(l.tractors[rt]), nil
}

func (l *MemoryLedger) LotCandidates(ctx context.Context, rt domain.ResourceType) ([]uuid.UUID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sortedIDs(l.lots[rt]), nil
}

func sortedIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func add(m map[domain.ResourceType]map[uuid.UUID]struct{}, rt domain.ResourceType, id uuid.UUID) {
	set, ok := m[rt]
	if !ok {
		set = map[uuid.UUID]struct{}{}
		m[rt] = set
	}
	set[id] = struct{}{}
}

func remove(m map[domain.ResourceType]map[uuid.UUID]struct{}, rt domain.ResourceType, id uuid.UUID) {
	if set, ok := m[rt]; ok {
		delete(set, id)
	}
}
