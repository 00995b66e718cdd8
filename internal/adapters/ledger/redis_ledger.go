package ledger

import (
	"context"
	"fmt"
	"freight-exchange-service/internal/domain"
	"sort"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis-backed exchange ledger for multi-instance deployments: one set per
// resource type and entity kind. Set semantics give idempotent listing for
// free.
type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

func lotKey(rt domain.ResourceType) string {
	return "exchange:lots:" + string(rt)
}

func tractorKey(rt domain.ResourceType) string {
	return "exchange:tractors:" + string(rt)
}

func (l *RedisLedger) AddLot(ctx context.Context, rt domain.ResourceType, id uuid.UUID) error {
	if err := l.client.SAdd(ctx, lotKey(rt), id.String()).Err(); err != nil {
		return fmt.Errorf("ledger add lot %s: %w", id, err)
	}
	return nil
}

func (l *RedisLedger) RemoveLot(ctx context.Context, rt domain.ResourceType, id uuid.UUID) error {
	if err := l.client.SRem(ctx, lotKey(rt), id.String()).Err(); err != nil {
		return fmt.Errorf("ledger remove lot %s: %w", id, err)
	}
	return nil
}

func (l *RedisLedger) AddTractor(ctx context.Context, rt domain.ResourceType, id uuid.UUID) error {
	if err := l.client.SAdd(ctx, tractorKey(rt), id.String()).Err(); err != nil {
		return fmt.Errorf("ledger add tractor %s: %w", id, err)
	}
	return nil
}

func (l *RedisLedger) RemoveTractor(ctx context.Context, rt domain.ResourceType, id uuid.UUID) error {
	if err := l.client.SRem(ctx, tractorKey(rt), id.String()).Err(); err != nil {
		return fmt.Errorf("ledger remove tractor %s: %w", id, err)
	}
	return nil
}

func (l *RedisLedger) TractorCandidates(ctx context.Context, rt domain.ResourceType) ([]uuid.UUID, error) {
	return l.members(ctx, tractorKey(rt))
}

func (l *RedisLedger) LotCandidates(ctx context.Context, rt domain.ResourceType) ([]uuid.UUID, error) {
	return l.members(ctx, lotKey(rt))
}

func (l *RedisLedger) members(ctx context.Context, key string) ([]uuid.UUID, error) {
	members, err := l.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("ledger candidates %s: %w", key, err)
	}

	out := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			// A malformed member is operator damage; skip rather than
			// blocking every match for the resource type.
			continue
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}
