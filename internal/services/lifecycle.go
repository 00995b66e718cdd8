package services

import (
	"context"
	"errors"
	"fmt"
	"freight-exchange-service/internal/domain"
	"freight-exchange-service/internal/ports"
	"log"

	"github.com/google/uuid"
)

// Lifecycle drives lot and tractor state along the exchange lifecycle
// (AVAILABLE -> ON_THE_STOCK_EXCHANGE -> ON_THE_WAY -> ARCHIVED) and keeps
// the exchange ledger in step with the durable state.
type Lifecycle struct {
	Lots     ports.LotRepository
	Tractors ports.TractorRepository
	Offers   ports.OfferRepository
	Store    ports.ExchangeStore
	Ledger   ports.ExchangeLedger
	Catalog  ports.RouteCatalog
}

// ListLot puts a lot on the exchange.
// Listing an already-listed lot changes nothing and reports
// domain.ErrAlreadyListed; other source states are illegal.
func (lc *Lifecycle) ListLot(ctx context.Context, lotID uuid.UUID) error {
	lot, err := lc.Lots.GetLot(ctx, lotID)
	if err != nil {
		return fmt.Errorf("list lot %s: %w", lotID, err)
	}

	if lot.State == domain.StateOnStockExchange {
		return fmt.Errorf("list lot %s: %w", lotID, domain.ErrAlreadyListed)
	}
	if !lot.State.CanTransition(domain.StateOnStockExchange) {
		return fmt.Errorf("list lot %s: %w", lotID,
			&domain.IllegalTransitionError{From: lot.State, To: domain.StateOnStockExchange})
	}

	lot.State = domain.StateOnStockExchange
	if err := lc.Lots.UpdateLot(ctx, lot); err != nil {
		return fmt.Errorf("list lot %s: %w", lotID, err)
	}
	if err := lc.Ledger.AddLot(ctx, lot.ResourceType, lot.ID); err != nil {
		return fmt.Errorf("list lot %s: index on ledger: %w", lotID, err)
	}

	log.Printf("op=list_lot lot=%s resource=%s", lot.ID, lot.ResourceType)
	return nil
}

// WithdrawLot takes a listed lot back off the exchange. Once an offer
// references the lot the withdrawal fails with domain.ErrAlreadyMatched.
func (lc *Lifecycle) WithdrawLot(ctx context.Context, lotID uuid.UUID) error {
	lot, err := lc.Lots.GetLot(ctx, lotID)
	if err != nil {
		return fmt.Errorf("withdraw lot %s: %w", lotID, err)
	}

	if _, err := lc.Offers.GetOfferByLot(ctx, lotID); err == nil {
		return fmt.Errorf("withdraw lot %s: %w", lotID, domain.ErrAlreadyMatched)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("withdraw lot %s: look up offer: %w", lotID, err)
	}

	if lot.State != domain.StateOnStockExchange {
		return fmt.Errorf("withdraw lot %s: %w", lotID,
			&domain.IllegalTransitionError{From: lot.State, To: domain.StateAvailable})
	}

	lot.State = domain.StateAvailable
	if err := lc.Lots.UpdateLot(ctx, lot); err != nil {
		// A version conflict here usually means a match landed between the
		// offer check and the write; the caller should see that, not a
		// generic retry hint.
		if errors.Is(err, domain.ErrVersionConflict) {
			if _, oerr := lc.Offers.GetOfferByLot(ctx, lotID); oerr == nil {
				return fmt.Errorf("withdraw lot %s: %w", lotID, domain.ErrAlreadyMatched)
			}
		}
		return fmt.Errorf("withdraw lot %s: %w", lotID, err)
	}
	if err := lc.Ledger.RemoveLot(ctx, lot.ResourceType, lot.ID); err != nil {
		return fmt.Errorf("withdraw lot %s: remove from ledger: %w", lotID, err)
	}

	log.Printf("op=withdraw_lot lot=%s", lot.ID)
	return nil
}

// ListTractor puts a tractor on the exchange.
func (lc *Lifecycle) ListTractor(ctx context.Context, tractorID uuid.UUID) error {
	tractor, err := lc.Tractors.GetTractor(ctx, tractorID)
	if err != nil {
		return fmt.Errorf("list tractor %s: %w", tractorID, err)
	}

	if tractor.State == domain.StateOnStockExchange {
		return fmt.Errorf("list tractor %s: %w", tractorID, domain.ErrAlreadyListed)
	}
	if !tractor.State.CanTransition(domain.StateOnStockExchange) {
		return fmt.Errorf("list tractor %s: %w", tractorID,
			&domain.IllegalTransitionError{From: tractor.State, To: domain.StateOnStockExchange})
	}

	tractor.State = domain.StateOnStockExchange
	if err := lc.Tractors.UpdateTractor(ctx, tractor); err != nil {
		return fmt.Errorf("list tractor %s: %w", tractorID, err)
	}
	if err := lc.Ledger.AddTractor(ctx, tractor.ResourceType, tractor.ID); err != nil {
		return fmt.Errorf("list tractor %s: index on ledger: %w", tractorID, err)
	}

	log.Printf("op=list_tractor tractor=%s resource=%s", tractor.ID, tractor.ResourceType)
	return nil
}

// WithdrawTractor takes a listed tractor back off the exchange. A matched
// tractor is ON_THE_WAY and fails the transition check.
func (lc *Lifecycle) WithdrawTractor(ctx context.Context, tractorID uuid.UUID) error {
	tractor, err := lc.Tractors.GetTractor(ctx, tractorID)
	if err != nil {
		return fmt.Errorf("withdraw tractor %s: %w", tractorID, err)
	}

	if tractor.State != domain.StateOnStockExchange {
		return fmt.Errorf("withdraw tractor %s: %w", tractorID,
			&domain.IllegalTransitionError{From: tractor.State, To: domain.StateAvailable})
	}

	tractor.State = domain.StateAvailable
	if err := lc.Tractors.UpdateTractor(ctx, tractor); err != nil {
		return fmt.Errorf("withdraw tractor %s: %w", tractorID, err)
	}
	if err := lc.Ledger.RemoveTractor(ctx, tractor.ResourceType, tractor.ID); err != nil {
		return fmt.Errorf("withdraw tractor %s: remove from ledger: %w", tractorID, err)
	}

	log.Printf("op=withdraw_tractor tractor=%s", tractor.ID)
	return nil
}

// AdvanceCheckpoint records an externally reported position for a lot in
// transit. Reaching the end checkpoint archives the lot and releases its
// volume from the matched tractor in one atomic commit; the tractor reverts
// to AVAILABLE when no other lots ride it, otherwise it keeps its state.
func (lc *Lifecycle) AdvanceCheckpoint(ctx context.Context, lotID, checkpointID uuid.UUID) error {
	lot, err := lc.Lots.GetLot(ctx, lotID)
	if err != nil {
		return fmt.Errorf("advance lot %s: %w", lotID, err)
	}

	if lot.State != domain.StateOnTheWay {
		return fmt.Errorf("advance lot %s: %w", lotID,
			&domain.IllegalTransitionError{From: lot.State, To: domain.StateArchived})
	}

	if _, err := lc.Catalog.ResolveCheckpoint(ctx, checkpointID); err != nil {
		return fmt.Errorf("advance lot %s: checkpoint %s: %w", lotID, checkpointID, err)
	}

	lot.CurrentCheckpointID = checkpointID
	if !lot.Delivered() {
		if err := lc.Lots.UpdateLot(ctx, lot); err != nil {
			return fmt.Errorf("advance lot %s: %w", lotID, err)
		}
		log.Printf("op=advance_checkpoint lot=%s checkpoint=%s", lot.ID, checkpointID)
		return nil
	}

	if lot.TractorID == nil {
		return fmt.Errorf("advance lot %s: lot is on the way without a tractor", lotID)
	}
	tractor, err := lc.Tractors.GetTractor(ctx, *lot.TractorID)
	if err != nil {
		return fmt.Errorf("advance lot %s: tractor %s: %w", lotID, *lot.TractorID, err)
	}

	lot.State = domain.StateArchived

	tractor.CurrentUnits -= lot.Volume
	if tractor.CurrentUnits < 0 {
		tractor.CurrentUnits = 0
	}

	remaining, err := lc.Lots.ListLotsByTractor(ctx, tractor.ID)
	if err != nil {
		return fmt.Errorf("advance lot %s: list tractor lots: %w", lotID, err)
	}
	active := 0
	for _, other := range remaining {
		if other.ID != lot.ID && other.State == domain.StateOnTheWay {
			active++
		}
	}
	if active == 0 {
		tractor.State = domain.StateAvailable
	}

	if err := lc.Store.CommitArchival(ctx, lot, tractor); err != nil {
		return fmt.Errorf("advance lot %s: commit archival: %w", lotID, err)
	}

	log.Printf("op=archive_lot lot=%s tractor=%s released=%v tractor_state=%s",
		lot.ID, tractor.ID, lot.Volume, tractor.State)
	return nil
}
