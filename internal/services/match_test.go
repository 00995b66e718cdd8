package services

import (
	"context"
	"errors"
	"freight-exchange-service/internal/adapters/catalog"
	"freight-exchange-service/internal/adapters/ledger"
	"freight-exchange-service/internal/adapters/repositories"
	"freight-exchange-service/internal/domain"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// engine bundles the services over in-memory adapters with a three-stop
// route (paris -> lyon -> marseille) preloaded in the catalog.
type engine struct {
	store   *repositories.MemoryStore
	ledger  *ledger.MemoryLedger
	catalog *catalog.MemoryCatalog

	matcher   *Matcher
	lifecycle *Lifecycle

	paris, lyon, marseille uuid.UUID
	routeID                uuid.UUID
}

func newEngine(t *testing.T) *engine {
	t.Helper()

	e := &engine{
		store:     repositories.NewMemoryStore(),
		ledger:    ledger.NewMemoryLedger(),
		catalog:   catalog.NewMemoryCatalog(),
		paris:     uuid.New(),
		lyon:      uuid.New(),
		marseille: uuid.New(),
		routeID:   uuid.New(),
	}

	e.catalog.AddCheckpoint(domain.Checkpoint{ID: e.paris, Name: "Paris", Country: "France"})
	e.catalog.AddCheckpoint(domain.Checkpoint{ID: e.lyon, Name: "Lyon", Country: "France"})
	e.catalog.AddCheckpoint(domain.Checkpoint{ID: e.marseille, Name: "Marseille", Country: "France"})
	e.catalog.AddRoute(domain.Route{
		ID:          e.routeID,
		Name:        "Rhone corridor",
		Checkpoints: []uuid.UUID{e.paris, e.lyon, e.marseille},
	})

	e.matcher = &Matcher{
		Lots:     e.store,
		Tractors: e.store,
		Offers:   e.store,
		Store:    e.store,
		Ledger:   e.ledger,
		Catalog:  e.catalog,
	}
	e.lifecycle = &Lifecycle{
		Lots:     e.store,
		Tractors: e.store,
		Offers:   e.store,
		Store:    e.store,
		Ledger:   e.ledger,
		Catalog:  e.catalog,
	}
	return e
}

// addLot creates a listed grain lot paris -> marseille and indexes it.
func (e *engine) addLot(t *testing.T, volume, maxPrice float64) *domain.Lot {
	t.Helper()

	lot := &domain.Lot{
		ID:                  uuid.New(),
		Name:                "lot",
		ResourceType:        "grain",
		Volume:              volume,
		StartCheckpointID:   e.paris,
		EndCheckpointID:     e.marseille,
		CurrentCheckpointID: e.paris,
		OwnerID:             uuid.New(),
		MaxPriceByKm:        maxPrice,
		State:               domain.StateOnStockExchange,
		CreatedAt:           time.Now(),
	}
	if err := e.store.CreateLot(context.Background(), lot); err != nil {
		t.Fatalf("create lot: %v", err)
	}
	if err := e.ledger.AddLot(context.Background(), lot.ResourceType, lot.ID); err != nil {
		t.Fatalf("index lot: %v", err)
	}
	return lot
}

// addTractor creates a listed grain tractor on the preloaded route.
func (e *engine) addTractor(t *testing.T, maxUnits, minPrice float64, createdAt time.Time) *domain.Tractor {
	t.Helper()

	routeID := e.routeID
	tractor := &domain.Tractor{
		ID:                  uuid.New(),
		Name:                "tractor",
		ResourceType:        "grain",
		MaxUnits:            maxUnits,
		CurrentCheckpointID: e.paris,
		OwnerID:             uuid.New(),
		RouteID:             &routeID,
		MinPriceByKm:        minPrice,
		State:               domain.StateOnStockExchange,
		CreatedAt:           createdAt,
	}
	if err := e.store.CreateTractor(context.Background(), tractor); err != nil {
		t.Fatalf("create tractor: %v", err)
	}
	if err := e.ledger.AddTractor(context.Background(), tractor.ResourceType, tractor.ID); err != nil {
		t.Fatalf("index tractor: %v", err)
	}
	return tractor
}

func TestMatchLotCreatesOffer(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	lot := e.addLot(t, 50, 2.0)
	tractor := e.addTractor(t, 100, 1.5, time.Now())

	offer, err := e.matcher.MatchLot(ctx, lot.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if offer.AgreedPriceByKm != 1.5 {
		t.Errorf("agreed price = %v, want 1.5 (the tractor's floor)", offer.AgreedPriceByKm)
	}
	if offer.LotID != lot.ID || offer.TractorID != tractor.ID {
		t.Error("offer references wrong entities")
	}

	gotLot, _ := e.store.GetLot(ctx, lot.ID)
	if gotLot.State != domain.StateOnTheWay {
		t.Errorf("lot state = %s, want ON_THE_WAY", gotLot.State)
	}
	if gotLot.TractorID == nil || *gotLot.TractorID != tractor.ID {
		t.Error("lot not assigned to the matched tractor")
	}

	gotTractor, _ := e.store.GetTractor(ctx, tractor.ID)
	if gotTractor.State != domain.StateOnTheWay {
		t.Errorf("tractor state = %s, want ON_THE_WAY", gotTractor.State)
	}
	if gotTractor.CurrentUnits != 50 {
		t.Errorf("tractor current units = %v, want 50", gotTractor.CurrentUnits)
	}

	// Both entities left the working set.
	candidates, _ := e.ledger.TractorCandidates(ctx, "grain")
	if len(candidates) != 0 {
		t.Errorf("expected empty candidate set after match, got %d", len(candidates))
	}
}

func TestMatchLotPriceFloorAboveCeiling(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	lot := e.addLot(t, 50, 2.0)
	e.addTractor(t, 100, 2.5, time.Now())

	_, err := e.matcher.MatchLot(ctx, lot.ID)
	if !errors.Is(err, domain.ErrNoCandidate) {
		t.Fatalf("expected no candidate, got %v", err)
	}

	// No state change on either side.
	gotLot, _ := e.store.GetLot(ctx, lot.ID)
	if gotLot.State != domain.StateOnStockExchange {
		t.Errorf("lot state = %s, want ON_THE_STOCK_EXCHANGE", gotLot.State)
	}
	offers, _ := e.store.ListOffers(ctx)
	if len(offers) != 0 {
		t.Errorf("expected no offers, got %d", len(offers))
	}
}

func TestMatchLotNotListed(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	lot := e.addLot(t, 50, 2.0)
	lot.State = domain.StateAvailable
	if err := e.store.UpdateLot(ctx, lot); err != nil {
		t.Fatalf("update lot: %v", err)
	}

	_, err := e.matcher.MatchLot(ctx, lot.ID)
	if !errors.Is(err, domain.ErrNotListed) {
		t.Fatalf("expected not listed, got %v", err)
	}
}

func TestMatchLotUnknownLot(t *testing.T) {
	e := newEngine(t)

	_, err := e.matcher.MatchLot(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// Selection is deterministic: lowest price floor wins, ties break by
// earliest creation time, then by smallest id.
func TestMatchLotDeterministicSelection(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e.addTractor(t, 100, 2.0, base)
	cheapOld := e.addTractor(t, 100, 1.5, base)
	e.addTractor(t, 100, 1.5, base.Add(time.Hour))

	lot := e.addLot(t, 50, 2.0)
	offer, err := e.matcher.MatchLot(ctx, lot.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offer.TractorID != cheapOld.ID {
		t.Errorf("selected %s, want the cheapest oldest tractor %s", offer.TractorID, cheapOld.ID)
	}
}

func TestMatchLotTieBreakByID(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 := e.addTractor(t, 100, 1.5, created)
	t2 := e.addTractor(t, 100, 1.5, created)

	want := t1.ID
	if t2.ID.String() < t1.ID.String() {
		want = t2.ID
	}

	lot := e.addLot(t, 50, 2.0)
	offer, err := e.matcher.MatchLot(ctx, lot.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offer.TractorID != want {
		t.Errorf("selected %s, want lexicographically smallest id %s", offer.TractorID, want)
	}
}

func TestMatchLotSkipsIncompatibleRoute(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	// Reverse route: marseille -> lyon -> paris. The lot travels the other way.
	reverseID := uuid.New()
	e.catalog.AddRoute(domain.Route{
		ID:          reverseID,
		Name:        "reverse",
		Checkpoints: []uuid.UUID{e.marseille, e.lyon, e.paris},
	})

	wrongWay := e.addTractor(t, 100, 1.0, time.Now())
	wrongWay.RouteID = &reverseID
	if err := e.store.UpdateTractor(ctx, wrongWay); err != nil {
		t.Fatalf("update tractor: %v", err)
	}
	right := e.addTractor(t, 100, 1.8, time.Now())

	lot := e.addLot(t, 50, 2.0)
	offer, err := e.matcher.MatchLot(ctx, lot.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The cheaper tractor rides the wrong way; the pricier compatible one wins.
	if offer.TractorID != right.ID {
		t.Errorf("selected %s, want the route-compatible tractor %s", offer.TractorID, right.ID)
	}
}

// Two concurrent matches over one tractor with room for a single lot:
// exactly one succeeds and capacity is never exceeded.
func TestMatchLotConcurrentSingleTractor(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	tractor := e.addTractor(t, 50, 1.0, time.Now())
	lotA := e.addLot(t, 50, 2.0)
	lotB := e.addLot(t, 50, 2.0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []uuid.UUID{lotA.ID, lotB.ID} {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = e.matcher.MatchLot(ctx, id)
		}(i, id)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, domain.ErrNoCandidate) || errors.Is(err, domain.ErrConstraintFailure):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 || lost != 1 {
		t.Fatalf("want exactly one winner and one loser, got won=%d lost=%d", won, lost)
	}

	gotTractor, _ := e.store.GetTractor(ctx, tractor.ID)
	if gotTractor.CurrentUnits > gotTractor.MaxUnits {
		t.Fatalf("capacity invariant violated: %v > %v", gotTractor.CurrentUnits, gotTractor.MaxUnits)
	}
	if gotTractor.CurrentUnits != 50 {
		t.Errorf("tractor current units = %v, want 50", gotTractor.CurrentUnits)
	}

	offers, _ := e.store.ListOffers(ctx)
	if len(offers) != 1 {
		t.Errorf("expected exactly one offer, got %d", len(offers))
	}
}
