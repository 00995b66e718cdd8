package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestTractorFreeUnits(t *testing.T) {
	tr := Tractor{MaxUnits: 100, CurrentUnits: 30}
	if got := tr.FreeUnits(); got != 70 {
		t.Errorf("FreeUnits() = %v, want 70", got)
	}
}

func TestTractorValidate(t *testing.T) {
	valid := func() Tractor {
		return Tractor{
			ID:           uuid.New(),
			Name:         "T-1",
			ResourceType: ResourceTypeBulk,
			MaxUnits:     100,
			CurrentUnits: 0,
			State:        StateAvailable,
		}
	}

	tr := valid()
	if err := tr.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tr = valid()
	tr.CurrentUnits = 150
	if err := tr.Validate(); err == nil {
		t.Error("current units above max must be rejected")
	}

	tr = valid()
	tr.MaxUnits = 0
	if err := tr.Validate(); err == nil {
		t.Error("zero max units must be rejected")
	}

	tr = valid()
	tr.MinPriceByKm = -1
	if err := tr.Validate(); err == nil {
		t.Error("negative price floor must be rejected")
	}

	tr = valid()
	tr.State = State("pending")
	if err := tr.Validate(); err == nil {
		t.Error("unknown state must be rejected")
	}
}

func TestLotValidate(t *testing.T) {
	valid := func() Lot {
		return Lot{
			ID:                uuid.New(),
			Name:              "L-1",
			ResourceType:      ResourceTypeBulk,
			Volume:            10,
			StartCheckpointID: uuid.New(),
			EndCheckpointID:   uuid.New(),
			State:             StateAvailable,
		}
	}

	lot := valid()
	if err := lot.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lot = valid()
	lot.Volume = 0
	if err := lot.Validate(); err == nil {
		t.Error("zero volume must be rejected")
	}

	lot = valid()
	lot.StartCheckpointID = uuid.Nil
	if err := lot.Validate(); err == nil {
		t.Error("missing start checkpoint must be rejected")
	}

	lot = valid()
	lot.MaxPriceByKm = -0.5
	if err := lot.Validate(); err == nil {
		t.Error("negative price ceiling must be rejected")
	}
}
