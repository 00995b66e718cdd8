package domain

// Lifecycle state shared by Lot and Tractor.
type State string

const (
	StateAvailable       State = "AVAILABLE"
	StateOnStockExchange State = "ON_THE_STOCK_EXCHANGE"
	StateOnTheWay        State = "ON_THE_WAY"
	StateArchived        State = "ARCHIVED"
)

// Legal transitions along the lifecycle. ARCHIVED is terminal.
// Withdrawal (ON_THE_STOCK_EXCHANGE -> AVAILABLE) is legal here;
// the lifecycle service additionally refuses it once an offer exists.
var transitions = map[State][]State{
	StateAvailable:       {StateOnStockExchange},
	StateOnStockExchange: {StateOnTheWay, StateAvailable},
	StateOnTheWay:        {StateArchived},
	StateArchived:        {},
}

func (s State) Valid() bool {
	switch s {
	case StateAvailable, StateOnStockExchange, StateOnTheWay, StateArchived:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is legal.
func (s State) CanTransition(next State) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}
