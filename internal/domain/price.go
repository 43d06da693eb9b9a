package domain

import "time"

// PriceUpdate is a normalized, venue-tagged price observation.
type PriceUpdate struct {
	Key            ConnectionKey
	Price          float64
	ReceivedAt     time.Time
	ExpirationDate *time.Time
}

// Supersedes reports whether u may replace prev in a latest-value store.
// Equal timestamps are accepted so that bursts within one clock tick still land.
func (u PriceUpdate) Supersedes(prev PriceUpdate) bool {
	return !u.ReceivedAt.Before(prev.ReceivedAt)
}

// Direction represents the price movement direction
type Direction int

const (
	DirectionSame Direction = 0
	DirectionUp   Direction = +1
	DirectionDown Direction = -1
)

// PriceState tracks the last seen value of one key together with the
// direction of the most recent change.
type PriceState struct {
	Number    float64
	HasValue  bool
	Direction Direction
	UpdatedAt time.Time
}

// Update applies a new price and returns true if the value changed.
func (ps *PriceState) Update(price float64, at time.Time) bool {
	if !ps.HasValue {
		ps.HasValue = true
		ps.Number = price
		ps.Direction = DirectionSame
		ps.UpdatedAt = at
		return true
	}

	prev := ps.Number
	ps.UpdatedAt = at
	switch {
	case price > prev:
		ps.Direction = DirectionUp
	case price < prev:
		ps.Direction = DirectionDown
	default:
		ps.Direction = DirectionSame
		return false
	}
	ps.Number = price
	return true
}
