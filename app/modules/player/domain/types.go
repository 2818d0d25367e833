// Package player holds the player domain types.
package player

import "fmt"

// DatabasePlayer is the minimal player representation embedded in records and
// demons.
type DatabasePlayer struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Banned bool   `json:"banned"`
}

func (p DatabasePlayer) String() string {
	return fmt.Sprintf("%s (id %d)", p.Name, p.ID)
}

// Player is the full representation, including the aggregate list score over
// the player's approved records.
type Player struct {
	DatabasePlayer

	Score float64 `json:"score"`
}

// NotFoundError is returned when a player id resolves to nothing.
type NotFoundError struct {
	ID int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("player %d does not exist", e.ID)
}
