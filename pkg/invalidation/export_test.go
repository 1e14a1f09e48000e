package invalidation

import "time"

func NewGenerationsWithClock(now func() time.Time) *Generations {
	return newGenerations(now)
}
