package game

import (
	"context"
	"math/rand/v2"
)

// darePoolSize is how many of the least-used dares form the candidate
// pool for one draw. Picking uniformly among the five freshest keeps
// variety high without letting any one dare run ahead of the rest.
const darePoolSize = 5

// DareProvider selects penalty dares from the classroom-safe catalogue,
// weighted toward the least used.
type DareProvider struct {
	store RoomStore
}

func NewDareProvider(store RoomStore) *DareProvider {
	return &DareProvider{store: store}
}

// Next draws one dare and increments its usage count.
func (d *DareProvider) Next(ctx context.Context) (Dare, error) {
	return d.draw(ctx, d.store)
}

// draw runs the selection against s, which lets an accusation draw its
// dare inside the same transaction as the rest of its mutations.
func (d *DareProvider) draw(ctx context.Context, s RoomStore) (Dare, error) {
	pool, err := s.LeastUsedSafeDares(ctx, darePoolSize)
	if err != nil {
		return Dare{}, err
	}
	if len(pool) == 0 {
		return Dare{}, ErrNoDares
	}

	dare := pool[rand.IntN(len(pool))]
	if err := s.IncrementDareUsage(ctx, dare.ID); err != nil {
		return Dare{}, err
	}
	dare.UsedCount++
	return dare, nil
}
