package invalidation_test

import (
	"testing"
	"time"

	"github.com/datamesh/mesh-console/pkg/invalidation"
	"github.com/stretchr/testify/assert"
)

func TestGenerations_Observe(t *testing.T) {
	t.Parallel()

	type observation struct {
		session string
		gen     uint64
		current bool
	}

	testCases := []struct {
		name         string
		observations []observation
	}{
		{
			name: "In order responses are current",
			observations: []observation{
				{session: "a", gen: 1, current: true},
				{session: "a", gen: 2, current: true},
				{session: "a", gen: 3, current: true},
			},
		},
		{
			name: "Older response after a newer one is stale",
			observations: []observation{
				{session: "a", gen: 4, current: true},
				{session: "a", gen: 3, current: false},
				{session: "a", gen: 5, current: true},
			},
		},
		{
			name: "Repeated generation is current",
			observations: []observation{
				{session: "a", gen: 2, current: true},
				{session: "a", gen: 2, current: true},
			},
		},
		{
			name: "Sessions are independent",
			observations: []observation{
				{session: "a", gen: 10, current: true},
				{session: "b", gen: 1, current: true},
				{session: "a", gen: 9, current: false},
			},
		},
		{
			name: "Generation zero is never stale",
			observations: []observation{
				{session: "a", gen: 10, current: true},
				{session: "a", gen: 0, current: true},
				{session: "a", gen: 9, current: false},
			},
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			g := invalidation.NewGenerations()

			for i, o := range tc.observations {
				assert.Equal(t, o.current, g.Observe(o.session, o.gen), "observation %d", i)
			}
		})
	}
}

func TestGenerations_Prune(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	g := invalidation.NewGenerationsWithClock(func() time.Time { return now })

	g.Observe("old", 1)

	now = now.Add(2 * time.Hour)
	g.Observe("new", 1)

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 1, g.Prune(time.Hour))
	assert.Equal(t, 1, g.Len())

	// A pruned session starts over
	assert.True(t, g.Observe("old", 1))
}
