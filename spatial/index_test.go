package spatial

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func bruteForce(ps []r3.Vec, q r3.Vec, k int) []Neighbor {
	out := make([]Neighbor, len(ps))
	for i, p := range ps {
		out[i] = Neighbor{Index: i, Dist: r3.Norm2(r3.Sub(p, q))}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Dist < out[j].Dist })
	for i := range out {
		out[i].Dist = math.Sqrt(out[i].Dist)
	}
	if k > len(out) {
		k = len(out)
	}
	return out[:k]
}

func randomPoints(gen *rand.Rand, n int) []r3.Vec {
	ps := make([]r3.Vec, n)
	for i := range ps {
		ps[i] = r3.Vec{X: gen.Float64(), Y: gen.Float64(), Z: gen.Float64()}
	}
	return ps
}

func TestBuild(t *testing.T) {
	_, err := Build(nil)
	assert.Equal(t, ErrEmpty, err)

	_, err = Build([]r3.Vec{{X: math.NaN()}})
	assert.Error(t, err)

	idx, err := Build([]r3.Vec{{}, {X: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}

func TestQueryMatchesBruteForce(t *testing.T) {
	gen := rand.New(rand.NewSource(7))
	ps := randomPoints(gen, 500)
	idx, err := Build(ps)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		q := r3.Vec{
			X: 1.4*gen.Float64() - 0.2,
			Y: 1.4*gen.Float64() - 0.2,
			Z: 1.4*gen.Float64() - 0.2,
		}
		k := 1 + gen.Intn(20)

		got := idx.Query(q, k)
		want := bruteForce(ps, q, k)
		require.Len(t, got, len(want), "%d) k = %d", i, k)
		for j := range got {
			if got[j].Index != want[j].Index {
				t.Errorf("%d) neighbor %d is node %d, not %d", i, j, got[j].Index, want[j].Index)
			}
			assert.InDelta(t, want[j].Dist, got[j].Dist, 1e-12)
		}
	}
}

func TestQueryTies(t *testing.T) {
	// Unit cube corners are all equidistant from the center.
	ps := []r3.Vec{
		{X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1},
		{X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0},
	}
	c := r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}

	for trial := 0; trial < 10; trial++ {
		idx, err := Build(ps)
		require.NoError(t, err)

		for k := 1; k <= len(ps); k++ {
			got := idx.Query(c, k)
			require.Len(t, got, k)
			for i := range got {
				assert.Equal(t, i, got[i].Index, "k = %d", k)
				assert.InDelta(t, math.Sqrt(0.75), got[i].Dist, 1e-15)
			}
		}
	}
}

func TestQueryEdgeCases(t *testing.T) {
	ps := []r3.Vec{{}, {X: 1}, {X: 2}}
	idx, err := Build(ps)
	require.NoError(t, err)

	assert.Nil(t, idx.Query(r3.Vec{}, 0))
	assert.Len(t, idx.Query(r3.Vec{}, 10), 3)

	got := idx.Query(r3.Vec{X: 2}, 1)
	require.Len(t, got, 1)
	assert.Equal(t, Neighbor{Index: 2, Dist: 0}, got[0])

	// Duplicate positions are both returned, lower index first.
	idx, err = Build([]r3.Vec{{X: 5}, {X: 1}, {X: 1}})
	require.NoError(t, err)
	got = idx.Query(r3.Vec{}, 2)
	assert.Equal(t, []Neighbor{{Index: 1, Dist: 1}, {Index: 2, Dist: 1}}, got)
}

func TestQueryConcurrent(t *testing.T) {
	gen := rand.New(rand.NewSource(8))
	ps := randomPoints(gen, 300)
	idx, err := Build(ps)
	require.NoError(t, err)

	qs := randomPoints(gen, 64)
	want := make([][]Neighbor, len(qs))
	for i, q := range qs {
		want[i] = idx.Query(q, 10)
	}

	got := make([][]Neighbor, len(qs))
	wg := sync.WaitGroup{}
	for i := range qs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = idx.Query(qs[i], 10)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, want, got)
}

func BenchmarkQuery(b *testing.B) {
	gen := rand.New(rand.NewSource(9))
	idx, _ := Build(randomPoints(gen, 10000))
	qs := randomPoints(gen, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.Query(qs[i%len(qs)], 10)
	}
}

func BenchmarkBuild(b *testing.B) {
	gen := rand.New(rand.NewSource(10))
	ps := randomPoints(gen, 10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Build(ps)
	}
}
