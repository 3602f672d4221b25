package tess

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var unitTetra = []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}}

var cube = []r3.Vec{
	{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1},
}

func randomPoints(gen *rand.Rand, n int) []r3.Vec {
	ps := make([]r3.Vec, n)
	for i := range ps {
		ps[i] = r3.Vec{X: gen.Float64(), Y: gen.Float64(), Z: gen.Float64()}
	}
	return ps
}

func TestLocateUnitTetra(t *testing.T) {
	table := []struct {
		q   r3.Vec
		err error
	}{
		{r3.Vec{X: 0.25, Y: 0.25, Z: 0.25}, nil},
		{r3.Vec{X: 0.1, Y: 0.2, Z: 0.3}, nil},
		{r3.Vec{}, nil},
		{r3.Vec{X: 0.5, Y: 0.5}, nil},
		{r3.Vec{X: 1, Y: 1, Z: 1}, ErrOutside},
		{r3.Vec{X: -0.5, Y: 0.1, Z: 0.1}, ErrOutside},
	}

	for i, test := range table {
		s, err := Locate(unitTetra, test.q)
		if err != test.err {
			t.Errorf("%d) Locate(%v) gave error %v, not %v", i, test.q, err, test.err)
			continue
		}
		if err == nil {
			assert.Equal(t, Simplex{0, 1, 2, 3}, s)
		} else {
			assert.True(t, errors.Is(err, ErrDegenerateGeometry))
		}
	}
}

func TestLocateFlat(t *testing.T) {
	table := [][]r3.Vec{
		{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}, {X: 0.5, Y: 0.5}},
		{{}, {X: 1}, {X: 2}, {X: 3}},
		{{X: 1}, {X: 1}, {X: 1}, {X: 1}},
		{{}, {X: 1}, {Y: 1}},
	}

	for i, ps := range table {
		_, err := Locate(ps, r3.Vec{X: 0.5, Y: 0.25})
		if !errors.Is(err, ErrDegenerateGeometry) {
			t.Errorf("%d) expected degenerate geometry, got %v", i, err)
		}
		_, err = Tessellate(ps)
		assert.Equal(t, ErrFlat, err, "%d) Tessellate", i)
	}
}

func TestLocateCube(t *testing.T) {
	q := r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	s, err := Locate(cube, q)
	require.NoError(t, err)

	tet := s.Tetra(cube)
	assert.True(t, tet.Contains(q, ContainEps))

	// Cospherical input still gives a unique answer.
	for i := 0; i < 5; i++ {
		s2, err := Locate(cube, q)
		require.NoError(t, err)
		assert.Equal(t, s, s2)
	}

	tess, err := Tessellate(cube)
	require.NoError(t, err)
	s3, err := tess.Locate(q)
	require.NoError(t, err)
	assert.Equal(t, s, s3)
}

func TestTessellateEmptySpheres(t *testing.T) {
	gen := rand.New(rand.NewSource(11))
	ps := randomPoints(gen, 20)

	tess, err := Tessellate(ps)
	require.NoError(t, err)
	require.NotEmpty(t, tess.Simplices)

	for i, s := range tess.Simplices {
		tet := s.Tetra(ps)
		c, r2, ok := tet.Circumsphere()
		require.True(t, ok)
		for j, p := range ps {
			if j == s[0] || j == s[1] || j == s[2] || j == s[3] {
				continue
			}
			if d2 := r3.Norm2(r3.Sub(p, c)); d2 < r2*(1-1e-6) {
				t.Errorf("%d) point %d is inside the circumsphere of %v", i, j, s)
			}
		}
	}
}

func TestTessellateNoOverlap(t *testing.T) {
	gen := rand.New(rand.NewSource(12))
	ps := randomPoints(gen, 20)
	tess, err := Tessellate(ps)
	require.NoError(t, err)

	var centroid r3.Vec
	for _, p := range ps {
		centroid = r3.Add(centroid, p)
	}
	centroid = r3.Scale(1/float64(len(ps)), centroid)

	qs := append(randomPoints(gen, 200), centroid)
	for i, q := range qs {
		n := 0
		for _, s := range tess.Simplices {
			tet := s.Tetra(ps)
			if w, ok := tet.Barycentric(q, 0); ok {
				if w[0] > 1e-9 && w[1] > 1e-9 && w[2] > 1e-9 && w[3] > 1e-9 {
					n++
				}
			}
		}
		if n > 1 {
			t.Errorf("%d) %v is strictly inside %d simplices", i, q, n)
		}
	}

	_, err = tess.Locate(centroid)
	assert.NoError(t, err)
}

func TestLocateAgreesWithTessellation(t *testing.T) {
	gen := rand.New(rand.NewSource(13))
	ps := randomPoints(gen, 12)
	tess, err := Tessellate(ps)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		q := r3.Vec{X: gen.Float64(), Y: gen.Float64(), Z: gen.Float64()}
		s1, err1 := Locate(ps, q)
		s2, err2 := tess.Locate(q)

		if err2 != nil {
			assert.True(t, errors.Is(err1, ErrDegenerateGeometry), "%d) %v", i, q)
			continue
		}
		require.NoError(t, err1, "%d) %v", i, q)
		assert.Equal(t, s2, s1, "%d) %v", i, q)

		tet := s1.Tetra(ps)
		assert.True(t, tet.Contains(q, ContainEps))
	}
}

func BenchmarkLocate10(b *testing.B) {
	gen := rand.New(rand.NewSource(14))
	sets := make([][]r3.Vec, 100)
	for i := range sets {
		sets[i] = randomPoints(gen, 10)
	}
	q := r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Locate(sets[i%len(sets)], q)
	}
}
