package meshinterp

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchCoversBatch(t *testing.T) {
	table := []Dispatcher{
		Sequential{}, Parallel{N: 1}, Parallel{N: 3}, Parallel{N: 100}, Parallel{},
	}

	for i, d := range table {
		for _, n := range []int{0, 1, 7, 64} {
			hits := make([]int32, n)
			busy := make([]int32, d.Workers())

			err := d.Dispatch(n, func(w, j int) error {
				if atomic.AddInt32(&busy[w], 1) != 1 {
					t.Errorf("%d) worker %d called concurrently", i, w)
				}
				atomic.AddInt32(&hits[j], 1)
				atomic.AddInt32(&busy[w], -1)
				return nil
			})
			require.NoError(t, err)

			for j := range hits {
				if hits[j] != 1 {
					t.Errorf("%d) index %d of %d visited %d times", i, j, n, hits[j])
				}
			}
		}
	}
}

func TestDispatchError(t *testing.T) {
	fail := errors.New("fail")
	for _, d := range []Dispatcher{Sequential{}, Parallel{N: 4}} {
		err := d.Dispatch(20, func(w, i int) error {
			if i == 13 {
				return fail
			}
			return nil
		})
		assert.Equal(t, fail, err)
	}
}

func TestDispatcherFromWorkers(t *testing.T) {
	assert.Equal(t, Sequential{}, dispatcher(0))
	assert.Equal(t, Sequential{}, dispatcher(1))
	assert.Equal(t, Parallel{N: 4}, dispatcher(4))
	assert.Equal(t, runtime.NumCPU(), dispatcher(-1).Workers())
}
