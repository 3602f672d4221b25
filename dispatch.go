package meshinterp

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Dispatcher runs independent jobs over the indices of a batch.
type Dispatcher interface {
	// Workers returns the number of distinct worker ids Dispatch passes to
	// job.
	Workers() int
	// Dispatch calls job(worker, i) once for every i in [0, n) and returns
	// the first error any call returned. Calls made with the same worker id
	// never overlap.
	Dispatch(n int, job func(worker, i int) error) error
}

var (
	_ Dispatcher = Sequential{}
	_ Dispatcher = Parallel{}
)

// Sequential evaluates a batch in order on the calling goroutine.
type Sequential struct{}

func (Sequential) Workers() int { return 1 }

func (Sequential) Dispatch(n int, job func(worker, i int) error) error {
	for i := 0; i < n; i++ {
		if err := job(0, i); err != nil {
			return err
		}
	}
	return nil
}

// Parallel evaluates a batch on a fixed pool of goroutines. Worker w handles
// indices w, w + Workers(), w + 2*Workers(), ... so that neighboring points,
// which tend to cost the same, are spread across workers.
type Parallel struct {
	// N is the number of goroutines. Non-positive values mean one per CPU.
	N int
}

func (p Parallel) Workers() int {
	if p.N <= 0 {
		return runtime.NumCPU()
	}
	return p.N
}

func (p Parallel) Dispatch(n int, job func(worker, i int) error) error {
	workers := p.Workers()
	if workers > n {
		workers = n
	}

	g := &errgroup.Group{}
	g.SetLimit(workers)
	for id := 0; id < workers; id++ {
		id := id
		g.Go(func() error {
			for i := id; i < n; i += workers {
				if err := job(id, i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// dispatcher returns the Dispatcher described by a Config.Workers value.
func dispatcher(workers int) Dispatcher {
	switch {
	case workers < 0:
		return Parallel{}
	case workers <= 1:
		return Sequential{}
	default:
		return Parallel{N: workers}
	}
}
