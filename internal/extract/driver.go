package extract

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/strongraph/strongraph/internal/backbone"
	"github.com/strongraph/strongraph/internal/dimacs"
)

// ErrBadWorkerCount is returned when the requested worker count is below one
// or exceeds the hardware parallelism.
var ErrBadWorkerCount = errors.New("invalid worker count")

// progressInterval is how often the driver samples the shared progress
// counter for the OnProgress callback.
const progressInterval = 100 * time.Millisecond

// Config controls a Run.
type Config struct {
	// Workers is the requested worker count. It must be between 1 and the
	// hardware parallelism; the effective count is additionally capped by
	// the number of candidates.
	Workers int

	// OnProgress, if non-nil, is invoked periodically from a dedicated
	// goroutine with the number of processed candidates and the total. After
	// the workers have finished and the polling goroutine has stopped, it is
	// invoked one final time from the goroutine that called Run; done equals
	// total unless a worker failed. It is never invoked when there are no
	// candidates.
	OnProgress func(done, total int)
}

// Edges is the aggregated result of a Run. Requires edges are directed;
// excludes pairs carry their smaller endpoint first and appear exactly once.
// Both lists are ordered deterministically: by partition, then by ascending
// source variable within each partition.
type Edges struct {
	Requires []Edge
	Excludes []Edge
}

// worker owns one pre-initialized backbone detector and one contiguous range
// of the candidate list. Its edge buffers and error slot are local: workers
// share nothing but the read-only inputs and the progress counter.
type worker struct {
	id       int
	vars     []int
	det      backbone.Detector
	requires []Edge
	excludes []Edge
	err      error
}

// Run extracts all requires and excludes edges for the given candidates.
//
// The candidate list is split into cfg.Workers contiguous partitions (fewer
// if there are fewer candidates than workers), one worker per partition. Every worker owns a solver and detector built by
// newDetector. Detector construction is performed sequentially on the
// calling goroutine before any worker starts: solver bring-up is not safe to
// run concurrently, and this ordering guarantees workers receive fully
// initialized, exclusively owned instances.
//
// Run waits for every worker to terminate. If any worker failed, the first
// error in partition order is returned and the edges are discarded.
func Run(inst *dimacs.Instance, globalBB []int, candidates []int, newDetector func() (backbone.Detector, error), cfg Config) (*Edges, error) {
	maxWorkers := runtime.NumCPU()
	if cfg.Workers < 1 || cfg.Workers > maxWorkers {
		return nil, errors.Wrapf(ErrBadWorkerCount, "requested %d workers, hardware supports 1..%d", cfg.Workers, maxWorkers)
	}

	total := len(candidates)
	if total == 0 {
		return &Edges{}, nil
	}
	nWorkers := cfg.Workers
	if nWorkers > total {
		nWorkers = total
	}

	// Pre-initialize one detector per worker, sequentially, before spawning
	// anything.
	logrus.WithField("workers", nWorkers).Debug("initializing backbone solver instances")
	workers := make([]*worker, nWorkers)
	for i := range workers {
		det, err := newDetector()
		if err != nil {
			return nil, errors.Wrapf(err, "initializing solver for worker %d", i)
		}
		workers[i] = &worker{id: i, det: det}
	}

	// Partition the candidates into contiguous ranges, handing the remainder
	// out one extra candidate per leading partition.
	size := total / nWorkers
	rem := total % nWorkers
	start := 0
	for i, w := range workers {
		count := size
		if i < rem {
			count++
		}
		w.vars = candidates[start : start+count]
		start += count
	}

	var progress atomic.Int64

	var g errgroup.Group
	for _, w := range workers {
		w := w
		g.Go(func() error {
			for _, v := range w.vars {
				var err error
				w.requires, w.excludes, err = processVariable(w.det, inst, globalBB, v, w.requires, w.excludes)
				if err != nil {
					w.err = errors.Wrapf(err, "worker %d", w.id)
					return w.err
				}
				progress.Add(1)
			}
			return nil
		})
	}

	stop := make(chan struct{})
	stopped := make(chan struct{})
	if cfg.OnProgress != nil {
		go func() {
			defer close(stopped)
			ticker := time.NewTicker(progressInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					cfg.OnProgress(int(progress.Load()), total)
				case <-stop:
					return
				}
			}
		}()
	} else {
		close(stopped)
	}

	// Wait for every worker to reach a terminal state; there is no
	// cancellation on the per-variable loop.
	_ = g.Wait()
	close(stop)
	<-stopped
	if cfg.OnProgress != nil {
		cfg.OnProgress(int(progress.Load()), total)
	}

	// First failure in partition order wins.
	for _, w := range workers {
		if w.err != nil {
			return nil, w.err
		}
	}

	edges := &Edges{}
	for _, w := range workers {
		edges.Requires = append(edges.Requires, w.requires...)
		edges.Excludes = append(edges.Excludes, w.excludes...)
	}
	return edges, nil
}
