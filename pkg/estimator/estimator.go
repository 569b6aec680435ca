package estimator

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-lighttree/pkg/core"
	"github.com/df07/go-lighttree/pkg/lighttree"
	"github.com/df07/go-lighttree/pkg/log"
)

// Options contains sampling run configuration
type Options struct {
	Samples   int   // Number of light samples per strategy
	Workers   int   // Parallel workers, 0 for one per CPU
	BatchSize int   // Samples per task handed to a worker
	Seed      int64 // Seed of the deterministic sample sequence
}

// DefaultOptions returns options for a quick comparison run
func DefaultOptions() Options {
	return Options{
		Samples:   100000,
		Workers:   0,
		BatchSize: 4096,
		Seed:      1,
	}
}

// Receiver is the shading point light samples are drawn for
type Receiver struct {
	P, N     core.Vec3
	Bounce   int
	PathFlag core.PathFlag
	Mode     core.SegmentMode
}

// Result contains the statistics of one strategy at one receiver
type Result struct {
	Strategy string
	*Accumulator
	Duration time.Duration
}

// batchTask is one slice of the sample sequence
type batchTask struct {
	TaskID int // For deterministic ordering
	First  int
	Count  int
}

// Run draws opts.Samples light samples with strategy at receiver across a
// pool of workers. Results do not depend on the number of workers: sample i
// always uses the random sequence of (Seed, i), and batches are merged in
// order.
func Run(ctx context.Context, strategy Strategy, receiver Receiver, opts Options) (*Result, error) {
	logger := log.New("estimator")
	if opts.Samples <= 0 {
		return nil, fmt.Errorf("samples must be positive, got %d", opts.Samples)
	}
	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultOptions().BatchSize
	}

	numBatches := (opts.Samples + batchSize - 1) / batchSize
	results := make([]*Accumulator, numBatches)
	tasks := make(chan batchTask, numBatches)
	for i := 0; i < numBatches; i++ {
		first := i * batchSize
		tasks <- batchTask{TaskID: i, First: first, Count: min(batchSize, opts.Samples-first)}
	}
	close(tasks)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < min(numWorkers, numBatches); w++ {
		g.Go(func() error {
			for task := range tasks {
				if err := ctx.Err(); err != nil {
					return err
				}
				// Each batch writes only its own slot
				results[task.TaskID] = runBatch(strategy, receiver, opts.Seed, task)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := NewAccumulator()
	for _, acc := range results {
		total.Merge(acc)
	}
	result := &Result{Strategy: strategy.Name(), Accumulator: total, Duration: time.Since(start)}
	logger.Infof("%s: %d samples in %v, mean %.6g ± %.2g, success %.1f%%",
		result.Strategy, result.Samples, result.Duration, result.Mean(), result.StdError(), 100*result.SuccessRate())
	return result, nil
}

// Compare runs every strategy at the same receiver with the same options
func Compare(ctx context.Context, strategies []Strategy, receiver Receiver, opts Options) ([]*Result, error) {
	results := make([]*Result, 0, len(strategies))
	for _, strategy := range strategies {
		result, err := Run(ctx, strategy, receiver, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", strategy.Name(), err)
		}
		results = append(results, result)
	}
	return results, nil
}

func runBatch(strategy Strategy, receiver Receiver, seed int64, task batchTask) *Accumulator {
	acc := NewAccumulator()
	for i := task.First; i < task.First+task.Count; i++ {
		rng := core.NewPathState(uint32(seed), uint32(i))
		rng.Bounce = receiver.Bounce
		q := lighttree.Query{
			P:        receiver.P,
			N:        receiver.N,
			RandU:    rng.Get1D(),
			RandV:    rng.Get1D(),
			Bounce:   receiver.Bounce,
			PathFlag: receiver.PathFlag,
			Mode:     receiver.Mode,
		}

		ls, ok := strategy.Sample(q, rng)
		if !ok {
			acc.AddFailure()
			continue
		}
		acc.AddSample(ls, Irradiance(ls, receiver.N))
	}
	return acc
}
