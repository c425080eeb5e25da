package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingJob struct {
	counter *atomic.Int64
	fail    bool
}

type countingResult struct {
	err error
}

func (r *countingResult) GetError() error {
	return r.err
}

func (j *countingJob) Execute(ctx context.Context) Result {
	j.counter.Add(1)
	if j.fail {
		return &countingResult{err: errors.New("job failed")}
	}
	return &countingResult{}
}

func TestPool_RunsAllJobs(t *testing.T) {
	var counter atomic.Int64

	pool := NewPool(4)
	pool.Start()
	for i := 0; i < 20; i++ {
		pool.Submit(&countingJob{counter: &counter})
	}
	results := pool.Wait()

	if counter.Load() != 20 {
		t.Errorf("Expected 20 executions, got %d", counter.Load())
	}
	if len(results) != 20 {
		t.Errorf("Expected 20 results, got %d", len(results))
	}
}

func TestPool_CollectsErrors(t *testing.T) {
	var counter atomic.Int64

	pool := NewPool(2)
	pool.Start()
	pool.Submit(&countingJob{counter: &counter})
	pool.Submit(&countingJob{counter: &counter, fail: true})
	results := pool.Wait()

	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("Expected 1 failed result, got %d", failed)
	}
}

// Batch mode submits every document before calling Wait; with a single
// worker and far more jobs than the queue holds, neither Submit nor Wait may
// block forever.
func TestPool_SubmitAllThenWaitDoesNotHang(t *testing.T) {
	var counter atomic.Int64

	pool := NewPool(1)
	pool.Start()

	done := make(chan []Result, 1)
	go func() {
		for i := 0; i < 50; i++ {
			pool.Submit(&countingJob{counter: &counter})
		}
		done <- pool.Wait()
	}()

	select {
	case results := <-done:
		if counter.Load() != 50 {
			t.Errorf("Expected 50 executions, got %d", counter.Load())
		}
		if len(results) != 50 {
			t.Errorf("Expected 50 results, got %d", len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Pool hung submitting 50 jobs on 1 worker")
	}
}

func TestPool_ZeroWorkersDefaultsToOne(t *testing.T) {
	var counter atomic.Int64

	pool := NewPool(0)
	pool.Start()
	pool.Submit(&countingJob{counter: &counter})
	results := pool.Wait()

	if counter.Load() != 1 || len(results) != 1 {
		t.Errorf("Expected the job to run on the fallback worker, got %d executions", counter.Load())
	}
}
