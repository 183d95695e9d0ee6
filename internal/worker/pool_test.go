package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type testJob struct {
	ordinal int
	counter *int64
}

type testResult struct {
	ordinal int
	err     error
}

func (r *testResult) GetError() error { return r.err }

func (j *testJob) Execute(ctx context.Context) Result {
	atomic.AddInt64(j.counter, 1)
	return &testResult{ordinal: j.ordinal}
}

func TestPool_ExecutesAllJobs(t *testing.T) {
	pool := NewPool(3)
	pool.Start()

	var counter int64
	for i := 0; i < 20; i++ {
		pool.Submit(&testJob{ordinal: i, counter: &counter})
	}

	results := pool.Wait()

	if len(results) != 20 {
		t.Errorf("Expected 20 results, got %d", len(results))
	}
	if atomic.LoadInt64(&counter) != 20 {
		t.Errorf("Expected 20 executions, got %d", counter)
	}

	// Every ordinal must come back exactly once, in any order
	seen := make(map[int]bool)
	for _, r := range results {
		tr := r.(*testResult)
		if seen[tr.ordinal] {
			t.Errorf("Ordinal %d returned twice", tr.ordinal)
		}
		seen[tr.ordinal] = true
	}
	if len(seen) != 20 {
		t.Errorf("Expected 20 distinct ordinals, got %d", len(seen))
	}
}

// A caller submits every job before calling Wait; with slow jobs and a
// small pool the backlog far exceeds the channel buffers, so Submit
// must never block behind undrained results.
func TestPool_SubmitAllBeforeWaitExceedingBuffers(t *testing.T) {
	const workers, jobs = 2, 60
	pool := NewPool(workers)
	pool.Start()

	var counter int64
	done := make(chan []Result)
	go func() {
		for i := 0; i < jobs; i++ {
			pool.Submit(&slowJob{ordinal: i, counter: &counter})
		}
		done <- pool.Wait()
	}()

	select {
	case results := <-done:
		if len(results) != jobs {
			t.Errorf("Expected %d results, got %d", jobs, len(results))
		}
		if atomic.LoadInt64(&counter) != jobs {
			t.Errorf("Expected %d executions, got %d", jobs, counter)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Pool deadlocked submitting more jobs than channel buffers hold")
	}
}

type slowJob struct {
	ordinal int
	counter *int64
}

func (j *slowJob) Execute(ctx context.Context) Result {
	time.Sleep(time.Millisecond)
	atomic.AddInt64(j.counter, 1)
	return &testResult{ordinal: j.ordinal}
}

func TestPool_ZeroWorkersDefaultsToOne(t *testing.T) {
	pool := NewPool(0)
	pool.Start()

	var counter int64
	pool.Submit(&testJob{ordinal: 0, counter: &counter})

	results := pool.Wait()
	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	l := NewLimiter(0, 0)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 100; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("Unlimited limiter blocked: %v", err)
		}
	}
}

func TestLimiter_CancelledContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	if !l.Allow() {
		t.Fatal("Expected first call to be allowed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Wait(ctx); err == nil {
		t.Fatal("Expected error waiting on cancelled context")
	}
}
