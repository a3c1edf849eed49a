package concurrency

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestProcessParallelKeepsOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}

	results, errs := ProcessParallel(context.Background(), items,
		ParallelOptions{MaxWorkers: 3},
		func(_ context.Context, _ int, item int) (int, error) {
			return item * 10, nil
		})

	if len(errs) != 0 {
		t.Fatalf("got %d errors, want 0", len(errs))
	}
	for i, item := range items {
		if results[i] != item*10 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], item*10)
		}
	}
}

func TestProcessParallelCollectsErrors(t *testing.T) {
	items := []string{"ok", "bad", "ok", "bad"}

	results, errs := ProcessParallel(context.Background(), items,
		DefaultOptions(),
		func(_ context.Context, _ int, item string) (string, error) {
			if item == "bad" {
				return "", errors.New("bad item")
			}
			return item + "!", nil
		})

	if len(errs) != 2 {
		t.Errorf("got %d errors, want 2", len(errs))
	}
	if results[0] != "ok!" || results[2] != "ok!" {
		t.Errorf("successful results lost: %v", results)
	}
}

func TestProcessParallelEmptyInput(t *testing.T) {
	results, errs := ProcessParallel(context.Background(), []int{},
		DefaultOptions(),
		func(_ context.Context, _ int, item int) (int, error) { return item, nil })

	if len(results) != 0 || errs != nil {
		t.Errorf("ProcessParallel(empty) = (%v, %v), want ([], nil)", results, errs)
	}
}

func TestProcessParallelBoundsWorkers(t *testing.T) {
	var active, peak int32
	items := make([]int, 40)

	ProcessParallel(context.Background(), items,
		ParallelOptions{MaxWorkers: 2},
		func(_ context.Context, _ int, item int) (int, error) {
			n := atomic.AddInt32(&active, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			atomic.AddInt32(&active, -1)
			return item, nil
		})

	if p := atomic.LoadInt32(&peak); p > 2 {
		t.Errorf("peak concurrent workers = %d, want <= 2", p)
	}
}

func TestProcessParallelContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]int, 100)
	var ran int32
	ProcessParallel(ctx, items, ParallelOptions{MaxWorkers: 4},
		func(_ context.Context, _ int, item int) (int, error) {
			atomic.AddInt32(&ran, 1)
			return item, nil
		})

	if n := atomic.LoadInt32(&ran); n == 100 {
		t.Error("canceled context should stop the pool early")
	}
}

func ExampleProcessParallel() {
	results, _ := ProcessParallel(context.Background(), []int{1, 2, 3},
		DefaultOptions(),
		func(_ context.Context, _ int, item int) (int, error) {
			return item * item, nil
		})
	fmt.Println(results)
	// Output: [1 4 9]
}
