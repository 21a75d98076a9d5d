// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMapPreservesInputOrder(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g"}

	// Make earlier items finish later so completion order differs from
	// input order.
	fn := func(ctx context.Context, item string) (string, error) {
		delay := time.Duration('h'-item[0]) * time.Millisecond
		time.Sleep(delay)
		return strings.ToUpper(item), nil
	}

	got, err := Map(context.Background(), items, 3, fn)
	if err != nil {
		t.Fatalf("Map: unexpected error: %v", err)
	}

	want := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("results[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMapCapsInFlightCalls(t *testing.T) {
	const limit = 3
	items := make([]string, 10)
	for i := range items {
		items[i] = fmt.Sprintf("item-%d", i)
	}

	var inFlight, peak int64
	fn := func(ctx context.Context, item string) (string, error) {
		cur := atomic.AddInt64(&inFlight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return item, nil
	}

	if _, err := Map(context.Background(), items, limit, fn); err != nil {
		t.Fatalf("Map: unexpected error: %v", err)
	}

	if p := atomic.LoadInt64(&peak); p > limit {
		t.Errorf("peak in-flight calls: got %d, want at most %d", p, limit)
	}
}

func TestMapRunsBatchesSequentially(t *testing.T) {
	// 7 items with limit 3 must produce ceil(7/3) = 3 batches: items in a
	// later batch may not start before every item of the previous batch
	// has finished.
	const limit = 3
	items := []string{"0", "1", "2", "3", "4", "5", "6"}

	var mu sync.Mutex
	var starts, finishes []string

	fn := func(ctx context.Context, item string) (string, error) {
		mu.Lock()
		starts = append(starts, item)
		mu.Unlock()

		time.Sleep(2 * time.Millisecond)

		mu.Lock()
		finishes = append(finishes, item)
		mu.Unlock()
		return item, nil
	}

	if _, err := Map(context.Background(), items, limit, fn); err != nil {
		t.Fatalf("Map: unexpected error: %v", err)
	}

	// Reconstruct batch index per item from the starts slice.
	batchOf := func(item string) int {
		n := int(item[0] - '0')
		return n / limit
	}
	startPos := make(map[string]int)
	for pos, item := range starts {
		startPos[item] = pos
	}
	finishPos := make(map[string]int)
	for pos, item := range finishes {
		finishPos[item] = pos
	}

	for _, late := range items {
		for _, early := range items {
			if batchOf(late) > batchOf(early) {
				if startPos[late] < finishPos[early] {
					t.Errorf("item %s (batch %d) started before item %s (batch %d) finished",
						late, batchOf(late), early, batchOf(early))
				}
			}
		}
	}
}

func TestMapFirstErrorAborts(t *testing.T) {
	items := []string{"ok-0", "ok-1", "boom", "ok-3", "ok-4", "ok-5", "ok-6"}

	var calls int64
	fn := func(ctx context.Context, item string) (string, error) {
		atomic.AddInt64(&calls, 1)
		if item == "boom" {
			return "", fmt.Errorf("upstream exploded")
		}
		return item, nil
	}

	_, err := Map(context.Background(), items, 3, fn)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "upstream exploded") {
		t.Errorf("error should wrap the item failure, got: %v", err)
	}

	// The failing batch (items 0-2) drains, later batches never start.
	if got := atomic.LoadInt64(&calls); got != 3 {
		t.Errorf("calls: got %d, want 3 (only the first batch)", got)
	}
}

func TestMapTolerantFnNeverAborts(t *testing.T) {
	items := []string{"a", "fail", "c"}

	// Tolerant policy: the fn swallows its own failure and returns empty.
	fn := func(ctx context.Context, item string) (string, error) {
		if item == "fail" {
			return "", nil
		}
		return "desc:" + item, nil
	}

	got, err := Map(context.Background(), items, 3, fn)
	if err != nil {
		t.Fatalf("Map: unexpected error: %v", err)
	}
	want := []string{"desc:a", "", "desc:c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("results[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMapEmptyInput(t *testing.T) {
	called := false
	got, err := Map(context.Background(), nil, 3, func(ctx context.Context, item string) (string, error) {
		called = true
		return item, nil
	})
	if err != nil {
		t.Fatalf("Map: unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("results: got %d items, want 0", len(got))
	}
	if called {
		t.Error("fn must not be called for empty input")
	}
}

func TestMapLimitBelowOne(t *testing.T) {
	got, err := Map(context.Background(), []string{"x", "y"}, 0, func(ctx context.Context, item string) (string, error) {
		return item, nil
	})
	if err != nil {
		t.Fatalf("Map: unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("results: got %v", got)
	}
}
