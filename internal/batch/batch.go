// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package batch runs many independent calls against a slow upstream without
// overwhelming it. Items are processed in consecutive batches of a fixed
// size: every call in a batch runs concurrently, and the next batch starts
// only after the whole batch has finished. In-flight calls are therefore
// capped at the batch size at all times.
package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Func processes a single item and returns its result.
type Func func(ctx context.Context, item string) (string, error)

// Map applies fn to every item, at most limit at a time, and returns the
// results in input order regardless of completion order.
//
// The first failing item aborts the run: its batch still drains (every
// issued call runs to completion), but no further batch is started and the
// error is returned. Callers that want per-item tolerance pass an fn that
// swallows its own failures and returns a zero result instead.
func Map(ctx context.Context, items []string, limit int, fn Func) ([]string, error) {
	if limit < 1 {
		limit = 1
	}

	results := make([]string, len(items))

	for start := 0; start < len(items); start += limit {
		end := min(start+limit, len(items))

		g := new(errgroup.Group)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				out, err := fn(ctx, items[i])
				if err != nil {
					return fmt.Errorf("batch item %d: %w", i, err)
				}
				results[i] = out
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return results, nil
}
