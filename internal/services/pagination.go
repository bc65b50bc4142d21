package services

import (
	"context"
	"math/rand/v2"
	"time"
)

const (
	DefaultMinDelay = time.Second
	DefaultMaxDelay = 3 * time.Second
)

// Pacer waits between two consecutive page requests.
type Pacer interface {
	Pause(ctx context.Context) error
}

// PacerFunc adapts a function to [Pacer].
type PacerFunc func(ctx context.Context) error

func (f PacerFunc) Pause(ctx context.Context) error { return f(ctx) }

// RandomPacer sleeps for a duration drawn uniformly from [Min, Max].
type RandomPacer struct {
	Min time.Duration
	Max time.Duration
}

// NewRandomPacer returns a pacer over [min, max]. A max below min collapses to min.
func NewRandomPacer(min, max time.Duration) *RandomPacer {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return &RandomPacer{Min: min, Max: max}
}

// Delay draws the next pause length.
func (p *RandomPacer) Delay() time.Duration {
	span := p.Max - p.Min
	if span <= 0 {
		return p.Min
	}
	return p.Min + time.Duration(rand.Int64N(int64(span)+1))
}

func (p *RandomPacer) Pause(ctx context.Context) error {
	d := p.Delay()
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PageFunc fetches one page and returns its items and the next page number (nil when there is none).
type PageFunc[T any] func(ctx context.Context, page int) (items []T, next *int, err error)

// CollectAllPages fetches every page starting at first and concatenates the items in page order.
//
// The pacer runs between requests only. A cursor that cycles is followed forever.
func CollectAllPages[T any](ctx context.Context, first int, fetch PageFunc[T], pacer Pacer) ([]T, error) {
	return CollectPages(ctx, first, 0, fetch, pacer)
}

// CollectPages is [CollectAllPages] that stops once limit items are collected. A limit of zero or less means no limit.
func CollectPages[T any](ctx context.Context, first, limit int, fetch PageFunc[T], pacer Pacer) ([]T, error) {
	if first < 1 {
		first = 1
	}

	var all []T
	page := first
	for {
		items, next, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if limit > 0 && len(all) >= limit {
			return all[:limit], nil
		}
		if next == nil {
			return all, nil
		}

		if pacer != nil {
			if err := pacer.Pause(ctx); err != nil {
				return nil, err
			}
		}
		page = *next
	}
}
