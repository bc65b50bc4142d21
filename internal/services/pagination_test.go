package services

import (
	"context"
	"errors"
	"testing"
	"time"

	th "github.com/desertthunder/lyrx/internal/testing"
)

func threePages(fetched *[]int) PageFunc[string] {
	pages := map[int][]string{
		1: {"a", "b"},
		2: {"c", "d"},
		3: {"e"},
	}
	return func(_ context.Context, page int) ([]string, *int, error) {
		*fetched = append(*fetched, page)
		if page < 3 {
			next := page + 1
			return pages[page], &next, nil
		}
		return pages[page], nil, nil
	}
}

func TestCollectAllPages(t *testing.T) {
	ctx := context.Background()

	t.Run("three pages", func(t *testing.T) {
		var fetched []int
		pacer := &th.CountingPacer{}

		items, err := CollectAllPages(ctx, 1, threePages(&fetched), pacer)
		if err != nil {
			t.Fatalf("CollectAllPages failed: %v", err)
		}

		want := []string{"a", "b", "c", "d", "e"}
		if len(items) != len(want) {
			t.Fatalf("expected %v, got %v", want, items)
		}
		for i := range want {
			if items[i] != want[i] {
				t.Errorf("item %d: got %s, want %s", i, items[i], want[i])
			}
		}
		if len(fetched) != 3 {
			t.Errorf("expected 3 fetches, got %d", len(fetched))
		}
		if pacer.Pauses() != 2 {
			t.Errorf("expected 2 pauses, got %d", pacer.Pauses())
		}
	})

	t.Run("single page never pauses", func(t *testing.T) {
		pacer := &th.CountingPacer{}
		fetch := func(context.Context, int) ([]int, *int, error) { return []int{1}, nil, nil }

		if _, err := CollectAllPages(ctx, 1, fetch, pacer); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pacer.Pauses() != 0 {
			t.Errorf("expected no pauses, got %d", pacer.Pauses())
		}
	})

	t.Run("error discards partial results", func(t *testing.T) {
		boom := errors.New("boom")
		fetch := func(_ context.Context, page int) ([]int, *int, error) {
			if page == 2 {
				return nil, nil, boom
			}
			next := page + 1
			return []int{page}, &next, nil
		}

		items, err := CollectAllPages(ctx, 1, fetch, th.NoopPacer{})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if items != nil {
			t.Errorf("expected no items, got %v", items)
		}
	})

	t.Run("starts at requested page", func(t *testing.T) {
		var fetched []int
		if _, err := CollectAllPages(ctx, 2, threePages(&fetched), th.NoopPacer{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fetched[0] != 2 || len(fetched) != 2 {
			t.Errorf("unexpected fetch sequence %v", fetched)
		}
	})

	t.Run("page zero means first page", func(t *testing.T) {
		var fetched []int
		if _, err := CollectAllPages(ctx, 0, threePages(&fetched), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fetched[0] != 1 {
			t.Errorf("expected to start at page 1, got %d", fetched[0])
		}
	})

	t.Run("pacer error aborts", func(t *testing.T) {
		var fetched []int
		stop := PacerFunc(func(context.Context) error { return context.Canceled })

		if _, err := CollectAllPages(ctx, 1, threePages(&fetched), stop); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if len(fetched) != 1 {
			t.Errorf("expected 1 fetch, got %d", len(fetched))
		}
	})
}

func TestCollectPagesLimit(t *testing.T) {
	var fetched []int
	pacer := &th.CountingPacer{}

	items, err := CollectPages(context.Background(), 1, 3, threePages(&fetched), pacer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 || items[2] != "c" {
		t.Errorf("expected first 3 items, got %v", items)
	}
	if len(fetched) != 2 {
		t.Errorf("expected 2 fetches, got %d", len(fetched))
	}
	if pacer.Pauses() != 1 {
		t.Errorf("expected 1 pause, got %d", pacer.Pauses())
	}
}

func TestRandomPacer(t *testing.T) {
	t.Run("delay within bounds", func(t *testing.T) {
		p := NewRandomPacer(time.Second, 3*time.Second)
		for range 200 {
			d := p.Delay()
			if d < time.Second || d > 3*time.Second {
				t.Fatalf("delay %v out of [1s, 3s]", d)
			}
		}
	})

	t.Run("inverted bounds collapse to min", func(t *testing.T) {
		p := NewRandomPacer(2*time.Second, time.Second)
		if p.Delay() != 2*time.Second {
			t.Errorf("expected 2s, got %v", p.Delay())
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		if err := NewRandomPacer(time.Minute, time.Minute).Pause(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if time.Since(start) > time.Second {
			t.Error("pause did not return promptly")
		}
	})

	t.Run("zero delay", func(t *testing.T) {
		if err := NewRandomPacer(0, 0).Pause(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("short pause completes", func(t *testing.T) {
		if err := NewRandomPacer(time.Millisecond, 2*time.Millisecond).Pause(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
