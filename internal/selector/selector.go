// Package selector resolves a candidate set to a single identifier.
//
// Resolution is a strategy: batch callers pass [First], terminals pass [Prompt] or the bubbletea picker
// in the ui package.
package selector

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

// Selector picks one of several candidates and returns its zero-based index.
type Selector interface {
	Select(ctx context.Context, candidates []models.Candidate) (int, error)
}

// Func adapts a function to the [Selector] interface.
type Func func(ctx context.Context, candidates []models.Candidate) (int, error)

func (f Func) Select(ctx context.Context, candidates []models.Candidate) (int, error) {
	return f(ctx, candidates)
}

// Resolve returns the id of the single candidate in set, asking sel only when there is more than one.
func Resolve(ctx context.Context, set *models.CandidateSet, sel Selector) (int64, error) {
	switch set.Len() {
	case 0:
		return 0, fmt.Errorf("%w: no matching candidates", shared.ErrNotFound)
	case 1:
		return set.At(0).ID, nil
	}

	if sel == nil {
		sel = First{}
	}

	items := set.Items()
	idx, err := sel.Select(ctx, items)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(items) {
		return 0, fmt.Errorf("%w: index %d out of range", shared.ErrInvalidSelection, idx)
	}
	return items[idx].ID, nil
}

// First always chooses the first candidate.
type First struct{}

func (First) Select(_ context.Context, candidates []models.Candidate) (int, error) {
	if len(candidates) == 0 {
		return 0, shared.ErrNotFound
	}
	return 0, nil
}

// Prompt lists candidates as a 1-indexed menu on Out and reads one choice from In.
//
// An unreadable, non-numeric or out-of-range answer fails with [shared.ErrInvalidSelection]; it does not ask again.
//
// In is read through a [bufio.Reader]; pass one to keep lines buffered past the first answer between calls.
// A Select cancelled through ctx leaves its read pending on In, so In should not be reused afterwards.
type Prompt struct {
	In     io.Reader
	Out    io.Writer
	Header string
}

func (p Prompt) Select(ctx context.Context, candidates []models.Candidate) (int, error) {
	if len(candidates) == 0 {
		return 0, shared.ErrNotFound
	}

	header := p.Header
	if header == "" {
		header = "Multiple matches found:"
	}
	fmt.Fprintln(p.Out, header)
	for i, c := range candidates {
		fmt.Fprintf(p.Out, "  %d. %s\n", i+1, c)
	}
	fmt.Fprintf(p.Out, "Choose [1-%d]: ", len(candidates))

	line, err := readLine(ctx, p.In)
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", shared.ErrInvalidSelection, strings.TrimSpace(line))
	}
	if n < 1 || n > len(candidates) {
		return 0, fmt.Errorf("%w: %d is not between 1 and %d", shared.ErrInvalidSelection, n, len(candidates))
	}
	return n - 1, nil
}

func readLine(ctx context.Context, r io.Reader) (string, error) {
	type result struct {
		line string
		err  error
	}

	done := make(chan result, 1)
	go func() {
		br, ok := r.(*bufio.Reader)
		if !ok {
			br = bufio.NewReader(r)
		}
		line, err := br.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		done <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("%w: %v", shared.ErrInvalidSelection, res.err)
		}
		return res.line, nil
	}
}
