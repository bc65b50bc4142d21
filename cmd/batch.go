package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/desertthunder/lyrx/internal/formatter"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/tasks"
	"github.com/desertthunder/lyrx/internal/ui"
	"github.com/urfave/cli/v3"
)

// BatchSongs fetches every id concurrently and prints the songs that succeeded as one table.
func (r *Runner) BatchSongs(ctx context.Context, cmd *cli.Command) error {
	ids, err := batchIDs(cmd.Args().Slice(), cmd.String("file"))
	if err != nil {
		return err
	}

	opts := tasks.BatchOptsFromConfig(r.config)
	if cmd.IsSet("workers") {
		opts.NumWorkers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("rate") {
		opts.RateLimit = cmd.Float("rate")
	}
	opts.TextFormat = cmd.String("text-format")
	opts.OutputDir = cmd.String("export-dir")
	opts.Covers = cmd.Bool("covers")
	if opts.OutputDir != "" {
		f, err := formatter.ParseFormat(cmd.String("export-format"))
		if err != nil {
			return err
		}
		opts.Format = f
	}

	var result *tasks.BatchResult
	var runErr error
	if cmd.Bool("tui") {
		fileLogger, err := shared.NewFileLogger("./tmp/lyrx-tui.log")
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		r.SetLogger(fileLogger)

		engine := tasks.NewBatchEngine(r.client, shared.WithLogger(r.logger, "job", "batch"))
		result, runErr = ui.RunBatch(ctx, engine, ids, opts, r.input, os.Stderr)
	} else {
		result, runErr = r.runBatch(ctx, ids, opts)
	}
	if result == nil {
		return runErr
	}

	r.logger.Info("batch complete", "succeeded", result.Succeeded, "failed", result.Failed)
	for id, ferr := range result.Errors() {
		r.logger.Warn("song failed", "id", id, "error", ferr)
	}
	if result.ManifestPath != "" {
		r.logger.Info("manifest written", "path", result.ManifestPath)
	}

	if result.Succeeded > 0 {
		if err := r.emit(cmd, output{
			kind:   "song",
			source: fmt.Sprintf("batch:%d", len(ids)),
			title:  "batch_songs",
			table:  result.Songs(),
		}); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}
	if result.Succeeded == 0 {
		return fmt.Errorf("%w: all %d songs failed", shared.ErrRequestFailed, result.Total)
	}
	return nil
}

// runBatch logs progress updates while the engine runs.
func (r *Runner) runBatch(ctx context.Context, ids []int64, opts tasks.BatchOpts) (*tasks.BatchResult, error) {
	progress := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	engine := tasks.NewBatchEngine(r.client, shared.WithLogger(r.logger, "job", "batch"))
	result, err := engine.FetchSongs(ctx, progress, ids, opts)
	close(progress)
	wg.Wait()
	return result, err
}

// batchIDs merges ids from arguments and an optional file. Blank lines and lines starting with # are skipped.
func batchIDs(args []string, path string) ([]int64, error) {
	raw := append([]string{}, args...)

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open id file: %w", err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			raw = append(raw, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read id file: %w", err)
		}
	}

	var ids []int64
	for _, s := range raw {
		for _, part := range strings.Split(s, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := requireID("song id", part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one song id", shared.ErrMissingArgument)
	}
	return ids, nil
}
