package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrx/internal/formatter"
	"github.com/desertthunder/lyrx/internal/records"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultWorkers   = 3
	MaxWorkers       = 10
	DefaultRateLimit = 1.0
	ManifestFilename = "batch_manifest.json"
)

// SongFetcher is the part of the Genius client a batch needs.
type SongFetcher interface {
	Song(ctx context.Context, id int64, textFormat string) (*services.SongResult, error)
}

// BatchOpts contains configuration for a batch song fetch.
type BatchOpts struct {
	NumWorkers int              // Concurrent workers (default: 3, max: 10)
	RateLimit  float64          // Requests per second across all workers (default: 1)
	TextFormat string           // text_format passed to each /songs/{id} call
	OutputDir  string           // When set, each song is written here and a manifest is produced
	Format     formatter.Format // Per-song file format (default: json)
	Covers     bool             // Download song art alongside markdown exports
}

// SongFetchResult is the outcome for a single id.
type SongFetchResult struct {
	SongID  int64                `json:"song_id"`
	Song    *services.SongResult `json:"-"`
	Files   []string             `json:"files,omitempty"`
	Success bool                 `json:"success"`
	Error   error                `json:"-"`
}

// Title returns the song's full title, falling back to its id.
func (r SongFetchResult) Title() string {
	if r.Song != nil {
		if v, _ := r.Song.Record.Get("full_title"); !records.IsNull(v) {
			return records.Format(v, "")
		}
	}
	return fmt.Sprintf("song %d", r.SongID)
}

// BatchResult summarizes a batch run. Results keep the order of the requested ids.
type BatchResult struct {
	Total        int               `json:"total"`
	Succeeded    int               `json:"succeeded"`
	Failed       int               `json:"failed"`
	Results      []SongFetchResult `json:"-"`
	OutputDir    string            `json:"output_dir,omitempty"`
	ManifestPath string            `json:"-"`
}

// Songs returns every successfully fetched song as one table, in request order.
func (r *BatchResult) Songs() records.Table {
	t := records.Table{Schema: records.SongSchema}
	for _, res := range r.Results {
		if res.Success && res.Song != nil {
			t.Rows = append(t.Rows, res.Song.Record)
		}
	}
	return t
}

// Errors returns the failure for each id that did not succeed.
func (r *BatchResult) Errors() map[int64]error {
	errs := make(map[int64]error)
	for _, res := range r.Results {
		if !res.Success {
			errs[res.SongID] = res.Error
		}
	}
	return errs
}

// BatchEngine fans song lookups out over a worker pool.
type BatchEngine struct {
	client SongFetcher
	logger *log.Logger
}

// NewBatchEngine creates a new [BatchEngine]
func NewBatchEngine(client SongFetcher, logger *log.Logger) *BatchEngine {
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
		logger.SetLevel(log.WarnLevel)
	}
	return &BatchEngine{client: client, logger: logger}
}

// BatchOptsFromConfig seeds worker and rate settings from the [batch] config section.
func BatchOptsFromConfig(cfg *shared.Config) BatchOpts {
	if cfg == nil {
		return BatchOpts{}
	}
	return BatchOpts{NumWorkers: cfg.Batch.Workers, RateLimit: cfg.Batch.RateLimit}
}

type batchJob struct {
	index int
	id    int64
}

type batchOutcome struct {
	index  int
	result SongFetchResult
}

// FetchSongs fetches every id with bounded concurrency and a shared request rate.
//
// A failed id is recorded in its result and never aborts the batch. When ctx is cancelled the ids not yet
// fetched are marked failed with the context error, which FetchSongs also returns alongside the partial result.
func (e *BatchEngine) FetchSongs(ctx context.Context, prog chan<- ProgressUpdate, ids []int64, opts BatchOpts) (*BatchResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: client not initialized", shared.ErrMissingArgument)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one song id", shared.ErrMissingArgument)
	}
	if err := normalizeBatchOpts(&opts); err != nil {
		return nil, err
	}

	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	result := &BatchResult{
		Total:     len(ids),
		OutputDir: opts.OutputDir,
		Results:   make([]SongFetchResult, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan batchJob, len(ids))
	outcomes := make(chan batchOutcome, len(ids))

	for i, id := range ids {
		jobs <- batchJob{index: i, id: id}
	}
	close(jobs)

	sendProgress(prog, fetchingSongsUpdate(len(ids), opts.NumWorkers))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.fetchWorker(ctx, &wg, limiter, jobs, outcomes, opts)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for out := range outcomes {
		completed++
		result.Results[out.index] = out.result

		if out.result.Success {
			result.Succeeded++
			sendProgress(prog, songFetchedUpdate(completed, len(ids), out.result))
			if len(out.result.Files) > 0 {
				sendProgress(prog, exportCompletedUpdate(completed, len(ids), out.result.Title(), len(out.result.Files)))
			}
		} else {
			result.Failed++
			e.logger.Warn("song fetch failed", "id", out.result.SongID, "error", out.result.Error)
			sendProgress(prog, songFailedUpdate(completed, len(ids), out.result))
		}
	}

	if opts.OutputDir != "" {
		path := filepath.Join(opts.OutputDir, ManifestFilename)
		if err := writeManifest(result, path); err != nil {
			return result, fmt.Errorf("batch completed but failed to write manifest: %w", err)
		}
		result.ManifestPath = path
		sendProgress(prog, manifestUpdate(path))
	}

	return result, ctx.Err()
}

func normalizeBatchOpts(opts *BatchOpts) error {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if _, err := formatter.ParseFormat(string(opts.Format)); err != nil {
		return err
	}
	return nil
}

// fetchWorker drains jobs until the channel closes. After cancellation it keeps draining so every id gets a result.
func (e *BatchEngine) fetchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan batchJob,
	outcomes chan<- batchOutcome,
	opts BatchOpts,
) {
	defer wg.Done()

	for job := range jobs {
		res := SongFetchResult{SongID: job.id}

		if err := limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			res.Error = err
			outcomes <- batchOutcome{index: job.index, result: res}
			continue
		}

		e.logger.Debug("fetching song", "id", job.id)
		song, err := e.client.Song(ctx, job.id, opts.TextFormat)
		if err != nil {
			res.Error = fmt.Errorf("failed to fetch song %d: %w", job.id, err)
			outcomes <- batchOutcome{index: job.index, result: res}
			continue
		}
		res.Song = song

		if opts.OutputDir != "" {
			files, err := exportSong(song, job.id, opts)
			if err != nil {
				res.Error = err
				outcomes <- batchOutcome{index: job.index, result: res}
				continue
			}
			res.Files = files
		}

		res.Success = true
		outcomes <- batchOutcome{index: job.index, result: res}
	}
}

// exportSong writes one song in the configured format under OutputDir.
func exportSong(song *services.SongResult, id int64, opts BatchOpts) ([]string, error) {
	table := records.Single(records.SongSchema, song.Record)
	name := fmt.Sprintf("song_%d", id)

	if opts.Format == formatter.FormatMarkdown {
		var imageURL string
		if opts.Covers {
			if v, _ := song.Record.Get("song_art_image_url"); !records.IsNull(v) {
				imageURL = records.Format(v, "")
			}
		}
		title := SongFetchResult{SongID: id, Song: song}.Title()
		md, err := formatter.WriteMarkdownExport(table, filepath.Join(opts.OutputDir, name), title, imageURL)
		if err != nil {
			return nil, fmt.Errorf("markdown export failed: %w", err)
		}
		return md.Files, nil
	}

	path, err := formatter.WriteExport(table, opts.Format, filepath.Join(opts.OutputDir, name+opts.Format.Extension()), name)
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

type manifestEntry struct {
	SongID  int64    `json:"song_id"`
	Title   string   `json:"title,omitempty"`
	Success bool     `json:"success"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type manifest struct {
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Songs     []manifestEntry `json:"songs"`
}

func writeManifest(r *BatchResult, path string) error {
	m := manifest{Total: r.Total, Succeeded: r.Succeeded, Failed: r.Failed, Songs: make([]manifestEntry, 0, len(r.Results))}
	for _, res := range r.Results {
		entry := manifestEntry{SongID: res.SongID, Success: res.Success, Files: res.Files}
		if res.Song != nil {
			entry.Title = res.Title()
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		m.Songs = append(m.Songs, entry)
	}

	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
