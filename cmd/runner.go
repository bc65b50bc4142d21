package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrx/internal/formatter"
	"github.com/desertthunder/lyrx/internal/records"
	"github.com/desertthunder/lyrx/internal/repositories"
	"github.com/desertthunder/lyrx/internal/selector"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/ui"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *services.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	prompt     io.Writer
	lines      *bufio.Reader
	db         *sql.DB
	repo       *repositories.RecordRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     *services.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	Prompt     io.Writer // menus and token prompts; stdout carries results only
	DB         *sql.DB
}

// NewRunner creates a new Runner with the provided configuration.
//
// A nil Client is built from the config in the root command's Before hook.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Prompt == nil {
		opts.Prompt = os.Stderr
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		prompt:     opts.Prompt,
		db:         opts.DB,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, songCommand, artistCommand, annotationCommand, referentsCommand,
		webPageCommand, searchCommand, lyricsCommand, batchCommand, recordsCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:      "lyrx",
		Usage:     "Query the Genius API: songs, artists, annotations, search and lyrics",
		Version:   "0.3.0",
		Writer:    r.output,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "token",
				Usage: "Genius access token (overrides config and environment)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}

// Before loads the config and builds the API client unless one was injected.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if path := cmd.String("config"); path != "" {
		r.configPath = path
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return ctx, err
			}
			r.config = config
			r.logger.Debug("loaded config", "path", path)
		}
	}

	if r.client == nil {
		r.client = services.NewClientFromConfig(r.config, r.logger, r.tokenPrompter())
	}
	if token := cmd.String("token"); token != "" {
		r.client.SetToken(token)
	}
	return ctx, nil
}

// tokenPrompter asks for a token on the terminal. Non-interactive input gets no prompter.
func (r *Runner) tokenPrompter() services.Prompter {
	f, ok := r.input.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return nil
	}

	return func(ctx context.Context) (string, error) {
		fmt.Fprint(r.prompt, "Genius access token: ")
		line, err := r.reader().ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}

// reader buffers input once so successive prompts share it.
func (r *Runner) reader() *bufio.Reader {
	if r.lines == nil {
		r.lines = bufio.NewReader(r.input)
	}
	return r.lines
}

// SetLogger swaps the runner's logger, e.g. to a file while a TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// store opens the record store on first use.
func (r *Runner) store() (*repositories.RecordRepository, error) {
	if r.repo != nil {
		return r.repo, nil
	}

	if r.db == nil {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return nil, err
		}
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		r.db = db
	}

	if err := shared.RunMigrations(r.db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.repo = repositories.NewRecordRepository(r.db)
	return r.repo, nil
}

// Close releases the database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// selector picks the disambiguation strategy from --first and --tui.
func (r *Runner) selector(cmd *cli.Command, title string) selector.Selector {
	switch {
	case cmd.Bool("first"):
		return selector.First{}
	case cmd.Bool("tui"):
		return ui.Picker{Title: title, In: r.input, Out: r.prompt}
	default:
		return selector.Prompt{In: r.reader(), Out: r.prompt, Header: title}
	}
}

// songID accepts a numeric id or a search query resolved through the selector.
func (r *Runner) songID(ctx context.Context, cmd *cli.Command, arg string) (int64, error) {
	if id, ok := parseID(arg); ok {
		return id, nil
	}
	if strings.TrimSpace(arg) == "" {
		return 0, fmt.Errorf("%w: song id or search query", shared.ErrMissingArgument)
	}
	return r.client.ResolveSong(ctx, arg, r.selector(cmd, fmt.Sprintf("Songs matching %q", arg)))
}

// artistID accepts a numeric id or an artist name resolved through the selector.
func (r *Runner) artistID(ctx context.Context, cmd *cli.Command, arg string) (int64, error) {
	if id, ok := parseID(arg); ok {
		return id, nil
	}
	if strings.TrimSpace(arg) == "" {
		return 0, fmt.Errorf("%w: artist id or name", shared.ErrMissingArgument)
	}
	return r.client.ResolveArtist(ctx, arg, r.selector(cmd, fmt.Sprintf("Artists matching %q", arg)))
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return id, err == nil && id > 0
}

func requireID(name, arg string) (int64, error) {
	id, ok := parseID(arg)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", shared.ErrInvalidArgument, name, arg)
	}
	return id, nil
}

// output describes one command's result for [Runner.emit].
type output struct {
	kind   string
	source string
	title  string
	table  records.Table
	raw    any  // --json payload, defaults to the table
	single bool // render text as field/value lines
}

// emit writes a result according to --json, --format, --output and --save.
func (r *Runner) emit(cmd *cli.Command, out output) error {
	if cmd.Bool("save") {
		repo, err := r.store()
		if err != nil {
			return err
		}
		stored, err := repo.Save(out.kind, out.source, out.table)
		if err != nil {
			return err
		}
		r.logger.Info("saved records", "ref", fmt.Sprintf("#%d", stored.Sequence), "kind", out.kind, "rows", stored.RowCount)
	}

	if cmd.Bool("json") {
		payload := out.raw
		if payload == nil {
			payload = out.table
		}
		return r.writeJSON(payload, cmd.Bool("pretty"))
	}

	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(out.table, f, path, out.title)
		if err != nil {
			return err
		}
		r.logger.Info("export written", "path", written, "rows", out.table.Len())
		return nil
	}

	var data []byte
	if f == formatter.FormatText && out.single && out.table.Len() == 1 {
		data = formatter.ExportRecordText(out.table.Rows[0])
	} else if data, err = formatter.Export(out.table, f, out.title); err != nil {
		return err
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	encoded, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(encoded); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
