package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PickView ViewState = iota
	BatchView
	ResultView
)

const (
	defaultWidth  = 80
	defaultHeight = 20
	recentLines   = 5
)

// Picker is a bubbletea list that chooses one candidate.
//
// Leaving without a choice (esc, q, ctrl+c) fails with [shared.ErrInvalidSelection].
type Picker struct {
	Title string
	In    io.Reader
	Out   io.Writer
}

func (p Picker) Select(ctx context.Context, candidates []models.Candidate) (int, error) {
	if len(candidates) == 0 {
		return 0, shared.ErrNotFound
	}

	m := newPickerModel(p.Title, candidates)
	final, err := tea.NewProgram(m, programOptions(ctx, p.In, p.Out)...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, err
	}

	return final.(*pickerModel).result()
}

func programOptions(ctx context.Context, in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}

// pickerModel is the [PickView] state.
type pickerModel struct {
	list   list.Model
	help   help.Model
	keys   keyMap
	chosen int
}

func newPickerModel(title string, candidates []models.Candidate) *pickerModel {
	if title == "" {
		title = "Multiple matches"
	}

	l := list.New(candidateItems(candidates), list.NewDefaultDelegate(), defaultWidth, defaultHeight)
	l.Title = title
	l.SetShowHelp(false)
	l.Styles.Title = styles.title

	return &pickerModel{list: l, help: help.New(), keys: newKeyMap(), chosen: -1}
}

func (m *pickerModel) result() (int, error) {
	if m.chosen < 0 {
		return 0, fmt.Errorf("%w: no candidate chosen", shared.ErrInvalidSelection)
	}
	return m.chosen, nil
}

func (m *pickerModel) Init() tea.Cmd { return nil }

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.list.SelectedItem().(candidateItem); ok {
				m.chosen = item.index
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *pickerModel) View() string {
	return fmt.Sprintf("%s\n\n%s", m.list.View(), styles.help.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
}

// BatchModel shows a running batch fetch in [BatchView] and its summary in [ResultView].
type BatchModel struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.BatchEngine
	ids          []int64
	opts         tasks.BatchOpts
	progressChan chan tasks.ProgressUpdate
	doneChan     chan struct{}
	final        batchComplete
	progress     tasks.ProgressUpdate
	bar          progress.Model
	recent       []string
	result       *tasks.BatchResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewBatchModel creates a batch view; the fetch starts when the program initializes it.
func NewBatchModel(ctx context.Context, engine *tasks.BatchEngine, ids []int64, opts tasks.BatchOpts) *BatchModel {
	return &BatchModel{
		ctx:    ctx,
		view:   BatchView,
		engine: engine,
		ids:    ids,
		opts:   opts,
		bar:    progress.New(progress.WithDefaultGradient()),
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// RunBatch runs a batch fetch behind the progress view and returns its result once the view exits.
//
// Quitting early cancels the fetch; the partial result is still returned.
func RunBatch(ctx context.Context, engine *tasks.BatchEngine, ids []int64, opts tasks.BatchOpts, in io.Reader, out io.Writer) (*tasks.BatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewBatchModel(ctx, engine, ids, opts)
	_, runErr := tea.NewProgram(m, programOptions(ctx, in, out)...).Run()

	if m.view != ResultView && m.doneChan != nil {
		cancel()
		<-m.doneChan
		m.result, m.err = m.final.result, m.final.err
	}
	if m.err != nil {
		return m.result, m.err
	}
	if runErr != nil && ctx.Err() == nil {
		return m.result, runErr
	}
	return m.result, nil
}

// Result returns the finished batch, or nil before completion.
func (m *BatchModel) Result() (*tasks.BatchResult, error) {
	return m.result, m.err
}

func (m *BatchModel) Init() tea.Cmd {
	return m.start()
}

func (m *BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, defaultWidth)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) || (m.view == ResultView && key.Matches(msg, m.keys.enter)) {
			return m, tea.Quit
		}

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			m.recent = append(m.recent, m.progress.Message)
			if len(m.recent) > recentLines {
				m.recent = m.recent[len(m.recent)-recentLines:]
			}
			return m, m.waitForProgress()

		case MsgBatchComplete:
			done := msg.data.(batchComplete)
			m.result, m.err = done.result, done.err
			m.view = ResultView
			return m, nil
		}
	}
	return m, nil
}

func (m *BatchModel) View() string {
	switch m.view {
	case BatchView:
		return m.renderBatch()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *BatchModel) start() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.doneChan = make(chan struct{})

	go func() {
		result, err := m.engine.FetchSongs(m.ctx, m.progressChan, m.ids, m.opts)
		m.final = batchComplete{result, err}
		close(m.doneChan)
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *BatchModel) waitForProgress() tea.Cmd {
	progressChan, doneChan, final := m.progressChan, m.doneChan, &m.final
	return func() tea.Msg {
		update, ok := <-progressChan
		if !ok {
			<-doneChan
			return batchCompleteMsg(final.result, final.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *BatchModel) percent() float64 {
	if m.progress.Total == 0 {
		return 0
	}
	return float64(m.progress.Step) / float64(m.progress.Total)
}

func (m *BatchModel) renderBatch() string {
	title := styles.title.Render(fmt.Sprintf("Fetching %d songs", len(m.ids)))

	var phase string
	switch m.progress.Phase {
	case tasks.FetchSongs:
		phase = fmt.Sprintf("Fetching songs (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.ExportSongs:
		phase = "Writing exports..."
	case tasks.WriteManifest:
		phase = "Writing manifest..."
	}

	helpView := styles.help.Render(m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	return fmt.Sprintf("%s\n%s\n%s\n\n%s\n\n%s", title, phase, m.bar.ViewAs(m.percent()), strings.Join(m.recent, "\n"), helpView)
}

func (m *BatchModel) renderResult() string {
	helpView := styles.help.Render(m.help.ShortHelpView([]key.Binding{m.keys.quit}))

	if m.result == nil {
		return styles.err.Render(fmt.Sprintf("Batch failed: %v", m.err)) + "\n\n" + helpView
	}

	title := styles.ok.Render("✓ Batch Complete!")
	if m.result.Failed > 0 {
		title = styles.warn.Render(fmt.Sprintf("Batch finished with %d failures", m.result.Failed))
	}
	info := fmt.Sprintf("\nFetched: %d/%d", m.result.Succeeded, m.result.Total)
	if m.result.ManifestPath != "" {
		info += fmt.Sprintf("\nManifest: %s", m.result.ManifestPath)
	}

	var failed string
	for _, res := range m.result.Results {
		if !res.Success {
			failed += fmt.Sprintf("\n  • %d: %v", res.SongID, res.Error)
		}
	}
	if m.err != nil {
		failed += "\n" + styles.err.Render(m.err.Error())
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
