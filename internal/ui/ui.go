package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oliverjern/genregenius/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SeedListView ViewState = iota
	ConfirmView
	RunView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	pipeline     *tasks.Pipeline
	opts         tasks.PipelineOptions
	seeds        []string
	seedList     list.Model
	width        int
	height       int
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.PipelineResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a TUI model over the given seed artists and pipeline.
func NewModel(ctx context.Context, seeds []string, pipeline *tasks.Pipeline, opts tasks.PipelineOptions) *Model {
	items := make([]list.Item, len(seeds))
	for i, seed := range seeds {
		items[i] = seedItem{name: seed}
	}

	seedList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	seedList.Title = fmt.Sprintf("Library Artists (%d)", len(seeds))

	return &Model{
		ctx:      ctx,
		view:     SeedListView,
		pipeline: pipeline,
		opts:     opts,
		seeds:    seeds,
		seedList: seedList,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seedList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SeedListView:
			return m.handleSeedListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	if m.view == SeedListView {
		var cmd tea.Cmd
		m.seedList, cmd = m.seedList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SeedListView:
		return m.renderSeedList()
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSeedListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.seedList, cmd = m.seedList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "n":
		m.view = SeedListView
		return m, nil
	case "y":
		m.view = RunView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter":
		return m, tea.Quit
	case "r":
		m.view = SeedListView
		m.result = nil
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
		return m, nil
	}
	return m, nil
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func(progress chan tasks.ProgressUpdate) {
		result, err := m.pipeline.Run(m.ctx, m.seeds, m.opts, progress)
		m.result = result
		m.err = err
		close(progress)
	}(m.progressChan)

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	return func() tea.Msg {
		if progress == nil {
			return runCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-progress
		if !ok {
			return runCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSeedList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.seedList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Discover and curate playlists for %d artists?", len(m.seeds)))
	info := "\nPhase 1 crawls MusicBrainz for related artists.\nPhase 2 classifies them by genre and builds Spotify playlists.\n"

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Running Pipeline")

	var phase string
	switch m.progress.Phase {
	case tasks.DiscoverSeeds:
		phase = fmt.Sprintf("Discovering related artists (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.ClassifyArtists:
		phase = fmt.Sprintf("Classifying genres (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.FetchTracks:
		phase = fmt.Sprintf("Fetching top tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.CreatePlaylists:
		phase = fmt.Sprintf("Creating playlists (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Starting..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Pipeline failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil || m.result.Build == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Pipeline Complete")

	build := m.result.Build
	info := fmt.Sprintf("\nPlaylists created: %d\nTracks added: %d\n", len(build.Playlists), build.TracksAdded)
	for _, pl := range build.Playlists {
		info += fmt.Sprintf("  • %s (%d tracks)\n", pl.Name, len(pl.TrackIDs))
	}

	var warnings string
	if len(build.Skipped) > 0 {
		warnings += "\n" + styles.warn.Render(fmt.Sprintf("Skipped %d genres:", len(build.Skipped))) + "\n"
		for _, skip := range build.Skipped {
			warnings += fmt.Sprintf("  • %s: %s\n", skip.Genre, skip.Reason)
		}
	}
	if m.result.Discovery != nil && len(m.result.Discovery.FailedSeeds) > 0 {
		warnings += "\n" + styles.warn.Render(fmt.Sprintf("Failed seeds (%d), rerun with --resume:", len(m.result.Discovery.FailedSeeds))) + "\n"
		for _, seed := range m.result.Discovery.FailedSeeds {
			warnings += fmt.Sprintf("  • %s\n", seed)
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n%s", title, info, warnings, helpView)
}
