package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jwulff/f1grid/internal/directory"
	"github.com/jwulff/f1grid/internal/openf1"

	tea "github.com/charmbracelet/bubbletea"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Options configures a Model.
type Options struct {
	FlagURL string           // flag image template, %s is the two-letter code
	Now     func() time.Time // clock for the "updated ..." footer
}

// Model is the root bubbletea model for the driver list.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	loader  *directory.Loader
	flagURL string
	now     func() time.Time

	// Directory as of the last applied load
	drivers  directory.Directory
	visible  directory.Directory
	applied  uint64
	loadedAt time.Time
	failed   bool

	// Search
	query      string
	searching  bool
	suggestion string

	// Selection
	selected int
	scroll   int
	detail   *openf1.Driver

	// UI state
	width     int
	height    int
	spinning  bool
	spinFrame int

	// Errors
	errorMessage   string
	errorTransient bool
}

// New creates a Model that loads through loader.
func New(loader *directory.Loader, opts Options) Model {
	if opts.FlagURL == "" {
		opts.FlagURL = directory.DefaultFlagURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	snap := loader.Snapshot()
	return Model{
		ctx:      ctx,
		cancel:   cancel,
		loader:   loader,
		flagURL:  opts.FlagURL,
		now:      opts.Now,
		drivers:  snap.Directory,
		visible:  snap.Directory,
		applied:  snap.Seq,
		loadedAt: snap.LoadedAt,
		spinning: true,
	}
}

// Init starts the initial load.
func (m Model) Init() tea.Cmd {
	seq, ok := m.loader.Begin()
	if !ok {
		return spinnerTickCmd()
	}
	return tea.Batch(loadCmd(m.ctx, m.loader, seq), spinnerTickCmd())
}

// loadCmd performs the fetch for load seq off the event loop.
func loadCmd(ctx context.Context, loader *directory.Loader, seq uint64) tea.Cmd {
	return func() tea.Msg {
		return LoadFinishedMsg{Outcome: loader.Complete(ctx, seq)}
	}
}

func spinnerTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureVisible()
		return m, nil

	case LoadFinishedMsg:
		return m.handleLoad(msg.Outcome)

	case SpinnerTickMsg:
		if !m.loader.State().InFlight() {
			m.spinning = false
			return m, nil
		}
		m.spinFrame = (m.spinFrame + 1) % len(spinnerFrames)
		return m, spinnerTickCmd()

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

// handleLoad applies a finished load. Outcomes older than the last applied
// one are ignored, so the most recently started load wins.
func (m Model) handleLoad(out directory.Outcome) (tea.Model, tea.Cmd) {
	if out.Seq <= m.applied {
		return m, nil
	}

	switch out.Result {
	case directory.ResultLoaded:
		m.applied = out.Seq
		m.drivers = out.Directory
		m.loadedAt = m.loader.Snapshot().LoadedAt
		m.failed = false
		m.errorMessage = ""
		m.errorTransient = false
		m.applyFilter()
		if m.detail != nil {
			if d, ok := m.drivers.Find(m.detail.DriverNumber); ok {
				m.detail = &d
			} else {
				m.detail = nil
			}
		}
		return m, nil

	case directory.ResultFailed:
		m.applied = out.Seq
		m.failed = true
		m.errorMessage = failureMessage(out)
		if len(m.drivers) > 0 {
			// the previous list is still on screen
			m.errorTransient = true
			return m, clearTransientErrorCmd()
		}
		return m, nil
	}

	return m, nil
}

func failureMessage(out directory.Outcome) string {
	switch out.Failure {
	case directory.FailureParse:
		return fmt.Sprintf("unexpected response from OpenF1: %v", out.Err)
	default:
		return fmt.Sprintf("could not reach OpenF1: %v", out.Err)
	}
}

// refresh starts a reload unless one is already running.
func (m Model) refresh() (tea.Model, tea.Cmd) {
	seq, ok := m.loader.Begin()
	if !ok {
		return m, nil
	}
	cmds := []tea.Cmd{loadCmd(m.ctx, m.loader, seq)}
	if !m.spinning {
		m.spinning = true
		cmds = append(cmds, spinnerTickCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeyCtrlC {
		return m.quit()
	}
	if m.detail != nil {
		return m.handleDetailKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case KeyQuit, KeyQuitUpper:
		return m.quit()

	case KeySearch:
		m.searching = true
		return m, nil

	case KeyRefresh:
		return m.refresh()

	case KeyJ, KeyDown:
		m.moveSelection(1)
		return m, nil

	case KeyK, KeyUp:
		m.moveSelection(-1)
		return m, nil

	case KeyHome:
		m.selected = 0
		m.ensureVisible()
		return m, nil

	case KeyEnd:
		m.selected = max(0, len(m.visible)-1)
		m.ensureVisible()
		return m, nil

	case KeyEnter:
		if m.selected < len(m.visible) {
			d := m.visible[m.selected]
			m.detail = &d
		}
		return m, nil

	case KeyEsc:
		if m.query != "" {
			m.query = ""
			m.applyFilter()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.query = ""
		m.applyFilter()
	case tea.KeyEnter:
		m.searching = false
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
			m.applyFilter()
		}
	case tea.KeyUp:
		m.moveSelection(-1)
	case tea.KeyDown:
		m.moveSelection(1)
	case tea.KeySpace:
		m.query += " "
		m.applyFilter()
	case tea.KeyRunes:
		m.query += string(msg.Runes)
		m.applyFilter()
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc, KeyEnter, KeyQuit, KeyQuitUpper:
		m.detail = nil
	}
	return m, nil
}

// applyFilter recomputes the visible drivers from the query.
func (m *Model) applyFilter() {
	m.visible = directory.Filter(m.drivers, m.query)
	m.suggestion = ""
	if len(m.visible) == 0 && m.query != "" {
		m.suggestion = directory.Suggest(m.drivers, m.query)
	}
	if m.selected >= len(m.visible) {
		m.selected = max(0, len(m.visible)-1)
	}
	m.ensureVisible()
}

func (m *Model) moveSelection(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.selected = min(max(m.selected+delta, 0), len(m.visible)-1)
	m.ensureVisible()
}

// ensureVisible scrolls the list so the selected row is on screen.
func (m *Model) ensureVisible() {
	h := m.listHeight()
	if m.selected < m.scroll {
		m.scroll = m.selected
	}
	if m.selected >= m.scroll+h {
		m.scroll = m.selected - h + 1
	}
	if maxScroll := max(0, len(m.visible)-h); m.scroll > maxScroll {
		m.scroll = maxScroll
	}
}

func (m Model) listHeight() int {
	if m.height == 0 {
		return 20
	}
	// header, search, two dividers, error, footer
	reserved := 6
	return max(3, m.height-reserved)
}
