// Package tui implements the terminal rendering of navigator tables and the
// live watch screen.
package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pakalnivut/backend/internal/models"
	"github.com/pakalnivut/backend/internal/table"
)

// clockTickMsg refreshes the displayed clock.
type clockTickMsg time.Time

// gapTickMsg reloads the table so gaps are recomputed.
type gapTickMsg time.Time

// WatchOptions configures a WatchModel.
type WatchOptions struct {
	Navigator models.NavigatorID
	State     table.State
	Now       func() time.Time
	ClockTick time.Duration
	GapTick   time.Duration
}

// WatchModel is the bubbletea model behind `navlog watch`.
type WatchModel struct {
	presenter *table.Presenter
	now       func() time.Time
	clockTick time.Duration
	gapTick   time.Duration

	nav      models.NavigatorID
	state    table.State
	view     table.View
	clock    time.Time
	selected int
	err      error
	quitting bool
}

// NewWatchModel builds a model and loads the initial view.
func NewWatchModel(p *table.Presenter, opts WatchOptions) WatchModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ClockTick <= 0 {
		opts.ClockTick = table.ClockRefresh
	}
	if opts.GapTick <= 0 {
		opts.GapTick = table.GapRefresh
	}
	if !opts.Navigator.Valid() {
		opts.Navigator = models.Navigator1
	}

	m := WatchModel{
		presenter: p,
		now:       opts.Now,
		clockTick: opts.ClockTick,
		gapTick:   opts.GapTick,
		nav:       opts.Navigator,
		state:     opts.State,
		clock:     opts.Now(),
	}
	m.reload()
	return m
}

// Init starts both refresh timers.
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.tickClock(), m.tickGaps())
}

func (m WatchModel) tickClock() tea.Cmd {
	return tea.Tick(m.clockTick, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

func (m WatchModel) tickGaps() tea.Cmd {
	return tea.Tick(m.gapTick, func(t time.Time) tea.Msg { return gapTickMsg(t) })
}

// Update handles timer and key messages.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clockTickMsg:
		m.clock = m.now()
		return m, m.tickClock()
	case gapTickMsg:
		m.reload()
		return m, m.tickGaps()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.view.Rows)-1 {
			m.selected++
		}
	case "left", "h":
		m.state = m.shiftColumn(-1)
		m.reload()
	case "right", "l":
		m.state = m.shiftColumn(1)
		m.reload()
	case "s":
		if m.state.Column != "" {
			m.state = m.state.Toggle(m.state.Column)
			m.reload()
		}
	case " ":
		m.editSpot(m.presenter.IncrementSpot)
	case "r":
		m.editSpot(m.presenter.ResetSpot)
	case "1", "2":
		nav, _ := models.ParseNavigatorID(msg.String())
		if nav != m.nav {
			m.nav = nav
			m.selected = 0
			m.reload()
		}
	}
	return m, nil
}

// shiftColumn moves the sort column by delta, passing through the
// unsorted position between the last and first columns.
func (m WatchModel) shiftColumn(delta int) table.State {
	pos := 0
	for i, c := range table.Columns {
		if c == m.state.Column {
			pos = i + 1
		}
	}
	n := len(table.Columns) + 1
	pos = ((pos+delta)%n + n) % n
	if pos == 0 {
		return table.State{}
	}
	return table.State{Column: table.Columns[pos-1]}
}

// editSpot applies edit to the selected row and keeps the selection on the
// same entry after the view is re-sorted.
func (m *WatchModel) editSpot(edit func(models.NavigatorID, table.State, int) (table.View, error)) {
	idx, ok := m.view.StorageIndex(m.selected)
	if !ok {
		return
	}
	v, err := edit(m.nav, m.state, m.selected)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.view = v
	for i, row := range v.Rows {
		if row.Index == idx {
			m.selected = i
			break
		}
	}
}

func (m *WatchModel) reload() {
	m.view = m.presenter.View(m.nav, m.state)
	if m.selected >= len(m.view.Rows) {
		m.selected = len(m.view.Rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// View renders the screen.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(Banner(m.nav, m.clock.Format("15:04:05")))
	b.WriteString("\n\n")
	b.WriteString(RenderTable(m.view, m.selected))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorText.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(Help.Render("↑/↓ select  ←/→ sort  s direction  space +spot  r reset  1/2 navigator  q quit"))
	b.WriteString("\n")
	return b.String()
}

// Navigator returns the navigator being shown.
func (m WatchModel) Navigator() models.NavigatorID { return m.nav }

// SortState returns the current sort.
func (m WatchModel) SortState() table.State { return m.state }

// Selected returns the highlighted view index.
func (m WatchModel) Selected() int { return m.selected }

// Rows returns the rows currently displayed.
func (m WatchModel) Rows() []models.TableRow { return m.view.Rows }
