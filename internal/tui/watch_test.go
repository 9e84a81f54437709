package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pakalnivut/backend/internal/dispatchlog"
	"github.com/pakalnivut/backend/internal/models"
	"github.com/pakalnivut/backend/internal/storage"
	"github.com/pakalnivut/backend/internal/table"
	"github.com/pakalnivut/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newWatch(t *testing.T) (WatchModel, *dispatchlog.Store, *testutil.Clock) {
	t.Helper()
	store := dispatchlog.NewStore(testutil.NewMockKV(), storage.JSONCodec{}, nil)
	clock := testutil.NewClock(10, 0)

	seed := []models.DispatchEntry{
		testutil.Entry(models.Navigator1, "3", "Chen", 1, "09:00", "10:25"),
		testutil.Entry(models.Navigator1, "1", "Avi", 2, "09:10", "10:05"),
		testutil.Entry(models.Navigator1, "2", "Ben", 3, "09:20", "11:30"),
	}
	for _, e := range seed {
		require.NoError(t, store.Append(models.Navigator1, e))
	}
	require.NoError(t, store.Append(models.Navigator2, testutil.Entry(models.Navigator2, "9", "Gal", 1, "09:50", "10:14")))

	m := NewWatchModel(table.NewPresenter(store, clock.Now), WatchOptions{
		Navigator: models.Navigator1,
		Now:       clock.Now,
	})
	return m, store, clock
}

func update(t *testing.T, m WatchModel, msg tea.Msg) WatchModel {
	t.Helper()
	next, _ := m.Update(msg)
	wm, ok := next.(WatchModel)
	require.True(t, ok)
	return wm
}

func squads(rows []models.TableRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Entry.SquadNumber
	}
	return out
}

func TestWatch_Initial(t *testing.T) {
	m, _, _ := newWatch(t)

	assert.Equal(t, models.Navigator1, m.Navigator())
	assert.Equal(t, []string{"3", "1", "2"}, squads(m.Rows()))
	assert.Equal(t, 0, m.Selected())
	assert.NotNil(t, m.Init())

	out := m.View()
	assert.Contains(t, out, "Navigator 1")
	assert.Contains(t, out, "10:00:00")
	assert.Contains(t, out, "Chen")
}

func TestWatch_Selection(t *testing.T) {
	m, _, _ := newWatch(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Selected())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, runes("j"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.Selected())

	m = update(t, m, runes("k"))
	assert.Equal(t, 1, m.Selected())
}

func TestWatch_SortKeys(t *testing.T) {
	m, _, _ := newWatch(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, table.State{Column: table.ColumnNumber}, m.SortState())
	assert.Equal(t, []string{"1", "2", "3"}, squads(m.Rows()))

	m = update(t, m, runes("s"))
	assert.True(t, m.SortState().Descending)
	assert.Equal(t, []string{"3", "2", "1"}, squads(m.Rows()))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, table.State{}, m.SortState())
	assert.Equal(t, []string{"3", "1", "2"}, squads(m.Rows()))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, table.ColumnGap, m.SortState().Column)
	assert.Equal(t, []string{"1", "3", "2"}, squads(m.Rows()))
}

func TestWatch_SpotEditsFollowSortedRow(t *testing.T) {
	m, store, _ := newWatch(t)

	// Sorted by number the first row is squad 1, stored second.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})

	stored := store.Load(models.Navigator1)
	assert.Equal(t, 0, stored[0].Spots)
	assert.Equal(t, 2, stored[1].Spots)
	assert.Equal(t, 0, stored[2].Spots)

	// Sorted descending by spots the order is Avi, Chen, Ben. Bumping Ben
	// moves it above Chen and the selection follows it.
	for m.SortState().Column != table.ColumnSpots {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}
	m = update(t, m, runes("s"))
	assert.Equal(t, []string{"1", "3", "2"}, squads(m.Rows()))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, []string{"1", "2", "3"}, squads(m.Rows()))
	assert.Equal(t, 1, m.Selected())
	assert.Equal(t, 1, store.Load(models.Navigator1)[2].Spots)

	m = update(t, m, runes("r"))
	assert.Equal(t, 0, store.Load(models.Navigator1)[2].Spots)
	assert.Equal(t, 2, store.Load(models.Navigator1)[1].Spots)
}

func TestWatch_SwitchNavigator(t *testing.T) {
	m, _, _ := newWatch(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})

	m = update(t, m, runes("2"))
	assert.Equal(t, models.Navigator2, m.Navigator())
	assert.Equal(t, []string{"9"}, squads(m.Rows()))
	assert.Equal(t, 0, m.Selected())

	m = update(t, m, runes("1"))
	assert.Len(t, m.Rows(), 3)
}

func TestWatch_Ticks(t *testing.T) {
	m, store, clock := newWatch(t)

	clock.Advance(90 * time.Second)
	m = update(t, m, clockTickMsg(clock.Now()))
	assert.Contains(t, m.View(), "10:01:30")

	require.NoError(t, store.Append(models.Navigator1, testutil.Entry(models.Navigator1, "4", "Dan", 1, "10:01", "10:25")))
	assert.Len(t, m.Rows(), 3)
	m = update(t, m, gapTickMsg(clock.Now()))
	assert.Len(t, m.Rows(), 4)
	assert.Equal(t, "0:04", m.Rows()[1].Gap)
}

func TestWatch_Quit(t *testing.T) {
	m, _, _ := newWatch(t)

	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, next.View())
}

func TestRenderTable(t *testing.T) {
	m, _, _ := newWatch(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})

	out := RenderTable(table.Build(models.Navigator1, nil, 0, table.State{}), -1)
	assert.Contains(t, out, "no dispatches logged")

	out = m.View()
	lines := strings.Split(out, "\n")
	var body []string
	for _, l := range lines {
		if strings.Contains(l, "Avi") || strings.Contains(l, "Ben") || strings.Contains(l, "Chen") {
			body = append(body, l)
		}
	}
	require.Len(t, body, 3)
	assert.Contains(t, body[0], "Avi")
	assert.Contains(t, body[0], "0:05")
	assert.Contains(t, body[2], "Chen")
	assert.Contains(t, out, "Squad↑")
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab  ", pad("ab", 4))
	assert.Equal(t, "abcd", pad("abcd", 4))
	assert.Equal(t, "abc…", pad("abcdefgh", 4))
}
