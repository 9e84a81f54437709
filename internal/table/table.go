// Package table turns a navigator's stored entries into the sorted,
// live-gap view shown to users, and maps positions in that view back to
// storage indices.
package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pakalnivut/backend/internal/clockgap"
	"github.com/pakalnivut/backend/internal/models"
)

// Column keys accepted for sorting.
const (
	ColumnNumber     = "number"
	ColumnName       = "name"
	ColumnDistance   = "distance"
	ColumnSpots      = "spots"
	ColumnDelivering = "delivering"
	ColumnArrival    = "arrival"
	ColumnGap        = "gap"
)

// Columns lists the sortable columns in display order.
var Columns = []string{
	ColumnNumber, ColumnName, ColumnDistance, ColumnSpots,
	ColumnDelivering, ColumnArrival, ColumnGap,
}

// Refresh intervals for the displayed clock and the gap column.
const (
	ClockRefresh = time.Second
	GapRefresh   = 5 * time.Second
)

// State is the presenter's sort selection. The zero value shows entries in
// insertion order.
type State struct {
	Column     string
	Descending bool
}

// ParseState validates a column key and direction ("asc" or "desc").
func ParseState(column, dir string) (State, error) {
	column = strings.ToLower(strings.TrimSpace(column))
	if column != "" && !validColumn(column) {
		return State{}, fmt.Errorf("unknown sort column: %q", column)
	}
	var desc bool
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return State{}, fmt.Errorf("unknown sort direction: %q", dir)
	}
	if column == "" {
		desc = false
	}
	return State{Column: column, Descending: desc}, nil
}

// Toggle selects column: the current column flips direction, a new column
// starts ascending.
func (s State) Toggle(column string) State {
	if s.Column == column {
		return State{Column: column, Descending: !s.Descending}
	}
	return State{Column: column}
}

// Direction returns "asc" or "desc".
func (s State) Direction() string {
	if s.Descending {
		return "desc"
	}
	return "asc"
}

func validColumn(c string) bool {
	for _, col := range Columns {
		if col == c {
			return true
		}
	}
	return false
}

// View is a sorted presentation of one navigator's entries.
type View struct {
	Navigator models.NavigatorID
	Now       clockgap.ClockTime
	State     State
	Rows      []models.TableRow
}

// Build computes live gaps for entries at now and sorts them per state.
// The sort is stable, so equal keys keep insertion order. entries is not
// modified.
func Build(nav models.NavigatorID, entries []models.DispatchEntry, now clockgap.ClockTime, state State) View {
	rows := make([]models.TableRow, len(entries))
	for i, e := range entries {
		rows[i] = models.TableRow{Index: i, Entry: e}
		if arrival, err := clockgap.Parse(e.ArrivalTime); err == nil {
			g := clockgap.TimeGap(now, arrival)
			rows[i].Gap = g.Display
			rows[i].GapMins = g.Minutes
			rows[i].Overdue = g.Overdue
			rows[i].Severity = g.Severity()
		} else {
			rows[i].Severity = models.SeverityInvalid
		}
	}

	if state.Column != "" {
		less := lessFunc(state.Column)
		sort.SliceStable(rows, func(i, j int) bool {
			if state.Descending {
				return less(rows[j], rows[i])
			}
			return less(rows[i], rows[j])
		})
	}

	return View{Navigator: nav, Now: now, State: state, Rows: rows}
}

// StorageIndex translates a position in the view to the entry's index in
// storage.
func (v View) StorageIndex(viewIndex int) (int, bool) {
	if viewIndex < 0 || viewIndex >= len(v.Rows) {
		return 0, false
	}
	return v.Rows[viewIndex].Index, true
}

// Model converts the view to its wire representation.
func (v View) Model() models.TableView {
	rows := v.Rows
	if rows == nil {
		rows = []models.TableRow{}
	}
	return models.TableView{
		Navigator:  v.Navigator,
		Now:        v.Now.String(),
		SortColumn: v.State.Column,
		Descending: v.State.Descending,
		Rows:       rows,
	}
}

func lessFunc(column string) func(a, b models.TableRow) bool {
	switch column {
	case ColumnNumber:
		return func(a, b models.TableRow) bool { return lessNumeric(a.Entry.SquadNumber, b.Entry.SquadNumber) }
	case ColumnName:
		return func(a, b models.TableRow) bool { return a.Entry.SquadName < b.Entry.SquadName }
	case ColumnDistance:
		return func(a, b models.TableRow) bool { return a.Entry.DistanceKm < b.Entry.DistanceKm }
	case ColumnSpots:
		return func(a, b models.TableRow) bool { return a.Entry.Spots < b.Entry.Spots }
	case ColumnDelivering:
		return func(a, b models.TableRow) bool { return a.Entry.DispatchTime < b.Entry.DispatchTime }
	case ColumnArrival:
		return func(a, b models.TableRow) bool { return a.Entry.ArrivalTime < b.Entry.ArrivalTime }
	case ColumnGap:
		return func(a, b models.TableRow) bool { return a.GapMins < b.GapMins }
	default:
		return func(a, b models.TableRow) bool { return false }
	}
}

// lessNumeric compares numerically when both values are integers and falls
// back to string order otherwise.
func lessNumeric(a, b string) bool {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return x < y
	}
	return a < b
}
