package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pakalnivut/backend/internal/models"
	"github.com/pakalnivut/backend/internal/table"
)

type column struct {
	key   string
	title string
	width int
}

var columns = []column{
	{"", "Row", 4},
	{table.ColumnNumber, "Squad", 6},
	{table.ColumnName, "Name", 14},
	{table.ColumnDistance, "Km", 6},
	{table.ColumnSpots, "Spots", 6},
	{table.ColumnDelivering, "Out", 6},
	{table.ColumnArrival, "ETA", 6},
	{table.ColumnGap, "Gap", 7},
}

// RenderTable draws v as fixed-width text. Rows are numbered from 1.
// selected is a view index, or -1 for no highlight.
func RenderTable(v table.View, selected int) string {
	var b strings.Builder

	headers := make([]string, len(columns))
	for i, c := range columns {
		title := c.title
		style := Header
		if c.key != "" && c.key == v.State.Column {
			style = SortedHeader
			if v.State.Descending {
				title += "↓"
			} else {
				title += "↑"
			}
		}
		headers[i] = style.Render(pad(title, c.width))
	}
	b.WriteString(strings.Join(headers, " "))
	b.WriteString("\n")

	if len(v.Rows) == 0 {
		b.WriteString(Help.Render("no dispatches logged"))
		b.WriteString("\n")
		return b.String()
	}

	for i, row := range v.Rows {
		cells := rowCells(i, row)
		for j := range cells {
			cells[j] = pad(cells[j], columns[j].width)
		}
		last := len(cells) - 1
		cells[last] = SeverityStyle(row.Severity).Render(cells[last])

		line := strings.Join(cells, " ")
		if i == selected {
			line = Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func rowCells(i int, row models.TableRow) []string {
	e := row.Entry
	gap := row.Gap
	if gap == "" {
		gap = "?"
	}
	return []string{
		strconv.Itoa(i + 1),
		e.SquadNumber,
		e.SquadName,
		strconv.FormatFloat(e.DistanceKm, 'f', -1, 64),
		strconv.Itoa(e.Spots),
		e.DispatchTime,
		e.ArrivalTime,
		gap,
	}
}

// pad truncates or right-pads s to width display cells.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w > width {
		r := []rune(s)
		for lipgloss.Width(string(r)) > width-1 && len(r) > 0 {
			r = r[:len(r)-1]
		}
		return string(r) + "…"
	} else if w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// Banner is the watch screen's title line.
func Banner(nav models.NavigatorID, clock string) string {
	return fmt.Sprintf("%s   %s",
		Title.Render(fmt.Sprintf("Navigator %d", nav)),
		Clock.Render(clock),
	)
}
