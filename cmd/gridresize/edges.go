package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/1broseidon/gridresize/internal/geometry"
	"github.com/1broseidon/gridresize/internal/mcp"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// renderEdgeReport formats a report as tables for a terminal.
func renderEdgeReport(r mcp.ListEdgesOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Screen %s\n\n", formatRect(r.Screen))

	windows := newTable("ID", "FRAME")
	for _, w := range r.Windows {
		windows.Row(strconv.FormatUint(uint64(w.ID), 10), formatRect(w.Frame))
	}
	b.WriteString(windows.Render())
	b.WriteString("\n\n")

	if len(r.Dividers) == 0 {
		b.WriteString("No dividers: no two windows share an edge.\n")
	} else {
		dividers := newTable("#", "AXIS", "AT", "SPAN", "LOW", "HIGH")
		for _, d := range r.Dividers {
			dividers.Row(
				strconv.Itoa(d.Index),
				d.Axis,
				formatFloat(d.Coordinate),
				formatFloat(d.SpanStart)+".."+formatFloat(d.SpanEnd),
				joinIDs(d.Low),
				joinIDs(d.High),
			)
		}
		b.WriteString(dividers.Render())
		b.WriteString("\n")
	}

	if len(r.Edges) > 0 {
		b.WriteString("\n")
		edges := newTable("AXIS", "LOW", "HIGH", "AT", "SPAN")
		for _, e := range r.Edges {
			edges.Row(
				e.Axis,
				strconv.FormatUint(uint64(e.Low), 10),
				strconv.FormatUint(uint64(e.High), 10),
				formatFloat(e.Coordinate),
				formatFloat(e.SpanStart)+".."+formatFloat(e.SpanEnd),
			)
		}
		b.WriteString(edges.Render())
		b.WriteString("\n")
	}
	return b.String()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func formatRect(r geometry.Rect) string {
	return fmt.Sprintf("%sx%s+%s+%s", formatFloat(r.Width), formatFloat(r.Height), formatFloat(r.X), formatFloat(r.Y))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinIDs(ids []uint32) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}
