// Package termgrid draws an availability grid in a terminal.
package termgrid

import (
	"fmt"
	"io"
	"strings"

	"github.com/Pjt727/bookcs/grid"
	"github.com/fatih/color"
)

const (
	cellWidth    = 2
	minNameWidth = len("Professor")
)

type Options struct {
	// only the 08:00 to 20:00 columns
	BusinessHoursOnly bool
	Color             bool
}

type style struct {
	color  *color.Color
	symbol string
}

func styles(useColor bool) map[grid.Class]style {
	s := map[grid.Class]style{
		grid.ClassMuted:   {color.New(color.BgHiBlack), ".."},
		grid.ClassElapsed: {color.New(color.BgWhite), "--"},
		grid.ClassPending: {color.New(color.BgYellow), "??"},
		grid.ClassOpen:    {color.New(color.BgGreen), "OO"},
		grid.ClassClosed:  {color.New(color.BgRed), "XX"},
		grid.ClassNeutral: {color.New(color.Reset), "  "},
	}
	for _, st := range s {
		if useColor {
			st.color.EnableColor()
		} else {
			st.color.DisableColor()
		}
	}
	return s
}

// Width is how many columns the grid needs
func Width(g grid.Grid, opts Options) int {
	return nameWidth(g) + 1 + len(columns(g, opts))*cellWidth
}

func nameWidth(g grid.Grid) int {
	width := minNameWidth
	for _, row := range g.Rows {
		width = max(width, len(row.Professor.Name()))
	}
	return width
}

func columns(g grid.Grid, opts Options) []int {
	var cols []int
	for i, slot := range g.Slots {
		if opts.BusinessHoursOnly && !grid.IsWithinBusinessHours(slot.Value) {
			continue
		}
		cols = append(cols, i)
	}
	return cols
}

// Render writes the date heading, an hour header, one line per professor and
// a legend
func Render(w io.Writer, g grid.Grid, opts Options) error {
	s := styles(opts.Color)
	width := nameWidth(g)
	cols := columns(g, opts)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", grid.LongDate(g.Date))

	fmt.Fprintf(&b, "%-*s ", width, "Professor")
	for _, i := range cols {
		slot := g.Slots[i]
		if slot.Value.Minute() == 0 {
			fmt.Fprintf(&b, "%02d", slot.Value.Hour())
		} else {
			b.WriteString(strings.Repeat(" ", cellWidth))
		}
	}
	b.WriteByte('\n')

	for _, row := range g.Rows {
		fmt.Fprintf(&b, "%-*s ", width, row.Professor.Name())
		for _, i := range cols {
			st, ok := s[row.Cells[i].Class]
			if !ok {
				st = s[grid.ClassNeutral]
			}
			if opts.Color {
				b.WriteString(st.color.Sprint(strings.Repeat(" ", cellWidth)))
			} else {
				b.WriteString(st.symbol)
			}
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	for _, entry := range []struct {
		class grid.Class
		label string
	}{
		{grid.ClassOpen, "open"},
		{grid.ClassPending, "pending"},
		{grid.ClassClosed, "booked"},
		{grid.ClassElapsed, "started"},
		{grid.ClassMuted, "unavailable"},
		{grid.ClassNeutral, "free"},
	} {
		st := s[entry.class]
		if opts.Color {
			b.WriteString(st.color.Sprint(strings.Repeat(" ", cellWidth)))
		} else {
			b.WriteString(st.symbol)
		}
		fmt.Fprintf(&b, " %s  ", entry.label)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}
