package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/spinforge/partnerctl/internal/export"
	"github.com/spinforge/partnerctl/internal/listview"
)

// BrowsePage is the interactive view over one entity's list controller:
// paging, filtering, searching, sorting, toggling, deleting and exporting
// from a single prompt.
type BrowsePage[T any] struct {
	Entity     string
	Ctrl       *listview.Controller[T]
	Coord      *listview.Coordinator[T] // nil for read-only entities
	Columns    []string
	Cells      func(T) []string
	ExportPath string

	// ToggleFields lists the toggleable field names for the help text.
	ToggleFields []string
}

// Run drives the browse loop until the user quits.
func (b *BrowsePage[T]) Run(ctx context.Context, out io.Writer) error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	if err := b.Ctrl.Refresh(ctx); err != nil {
		Errorf(out, "%v", err)
	}
	b.render(out)

	for {
		input, err := line.Prompt(b.Entity + "> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if quit := b.dispatch(ctx, out, line, input); quit {
			return nil
		}
		b.render(out)
	}
}

func (b *BrowsePage[T]) dispatch(ctx context.Context, out io.Writer, line *liner.State, input string) (quit bool) {
	if strings.HasPrefix(input, "/") {
		if err := b.Ctrl.SetSearchTerm(ctx, strings.TrimSpace(strings.TrimPrefix(input, "/"))); err != nil {
			Errorf(out, "%v", err)
		}
		return false
	}

	fields := strings.Fields(input)
	switch fields[0] {
	case "q", "quit", "exit":
		return true

	case "h", "help":
		b.printHelp(out)

	case "r", "refresh":
		if err := b.Ctrl.Refresh(ctx); err != nil {
			Errorf(out, "%v", err)
		}

	case "n", "next":
		if err := b.Ctrl.SetPage(ctx, b.Ctrl.Page()+1); err != nil {
			Errorf(out, "%v", err)
		}

	case "p", "prev":
		if err := b.Ctrl.SetPage(ctx, b.Ctrl.Page()-1); err != nil {
			Errorf(out, "%v", err)
		}

	case "g", "goto":
		if len(fields) < 2 {
			Errorf(out, "usage: g <page>")
			return false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			Errorf(out, "not a page number: %s", fields[1])
			return false
		}
		if err := b.Ctrl.SetPage(ctx, n); err != nil {
			Errorf(out, "%v", err)
		}

	case "f", "filter":
		if len(fields) < 3 {
			Errorf(out, "usage: f <name> <value|all>")
			return false
		}
		if err := b.Ctrl.SetFilter(ctx, fields[1], fields[2]); err != nil {
			Errorf(out, "%v", err)
		}

	case "s", "sort":
		if len(fields) < 2 {
			Errorf(out, "usage: s <key>")
			return false
		}
		b.Ctrl.SetSort(fields[1])

	case "t", "toggle":
		if b.Coord == nil {
			Errorf(out, "%s is read-only", b.Entity)
			return false
		}
		if len(fields) < 2 {
			Errorf(out, "usage: t <id> [field]")
			return false
		}
		field := "status"
		if len(fields) >= 3 {
			field = fields[2]
		}
		if err := b.Coord.ToggleField(ctx, fields[1], field); err != nil {
			Errorf(out, "%v", err)
		}

	case "d", "delete":
		if b.Coord == nil {
			Errorf(out, "%s is read-only", b.Entity)
			return false
		}
		if len(fields) < 2 {
			Errorf(out, "usage: d <id>")
			return false
		}
		answer, err := line.Prompt(fmt.Sprintf("delete %s %s? (y/N): ", b.Entity, fields[1]))
		if err != nil || (strings.ToLower(strings.TrimSpace(answer)) != "y" && strings.ToLower(strings.TrimSpace(answer)) != "yes") {
			Infof(out, "cancelled")
			return false
		}
		if err := b.Coord.DeleteRow(ctx, fields[1]); err != nil {
			Errorf(out, "%v", err)
		} else {
			Successf(out, "deleted %s", fields[1])
		}

	case "x", "export":
		format := "csv"
		if len(fields) >= 2 {
			format = fields[1]
		}
		b.export(out, format)

	default:
		Errorf(out, "unknown command %q (h for help)", fields[0])
	}
	return false
}

func (b *BrowsePage[T]) export(out io.Writer, format string) {
	rows := b.Ctrl.VisibleRows()
	switch format {
	case "csv":
		cells := make([][]string, 0, len(rows))
		for _, row := range rows {
			cells = append(cells, b.Cells(row))
		}
		path, err := export.ToCSVFile(b.ExportPath, b.Entity, b.Columns, cells)
		if err != nil {
			Errorf(out, "%v", err)
			return
		}
		Successf(out, "exported %d rows to %s", len(rows), path)
	case "json":
		path, err := export.ToJSONFile(b.ExportPath, b.Entity, rows)
		if err != nil {
			Errorf(out, "%v", err)
			return
		}
		Successf(out, "exported %d rows to %s", len(rows), path)
	default:
		Errorf(out, "unknown export format %q (csv or json)", format)
	}
}

func (b *BrowsePage[T]) render(out io.Writer) {
	if err := b.Ctrl.TakeError(); err != nil {
		Errorf(out, "%v", err)
	}

	visible := b.Ctrl.VisibleRows()
	cells := make([][]string, 0, len(visible))
	for _, row := range visible {
		cells = append(cells, b.Cells(row))
	}

	fmt.Fprintln(out)
	RenderTable(out, b.Columns, cells)
	summary := PageSummary(b.Ctrl.Page(), b.Ctrl.TotalPages(), len(visible), b.Ctrl.Total())
	if term := b.Ctrl.SearchTerm(); term != "" {
		summary += fmt.Sprintf("  (search: %q)", term)
	}
	if key, dir := b.Ctrl.Sort(); key != "" {
		arrow := "↑"
		if dir == listview.Descending {
			arrow = "↓"
		}
		summary += fmt.Sprintf("  (sort: %s%s)", key, arrow)
	}
	dimColor.Fprintln(out, summary)
}

func (b *BrowsePage[T]) printHelp(out io.Writer) {
	Infof(out, "n/p next/prev page   g <n> go to page   r refresh")
	Infof(out, "/term search held page (/ alone clears)   f <name> <value|all> filter")
	Infof(out, "s <key> sort held page   x [csv|json] export visible rows")
	if b.Coord != nil {
		toggles := strings.Join(b.ToggleFields, "|")
		if toggles == "" {
			toggles = "status"
		}
		Infof(out, "t <id> [%s] toggle   d <id> delete (asks first)", toggles)
	}
	Infof(out, "q quit")
}
