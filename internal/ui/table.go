// Package ui renders controller state into the terminal and gathers user
// input. Pure presentation; no list or mutation logic lives here.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	dimColor    = color.New(color.Faint)

	goodStatus = color.New(color.FgGreen)
	badStatus  = color.New(color.FgRed)
	waitStatus = color.New(color.FgYellow)
)

// RenderTable prints rows under a fixed header with aligned columns.
func RenderTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, h := range header {
		headerColor.Fprint(w, pad(h, widths[i]))
		fmt.Fprint(w, "  ")
	}
	fmt.Fprintln(w)

	for i := range header {
		dimColor.Fprint(w, strings.Repeat("-", widths[i]))
		fmt.Fprint(w, "  ")
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			fmt.Fprint(w, colorizeStatus(pad(cell, widths[i])))
			fmt.Fprint(w, "  ")
		}
		fmt.Fprintln(w)
	}
}

// PageSummary formats the "X of Y" line under a table. shown counts the
// visible (possibly locally filtered) rows; total is the server-reported
// collection size; the two can disagree while a page-scope search is
// active, and the summary deliberately shows the server total.
func PageSummary(page, totalPages, shown, total int) string {
	if totalPages < 1 {
		totalPages = 1
	}
	return fmt.Sprintf("page %d of %d, showing %d of %d total", page, totalPages, shown, total)
}

func colorizeStatus(cell string) string {
	switch strings.TrimSpace(cell) {
	case "active", "completed", "approved", "paid", "confirmed", "yes":
		return goodStatus.Sprint(cell)
	case "inactive", "rejected", "failed", "blocked", "no":
		return badStatus.Sprint(cell)
	case "pending", "processing":
		return waitStatus.Sprint(cell)
	default:
		return cell
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Errorf prints a one-shot error notification.
func Errorf(w io.Writer, format string, args ...any) {
	color.New(color.FgRed).Fprintf(w, "✗ "+format+"\n", args...)
}

// Successf prints a confirmation line.
func Successf(w io.Writer, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(w, "✓ "+format+"\n", args...)
}

// Infof prints a neutral informational line.
func Infof(w io.Writer, format string, args ...any) {
	color.New(color.FgCyan).Fprintf(w, format+"\n", args...)
}
