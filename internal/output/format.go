// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"todo/internal/task"
)

const (
	// ShortIDLen is the number of id characters shown in tables.
	ShortIDLen = 8

	// MaxCellWidth bounds title and description columns.
	MaxCellWidth = 40

	// TimeLayout is used for timestamps in detail views.
	TimeLayout = "2006-01-02 15:04:05"

	columnGap = "  "
)

var headers = []string{"#", "ID", "Title", "Description", "Status"}

// ShortID returns the displayed prefix of id.
func ShortID(id string) string {
	if len(id) <= ShortIDLen {
		return id
	}
	return id[:ShortIDLen]
}

// FormatTaskTable writes tasks as an aligned table numbered from 1.
// Callers handle the empty case.
func FormatTaskTable(w io.Writer, tasks []task.Task) {
	rows := make([][]string, 0, len(tasks)+1)
	rows = append(rows, headers)
	for i, t := range tasks {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			ShortID(t.ID),
			cell(t.Title),
			cell(t.DescriptionOr("")),
			string(t.Status),
		})
	}

	widths := make([]int, len(headers))
	for _, row := range rows {
		for c, v := range row {
			if n := runewidth.StringWidth(v); n > widths[c] {
				widths[c] = n
			}
		}
	}

	writeRow(w, rows[0], widths)
	rule := make([]string, len(widths))
	for c, n := range widths {
		rule[c] = strings.Repeat("-", n)
	}
	writeRow(w, rule, widths)
	for _, row := range rows[1:] {
		writeRow(w, row, widths)
	}
}

func writeRow(w io.Writer, row []string, widths []int) {
	cells := make([]string, len(row))
	for c, v := range row {
		if c == len(row)-1 {
			cells[c] = v
			continue
		}
		cells[c] = runewidth.FillRight(v, widths[c])
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, columnGap), " "))
}

// FormatTaskDetail writes every field of t, one per line.
func FormatTaskDetail(w io.Writer, t task.Task) {
	fmt.Fprintf(w, "ID:          %s\n", t.ID)
	fmt.Fprintf(w, "Title:       %s\n", normalizeTitle(t.Title))
	fmt.Fprintf(w, "Description: %s\n", t.DescriptionOr("-"))
	fmt.Fprintf(w, "Status:      %s\n", t.Status)
	fmt.Fprintf(w, "Created:     %s\n", formatTime(t.CreatedAt))
	fmt.Fprintf(w, "Updated:     %s\n", formatTime(t.UpdatedAt))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(TimeLayout)
}

// cell normalizes text for a single table cell and truncates it.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return runewidth.Truncate(s, MaxCellWidth, "...")
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// ANSI colors for banners.
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
)

// Success writes a SUCCESS banner.
func Success(w io.Writer, format string, args ...any) {
	banner(w, colorGreen, "SUCCESS", format, args...)
}

// Error writes an ERROR banner.
func Error(w io.Writer, format string, args ...any) {
	banner(w, colorRed, "ERROR", format, args...)
}

// Info writes an INFO banner.
func Info(w io.Writer, format string, args ...any) {
	banner(w, colorYellow, "INFO", format, args...)
}

func banner(w io.Writer, color, label, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if useColor(w) {
		fmt.Fprintf(w, "%s%s:%s %s\n", color, label, colorReset, msg)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", label, msg)
}

// useColor reports whether w is a terminal and NO_COLOR is unset.
func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
