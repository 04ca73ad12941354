// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// table renders rows of static text as aligned columns.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func newTable(title string, headers ...string) *table {
	return &table{title: title, headers: headers}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// render writes the table to w. Colors follow the terminal profile of w, so
// pipes and buffers get plain text.
func (t *table) render(w io.Writer) error {
	r := lipgloss.NewRenderer(w)
	titleStyle := r.NewStyle().Bold(true)
	headerStyle := r.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := r.NewStyle().Padding(0, 1)
	sepStyle := r.NewStyle().Faint(true)

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	total := len(widths) - 1
	for i := range widths {
		// Width includes the padding.
		widths[i] += 2
		total += widths[i]
	}

	var sb strings.Builder
	if t.title != "" {
		sb.WriteString(titleStyle.Render(t.title))
		sb.WriteByte('\n')
	}
	line := func(cells []string, style lipgloss.Style) {
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i > 0 {
				sb.WriteString(sepStyle.Render("|"))
			}
			sb.WriteString(style.Width(widths[i]).Render(cell))
		}
		sb.WriteByte('\n')
	}
	line(t.headers, headerStyle)
	sb.WriteString(sepStyle.Render(strings.Repeat("-", total)))
	sb.WriteByte('\n')
	for _, row := range t.rows {
		line(row, cellStyle)
	}
	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())
	return err
}
