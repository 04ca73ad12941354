// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestTableRender(t *testing.T) {
	tbl := newTable("Macronutrients", "NUTRIENT", "TOTAL")
	tbl.addRow("Protein", "12.5 g")
	tbl.addRow("Carbohydrate (partial)", "3 g")
	tbl.addRow("Fat")

	var buf bytes.Buffer
	if err := tbl.render(&buf); err != nil {
		t.Fatalf("render() error = %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Errorf("render() to a buffer wrote escape sequences:\n%q", out)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want title, header, divider and 3 rows:\n%s", len(lines), out)
	}
	if lines[0] != "Macronutrients" {
		t.Errorf("title line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "---") {
		t.Errorf("divider line = %q", lines[2])
	}

	sep := strings.Index(lines[1], "|")
	if sep < 0 {
		t.Fatalf("header line has no column separator: %q", lines[1])
	}
	for _, line := range lines[3:] {
		if got := strings.Index(line, "|"); got != sep {
			t.Errorf("separator at %d in %q, want %d", got, line, sep)
		}
	}
	if len(lines[2]) != len(lines[1]) {
		t.Errorf("divider width %d, header width %d", len(lines[2]), len(lines[1]))
	}
	for _, want := range []string{"NUTRIENT", "Carbohydrate (partial)", "12.5 g"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderWithoutRows(t *testing.T) {
	var buf bytes.Buffer
	if err := newTable("", "VERSION", "NAME").render(&buf); err != nil {
		t.Fatalf("render() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "VERSION") {
		t.Errorf("empty table = %q, want header and divider", buf.String())
	}
}

func TestRecipeCommandTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nutrimaster.duckdb")
	if _, err := runCLI(t, "seed", "--db", dbPath); err != nil {
		t.Fatalf("seed error = %v", err)
	}

	out, err := runCLI(t, "recipe", "--db", dbPath, "--servings", "2", "OLIVE_OIL:10:g")
	if err != nil {
		t.Fatalf("recipe error = %v (output %s)", err, out)
	}
	for _, want := range []string{"Energy:", "INGREDIENT", "ENERGY SOURCE", "PER SERVING"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}
