// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package audit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Exporter renders events in a download format.
type Exporter interface {
	Export(events []Event) ([]byte, error)
	ContentType() string
}

// ExporterFor returns the exporter for a format name: "json" (the default)
// or "cef".
func ExporterFor(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return JSONExporter{}, nil
	case "cef":
		return NewCEFExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// JSONExporter writes an indented JSON array.
type JSONExporter struct{}

func (JSONExporter) Export(events []Event) ([]byte, error) {
	return json.MarshalIndent(events, "", "  ")
}

func (JSONExporter) ContentType() string { return "application/json" }

// CEFExporter writes one ArcSight Common Event Format line per event for
// SIEM ingestion.
type CEFExporter struct {
	Vendor  string
	Product string
	Version string
}

// NewCEFExporter identifies the device as Nutrimaster.
func NewCEFExporter() *CEFExporter {
	return &CEFExporter{Vendor: "Nutrimaster", Product: "NutritionMasterData", Version: "1.0"}
}

func (c *CEFExporter) ContentType() string { return "text/plain; charset=utf-8" }

func (c *CEFExporter) Export(events []Event) ([]byte, error) {
	var b strings.Builder
	for i := range events {
		if i > 0 {
			b.WriteByte('\n')
		}
		e := &events[i]
		header := []string{
			"CEF:0", cefEscape(c.Vendor), cefEscape(c.Product), cefEscape(c.Version),
			cefEscape(string(e.Type)), cefEscape(e.Description), strconv.Itoa(cefSeverity[e.Severity]),
		}
		b.WriteString(strings.Join(header, "|"))
		b.WriteByte('|')
		b.WriteString(cefExtension(e))
	}
	return []byte(b.String()), nil
}

// cefSeverity maps severities onto the CEF 0-10 scale; debug is 0.
var cefSeverity = map[Severity]int{
	SeverityInfo:     3,
	SeverityWarning:  5,
	SeverityError:    7,
	SeverityCritical: 10,
}

func cefExtension(e *Event) string {
	kv := []string{"rt=" + strconv.FormatInt(e.Timestamp.UnixMilli(), 10)}
	add := func(k, v string) { kv = append(kv, k+"="+cefEscape(v)) }

	if e.Actor.ID != "" {
		add("suser", e.Actor.Name)
		add("suid", e.Actor.ID)
	}
	if e.Source.IPAddress != "" {
		add("src", e.Source.IPAddress)
	}
	if e.Target != nil {
		add("cs1Label", "entity")
		add("cs1", e.Target.Type)
		add("cs2Label", "entityId")
		add("cs2", e.Target.ID)
	}
	add("act", e.Action)
	add("outcome", string(e.Outcome))
	if e.RequestID != "" {
		add("externalId", e.RequestID)
	}
	return strings.Join(kv, " ")
}

var cefReplacer = strings.NewReplacer(`\`, `\\`, `|`, `\|`, `=`, `\=`, "\n", " ", "\r", "")

func cefEscape(s string) string { return cefReplacer.Replace(s) }
