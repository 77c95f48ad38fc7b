package slidecast

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ChartKind is the declarative chart type.
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
)

// Dataset is one data series, value-aligned with the spec's labels.
type Dataset struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
	Color  Color     `json:"-"`
}

// ChartSpec is a declarative chart description independent of any
// renderer. Empty or misaligned specs are represented as absence (nil),
// never as an empty spec.
type ChartSpec struct {
	Kind      ChartKind `json:"type"`
	Labels    []string  `json:"labels"`
	Datasets  []Dataset `json:"datasets"`
	Rationale string    `json:"rationale,omitempty"`
}

// Valid reports whether the spec has data and every dataset aligns with
// the labels.
func (c *ChartSpec) Valid() bool {
	if c == nil || len(c.Labels) == 0 || len(c.Datasets) == 0 {
		return false
	}
	for _, d := range c.Datasets {
		if len(d.Values) != len(c.Labels) {
			return false
		}
	}
	return true
}

// Clone deep-copies the spec.
func (c *ChartSpec) Clone() ChartSpec {
	out := ChartSpec{Kind: c.Kind, Rationale: c.Rationale}
	out.Labels = append([]string(nil), c.Labels...)
	out.Datasets = make([]Dataset, len(c.Datasets))
	for i, d := range c.Datasets {
		out.Datasets[i] = Dataset{Label: d.Label, Color: d.Color}
		out.Datasets[i].Values = append([]float64(nil), d.Values...)
	}
	return out
}

// ImportedTable carries user-imported tabular data. Rows holds CSV rows
// including the header row; Records holds decoded JSON objects. A table
// populates one or the other.
type ImportedTable struct {
	Name    string
	Rows    [][]string
	Records []map[string]interface{}
}

// minChartPoints is the minimum number of label/value pairs a source
// must yield before a chart is proposed.
const minChartPoints = 3

var (
	// "<label>: <number>" with colon, semicolon or dash separators.
	// Statements may be newline- or sentence-separated.
	segmentSplitRe = regexp.MustCompile(`[\n;•]+|[.!?]\s+`)
	labelValueRe   = regexp.MustCompile(`^\s*(.+?)\s*(?::|;|\s[-–—]\s?|[-–—]\s)\s*\$?\s*(-?\d+(?:\.\d+)?)\s*%?\s*\.?\s*$`)
)

// DetectChartSpec heuristically extracts a chart definition from slide
// text, falling back to imported tabular data. Returns nil when no
// numeric signal is found anywhere. The rationale always names the
// source and the number of data points used.
func DetectChartSpec(text string, tables []ImportedTable) *ChartSpec {
	if labels, values := pairsFromText(text); len(labels) >= minChartPoints {
		return buildSpec(labels, values,
			fmt.Sprintf("Built from %d numeric statements in the slide text.", len(labels)))
	}
	for _, t := range tables {
		if labels, values := pairsFromRows(t.Rows); len(labels) >= 2 {
			return buildSpec(labels, values,
				fmt.Sprintf("Built from %d rows of imported table %q.", len(labels), tableName(t)))
		}
		if labels, values := pairsFromRecords(t.Records); len(labels) >= 2 {
			return buildSpec(labels, values,
				fmt.Sprintf("Built from %d imported records in %q.", len(labels), tableName(t)))
		}
	}
	return nil
}

func tableName(t ImportedTable) string {
	if t.Name != "" {
		return t.Name
	}
	return "imported data"
}

func buildSpec(labels []string, values []float64, rationale string) *ChartSpec {
	kind := ChartBar
	if monotonic(values) {
		kind = ChartLine
	}
	return &ChartSpec{
		Kind:      kind,
		Labels:    labels,
		Datasets:  []Dataset{{Label: "Series 1", Values: values}},
		Rationale: rationale,
	}
}

// monotonic reports whether values are non-decreasing or non-increasing
// end to end.
func monotonic(values []float64) bool {
	rising, falling := true, true
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			rising = false
		}
		if values[i] > values[i-1] {
			falling = false
		}
	}
	return rising || falling
}

func pairsFromText(text string) ([]string, []float64) {
	var labels []string
	var values []float64
	for _, seg := range segmentSplitRe.Split(text, -1) {
		m := labelValueRe.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		label := strings.TrimSpace(m[1])
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil || label == "" {
			continue
		}
		labels = append(labels, label)
		values = append(values, v)
	}
	return labels, values
}

// pairsFromRows reads CSV-shaped rows: first row is the header,
// label is column 0, value is column 1 when numeric.
func pairsFromRows(rows [][]string) ([]string, []float64) {
	if len(rows) < 2 {
		return nil, nil
	}
	var labels []string
	var values []float64
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			continue
		}
		label := strings.TrimSpace(row[0])
		if label == "" {
			continue
		}
		labels = append(labels, label)
		values = append(values, v)
	}
	return labels, values
}

// pairsFromRecords reads JSON objects exposing a label-like and a
// numeric value-like field.
func pairsFromRecords(records []map[string]interface{}) ([]string, []float64) {
	var labels []string
	var values []float64
	for _, rec := range records {
		label := firstString(rec, "label", "name", "category", "key", "month", "date")
		value, ok := firstNumber(rec)
		if label == "" || !ok {
			continue
		}
		labels = append(labels, label)
		values = append(values, value)
	}
	return labels, values
}

func firstString(rec map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := rec[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func firstNumber(rec map[string]interface{}) (float64, bool) {
	for _, k := range []string{"value", "amount", "count", "total", "y"} {
		switch v := rec[k].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
