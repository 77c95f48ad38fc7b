package slidecast

import "testing"

func TestDetectChartSpecFromText(t *testing.T) {
	spec := DetectChartSpec("Revenue: 10. Cost: 4. Profit: 6.", nil)
	if spec == nil {
		t.Fatal("expected a chart spec from three numeric statements")
	}
	if spec.Kind != ChartBar {
		t.Errorf("non-monotonic values should yield a bar chart, got %q", spec.Kind)
	}
	wantLabels := []string{"Revenue", "Cost", "Profit"}
	if len(spec.Labels) != 3 {
		t.Fatalf("got %d labels, want 3", len(spec.Labels))
	}
	for i, want := range wantLabels {
		if spec.Labels[i] != want {
			t.Errorf("label %d = %q, want %q", i, spec.Labels[i], want)
		}
	}
	wantValues := []float64{10, 4, 6}
	for i, want := range wantValues {
		if spec.Datasets[0].Values[i] != want {
			t.Errorf("value %d = %v, want %v", i, spec.Datasets[0].Values[i], want)
		}
	}
	if spec.Rationale == "" {
		t.Error("rationale must name the source")
	}
}

func TestDetectChartSpecMonotonicIsLine(t *testing.T) {
	spec := DetectChartSpec("A: 1. B: 2. C: 3.", nil)
	if spec == nil {
		t.Fatal("expected a chart spec")
	}
	if spec.Kind != ChartLine {
		t.Errorf("monotonic values should yield a line chart, got %q", spec.Kind)
	}
}

func TestDetectChartSpecTooFewPoints(t *testing.T) {
	if spec := DetectChartSpec("Revenue: 10. Cost: 4.", nil); spec != nil {
		t.Errorf("two pairs are below the text threshold, got %+v", spec)
	}
	if spec := DetectChartSpec("No numbers here at all.", nil); spec != nil {
		t.Errorf("prose without pairs should yield nil, got %+v", spec)
	}
}

func TestDetectChartSpecSeparators(t *testing.T) {
	spec := DetectChartSpec("North - 12\nSouth - 9\nWest - 14", nil)
	if spec == nil {
		t.Fatal("dash-separated pairs should be detected")
	}
	if spec.Labels[0] != "North" || spec.Datasets[0].Values[0] != 12 {
		t.Errorf("got %q=%v", spec.Labels[0], spec.Datasets[0].Values[0])
	}
}

func TestDetectChartSpecFromCSVRows(t *testing.T) {
	table := ImportedTable{
		Name: "sales",
		Rows: [][]string{
			{"month", "units"},
			{"Jan", "120"},
			{"Feb", "95"},
		},
	}
	spec := DetectChartSpec("no pairs in this text", []ImportedTable{table})
	if spec == nil {
		t.Fatal("expected fallback to the imported table")
	}
	if len(spec.Labels) != 2 || spec.Labels[0] != "Jan" {
		t.Errorf("labels = %v", spec.Labels)
	}
	if spec.Datasets[0].Values[1] != 95 {
		t.Errorf("value = %v", spec.Datasets[0].Values[1])
	}
}

func TestDetectChartSpecFromJSONRecords(t *testing.T) {
	table := ImportedTable{
		Name: "growth",
		Records: []map[string]interface{}{
			{"name": "Q1", "value": 4.5},
			{"name": "Q2", "value": 6.0},
			{"name": "Q3", "value": 7.5},
		},
	}
	spec := DetectChartSpec("", []ImportedTable{table})
	if spec == nil {
		t.Fatal("expected a spec from JSON records")
	}
	if spec.Kind != ChartLine {
		t.Errorf("rising quarterly series should be a line chart, got %q", spec.Kind)
	}
	if spec.Labels[2] != "Q3" || spec.Datasets[0].Values[2] != 7.5 {
		t.Errorf("got %v / %v", spec.Labels, spec.Datasets[0].Values)
	}
}

func TestDetectChartSpecTextBeatsTables(t *testing.T) {
	table := ImportedTable{
		Name: "t",
		Rows: [][]string{{"h", "v"}, {"X", "1"}, {"Y", "2"}},
	}
	spec := DetectChartSpec("A: 1. B: 2. C: 3.", []ImportedTable{table})
	if spec == nil {
		t.Fatal("expected a spec")
	}
	if spec.Labels[0] != "A" {
		t.Errorf("slide text should win over imported tables, got labels %v", spec.Labels)
	}
}

func TestChartSpecValid(t *testing.T) {
	var nilSpec *ChartSpec
	if nilSpec.Valid() {
		t.Error("nil spec must be invalid")
	}
	misaligned := &ChartSpec{
		Kind:     ChartBar,
		Labels:   []string{"a", "b"},
		Datasets: []Dataset{{Values: []float64{1}}},
	}
	if misaligned.Valid() {
		t.Error("misaligned dataset must be invalid")
	}
}
