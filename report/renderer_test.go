package report

import (
	"strings"
	"testing"
)

func TestWriteMorphologyReportIncludesMorphologyHeader(t *testing.T) {
	var buf strings.Builder
	summaries := []GenerationSummary{
		{Generation: 0, AvgFitness: []float64{0.5}, StdFitness: []float64{0.1}, AvgNeurons: 3, AvgEvaluations: 10},
	}
	if err := WriteMorphologyReport(&buf, "xor", summaries); err != nil {
		t.Fatalf("WriteMorphologyReport: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "# morphology: xor") {
		t.Fatalf("output missing morphology header:\n%s", out)
	}
	if !strings.Contains(out, "# fitness") {
		t.Fatalf("output missing fitness section:\n%s", out)
	}
}

func TestWriteMorphologyReportEvaluationIndexColumn(t *testing.T) {
	var buf strings.Builder
	summaries := []GenerationSummary{
		{Generation: 2, AvgFitness: []float64{1}, StdFitness: []float64{0}},
	}
	if err := WriteMorphologyReport(&buf, "xor", summaries); err != nil {
		t.Fatalf("WriteMorphologyReport: %v", err)
	}
	if !strings.Contains(buf.String(), "1000 1 0\n") {
		t.Fatalf("expected a fitness row starting with evaluation index 1000, got:\n%s", buf.String())
	}
}

func TestWriteMorphologyReportWhitespaceSeparated(t *testing.T) {
	var buf strings.Builder
	summaries := []GenerationSummary{
		{Generation: 0, AvgNeurons: 4.5, StdNeurons: 1.2},
	}
	if err := WriteMorphologyReport(&buf, "xor", summaries); err != nil {
		t.Fatalf("WriteMorphologyReport: %v", err)
	}
	section := ""
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "# ") {
			section = line
			continue
		}
		if section == "# neurons" && strings.HasPrefix(line, "0 ") {
			fields := strings.Fields(line)
			if len(fields) != 3 {
				t.Fatalf("neurons row fields = %v, want 3 whitespace-separated fields", fields)
			}
		}
	}
}
