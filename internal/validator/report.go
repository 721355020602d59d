package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Report is the machine-readable diagnostic artifact of one validation run.
// A new run produces a new report; an existing one is never mutated.
type Report struct {
	Input                string         `json:"input"`
	Output               string         `json:"output"`
	TotalHeaderCells     int            `json:"total_header_cells_examined"`
	ErrorCounts          map[string]int `json:"error_counts"`
	TotalErrors          int            `json:"total_errors"`
	ComparisonToBaseline *Improvement   `json:"comparison_to_baseline,omitempty"`
}

// Improvement measures error reduction since a baseline report. Nil
// percentages mean the baseline had nothing to fix in that bucket, which is
// distinct from 0% fixed.
type Improvement struct {
	OverallPercentFixed *float64            `json:"overall_percent_fixed"`
	PerTypePercentFixed map[string]*float64 `json:"per_type_percent_fixed"`
}

// Compare computes the percentage of errors fixed since baseline, overall and
// per category, rounded to two decimals.
func Compare(current, baseline *Report) *Improvement {
	imp := &Improvement{PerTypePercentFixed: map[string]*float64{}}

	if baseline.TotalErrors > 0 {
		imp.OverallPercentFixed = pct(baseline.TotalErrors, current.TotalErrors)
	}

	seen := map[string]struct{}{}
	for k := range baseline.ErrorCounts {
		seen[k] = struct{}{}
	}
	for k := range current.ErrorCounts {
		seen[k] = struct{}{}
	}
	for k := range seen {
		b := baseline.ErrorCounts[k]
		if b > 0 {
			imp.PerTypePercentFixed[k] = pct(b, current.ErrorCounts[k])
		} else {
			imp.PerTypePercentFixed[k] = nil
		}
	}
	return imp
}

func pct(baseline, current int) *float64 {
	v := math.Round(float64(baseline-current)*100.0/float64(baseline)*100) / 100
	return &v
}

// Save writes the report as indented JSON.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// LoadReport reads a previously saved report, typically used as a baseline.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}
