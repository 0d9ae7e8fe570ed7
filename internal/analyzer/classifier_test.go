package analyzer

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultFDTableBoundaries(t *testing.T) {
	table := DefaultFDTable()

	testCases := []struct {
		value       float64
		description string
	}{
		{1.0, "very simple: plain or grid-like pattern"},
		{1.1999, "very simple: plain or grid-like pattern"},
		{1.2, "preferred range (low): comfortable complexity"},
		{1.3999, "preferred range (low): comfortable complexity"},
		{1.4, "preferred range (high): engaging complexity"},
		{1.6999, "preferred range (high): engaging complexity"},
		{1.7, "complex: high complexity"},
		{1.8, "very complex: very high complexity"},
		{2.0, "very complex: very high complexity"},
	}

	for _, tc := range testCases {
		got := table.Classify(tc.value)
		if got.Description != tc.description {
			t.Errorf("Classify(%v): expected %q, got %q", tc.value, tc.description, got.Description)
		}
	}
}

func TestDefaultTablesLabels(t *testing.T) {
	testCases := []struct {
		name  string
		table ThresholdTable
		value float64
		label string
	}{
		{"l low", DefaultLTable(), 0.0, "uniform"},
		{"l below cut", DefaultLTable(), 0.2999, "uniform"},
		{"l at first cut", DefaultLTable(), 0.3, "medium"},
		{"l at second cut", DefaultLTable(), 0.6, "irregular"},
		{"l top", DefaultLTable(), 1.0, "irregular"},
		{"c low", DefaultCTable(), 0.1, "low"},
		{"c at first cut", DefaultCTable(), 0.3, "moderate"},
		{"c at second cut", DefaultCTable(), 0.6, "high"},
		{"fd preferred", DefaultFDTable(), 1.5, "preferred"},
		{"fd complex", DefaultFDTable(), 1.75, "complex"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.table.Classify(tc.value).Label; got != tc.label {
				t.Errorf("Classify(%v): expected %q, got %q", tc.value, tc.label, got)
			}
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	tables := []ThresholdTable{DefaultFDTable(), DefaultLTable(), DefaultCTable()}
	values := []float64{math.Inf(-1), -5, 0, 0.5, 1, 1.5, 2, 5, math.Inf(1), math.NaN()}

	for _, table := range tables {
		for _, v := range values {
			if got := table.Classify(v); got.Label == "" {
				t.Errorf("table %s: Classify(%v) returned an empty band", table.Name, v)
			}
		}
		if got := table.Classify(math.NaN()); got != table.Bands[0] {
			t.Errorf("table %s: expected NaN to fall into the first band, got %+v", table.Name, got)
		}
	}
}

func TestThresholdTableValidate(t *testing.T) {
	for _, table := range []ThresholdTable{DefaultFDTable(), DefaultLTable(), DefaultCTable()} {
		if err := table.Validate(); err != nil {
			t.Errorf("Expected table %s to be valid, got %v", table.Name, err)
		}
	}

	bad := ThresholdTable{Name: "bad", Cuts: []float64{0.5, math.NaN()}, Bands: make([]Band, 3)}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected non-finite cut to be rejected, got %v", err)
	}
}

func TestClassifier(t *testing.T) {
	classifier := NewClassifier(DefaultOptions())

	result := classifier.Classify(1.45, 0.7, 0.2)
	if result.FD.Label != "preferred" {
		t.Errorf("Expected FD label preferred, got %q", result.FD.Label)
	}
	if result.L.Label != "irregular" {
		t.Errorf("Expected L label irregular, got %q", result.L.Label)
	}
	if result.C.Label != "low" {
		t.Errorf("Expected C label low, got %q", result.C.Label)
	}
}
