package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeAgentName(t *testing.T) {
	tests := map[string]string{
		"developer":    "developer",
		"  Developer ": "developer",
		"@Architect":   "architect",
		"":             "",
		"   ":          "",
	}
	for in, want := range tests {
		if got := NormalizeAgentName(in); got != want {
			t.Errorf("NormalizeAgentName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeAgentList(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, nil},
		{"only blanks", []string{"", " "}, nil},
		{"dedupes", []string{"dev", "@Dev", "qa"}, []string{"dev", "qa"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAgentList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeAgentList(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAgentList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ", nil},
		{"dev,qa", []string{"dev", "qa"}},
		{" Dev , @QA ", []string{"dev", "qa"}},
		{"dev qa\tdocs", []string{"dev", "qa", "docs"}},
		{"dev,,dev", []string{"dev"}},
	}
	for _, tt := range tests {
		if got := ParseAgentList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseAgentList(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
