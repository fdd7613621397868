package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestColorsExist(t *testing.T) {
	tests := []struct {
		name  string
		color lipgloss.Color
	}{
		{"ColorSuccess", ColorSuccess},
		{"ColorError", ColorError},
		{"ColorWarning", ColorWarning},
		{"ColorInfo", ColorInfo},
		{"ColorPrimary", ColorPrimary},
		{"ColorSecondary", ColorSecondary},
		{"ColorMuted", ColorMuted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, string(tt.color), "%s should not be empty", tt.name)
		})
	}
}

func TestSemanticColorsAreUnique(t *testing.T) {
	semanticColors := []lipgloss.Color{
		ColorSuccess,
		ColorError,
		ColorWarning,
		ColorInfo,
	}

	seen := make(map[string]bool)
	for _, c := range semanticColors {
		colorStr := string(c)
		assert.False(t, seen[colorStr], "semantic colors should be unique, found duplicate: %s", colorStr)
		seen[colorStr] = true
	}
}

func TestSymbolsAreUnique(t *testing.T) {
	symbols := []string{
		SymbolSuccess,
		SymbolFail,
		SymbolPending,
		SymbolComplete,
		SymbolSkipped,
	}

	seen := make(map[string]bool)
	for _, s := range symbols {
		assert.False(t, seen[s], "symbols should be unique, found duplicate: %s", s)
		seen[s] = true
	}
}
