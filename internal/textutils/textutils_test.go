package textutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Accented upper", "CRÉD.LIQUIDAÇÃO COBRANÇA", "CRED.LIQUIDACAO COBRANCA"},
		{"Accented lower", "não", "nao"},
		{"No accents", "TARIFA", "TARIFA"},
		{"Empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Fold(tc.input))
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Mixed case with spaces", "  Associação Médica  ", "ASSOCIACAO MEDICA"},
		{"Already normalized", "EMPRESA LTDA", "EMPRESA LTDA"},
		{"Empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeKey(tc.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "abc", Truncate("abcde", 3))
	assert.Equal(t, "", Truncate("", 3))
	// Rune-aware, not byte-aware.
	assert.Equal(t, "ÀÉÍ", Truncate("ÀÉÍÕÜ", 3))
}

func TestIsUpper(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"All caps", "EMPRESA DE TRANSPORTES", true},
		{"Caps with digits", "LOJA 123", true},
		{"Mixed case", "Empresa Ltda", false},
		{"All lower", "empresa", false},
		{"No letters", "123 456", false},
		{"Empty", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsUpper(tc.input))
		})
	}
}
