package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcollos/concilia-csv/internal/models"
)

const testTableYAML = `version: "test"
debit:
  - field: memo
    match: contains
    pattern: "TARIFA"
    code: "100"
credit:
  - field: payee
    match: regex
    pattern: '\d{2}\.\d{3}'
    code: "200"
debit_history:
  - field: memo
    match: contains
    pattern: "TARIFA"
    code: "9"
`

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testTableYAML), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)

	assert.Equal(t, "test", table.Version)
	assert.Equal(t, "100", table.EvalDebit(Input{Type: models.TypeDebit, Memo: "TARIFA X"}))
	assert.Equal(t, "200", table.EvalCredit(Input{Type: models.TypeCredit, Payee: "12.345"}))
	assert.Equal(t, "9", table.EvalHistory(Input{Type: models.TypeDebit, Memo: "TARIFA X"}))
	assert.Equal(t, "", table.EvalHistory(Input{Type: models.TypeCredit, Memo: "TARIFA X"}))
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{"Unknown field", Rule{Field: "amount", Match: MatchContains, Pattern: "X", Code: "1"}},
		{"Unknown match kind", Rule{Field: FieldMemo, Match: "glob", Pattern: "X", Code: "1"}},
		{"Bad regex", Rule{Field: FieldMemo, Match: MatchRegex, Pattern: "(", Code: "1"}},
		{"Empty code", Rule{Field: FieldMemo, Match: MatchContains, Pattern: "X"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table := &Table{Debit: []Rule{tc.rule}}
			assert.Error(t, table.Compile())
		})
	}
}

func TestDefaultTableCompiles(t *testing.T) {
	assert.NotPanics(t, func() { DefaultTable() })
}
