package learning

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcollos/concilia-csv/internal/models"
)

func TestRuleKey(t *testing.T) {
	tests := []struct {
		name       string
		origin     string
		complement string
		expected   string
	}{
		{
			"Francesinha keys on payer segment only",
			"francesinha-2024-03",
			"C - JOAO DA SILVA | 1.234,56 | CRÉD.LIQUIDAÇÃO COBRANÇA | 05/03/2024",
			"C - JOAO DA SILVA",
		},
		{
			"Interest rows key on payer segment only",
			models.InterestOrigin,
			"C - JOAO DA SILVA | N/A | CRÉD.LIQUIDAÇÃO COBRANÇA |  | Juros de Mora",
			"C - JOAO DA SILVA",
		},
		{
			"Statement entry with many segments keeps first two",
			"extrato-2024-03",
			"C - PIX RECEBIDO | JOAO | EXTRA | MORE",
			"C - PIX RECEBIDO | JOAO",
		},
		{
			"Statement entry with two segments used whole",
			"extrato-2024-03",
			"D - TARIFA COBRANÇA | BANCO",
			"D - TARIFA COBRANÇA | BANCO",
		},
		{
			"Statement entry without payee used whole",
			"extrato-2024-03",
			"D - TARIFA COBRANÇA",
			"D - TARIFA COBRANÇA",
		},
		{
			"Empty complement",
			"extrato-2024-03",
			"",
			"",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RuleKey(tc.origin, tc.complement))
		})
	}
}

func TestRuleKeyStableAcrossSettlementChanges(t *testing.T) {
	// The same slip imported on two runs carries different totals and
	// dates; its identity must not move.
	first := RuleKey("francesinha-a", "C - EMPRESA LTDA | 1.000,00 | CRÉD.LIQUIDAÇÃO COBRANÇA | 05/03/2024")
	second := RuleKey("francesinha-b", "C - EMPRESA LTDA | N/A | CRÉD.LIQUIDAÇÃO COBRANÇA | 12/03/2024")
	assert.Equal(t, first, second)
}

func TestRuleHash(t *testing.T) {
	sum := sha256.Sum256([]byte("C - JOAO"))
	assert.Equal(t, hex.EncodeToString(sum[:]), RuleHash("C - JOAO"))
	assert.Equal(t, "", RuleHash(""))
}

func TestApplyRules(t *testing.T) {
	entries := []models.LedgerEntry{
		{Origin: "extrato", Complement: "D - TARIFA COBRANÇA", Debit: "52877", History: "8"},
		{Origin: "francesinha", Complement: "C - EMPRESA LTDA | N/A | LIQ | "},
		{Origin: "extrato", Complement: "D - SAQUE AVULSO"},
	}

	saved := map[string]SavedRule{
		RuleHash("C - EMPRESA LTDA"):    {Credit: "13709", History: "78"},
		RuleHash("D - TARIFA COBRANÇA"): {Debit: "99999"},
	}

	applied := ApplyRules(entries, saved)
	assert.Equal(t, 2, applied)

	// Saved debit overrides cascade output.
	assert.Equal(t, "99999", entries[0].Debit)
	// Empty saved fields keep the existing value.
	assert.Equal(t, "8", entries[0].History)

	assert.Equal(t, "13709", entries[1].Credit)
	assert.Equal(t, "78", entries[1].History)

	// No rule, no change.
	assert.Equal(t, "", entries[2].Debit)
}

func TestApplyRulesIdempotent(t *testing.T) {
	entries := []models.LedgerEntry{
		{Origin: "francesinha", Complement: "C - EMPRESA LTDA | N/A | LIQ | "},
	}
	saved := map[string]SavedRule{
		RuleHash("C - EMPRESA LTDA"): {Credit: "13709"},
	}

	require.Equal(t, 1, ApplyRules(entries, saved))
	first := entries[0]
	require.Equal(t, 1, ApplyRules(entries, saved))
	assert.Equal(t, first, entries[0])
}

func TestApplyRulesEmptyInputs(t *testing.T) {
	assert.Equal(t, 0, ApplyRules(nil, map[string]SavedRule{"x": {}}))
	assert.Equal(t, 0, ApplyRules([]models.LedgerEntry{{}}, nil))
}

func TestCollect(t *testing.T) {
	entries := []models.LedgerEntry{
		{Origin: "extrato", Complement: "D - TARIFA COBRANÇA", Debit: "52877", History: "8"},
		{Origin: "extrato", Complement: "D - SAQUE AVULSO"},               // no codes
		{Origin: "extrato", Complement: "   ", Debit: "1"},                // blank complement
		{Origin: "francesinha", Complement: "C - EMPRESA | A", Credit: "10550"},
		{Origin: "francesinha", Complement: "C - EMPRESA | B", Credit: "13709"}, // same key, later wins
	}

	rules := Collect(entries)
	require.Len(t, rules, 2)

	assert.Equal(t, "D - TARIFA COBRANÇA", rules[0].Key)
	assert.Equal(t, "52877", rules[0].Debit)
	assert.Equal(t, "8", rules[0].History)

	assert.Equal(t, "C - EMPRESA", rules[1].Key)
	assert.Equal(t, "13709", rules[1].Credit)
	assert.Equal(t, "C - EMPRESA | B", rules[1].Complement)
}
