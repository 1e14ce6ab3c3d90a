package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vcollos/concilia-csv/internal/models"
)

func TestEvalCredit(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name     string
		input    Input
		expected string
	}{
		{
			"Card purchase settlement",
			Input{Type: models.TypeCredit, Memo: "CR COMPRAS 04/03"},
			"15254",
		},
		{
			"Masked CPF payee is individual receivable",
			Input{Type: models.TypeCredit, Memo: "PIX RECEBIDO", Payee: "***.123.456-**JOAO DA SILVA"},
			"10550",
		},
		{
			"Formatted CNPJ payee is company receivable",
			Input{Type: models.TypeCredit, Memo: "TED RECEBIDA", Payee: "12.345.678 0001-90 EMPRESA LTDA"},
			"13709",
		},
		{
			"Memo rule outranks payee regex",
			Input{Type: models.TypeCredit, Memo: "CR COMPRAS", Payee: "***.123.456-**"},
			"15254",
		},
		{
			"Case-insensitive contains",
			Input{Type: models.TypeCredit, Memo: "cr compras"},
			"15254",
		},
		{
			"No match",
			Input{Type: models.TypeCredit, Memo: "RENDIMENTO POUPANÇA"},
			"",
		},
		{
			"Debit rows never get a credit code",
			Input{Type: models.TypeDebit, Memo: "CR COMPRAS"},
			"",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, table.EvalCredit(tc.input))
		})
	}
}

func TestEvalDebit(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name     string
		input    Input
		expected string
	}{
		{"Collection fee", Input{Type: models.TypeDebit, Memo: "TARIFA COBRANÇA REF 03/2024"}, "52877"},
		{"PIX transfer fee", Input{Type: models.TypeDebit, Memo: "TARIFA ENVIO PIX"}, "52878"},
		{"Service package", Input{Type: models.TypeDebit, Memo: "DÉBITO PACOTE SERVIÇOS"}, "52914"},
		{"Capital installments", Input{Type: models.TypeDebit, Memo: "DEB.PARCELAS SUBSC./INTEGR."}, "84618"},
		{"Health plan by payee", Input{Type: models.TypeDebit, Memo: "PAGAMENTO", Payee: "UNIMED VITORIA"}, "23921"},
		{"Board attendance by payee", Input{Type: models.TypeDebit, Memo: "PAGAMENTO", Payee: "CÉDULA DE PRESENÇA MARÇO"}, "26186"},
		{"Payroll", Input{Type: models.TypeDebit, Memo: "PAGAMENTO SALARIO"}, "20817"},
		{"Utilities", Input{Type: models.TypeDebit, Memo: "AGUA E ESGOTO CESAN"}, "52197"},
		{"No match", Input{Type: models.TypeDebit, Memo: "SAQUE AVULSO"}, ""},
		{"Credit rows never get a debit code", Input{Type: models.TypeCredit, Memo: "TARIFA COBRANÇA"}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, table.EvalDebit(tc.input))
		})
	}
}

func TestEvalHistory(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name     string
		input    Input
		expected string
	}{
		{"Collection fee history", Input{Type: models.TypeDebit, Memo: "TARIFA COBRANÇA"}, "8"},
		{"PIX fee history", Input{Type: models.TypeDebit, Memo: "TARIFA ENVIO PIX"}, "150"},
		{"Payroll history", Input{Type: models.TypeDebit, Memo: "PAGAMENTO SALARIO"}, "88"},
		{"Card purchase history", Input{Type: models.TypeCredit, Memo: "CR COMPRAS"}, "601"},
		{"Masked CPF history", Input{Type: models.TypeCredit, Payee: "***.987.654-**"}, "78"},
		{"CNPJ history", Input{Type: models.TypeCredit, Payee: "98.765.432 0001-10"}, "78"},
		{"No match", Input{Type: models.TypeCredit, Memo: "RENDIMENTO"}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, table.EvalHistory(tc.input))
		})
	}
}

func TestComplement(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		expected string
	}{
		{
			"Credit with payee",
			Input{Type: models.TypeCredit, Memo: "PIX RECEBIDO", Payee: "JOAO"},
			"C - PIX RECEBIDO | JOAO",
		},
		{
			"Debit without payee",
			Input{Type: models.TypeDebit, Memo: "TARIFA COBRANÇA"},
			"D - TARIFA COBRANÇA",
		},
		{
			"Empty memo keeps prefix",
			Input{Type: models.TypeCredit},
			"C - ",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Complement(tc.input))
		})
	}
}
