// Package rules implements the reconciliation rule cascade: the ordered
// keyword/regex tables that assign debit, credit and history codes to
// bank-statement lines, and the complement text built from them.
//
// The tables are configuration, not code: accounting policy changes by
// editing the YAML table, never by touching the evaluator.
package rules

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field selects which part of the transaction a rule matches against.
type Field string

const (
	FieldMemo  Field = "memo"
	FieldPayee Field = "payee"
)

// Match selects how a rule pattern is applied.
type Match string

const (
	// MatchContains is a case-insensitive substring test.
	MatchContains Match = "contains"
	// MatchRegex applies a regular expression to the raw field value.
	MatchRegex Match = "regex"
)

// Rule is one (predicate, code) pair of a cascade. Rules are evaluated in
// table order; the first match wins.
type Rule struct {
	Field   Field  `yaml:"field"`
	Match   Match  `yaml:"match"`
	Pattern string `yaml:"pattern"`
	Code    string `yaml:"code"`

	re    *regexp.Regexp
	upper string
}

// Table holds the four cascades of a rule set. Debit and DebitHistory run
// against DEBIT-typed rows only, Credit and CreditHistory against CREDIT
// rows only.
type Table struct {
	Version       string `yaml:"version"`
	Debit         []Rule `yaml:"debit"`
	Credit        []Rule `yaml:"credit"`
	DebitHistory  []Rule `yaml:"debit_history"`
	CreditHistory []Rule `yaml:"credit_history"`
}

// Masked and formatted Brazilian tax-ID patterns seen in OFX payee fields.
// The masked form is a privacy-redacted CPF; the formatted form is a CNPJ
// root plus branch/check digits.
const (
	MaskedTaxIDPattern    = `\*\*\*\.\d{3}\.\d{3}-\*\*`
	FormattedTaxIDPattern = `\d{2}\.\d{3}\.\d{3} \d{4}-\d{2}`
)

// LoadTable reads a rule table from a YAML file and compiles it.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read rule table %s: %w", path, err)
	}

	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("could not parse rule table %s: %w", path, err)
	}

	if err := table.Compile(); err != nil {
		return nil, fmt.Errorf("invalid rule table %s: %w", path, err)
	}

	return &table, nil
}

// Compile validates every rule and precompiles regex patterns. It must be
// called once before the table is evaluated; LoadTable and DefaultTable do
// so themselves.
func (t *Table) Compile() error {
	for _, cascade := range [][]Rule{t.Debit, t.Credit, t.DebitHistory, t.CreditHistory} {
		for i := range cascade {
			if err := cascade[i].compile(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Rule) compile() error {
	switch r.Field {
	case FieldMemo, FieldPayee:
	default:
		return fmt.Errorf("rule %q: unknown field %q", r.Pattern, r.Field)
	}

	switch r.Match {
	case MatchContains:
		r.upper = strings.ToUpper(r.Pattern)
	case MatchRegex:
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("rule %q: %w", r.Pattern, err)
		}
		r.re = re
	default:
		return fmt.Errorf("rule %q: unknown match kind %q", r.Pattern, r.Match)
	}

	if r.Code == "" {
		return fmt.Errorf("rule %q: empty code", r.Pattern)
	}

	return nil
}

// matches applies the rule to one (memo, payee) pair. Substring rules see
// upper-cased text; regex rules see the raw value.
func (r *Rule) matches(memo, payee string) bool {
	var raw string
	switch r.Field {
	case FieldMemo:
		raw = memo
	case FieldPayee:
		raw = payee
	}

	switch r.Match {
	case MatchContains:
		return strings.Contains(strings.ToUpper(raw), r.upper)
	case MatchRegex:
		return r.re.MatchString(raw)
	}
	return false
}

// DefaultTable returns the built-in rule set. The codes are the chart-of-
// accounts and history codes of the reference accounting plan; deployments
// with a different plan supply their own YAML table instead.
func DefaultTable() *Table {
	table := &Table{
		Version: "1",
		Debit: []Rule{
			{Field: FieldMemo, Match: MatchContains, Pattern: "TARIFA COBRANÇA", Code: "52877"},
			{Field: FieldMemo, Match: MatchContains, Pattern: "TARIFA ENVIO PIX", Code: "52878"},
			{Field: FieldMemo, Match: MatchContains, Pattern: "DÉBITO PACOTE SERVIÇOS", Code: "52914"},
			{Field: FieldMemo, Match: MatchContains, Pattern: "DEB.PARCELAS SUBSC./INTEGR.", Code: "84618"},
			{Field: FieldPayee, Match: MatchContains, Pattern: "UNIMED", Code: "23921"},
			{Field: FieldPayee, Match: MatchContains, Pattern: "CÉDULA DE PRESENÇA", Code: "26186"},
			{Field: FieldMemo, Match: MatchContains, Pattern: "SALARIO", Code: "20817"},
			{Field: FieldMemo, Match: MatchContains, Pattern: "AGUA E ESGOTO", Code: "52197"},
		},
		Credit: []Rule{
			{Field: FieldMemo, Match: MatchContains, Pattern: "CR COMPRAS", Code: "15254"},
			{Field: FieldPayee, Match: MatchRegex, Pattern: MaskedTaxIDPattern, Code: "10550"},
			{Field: FieldPayee, Match: MatchRegex, Pattern: FormattedTaxIDPattern, Code: "13709"},
		},
		DebitHistory: []Rule{
			{Field: FieldMemo, Match: MatchContains, Pattern: "TARIFA COBRANÇA", Code: "8"},
			{Field: FieldMemo, Match: MatchContains, Pattern: "TARIFA ENVIO PIX", Code: "150"},
			{Field: FieldMemo, Match: MatchContains, Pattern: "DÉBITO PACOTE SERVIÇOS", Code: "111"},
			{Field: FieldMemo, Match: MatchContains, Pattern: "DEB.PARCELAS SUBSC./INTEGR.", Code: "37"},
			{Field: FieldPayee, Match: MatchContains, Pattern: "UNIMED", Code: "88"},
			{Field: FieldPayee, Match: MatchContains, Pattern: "CÉDULA DE PRESENÇA", Code: "58"},
			{Field: FieldMemo, Match: MatchContains, Pattern: "SALARIO", Code: "88"},
			{Field: FieldMemo, Match: MatchContains, Pattern: "AGUA E ESGOTO", Code: "88"},
		},
		CreditHistory: []Rule{
			{Field: FieldMemo, Match: MatchContains, Pattern: "CR COMPRAS", Code: "601"},
			{Field: FieldMemo, Match: MatchContains, Pattern: "TARIFA ENVIO PIX", Code: "150"},
			{Field: FieldPayee, Match: MatchRegex, Pattern: MaskedTaxIDPattern, Code: "78"},
			{Field: FieldPayee, Match: MatchRegex, Pattern: FormattedTaxIDPattern, Code: "78"},
		},
	}

	if err := table.Compile(); err != nil {
		// The built-in table is static; a compile failure is a programming
		// error, not a runtime condition.
		panic(err)
	}

	return table
}
