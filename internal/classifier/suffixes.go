package classifier

// DefaultSuffixes returns the curated token list that marks a payer name as
// corporate: legal-entity abbreviations, trade-association words and the
// industry-sector words that show up on the collection reports this tool
// processes. Deployments can swap the list via NewWithSuffixes.
func DefaultSuffixes() []string {
	return []string{
		"LTDA", "S/A", "SA", "ME", "EIRELI", "CIA", "MEI", "EPP", "EIRELE", "S.A",
		"ASSOCIACAO", "SEGURANCA", "AUTOMACAO", "ROBOTICA", "TECNOLOGIA",
		"SOLUCOES", "COMERCIO", "FERRAMENTAS", "CFC", "CORRESPONDENTE",
		"PET SERVICE", "ORGANIZACAO", "INSTALACOES", "TREINAMENTOS",
		"GREMIO", "IGREJA", "INDUSTRIA", "SINDICATO", "CONSTRUTORA", "SOFTWARE",
		"MOTORES", "ARMAZENAGEM", "CONTABEIS", "ACO", "EQUIPAMENTOS",
		"EXPRESS", "TRANSPORTES",
	}
}
