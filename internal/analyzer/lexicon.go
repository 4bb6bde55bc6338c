package analyzer

// Built-in lexicons cover English and Brazilian Portuguese, the two
// languages the upstream collectors produce. All lists are overridable
// through configuration.

// DefaultPositiveWords returns the built-in positive sentiment lexicon.
func DefaultPositiveWords() []string {
	return []string{
		// English
		"good", "great", "excellent", "amazing", "wonderful", "fantastic", "best", "love", "loved",
		"beautiful", "perfect", "awesome", "brilliant", "outstanding", "superb", "exceptional",
		"incredible", "magnificent", "pleasant", "delightful", "enjoyable", "happy", "glad",
		"pleased", "satisfied", "terrific", "impressive", "remarkable", "positive", "advantage",
		"benefit", "success", "successful", "win", "winning", "better", "improvement", "improved",
		"exciting", "excited", "optimistic", "hopeful", "promising", "favorable", "recommend",
		"recommended", "trusted", "reliable", "growth", "opportunity",
		// Portuguese
		"bom", "boa", "ótimo", "ótima", "excelente", "incrível", "maravilhoso", "maravilhosa",
		"fantástico", "fantástica", "perfeito", "perfeita", "melhor", "amei", "adorei", "gostei",
		"recomendo", "recomendado", "sucesso", "vantagem", "benefício", "crescimento",
		"oportunidade", "positivo", "positiva", "confiável", "promissor", "satisfeito", "feliz",
	}
}

// DefaultNegativeWords returns the built-in negative sentiment lexicon.
func DefaultNegativeWords() []string {
	return []string{
		// English
		"bad", "terrible", "awful", "horrible", "poor", "worst", "hate", "hated", "ugly",
		"disgusting", "disappointing", "disappointed", "fail", "failed", "failure", "wrong",
		"problem", "problems", "issue", "issues", "error", "errors", "difficult", "impossible",
		"negative", "unfortunate", "sad", "unhappy", "angry", "frustrated", "frustrating",
		"annoying", "concern", "concerned", "worried", "worry", "fear", "afraid", "dangerous",
		"risk", "threat", "damage", "harm", "harmful", "worse", "loss", "lost", "losing",
		"decline", "declined", "scam", "fraud",
		// Portuguese
		"ruim", "péssimo", "péssima", "horrível", "terrível", "pior", "odiei", "detestei",
		"decepcionante", "decepção", "falha", "falhou", "fracasso", "problema", "problemas",
		"erro", "erros", "difícil", "impossível", "negativo", "negativa", "triste", "preocupante",
		"preocupado", "medo", "perigoso", "perigosa", "risco", "ameaça", "dano", "prejuízo",
		"perda", "queda", "golpe", "fraude",
	}
}

// DefaultBiasTerms returns absolutist and overgeneralizing wording that
// signals biased writing. Each match adds 0.1 to the bias score.
func DefaultBiasTerms() []string {
	return []string{
		// English
		"always", "never", "everyone", "nobody", "guaranteed", "definitely",
		"absolutely", "certainly", "undeniable", "undeniably", "obviously", "unquestionably",
		"proven fact", "without doubt", "everybody knows", "no one can deny",
		// Portuguese
		"sempre", "nunca", "jamais", "todos", "ninguém", "nenhum", "garantido", "garantida",
		"certamente", "definitivamente", "absolutamente", "obviamente", "inegável",
		"indiscutível", "sem dúvida", "com certeza", "todo mundo sabe",
	}
}

// DefaultDisinformationPhrases returns phrasing typical of
// disinformation. Each match adds 0.2 to the disinformation score.
func DefaultDisinformationPhrases() []string {
	return []string{
		// English
		"miracle cure", "doctors hate", "they don't want you to know",
		"the media is hiding", "secret they are hiding", "wake up sheeple",
		"100% proven", "banned information", "what they won't tell you",
		"big pharma doesn't want", "hidden truth",
		// Portuguese
		"cura milagrosa", "médicos odeiam", "a mídia esconde",
		"não querem que você saiba", "a verdade que escondem",
		"100% comprovado", "informação censurada", "segredo revelado",
		"o que não te contam", "acorda povo",
	}
}
