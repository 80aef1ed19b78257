package prompts

func stringSchema() map[string]any { return map[string]any{"type": "string"} }

func scoreSchema() map[string]any {
	return map[string]any{"type": "number", "minimum": 0, "maximum": 1}
}

func GrammarFindingSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"word":        stringSchema(),
			"rule":        stringSchema(),
			"suggestion":  stringSchema(),
			"explanation": stringSchema(),
		},
		"required":             []string{"word", "rule", "suggestion", "explanation"},
		"additionalProperties": false,
	}
}

func GrammarCheckSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"errors": map[string]any{
				"type":  "array",
				"items": GrammarFindingSchema(),
			},
		},
		"required":             []string{"errors"},
		"additionalProperties": false,
	}
}

func RubricScoreSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"grammarScore": scoreSchema(),
			"grammarNotes": map[string]any{
				"type":  "array",
				"items": stringSchema(),
			},
			"vocabScore": scoreSchema(),
			"taskScore":  scoreSchema(),
			"taskNotes":  stringSchema(),
			"feedback":   stringSchema(),
		},
		"required":             []string{"grammarScore", "grammarNotes", "vocabScore", "taskScore", "taskNotes", "feedback"},
		"additionalProperties": false,
	}
}

func ContextualRemarkSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"remark": stringSchema(),
		},
		"required":             []string{"remark"},
		"additionalProperties": false,
	}
}
