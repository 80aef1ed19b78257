package prompts

type PromptName string

const (
	PromptGrammarCheck     PromptName = "grammar_check"
	PromptRubricScore      PromptName = "rubric_score"
	PromptContextualRemark PromptName = "contextual_remark"
)
