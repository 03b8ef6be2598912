package entities

// PromptSource names the layer a resolved value came from.
type PromptSource string

const (
	SourceDefault   PromptSource = "default"
	SourceVersioned PromptSource = "versioned"
	SourceOverride  PromptSource = "override"
)

// ResolvedPrompt is the effective prompt pair for one stage after layering.
type ResolvedPrompt struct {
	QuestionPrompt   string `json:"question_prompt"`
	ExtractionPrompt string `json:"extraction_prompt"`

	QuestionSource   PromptSource `json:"-"`
	ExtractionSource PromptSource `json:"-"`
}
