package entities

import "time"

// PromptOverride is the sparse per-stage override row. A nil field defers to
// the lower layers; a non-nil empty string is an explicit value.
type PromptOverride struct {
	StageID          string    `json:"stage_id"`
	QuestionPrompt   *string   `json:"question_prompt"`
	ExtractionPrompt *string   `json:"extraction_prompt"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// OverridePatch is the caller's requested override change. A nil field was
// not supplied.
type OverridePatch struct {
	QuestionPrompt   *string `json:"question_prompt"`
	ExtractionPrompt *string `json:"extraction_prompt"`
}

// Supplied reports whether any field carries a value.
func (p OverridePatch) Supplied() bool {
	return p.QuestionPrompt != nil || p.ExtractionPrompt != nil
}

// ClearsAll reports whether every supplied field is the empty string. A patch
// with nothing supplied never clears.
func (p OverridePatch) ClearsAll() bool {
	if !p.Supplied() {
		return false
	}
	if p.QuestionPrompt != nil && *p.QuestionPrompt != "" {
		return false
	}
	if p.ExtractionPrompt != nil && *p.ExtractionPrompt != "" {
		return false
	}
	return true
}
