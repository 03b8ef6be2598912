package entities

import "time"

// PromptContent holds the conversational text slots for one stage.
type PromptContent struct {
	MainPrompt       string `json:"main_prompt"`
	FollowUpPrompt   string `json:"follow_up_prompt,omitempty"`
	ValidationPrompt string `json:"validation_prompt,omitempty"`
	CompletionPrompt string `json:"completion_prompt,omitempty"`
	ExtractionPrompt string `json:"extraction_prompt,omitempty"`
}

// PromptMetadata is advisory and opaque to resolution.
type PromptMetadata struct {
	Tone       string `json:"tone,omitempty"`
	Style      string `json:"style,omitempty"`
	Length     string `json:"length,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// PromptSpec is a named, versioned, localized prompt bundle for one stage.
type PromptSpec struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	StageID     string         `json:"stage_id"`
	FormName    string         `json:"form_name"`
	Version     string         `json:"version"`
	Locale      string         `json:"locale"`
	Content     PromptContent  `json:"content"`
	Metadata    PromptMetadata `json:"metadata"`
	IsActive    bool           `json:"is_active"`
	CreatedBy   string         `json:"created_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// PromptData is the JSON blob persisted in prompts.prompt_data.
type PromptData struct {
	Content  PromptContent  `json:"content"`
	Metadata PromptMetadata `json:"metadata"`
}

// PromptContentPatch overrides individual content slots; nil copies the base.
type PromptContentPatch struct {
	MainPrompt       *string `json:"main_prompt,omitempty"`
	FollowUpPrompt   *string `json:"follow_up_prompt,omitempty"`
	ValidationPrompt *string `json:"validation_prompt,omitempty"`
	CompletionPrompt *string `json:"completion_prompt,omitempty"`
	ExtractionPrompt *string `json:"extraction_prompt,omitempty"`
}

// PromptMetadataPatch overrides individual metadata keys; nil copies the base.
type PromptMetadataPatch struct {
	Tone       *string `json:"tone,omitempty"`
	Style      *string `json:"style,omitempty"`
	Length     *string `json:"length,omitempty"`
	Difficulty *string `json:"difficulty,omitempty"`
}

// PromptSpecPatch carries the fields a new prompt version overrides.
type PromptSpecPatch struct {
	Name        *string              `json:"name,omitempty"`
	Description *string              `json:"description,omitempty"`
	Content     *PromptContentPatch  `json:"content,omitempty"`
	Metadata    *PromptMetadataPatch `json:"metadata,omitempty"`
	CreatedBy   *string              `json:"created_by,omitempty"`
}

// StageBotPrompts is the per-stage prompt bundle handed to the chat agent.
type StageBotPrompts struct {
	StageID          string         `json:"stage_id"`
	FormName         string         `json:"form_name"`
	MainPrompt       string         `json:"main_prompt"`
	FollowUpPrompt   string         `json:"follow_up_prompt,omitempty"`
	ValidationPrompt string         `json:"validation_prompt,omitempty"`
	CompletionPrompt string         `json:"completion_prompt,omitempty"`
	Metadata         PromptMetadata `json:"metadata"`
}

// BotStage pairs a stage with its prompt bundle.
type BotStage struct {
	StageID   string          `json:"stage_id"`
	StageName string          `json:"stage_name"`
	Prompts   StageBotPrompts `json:"prompts"`
}

// FormBotPrompts is the whole-form prompt payload for the chat agent.
type FormBotPrompts struct {
	FormName string     `json:"form_name"`
	Version  string     `json:"version"`
	Locale   string     `json:"locale"`
	Stages   []BotStage `json:"stages"`
}
