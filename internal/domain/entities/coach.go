package entities

import "time"

// Coach is a coaching persona whose prompt content drives the chat agent.
type Coach struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	CoachPromptContent string    `json:"coach_prompt_content"`
	IsActive           bool      `json:"is_active"`
	Tags               []string  `json:"tags"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
