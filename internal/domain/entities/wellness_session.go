package entities

import (
	"encoding/json"
	"time"
)

// WellnessSession is one recorded coaching interview and the data extracted
// from it.
type WellnessSession struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Transcription   string          `json:"transcription"`
	Summary         string          `json:"summary"`
	BotConversation *string         `json:"bot_conversation"`
	WellnessData    json.RawMessage `json:"wellness_data"`
	AnalysisResults json.RawMessage `json:"analysis_results"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// WellnessSessionUpdate is a partial update; nil fields are left unchanged.
type WellnessSessionUpdate struct {
	Transcription   *string         `json:"transcription,omitempty"`
	Summary         *string         `json:"summary,omitempty"`
	BotConversation *string         `json:"bot_conversation,omitempty"`
	WellnessData    json.RawMessage `json:"wellness_data,omitempty"`
	AnalysisResults json.RawMessage `json:"analysis_results,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u WellnessSessionUpdate) Empty() bool {
	return u.Transcription == nil && u.Summary == nil && u.BotConversation == nil &&
		len(u.WellnessData) == 0 && len(u.AnalysisResults) == 0
}

// UserSummary aggregates sessions per user.
type UserSummary struct {
	Email          string    `json:"email"`
	InterviewCount int       `json:"interview_count"`
	FirstInterview time.Time `json:"first_interview"`
	LastInterview  time.Time `json:"last_interview"`
}
