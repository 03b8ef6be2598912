package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultForm_Wellness(t *testing.T) {
	form, ok := GetDefaultForm(WellnessFormName)
	require.True(t, ok)

	assert.Equal(t, "1.0.0", form.Version)
	assert.Equal(t, "en-US", form.Locale)
	assert.Len(t, form.Fields, 17)
	require.Len(t, form.Stages, 5)
	assert.NoError(t, form.Validate())

	stage, ok := form.Stage("medical_history")
	require.True(t, ok)
	assert.Equal(t, []string{"chronic_conditions", "medications", "contraindications"}, stage.Targets)
	assert.Equal(t, 4, stage.Order)
}

func TestGetDefaultForm_Unknown(t *testing.T) {
	form, ok := GetDefaultForm("nope")
	assert.False(t, ok)
	assert.Nil(t, form)
}

func TestGetDefaultForm_ReturnsIndependentCopies(t *testing.T) {
	first, _ := GetDefaultForm(WellnessFormName)
	first.Description = "mutated"
	first.Stages[0].Targets[0] = "mutated"
	first.Fields[0].UI.Label = "mutated"
	*first.Fields[0].Validation.Min = -1
	first.Fields[1].Enum[0] = "mutated"

	second, _ := GetDefaultForm(WellnessFormName)
	assert.Equal(t, "Comprehensive wellness and lifestyle data collection form", second.Description)
	assert.Equal(t, "age", second.Stages[0].Targets[0])
	assert.Equal(t, "Age", second.Fields[0].UI.Label)
	assert.Equal(t, float64(16), *second.Fields[0].Validation.Min)
	assert.Equal(t, "male", second.Fields[1].Enum[0])
}

func TestGetDefaultPrompt(t *testing.T) {
	p, ok := GetDefaultPrompt(WellnessFormName, "demographics_baseline")
	require.True(t, ok)

	assert.Contains(t, p.Content.MainPrompt, "Let's get acquainted!")
	assert.Contains(t, p.Content.ExtractionPrompt, "- age (number, 16-100, required)")
	assert.Contains(t, p.Content.ExtractionPrompt, "- gender (string, one of: male, female, other)")
	assert.Equal(t, "friendly", p.Metadata.Tone)
	assert.Equal(t, SystemAuthor, p.CreatedBy)

	p.Content.MainPrompt = "mutated"
	again, _ := GetDefaultPrompt(WellnessFormName, "demographics_baseline")
	assert.Contains(t, again.Content.MainPrompt, "Let's get acquainted!")
}

func TestGetDefaultPrompt_UnknownStage(t *testing.T) {
	_, ok := GetDefaultPrompt(WellnessFormName, "nope")
	assert.False(t, ok)

	_, ok = GetDefaultPrompt("nope", "demographics_baseline")
	assert.False(t, ok)
}

func TestDefaultPrompts_StageOrder(t *testing.T) {
	prompts := DefaultPrompts(WellnessFormName)
	require.Len(t, prompts, 5)

	var ids []string
	for _, p := range prompts {
		ids = append(ids, p.StageID)
	}
	assert.Equal(t, []string{
		"demographics_baseline",
		"biometrics_habits",
		"lifestyle_context",
		"medical_history",
		"goals_preferences",
	}, ids)
	assert.Nil(t, DefaultPrompts("nope"))
}

func TestFormNames(t *testing.T) {
	assert.Equal(t, []string{WellnessFormName}, FormNames())
}

func TestFormOfStage(t *testing.T) {
	name, ok := FormOfStage("goals_preferences")
	require.True(t, ok)
	assert.Equal(t, WellnessFormName, name)

	_, ok = FormOfStage("unknown_stage")
	assert.False(t, ok)
}
