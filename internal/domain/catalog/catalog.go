// Package catalog holds the compiled-in default forms and prompts. Nothing in
// the package is mutable from the outside: every accessor hands back a deep
// copy.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/pkg/version"
)

const (
	// DefaultLocale is the locale the built-in content is written in.
	DefaultLocale = "en-US"

	// SystemAuthor is recorded as created_by on built-in content.
	SystemAuthor = "system"
)

var catalogCreatedAt = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

type formEntry struct {
	form    entities.FormSchema
	prompts map[string]entities.PromptSpec
}

var forms = map[string]formEntry{
	WellnessFormName: buildEntry(
		entities.FormSchema{
			ID:          WellnessFormName,
			Name:        WellnessFormName,
			Description: "Comprehensive wellness and lifestyle data collection form",
			Fields:      wellnessFields,
			Stages:      wellnessStages,
		},
		wellnessPrompts,
		wellnessMetadata,
	),
}

func buildEntry(form entities.FormSchema, prompts map[string]stagePrompt, metadata entities.PromptMetadata) formEntry {
	form.Version = version.Initial
	form.Locale = DefaultLocale
	form.IsActive = true
	form.CreatedBy = SystemAuthor
	form.CreatedAt = catalogCreatedAt
	form.UpdatedAt = catalogCreatedAt

	if err := form.Validate(); err != nil {
		panic(fmt.Sprintf("catalog: built-in form %s is invalid: %v", form.Name, err))
	}

	entry := formEntry{form: form, prompts: make(map[string]entities.PromptSpec, len(form.Stages))}
	for _, stage := range form.Stages {
		p, ok := prompts[stage.ID]
		if !ok {
			panic(fmt.Sprintf("catalog: built-in form %s has no prompt for stage %s", form.Name, stage.ID))
		}
		content := p.content
		if content.ExtractionPrompt == "" {
			content.ExtractionPrompt = extractionPrompt(&form, stage)
		}
		entry.prompts[stage.ID] = entities.PromptSpec{
			ID:          form.Name + ":" + stage.ID,
			Name:        p.name,
			Description: p.description,
			StageID:     stage.ID,
			FormName:    form.Name,
			Version:     version.Initial,
			Locale:      DefaultLocale,
			Content:     content,
			Metadata:    metadata,
			IsActive:    true,
			CreatedBy:   SystemAuthor,
			CreatedAt:   catalogCreatedAt,
			UpdatedAt:   catalogCreatedAt,
		}
	}
	return entry
}

// extractionPrompt builds the instruction that turns a user's free-text answer
// into the stage's target fields.
func extractionPrompt(form *entities.FormSchema, stage entities.StageDefinition) string {
	byKey := make(map[string]entities.FieldDefinition, len(form.Fields))
	for _, f := range form.Fields {
		byKey[f.Key] = f
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Extract the following fields for the %q stage from the user's answer and return them as a JSON object.\n", stage.Name)
	for _, key := range stage.Targets {
		f := byKey[key]
		fmt.Fprintf(&b, "- %s (%s", key, f.Type)
		switch {
		case len(f.Enum) > 0:
			fmt.Fprintf(&b, ", one of: %s", strings.Join(f.Enum, ", "))
		case f.Validation != nil && f.Validation.Min != nil && f.Validation.Max != nil:
			fmt.Fprintf(&b, ", %g-%g", *f.Validation.Min, *f.Validation.Max)
		case f.Validation != nil && f.Validation.MaxItems != nil:
			fmt.Fprintf(&b, ", up to %d items", *f.Validation.MaxItems)
		}
		if f.Required {
			b.WriteString(", required")
		}
		b.WriteString(")\n")
	}
	b.WriteString("Omit any field the user did not mention. Do not guess values.")
	return b.String()
}

// FormNames returns the names of all built-in forms, sorted.
func FormNames() []string {
	names := make([]string, 0, len(forms))
	for name := range forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetDefaultForm returns a copy of the built-in form with the given name.
func GetDefaultForm(name string) (*entities.FormSchema, bool) {
	entry, ok := forms[name]
	if !ok {
		return nil, false
	}
	return cloneForm(&entry.form), true
}

// GetDefaultPrompt returns a copy of the built-in prompt for a stage.
func GetDefaultPrompt(formName, stageID string) (*entities.PromptSpec, bool) {
	entry, ok := forms[formName]
	if !ok {
		return nil, false
	}
	p, ok := entry.prompts[stageID]
	if !ok {
		return nil, false
	}
	return &p, true
}

// DefaultPrompts returns copies of every built-in prompt of a form in stage
// order.
func DefaultPrompts(formName string) []*entities.PromptSpec {
	entry, ok := forms[formName]
	if !ok {
		return nil
	}
	out := make([]*entities.PromptSpec, 0, len(entry.form.Stages))
	for _, stage := range sortedStages(entry.form.Stages) {
		p := entry.prompts[stage.ID]
		out = append(out, &p)
	}
	return out
}

// FormOfStage returns the name of the built-in form declaring the stage. When
// several forms share a stage id the first name in sort order wins.
func FormOfStage(stageID string) (string, bool) {
	for _, name := range FormNames() {
		if _, ok := forms[name].prompts[stageID]; ok {
			return name, true
		}
	}
	return "", false
}

func sortedStages(stages []entities.StageDefinition) []entities.StageDefinition {
	out := append([]entities.StageDefinition(nil), stages...)
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func cloneForm(f *entities.FormSchema) *entities.FormSchema {
	out := *f
	out.Fields = make([]entities.FieldDefinition, len(f.Fields))
	for i, field := range f.Fields {
		out.Fields[i] = cloneField(field)
	}
	out.Stages = make([]entities.StageDefinition, len(f.Stages))
	for i, stage := range f.Stages {
		stage.Targets = append([]string(nil), stage.Targets...)
		out.Stages[i] = stage
	}
	return &out
}

func cloneField(f entities.FieldDefinition) entities.FieldDefinition {
	if f.Enum != nil {
		f.Enum = append([]string(nil), f.Enum...)
	}
	if f.UI != nil {
		ui := *f.UI
		f.UI = &ui
	}
	if f.Validation != nil {
		v := *f.Validation
		if v.Min != nil {
			v.Min = ptrFloat(*v.Min)
		}
		if v.Max != nil {
			v.Max = ptrFloat(*v.Max)
		}
		if v.MinLength != nil {
			v.MinLength = ptrInt(*v.MinLength)
		}
		if v.MaxLength != nil {
			v.MaxLength = ptrInt(*v.MaxLength)
		}
		if v.MaxItems != nil {
			v.MaxItems = ptrInt(*v.MaxItems)
		}
		f.Validation = &v
	}
	return f
}
