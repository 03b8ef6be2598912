package entities

import (
	"fmt"
	"time"
)

// FieldType enumerates the value kinds a form field can hold.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeDate    FieldType = "date"
	FieldTypeArray   FieldType = "array"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeString, FieldTypeNumber, FieldTypeBoolean, FieldTypeDate, FieldTypeArray:
		return true
	}
	return false
}

// FieldValidation holds client-side validation constraints.
type FieldValidation struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Format    string   `json:"format,omitempty"`
	MaxItems  *int     `json:"maxItems,omitempty"`
}

// FieldUI holds rendering hints for clients.
type FieldUI struct {
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`
	Priority    int    `json:"priority,omitempty"`
	Widget      string `json:"widget,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// FieldDefinition describes one form field.
type FieldDefinition struct {
	Key          string           `json:"key"`
	Type         FieldType        `json:"type"`
	Required     bool             `json:"required,omitempty"`
	DefaultValue any              `json:"defaultValue,omitempty"`
	Validation   *FieldValidation `json:"validation,omitempty"`
	Enum         []string         `json:"enum,omitempty"`
	UI           *FieldUI         `json:"ui,omitempty"`
}

// StageDefinition describes one step of a multi-stage form.
type StageDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Targets     []string `json:"targets"`
	Order       int      `json:"order"`
}

// FormSchema is a named, versioned, localized bundle of fields and stages.
type FormSchema struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Version     string            `json:"version"`
	Locale      string            `json:"locale"`
	Fields      []FieldDefinition `json:"fields"`
	Stages      []StageDefinition `json:"stages"`
	IsActive    bool              `json:"is_active"`
	CreatedBy   string            `json:"created_by,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// FormSchemaContent is the JSON blob persisted in form_schemas.schema_data.
type FormSchemaContent struct {
	Fields []FieldDefinition `json:"fields"`
	Stages []StageDefinition `json:"stages"`
}

// Stage returns the stage with the given id.
func (f *FormSchema) Stage(id string) (StageDefinition, bool) {
	for _, s := range f.Stages {
		if s.ID == id {
			return s, true
		}
	}
	return StageDefinition{}, false
}

// Validate checks the structural invariants of a form: unique field keys,
// enums only on string fields, stage targets that exist, unique stage ids and
// orders.
func (f *FormSchema) Validate() error {
	keys := make(map[string]struct{}, len(f.Fields))
	for _, field := range f.Fields {
		if field.Key == "" {
			return fmt.Errorf("field key is required")
		}
		if _, dup := keys[field.Key]; dup {
			return fmt.Errorf("duplicate field key '%s'", field.Key)
		}
		keys[field.Key] = struct{}{}

		if !field.Type.Valid() {
			return fmt.Errorf("field '%s' has unknown type '%s'", field.Key, field.Type)
		}
		if len(field.Enum) > 0 && field.Type != FieldTypeString {
			return fmt.Errorf("field '%s' declares enum but is of type '%s'", field.Key, field.Type)
		}
	}

	ids := make(map[string]struct{}, len(f.Stages))
	orders := make(map[int]string, len(f.Stages))
	for _, stage := range f.Stages {
		if stage.ID == "" {
			return fmt.Errorf("stage id is required")
		}
		if _, dup := ids[stage.ID]; dup {
			return fmt.Errorf("duplicate stage id '%s'", stage.ID)
		}
		ids[stage.ID] = struct{}{}

		if other, dup := orders[stage.Order]; dup {
			return fmt.Errorf("stages '%s' and '%s' share order %d", other, stage.ID, stage.Order)
		}
		orders[stage.Order] = stage.ID

		for _, target := range stage.Targets {
			if _, ok := keys[target]; !ok {
				return fmt.Errorf("stage '%s' targets unknown field '%s'", stage.ID, target)
			}
		}
	}
	return nil
}

// FormSchemaPatch carries the fields a new form version overrides. Nil means
// "copy from the base version".
type FormSchemaPatch struct {
	Description *string            `json:"description,omitempty"`
	Fields      *[]FieldDefinition `json:"fields,omitempty"`
	Stages      *[]StageDefinition `json:"stages,omitempty"`
	CreatedBy   *string            `json:"created_by,omitempty"`
}
