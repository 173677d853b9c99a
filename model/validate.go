package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate checks a form definition against the builder constraints before it
// touches the database: non-empty title, at most MaxSections sections, at most
// MaxFieldsPerSection fields each, known field types, non-empty labels.
func (f Form) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(f.Sections) > MaxSections {
		return fmt.Errorf("at most %d sections allowed", MaxSections)
	}
	for i, s := range f.Sections {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("section %d: title is required", i+1)
		}
		if len(s.Fields) > MaxFieldsPerSection {
			return fmt.Errorf("section %d: at most %d fields allowed", i+1, MaxFieldsPerSection)
		}
		for j, fld := range s.Fields {
			if strings.TrimSpace(fld.Label) == "" {
				return fmt.Errorf("section %d, field %d: label is required", i+1, j+1)
			}
			if fld.Type != FieldTypeText && fld.Type != FieldTypeNumber {
				return fmt.Errorf("section %d, field %d: unknown type %q", i+1, j+1, string(fld.Type))
			}
		}
	}
	return nil
}

// ValidateResponses checks submitted values against the form's field
// definitions: every fieldId must belong to the form, every required field
// must have a non-empty trimmed value, every NUMBER value must parse.
// Values are stored as raw strings either way.
func ValidateResponses(fields map[int]Field, responses []ResponseInput) error {
	values := make(map[int]string, len(responses))
	for _, resp := range responses {
		field, ok := fields[resp.FieldID]
		if !ok {
			return fmt.Errorf("unknown field %d", resp.FieldID)
		}
		values[resp.FieldID] = resp.Value

		if field.Type == FieldTypeNumber && strings.TrimSpace(resp.Value) != "" {
			if _, err := strconv.ParseFloat(strings.TrimSpace(resp.Value), 64); err != nil {
				return fmt.Errorf("%s must be a number", field.Label)
			}
		}
	}

	for id, field := range fields {
		if !field.Required {
			continue
		}
		if strings.TrimSpace(values[id]) == "" {
			return fmt.Errorf("%s is required", field.Label)
		}
	}
	return nil
}
