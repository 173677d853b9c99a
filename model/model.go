package model

import "time"

type FieldType string

const (
	FieldTypeText   FieldType = "TEXT"
	FieldTypeNumber FieldType = "NUMBER"
)

const (
	MaxSections         = 2
	MaxFieldsPerSection = 3
)

type Form struct {
	ID          int       `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
	Sections    []Section `json:"sections"`
}

type Section struct {
	ID     int     `json:"id,omitempty"`
	Title  string  `json:"title"`
	Order  int     `json:"order"`
	Fields []Field `json:"fields"`
}

type Field struct {
	ID       int       `json:"id,omitempty"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Order    int       `json:"order"`
}

// FormSummary is a dashboard row: form metadata plus how many submissions it received.
type FormSummary struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	SubmissionCount int       `json:"submissionCount"`
}

type Submission struct {
	ID        int             `json:"id"`
	FormID    int             `json:"formId"`
	CreatedAt time.Time       `json:"createdAt"`
	Responses []FieldResponse `json:"responses"`
}

type FieldResponse struct {
	ID      int    `json:"id,omitempty"`
	FieldID int    `json:"fieldId"`
	Label   string `json:"label,omitempty"`
	Value   string `json:"value"`
}

// SubmitRequest is the payload of a public form submission.
type SubmitRequest struct {
	Responses []ResponseInput `json:"responses"`
}

type ResponseInput struct {
	FieldID int    `json:"fieldId"`
	Value   string `json:"value"`
}
