package ai

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/model"
	"github.com/pkg/errors"
)

const systemPrompt = `You are a form builder assistant. Generate a form structure based on the user's prompt. Return ONLY valid JSON in this exact format:
{
  "title": "Form Title",
  "description": "Form Description",
  "sections": [
    {
      "title": "Section Title",
      "fields": [
        {
          "label": "Field Label",
          "type": "text|number",
          "required": true|false
        }
      ]
    }
  ]
}

Rules:
- Maximum 2 sections
- Maximum 3 fields per section
- Field types must be either "text" or "number" (lowercase)
- Make fields required based on their importance
- Create practical, relevant field labels`

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.AIUrl, "/"),
		apiKey:  cfg.AIKey,
		model:   cfg.AIModel,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateForm asks the model to draft a form for the given prompt and shapes
// the reply into the builder's own structure. One attempt, no retries: any
// network, API or parse failure comes back as a single error.
func (c *Client) GenerateForm(ctx context.Context, prompt string) (model.Form, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		return model.Form{}, errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return model.Form{}, errors.Wrap(err, "new request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "call completions API")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return model.Form{}, errors.Errorf("completions API status %d: %s", resp.StatusCode, respBody)
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return model.Form{}, errors.Wrap(err, "decode response")
	}
	if chat.Error != nil {
		return model.Form{}, errors.Errorf("completions API: %s", chat.Error.Message)
	}
	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return model.Form{}, errors.New("completions API returned no content")
	}

	return shapeForm(chat.Choices[0].Message.Content)
}

type generatedForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Sections    []struct {
		Title  string `json:"title"`
		Fields []struct {
			Label    string `json:"label"`
			Type     string `json:"type"`
			Required bool   `json:"required"`
		} `json:"fields"`
	} `json:"sections"`
}

// shapeForm parses the model's reply and normalizes it into a Form,
// truncating to the section/field caps no matter what came back.
func shapeForm(content string) (model.Form, error) {
	var gen generatedForm
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &gen); err != nil {
		return model.Form{}, errors.Wrap(err, "parse generated JSON")
	}
	if gen.Sections == nil {
		return model.Form{}, errors.New("generated form has no sections")
	}

	if len(gen.Sections) > model.MaxSections {
		gen.Sections = gen.Sections[:model.MaxSections]
	}

	form := model.Form{
		Title:       gen.Title,
		Description: gen.Description,
		Sections:    []model.Section{},
	}
	for i, s := range gen.Sections {
		fields := s.Fields
		if len(fields) > model.MaxFieldsPerSection {
			fields = fields[:model.MaxFieldsPerSection]
		}

		section := model.Section{Title: s.Title, Order: i, Fields: []model.Field{}}
		for j, f := range fields {
			typ, err := fieldType(f.Type)
			if err != nil {
				return model.Form{}, err
			}
			section.Fields = append(section.Fields, model.Field{
				Label:    f.Label,
				Type:     typ,
				Required: f.Required,
				Order:    j,
			})
		}
		form.Sections = append(form.Sections, section)
	}
	return form, nil
}

func fieldType(s string) (model.FieldType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return model.FieldTypeText, nil
	case "number":
		return model.FieldTypeNumber, nil
	default:
		return "", errors.Errorf("unknown field type %q", s)
	}
}
