package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeForm(t *testing.T) {
	form, err := shapeForm(`{
		"title": "Contact",
		"description": "Get in touch",
		"sections": [
			{"title": "Info", "fields": [
				{"label": "Name", "type": "text", "required": true},
				{"label": "Age", "type": "number", "required": false}
			]}
		]
	}`)
	require.NoError(t, err)

	assert.Equal(t, "Contact", form.Title)
	assert.Equal(t, "Get in touch", form.Description)
	require.Len(t, form.Sections, 1)
	assert.Equal(t, 0, form.Sections[0].Order)
	require.Len(t, form.Sections[0].Fields, 2)
	assert.Equal(t, model.FieldTypeText, form.Sections[0].Fields[0].Type)
	assert.True(t, form.Sections[0].Fields[0].Required)
	assert.Equal(t, model.FieldTypeNumber, form.Sections[0].Fields[1].Type)
	assert.Equal(t, 1, form.Sections[0].Fields[1].Order)
}

func TestShapeFormTruncatesToCaps(t *testing.T) {
	section := map[string]any{
		"title": "S",
		"fields": []map[string]any{
			{"label": "a", "type": "text"},
			{"label": "b", "type": "text"},
			{"label": "c", "type": "number"},
			{"label": "d", "type": "text"},
			{"label": "e", "type": "number"},
		},
	}
	content, err := json.Marshal(map[string]any{
		"title":    "Big",
		"sections": []any{section, section, section, section},
	})
	require.NoError(t, err)

	form, err := shapeForm(string(content))
	require.NoError(t, err)

	assert.Len(t, form.Sections, model.MaxSections)
	for _, s := range form.Sections {
		assert.Len(t, s.Fields, model.MaxFieldsPerSection)
	}
}

func TestShapeFormUppercaseTypes(t *testing.T) {
	form, err := shapeForm(`{"title":"T","sections":[{"title":"S","fields":[{"label":"n","type":"Number"}]}]}`)
	require.NoError(t, err)
	assert.Equal(t, model.FieldTypeNumber, form.Sections[0].Fields[0].Type)
}

func TestShapeFormInvalidJSON(t *testing.T) {
	_, err := shapeForm("Sure! Here is your form: {...")
	assert.Error(t, err)
}

func TestShapeFormMissingSections(t *testing.T) {
	_, err := shapeForm(`{"title":"No sections here"}`)
	assert.Error(t, err)
}

func TestShapeFormUnknownType(t *testing.T) {
	_, err := shapeForm(`{"title":"T","sections":[{"title":"S","fields":[{"label":"d","type":"date"}]}]}`)
	assert.Error(t, err)
}

func completionsStub(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.Config{
		AIUrl:   srv.URL,
		AIKey:   "test-key",
		AIModel: "test-model",
	})
}

func TestGenerateForm(t *testing.T) {
	client := completionsStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "a contact form", req.Messages[1].Content)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]any{
					"role":    "assistant",
					"content": `{"title":"Contact","description":"","sections":[{"title":"Info","fields":[{"label":"Name","type":"text","required":true}]}]}`,
				},
			}},
		})
	})

	form, err := client.GenerateForm(context.Background(), "a contact form")
	require.NoError(t, err)
	assert.Equal(t, "Contact", form.Title)
	require.Len(t, form.Sections, 1)
	require.Len(t, form.Sections[0].Fields, 1)
}

func TestGenerateFormAPIError(t *testing.T) {
	client := completionsStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := client.GenerateForm(context.Background(), "anything")
	assert.ErrorContains(t, err, "status 429")
}

func TestGenerateFormNoChoices(t *testing.T) {
	client := completionsStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.GenerateForm(context.Background(), "anything")
	assert.ErrorContains(t, err, "no content")
}

func TestGenerateFormUnparseableContent(t *testing.T) {
	client := completionsStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]any{"role": "assistant", "content": "I cannot do that."},
			}},
		})
	})

	_, err := client.GenerateForm(context.Background(), "anything")
	assert.Error(t, err)
}
