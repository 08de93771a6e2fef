package dossier_gpt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

func TestExtractJSON_PlainObject(t *testing.T) {
	obj, err := ExtractJSON(`{"confidence": 0.8}`)
	require.NoError(t, err)
	assert.Equal(t, 0.8, obj["confidence"])
}

func TestExtractJSON_MarkdownFence(t *testing.T) {
	raw := "```json\n{\"confidence\": 0.8}\n```"
	obj, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, 0.8, obj["confidence"])
}

func TestExtractJSON_FenceWithoutLanguageTag(t *testing.T) {
	raw := "```\n{\"a\": 1}\n```"
	obj, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, float64(1), obj["a"])
}

func TestExtractJSON_SurroundingProse(t *testing.T) {
	raw := `Sure! Here is the analysis you requested:

{"activeCompound": {"name": "Aspirin"}}

Let me know if you need anything else.`
	obj, err := ExtractJSON(raw)
	require.NoError(t, err)
	ac, ok := obj["activeCompound"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Aspirin", ac["name"])
}

func TestExtractJSON_ProseAndFence(t *testing.T) {
	raw := "Here you go:\n```json\n{\"confidence\": 0.9}\n```\nHope that helps!"
	obj, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, 0.9, obj["confidence"])
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	raw := `{"outer": {"inner": {"deep": true}}}`
	obj, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Contains(t, obj, "outer")
}

func TestExtractJSON_NoBraceSpan(t *testing.T) {
	_, err := ExtractJSON("I cannot analyze this compound.")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDossierParseFailed))
}

func TestExtractJSON_EmptyInput(t *testing.T) {
	_, err := ExtractJSON("")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDossierParseFailed))
}

func TestExtractJSON_InvalidJSONSpan(t *testing.T) {
	_, err := ExtractJSON(`{"broken": `)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDossierParseFailed))
}

func TestExtractJSON_ReversedBraces(t *testing.T) {
	_, err := ExtractJSON("} nothing here {")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDossierParseFailed))
}

func TestStripCodeFences_PassThrough(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences(` {"a":1} `))
}
