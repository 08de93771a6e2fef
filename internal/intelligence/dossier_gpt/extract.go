package dossier_gpt

import (
	"encoding/json"
	"strings"

	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

// ExtractJSON recovers a JSON object from noisy generative output.  The
// extraction runs in three stages: strip any markdown code fences, bound the
// candidate span by the first '{' and last '}', then parse.  Generators add
// prose and fencing around the payload often enough that a direct parse of
// the whole response would fail most of the time.
func ExtractJSON(raw string) (map[string]interface{}, error) {
	text := stripCodeFences(raw)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, apperrors.New(apperrors.ErrCodeDossierParseFailed,
			"no JSON object span in generative output")
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDossierParseFailed,
			"generative output span is not valid JSON")
	}
	return obj, nil
}

// stripCodeFences removes markdown code-fence wrapping (``` or ```json) from
// the response.  Text outside the fence is dropped when a fenced block exists;
// unfenced text passes through unchanged.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)

	open := strings.Index(trimmed, "```")
	if open == -1 {
		return trimmed
	}

	// Skip the fence marker and an optional language tag on the same line.
	body := trimmed[open+3:]
	if nl := strings.Index(body, "\n"); nl != -1 {
		firstLine := strings.TrimSpace(body[:nl])
		if firstLine == "" || isLanguageTag(firstLine) {
			body = body[nl+1:]
		}
	}

	if closing := strings.LastIndex(body, "```"); closing != -1 {
		body = body[:closing]
	}
	return strings.TrimSpace(body)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) > 0
}
