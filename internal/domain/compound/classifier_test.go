package compound

import (
	"testing"

	"github.com/stretchr/testify/assert"

	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.InputKind
	}{
		{"plain medicine name", "Aspirin", types.KindName},
		{"lowercase name", "ibuprofen", types.KindName},
		{"name with whitespace", "vitamin C", types.KindName},
		{"leading and trailing spaces", "  Metformin  ", types.KindName},
		{"dictionary word water", "water", types.KindName},
		{"dictionary word salt", "Salt", types.KindName},
		{"long alphabetic token", "acetaminophen", types.KindName},
		{"empty input", "", types.KindName},
		{"whitespace only", "   ", types.KindName},

		{"aspirin smiles", "CC(=O)OC1=CC=CC=C1C(=O)O", types.KindNotation},
		{"bracket atom", "[Na+]", types.KindNotation},
		{"double bond", "C=C", types.KindNotation},
		{"triple bond", "C#N", types.KindNotation},
		{"stereo marker", "C@H", types.KindNotation},
		{"molecular formula", "C9H8O4", types.KindNotation},
		{"short element token", "CCO", types.KindNotation},
		{"single carbon", "C", types.KindNotation},

		// Pure-alphabetic tokens longer than three characters read as names
		// even when every letter is an element symbol.
		{"alphabetic formula-like token", "NaCl", types.KindName},
		{"digits without element run", "drug42x", types.KindName},
		{"abbreviation", "DNA", types.KindName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.input)
			assert.Equal(t, tt.want, got.Kind, "input %q", tt.input)
		})
	}
}

func TestClassify_TrimsValue(t *testing.T) {
	got := Classify("  Aspirin  ")
	assert.Equal(t, "Aspirin", got.Value)
}

// Structural punctuation must win over the long-alphabetic heuristic: a long
// token with a single bracket is a notation, never a name.
func TestClassify_PunctuationShortCircuits(t *testing.T) {
	got := Classify("CCCCCCCCCC(C)C")
	assert.Equal(t, types.KindNotation, got.Kind)
	assert.True(t, got.IsNotation())
}

func TestClassify_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, Classify("CC(=O)O"), Classify("CC(=O)O"))
	}
}
