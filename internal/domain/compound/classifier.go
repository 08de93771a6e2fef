// Package compound holds the pure domain logic of the analysis pipeline:
// input classification and molecular descriptor computation.  Nothing in this
// package performs I/O.
package compound

import (
	"strings"
	"unicode"

	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

// ---------------------------------------------------------------------------
// Known data sets
// ---------------------------------------------------------------------------

// commonCompoundWords are short or ambiguous tokens that are always treated
// as names even though they would survive the notation heuristics below.
// "water" is the canonical trap: five pure-element letters starting with W.
var commonCompoundWords = map[string]bool{
	"water": true, "salt": true, "sugar": true, "acid": true, "base": true,
	"iron": true, "gold": true, "lead": true, "zinc": true, "copper": true,
	"aspirin": true, "ibuprofen": true, "paracetamol": true, "caffeine": true,
	"insulin": true, "morphine": true, "codeine": true, "heparin": true,
	"glucose": true, "sucrose": true, "ethanol": true, "methanol": true,
	"benzene": true, "toluene": true, "acetone": true, "ammonia": true,
}

// elementSymbols is the set of element symbols recognised when scanning a
// token for element-like letter runs.  Two-letter symbols are matched before
// single letters.
var elementSymbols = map[string]bool{
	"H": true, "He": true, "Li": true, "Be": true, "B": true, "C": true,
	"N": true, "O": true, "F": true, "Ne": true, "Na": true, "Mg": true,
	"Al": true, "Si": true, "P": true, "S": true, "Cl": true, "Ar": true,
	"K": true, "Ca": true, "Fe": true, "Co": true, "Ni": true, "Cu": true,
	"Zn": true, "Ga": true, "Ge": true, "As": true, "Se": true, "Br": true,
	"Ag": true, "Cd": true, "Sn": true, "Sb": true, "Te": true, "I": true,
	"Ba": true, "Pt": true, "Au": true, "Hg": true, "Pb": true, "Bi": true,
}

// structuralPunctuation are characters that appear in structure notations but
// essentially never in medicine names.
const structuralPunctuation = "[]()=#@"

// ---------------------------------------------------------------------------
// Classification
// ---------------------------------------------------------------------------

// Classify decides whether a free-text query is a structure notation or a
// compound name.  It is deterministic and total: every input, including the
// empty string, classifies to exactly one interpretation.
//
// The rules run in a fixed order.  Structural punctuation is the strongest
// unambiguous notation signal and must short-circuit before the weaker
// digit/element heuristics, which would otherwise misclassify names that
// happen to contain digits.
func Classify(input string) types.ClassifiedInput {
	token := strings.TrimSpace(input)

	// Whitespace inside the token rules out a notation.
	if strings.ContainsFunc(token, unicode.IsSpace) {
		return types.ClassifiedInput{Kind: types.KindName, Value: token}
	}

	// Fixed dictionary guard for short ambiguous tokens.
	if commonCompoundWords[strings.ToLower(token)] {
		return types.ClassifiedInput{Kind: types.KindName, Value: token}
	}

	hasPunct := strings.ContainsAny(token, structuralPunctuation)

	// Long pure-alphabetic tokens without structural punctuation read as names.
	if !hasPunct && len(token) > 3 && isPureAlphabetic(token) {
		return types.ClassifiedInput{Kind: types.KindName, Value: token}
	}

	if hasPunct {
		return types.ClassifiedInput{Kind: types.KindNotation, Value: token}
	}

	if containsDigit(token) && hasElementRun(token) {
		return types.ClassifiedInput{Kind: types.KindNotation, Value: token}
	}

	if len(token) > 0 && len(token) <= 5 && startsWithElement(token) && isElementLike(token) {
		return types.ClassifiedInput{Kind: types.KindNotation, Value: token}
	}

	return types.ClassifiedInput{Kind: types.KindName, Value: token}
}

func isPureAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}

func containsDigit(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

// hasElementRun reports whether the token contains at least one letter run
// that scans completely as a sequence of recognised element symbols.
func hasElementRun(s string) bool {
	run := strings.Builder{}
	for _, r := range s {
		if unicode.IsLetter(r) {
			run.WriteRune(r)
			continue
		}
		if run.Len() > 0 && scansAsElements(run.String()) {
			return true
		}
		run.Reset()
	}
	return run.Len() > 0 && scansAsElements(run.String())
}

// scansAsElements greedily matches two-letter element symbols before single
// letters, the same way a formula or SMILES parser tokenises atoms.
func scansAsElements(run string) bool {
	for i := 0; i < len(run); {
		if i+2 <= len(run) && elementSymbols[run[i:i+2]] {
			i += 2
			continue
		}
		if elementSymbols[strings.ToUpper(run[i:i+1])] {
			i++
			continue
		}
		return false
	}
	return len(run) > 0
}

func startsWithElement(s string) bool {
	if len(s) >= 2 && elementSymbols[s[0:2]] {
		return true
	}
	return elementSymbols[strings.ToUpper(s[0:1])]
}

// isElementLike reports whether the token consists only of letters that scan
// as element symbols plus optional digits.
func isElementLike(s string) bool {
	letters := strings.Builder{}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters.WriteRune(r)
		case unicode.IsDigit(r):
			if letters.Len() > 0 && !scansAsElements(letters.String()) {
				return false
			}
			letters.Reset()
		default:
			return false
		}
	}
	if letters.Len() > 0 {
		return scansAsElements(letters.String())
	}
	return true
}
