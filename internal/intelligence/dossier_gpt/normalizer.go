package dossier_gpt

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/PharmaLens/internal/intelligence/tox_net"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

// defaultConfidence is assumed when the generator omits or mangles its own
// confidence estimate.
const defaultConfidence = 0.5

// Normalize converts the raw, untrusted dossier JSON into the strict analysis
// schema.  It never fails: every malformed or absent field degrades to a safe
// default instead of propagating an untyped value.  Normalization is
// idempotent; feeding the marshalled output back in reproduces it.
func Normalize(raw map[string]interface{}) types.NormalizedAnalysis {
	if raw == nil {
		raw = map[string]interface{}{}
	}

	n := types.NormalizedAnalysis{
		ActiveCompound:     normalizeActiveCompound(asObject(raw["activeCompound"])),
		ChemicalProperties: normalizeChemicalProperties(asObject(raw["chemicalProperties"])),
		DrugLikeness:       normalizeDrugLikeness(asObject(raw["drugLikeness"])),
		Toxicity:           normalizeToxicity(asObject(raw["toxicity"])),
		MechanismOfAction:  normalizeMechanism(asObject(raw["mechanismOfAction"])),
		ClinicalInfo:       normalizeClinicalInfo(asObject(raw["clinicalInfo"])),
		RelatedCompounds:   asStringList(raw["relatedCompounds"]),
		Confidence:         clamp01(asFloatDefault(raw["confidence"], defaultConfidence)),
		Timestamp:          asTimestamp(raw["timestamp"]),
	}
	return n
}

func normalizeActiveCompound(obj map[string]interface{}) types.ActiveCompound {
	return types.ActiveCompound{
		Name:      asString(obj["name"], "Unknown"),
		IUPACName: asString(obj["iupacName"], "Unknown"),
		CASNumber: asString(obj["casNumber"], "Unknown"),
		DrugClass: asString(obj["drugClass"], "Unknown"),
		Synonyms:  asStringList(obj["synonyms"]),
	}
}

func normalizeChemicalProperties(obj map[string]interface{}) types.ChemicalProperties {
	return types.ChemicalProperties{
		MolecularFormula: asString(obj["molecularFormula"], "Unknown"),
		MolecularWeight:  asFloat(obj["molecularWeight"]),
		LogP:             asFloat(obj["logP"]),
		TPSA:             asFloat(obj["tpsa"]),
		HBondDonors:      asFloat(obj["hBondDonors"]),
		HBondAcceptors:   asFloat(obj["hBondAcceptors"]),
		RotatableBonds:   asFloat(obj["rotatableBonds"]),
		Solubility:       asString(obj["solubility"], "Unknown"),
	}
}

func normalizeDrugLikeness(obj map[string]interface{}) types.DrugLikeness {
	return types.DrugLikeness{
		LipinskiViolations: asFloat(obj["lipinskiViolations"]),
		PassesRuleOfFive:   asBool(obj["passesRuleOfFive"]),
		Bioavailability:    asString(obj["bioavailability"], "Unknown"),
		Score:              asFloat(obj["score"]),
	}
}

func normalizeToxicity(obj map[string]interface{}) types.Toxicity {
	tox := types.Toxicity{
		Hepatotoxicity:  normalizeEndpoint(asObject(obj["hepatotoxicity"])),
		Cardiotoxicity:  normalizeEndpoint(asObject(obj["cardiotoxicity"])),
		Mutagenicity:    normalizeEndpoint(asObject(obj["mutagenicity"])),
		Carcinogenicity: normalizeEndpoint(asObject(obj["carcinogenicity"])),
	}
	// The aggregate is always derived from the endpoints, never taken from
	// the generator's own overall fields.
	tox.OverallRisk, tox.OverallScore = tox_net.AggregateRisk(
		tox.Hepatotoxicity.Risk, tox.Cardiotoxicity.Risk,
		tox.Mutagenicity.Risk, tox.Carcinogenicity.Risk)
	return tox
}

func normalizeEndpoint(obj map[string]interface{}) types.ToxicityEndpoint {
	return types.ToxicityEndpoint{
		Probability: clamp01(asFloat(obj["probability"])),
		Risk:        asRisk(obj["risk"]),
	}
}

func normalizeMechanism(obj map[string]interface{}) types.MechanismOfAction {
	return types.MechanismOfAction{
		Targets:     asStringList(obj["targets"]),
		Pathways:    asStringList(obj["pathways"]),
		Description: asString(obj["description"], "Unknown"),
	}
}

func normalizeClinicalInfo(obj map[string]interface{}) types.ClinicalInfo {
	return types.ClinicalInfo{
		Indications:       asStringList(obj["indications"]),
		Contraindications: asStringList(obj["contraindications"]),
		SideEffects:       asStringList(obj["sideEffects"]),
		Interactions:      asStringList(obj["interactions"]),
		ApprovalStatus:    asString(obj["approvalStatus"], "Unknown"),
	}
}

// ---------------------------------------------------------------------------
// Coercion helpers
// ---------------------------------------------------------------------------

func asObject(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func asString(v interface{}, def string) string {
	if s, ok := v.(string); ok {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	return def
}

// asFloat coerces numbers and numeric strings into a finite float64.
// Anything else, including NaN and Inf, degrades to 0.
func asFloat(v interface{}) float64 {
	return asFloatDefault(v, 0)
}

func asFloatDefault(v interface{}, def float64) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return def
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

func asBool(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return strings.EqualFold(strings.TrimSpace(x), "true")
	default:
		return false
	}
}

func asRisk(v interface{}) types.RiskLevel {
	if s, ok := v.(string); ok {
		switch types.RiskLevel(strings.ToUpper(strings.TrimSpace(s))) {
		case types.RiskLow:
			return types.RiskLow
		case types.RiskMedium:
			return types.RiskMedium
		case types.RiskHigh:
			return types.RiskHigh
		}
	}
	return types.RiskUnknown
}

// asStringList coerces a value into a non-empty string slice.  Scalars become
// single-element lists; empty or unusable input degrades to ["Unknown"].
func asStringList(v interface{}) []string {
	switch x := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := item.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					out = append(out, trimmed)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	case []string:
		out := make([]string, 0, len(x))
		for _, s := range x {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	case string:
		if trimmed := strings.TrimSpace(x); trimmed != "" {
			return []string{trimmed}
		}
	}
	return []string{"Unknown"}
}

// asTimestamp keeps a valid RFC3339 timestamp from the source so that
// re-normalization is stable; anything else gets the current time.
func asTimestamp(v interface{}) time.Time {
	if s, ok := v.(string); ok {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Now().UTC()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
