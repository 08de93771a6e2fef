// Package compound defines the data transfer objects, enumerations, and
// result structures shared across every layer of the PharmaLens pipeline.
// No domain logic lives here — only plain data types that are safe to import
// from any layer without creating circular dependencies.
//
// JSON field names on the analysis tree (activeCompound, chemicalProperties,
// toxicity, …) are part of the exposed wire contract consumed by existing UI
// callers and must not be renamed.
package compound

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Input classification
// ─────────────────────────────────────────────────────────────────────────────

// InputKind discriminates the two interpretations of a free-text query.
type InputKind string

const (
	// KindName marks input treated as a medicine or compound name.
	KindName InputKind = "name"

	// KindNotation marks input treated as a structure notation (SMILES-like).
	KindNotation InputKind = "notation"
)

// ClassifiedInput is the tagged result of input classification.  Exactly one
// interpretation applies; Value carries the trimmed token.
type ClassifiedInput struct {
	Kind  InputKind `json:"kind"`
	Value string    `json:"value"`

	// NameHint optionally names the compound when Value is a structure
	// notation.  The generative and validation stages prefer it over the
	// raw notation.
	NameHint string `json:"nameHint,omitempty"`
}

// IsNotation reports whether the input was classified as a structure notation.
func (c ClassifiedInput) IsNotation() bool { return c.Kind == KindNotation }

// ─────────────────────────────────────────────────────────────────────────────
// Structure resolution & enrichment
// ─────────────────────────────────────────────────────────────────────────────

// StructureRecord is the canonical result of resolving a compound name against
// the structure database.  Identifier is 0 when the backing source had no
// match for the compound.
type StructureRecord struct {
	Notation      string  `json:"notation"`
	CanonicalName string  `json:"canonicalName"`
	Formula       string  `json:"formula,omitempty"`
	Weight        float64 `json:"weight,omitempty"`
	Identifier    int64   `json:"identifier,omitempty"`
}

// Atom is a single atom position within a 3D conformer.
type Atom struct {
	Element string  `json:"element"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

// Bond is a single bond within a 3D conformer.  From and To are 1-based atom
// ids as delivered by the structure source.
type Bond struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Order int `json:"order"`
}

// Coordinates3D is a parsed, consistency-checked 3D conformer.
type Coordinates3D struct {
	Atoms []Atom `json:"atoms"`
	Bonds []Bond `json:"bonds"`
}

// StructureEnrichment carries the visual and geometric artifacts fetched for
// a known structure.  Every field is independently optional: a nil field means
// that sub-fetch failed or was unavailable, and a partially-populated
// enrichment is a valid, complete result.
type StructureEnrichment struct {
	Image2D       []byte         `json:"image2d,omitempty"`
	Image3D       []byte         `json:"image3d,omitempty"`
	Coordinates3D *Coordinates3D `json:"coordinates3d,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Risk levels
// ─────────────────────────────────────────────────────────────────────────────

// RiskLevel is the enumerated severity used for toxicity endpoints and
// aggregate risk.  Unknown appears only on generator-sourced fields that could
// not be coerced; the scoring engine never emits it.
type RiskLevel string

const (
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskHigh    RiskLevel = "HIGH"
	RiskUnknown RiskLevel = "UNKNOWN"
)

// IsValid reports whether r is one of the four defined levels.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskUnknown:
		return true
	}
	return false
}

// Ordinal maps LOW/MEDIUM/HIGH to 1/2/3.  Unknown has no ordinal and returns 0.
func (r RiskLevel) Ordinal() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	}
	return 0
}

// ─────────────────────────────────────────────────────────────────────────────
// Normalized analysis tree (generator-sourced, post-normalization)
// ─────────────────────────────────────────────────────────────────────────────

// ActiveCompound identifies the analysed substance.
type ActiveCompound struct {
	Name      string   `json:"name"`
	IUPACName string   `json:"iupacName"`
	CASNumber string   `json:"casNumber"`
	DrugClass string   `json:"drugClass"`
	Synonyms  []string `json:"synonyms"`
}

// ChemicalProperties is the physicochemical profile of the compound.
type ChemicalProperties struct {
	MolecularFormula string  `json:"molecularFormula"`
	MolecularWeight  float64 `json:"molecularWeight"`
	LogP             float64 `json:"logP"`
	TPSA             float64 `json:"tpsa"`
	HBondDonors      float64 `json:"hBondDonors"`
	HBondAcceptors   float64 `json:"hBondAcceptors"`
	RotatableBonds   float64 `json:"rotatableBonds"`
	Solubility       string  `json:"solubility"`
}

// DrugLikeness summarises rule-of-five style assessments.
type DrugLikeness struct {
	LipinskiViolations float64 `json:"lipinskiViolations"`
	PassesRuleOfFive   bool    `json:"passesRuleOfFive"`
	Bioavailability    string  `json:"bioavailability"`
	Score              float64 `json:"score"`
}

// ToxicityEndpoint is one independently-assessed toxicity category.
type ToxicityEndpoint struct {
	Probability float64   `json:"probability"`
	Risk        RiskLevel `json:"risk"`
}

// Toxicity holds the four endpoint assessments plus the derived aggregate.
// OverallRisk and OverallScore are always derived from the endpoints, never
// independently set.
type Toxicity struct {
	Hepatotoxicity  ToxicityEndpoint `json:"hepatotoxicity"`
	Cardiotoxicity  ToxicityEndpoint `json:"cardiotoxicity"`
	Mutagenicity    ToxicityEndpoint `json:"mutagenicity"`
	Carcinogenicity ToxicityEndpoint `json:"carcinogenicity"`
	OverallRisk     RiskLevel        `json:"overallRisk"`
	OverallScore    float64          `json:"overallScore"`
}

// Endpoints returns the four endpoint assessments in canonical order.
func (t Toxicity) Endpoints() [4]ToxicityEndpoint {
	return [4]ToxicityEndpoint{t.Hepatotoxicity, t.Cardiotoxicity, t.Mutagenicity, t.Carcinogenicity}
}

// MechanismOfAction describes how the compound acts.
type MechanismOfAction struct {
	Targets     []string `json:"targets"`
	Pathways    []string `json:"pathways"`
	Description string   `json:"description"`
}

// ClinicalInfo holds therapeutic-use information.
type ClinicalInfo struct {
	Indications       []string `json:"indications"`
	Contraindications []string `json:"contraindications"`
	SideEffects       []string `json:"sideEffects"`
	Interactions      []string `json:"interactions"`
	ApprovalStatus    string   `json:"approvalStatus"`
}

// NormalizedAnalysis is the strictly-typed compound dossier produced by the
// response normalizer.  Invariants: every numeric field is finite, every
// probability is within [0,1], every risk enum is a valid RiskLevel, and
// every list field holds at least one element.
type NormalizedAnalysis struct {
	ActiveCompound     ActiveCompound     `json:"activeCompound"`
	ChemicalProperties ChemicalProperties `json:"chemicalProperties"`
	DrugLikeness       DrugLikeness       `json:"drugLikeness"`
	Toxicity           Toxicity           `json:"toxicity"`
	MechanismOfAction  MechanismOfAction  `json:"mechanismOfAction"`
	ClinicalInfo       ClinicalInfo       `json:"clinicalInfo"`
	RelatedCompounds   []string           `json:"relatedCompounds"`
	Confidence         float64            `json:"confidence"`
	Timestamp          time.Time          `json:"timestamp"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation & scoring
// ─────────────────────────────────────────────────────────────────────────────

// ValidationResult is the independent confirmation outcome from the
// authoritative vocabulary and regulatory sources.
type ValidationResult struct {
	Confidence  float64  `json:"confidence"`
	MatchedName string   `json:"matchedName,omitempty"`
	Warnings    []string `json:"warnings"`
}

// MolecularDescriptors is the numeric descriptor vector fed to the scoring
// engine.  All values are finite.
type MolecularDescriptors struct {
	LogP            float64 `json:"logP"`
	MolecularWeight float64 `json:"molecularWeight"`
	TPSA            float64 `json:"tpsa"`
	RotatableBonds  int     `json:"rotatableBonds"`
	HBDCount        int     `json:"hbdCount"`
	HBACount        int     `json:"hbaCount"`
}

// BioactivityEstimate is the heuristic potency estimate for a compound.
// PIC50 is clamped to [4,9]; Confidence to [0.6,0.95].
type BioactivityEstimate struct {
	PIC50      float64 `json:"pic50"`
	Confidence float64 `json:"confidence"`
}

// SafetyAssessment is the descriptor-derived safety profile computed by the
// scoring engine.  Shape mirrors Toxicity; the two are kept distinct because
// Toxicity is generator-sourced while SafetyAssessment is computed locally.
type SafetyAssessment struct {
	Hepatotoxicity  ToxicityEndpoint `json:"hepatotoxicity"`
	Cardiotoxicity  ToxicityEndpoint `json:"cardiotoxicity"`
	Mutagenicity    ToxicityEndpoint `json:"mutagenicity"`
	Carcinogenicity ToxicityEndpoint `json:"carcinogenicity"`
	OverallRisk     RiskLevel        `json:"overallRisk"`
	OverallScore    float64          `json:"overallScore"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Aggregate result
// ─────────────────────────────────────────────────────────────────────────────

// AnalysisResult is the aggregate returned to the caller: the normalized
// dossier with its confidence replaced by the blended value, plus the
// validation outcome and the optional structure-dependent sections.
// A result is created fresh per request and owned exclusively by the
// pipeline until returned.
type AnalysisResult struct {
	NormalizedAnalysis

	Validation  ValidationResult     `json:"validation"`
	Structure   *StructureRecord     `json:"structure,omitempty"`
	Enrichment  *StructureEnrichment `json:"enrichment,omitempty"`
	Descriptors *MolecularDescriptors `json:"descriptors,omitempty"`
	Bioactivity *BioactivityEstimate `json:"bioactivity,omitempty"`
	Safety      *SafetyAssessment    `json:"safety,omitempty"`

	// Warnings aggregates every degradation note collected along the
	// pipeline (missing structure, failed sub-fetches, validation issues).
	Warnings []string `json:"warnings"`

	RequestID string `json:"requestId"`
}
