package analysis

import (
	"context"
	"sync"

	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

// VocabularyMatch is the outcome of a drug-vocabulary lookup.
type VocabularyMatch struct {
	MatchedID   string
	MatchedName string
}

// VocabularyClient is the outbound contract to the drug vocabulary service.
// The concrete implementation lives in infrastructure/sources/rxnorm.
type VocabularyClient interface {
	Lookup(ctx context.Context, name string) (VocabularyMatch, error)
}

// RegulatoryLabel is the outcome of a regulatory-label lookup.
type RegulatoryLabel struct {
	Brand    string
	Warnings []string
}

// RegulatoryClient is the outbound contract to the regulatory label service.
// The concrete implementation lives in infrastructure/sources/openfda.
type RegulatoryClient interface {
	LookupLabel(ctx context.Context, name string) (RegulatoryLabel, error)
}

// Corroboration confidence by number of agreeing independent sources.
// Applies only when at least one source was reachable; when every source
// errored the validation itself has failed and confidence is zero.
var corroborationConfidence = map[int]float64{
	0: 0.20,
	1: 0.55,
	2: 0.90,
}

// Validator confirms a generated compound name against the two authoritative
// sources.  Each source failure is absorbed locally and lowers only that
// source's contribution; Validate itself never fails.
type Validator struct {
	vocab  VocabularyClient
	reg    RegulatoryClient
	logger logging.Logger
}

// NewValidator constructs a Validator.  Either client may be nil, in which
// case that source simply never corroborates.
func NewValidator(vocab VocabularyClient, reg RegulatoryClient, logger logging.Logger) *Validator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Validator{vocab: vocab, reg: reg, logger: logger.Named("validation")}
}

// Validate queries both sources concurrently and scores confidence by how
// many of them corroborate the name.  A source that answers without a match
// (including a not-found reply) is a miss; a source that cannot be reached
// is a failure.  Both sources failing zeroes the confidence, because no
// authoritative source was consulted at all.  Label warnings from the
// regulatory source are carried through as supplemental warnings.
func (v *Validator) Validate(ctx context.Context, name string) types.ValidationResult {
	var (
		wg sync.WaitGroup

		vocabMatch VocabularyMatch
		vocabErr   error
		label      RegulatoryLabel
		labelErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		if v.vocab == nil {
			return // unconfigured source: a miss, not a failure
		}
		vocabMatch, vocabErr = v.vocab.Lookup(ctx, name)
	}()
	go func() {
		defer wg.Done()
		if v.reg == nil {
			return
		}
		label, labelErr = v.reg.LookupLabel(ctx, name)
	}()
	wg.Wait()

	corroborated := 0
	var warnings []string
	var matchedName string

	if vocabErr == nil && (vocabMatch.MatchedID != "" || vocabMatch.MatchedName != "") {
		corroborated++
		matchedName = vocabMatch.MatchedName
	} else {
		warnings = append(warnings, "name not confirmed by drug vocabulary")
		if vocabErr != nil {
			v.logger.Warn("vocabulary lookup failed",
				logging.String("name", name), logging.Err(vocabErr))
		}
	}

	if labelErr == nil && label.Brand != "" {
		corroborated++
		if matchedName == "" {
			matchedName = label.Brand
		}
		warnings = append(warnings, label.Warnings...)
	} else {
		warnings = append(warnings, "no regulatory label found")
		if labelErr != nil {
			v.logger.Warn("regulatory lookup failed",
				logging.String("name", name), logging.Err(labelErr))
		}
	}

	if warnings == nil {
		warnings = []string{}
	}

	confidence := corroborationConfidence[corroborated]
	if sourceFailed(vocabErr) && sourceFailed(labelErr) {
		confidence = 0
	}

	return types.ValidationResult{
		Confidence:  confidence,
		MatchedName: matchedName,
		Warnings:    warnings,
	}
}

// sourceFailed distinguishes a transport failure from an answered lookup.
// A not-found reply means the source was reached and had no match.
func sourceFailed(err error) bool {
	return err != nil && !apperrors.IsNotFound(err)
}
