// Package tox_net computes heuristic bioactivity and safety assessments from
// molecular descriptors.  The "model" is a fixed set of descriptor-weighted
// linear scores with bounded jitter; it is deliberately not a trained model
// and must not be mistaken for one.
package tox_net

import (
	"math"
	"math/rand"
	"sync"
	"time"

	domain "github.com/turtacn/PharmaLens/internal/domain/compound"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

// Scoring model constants.  Bounds and cut points are part of the exposed
// behaviour; changing them changes every reported assessment.
const (
	pic50Center = 6.0
	pic50Min    = 4.0
	pic50Max    = 9.0

	bioNoiseBound    = 0.4
	safetyNoiseBound = 0.05

	confidenceMax   = 0.95
	confidenceMin   = 0.60
	confidenceSlope = 0.1167

	// Endpoint probability cut points: below low is LOW, below high is
	// MEDIUM, everything else HIGH.
	riskCutLow  = 0.33
	riskCutHigh = 0.66
)

// Engine derives bioactivity estimates and safety assessments.  The random
// source is injected at construction so assessments are reproducible under a
// fixed seed; the mutex makes the engine safe for concurrent requests since
// rand.Rand itself is not.
type Engine struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger logging.Logger
}

// NewEngine constructs an Engine.  A zero seed selects a clock-based seed,
// which is appropriate for production; tests pass a fixed seed.
func NewEngine(seed int64, logger logging.Logger) *Engine {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger.Named("tox_net"),
	}
}

// noise returns a uniform sample from [-bound, bound].
func (e *Engine) noise(bound float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return (e.rng.Float64()*2 - 1) * bound
}

// Bioactivity estimates potency as a pIC50 value in [4, 9].  The estimate is
// a linear combination of descriptors centred on a typical drug profile
// (logP 2.5, weight 350, TPSA 80, five rotatable bonds) plus bounded jitter.
// Confidence shrinks linearly as the estimate departs from the 6.0 centre.
func (e *Engine) Bioactivity(d types.MolecularDescriptors) (types.BioactivityEstimate, error) {
	if err := domain.ValidateDescriptors(d); err != nil {
		return types.BioactivityEstimate{}, err
	}

	raw := pic50Center +
		0.35*(d.LogP-2.5) -
		0.0035*(d.MolecularWeight-350) -
		0.008*(d.TPSA-80) -
		0.05*(float64(d.RotatableBonds)-5) +
		e.noise(bioNoiseBound)

	pic50 := clamp(raw, pic50Min, pic50Max)
	confidence := clamp(confidenceMax-math.Abs(pic50-pic50Center)*confidenceSlope,
		confidenceMin, confidenceMax)

	e.logger.Debug("bioactivity estimated",
		logging.Float64("pic50", pic50),
		logging.Float64("confidence", confidence))

	return types.BioactivityEstimate{PIC50: pic50, Confidence: confidence}, nil
}

// Safety computes the four-endpoint safety assessment.  Each endpoint has its
// own descriptor weighting and independent jitter; the aggregate is derived
// from the endpoint risks by AggregateRisk, never set directly.
func (e *Engine) Safety(d types.MolecularDescriptors) (types.SafetyAssessment, error) {
	if err := domain.ValidateDescriptors(d); err != nil {
		return types.SafetyAssessment{}, err
	}

	hep := e.endpoint(0.30 + 0.060*(d.LogP-2.0) + 0.0006*(d.MolecularWeight-300))
	card := e.endpoint(0.25 + 0.050*(d.LogP-2.5) + 0.020*(float64(d.RotatableBonds)-4))
	mut := e.endpoint(0.20 + 0.004*(d.TPSA-70) + 0.010*(float64(d.HBACount)-4))
	carc := e.endpoint(0.22 + 0.0005*(d.MolecularWeight-300) + 0.030*(d.LogP-2.0))

	overallRisk, overallScore := AggregateRisk(hep.Risk, card.Risk, mut.Risk, carc.Risk)

	return types.SafetyAssessment{
		Hepatotoxicity:  hep,
		Cardiotoxicity:  card,
		Mutagenicity:    mut,
		Carcinogenicity: carc,
		OverallRisk:     overallRisk,
		OverallScore:    overallScore,
	}, nil
}

// endpoint jitters a raw risk score, clamps it into a probability, and
// thresholds it into a risk level.
func (e *Engine) endpoint(raw float64) types.ToxicityEndpoint {
	p := clamp(raw+e.noise(safetyNoiseBound), 0, 1)
	return types.ToxicityEndpoint{Probability: p, Risk: thresholdRisk(p)}
}

func thresholdRisk(p float64) types.RiskLevel {
	switch {
	case p < riskCutLow:
		return types.RiskLow
	case p < riskCutHigh:
		return types.RiskMedium
	default:
		return types.RiskHigh
	}
}

// AggregateRisk maps four endpoint risks to the overall risk class and score.
// The ordinals LOW=1 MEDIUM=2 HIGH=3 are averaged; the mean, not the max,
// decides the class so that one severe endpoint cannot dominate the aggregate
// without corroboration.  overallScore = clamp((4-mean)*2.5, 0, 10), so an
// all-LOW profile scores 7.5 and an all-HIGH profile scores 2.5.
func AggregateRisk(risks ...types.RiskLevel) (types.RiskLevel, float64) {
	if len(risks) == 0 {
		return types.RiskUnknown, 0
	}
	sum := 0
	for _, r := range risks {
		o := r.Ordinal()
		if o == 0 {
			// Unknown endpoints cannot occur from this engine; treat a stray
			// one as MEDIUM to keep the function total.
			o = 2
		}
		sum += o
	}
	mean := float64(sum) / float64(len(risks))

	var overall types.RiskLevel
	switch {
	case mean > 2.5:
		overall = types.RiskHigh
	case mean > 1.5:
		overall = types.RiskMedium
	default:
		overall = types.RiskLow
	}
	return overall, clamp((4-mean)*2.5, 0, 10)
}

// Score runs both assessments and packages errors under the scoring code.
func (e *Engine) Score(d types.MolecularDescriptors) (types.BioactivityEstimate, types.SafetyAssessment, error) {
	bio, err := e.Bioactivity(d)
	if err != nil {
		return types.BioactivityEstimate{}, types.SafetyAssessment{},
			apperrors.Wrap(err, apperrors.ErrCodeScoringFailed, "bioactivity estimation failed")
	}
	safety, err := e.Safety(d)
	if err != nil {
		return types.BioactivityEstimate{}, types.SafetyAssessment{},
			apperrors.Wrap(err, apperrors.ErrCodeScoringFailed, "safety assessment failed")
	}
	return bio, safety, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
