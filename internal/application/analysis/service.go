// Package analysis orchestrates a single compound analysis: input
// classification, the concurrent structure and generative branches,
// normalization, independent validation, descriptor scoring, and the final
// merge into one confidence-scored result.
//
// Failure policy: only two things abort a request, a failed dossier
// generation and a configuration fault.  Every other degradation (unknown
// structure, failed enrichment artifact, unreachable validation source,
// unscorable descriptors) downgrades the result and leaves a warning.
package analysis

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/PharmaLens/internal/config"
	domain "github.com/turtacn/PharmaLens/internal/domain/compound"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	appmetrics "github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PharmaLens/internal/intelligence/chem_resolver"
	"github.com/turtacn/PharmaLens/internal/intelligence/dossier_gpt"
	"github.com/turtacn/PharmaLens/internal/intelligence/tox_net"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

// HistoryRepository persists completed analyses.  Optional; a nil repository
// disables persistence.
type HistoryRepository interface {
	SaveAnalysis(ctx context.Context, result *types.AnalysisResult) error
}

// EventPublisher announces completed analyses to downstream consumers.
// Optional; a nil publisher disables publishing.
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, result *types.AnalysisResult) error
}

// ArtifactStore archives binary enrichment artifacts.  Optional; a nil store
// disables archiving.
type ArtifactStore interface {
	StoreImage(ctx context.Context, requestID, kind string, data []byte) (string, error)
}

// Service is the analysis entry point used by the HTTP and CLI interfaces.
type Service interface {
	// Analyze classifies the input and dispatches to the name or notation flow.
	Analyze(ctx context.Context, input string) (*types.AnalysisResult, error)

	// AnalyzeByName runs the name flow regardless of how the input would
	// classify.
	AnalyzeByName(ctx context.Context, name string) (*types.AnalysisResult, error)

	// AnalyzeByStructure runs the notation flow regardless of how the input
	// would classify.  nameHint optionally names the compound; the dossier
	// and validation stages prefer it over the raw notation.
	AnalyzeByStructure(ctx context.Context, notation, nameHint string) (*types.AnalysisResult, error)
}

// service wires the pipeline stages together.
type service struct {
	resolver  *chem_resolver.Resolver
	analyzer  *dossier_gpt.Analyzer
	validator *Validator
	engine    *tox_net.Engine

	pipeline config.PipelineConfig

	history   HistoryRepository
	publisher EventPublisher
	artifacts ArtifactStore

	metrics *appmetrics.AppMetrics
	logger  logging.Logger
}

// Options carries the optional collaborators for NewService.  Zero value
// disables them all.
type Options struct {
	History   HistoryRepository
	Publisher EventPublisher
	Artifacts ArtifactStore
	Metrics   *appmetrics.AppMetrics
}

// NewService constructs the analysis service.  resolver, analyzer, validator,
// and engine are required; opts collaborators are optional.
func NewService(
	resolver *chem_resolver.Resolver,
	analyzer *dossier_gpt.Analyzer,
	validator *Validator,
	engine *tox_net.Engine,
	pipeline config.PipelineConfig,
	logger logging.Logger,
	opts Options,
) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &service{
		resolver:  resolver,
		analyzer:  analyzer,
		validator: validator,
		engine:    engine,
		pipeline:  pipeline,
		history:   opts.History,
		publisher: opts.Publisher,
		artifacts: opts.Artifacts,
		metrics:   opts.Metrics,
		logger:    logger.Named("analysis"),
	}
}

func (s *service) Analyze(ctx context.Context, input string) (*types.AnalysisResult, error) {
	classified, err := s.classify(input)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, classified)
}

func (s *service) AnalyzeByName(ctx context.Context, name string) (*types.AnalysisResult, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, apperrors.New(apperrors.ErrCodeInputEmpty, "compound name is empty")
	}
	return s.run(ctx, types.ClassifiedInput{Kind: types.KindName, Value: trimmed})
}

func (s *service) AnalyzeByStructure(ctx context.Context, notation, nameHint string) (*types.AnalysisResult, error) {
	trimmed := strings.TrimSpace(notation)
	if trimmed == "" {
		return nil, apperrors.New(apperrors.ErrCodeInputEmpty, "structure notation is empty")
	}
	return s.run(ctx, types.ClassifiedInput{
		Kind:     types.KindNotation,
		Value:    trimmed,
		NameHint: strings.TrimSpace(nameHint),
	})
}

func (s *service) classify(input string) (types.ClassifiedInput, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return types.ClassifiedInput{}, apperrors.New(apperrors.ErrCodeInputEmpty, "input is empty")
	}
	return domain.Classify(trimmed), nil
}

// structureOutcome is the settled state of the structure branch.
type structureOutcome struct {
	record      *types.StructureRecord
	enrichment  *types.StructureEnrichment
	descriptors *types.MolecularDescriptors
	warnings    []string
}

// run executes the full pipeline for an already-classified input.
func (s *service) run(ctx context.Context, in types.ClassifiedInput) (*types.AnalysisResult, error) {
	started := time.Now()
	requestID := uuid.NewString()
	log := s.logger.With(
		logging.String("request_id", requestID),
		logging.String("input_kind", string(in.Kind)),
	)
	log.Info("analysis started", logging.String("input", in.Value))

	// The structure branch and the generative branch are independent until
	// the merge, so they run concurrently.  Only the generative branch can
	// abort the request.
	var (
		wg sync.WaitGroup

		structure structureOutcome
		rawDoss   map[string]interface{}
		dossErr   error
	)

	dossierName := in.Value
	if in.NameHint != "" {
		dossierName = in.NameHint
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		structure = s.runStructureBranch(ctx, in, log)
	}()
	go func() {
		defer wg.Done()
		rawDoss, dossErr = s.analyzer.GenerateDossier(ctx, dossierName)
	}()
	wg.Wait()

	if dossErr != nil {
		log.Error("dossier generation failed", logging.Err(dossErr))
		if s.metrics != nil {
			appmetrics.RecordAnalysis(s.metrics, string(in.Kind), false, 0, time.Since(started))
			appmetrics.RecordError(s.metrics, "analysis", apperrors.GetCode(dossErr).String())
		}
		return nil, dossErr
	}

	normalized := dossier_gpt.Normalize(rawDoss)

	// Validate against the name the generator settled on; fall back to the
	// caller's hint, then the raw input, when the generator could not name
	// the compound.
	validateName := normalized.ActiveCompound.Name
	if validateName == "" || validateName == "Unknown" {
		validateName = dossierName
	}
	vctx := ctx
	if s.pipeline.ValidateTimeout > 0 {
		var cancel context.CancelFunc
		vctx, cancel = context.WithTimeout(ctx, s.pipeline.ValidateTimeout)
		defer cancel()
	}
	validation := s.validator.Validate(vctx, validateName)

	result := &types.AnalysisResult{
		NormalizedAnalysis: normalized,
		Validation:         validation,
		Structure:          structure.record,
		Enrichment:         structure.enrichment,
		Descriptors:        structure.descriptors,
		RequestID:          requestID,
	}
	result.Warnings = append(result.Warnings, structure.warnings...)
	result.Warnings = append(result.Warnings, validation.Warnings...)

	// Descriptor scoring only applies when the structure branch produced a
	// descriptor vector; its failure downgrades, never aborts.
	if structure.descriptors != nil {
		bio, safety, err := s.engine.Score(*structure.descriptors)
		if err != nil {
			log.Warn("descriptor scoring failed", logging.Err(err))
			result.Warnings = append(result.Warnings, "bioactivity and safety scoring unavailable")
		} else {
			result.Bioactivity = &bio
			result.Safety = &safety
		}
	}

	result.Confidence = BlendConfidence(normalized.Confidence, validation.Confidence)
	if result.Warnings == nil {
		result.Warnings = []string{}
	}

	s.dispatchSideEffects(ctx, result, log)

	if s.metrics != nil {
		appmetrics.RecordAnalysis(s.metrics, string(in.Kind), true, result.Confidence, time.Since(started))
	}
	log.Info("analysis completed",
		logging.Float64("confidence", result.Confidence),
		logging.Int("warnings", len(result.Warnings)),
		logging.Duration("elapsed", time.Since(started)))
	return result, nil
}

// runStructureBranch resolves, enriches, and derives descriptors.  Nothing in
// this branch is fatal: a compound without a known structure simply yields an
// outcome with warnings and nil sections.
func (s *service) runStructureBranch(ctx context.Context, in types.ClassifiedInput, log logging.Logger) structureOutcome {
	var out structureOutcome

	notation := in.Value
	if !in.IsNotation() {
		rec, err := s.resolver.ResolveByName(ctx, in.Value)
		if err != nil {
			if apperrors.IsNotFound(err) {
				out.warnings = append(out.warnings, "compound not found in structure database")
			} else {
				log.Warn("structure resolution failed", logging.Err(err))
				out.warnings = append(out.warnings, "structure database unavailable")
			}
			return out
		}
		out.record = &rec
		notation = rec.Notation
	}

	ectx := ctx
	if s.pipeline.EnrichTimeout > 0 {
		var cancel context.CancelFunc
		ectx, cancel = context.WithTimeout(ctx, s.pipeline.EnrichTimeout)
		defer cancel()
	}
	enrichment, warnings := s.resolver.Enrich(ectx, notation)
	out.warnings = append(out.warnings, warnings...)
	if enrichment.Image2D != nil || enrichment.Image3D != nil || enrichment.Coordinates3D != nil {
		out.enrichment = &enrichment
	}

	out.descriptors = s.deriveDescriptors(out.record, enrichment.Coordinates3D, log)
	if out.descriptors == nil {
		out.warnings = append(out.warnings, "molecular descriptors unavailable")
	}
	return out
}

// deriveDescriptors prefers the resolved record's formula, then falls back to
// the conformer's element list for notation-only inputs.
func (s *service) deriveDescriptors(record *types.StructureRecord, coords *types.Coordinates3D, log logging.Logger) *types.MolecularDescriptors {
	if record != nil && record.Formula != "" {
		d, err := domain.DescriptorsFromFormula(record.Formula, record.Weight)
		if err != nil {
			log.Warn("descriptor derivation from formula failed", logging.Err(err))
			return nil
		}
		return &d
	}

	if coords != nil && len(coords.Atoms) > 0 {
		elements := make([]string, len(coords.Atoms))
		for i, a := range coords.Atoms {
			elements[i] = a.Element
		}
		d, err := domain.DescriptorsFromCounts(domain.CountsFromElements(elements), 0)
		if err != nil {
			log.Warn("descriptor derivation from conformer failed", logging.Err(err))
			return nil
		}
		return &d
	}
	return nil
}

// dispatchSideEffects runs the optional persistence, archival, and publishing
// hooks.  All of them are best-effort.
func (s *service) dispatchSideEffects(ctx context.Context, result *types.AnalysisResult, log logging.Logger) {
	if s.artifacts != nil && result.Enrichment != nil {
		if result.Enrichment.Image2D != nil {
			if _, err := s.artifacts.StoreImage(ctx, result.RequestID, "2d", result.Enrichment.Image2D); err != nil {
				log.Warn("2d image archive failed", logging.Err(err))
			}
		}
		if result.Enrichment.Image3D != nil {
			if _, err := s.artifacts.StoreImage(ctx, result.RequestID, "3d", result.Enrichment.Image3D); err != nil {
				log.Warn("3d image archive failed", logging.Err(err))
			}
		}
	}

	if s.history != nil {
		if err := s.history.SaveAnalysis(ctx, result); err != nil {
			log.Warn("history persistence failed", logging.Err(err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAnalysisCompleted(ctx, result); err != nil {
			log.Warn("event publish failed", logging.Err(err))
		}
	}
}

// BlendConfidence merges the generator's self-reported confidence with the
// validation confidence by simple average, clamped into [0, 1].
func BlendConfidence(generated, validated float64) float64 {
	blended := (generated + validated) / 2
	if blended < 0 {
		return 0
	}
	if blended > 1 {
		return 1
	}
	return blended
}
