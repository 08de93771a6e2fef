// Package dossier_gpt produces the generative compound dossier: it issues a
// single constrained chat-completion request, digs the JSON payload out of
// the (frequently noisy) response text, and normalizes that untrusted JSON
// into the strict analysis schema.
//
// The raw map returned by GenerateDossier is the untrusted phase; nothing
// outside this package may consume it except through Normalize.
package dossier_gpt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

// GenerativeClient is the single-shot text generation contract.  The concrete
// implementation lives in infrastructure/sources/openai; tests substitute a
// canned double.
type GenerativeClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Analyzer wraps a GenerativeClient with prompt construction and response
// parsing.  It is stateless after construction and safe for concurrent use.
type Analyzer struct {
	client GenerativeClient
	logger logging.Logger
}

// NewAnalyzer constructs an Analyzer.  A nil client yields an analyzer whose
// GenerateDossier always fails with ErrCodeGenerativeNotConfigured; this keeps
// wiring errors loud without panicking at startup.
func NewAnalyzer(client GenerativeClient, logger logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Analyzer{client: client, logger: logger.Named("dossier_gpt")}
}

// BuildPrompt renders the dossier request for a compound name.  The prompt
// demands raw JSON with an explicit schema; the generator still wraps it in
// prose or markdown often enough that ExtractJSON has to cope regardless.
func BuildPrompt(name string) string {
	var sb strings.Builder
	sb.WriteString("You are a pharmaceutical analysis engine. ")
	sb.WriteString("Analyze the compound \"")
	sb.WriteString(name)
	sb.WriteString("\" and respond with ONLY a JSON object, no prose, no markdown, matching exactly this schema:\n")
	sb.WriteString(`{
  "activeCompound": {"name": "", "iupacName": "", "casNumber": "", "drugClass": "", "synonyms": [""]},
  "chemicalProperties": {"molecularFormula": "", "molecularWeight": 0, "logP": 0, "tpsa": 0, "hBondDonors": 0, "hBondAcceptors": 0, "rotatableBonds": 0, "solubility": ""},
  "drugLikeness": {"lipinskiViolations": 0, "passesRuleOfFive": true, "bioavailability": "", "score": 0},
  "toxicity": {
    "hepatotoxicity": {"probability": 0, "risk": "LOW"},
    "cardiotoxicity": {"probability": 0, "risk": "LOW"},
    "mutagenicity": {"probability": 0, "risk": "LOW"},
    "carcinogenicity": {"probability": 0, "risk": "LOW"}
  },
  "mechanismOfAction": {"targets": [""], "pathways": [""], "description": ""},
  "clinicalInfo": {"indications": [""], "contraindications": [""], "sideEffects": [""], "interactions": [""], "approvalStatus": ""},
  "relatedCompounds": [""],
  "confidence": 0
}`)
	sb.WriteString("\nRisk values must be LOW, MEDIUM or HIGH. Confidence must be between 0 and 1.")
	return sb.String()
}

// GenerateDossier runs one generation round trip and returns the extracted,
// still-untrusted JSON object.  Upstream failures and timeouts are fatal to
// the calling request; an unparseable response is equally fatal because the
// dossier is the pipeline's primary data source.
func (a *Analyzer) GenerateDossier(ctx context.Context, name string) (map[string]interface{}, error) {
	if a.client == nil {
		return nil, apperrors.New(apperrors.ErrCodeGenerativeNotConfigured,
			"generative client is not configured")
	}

	raw, err := a.client.Generate(ctx, BuildPrompt(name))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeGenerativeTimeout,
				fmt.Sprintf("dossier generation for %q timed out", name))
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeGenerativeUpstream,
			fmt.Sprintf("dossier generation for %q failed", name))
	}

	obj, err := ExtractJSON(raw)
	if err != nil {
		a.logger.Warn("generative response had no parseable JSON",
			logging.String("compound", name),
			logging.Int("response_length", len(raw)))
		return nil, err
	}
	return obj, nil
}
