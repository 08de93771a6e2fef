// Package rxnorm implements the drug-vocabulary client against the RxNorm
// REST API.
package rxnorm

import (
	"context"
	"fmt"
	"net/url"

	"github.com/turtacn/PharmaLens/internal/application/analysis"
	"github.com/turtacn/PharmaLens/internal/config"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	appmetrics "github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PharmaLens/internal/infrastructure/sources/httpx"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

// Client is an analysis.VocabularyClient backed by RxNorm.
type Client struct {
	http    *httpx.Client
	baseURL string
	logger  logging.Logger
}

func NewClient(cfg config.SourceConfig, log logging.Logger, metrics *appmetrics.AppMetrics) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{
		http: httpx.New(httpx.Options{
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.RetryBaseDelay,
			Source:     "rxnorm",
			Logger:     log,
			Metrics:    metrics,
		}),
		baseURL: cfg.VocabularyBaseURL,
		logger:  log.Named("rxnorm"),
	}
}

var _ analysis.VocabularyClient = (*Client)(nil)

type rxcuiResponse struct {
	IDGroup struct {
		Name     string   `json:"name"`
		RxNormID []string `json:"rxnormId"`
	} `json:"idGroup"`
}

// Lookup resolves a name to its RxNorm concept.  An empty id list means the
// vocabulary has no matching concept; that is reported as an error so the
// validator counts the source as non-corroborating.
func (c *Client) Lookup(ctx context.Context, name string) (analysis.VocabularyMatch, error) {
	u := fmt.Sprintf("%s/rxcui.json?name=%s&search=1", c.baseURL, url.QueryEscape(name))

	var resp rxcuiResponse
	if err := c.http.GetJSON(ctx, u, nil, &resp); err != nil {
		return analysis.VocabularyMatch{}, apperrors.Wrap(err,
			apperrors.ErrCodeVocabularyUnavailable, "rxnorm lookup failed")
	}
	if len(resp.IDGroup.RxNormID) == 0 {
		return analysis.VocabularyMatch{}, apperrors.Newf(apperrors.ErrCodeNotFound,
			"no RxNorm concept for %q", name)
	}

	matched := resp.IDGroup.Name
	if matched == "" {
		matched = name
	}
	return analysis.VocabularyMatch{
		MatchedID:   resp.IDGroup.RxNormID[0],
		MatchedName: matched,
	}, nil
}
