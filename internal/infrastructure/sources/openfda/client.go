// Package openfda implements the regulatory-label client against the openFDA
// drug label API.
package openfda

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/turtacn/PharmaLens/internal/application/analysis"
	"github.com/turtacn/PharmaLens/internal/config"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	appmetrics "github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PharmaLens/internal/infrastructure/sources/httpx"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

// Client is an analysis.RegulatoryClient backed by openFDA.
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
			Source:     "openfda",
			Logger:     log,
			Metrics:    metrics,
		}),
		baseURL: cfg.RegulatoryBaseURL,
		logger:  log.Named("openfda"),
	}
}

var _ analysis.RegulatoryClient = (*Client)(nil)

type labelResponse struct {
	Results []struct {
		OpenFDA struct {
			BrandName   []string `json:"brand_name"`
			GenericName []string `json:"generic_name"`
		} `json:"openfda"`
		BoxedWarning []string `json:"boxed_warning"`
		Warnings     []string `json:"warnings"`
	} `json:"results"`
}

// LookupLabel finds the first drug label whose generic or brand name matches.
// openFDA answers 404 when the search matches nothing.
func (c *Client) LookupLabel(ctx context.Context, name string) (analysis.RegulatoryLabel, error) {
	query := url.QueryEscape(fmt.Sprintf(`openfda.generic_name:%q openfda.brand_name:%q`, name, name))
	u := fmt.Sprintf("%s/drug/label.json?search=%s&limit=1", c.baseURL, query)

	var resp labelResponse
	if err := c.http.GetJSON(ctx, u, nil, &resp); err != nil {
		if httpx.IsStatus(err, http.StatusNotFound) {
			return analysis.RegulatoryLabel{}, apperrors.Newf(apperrors.ErrCodeNotFound,
				"no regulatory label for %q", name)
		}
		return analysis.RegulatoryLabel{}, apperrors.Wrap(err,
			apperrors.ErrCodeRegulatoryUnavailable, "openfda lookup failed")
	}
	if len(resp.Results) == 0 {
		return analysis.RegulatoryLabel{}, apperrors.Newf(apperrors.ErrCodeNotFound,
			"no regulatory label for %q", name)
	}

	result := resp.Results[0]
	brand := name
	if len(result.OpenFDA.BrandName) > 0 {
		brand = result.OpenFDA.BrandName[0]
	} else if len(result.OpenFDA.GenericName) > 0 {
		brand = result.OpenFDA.GenericName[0]
	}

	var warnings []string
	warnings = append(warnings, result.BoxedWarning...)
	return analysis.RegulatoryLabel{Brand: brand, Warnings: warnings}, nil
}
