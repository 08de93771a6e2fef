// Package pubchem implements the structure-database client against the
// PubChem PUG REST API.
package pubchem

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/turtacn/PharmaLens/internal/config"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	appmetrics "github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PharmaLens/internal/infrastructure/sources/httpx"
	"github.com/turtacn/PharmaLens/internal/intelligence/chem_resolver"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

// elementSymbols maps atomic numbers to element symbols for the range that
// occurs in drug-like molecules.
var elementSymbols = map[int]string{
	1: "H", 5: "B", 6: "C", 7: "N", 8: "O", 9: "F", 11: "Na", 12: "Mg",
	14: "Si", 15: "P", 16: "S", 17: "Cl", 19: "K", 20: "Ca", 26: "Fe",
	30: "Zn", 34: "Se", 35: "Br", 53: "I", 78: "Pt",
}

// Client is a chem_resolver.StructureClient backed by PubChem.
type Client struct {
	http    *httpx.Client
	baseURL string
	logger  logging.Logger
}

// NewClient builds a PubChem client from the shared source configuration.
func NewClient(cfg config.SourceConfig, log logging.Logger, metrics *appmetrics.AppMetrics) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{
		http: httpx.New(httpx.Options{
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.RetryBaseDelay,
			Source:     "pubchem",
			Logger:     log,
			Metrics:    metrics,
		}),
		baseURL: cfg.StructureBaseURL,
		logger:  log.Named("pubchem"),
	}
}

var _ chem_resolver.StructureClient = (*Client)(nil)

type propertyResponse struct {
	PropertyTable struct {
		Properties []struct {
			CID              int64  `json:"CID"`
			Title            string `json:"Title"`
			MolecularFormula string `json:"MolecularFormula"`
			MolecularWeight  string `json:"MolecularWeight"`
			CanonicalSMILES  string `json:"CanonicalSMILES"`
		} `json:"Properties"`
	} `json:"PropertyTable"`
}

// LookupByName resolves a compound name to its canonical structure record.
// A PubChem 404 means the name is unknown and maps to the not-found code.
func (c *Client) LookupByName(ctx context.Context, name string) (types.StructureRecord, error) {
	u := fmt.Sprintf("%s/compound/name/%s/property/Title,MolecularFormula,MolecularWeight,CanonicalSMILES/JSON",
		c.baseURL, url.PathEscape(name))

	var resp propertyResponse
	if err := c.http.GetJSON(ctx, u, nil, &resp); err != nil {
		if httpx.IsStatus(err, http.StatusNotFound) {
			return types.StructureRecord{}, apperrors.Newf(apperrors.ErrCodeCompoundNotFound,
				"no PubChem record for %q", name)
		}
		return types.StructureRecord{}, err
	}
	if len(resp.PropertyTable.Properties) == 0 {
		return types.StructureRecord{}, apperrors.Newf(apperrors.ErrCodeCompoundNotFound,
			"empty PubChem property table for %q", name)
	}

	p := resp.PropertyTable.Properties[0]
	// PubChem serializes MolecularWeight as a string.
	weight, err := strconv.ParseFloat(p.MolecularWeight, 64)
	if err != nil {
		weight = 0
	}
	return types.StructureRecord{
		Notation:      p.CanonicalSMILES,
		CanonicalName: p.Title,
		Formula:       p.MolecularFormula,
		Weight:        weight,
		Identifier:    p.CID,
	}, nil
}

type recordResponse struct {
	PCCompounds []struct {
		Atoms struct {
			AID     []int `json:"aid"`
			Element []int `json:"element"`
		} `json:"atoms"`
		Coords []struct {
			AID        []int `json:"aid"`
			Conformers []struct {
				X []float64 `json:"x"`
				Y []float64 `json:"y"`
				Z []float64 `json:"z"`
			} `json:"conformers"`
		} `json:"coords"`
		Bonds struct {
			AID1  []int `json:"aid1"`
			AID2  []int `json:"aid2"`
			Order []int `json:"order"`
		} `json:"bonds"`
	} `json:"PC_Compounds"`
}

// FetchConformer fetches the 3D record for a notation and flattens it into the
// resolver's raw conformer shape.  Consistency checking is the resolver's job.
func (c *Client) FetchConformer(ctx context.Context, notation string) (chem_resolver.ConformerRecord, error) {
	u := fmt.Sprintf("%s/compound/smiles/%s/record/JSON?record_type=3d",
		c.baseURL, url.QueryEscape(notation))

	var resp recordResponse
	if err := c.http.GetJSON(ctx, u, nil, &resp); err != nil {
		return chem_resolver.ConformerRecord{}, err
	}
	if len(resp.PCCompounds) == 0 {
		return chem_resolver.ConformerRecord{}, apperrors.New(apperrors.ErrCodeConformerMalformed,
			"3D record contains no compounds")
	}

	compound := resp.PCCompounds[0]
	elements := make([]string, len(compound.Atoms.Element))
	for i, z := range compound.Atoms.Element {
		sym, ok := elementSymbols[z]
		if !ok {
			sym = "X"
		}
		elements[i] = sym
	}

	rec := chem_resolver.ConformerRecord{
		AtomIDs:   compound.Atoms.AID,
		Elements:  elements,
		BondFrom:  compound.Bonds.AID1,
		BondTo:    compound.Bonds.AID2,
		BondOrder: compound.Bonds.Order,
	}
	if len(compound.Coords) > 0 && len(compound.Coords[0].Conformers) > 0 {
		conf := compound.Coords[0].Conformers[0]
		rec.X = conf.X
		rec.Y = conf.Y
		rec.Z = conf.Z
	}
	return rec, nil
}

// FetchImage fetches the rendered structure image.  kind is "2d" or "3d".
func (c *Client) FetchImage(ctx context.Context, notation string, kind string) ([]byte, error) {
	u := fmt.Sprintf("%s/compound/smiles/%s/PNG", c.baseURL, url.QueryEscape(notation))
	if kind == "3d" {
		u += "?record_type=3d"
	}
	return c.http.GetBytes(ctx, u, nil)
}
