// Package chem_resolver resolves compound names to canonical structure
// records and gathers visual/3D enrichment artifacts for known structures.
// Enrichment tolerates partial failure: each sub-fetch is observed
// independently and a failed artifact degrades to an absent field, never to
// an aborted call.
package chem_resolver

import (
	"context"
	"fmt"
	"sync"

	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

// StructureClient is the outbound contract to the structure database.  The
// concrete implementation lives in infrastructure/sources/pubchem; tests
// substitute doubles.  Each method is independently failable.
type StructureClient interface {
	// LookupByName resolves a compound name.  A name with no match fails
	// with ErrCodeCompoundNotFound.
	LookupByName(ctx context.Context, name string) (types.StructureRecord, error)

	// FetchConformer retrieves the raw 3D conformer record for a notation.
	FetchConformer(ctx context.Context, notation string) (ConformerRecord, error)

	// FetchImage retrieves a rendered structure image; kind is "2d" or "3d".
	FetchImage(ctx context.Context, notation string, kind string) ([]byte, error)
}

// ResolutionCache is the optional name-to-record cache.  The redis-backed
// implementation lives in infrastructure/database/redis; a nil cache simply
// disables caching.
type ResolutionCache interface {
	GetRecord(ctx context.Context, name string) (types.StructureRecord, bool)
	PutRecord(ctx context.Context, name string, rec types.StructureRecord)
}

// Resolver ties the structure client and cache together.  It is stateless
// after construction and safe for concurrent use.
type Resolver struct {
	client StructureClient
	cache  ResolutionCache
	logger logging.Logger
}

// NewResolver constructs a Resolver.  cache may be nil.
func NewResolver(client StructureClient, cache ResolutionCache, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Resolver{client: client, cache: cache, logger: logger.Named("chem_resolver")}
}

// ResolveByName resolves a compound name to its canonical structure record,
// consulting the cache first.  A missing compound surfaces as
// ErrCodeCompoundNotFound; infrastructure failures surface as
// ErrCodeStructureFetchError.
func (r *Resolver) ResolveByName(ctx context.Context, name string) (types.StructureRecord, error) {
	if r.cache != nil {
		if rec, ok := r.cache.GetRecord(ctx, name); ok {
			r.logger.Debug("structure cache hit", logging.String("name", name))
			return rec, nil
		}
	}

	rec, err := r.client.LookupByName(ctx, name)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return types.StructureRecord{}, err
		}
		return types.StructureRecord{}, apperrors.Wrap(err, apperrors.ErrCodeStructureFetchError,
			fmt.Sprintf("structure lookup for %q failed", name))
	}
	if rec.Identifier == 0 {
		return types.StructureRecord{}, apperrors.Newf(apperrors.ErrCodeCompoundNotFound,
			"no structure match for %q", name)
	}

	if r.cache != nil {
		r.cache.PutRecord(ctx, name, rec)
	}
	return rec, nil
}

// Enrich fetches the three enrichment artifacts for a notation concurrently
// with all-settled join semantics: every sub-fetch's outcome is observed
// independently and a failure nils out only its own field.  The returned
// warnings name each artifact that could not be fetched.  Enrich itself
// never fails.
func (r *Resolver) Enrich(ctx context.Context, notation string) (types.StructureEnrichment, []string) {
	var (
		wg sync.WaitGroup

		coords    *types.Coordinates3D
		coordsErr error
		image2d   []byte
		image2Err error
		image3d   []byte
		image3Err error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		var rec ConformerRecord
		rec, coordsErr = r.client.FetchConformer(ctx, notation)
		if coordsErr == nil {
			coords, coordsErr = ParseConformer(rec)
		}
	}()
	go func() {
		defer wg.Done()
		image2d, image2Err = r.client.FetchImage(ctx, notation, "2d")
	}()
	go func() {
		defer wg.Done()
		image3d, image3Err = r.client.FetchImage(ctx, notation, "3d")
	}()
	wg.Wait()

	var warnings []string
	if coordsErr != nil {
		coords = nil
		warnings = append(warnings, "3D coordinates unavailable")
		r.logger.Warn("conformer fetch failed",
			logging.String("notation", notation), logging.Err(coordsErr))
	}
	if image2Err != nil {
		image2d = nil
		warnings = append(warnings, "2D structure image unavailable")
		r.logger.Warn("2d image fetch failed",
			logging.String("notation", notation), logging.Err(image2Err))
	}
	if image3Err != nil {
		image3d = nil
		warnings = append(warnings, "3D structure image unavailable")
		r.logger.Warn("3d image fetch failed",
			logging.String("notation", notation), logging.Err(image3Err))
	}

	return types.StructureEnrichment{
		Image2D:       image2d,
		Image3D:       image3d,
		Coordinates3D: coords,
	}, warnings
}
