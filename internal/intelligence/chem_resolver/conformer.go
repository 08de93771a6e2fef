package chem_resolver

import (
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

// ConformerRecord is the raw 3D record as delivered by the structure source:
// parallel arrays of atom ids and elements, one coordinate set, and parallel
// bond arrays.  Nothing in this shape is trusted until ParseConformer has
// cross-checked the array lengths.
type ConformerRecord struct {
	AtomIDs  []int     `json:"atomIds"`
	Elements []string  `json:"elements"`
	X        []float64 `json:"x"`
	Y        []float64 `json:"y"`
	Z        []float64 `json:"z"`

	BondFrom  []int `json:"bondFrom"`
	BondTo    []int `json:"bondTo"`
	BondOrder []int `json:"bondOrder"`
}

// ParseConformer turns a raw conformer record into checked 3D coordinates.
// The atom-id, element, and coordinate arrays must all agree in length and
// every bond must reference an existing atom id; any mismatch fails with
// ErrCodeConformerMalformed so the caller stores nil coordinates instead of
// a partial or garbled structure.
func ParseConformer(rec ConformerRecord) (*types.Coordinates3D, error) {
	n := len(rec.AtomIDs)
	if n == 0 {
		return nil, apperrors.New(apperrors.ErrCodeConformerMalformed, "conformer has no atoms")
	}
	if len(rec.Elements) != n || len(rec.X) != n || len(rec.Y) != n || len(rec.Z) != n {
		return nil, apperrors.Newf(apperrors.ErrCodeConformerMalformed,
			"conformer arrays disagree: %d atom ids, %d elements, %d/%d/%d coordinates",
			n, len(rec.Elements), len(rec.X), len(rec.Y), len(rec.Z))
	}

	b := len(rec.BondFrom)
	if len(rec.BondTo) != b || len(rec.BondOrder) != b {
		return nil, apperrors.Newf(apperrors.ErrCodeConformerMalformed,
			"bond arrays disagree: %d/%d/%d", b, len(rec.BondTo), len(rec.BondOrder))
	}

	ids := make(map[int]bool, n)
	atoms := make([]types.Atom, n)
	for i := 0; i < n; i++ {
		ids[rec.AtomIDs[i]] = true
		atoms[i] = types.Atom{
			Element: rec.Elements[i],
			X:       rec.X[i],
			Y:       rec.Y[i],
			Z:       rec.Z[i],
		}
	}

	bonds := make([]types.Bond, b)
	for i := 0; i < b; i++ {
		if !ids[rec.BondFrom[i]] || !ids[rec.BondTo[i]] {
			return nil, apperrors.Newf(apperrors.ErrCodeConformerMalformed,
				"bond %d references unknown atom id", i)
		}
		bonds[i] = types.Bond{From: rec.BondFrom[i], To: rec.BondTo[i], Order: rec.BondOrder[i]}
	}

	return &types.Coordinates3D{Atoms: atoms, Bonds: bonds}, nil
}
