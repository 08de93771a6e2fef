package chem_resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

func TestParseConformer_Valid(t *testing.T) {
	coords, err := ParseConformer(validConformer())
	require.NoError(t, err)
	require.NotNil(t, coords)

	assert.Len(t, coords.Atoms, 3)
	assert.Equal(t, "O", coords.Atoms[2].Element)
	assert.Equal(t, 2.9, coords.Atoms[2].X)

	require.Len(t, coords.Bonds, 2)
	assert.Equal(t, 1, coords.Bonds[0].From)
	assert.Equal(t, 2, coords.Bonds[0].To)
}

func TestParseConformer_NoAtoms(t *testing.T) {
	_, err := ParseConformer(ConformerRecord{})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConformerMalformed))
}

func TestParseConformer_ArrayMismatches(t *testing.T) {
	mutations := map[string]func(*ConformerRecord){
		"missing element":    func(r *ConformerRecord) { r.Elements = r.Elements[:2] },
		"missing x":          func(r *ConformerRecord) { r.X = r.X[:1] },
		"missing y":          func(r *ConformerRecord) { r.Y = nil },
		"extra z":            func(r *ConformerRecord) { r.Z = append(r.Z, 4.2) },
		"short bond to":      func(r *ConformerRecord) { r.BondTo = r.BondTo[:1] },
		"short bond order":   func(r *ConformerRecord) { r.BondOrder = nil },
		"unknown bond atom":  func(r *ConformerRecord) { r.BondFrom[0] = 99 },
		"unknown bond other": func(r *ConformerRecord) { r.BondTo[1] = -1 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			rec := validConformer()
			mutate(&rec)
			coords, err := ParseConformer(rec)
			assert.Nil(t, coords)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConformerMalformed))
		})
	}
}

func TestParseConformer_NoBondsIsValid(t *testing.T) {
	rec := validConformer()
	rec.BondFrom = nil
	rec.BondTo = nil
	rec.BondOrder = nil

	coords, err := ParseConformer(rec)
	require.NoError(t, err)
	assert.Empty(t, coords.Bonds)
}
