package compound

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

func TestParseFormula(t *testing.T) {
	counts, err := ParseFormula("C9H8O4")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"C": 9, "H": 8, "O": 4}, counts)
}

func TestParseFormula_TwoLetterElements(t *testing.T) {
	counts, err := ParseFormula("C22H24Cl2N2O8")
	require.NoError(t, err)
	assert.Equal(t, 2, counts["Cl"])
	assert.Equal(t, 2, counts["N"])
	assert.Equal(t, 22, counts["C"])
}

func TestParseFormula_ImplicitCount(t *testing.T) {
	counts, err := ParseFormula("CHN")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"C": 1, "H": 1, "N": 1}, counts)
}

func TestParseFormula_RepeatedElementAccumulates(t *testing.T) {
	counts, err := ParseFormula("CH3COOH")
	require.NoError(t, err)
	assert.Equal(t, 2, counts["C"])
	assert.Equal(t, 4, counts["H"])
	assert.Equal(t, 2, counts["O"])
}

func TestParseFormula_Invalid(t *testing.T) {
	for _, formula := range []string{"", "9C", "c9h8", "C9-H8", "C0"} {
		_, err := ParseFormula(formula)
		assert.Error(t, err, "formula %q", formula)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDescriptorsInvalid))
	}
}

func TestFormulaWeight_Aspirin(t *testing.T) {
	counts, err := ParseFormula("C9H8O4")
	require.NoError(t, err)
	// C9H8O4 is 180.158 g/mol.
	assert.InDelta(t, 180.158, FormulaWeight(counts), 0.05)
}

func TestDescriptorsFromFormula_Aspirin(t *testing.T) {
	d, err := DescriptorsFromFormula("C9H8O4", 180.16)
	require.NoError(t, err)

	assert.InDelta(t, 180.16, d.MolecularWeight, 0.001)
	// logP = 0.25*9 - 0.62*4 = -0.23
	assert.InDelta(t, -0.23, d.LogP, 0.001)
	// TPSA = 20.2*4 = 80.8
	assert.InDelta(t, 80.8, d.TPSA, 0.001)
	assert.Equal(t, 4, d.HBACount)
	assert.Equal(t, 2, d.HBDCount)
	// 13 heavy atoms → 13/4 - 1 = 2
	assert.Equal(t, 2, d.RotatableBonds)
}

func TestDescriptorsFromFormula_WeightComputedWhenAbsent(t *testing.T) {
	d, err := DescriptorsFromFormula("C9H8O4", 0)
	require.NoError(t, err)
	assert.InDelta(t, 180.158, d.MolecularWeight, 0.05)
}

func TestDescriptorsFromFormula_Halogens(t *testing.T) {
	// CHCl3: logP = 0.25*1 + 0.45*3 = 1.6
	d, err := DescriptorsFromFormula("CHCl3", 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.6, d.LogP, 0.001)
	assert.Equal(t, 0, d.HBACount)
	assert.Equal(t, 0, d.HBDCount)
	assert.Equal(t, 0, d.RotatableBonds)
}

func TestValidateDescriptors(t *testing.T) {
	valid := types.MolecularDescriptors{LogP: 1.2, MolecularWeight: 180, TPSA: 60}
	assert.NoError(t, ValidateDescriptors(valid))

	nan := valid
	nan.LogP = math.NaN()
	assert.Error(t, ValidateDescriptors(nan))

	inf := valid
	inf.TPSA = math.Inf(1)
	assert.Error(t, ValidateDescriptors(inf))

	negative := valid
	negative.HBACount = -1
	assert.Error(t, ValidateDescriptors(negative))
}
