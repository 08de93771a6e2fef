package compound

import (
	"math"
	"strconv"
	"unicode"

	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

// atomicMasses covers the elements that occur in drug-like molecules.  Unknown
// elements contribute zero mass rather than failing the whole computation.
var atomicMasses = map[string]float64{
	"H": 1.008, "B": 10.81, "C": 12.011, "N": 14.007, "O": 15.999,
	"F": 18.998, "Na": 22.990, "Mg": 24.305, "Si": 28.086, "P": 30.974,
	"S": 32.06, "Cl": 35.45, "K": 39.098, "Ca": 40.078, "Fe": 55.845,
	"Zn": 65.38, "Se": 78.971, "Br": 79.904, "I": 126.904, "Pt": 195.084,
}

// halogens used by the lipophilicity heuristic.
var halogens = map[string]bool{"F": true, "Cl": true, "Br": true, "I": true}

// ParseFormula parses a Hill-notation molecular formula such as "C9H8O4" into
// per-element atom counts.  It fails on empty input or any character that
// cannot start or continue an element token.
func ParseFormula(formula string) (map[string]int, error) {
	if formula == "" {
		return nil, apperrors.New(apperrors.ErrCodeDescriptorsInvalid, "empty molecular formula")
	}

	counts := make(map[string]int)
	i := 0
	for i < len(formula) {
		c := rune(formula[i])
		if !unicode.IsUpper(c) {
			return nil, apperrors.Newf(apperrors.ErrCodeDescriptorsInvalid,
				"unexpected character %q in formula %q", string(c), formula)
		}

		// Element symbol: one uppercase letter plus optional lowercase letters.
		j := i + 1
		for j < len(formula) && unicode.IsLower(rune(formula[j])) {
			j++
		}
		element := formula[i:j]
		i = j

		// Optional count, default 1.
		k := i
		for k < len(formula) && unicode.IsDigit(rune(formula[k])) {
			k++
		}
		count := 1
		if k > i {
			n, err := strconv.Atoi(formula[i:k])
			if err != nil || n < 1 {
				return nil, apperrors.Newf(apperrors.ErrCodeDescriptorsInvalid,
					"invalid atom count in formula %q", formula)
			}
			count = n
		}
		i = k

		counts[element] += count
	}
	return counts, nil
}

// FormulaWeight computes the molecular weight of a parsed formula from the
// atomic mass table.  Elements missing from the table contribute nothing.
func FormulaWeight(counts map[string]int) float64 {
	var w float64
	for element, n := range counts {
		w += atomicMasses[element] * float64(n)
	}
	return w
}

// DescriptorsFromFormula derives the molecular descriptor vector from a
// molecular formula using fixed composition heuristics.  When weight is
// positive it is taken as authoritative (it typically comes from the
// structure database); otherwise the weight is computed from the formula.
//
// The heuristics are deliberately simple composition formulas, not a
// cheminformatics engine:
//
//	logP  = 0.25·C + 0.45·halogens − 0.62·O − 0.54·N
//	TPSA  = 20.2·O + 11.7·N
//	HBA   = N + O
//	HBD   = ceil((N+O)/2), capped at HBA
//	rotB  = max(0, heavyAtoms/4 − 1)
func DescriptorsFromFormula(formula string, weight float64) (types.MolecularDescriptors, error) {
	counts, err := ParseFormula(formula)
	if err != nil {
		return types.MolecularDescriptors{}, err
	}
	return DescriptorsFromCounts(counts, weight)
}

// DescriptorsFromCounts derives descriptors from per-element atom counts.
// This is the path used when the composition comes from a 3D conformer's
// element list instead of a formula string.
func DescriptorsFromCounts(counts map[string]int, weight float64) (types.MolecularDescriptors, error) {
	if len(counts) == 0 {
		return types.MolecularDescriptors{}, apperrors.New(apperrors.ErrCodeDescriptorsInvalid,
			"no atom counts")
	}

	carbons := counts["C"]
	nitrogens := counts["N"]
	oxygens := counts["O"]

	halogenCount := 0
	heavyAtoms := 0
	for element, n := range counts {
		if halogens[element] {
			halogenCount += n
		}
		if element != "H" {
			heavyAtoms += n
		}
	}

	if weight <= 0 {
		weight = FormulaWeight(counts)
	}

	logP := 0.25*float64(carbons) + 0.45*float64(halogenCount) -
		0.62*float64(oxygens) - 0.54*float64(nitrogens)
	tpsa := 20.2*float64(oxygens) + 11.7*float64(nitrogens)

	hba := nitrogens + oxygens
	hbd := int(math.Ceil(float64(nitrogens+oxygens) / 2))
	if hbd > hba {
		hbd = hba
	}

	rotatable := heavyAtoms/4 - 1
	if rotatable < 0 {
		rotatable = 0
	}

	d := types.MolecularDescriptors{
		LogP:            logP,
		MolecularWeight: weight,
		TPSA:            tpsa,
		RotatableBonds:  rotatable,
		HBDCount:        hbd,
		HBACount:        hba,
	}
	if err := ValidateDescriptors(d); err != nil {
		return types.MolecularDescriptors{}, err
	}
	return d, nil
}

// CountsFromElements tallies an element-symbol list, such as a conformer's
// atom array, into per-element counts.
func CountsFromElements(elements []string) map[string]int {
	counts := make(map[string]int, len(elements))
	for _, e := range elements {
		if e != "" {
			counts[e]++
		}
	}
	return counts
}

// ValidateDescriptors rejects descriptor vectors containing non-finite values
// or negative counts.  The scoring engine relies on this gate so that its
// arithmetic never sees NaN or Inf.
func ValidateDescriptors(d types.MolecularDescriptors) error {
	for _, v := range []float64{d.LogP, d.MolecularWeight, d.TPSA} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.New(apperrors.ErrCodeDescriptorsInvalid, "descriptor value is not finite")
		}
	}
	if d.MolecularWeight < 0 || d.TPSA < 0 {
		return apperrors.New(apperrors.ErrCodeDescriptorsInvalid, "descriptor value is negative")
	}
	if d.RotatableBonds < 0 || d.HBDCount < 0 || d.HBACount < 0 {
		return apperrors.New(apperrors.ErrCodeDescriptorsInvalid, "descriptor count is negative")
	}
	return nil
}
