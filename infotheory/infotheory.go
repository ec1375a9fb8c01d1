// Package infotheory derives entropy and mutual information, in bits,
// from joint probability distributions. It follows the convention
// 0·log2(0) := 0 throughout.
package infotheory

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Metrics is the information-theoretic summary of one joint distribution
// P(category, neighborhood). Ent measures the diversity of realized
// categories; MutInf measures segregation, i.e. how strongly the local
// composition predicts a cell's category.
type Metrics struct {
	Ent     float64 `json:"ent"`     // H(X), row marginal entropy
	JoinEnt float64 `json:"joinent"` // H(X,Y)
	CondEnt float64 `json:"condent"` // H(X|Y) = H(X,Y) − H(Y)
	MutInf  float64 `json:"mutinf"`  // I(X;Y) = H(X) − H(X|Y)
}

// Entropy returns the Shannon entropy of p in bits, skipping zero entries.
// p is expected to be a probability distribution; it is not re-normalized.
func Entropy(p []float64) float64 {
	return stat.Entropy(p) / math.Ln2
}

// FromJoint computes Metrics from a normalized joint distribution with
// rows indexing the realized category and columns the neighborhood
// composition. Floating-point residue is clamped so the invariants
// 0 ≤ mutinf ≤ min(ent, H(col marginal)) and condent ≥ 0 hold exactly;
// when ent is 0 (a single category fills the extent) mutinf is 0 by
// definition.
func FromJoint(p *mat.Dense) Metrics {
	r, c := p.Dims()
	rowMarg := make([]float64, r)
	colMarg := make([]float64, c)
	joint := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := p.At(i, j)
			rowMarg[i] += v
			colMarg[j] += v
			joint = append(joint, v)
		}
	}

	ent := Entropy(rowMarg)
	hCol := Entropy(colMarg)
	joinEnt := Entropy(joint)

	condEnt := joinEnt - hCol
	if condEnt < 0 {
		condEnt = 0
	}
	mutInf := ent - condEnt
	switch {
	case ent == 0:
		mutInf = 0
	case mutInf < 0:
		mutInf = 0
	case mutInf > ent:
		mutInf = ent
	}
	if mutInf > hCol {
		mutInf = hCol
	}

	return Metrics{Ent: ent, JoinEnt: joinEnt, CondEnt: condEnt, MutInf: mutInf}
}
