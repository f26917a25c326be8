package molecule

import (
	"strings"

	"github.com/turtacn/molmatch/pkg/errors"
)

// BondOrder is the discrete order of a bond.
type BondOrder int

const (
	BondOrderUnset BondOrder = iota
	BondOrderSingle
	BondOrderDouble
	BondOrderTriple
	BondOrderQuadruple
	BondOrderAromatic
)

var bondOrderNames = map[BondOrder]string{
	BondOrderUnset:     "unset",
	BondOrderSingle:    "single",
	BondOrderDouble:    "double",
	BondOrderTriple:    "triple",
	BondOrderQuadruple: "quadruple",
	BondOrderAromatic:  "aromatic",
}

var bondOrderTokens = map[string]BondOrder{
	"single":    BondOrderSingle,
	"double":    BondOrderDouble,
	"triple":    BondOrderTriple,
	"quadruple": BondOrderQuadruple,
	"aromatic":  BondOrderAromatic,
	"-":         BondOrderSingle,
	"=":         BondOrderDouble,
	"#":         BondOrderTriple,
	"$":         BondOrderQuadruple,
	":":         BondOrderAromatic,
	"1":         BondOrderSingle,
	"2":         BondOrderDouble,
	"3":         BondOrderTriple,
	"4":         BondOrderQuadruple,
	"1.5":       BondOrderAromatic,
}

// ParseBondOrder converts a textual bond token (name, SMILES symbol or
// numeric order) into a BondOrder.  Unknown tokens are a configuration error.
func ParseBondOrder(tok string) (BondOrder, error) {
	if o, ok := bondOrderTokens[strings.ToLower(strings.TrimSpace(tok))]; ok {
		return o, nil
	}
	return BondOrderUnset, errors.New(errors.ErrCodeMoleculeInvalidGraph, "unrecognised bond order").
		WithDetailf("token=%q", tok)
}

func (o BondOrder) String() string {
	if s, ok := bondOrderNames[o]; ok {
		return s
	}
	return "unknown"
}

// Symbol returns the SMILES bond symbol.
func (o BondOrder) Symbol() string {
	switch o {
	case BondOrderDouble:
		return "="
	case BondOrderTriple:
		return "#"
	case BondOrderQuadruple:
		return "$"
	case BondOrderAromatic:
		return ":"
	default:
		return "-"
	}
}

// Numeric returns the bond order as a number; aromatic bonds count 1.5.
func (o BondOrder) Numeric() float64 {
	switch o {
	case BondOrderSingle:
		return 1
	case BondOrderDouble:
		return 2
	case BondOrderTriple:
		return 3
	case BondOrderQuadruple:
		return 4
	case BondOrderAromatic:
		return 1.5
	}
	return 0
}

// Valence returns the integral valence contribution of the bond.  Aromatic
// bonds contribute 1 so that unsaturation counts stay integral.
func (o BondOrder) Valence() int {
	switch o {
	case BondOrderSingle, BondOrderAromatic:
		return 1
	case BondOrderDouble:
		return 2
	case BondOrderTriple:
		return 3
	case BondOrderQuadruple:
		return 4
	}
	return 0
}

// BondStereo is the configuration of a double bond.
type BondStereo int

const (
	BondStereoNone BondStereo = iota
	BondStereoE
	BondStereoZ
)

// ParseBondStereo accepts "", "none", "E"/"trans" and "Z"/"cis".
func ParseBondStereo(tok string) (BondStereo, error) {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "", "none":
		return BondStereoNone, nil
	case "e", "trans":
		return BondStereoE, nil
	case "z", "cis":
		return BondStereoZ, nil
	}
	return BondStereoNone, errors.New(errors.ErrCodeMoleculeInvalidGraph, "unrecognised bond stereo").
		WithDetailf("token=%q", tok)
}

func (s BondStereo) String() string {
	switch s {
	case BondStereoE:
		return "E"
	case BondStereoZ:
		return "Z"
	}
	return ""
}

// Bond connects the atoms at positions Begin and End of its molecule.
type Bond struct {
	Begin    int
	End      int
	Order    BondOrder
	Aromatic bool
	Stereo   BondStereo
}

// Contains reports whether atom position i is an endpoint.
func (b *Bond) Contains(i int) bool {
	return b.Begin == i || b.End == i
}

// Other returns the endpoint opposite i, or -1 when i is not an endpoint.
func (b *Bond) Other(i int) int {
	switch i {
	case b.Begin:
		return b.End
	case b.End:
		return b.Begin
	}
	return -1
}

// IsAromatic reports whether the bond is flagged or ordered aromatic.
func (b *Bond) IsAromatic() bool {
	return b.Aromatic || b.Order == BondOrderAromatic
}

//Personal.AI order the ending
