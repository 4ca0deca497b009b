// Package profile defines the declared dataset characteristics that drive
// rule matching, along with the closed set of attributes and their domains.
package profile

import (
	"errors"
	"fmt"
)

// ErrInvalidProfile is returned when a profile is missing a recognized
// attribute, names an unrecognized one, or carries an out-of-domain value.
var ErrInvalidProfile = errors.New("invalid profile")

// Attribute names a recognized profile attribute.
type Attribute string

const (
	AttrProblemType    Attribute = "problemType"
	AttrGaussian       Attribute = "gaussian"
	AttrClassImbalance Attribute = "classImbalance"
	AttrPGreaterThanN  Attribute = "pGreaterThanN"
	AttrErrorFocus     Attribute = "errorFocus"
)

// ProblemType is the kind of analysis task.
type ProblemType string

const (
	ProblemClassification ProblemType = "classification"
	ProblemRegression     ProblemType = "regression"
	ProblemClustering     ProblemType = "clustering"
	ProblemTimeSeries     ProblemType = "time-series"
)

// ErrorFocus is the error type that is most costly for the task.
type ErrorFocus string

const (
	FocusFalsePositive ErrorFocus = "fp"
	FocusFalseNegative ErrorFocus = "fn"
)

// Defaults applied by UI boundaries when the user has not chosen a value.
const (
	DefaultProblemType = ProblemClassification
	DefaultErrorFocus  = FocusFalsePositive
)

// Profile is a complete snapshot of the dataset characteristics.
type Profile struct {
	ProblemType    ProblemType `json:"problemType" yaml:"problemType" mapstructure:"problemType"`
	Gaussian       bool        `json:"gaussian" yaml:"gaussian" mapstructure:"gaussian"`
	ClassImbalance bool        `json:"classImbalance" yaml:"classImbalance" mapstructure:"classImbalance"`
	PGreaterThanN  bool        `json:"pGreaterThanN" yaml:"pGreaterThanN" mapstructure:"pGreaterThanN"`
	ErrorFocus     ErrorFocus  `json:"errorFocus" yaml:"errorFocus" mapstructure:"errorFocus"`
}

// Default returns a profile with every attribute set to its defined default.
func Default() Profile {
	return Profile{
		ProblemType: DefaultProblemType,
		ErrorFocus:  DefaultErrorFocus,
	}
}

// Attributes returns every recognized attribute in canonical order.
func Attributes() []Attribute {
	return []Attribute{
		AttrProblemType,
		AttrGaussian,
		AttrClassImbalance,
		AttrPGreaterThanN,
		AttrErrorFocus,
	}
}

// ProblemTypes returns the problem type domain in display order.
func ProblemTypes() []ProblemType {
	return []ProblemType{ProblemClassification, ProblemRegression, ProblemClustering, ProblemTimeSeries}
}

// ErrorFoci returns the error focus domain in display order.
func ErrorFoci() []ErrorFocus {
	return []ErrorFocus{FocusFalsePositive, FocusFalseNegative}
}

// Recognized reports whether a is one of the recognized attributes.
func (a Attribute) Recognized() bool {
	_, ok := attributeKinds[a]
	return ok
}

// Kind returns the value kind the attribute accepts.
func (a Attribute) Kind() Kind {
	return attributeKinds[a]
}

// Admits reports whether v is a member of the attribute's domain.
func (a Attribute) Admits(v Value) bool {
	kind, ok := attributeKinds[a]
	if !ok || v.kind != kind {
		return false
	}
	switch a {
	case AttrProblemType:
		return ProblemType(v.text).Valid()
	case AttrErrorFocus:
		return ErrorFocus(v.text).Valid()
	default:
		return true
	}
}

// Rank returns the position of a in canonical order, or -1.
func (a Attribute) Rank() int {
	for i, attr := range Attributes() {
		if attr == a {
			return i
		}
	}
	return -1
}

var attributeKinds = map[Attribute]Kind{
	AttrProblemType:    KindEnum,
	AttrGaussian:       KindBool,
	AttrClassImbalance: KindBool,
	AttrPGreaterThanN:  KindBool,
	AttrErrorFocus:     KindEnum,
}

// Valid reports whether t is in the problem type domain.
func (t ProblemType) Valid() bool {
	switch t {
	case ProblemClassification, ProblemRegression, ProblemClustering, ProblemTimeSeries:
		return true
	}
	return false
}

// Valid reports whether f is in the error focus domain.
func (f ErrorFocus) Valid() bool {
	return f == FocusFalsePositive || f == FocusFalseNegative
}

// Validate checks that every enum attribute holds an in-domain value.
func (p Profile) Validate() error {
	if !p.ProblemType.Valid() {
		return fmt.Errorf("%w: %s %q is not one of %v", ErrInvalidProfile, AttrProblemType, p.ProblemType, ProblemTypes())
	}
	if !p.ErrorFocus.Valid() {
		return fmt.Errorf("%w: %s %q is not one of %v", ErrInvalidProfile, AttrErrorFocus, p.ErrorFocus, ErrorFoci())
	}
	return nil
}

// Value returns the tagged value of attr. Unrecognized attributes yield the
// zero Value, which no domain admits.
func (p Profile) Value(attr Attribute) Value {
	switch attr {
	case AttrProblemType:
		return Enum(string(p.ProblemType))
	case AttrGaussian:
		return Bool(p.Gaussian)
	case AttrClassImbalance:
		return Bool(p.ClassImbalance)
	case AttrPGreaterThanN:
		return Bool(p.PGreaterThanN)
	case AttrErrorFocus:
		return Enum(string(p.ErrorFocus))
	}
	return Value{}
}
