package scenegraph

import (
	gom "github.com/podhmo/go-gom"
)

// FloatVector is a resizable vector of doubles, indexable from scripts.
//
//gom:class
type FloatVector struct {
	gom.ObjectBase
	values []float64
}

//gom:constructor
//gom:default size=0
func NewFloatVector(size gom.Index) *FloatVector {
	v := &FloatVector{values: make([]float64, size)}
	gom.InitObject(v)
	return v
}

//gom:property size
func (v *FloatVector) Size() gom.Index { return gom.Index(len(v.values)) }

// Resize changes the number of elements. New elements are zero.
//
//gom:slot
func (v *FloatVector) Resize(size gom.Index) {
	if int(size) <= len(v.values) {
		v.values = v.values[:size]
		return
	}
	v.values = append(v.values, make([]float64, int(size)-len(v.values))...)
}

// Sum returns the sum of the elements.
//
//gom:slot
func (v *FloatVector) Sum() float64 {
	var s float64
	for _, x := range v.values {
		s += x
	}
	if err := gom.CheckFloat(s); err != nil {
		gom.TagLogger("FloatVector::sum").Warn("invalid sum", "error", err)
	}
	return s
}

func (v *FloatVector) NbElements() int { return len(v.values) }

func (v *FloatVector) GetElement(i int) (gom.Any, bool) {
	if i < 0 || i >= len(v.values) {
		gom.TagLogger("FloatVector").Warn("index out of range", "index", i, "size", len(v.values))
		return gom.Any{}, false
	}
	return gom.AnyOf(v.values[i]), true
}

func (v *FloatVector) SetElement(i int, x gom.Any) bool {
	if i < 0 || i >= len(v.values) {
		gom.TagLogger("FloatVector").Warn("index out of range", "index", i, "size", len(v.values))
		return false
	}
	d, ok := gom.Convert(x, gom.DoubleType)
	if !ok {
		return false
	}
	v.values[i], _ = gom.Get[float64](d)
	return true
}
