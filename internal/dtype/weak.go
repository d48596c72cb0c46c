package dtype

import (
	"fmt"
)

// WeakType is the type category of a host scalar. It takes part in type
// promotion without committing to a concrete width until it is combined
// with an array.
type WeakType int

// Weak scalar categories.
const (
	WeakBool WeakType = iota
	WeakInt
	WeakFloat
	WeakComplex
)

// String returns a human-readable name for the weak type.
func (w WeakType) String() string {
	switch w {
	case WeakBool:
		return "weak bool"
	case WeakInt:
		return "weak int"
	case WeakFloat:
		return "weak float"
	case WeakComplex:
		return "weak complex"
	default:
		return "weak unknown"
	}
}

// WeakTypeOf returns the weak category of a Go scalar value.
func WeakTypeOf(v any) (WeakType, bool) {
	switch v.(type) {
	case bool:
		return WeakBool, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return WeakInt, true
	case float32, float64:
		return WeakFloat, true
	case complex64, complex128:
		return WeakComplex, true
	default:
		return 0, false
	}
}

// ArgType is the type of an operand as seen by type resolution: either a
// concrete data type or a weak scalar category.
type ArgType struct {
	dt     DType
	weak   WeakType
	isWeak bool
}

// Strong returns the ArgType of an array with data type dt.
func Strong(dt DType) ArgType { return ArgType{dt: dt} }

// Weak returns the ArgType of a host scalar of category w.
func Weak(w WeakType) ArgType { return ArgType{weak: w, isWeak: true} }

// IsWeak reports whether the argument is a weak scalar type.
func (a ArgType) IsWeak() bool { return a.isWeak }

// DType returns the concrete data type. It panics for weak arguments.
func (a ArgType) DType() DType {
	if a.isWeak {
		panic("DType called on a weak argument type")
	}
	return a.dt
}

// WeakType returns the weak category. It panics for strong arguments.
func (a ArgType) WeakType() WeakType {
	if !a.isWeak {
		panic("WeakType called on a strong argument type")
	}
	return a.weak
}

// String implements fmt.Stringer.
func (a ArgType) String() string {
	if a.isWeak {
		return a.weak.String()
	}
	return a.dt.String()
}

// KindRank returns the promotion rank of the argument's category:
// 0 for booleans, 1 for integers, 2 for real floating and 3 for complex types.
func (a ArgType) KindRank() int {
	if a.isWeak {
		return int(a.weak)
	}
	return kindRank(a.dt.Kind())
}

// ResolveWeakTypes binds weak scalar types against the strong type of the
// other operand. A weak type of a higher category than the strong operand
// becomes the device default type of its category; otherwise it takes the
// strong operand's type. Both operands being weak is an error.
func ResolveWeakTypes(o1, o2 ArgType, caps Capabilities) (DType, DType, error) {
	switch {
	case o1.isWeak && o2.isWeak:
		return 0, 0, fmt.Errorf("at least one of the operands must be an array, got %s and %s", o1, o2)
	case o1.isWeak:
		return bindWeak(o1.weak, o2.dt, caps), o2.dt, nil
	case o2.isWeak:
		return o1.dt, bindWeak(o2.weak, o1.dt, caps), nil
	default:
		return o1.dt, o2.dt, nil
	}
}

func bindWeak(w WeakType, strong DType, caps Capabilities) DType {
	if int(w) <= kindRank(strong.Kind()) {
		return strong
	}
	switch w {
	case WeakInt:
		return DefaultInt(caps)
	case WeakComplex:
		if strong == Float16 || strong == Float32 {
			return Complex64
		}
		return MapToDevice(Complex128, caps)
	default:
		return MapToDevice(Float64, caps)
	}
}
