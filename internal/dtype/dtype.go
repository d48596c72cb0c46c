// Package dtype provides the runtime data types of npx arrays together with
// the promotion, casting and weak-scalar rules used by type resolution.
package dtype

import "fmt"

// DType represents runtime type information for arrays.
//
// The declaration order is the order in which buffer dtypes are tried during
// type resolution, so it must not be changed.
type DType int

// Supported data types.
const (
	Bool DType = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float16
	Float32
	Float64
	Complex64
	Complex128
)

// Kind is the category of a data type.
type Kind int

// Data type kinds.
const (
	KindBool Kind = iota
	KindUint
	KindInt
	KindFloat
	KindComplex
)

// String returns the NumPy kind name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindUint:
		return "unsigned integer"
	case KindInt:
		return "integer"
	case KindFloat:
		return "floating"
	case KindComplex:
		return "complex"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// All returns every data type in resolution order.
func All() []DType {
	return []DType{
		Bool, Int8, Uint8, Int16, Uint16, Int32, Uint32, Int64, Uint64,
		Float16, Float32, Float64, Complex64, Complex128,
	}
}

// Size returns the byte size of the data type.
func (dt DType) Size() int {
	switch dt {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16, Float16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64, Complex64:
		return 8
	case Complex128:
		return 16
	default:
		panic(fmt.Sprintf("unknown data type %d", int(dt)))
	}
}

// Kind returns the category of the data type.
func (dt DType) Kind() Kind {
	switch dt {
	case Bool:
		return KindBool
	case Int8, Int16, Int32, Int64:
		return KindInt
	case Uint8, Uint16, Uint32, Uint64:
		return KindUint
	case Float16, Float32, Float64:
		return KindFloat
	case Complex64, Complex128:
		return KindComplex
	default:
		panic(fmt.Sprintf("unknown data type %d", int(dt)))
	}
}

// String returns a human-readable name for the data type.
func (dt DType) String() string {
	switch dt {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	default:
		return "unknown"
	}
}

// Char returns the single-character type code used by NumPy.
func (dt DType) Char() byte {
	return "?bBhHiIlLefdFD"[dt]
}

// Parse returns the data type with the given name or NumPy type code.
func Parse(s string) (DType, error) {
	for _, dt := range All() {
		if dt.String() == s || (len(s) == 1 && dt.Char() == s[0]) {
			return dt, nil
		}
	}
	switch s {
	case "f2":
		return Float16, nil
	case "f4":
		return Float32, nil
	case "f8":
		return Float64, nil
	case "c8":
		return Complex64, nil
	case "c16":
		return Complex128, nil
	case "i4":
		return Int32, nil
	case "i8":
		return Int64, nil
	}
	return 0, fmt.Errorf("data type %q not understood", s)
}

// IsBool reports whether dt is the boolean type.
func (dt DType) IsBool() bool { return dt == Bool }

// IsInteger reports whether dt is a signed or unsigned integer type.
func (dt DType) IsInteger() bool {
	k := dt.Kind()
	return k == KindInt || k == KindUint
}

// IsExact reports whether dt is a boolean or integer type.
func (dt DType) IsExact() bool { return dt.IsBool() || dt.IsInteger() }

// IsFloating reports whether dt is a real floating-point type.
func (dt DType) IsFloating() bool { return dt.Kind() == KindFloat }

// IsComplex reports whether dt is a complex floating-point type.
func (dt DType) IsComplex() bool { return dt.Kind() == KindComplex }

// IsInexact reports whether dt is a real or complex floating-point type.
func (dt DType) IsInexact() bool { return dt.IsFloating() || dt.IsComplex() }

// RealOf returns the real component type of a complex type, or dt itself.
func (dt DType) RealOf() DType {
	switch dt {
	case Complex64:
		return Float32
	case Complex128:
		return Float64
	default:
		return dt
	}
}

// ComplexOf returns the complex type whose components have type dt.
// Float16 maps to Complex64.
func (dt DType) ComplexOf() DType {
	switch dt {
	case Float16, Float32, Complex64:
		return Complex64
	case Float64, Complex128:
		return Complex128
	default:
		panic(fmt.Sprintf("no complex type for %s", dt))
	}
}
