package dtype

import (
	"fmt"
	"strings"
)

// Casting controls what kind of data casting may occur.
type Casting int

// Casting rules, from the strictest to the most permissive.
const (
	CastNo Casting = iota
	CastEquiv
	CastSafe
	CastSameKind
	CastUnsafe
)

// String returns the NumPy name of the casting rule.
func (c Casting) String() string {
	switch c {
	case CastNo:
		return "no"
	case CastEquiv:
		return "equiv"
	case CastSafe:
		return "safe"
	case CastSameKind:
		return "same_kind"
	case CastUnsafe:
		return "unsafe"
	default:
		return "unknown"
	}
}

// ParseCasting parses a NumPy casting rule name.
func ParseCasting(s string) (Casting, error) {
	switch strings.ToLower(s) {
	case "no":
		return CastNo, nil
	case "equiv":
		return CastEquiv, nil
	case "safe":
		return CastSafe, nil
	case "same_kind", "":
		return CastSameKind, nil
	case "unsafe":
		return CastUnsafe, nil
	default:
		return 0, fmt.Errorf("casting must be one of 'no', 'equiv', 'safe', 'same_kind', or 'unsafe' (got %q)", s)
	}
}

// CanCast reports whether a cast from one type to another may occur
// under the given casting rule.
func CanCast(from, to DType, casting Casting) bool {
	switch casting {
	case CastNo, CastEquiv:
		return from == to
	case CastSafe:
		return canCastSafe(from, to)
	case CastSameKind:
		return canCastSafe(from, to) || sameKindOrder(from.Kind()) <= sameKindOrder(to.Kind())
	default:
		return true
	}
}

func sameKindOrder(k Kind) int {
	switch k {
	case KindBool:
		return 0
	case KindUint:
		return 1
	case KindInt:
		return 2
	case KindFloat:
		return 3
	default:
		return 4
	}
}

func canCastSafe(from, to DType) bool {
	if from == to || from == Bool {
		return true
	}
	fk, tk := from.Kind(), to.Kind()
	switch fk {
	case KindUint:
		switch tk {
		case KindUint:
			return to.Size() >= from.Size()
		case KindInt:
			return to.Size() > from.Size()
		case KindFloat:
			return to.Size() >= floatFor(from).Size()
		case KindComplex:
			return to.RealOf().Size() >= floatFor(from).Size()
		}
	case KindInt:
		switch tk {
		case KindInt:
			return to.Size() >= from.Size()
		case KindFloat:
			return to.Size() >= floatFor(from).Size()
		case KindComplex:
			return to.RealOf().Size() >= floatFor(from).Size()
		}
	case KindFloat:
		switch tk {
		case KindFloat:
			return to.Size() >= from.Size()
		case KindComplex:
			return to.RealOf().Size() >= from.Size()
		}
	case KindComplex:
		return tk == KindComplex && to.Size() >= from.Size()
	}
	return false
}
