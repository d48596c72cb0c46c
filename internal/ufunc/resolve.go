package ufunc

import (
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/errs"
)

// UnaryAcceptance decides whether casting an argument of type arg into a
// buffer of type buf, producing res, is acceptable on a device. It is only
// consulted when a cast is needed. A non-nil error aborts the call.
type UnaryAcceptance func(arg, buf, res dtype.DType, caps dtype.Capabilities) (bool, error)

// BinaryAcceptance is the two-argument counterpart of UnaryAcceptance. It
// is only consulted when both arguments need a cast.
type BinaryAcceptance func(arg1, arg2, buf1, buf2, res dtype.DType, caps dtype.Capabilities) (bool, error)

// WeakResolver binds weak scalar argument types to concrete data types.
type WeakResolver func(o1, o2 dtype.ArgType, caps dtype.Capabilities) (dtype.DType, dtype.DType, error)

// UnaryResolution is the outcome of buffer type resolution for a unary
// call. Buf is nil when the argument is used as is.
type UnaryResolution struct {
	Buf    *dtype.DType
	Result dtype.DType
}

// Resolution is the outcome of buffer type resolution for a binary call.
type Resolution struct {
	Buf1, Buf2 *dtype.DType
	Result     dtype.DType
}

func ptr(dt dtype.DType) *dtype.DType { return &dt }

// findBufDType resolves the buffer type of a unary call: the argument type
// itself if the kernel implements it, else the first safe cast target the
// kernel implements and the acceptance hook allows.
func findBufDType(name string, arg dtype.DType, query func(dtype.DType) (dtype.DType, bool),
	caps dtype.Capabilities, accept UnaryAcceptance,
) (UnaryResolution, error) {
	if res, ok := query(arg); ok {
		return UnaryResolution{Result: res}, nil
	}
	for _, buf := range dtype.AllOn(caps) {
		if !dtype.CanCastOn(arg, buf, caps, dtype.CastSafe) {
			continue
		}
		res, ok := query(buf)
		if !ok {
			continue
		}
		if accept != nil {
			ok, err := accept(arg, buf, res, caps)
			if err != nil {
				return UnaryResolution{}, err
			}
			if !ok {
				continue
			}
		}
		return UnaryResolution{Buf: ptr(buf), Result: res}, nil
	}
	return UnaryResolution{}, errs.Type("function '%s' does not support input type (%s), and the input could not be "+
		"safely coerced to any supported types according to the casting rule ''safe''.", name, arg)
}

// findBufDType2 resolves the buffer types of a binary call. The acceptance
// hook is only consulted when both arguments need a cast.
func findBufDType2(name string, arg1, arg2 dtype.DType, query func(dtype.DType, dtype.DType) (dtype.DType, bool),
	caps dtype.Capabilities, accept BinaryAcceptance,
) (Resolution, error) {
	if res, ok := query(arg1, arg2); ok {
		return Resolution{Result: res}, nil
	}
	all := dtype.AllOn(caps)
	for _, buf1 := range all {
		if !dtype.CanCastOn(arg1, buf1, caps, dtype.CastSafe) {
			continue
		}
		for _, buf2 := range all {
			if !dtype.CanCastOn(arg2, buf2, caps, dtype.CastSafe) {
				continue
			}
			res, ok := query(buf1, buf2)
			if !ok {
				continue
			}
			var r Resolution
			r.Result = res
			if buf1 != arg1 {
				r.Buf1 = ptr(buf1)
			}
			if buf2 != arg2 {
				r.Buf2 = ptr(buf2)
			}
			if r.Buf1 == nil || r.Buf2 == nil || accept == nil {
				return r, nil
			}
			ok, err := accept(arg1, arg2, buf1, buf2, res, caps)
			if err != nil {
				return Resolution{}, err
			}
			if ok {
				return r, nil
			}
		}
	}
	return Resolution{}, errs.Type("function '%s' does not support input types (%s, %s), and the inputs could not be "+
		"safely coerced to any supported types according to the casting rule ''safe''.", name, arg1, arg2)
}

// findBufDTypeInplace resolves the buffer type of the right-hand side of an
// in-place update lhs = op(lhs, rhs). The left-hand side is never cast.
func findBufDTypeInplace(name string, arg1, arg2 dtype.DType, query func(dtype.DType, dtype.DType) (dtype.DType, bool),
	caps dtype.Capabilities,
) (UnaryResolution, error) {
	if res, ok := query(arg1, arg2); ok {
		return UnaryResolution{Result: res}, nil
	}
	if dtype.CanCastOn(arg2, arg1, caps, dtype.CastSameKind) {
		if res, ok := query(arg1, arg1); ok {
			return UnaryResolution{Buf: ptr(arg1), Result: res}, nil
		}
	}
	return UnaryResolution{}, errs.Type("function '%s' does not support input types (%s, %s), and the inputs could not be "+
		"coerced to any supported types according to the casting rule ''same_kind''.", name, arg1, arg2)
}

// ResolveWeakTypes2ndArgInt binds a weak boolean or integer second operand
// to the device default integer when its kind is lower than the first
// operand's kind, or when the first operand is an integer type narrower
// than the default integer. Other combinations use the generic rules.
func ResolveWeakTypes2ndArgInt(o1, o2 dtype.ArgType, caps dtype.Capabilities) (dtype.DType, dtype.DType, error) {
	if !o1.IsWeak() && o2.IsWeak() {
		w := o2.WeakType()
		if w == dtype.WeakBool || w == dtype.WeakInt {
			def := dtype.DefaultInt(caps)
			dt := o1.DType()
			narrow := dt.IsInteger() && dt.Size() < def.Size()
			if o2.KindRank() < o1.KindRank() || narrow {
				return dt, def, nil
			}
		}
	}
	return dtype.ResolveWeakTypes(o1, o2, caps)
}
