package ufunc

import (
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/errs"
)

// AcceptNegative rejects boolean inputs of negative.
func AcceptNegative(arg, _, _ dtype.DType, _ dtype.Capabilities) (bool, error) {
	if arg == dtype.Bool {
		return false, errs.Type("The `negative` function, the `-` operator, is not supported for inputs of data type bool, " +
			"use the `~` operator or the `logical_not` function instead")
	}
	return true, nil
}

// AcceptPositive rejects boolean inputs of positive.
func AcceptPositive(arg, _, _ dtype.DType, _ dtype.Capabilities) (bool, error) {
	if arg == dtype.Bool {
		return false, errs.Type("The `positive` function is not supported for inputs of data type bool")
	}
	return true, nil
}

// AcceptSign rejects boolean inputs of sign.
func AcceptSign(arg, _, _ dtype.DType, _ dtype.Capabilities) (bool, error) {
	if arg == dtype.Bool {
		return false, errs.Type("The `sign` function is not supported for inputs of data type bool")
	}
	return true, nil
}

// AcceptReciprocal accepts a cast into another kind only when the result is
// the device default type of its kind, keeping reciprocal aligned with divide.
func AcceptReciprocal(arg, buf, res dtype.DType, caps dtype.Capabilities) (bool, error) {
	if buf.Kind() != arg.Kind() {
		return res == defaultOfKind(res.Kind(), caps), nil
	}
	return true, nil
}

// AcceptSubtract rejects subtracting boolean arrays.
func AcceptSubtract(arg1, arg2, _, _, _ dtype.DType, _ dtype.Capabilities) (bool, error) {
	if arg1 == dtype.Bool && arg2 == dtype.Bool {
		return false, errs.Type("The `subtract` function, the `-` operator, is not supported for inputs of data type bool, " +
			"use the `^` operator,  the `bitwise_xor`, or the `logical_xor` function instead")
	}
	return true, nil
}

// AcceptGCDLCM rejects boolean inputs of gcd and lcm.
func AcceptGCDLCM(arg1, arg2, _, _, _ dtype.DType, _ dtype.Capabilities) (bool, error) {
	if arg1 == dtype.Bool && arg2 == dtype.Bool {
		return false, errs.Value("The function is not supported for inputs of data type bool")
	}
	return true, nil
}

// AcceptDivide accepts promoting both arguments into another kind only when
// the result is the device default type of that kind. Integer division
// therefore yields the default floating type rather than the narrowest
// float both integers fit in.
func AcceptDivide(arg1, arg2, buf1, buf2, res dtype.DType, caps dtype.Capabilities) (bool, error) {
	if buf1.Kind() != arg1.Kind() && buf2.Kind() != arg2.Kind() {
		return res == defaultOfKind(res.Kind(), caps), nil
	}
	return true, nil
}

func defaultOfKind(k dtype.Kind, caps dtype.Capabilities) dtype.DType {
	switch k {
	case dtype.KindBool:
		return dtype.Bool
	case dtype.KindInt:
		return dtype.DefaultInt(caps)
	case dtype.KindUint:
		return dtype.Uint64
	case dtype.KindFloat:
		return dtype.DefaultFloat(caps)
	default:
		return dtype.DefaultComplex(caps)
	}
}
