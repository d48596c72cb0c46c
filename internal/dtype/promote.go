package dtype

// ResultType returns the type that results from applying the NumPy type
// promotion rules to the given types. It panics when called with no types.
func ResultType(dts ...DType) DType {
	if len(dts) == 0 {
		panic("ResultType: at least one data type is required")
	}
	res := dts[0]
	for _, dt := range dts[1:] {
		res = promote(res, dt)
	}
	return res
}

func promote(a, b DType) DType {
	if a == b {
		return a
	}
	ka, kb := a.Kind(), b.Kind()
	if ka == KindBool {
		return b
	}
	if kb == KindBool {
		return a
	}

	// Order by kind so that a has the "lower" kind.
	if kindRank(ka) > kindRank(kb) {
		a, b = b, a
		ka, kb = kb, ka
	}

	switch {
	case (ka == KindInt || ka == KindUint) && (kb == KindInt || kb == KindUint):
		return promoteIntegers(a, b)
	case ka == KindFloat && kb == KindFloat:
		return maxSize(a, b)
	case ka == KindComplex && kb == KindComplex:
		return maxSize(a, b)
	case kb == KindFloat:
		// a is integral.
		return maxSize(floatFor(a), b)
	case ka == KindFloat:
		// b is complex.
		return maxSize(a, b.RealOf()).ComplexOf()
	default:
		// a is integral, b is complex.
		return maxSize(floatFor(a), b.RealOf()).ComplexOf()
	}
}

func kindRank(k Kind) int {
	switch k {
	case KindBool:
		return 0
	case KindInt, KindUint:
		return 1
	case KindFloat:
		return 2
	default:
		return 3
	}
}

func promoteIntegers(a, b DType) DType {
	if a.Kind() == b.Kind() {
		return maxSize(a, b)
	}
	s, u := a, b
	if s.Kind() == KindUint {
		s, u = u, s
	}
	if s.Size() > u.Size() {
		return s
	}
	switch u.Size() {
	case 1:
		return Int16
	case 2:
		return Int32
	case 4:
		return Int64
	default:
		return Float64
	}
}

// floatFor returns the smallest floating type that can represent every value
// of the integral type dt.
func floatFor(dt DType) DType {
	switch dt.Size() {
	case 1:
		return Float16
	case 2:
		return Float32
	default:
		return Float64
	}
}

func maxSize(a, b DType) DType {
	if b.Size() > a.Size() {
		return b
	}
	return a
}
