package cpu

import (
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/ndarray"
)

// Bitwise and integer kernels.
var (
	BitwiseAnd = binary("bitwise_and", sameBinary(boolTypes, intTypes), binaryFuncs{
		b: func(x, y bool) bool { return x && y },
		i: func(x, y int64) int64 { return x & y },
		u: func(x, y uint64) uint64 { return x & y },
	}).withInplace()

	BitwiseOr = binary("bitwise_or", sameBinary(boolTypes, intTypes), binaryFuncs{
		b: func(x, y bool) bool { return x || y },
		i: func(x, y int64) int64 { return x | y },
		u: func(x, y uint64) uint64 { return x | y },
	}).withInplace()

	BitwiseXor = binary("bitwise_xor", sameBinary(boolTypes, intTypes), binaryFuncs{
		b: func(x, y bool) bool { return x != y },
		i: func(x, y int64) int64 { return x ^ y },
		u: func(x, y uint64) uint64 { return x ^ y },
	}).withInplace()

	Invert = unary("invert", sameUnary(boolTypes, intTypes), unaryFuncs{
		b: func(x bool) bool { return !x },
		i: func(x int64) int64 { return ^x },
		u: func(x uint64) uint64 { return ^x },
	})

	LeftShift = newBinary("left_shift", sameBinary(intTypes), func(x, y ndarray.Scalar, dt dtype.DType) ndarray.Scalar {
		bits := int64(dt.Size() * 8)
		if x.Kind() == dtype.KindUint {
			n := y.Uint()
			if n >= uint64(bits) {
				return ndarray.UintScalar(0)
			}
			return ndarray.UintScalar(x.Uint() << n)
		}
		n := y.Int()
		if n < 0 || n >= bits {
			return ndarray.IntScalar(0)
		}
		return ndarray.IntScalar(x.Int() << uint(n))
	}).withInplace()

	RightShift = newBinary("right_shift", sameBinary(intTypes), func(x, y ndarray.Scalar, dt dtype.DType) ndarray.Scalar {
		bits := int64(dt.Size() * 8)
		if x.Kind() == dtype.KindUint {
			n := y.Uint()
			if n >= uint64(bits) {
				return ndarray.UintScalar(0)
			}
			return ndarray.UintScalar(x.Uint() >> n)
		}
		n := y.Int()
		if n < 0 || n >= bits {
			if x.Int() < 0 {
				return ndarray.IntScalar(-1)
			}
			return ndarray.IntScalar(0)
		}
		return ndarray.IntScalar(x.Int() >> uint(n))
	}).withInplace()

	Gcd = binary("gcd", sameBinary(intTypes), binaryFuncs{
		i: func(x, y int64) int64 { return int64(gcd(absInt(x), absInt(y))) },
		u: gcd,
	})

	Lcm = binary("lcm", sameBinary(intTypes), binaryFuncs{
		i: func(x, y int64) int64 { return int64(lcm(absInt(x), absInt(y))) },
		u: lcm,
	})
)

func absInt(x int64) uint64 {
	if x < 0 {
		return uint64(-x)
	}
	return uint64(x)
}

func gcd(x, y uint64) uint64 {
	for y != 0 {
		x, y = y, x%y
	}
	return x
}

func lcm(x, y uint64) uint64 {
	if x == 0 || y == 0 {
		return 0
	}
	return x / gcd(x, y) * y
}
