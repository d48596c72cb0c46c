package dtype

// Capabilities describes the data type support of a compute device.
type Capabilities interface {
	HasFP16() bool
	HasFP64() bool
}

// SupportedOn reports whether arrays of type dt can be allocated on a device.
func SupportedOn(dt DType, caps Capabilities) bool {
	switch dt {
	case Float16:
		return caps.HasFP16()
	case Float64, Complex128:
		return caps.HasFP64()
	default:
		return true
	}
}

// AllOn returns every data type the device supports, in resolution order.
func AllOn(caps Capabilities) []DType {
	res := make([]DType, 0, len(All()))
	for _, dt := range All() {
		if SupportedOn(dt, caps) {
			res = append(res, dt)
		}
	}
	return res
}

// DefaultInt returns the default integer type of a device.
func DefaultInt(Capabilities) DType { return Int64 }

// DefaultIndex returns the default index type of a device.
func DefaultIndex(Capabilities) DType { return Int64 }

// DefaultFloat returns the default real floating type of a device.
func DefaultFloat(caps Capabilities) DType {
	if caps.HasFP64() {
		return Float64
	}
	return Float32
}

// DefaultComplex returns the default complex type of a device.
func DefaultComplex(caps Capabilities) DType {
	if caps.HasFP64() {
		return Complex128
	}
	return Complex64
}

// MapToDevice returns dt if the device supports it, otherwise the closest
// type of the same kind the device does support.
func MapToDevice(dt DType, caps Capabilities) DType {
	if SupportedOn(dt, caps) {
		return dt
	}
	switch dt {
	case Float16:
		return Float32
	case Float64:
		return Float32
	case Complex128:
		return Complex64
	default:
		return dt
	}
}

// CanCastOn reports whether from can be cast to to on a device with the
// given capabilities. On devices missing fp16 or fp64 support, exact types
// are also allowed to cast into the widest inexact type of the target kind.
func CanCastOn(from, to DType, caps Capabilities, casting Casting) bool {
	if !SupportedOn(to, caps) {
		return false
	}
	ok := CanCast(from, to, casting)
	if caps.HasFP16() && caps.HasFP64() {
		return ok
	}
	if !ok && from.IsExact() && to.IsInexact() && isMaximalInexact(to, caps) {
		return true
	}
	return ok
}

func isMaximalInexact(dt DType, caps Capabilities) bool {
	if caps.HasFP64() {
		return dt == Float64 || dt == Complex128
	}
	return dt == Float32 || dt == Complex64
}
