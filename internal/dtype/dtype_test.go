package dtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type caps struct{ fp16, fp64 bool }

func (c caps) HasFP16() bool { return c.fp16 }
func (c caps) HasFP64() bool { return c.fp64 }

var (
	fullDevice = caps{fp16: true, fp64: true}
	fp32Device = caps{}
)

func TestDType_SizeKindString(t *testing.T) {
	assert.Equal(t, 1, Bool.Size())
	assert.Equal(t, 2, Float16.Size())
	assert.Equal(t, 16, Complex128.Size())
	assert.Equal(t, KindUint, Uint32.Kind())
	assert.Equal(t, "unsigned integer", Uint32.Kind().String())
	assert.Equal(t, "complex", KindComplex.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
	assert.Equal(t, "complex64", Complex64.String())
	assert.Equal(t, byte('?'), Bool.Char())
	assert.Equal(t, byte('D'), Complex128.Char())
	assert.True(t, Int16.IsExact())
	assert.True(t, Complex64.IsInexact())
	assert.False(t, Uint8.IsInexact())
}

func TestParse(t *testing.T) {
	for _, dt := range All() {
		got, err := Parse(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt, got)
	}
	got, err := Parse("f4")
	require.NoError(t, err)
	assert.Equal(t, Float32, got)

	_, err = Parse("float128")
	assert.Error(t, err)
}

func TestResultType(t *testing.T) {
	tests := []struct {
		a, b, want DType
	}{
		{Bool, Int8, Int8},
		{Int8, Uint8, Int16},
		{Uint16, Int16, Int32},
		{Uint32, Int64, Int64},
		{Uint64, Int64, Float64},
		{Int8, Float16, Float16},
		{Int16, Float16, Float32},
		{Int32, Float32, Float64},
		{Float32, Float64, Float64},
		{Float64, Complex64, Complex128},
		{Float16, Complex64, Complex64},
		{Int64, Complex64, Complex128},
		{Complex64, Complex128, Complex128},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResultType(tt.a, tt.b), "%s + %s", tt.a, tt.b)
		assert.Equal(t, tt.want, ResultType(tt.b, tt.a), "%s + %s", tt.b, tt.a)
	}
	assert.Equal(t, Float64, ResultType(Int8, Uint8, Float32, Int32))
}

func TestCanCast(t *testing.T) {
	assert.True(t, CanCast(Int32, Int32, CastNo))
	assert.False(t, CanCast(Int32, Int64, CastNo))
	assert.True(t, CanCast(Int32, Int64, CastSafe))
	assert.True(t, CanCast(Int64, Float64, CastSafe))
	assert.False(t, CanCast(Int64, Float32, CastSafe))
	assert.True(t, CanCast(Int64, Float32, CastSameKind))
	assert.True(t, CanCast(Float64, Float32, CastSameKind))
	assert.False(t, CanCast(Float64, Int64, CastSameKind))
	assert.False(t, CanCast(Int64, Uint8, CastSameKind))
	assert.True(t, CanCast(Uint64, Int8, CastSameKind))
	assert.True(t, CanCast(Complex128, Bool, CastUnsafe))
	assert.True(t, CanCast(Bool, Complex64, CastSafe))
	assert.False(t, CanCast(Complex64, Float64, CastSafe))
}

func TestParseCasting(t *testing.T) {
	c, err := ParseCasting("SAFE")
	require.NoError(t, err)
	assert.Equal(t, CastSafe, c)
	_, err = ParseCasting("sometimes")
	assert.Error(t, err)
}

func TestDeviceDefaults(t *testing.T) {
	assert.Equal(t, Float64, DefaultFloat(fullDevice))
	assert.Equal(t, Float32, DefaultFloat(fp32Device))
	assert.Equal(t, Complex64, DefaultComplex(fp32Device))
	assert.Equal(t, Int64, DefaultInt(fp32Device))
	assert.Equal(t, Float32, MapToDevice(Float64, fp32Device))
	assert.Equal(t, Complex64, MapToDevice(Complex128, fp32Device))
	assert.Equal(t, Float64, MapToDevice(Float64, fullDevice))
	assert.NotContains(t, AllOn(fp32Device), Float64)
	assert.Contains(t, AllOn(fullDevice), Float16)
}

func TestCanCastOn(t *testing.T) {
	assert.False(t, CanCastOn(Int64, Float64, fp32Device, CastSafe))
	assert.True(t, CanCastOn(Int64, Float32, fp32Device, CastSafe))
	assert.False(t, CanCastOn(Int64, Float32, fullDevice, CastSafe))
	assert.True(t, CanCastOn(Int32, Complex64, fp32Device, CastSafe))
}

func TestResolveWeakTypes(t *testing.T) {
	d1, d2, err := ResolveWeakTypes(Strong(Int32), Weak(WeakInt), fullDevice)
	require.NoError(t, err)
	assert.Equal(t, Int32, d1)
	assert.Equal(t, Int32, d2)

	d1, d2, err = ResolveWeakTypes(Weak(WeakFloat), Strong(Int16), fullDevice)
	require.NoError(t, err)
	assert.Equal(t, Float64, d1)
	assert.Equal(t, Int16, d2)

	_, d2, err = ResolveWeakTypes(Strong(Int8), Weak(WeakFloat), fp32Device)
	require.NoError(t, err)
	assert.Equal(t, Float32, d2)

	_, d2, err = ResolveWeakTypes(Strong(Float32), Weak(WeakComplex), fullDevice)
	require.NoError(t, err)
	assert.Equal(t, Complex64, d2)

	_, d2, err = ResolveWeakTypes(Strong(Float64), Weak(WeakComplex), fullDevice)
	require.NoError(t, err)
	assert.Equal(t, Complex128, d2)

	_, _, err = ResolveWeakTypes(Weak(WeakInt), Weak(WeakFloat), fullDevice)
	assert.Error(t, err)
}

func TestWeakTypeOf(t *testing.T) {
	w, ok := WeakTypeOf(true)
	assert.True(t, ok)
	assert.Equal(t, WeakBool, w)
	w, _ = WeakTypeOf(uint16(3))
	assert.Equal(t, WeakInt, w)
	w, _ = WeakTypeOf(float32(1))
	assert.Equal(t, WeakFloat, w)
	w, _ = WeakTypeOf(complex(1, 2))
	assert.Equal(t, WeakComplex, w)
	_, ok = WeakTypeOf("x")
	assert.False(t, ok)

	assert.Equal(t, 1, Weak(WeakInt).KindRank())
	assert.Equal(t, 2, Strong(Float16).KindRank())
}
