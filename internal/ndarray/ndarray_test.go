package ndarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
)

func testQueue() *device.Queue {
	return device.NewQueue(device.New("test", device.CPU, 0, true, true, false))
}

func arange(t *testing.T, q *device.Queue, dt dtype.DType, shape ...int) *Array {
	t.Helper()
	n := Shape(shape).NumElements()
	vals := make([]Scalar, n)
	for i := range vals {
		vals[i] = IntScalar(int64(i))
	}
	a, err := FromScalars(vals, shape, dt, q, device.USMDevice)
	require.NoError(t, err)
	return a
}

func TestShape(t *testing.T) {
	s := Shape{2, 3, 4}
	assert.Equal(t, 24, s.NumElements())
	assert.Equal(t, []int{12, 4, 1}, s.ComputeStrides())
	assert.Equal(t, []int{1, 2, 6}, s.ComputeStridesF())
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Error(t, Shape{2, -1}.Validate())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Shape
		want    Shape
		wantErr bool
	}{
		{"same", Shape{3, 4}, Shape{3, 4}, Shape{3, 4}, false},
		{"trailing one", Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, false},
		{"rank extend", Shape{5}, Shape{2, 3, 5}, Shape{2, 3, 5}, false},
		{"scalar", Shape{}, Shape{2}, Shape{2}, false},
		{"zero", Shape{0, 1}, Shape{1, 4}, Shape{0, 4}, false},
		{"mismatch", Shape{3, 4}, Shape{3, 5}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromSliceRoundTrip(t *testing.T) {
	q := testQueue()
	a, err := FromSlice([]float32{1.5, -2, 3}, Shape{3}, q, device.USMDevice)
	require.NoError(t, err)
	assert.Equal(t, dtype.Float32, a.DType())

	got, err := a.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2, 3}, got)

	h, err := FromScalars([]Scalar{FloatScalar(0.5), FloatScalar(65504)}, Shape{2}, dtype.Float16, q, device.USMDevice)
	require.NoError(t, err)
	got, err = h.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 65504}, got)
}

func TestEmptyRejectsUnsupportedType(t *testing.T) {
	q := device.NewQueue(device.New("gpu", device.GPU, 0, false, false, false))
	_, err := Empty(Shape{2}, dtype.Float64, q, device.USMDevice, OrderC)
	assert.Error(t, err)
	_, err = Empty(Shape{2}, dtype.Float32, q, device.USMDevice, OrderC)
	assert.NoError(t, err)
}

func TestEmptyStrided_ChecksQueueAndType(t *testing.T) {
	_, err := EmptyStrided(Shape{2, 3}, []int{1, 2}, dtype.Float32, nil, device.USMDevice)
	assert.Error(t, err)

	q := device.NewQueue(device.New("gpu", device.GPU, 0, false, false, false))
	_, err = EmptyStrided(Shape{2, 3}, []int{1, 2}, dtype.Float64, q, device.USMDevice)
	assert.Error(t, err)
	_, err = EmptyStrided(Shape{2, 3}, []int{1, 2}, dtype.Float16, q, device.USMDevice)
	assert.Error(t, err)

	a, err := EmptyStrided(Shape{2, 3}, []int{1, 2}, dtype.Float32, q, device.USMDevice)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, a.Strides())
	assert.True(t, a.IsFContiguous())
}

func TestContiguity(t *testing.T) {
	q := testQueue()
	a := arange(t, q, dtype.Int64, 2, 3)
	assert.True(t, a.IsCContiguous())
	assert.False(t, a.IsFContiguous())

	at, err := Transpose(a)
	require.NoError(t, err)
	assert.True(t, at.IsFContiguous())
	assert.False(t, at.IsCContiguous())

	f, err := Empty(Shape{2, 3}, dtype.Float32, q, device.USMDevice, OrderF)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, f.Strides())

	row := arange(t, q, dtype.Int64, 1, 4)
	assert.True(t, row.IsCContiguous())
	assert.True(t, row.IsFContiguous())
}

func TestTransposeAndReshape(t *testing.T) {
	q := testQueue()
	a := arange(t, q, dtype.Int64, 2, 3)
	at, err := Transpose(a)
	require.NoError(t, err)

	flat, err := Reshape(at, Shape{-1})
	require.NoError(t, err)
	got, err := flat.Int64s()
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 3, 1, 4, 2, 5}, got)
	assert.False(t, SameBuffer(flat, a))

	v, err := Reshape(a, Shape{3, 2})
	require.NoError(t, err)
	assert.True(t, SameBuffer(v, a))

	_, err = Reshape(a, Shape{4, -1})
	assert.Error(t, err)
	_, err = Reshape(a, Shape{-1, -1})
	assert.Error(t, err)
}

func TestMoveAxis(t *testing.T) {
	q := testQueue()
	a := arange(t, q, dtype.Int64, 2, 3, 4)
	m, err := MoveAxis(a, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 4, 2}, m.Shape())
	assert.Equal(t, []int{4, 1, 12}, m.Strides())

	back, err := MoveAxis(m, -1, 0)
	require.NoError(t, err)
	assert.True(t, SameLogicalTensors(a, back))
}

func TestExpandAndSqueeze(t *testing.T) {
	q := testQueue()
	a := arange(t, q, dtype.Int64, 3)
	e, err := ExpandDims(a, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, Shape{1, 3, 1}, e.Shape())

	s, err := Squeeze(e)
	require.NoError(t, err)
	assert.Equal(t, Shape{3}, s.Shape())

	_, err = Squeeze(e, 1)
	assert.Error(t, err)
}

func TestSliceAndFlip(t *testing.T) {
	q := testQueue()
	a := arange(t, q, dtype.Int64, 6)

	s, err := Slice(a, 0, 1, 5, 2)
	require.NoError(t, err)
	got, err := s.Int64s()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, got)

	r, err := Flip(a, 0)
	require.NoError(t, err)
	assert.True(t, r.HasNegativeStrides())
	got, err = r.Int64s()
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 4, 3, 2, 1, 0}, got)

	empty, err := Slice(a, 0, 4, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Size())
}

func TestBroadcastTo(t *testing.T) {
	q := testQueue()
	a := arange(t, q, dtype.Int64, 3)
	b, err := BroadcastTo(a, Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, b.Strides())
	got, err := b.Int64s()
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 2, 0, 1, 2}, got)

	_, err = BroadcastTo(a, Shape{2, 4})
	assert.Error(t, err)
}

func TestCopyIntoCastsAndBroadcasts(t *testing.T) {
	q := testQueue()
	src, err := FromSlice([]float64{1.7, -2.2}, Shape{2}, q, device.USMDevice)
	require.NoError(t, err)
	dst, err := Empty(Shape{2, 2}, dtype.Int32, q, device.USMDevice, OrderC)
	require.NoError(t, err)

	_, err = CopyInto(dst, src)
	require.NoError(t, err)
	got, err := dst.Int64s()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, -2, 1, -2}, got)

	bad, err := Empty(Shape{3}, dtype.Int32, q, device.USMDevice, OrderC)
	require.NoError(t, err)
	_, err = CopyInto(bad, src)
	assert.Error(t, err)
}

func TestCopyIntoOverlapping(t *testing.T) {
	q := testQueue()
	a := arange(t, q, dtype.Int64, 5)
	head, err := Slice(a, 0, 0, 4, 1)
	require.NoError(t, err)
	tail, err := Slice(a, 0, 1, 5, 1)
	require.NoError(t, err)

	_, err = CopyInto(tail, head)
	require.NoError(t, err)
	got, err := a.Int64s()
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 0, 1, 2, 3}, got)
}

func TestAsTypeNoCopy(t *testing.T) {
	q := testQueue()
	a := arange(t, q, dtype.Float32, 4)
	same, err := AsType(a, dtype.Float32, OrderK, false)
	require.NoError(t, err)
	assert.Same(t, a, same)

	c, err := AsType(a, dtype.Complex64, OrderK, false)
	require.NoError(t, err)
	vals, err := c.Complex128s()
	require.NoError(t, err)
	assert.Equal(t, []complex128{0, 1, 2, 3}, vals)
}

func TestFill(t *testing.T) {
	q := testQueue()
	a, err := Zeros(Shape{2, 2}, dtype.Bool, q, device.USMDevice, OrderC)
	require.NoError(t, err)
	require.NoError(t, Fill(a, IntScalar(3)).Wait())
	got, err := a.Bools()
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true, true}, got)
}

func TestOverlapAndSameLogical(t *testing.T) {
	q := testQueue()
	a := arange(t, q, dtype.Int64, 6)
	lo, err := Slice(a, 0, 0, 3, 1)
	require.NoError(t, err)
	hi, err := Slice(a, 0, 3, 6, 1)
	require.NoError(t, err)
	assert.False(t, Overlap(lo, hi))
	assert.True(t, Overlap(a, hi))

	v, err := Reshape(a, Shape{6})
	require.NoError(t, err)
	assert.True(t, SameLogicalTensors(a, v))
	assert.False(t, SameLogicalTensors(a, lo))
}

func TestItem(t *testing.T) {
	q := testQueue()
	a, err := Full(Shape{1}, FloatScalar(2.5), dtype.Float64, q, device.USMDevice)
	require.NoError(t, err)
	v, err := a.Item()
	require.NoError(t, err)
	assert.Equal(t, 2.5, v.Float())

	_, err = arange(t, q, dtype.Int64, 2).Item()
	assert.Error(t, err)
}

func TestScalarConversions(t *testing.T) {
	assert.Equal(t, int64(-2), FloatScalar(-2.9).Int())
	assert.Equal(t, uint64(255), IntScalar(-1).Uint()&0xff)
	assert.True(t, ComplexScalar(complex(0, 1)).Bool())
	assert.Equal(t, complex(3, 0), IntScalar(3).Complex())
	s, ok := ScalarOf(uint16(7))
	require.True(t, ok)
	assert.Equal(t, dtype.KindUint, s.Kind())
	_, ok = ScalarOf("x")
	assert.False(t, ok)
}
