package ndarray

import "fmt"

func (a *Array) view(shape Shape, strides []int, offset int) *Array {
	return &Array{
		buf:     a.buf,
		shape:   shape,
		strides: strides,
		offset:  offset,
		dtype:   a.dtype,
		queue:   a.queue,
		usm:     a.usm,
	}
}

// resolveShape replaces a single -1 dimension so that shape holds size elements.
func resolveShape(shape Shape, size int) (Shape, error) {
	res := shape.Clone()
	infer := -1
	known := 1
	for i, d := range res {
		switch {
		case d == -1:
			if infer >= 0 {
				return nil, fmt.Errorf("can only specify one unknown dimension")
			}
			infer = i
		case d < 0:
			return nil, fmt.Errorf("negative dimensions not allowed")
		default:
			known *= d
		}
	}
	if infer >= 0 {
		if known == 0 || size%known != 0 {
			return nil, fmt.Errorf("cannot reshape array of size %d into shape %v", size, []int(shape))
		}
		res[infer] = size / known
	}
	if res.NumElements() != size {
		return nil, fmt.Errorf("cannot reshape array of size %d into shape %v", size, []int(shape))
	}
	return res, nil
}

// Reshape returns a with a new shape in row-major element order. One
// dimension may be -1. The result is a view when a is C-contiguous,
// otherwise a C-ordered copy is made first.
func Reshape(a *Array, shape Shape) (*Array, error) {
	newShape, err := resolveShape(shape, a.Size())
	if err != nil {
		return nil, err
	}
	src := a
	if !a.IsCContiguous() {
		src, err = Copy(a, OrderC)
		if err != nil {
			return nil, err
		}
	}
	return src.view(newShape, newShape.ComputeStrides(), src.offset), nil
}

// Transpose permutes the axes of a. With no axes the order is reversed.
func Transpose(a *Array, axes ...int) (*Array, error) {
	n := a.NDim()
	if len(axes) == 0 {
		axes = make([]int, n)
		for i := range axes {
			axes[i] = n - 1 - i
		}
	}
	if len(axes) != n {
		return nil, fmt.Errorf("axes don't match array")
	}
	seen := make([]bool, n)
	shape := make(Shape, n)
	strides := make([]int, n)
	for i, ax := range axes {
		ax, err := NormalizeAxis(ax, n)
		if err != nil {
			return nil, err
		}
		if seen[ax] {
			return nil, fmt.Errorf("repeated axis in transpose")
		}
		seen[ax] = true
		shape[i] = a.shape[ax]
		strides[i] = a.strides[ax]
	}
	return a.view(shape, strides, a.offset), nil
}

// MoveAxis moves axis src of a to position dst, keeping the order of the
// other axes.
func MoveAxis(a *Array, src, dst int) (*Array, error) {
	n := a.NDim()
	src, err := NormalizeAxis(src, n)
	if err != nil {
		return nil, err
	}
	dst, err = NormalizeAxis(dst, n)
	if err != nil {
		return nil, err
	}
	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i != src {
			order = append(order, i)
		}
	}
	order = append(order[:dst], append([]int{src}, order[dst:]...)...)
	return Transpose(a, order...)
}

// ExpandDims inserts length-one axes at the given positions of the result.
func ExpandDims(a *Array, axes ...int) (*Array, error) {
	n := a.NDim() + len(axes)
	insert := make([]bool, n)
	for _, ax := range axes {
		ax, err := NormalizeAxis(ax, n)
		if err != nil {
			return nil, err
		}
		if insert[ax] {
			return nil, fmt.Errorf("repeated axis")
		}
		insert[ax] = true
	}
	shape := make(Shape, 0, n)
	strides := make([]int, 0, n)
	src := 0
	for i := 0; i < n; i++ {
		if insert[i] {
			shape = append(shape, 1)
			strides = append(strides, 0)
			continue
		}
		shape = append(shape, a.shape[src])
		strides = append(strides, a.strides[src])
		src++
	}
	return a.view(shape, strides, a.offset), nil
}

// Squeeze removes length-one axes. With no axes every length-one axis is removed.
func Squeeze(a *Array, axes ...int) (*Array, error) {
	drop := make([]bool, a.NDim())
	if len(axes) == 0 {
		for i, d := range a.shape {
			drop[i] = d == 1
		}
	}
	for _, ax := range axes {
		ax, err := NormalizeAxis(ax, a.NDim())
		if err != nil {
			return nil, err
		}
		if a.shape[ax] != 1 {
			return nil, fmt.Errorf("cannot select an axis to squeeze out which has size not equal to one")
		}
		drop[ax] = true
	}
	shape := make(Shape, 0, a.NDim())
	strides := make([]int, 0, a.NDim())
	for i, d := range a.shape {
		if !drop[i] {
			shape = append(shape, d)
			strides = append(strides, a.strides[i])
		}
	}
	return a.view(shape, strides, a.offset), nil
}

// Slice returns the view a[start:stop:step] along one axis, with Python
// slice semantics for negative and out-of-range bounds.
func Slice(a *Array, axis, start, stop, step int) (*Array, error) {
	axis, err := NormalizeAxis(axis, a.NDim())
	if err != nil {
		return nil, err
	}
	if step == 0 {
		return nil, fmt.Errorf("slice step cannot be zero")
	}
	n := a.shape[axis]
	start, stop = clampSlice(start, n, step), clampSlice(stop, n, step)
	count := 0
	switch {
	case step > 0 && stop > start:
		count = (stop - start + step - 1) / step
	case step < 0 && start > stop:
		count = (start - stop - step - 1) / -step
	}
	shape := a.shape.Clone()
	strides := append([]int(nil), a.strides...)
	shape[axis] = count
	strides[axis] = a.strides[axis] * step
	offset := a.offset
	if count > 0 {
		offset += start * a.strides[axis]
	}
	return a.view(shape, strides, offset), nil
}

func clampSlice(i, n, step int) int {
	if i < 0 {
		i += n
	}
	lo, hi := 0, n
	if step < 0 {
		lo, hi = -1, n-1
	}
	return min(max(i, lo), hi)
}

// Flip reverses the element order along one axis.
func Flip(a *Array, axis int) (*Array, error) {
	axis, err := NormalizeAxis(axis, a.NDim())
	if err != nil {
		return nil, err
	}
	return Slice(a, axis, -1, -a.shape[axis]-1, -1)
}

// BroadcastTo returns a read-only view of a with the given shape.
func BroadcastTo(a *Array, shape Shape) (*Array, error) {
	if len(shape) < a.NDim() {
		return nil, fmt.Errorf("cannot broadcast shape %v to %v", []int(a.shape), []int(shape))
	}
	lead := len(shape) - a.NDim()
	for i, d := range a.shape {
		if d != 1 && d != shape[lead+i] {
			return nil, fmt.Errorf("cannot broadcast shape %v to %v", []int(a.shape), []int(shape))
		}
	}
	ix := BroadcastIndexer(a, shape)
	return a.view(shape.Clone(), ix.strides, a.offset), nil
}

// WithStrides returns a view of the same elements with the given shape and
// strides. The caller guarantees that the layout addresses valid elements.
func WithStrides(a *Array, shape Shape, strides []int) *Array {
	return a.view(shape.Clone(), append([]int(nil), strides...), a.offset)
}
