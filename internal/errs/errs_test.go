package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoriesAreDistinguishable(t *testing.T) {
	err := Type("the `sign` function is not supported for inputs of data type %s", "bool")
	assert.ErrorIs(t, err, ErrType)
	assert.NotErrorIs(t, err, ErrValue)
	assert.Contains(t, err.Error(), "`sign`")

	assert.ErrorIs(t, Value("size %d is different from %d", 3, 4), ErrValue)
	assert.ErrorIs(t, NotImplemented("where=%v", false), ErrNotImplemented)
	assert.ErrorIs(t, Placement("queues differ"), ErrPlacement)
}

func TestWrapKeepsCategory(t *testing.T) {
	err := Wrap(Value("bad axis"), "fft")
	assert.ErrorIs(t, err, ErrValue)
	assert.Contains(t, err.Error(), "fft: bad axis")

	assert.NoError(t, Wrap(nil, "fft"))
	assert.False(t, errors.Is(Wrap(Type("x"), "op"), ErrPlacement))
}
